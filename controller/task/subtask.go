package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/services"
)

func SubTaskController(router *gin.Engine, svc *services.TaskService) {
	routes := router.Group("/tasks/:id/subtasks", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			AddSubTask(c, svc)
		})
		routes.PUT("/:subId/toggle", func(c *gin.Context) {
			ToggleSubTask(c, svc)
		})
		routes.DELETE("/:subId", func(c *gin.Context) {
			DeleteSubTask(c, svc)
		})
	}
}

func AddSubTask(c *gin.Context, svc *services.TaskService) {
	var request dto.CreateSubTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := svc.AddSubTask(c.Request.Context(), c.Param("id"), request.Title); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subtask added"})
}

func ToggleSubTask(c *gin.Context, svc *services.TaskService) {
	if err := svc.ToggleSubTask(c.Request.Context(), c.Param("id"), c.Param("subId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subtask toggled"})
}

func DeleteSubTask(c *gin.Context, svc *services.TaskService) {
	if err := svc.DeleteSubTask(c.Request.Context(), c.Param("id"), c.Param("subId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subtask deleted"})
}
