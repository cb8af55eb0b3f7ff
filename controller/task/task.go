package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/model"
	"opsboard/services"
)

func TaskController(router *gin.Engine, svc *services.TaskService) {
	routes := router.Group("/tasks", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, svc)
		})
		routes.DELETE("/:id", middleware.AdminMiddleware(), func(c *gin.Context) {
			DeleteTask(c, svc)
		})
		routes.PUT("/:id/status", func(c *gin.Context) {
			UpdateTaskStatus(c, svc)
		})
		routes.PUT("/:id/move", middleware.AdminMiddleware(), func(c *gin.Context) {
			MoveTask(c, svc)
		})
	}
}

func ListTasks(c *gin.Context, svc *services.TaskService) {
	tasks, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.BuildTask{}
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, svc *services.TaskService) {
	uid := c.MustGet("uid").(string)

	var request dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	taskID, err := svc.Add(c.Request.Context(), request.Title, request.Description, request.Priority, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"taskID":  taskID,
	})
}

func DeleteTask(c *gin.Context, svc *services.TaskService) {
	if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func UpdateTaskStatus(c *gin.Context, svc *services.TaskService) {
	var request dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), request.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task status updated"})
}

func MoveTask(c *gin.Context, svc *services.TaskService) {
	var request dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := svc.Move(c.Request.Context(), c.Param("id"), request.NewOrder); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task moved"})
}

func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
