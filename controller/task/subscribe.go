package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/services"
)

func SubscribeController(router *gin.Engine, svc *services.TaskService) {
	routes := router.Group("/tasks/:id/subscribe", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			Subscribe(c, svc)
		})
		routes.DELETE("", func(c *gin.Context) {
			Unsubscribe(c, svc)
		})
	}
}

func Subscribe(c *gin.Context, svc *services.TaskService) {
	uid := c.MustGet("uid").(string)

	var request dto.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := svc.Subscribe(c.Request.Context(), c.Param("id"), uid, request.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to task"})
}

func Unsubscribe(c *gin.Context, svc *services.TaskService) {
	uid := c.MustGet("uid").(string)

	if err := svc.Unsubscribe(c.Request.Context(), c.Param("id"), uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from task"})
}
