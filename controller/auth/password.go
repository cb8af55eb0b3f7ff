package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/model"
	"opsboard/services"
)

func PasswordController(router *gin.Engine, users *services.UserService) {
	router.PUT("/auth/password", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		ChangePassword(c, users)
	})
}

func ChangePassword(c *gin.Context, users *services.UserService) {
	uid := c.MustGet("uid").(string)
	email, ok := c.Get("email")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email missing from token claims"})
		return
	}

	var request dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := users.ChangePassword(c.Request.Context(), uid, email.(string), request.CurrentPassword, request.NewPassword)
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
