package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/model"
	"opsboard/services"
)

func UserController(router *gin.Engine, svc *services.UserService) {
	routes := router.Group("/users", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListUsers(c, svc)
		})
		routes.POST("", middleware.AdminMiddleware(), func(c *gin.Context) {
			CreateUser(c, svc)
		})
		routes.PUT("/:uid/role", middleware.AdminMiddleware(), func(c *gin.Context) {
			UpdateRole(c, svc)
		})
		routes.PUT("/:uid/profile", func(c *gin.Context) {
			UpdateProfile(c, svc)
		})
		routes.DELETE("/:uid", middleware.AdminMiddleware(), func(c *gin.Context) {
			DeleteUser(c, svc)
		})
	}
}

func ListUsers(c *gin.Context, svc *services.UserService) {
	users, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []model.UserProfile{}
	}
	c.JSON(http.StatusOK, users)
}

func CreateUser(c *gin.Context, svc *services.UserService) {
	var request dto.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	uid, err := svc.Create(c.Request.Context(), request.Email, request.Password, request.Role, request.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"uid":     uid,
	})
}

func UpdateRole(c *gin.Context, svc *services.UserService) {
	var request dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := svc.UpdateRole(c.Request.Context(), c.Param("uid"), request.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully"})
}

// UpdateProfile lets a user rename themselves; admins can rename anyone.
func UpdateProfile(c *gin.Context, svc *services.UserService) {
	uid := c.Param("uid")
	callerUID := c.MustGet("uid").(string)
	if uid != callerUID {
		if role, ok := c.Get("role"); !ok || role.(string) != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	}

	var request dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	displayName := strings.TrimSpace(request.DisplayName)
	if len(displayName) < 2 || len(displayName) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Display name must be between 2 and 100 characters"})
		return
	}

	if err := svc.UpdateProfile(c.Request.Context(), uid, displayName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// DeleteUser cascades across the profile, subscription records, and task
// subscriber arrays before removing the auth account. The target email must
// be retyped to confirm.
func DeleteUser(c *gin.Context, svc *services.UserService) {
	uid := c.Param("uid")

	var request dto.DeleteUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	profile, err := svc.Get(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if !strings.EqualFold(request.ConfirmEmail, profile.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confirmation email does not match"})
		return
	}

	if err := svc.Delete(ctx, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var authErr *model.AuthError
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": authErr.Message, "code": authErr.Code})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
