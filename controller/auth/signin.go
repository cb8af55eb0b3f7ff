package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/model"
	"opsboard/repository"
	"opsboard/services"
)

func SignInController(router *gin.Engine, users *services.UserService, identity *services.IdentityClient, userRepo *repository.UserRepository) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, users, identity, userRepo)
	})
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		Refresh(c, users, userRepo)
	})
}

func Signin(c *gin.Context, users *services.UserService, identity *services.IdentityClient, userRepo *repository.UserRepository) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	uid, err := identity.VerifyPassword(ctx, request.Email, request.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	// First authentication creates the profile, later ones bump lastLogin.
	profile, err := users.EnsureProfile(ctx, uid, request.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user profile"})
		return
	}

	accessToken, err := services.CreateAccessToken(uid, request.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}
	refreshToken, err := services.CreateRefreshToken(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create refresh token"})
		return
	}
	hashedRefreshToken, err := services.HashRefreshToken(refreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash refresh token"})
		return
	}

	now := time.Now()
	record := model.TokenRecord{
		UID:          uid,
		RefreshToken: hashedRefreshToken,
		CreatedAt:    now.Unix(),
		Revoked:      false,
		ExpiresIn:    int64((7 * 24 * time.Hour).Seconds()),
	}
	if err := userRepo.StoreRefreshToken(ctx, record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successfully",
		"user":    profile,
		"token": gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func Refresh(c *gin.Context, users *services.UserService, userRepo *repository.UserRepository) {
	uid := c.MustGet("uid").(string)
	refreshToken := c.MustGet("refreshToken").(string)

	ctx := c.Request.Context()
	record, err := userRepo.GetRefreshToken(ctx, uid)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load refresh token"})
		return
	}
	if record.Revoked || !services.CompareRefreshToken(record.RefreshToken, refreshToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is revoked or does not match"})
		return
	}

	profile, err := users.Get(ctx, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user profile"})
		return
	}

	accessToken, err := services.CreateAccessToken(uid, profile.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

func respondAuthError(c *gin.Context, err error) {
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	switch authErr.Code {
	case model.AuthWrongPassword, model.AuthRequiresRecentLogin:
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message, "code": authErr.Code})
	case model.AuthTooManyRequests:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": authErr.Message, "code": authErr.Code})
	case model.AuthWeakPassword:
		c.JSON(http.StatusBadRequest, gin.H{"error": authErr.Message, "code": authErr.Code})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": authErr.Message, "code": authErr.Code})
	}
}
