package auth

import (
	"tourbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", controller.Register) // POST /api/v1/auth/register
		authGroup.POST("/login", controller.Login)       // POST /api/v1/auth/login
	}

	profile := router.Group("/auth")
	profile.Use(middleware.JWTAuth())
	{
		profile.GET("/me", controller.Profile) // GET /api/v1/auth/me
	}
}
