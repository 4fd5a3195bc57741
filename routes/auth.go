package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/shaddy-pv/AquaPurifier/controllers/auth"
	"github.com/shaddy-pv/AquaPurifier/middleware"
)

func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authControllers.RegisterHandler(deps.DB))
		auth.POST("/login", authControllers.LoginHandler(deps.DB))

		auth.GET("/me", middleware.ValidateToken, authControllers.MeHandler(deps.DB))
		auth.PUT("/profile", middleware.ValidateToken, authControllers.UpdateProfileHandler(deps.DB))
		auth.POST("/change-password", middleware.ValidateToken, authControllers.ChangePasswordHandler(deps.DB))
	}
}
