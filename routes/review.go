package routes

import (
	"github.com/gin-gonic/gin"
	reviewControllers "github.com/shaddy-pv/AquaPurifier/controllers/review"
	"github.com/shaddy-pv/AquaPurifier/middleware"
)

func SetupReviewRoutes(r *gin.Engine, deps Deps) {
	reviews := r.Group("/reviews")
	{
		// Public: approved reviews for a product
		reviews.GET("/product/:productID", reviewControllers.GetProductReviewsHandler(deps.DB))

		authed := reviews.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.POST("", reviewControllers.CreateReviewHandler(deps.DB))
			authed.PUT("/:id", reviewControllers.UpdateReviewHandler(deps.DB))
			authed.DELETE("/:id", reviewControllers.DeleteReviewHandler(deps.DB))
			authed.POST("/:id/helpful", reviewControllers.MarkHelpfulHandler(deps.DB))

			// Admin moderation
			authed.GET("", middleware.RequireAdmin, reviewControllers.GetAllReviewsHandler(deps.DB))
			authed.PATCH("/:id/approve", middleware.RequireAdmin, reviewControllers.ApproveReviewHandler(deps.DB))
			authed.PATCH("/:id/reject", middleware.RequireAdmin, reviewControllers.RejectReviewHandler(deps.DB))
		}
	}
}
