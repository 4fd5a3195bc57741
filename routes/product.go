package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/shaddy-pv/AquaPurifier/controllers/product"
	"github.com/shaddy-pv/AquaPurifier/middleware"
)

func SetupProductRoutes(r *gin.Engine, deps Deps) {
	products := r.Group("/products")
	{
		// Public catalog
		products.GET("", productControllers.GetProducts(deps.DB))

		// Admin management
		admin := products.Group("")
		admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			admin.POST("", productControllers.CreateProduct(deps.DB))
			admin.PUT("/:id", productControllers.UpdateProduct(deps.DB))
			admin.DELETE("/:id", productControllers.DeleteProduct(deps.DB))
			admin.PATCH("/:id/stock", productControllers.UpdateStock(deps.DB))
			admin.GET("/export-excel", productControllers.ExportProductsToExcel(deps.DB))
		}

		products.GET("/:slug", productControllers.GetProductBySlug(deps.DB))
	}
}
