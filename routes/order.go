package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/shaddy-pv/AquaPurifier/controllers/order"
	"github.com/shaddy-pv/AquaPurifier/middleware"
)

func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/orders")

	// websocket endpoint for real-time order updates
	orders.GET("/ws", orderControllers.OrderWebSocketHandler)

	orders.Use(middleware.ValidateToken)
	{
		// Checkout and payment flow
		orders.POST("", orderControllers.CreateOrderHandler(deps.DB, deps.Notifier))
		orders.POST("/create-payment", orderControllers.CreatePaymentHandler(deps.Payments))
		orders.POST("/verify-payment", orderControllers.VerifyPaymentHandler(deps.DB, deps.Payments))

		// Customer views
		orders.GET("/my-orders", orderControllers.GetMyOrdersHandler(deps.DB))
		orders.GET("/:orderNumber", orderControllers.GetOrderByNumberHandler(deps.DB))

		// Cancellation (owner or admin)
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(deps.DB, deps.Notifier))

		// Admin
		orders.GET("", middleware.RequireAdmin, orderControllers.GetAllOrdersHandler(deps.DB))
		orders.PATCH("/:id/status", middleware.RequireAdmin, orderControllers.UpdateOrderStatusHandler(deps.DB, deps.Notifier))
	}
}
