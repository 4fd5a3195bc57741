package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/services"
	"gorm.io/gorm"
)

// Deps carries the shared dependencies handed to every route group. The
// integration clients are built once in main and injected here, never
// constructed per request.
type Deps struct {
	DB       *gorm.DB
	Payments *services.PaymentService
	Notifier *services.Notifier
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)
	SetupProductRoutes(r, deps)
	SetupOrderRoutes(r, deps)
	SetupReviewRoutes(r, deps)
}
