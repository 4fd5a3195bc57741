package orderControllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"github.com/shaddy-pv/AquaPurifier/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// totalsTolerance is the largest accepted divergence between client-supplied
// and server-recomputed monetary fields (one minor currency unit).
const totalsTolerance = 0.01

// -------- Request Structs --------

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type ShippingAddressRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	Subtotal        float64                `json:"subtotal" binding:"gte=0"`
	Tax             float64                `json:"tax" binding:"gte=0"`
	Shipping        float64                `json:"shipping" binding:"gte=0"`
	Discount        float64                `json:"discount" binding:"gte=0"`
	Total           float64                `json:"total" binding:"gte=0"`
}

type CreatePaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	OrderNumber string  `json:"order_number" binding:"required"`
}

type VerifyPaymentRequest struct {
	OrderNumber    string `json:"order_number" binding:"required"`
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Notes          string `json:"notes"`
}

// -------- Core Logic --------

var (
	errProductNotFound   = errors.New("product not found")
	errInsufficientStock = errors.New("insufficient stock")
	errTotalsMismatch    = errors.New("totals mismatch")
)

// placeOrder runs the whole checkout in one transaction: lock products,
// verify stock, recompute money from catalog prices, decrement stock with a
// floor guard, insert the order. Any failure rolls the whole thing back.
func placeOrder(db *gorm.DB, userID string, req CreateOrderRequest) (*models.Order, error) {
	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("invalid payment method %q", req.PaymentMethod)
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		var items []models.OrderItem

		for _, it := range req.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ? AND is_active = ?", it.ProductID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", errProductNotFound, it.ProductID)
				}
				return err
			}

			if product.Stock < it.Quantity {
				return fmt.Errorf("%w for %s. Available: %d", errInsufficientStock, product.Name, product.Stock)
			}

			// Prices and snapshots come from the catalog, never the client.
			subtotal += product.Price * float64(it.Quantity)

			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Image:     image,
				Quantity:  it.Quantity,
			})
		}

		if math.Abs(subtotal-req.Subtotal) > totalsTolerance {
			return fmt.Errorf("%w: subtotal %.2f does not match catalog prices (%.2f)", errTotalsMismatch, req.Subtotal, subtotal)
		}
		expectedTotal := req.Subtotal + req.Tax + req.Shipping - req.Discount
		if math.Abs(expectedTotal-req.Total) > totalsTolerance {
			return fmt.Errorf("%w: total %.2f does not match %.2f", errTotalsMismatch, req.Total, expectedTotal)
		}

		// Decrement stock with a floor-at-zero guard. The rows are already
		// locked above, the guard keeps the invariant even so.
		for _, it := range req.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w for product %d", errInsufficientStock, it.ProductID)
			}
		}

		order = models.Order{
			OrderNumber: models.GenerateOrderNumber(),
			UserID:      userID,
			Items:       items,
			ShippingAddress: models.ShippingAddress{
				Name:    req.ShippingAddress.Name,
				Phone:   req.ShippingAddress.Phone,
				Email:   req.ShippingAddress.Email,
				Street:  req.ShippingAddress.Street,
				City:    req.ShippingAddress.City,
				State:   req.ShippingAddress.State,
				Pincode: req.ShippingAddress.Pincode,
			},
			PaymentMethod: method,
			PaymentStatus: models.PaymentStatusPending,
			Subtotal:      req.Subtotal,
			Tax:           req.Tax,
			Shipping:      req.Shipping,
			Discount:      req.Discount,
			Total:         req.Total,
			Status:        models.OrderStatusPending,
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// cancelOrder flips the order to cancelled and puts every item's quantity
// back on its product. Caller must have checked the transition is legal.
func cancelOrder(db *gorm.DB, order *models.Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func loadOrder(db *gorm.DB, where string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Where(where, args...).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, err := placeOrder(db, userID, req)
		if err != nil {
			switch {
			case errors.Is(err, errProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, errInsufficientStock), errors.Is(err, errTotalsMismatch):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order", "error": err.Error()})
			}
			return
		}

		order, err := loadOrder(db, "id = ?", created.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order", "error": err.Error()})
			return
		}

		// Best effort, never blocks or fails the request.
		notifier.OrderPlaced(*order)
		broadcastOrderEvent("order.created", *order)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order created successfully",
			"order":   order,
		})
	}
}

// POST /orders/create-payment
func CreatePaymentHandler(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		gatewayOrder, err := payments.CreateOrder(req.Amount, req.OrderNumber)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create payment order", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id": gatewayOrder.ID,
			"amount":   gatewayOrder.Amount,
			"currency": gatewayOrder.Currency,
		})
	}
}

// POST /orders/verify-payment
func VerifyPaymentHandler(db *gorm.DB, payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !payments.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
			return
		}

		order, err := loadOrder(db, "order_number = ?", req.OrderNumber)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		updates := map[string]interface{}{
			"payment_status":    models.PaymentStatusCompleted,
			"payment_id":        req.PaymentID,
			"gateway_order_id":  req.GatewayOrderID,
			"gateway_signature": req.Signature,
		}
		if order.Status == models.OrderStatusPending {
			updates["status"] = models.OrderStatusConfirmed
		}

		if err := db.Model(order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify payment", "error": err.Error()})
			return
		}

		broadcastOrderEvent("order.payment_verified", *order)

		c.JSON(http.StatusOK, gin.H{
			"message": "Payment verified successfully",
			"order":   order,
		})
	}
}

// GET /orders/my-orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderNumber
func GetOrderByNumberHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := loadOrder(db, "order_number = ?", c.Param("orderNumber"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order", "error": err.Error()})
			return
		}

		if order.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		page, limit := parsePagination(c, 20)

		query := db.Model(&models.Order{})
		if status != "" && status != "all" {
			if _, ok := models.ParseOrderStatus(status); !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
				return
			}
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders", "error": err.Error()})
			return
		}

		var orders []models.Order
		if err := query.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":     orders,
			"pagination": paginationEnvelope(page, limit, total),
		})
	}
}

// PATCH /orders/:id/status (admin)
// Transitions must follow the legal edges of the order-status table; an
// illegal edge is rejected with the allowed targets listed.
func UpdateOrderStatusHandler(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, ok := models.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}

		order, err := loadOrder(db, "orders.id = ?", c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if !order.Status.CanTransitionTo(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   fmt.Sprintf("Cannot move order from %s to %s", order.Status, newStatus),
				"allowed": order.Status.AllowedTransitions(),
			})
			return
		}

		if newStatus == models.OrderStatusCancelled {
			if err := cancelOrder(db, order); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cancel order", "error": err.Error()})
				return
			}
		} else {
			updates := map[string]interface{}{"status": newStatus}
			if req.TrackingNumber != "" {
				updates["tracking_number"] = req.TrackingNumber
			}
			if req.Notes != "" {
				updates["notes"] = req.Notes
			}
			if err := db.Model(order).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order status", "error": err.Error()})
				return
			}
		}

		notifier.OrderStatusChanged(*order, newStatus)
		broadcastOrderEvent("order.status_changed", *order)

		c.JSON(http.StatusOK, gin.H{
			"message": "Order status updated successfully",
			"order":   order,
		})
	}
}

// POST /orders/:id/cancel
func CancelOrderHandler(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := loadOrder(db, "orders.id = ?", c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if order.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order cannot be cancelled at this stage"})
			return
		}

		if err := cancelOrder(db, order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cancel order", "error": err.Error()})
			return
		}

		notifier.OrderStatusChanged(*order, models.OrderStatusCancelled)
		broadcastOrderEvent("order.cancelled", *order)

		c.JSON(http.StatusOK, gin.H{
			"message": "Order cancelled successfully",
			"order":   order,
		})
	}
}
