package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting payment/confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // payment verified or confirmed manually
	OrderStatusProcessing OrderStatus = "processing" // being packed
	OrderStatusShipped    OrderStatus = "shipped"    // handed to courier
	OrderStatusDelivered  OrderStatus = "delivered"  // received by customer
	OrderStatusCancelled  OrderStatus = "cancelled"  // only reachable from pending/confirmed

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodUPI      PaymentMethod = "upi"
)

// orderStatusTransitions is the set of legal order-status edges. Status
// updates, including admin ones, must traverse these edges only.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal successors of s, for error messages.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	return orderStatusTransitions[s]
}

// ParseOrderStatus maps a request string to a known OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, true
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, true
	case OrderStatusProcessing:
		return OrderStatusProcessing, true
	case OrderStatusShipped:
		return OrderStatusShipped, true
	case OrderStatusDelivered:
		return OrderStatusDelivered, true
	case OrderStatusCancelled:
		return OrderStatusCancelled, true
	}
	return "", false
}

// ParsePaymentMethod maps a request string to a known PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(s)) {
	case PaymentMethodRazorpay:
		return PaymentMethodRazorpay, true
	case PaymentMethodCOD:
		return PaymentMethodCOD, true
	case PaymentMethodUPI:
		return PaymentMethodUPI, true
	}
	return "", false
}

// ShippingAddress is captured on the order at checkout and stays independent
// of later edits to the user's saved addresses.
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderNumber      string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID           string          `gorm:"not null;index" json:"user_id"`
	User             User            `gorm:"foreignKey:UserID" json:"user"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress  ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod    PaymentMethod   `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	PaymentStatus    PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentID        string          `json:"payment_id,omitempty"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	GatewaySignature string          `json:"gateway_signature,omitempty"`
	Subtotal         float64         `gorm:"not null" json:"subtotal"`
	Tax              float64         `gorm:"default:0" json:"tax"`
	Shipping         float64         `gorm:"default:0" json:"shipping"`
	Discount         float64         `gorm:"default:0" json:"discount"`
	Total            float64         `gorm:"not null" json:"total"`
	Status           OrderStatus     `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	TrackingNumber   string          `json:"tracking_number,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of the product at checkout time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}

// GenerateOrderNumber builds a unique uppercase order number, e.g.
// ORD1757300500123A3F0C.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return "ORD" + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
