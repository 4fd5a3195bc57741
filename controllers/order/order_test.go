package orderControllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shaddy-pv/AquaPurifier/models"
	"github.com/shaddy-pv/AquaPurifier/services"
	"github.com/shaddy-pv/AquaPurifier/testutil"
)

func seedUser(t *testing.T, db *gorm.DB) string {
	t.Helper()
	user := models.User{
		ID:       uuid.NewString(),
		Name:     "Test Customer",
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Role:     models.RoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Slug:        strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.NewString()[:8],
		Description: "RO purifier for testing",
		Price:       price,
		Category:    models.CategoryRO,
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func shippingAddress() ShippingAddressRequest {
	return ShippingAddressRequest{
		Name:    "Test Customer",
		Phone:   "+919876543210",
		Email:   "customer@example.com",
		Street:  "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		Pincode: "560001",
	}
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func TestPlaceOrder(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 5)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        499.99,
		Total:           499.99,
	}

	order, err := placeOrder(db, userID, req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodRazorpay, order.PaymentMethod)
	assert.Equal(t, userID, order.UserID)

	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, "AquaPure RO Classic", order.Items[0].Name)
	assert.InDelta(t, 499.99, order.Items[0].Price, 0.001)

	assert.Equal(t, 4, productStock(t, db, product.ID))
}

func TestPlaceOrderMultipleItems(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	purifier := seedProduct(t, db, "AquaPure UV Max", 7999, 10)
	filter := seedProduct(t, db, "Sediment Filter", 349.50, 20)

	req := CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: purifier.ID, Quantity: 2},
			{ProductID: filter.ID, Quantity: 3},
		},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		Subtotal:        2*7999 + 3*349.50,
		Tax:             100,
		Shipping:        50,
		Discount:        25,
		Total:           2*7999 + 3*349.50 + 100 + 50 - 25,
	}

	order, err := placeOrder(db, userID, req)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 8, productStock(t, db, purifier.ID))
	assert.Equal(t, 17, productStock(t, db, filter.ID))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 2)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        3 * 499.99,
		Total:           3 * 499.99,
	}

	_, err := placeOrder(db, userID, req)
	require.ErrorIs(t, err, errInsufficientStock)
	assert.Contains(t, err.Error(), "Available: 2")

	// Nothing committed.
	assert.Equal(t, 2, productStock(t, db, product.ID))
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderTotalsMismatch(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 5)

	// Client claims a cheaper subtotal than the catalog price.
	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        99.99,
		Total:           99.99,
	}

	_, err := placeOrder(db, userID, req)
	require.ErrorIs(t, err, errTotalsMismatch)
	assert.Equal(t, 5, productStock(t, db, product.ID))

	// Subtotal right, grand total inconsistent with its parts.
	req.Subtotal = 499.99
	req.Tax = 50
	req.Total = 499.99

	_, err = placeOrder(db, userID, req)
	require.ErrorIs(t, err, errTotalsMismatch)
	assert.Equal(t, 5, productStock(t, db, product.ID))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: 9999, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        100,
		Total:           100,
	}

	_, err := placeOrder(db, userID, req)
	require.ErrorIs(t, err, errProductNotFound)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "Discontinued Purifier", 999, 5)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        999,
		Total:           999,
	}

	_, err := placeOrder(db, userID, req)
	require.ErrorIs(t, err, errProductNotFound)
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	db := testutil.SetupTestPostgres(t)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: 1, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cheque",
		Subtotal:        100,
		Total:           100,
	}

	_, err := placeOrder(db, "user-1", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment method")
}

func gatewaySignature(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 5)

	order, err := placeOrder(db, userID, CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        499.99,
		Total:           499.99,
	})
	require.NoError(t, err)

	payments := services.NewPaymentService("key_id", "topsecret", "")

	r := gin.New()
	r.POST("/orders/verify-payment", VerifyPaymentHandler(db, payments))

	post := func(req VerifyPaymentRequest) *httptest.ResponseRecorder {
		body, err := json.Marshal(req)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		httpReq := httptest.NewRequest(http.MethodPost, "/orders/verify-payment", bytes.NewReader(body))
		httpReq.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, httpReq)
		return w
	}

	// Tampered signature: rejected, order row untouched.
	w := post(VerifyPaymentRequest{
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: "order_gw1",
		PaymentID:      "pay_123",
		Signature:      "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var untouched models.Order
	require.NoError(t, db.First(&untouched, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, untouched.Status)
	assert.Equal(t, models.PaymentStatusPending, untouched.PaymentStatus)
	assert.Empty(t, untouched.PaymentID)
	assert.Empty(t, untouched.GatewayOrderID)
	assert.Empty(t, untouched.GatewaySignature)

	// Matching signature: payment completed, order confirmed, correlation
	// ids recorded.
	sig := gatewaySignature("topsecret", "order_gw1", "pay_123")
	w = post(VerifyPaymentRequest{
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: "order_gw1",
		PaymentID:      "pay_123",
		Signature:      sig,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var verified models.Order
	require.NoError(t, db.First(&verified, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, verified.Status)
	assert.Equal(t, models.PaymentStatusCompleted, verified.PaymentStatus)
	assert.Equal(t, "pay_123", verified.PaymentID)
	assert.Equal(t, "order_gw1", verified.GatewayOrderID)
	assert.Equal(t, sig, verified.GatewaySignature)
}

func TestVerifyPaymentHandlerKeepsAdvancedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 5)

	order, err := placeOrder(db, userID, CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "razorpay",
		Subtotal:        499.99,
		Total:           499.99,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(order).Update("status", models.OrderStatusProcessing).Error)

	payments := services.NewPaymentService("key_id", "topsecret", "")

	r := gin.New()
	r.POST("/orders/verify-payment", VerifyPaymentHandler(db, payments))

	body, err := json.Marshal(VerifyPaymentRequest{
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: "order_gw2",
		PaymentID:      "pay_456",
		Signature:      gatewaySignature("topsecret", "order_gw2", "pay_456"),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/orders/verify-payment", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	assert.Equal(t, http.StatusOK, w.Code)

	// Payment is recorded, but an order already past pending keeps its
	// fulfilment status.
	var verified models.Order
	require.NoError(t, db.First(&verified, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, verified.Status)
	assert.Equal(t, models.PaymentStatusCompleted, verified.PaymentStatus)
	assert.Equal(t, "pay_456", verified.PaymentID)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	userID := seedUser(t, db)
	product := seedProduct(t, db, "AquaPure RO Classic", 499.99, 5)

	req := CreateOrderRequest{
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: shippingAddress(),
		PaymentMethod:   "cod",
		Subtotal:        2 * 499.99,
		Total:           2 * 499.99,
	}

	order, err := placeOrder(db, userID, req)
	require.NoError(t, err)
	assert.Equal(t, 3, productStock(t, db, product.ID))

	loaded, err := loadOrder(db, "orders.id = ?", order.ID)
	require.NoError(t, err)
	require.NoError(t, cancelOrder(db, loaded))

	var cancelled models.Order
	require.NoError(t, db.First(&cancelled, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, productStock(t, db, product.ID))
}
