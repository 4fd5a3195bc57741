package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := NewPaymentService("key_id", "topsecret", "")

	valid := signPayload("topsecret", "order_abc", "pay_123")

	assert.True(t, svc.VerifySignature("order_abc", "pay_123", valid))
	assert.False(t, svc.VerifySignature("order_abc", "pay_123", "deadbeef"))
	assert.False(t, svc.VerifySignature("order_xyz", "pay_123", valid))
	assert.False(t, svc.VerifySignature("order_abc", "pay_123", ""))
}

func TestVerifySignatureMissingSecret(t *testing.T) {
	svc := NewPaymentService("key_id", "", "")

	// Fails closed rather than erroring out.
	valid := signPayload("", "order_abc", "pay_123")
	assert.False(t, svc.VerifySignature("order_abc", "pay_123", valid))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := NewPaymentService("key_id", "topsecret", "")

	body := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.VerifyWebhookSignature(body, valid))
	assert.False(t, svc.VerifyWebhookSignature([]byte(`{}`), valid))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "topsecret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_gw1","amount":49999,"currency":"INR","receipt":"ORD1","status":"created"}`))
	}))
	defer server.Close()

	svc := NewPaymentService("key_id", "topsecret", server.URL)

	order, err := svc.CreateOrder(499.99, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, "order_gw1", order.ID)
	assert.Equal(t, int64(49999), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	svc := NewPaymentService("key_id", "topsecret", server.URL)

	_, err := svc.CreateOrder(0.001, "ORD1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCreateOrderNotConfigured(t *testing.T) {
	svc := NewPaymentService("", "", "")

	_, err := svc.CreateOrder(100, "ORD1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_123/refund", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"rfnd_1","payment_id":"pay_123","amount":10000,"status":"processed"}`))
	}))
	defer server.Close()

	svc := NewPaymentService("key_id", "topsecret", server.URL)

	refund, err := svc.Refund("pay_123", 100)
	require.NoError(t, err)
	assert.Equal(t, "rfnd_1", refund.ID)

	_, err = NewPaymentService("", "", "").Refund("pay_123", 0)
	assert.Error(t, err)
}
