package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatusConfirmed, OrderStatusConfirmed},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}

	// Terminal states have no successors.
	assert.Empty(t, OrderStatusDelivered.AllowedTransitions())
	assert.Empty(t, OrderStatusCancelled.AllowedTransitions())
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("Shipped")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, status)

	_, ok = ParseOrderStatus("returned")
	assert.False(t, ok)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"razorpay", "cod", "upi", "COD"} {
		_, ok := ParsePaymentMethod(valid)
		assert.True(t, ok, "%s should parse", valid)
	}

	_, ok := ParsePaymentMethod("paypal")
	assert.False(t, ok)
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber()

	assert.True(t, strings.HasPrefix(n, "ORD"))
	assert.Equal(t, n, strings.ToUpper(n))
	assert.Greater(t, len(n), 10)

	// Two consecutive numbers must differ even within the same millisecond.
	assert.NotEqual(t, n, GenerateOrderNumber())
}
