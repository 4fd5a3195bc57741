package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaddy-pv/AquaPurifier/models"
)

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Your order has been confirmed and is being prepared.",
		StatusMessage(models.OrderStatusConfirmed, ""))
	assert.Equal(t, "Your order has been shipped!",
		StatusMessage(models.OrderStatusShipped, ""))
	assert.Equal(t, "Your order has been shipped! Tracking number: TRK123",
		StatusMessage(models.OrderStatusShipped, "TRK123"))
	assert.Equal(t, "Your order has been cancelled.",
		StatusMessage(models.OrderStatusCancelled, "TRK123"))
	assert.Equal(t, "Your order status has been updated.",
		StatusMessage(models.OrderStatusPending, ""))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+919876543210", formatPhone("9876543210"))
	assert.Equal(t, "+14155550100", formatPhone("+14155550100"))
}

func TestEmailNotConfiguredSkips(t *testing.T) {
	svc := NewEmailService("", 587, "", "", "", "")

	order := models.Order{OrderNumber: "ORD1TEST"}
	assert.NoError(t, svc.SendOrderConfirmation(&order))
	assert.NoError(t, svc.SendOrderStatusUpdate(&order, models.OrderStatusShipped))
}

func TestSMSNotConfiguredSkips(t *testing.T) {
	svc := NewSMSService("", "", "", "", "")

	order := models.Order{OrderNumber: "ORD1TEST"}
	assert.NoError(t, svc.SendOrderConfirmation(&order))
}

func TestSMSSend(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)

		sid, token, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", sid)
		assert.Equal(t, "token", token)

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer server.Close()

	svc := NewSMSService("AC123", "token", "+10000000000", "https://shop.example.com", server.URL)

	order := models.Order{
		OrderNumber: "ORD1TEST",
		Total:       499.99,
		ShippingAddress: models.ShippingAddress{
			Phone: "9876543210",
		},
	}
	require.NoError(t, svc.SendOrderConfirmation(&order))

	assert.Equal(t, "+919876543210", gotForm["To"])
	assert.Equal(t, "+10000000000", gotForm["From"])
	assert.Contains(t, gotForm["Body"], "ORD1TEST")
	assert.Contains(t, gotForm["Body"], "499.99")
}
