package services

import (
	"log"

	"github.com/shaddy-pv/AquaPurifier/models"
)

// Notifier fans order events out to the email and SMS channels. Sends are
// fire-and-forget: each runs in its own goroutine, failures are logged and
// never reach the caller.
type Notifier struct {
	Email *EmailService
	SMS   *SMSService
}

func NewNotifier(email *EmailService, sms *SMSService) *Notifier {
	return &Notifier{Email: email, SMS: sms}
}

// OrderPlaced dispatches the confirmation email and SMS for a new order.
func (n *Notifier) OrderPlaced(order models.Order) {
	go func() {
		if err := n.Email.SendOrderConfirmation(&order); err != nil {
			log.Println("❌ Order confirmation email failed:", err)
		}
	}()
	go func() {
		if err := n.SMS.SendOrderConfirmation(&order); err != nil {
			log.Println("❌ Order confirmation SMS failed:", err)
		}
	}()
}

// OrderStatusChanged dispatches status-update notifications.
func (n *Notifier) OrderStatusChanged(order models.Order, status models.OrderStatus) {
	go func() {
		if err := n.Email.SendOrderStatusUpdate(&order, status); err != nil {
			log.Println("❌ Order status email failed:", err)
		}
	}()
	go func() {
		if err := n.SMS.SendOrderStatusUpdate(&order, status); err != nil {
			log.Println("❌ Order status SMS failed:", err)
		}
	}()
}
