package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"github.com/shaddy-pv/AquaPurifier/models"
	gopkgmail "gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP. Without SMTP credentials
// every send is a logged no-op: the system runs fine with no mail provider.
type EmailService struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string

	confirmationTmpl *template.Template
	statusTmpl       *template.Template
}

func NewEmailService(host string, port int, username, password, from, frontendURL string) *EmailService {
	if from == "" {
		from = "noreply@aquapure.com"
	}
	return &EmailService{
		host:             host,
		port:             port,
		username:         username,
		password:         password,
		from:             from,
		frontendURL:      frontendURL,
		confirmationTmpl: template.Must(template.New("confirmation").Parse(orderConfirmationHTML)),
		statusTmpl:       template.Must(template.New("status").Parse(orderStatusHTML)),
	}
}

func (s *EmailService) Configured() bool {
	return s.host != "" && s.password != ""
}

// SendOrderConfirmation mails the order summary to the shipping address
// contact (falling back to the account email).
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	if !s.Configured() {
		log.Println("📧 Email skipped: SMTP not configured")
		return nil
	}

	to := order.ShippingAddress.Email
	if to == "" {
		to = order.User.Email
	}
	if to == "" {
		return fmt.Errorf("no recipient email for order %s", order.OrderNumber)
	}

	var body bytes.Buffer
	if err := s.confirmationTmpl.Execute(&body, map[string]interface{}{
		"Order":    order,
		"TrackURL": s.trackURL(order.OrderNumber),
	}); err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	return s.send(to, "Order Confirmation - "+order.OrderNumber, body.String())
}

// SendOrderStatusUpdate mails a short status notice after a transition.
func (s *EmailService) SendOrderStatusUpdate(order *models.Order, status models.OrderStatus) error {
	if !s.Configured() {
		log.Println("📧 Email skipped: SMTP not configured")
		return nil
	}

	to := order.ShippingAddress.Email
	if to == "" {
		to = order.User.Email
	}
	if to == "" {
		return fmt.Errorf("no recipient email for order %s", order.OrderNumber)
	}

	var body bytes.Buffer
	if err := s.statusTmpl.Execute(&body, map[string]interface{}{
		"Order":    order,
		"Status":   status,
		"Message":  StatusMessage(status, order.TrackingNumber),
		"TrackURL": s.trackURL(order.OrderNumber),
	}); err != nil {
		return fmt.Errorf("render status email: %w", err)
	}

	return s.send(to, "Order Update - "+order.OrderNumber, body.String())
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gopkgmail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return err
	}
	log.Println("✅ Email sent to:", to)
	return nil
}

func (s *EmailService) trackURL(orderNumber string) string {
	return s.frontendURL + "/track-order?order=" + orderNumber
}

// StatusMessage is the customer-facing line for a status transition.
func StatusMessage(status models.OrderStatus, trackingNumber string) string {
	switch status {
	case models.OrderStatusConfirmed:
		return "Your order has been confirmed and is being prepared."
	case models.OrderStatusProcessing:
		return "Your order is being processed."
	case models.OrderStatusShipped:
		if trackingNumber != "" {
			return "Your order has been shipped! Tracking number: " + trackingNumber
		}
		return "Your order has been shipped!"
	case models.OrderStatusDelivered:
		return "Your order has been delivered. Thank you for shopping with us!"
	case models.OrderStatusCancelled:
		return "Your order has been cancelled."
	}
	return "Your order status has been updated."
}

const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #0ea5e9; color: white; padding: 20px; text-align: center;">
      <h1>Thank You for Your Order!</h1>
    </div>
    <p>Dear {{.Order.ShippingAddress.Name}},</p>
    <p>Your order has been successfully placed and is being processed.</p>
    <p><strong>Order Number:</strong> {{.Order.OrderNumber}}</p>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background: #f0f0f0;">
          <th style="padding: 10px; text-align: left;">Product</th>
          <th style="padding: 10px; text-align: center;">Quantity</th>
          <th style="padding: 10px; text-align: right;">Price</th>
        </tr>
      </thead>
      <tbody>
        {{range .Order.Items}}
        <tr>
          <td style="padding: 10px; border-bottom: 1px solid #eee;">{{.Name}}</td>
          <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
          <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">₹{{.Price}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <div style="margin-top: 20px; text-align: right;">
      <p>Subtotal: ₹{{.Order.Subtotal}}</p>
      <p>Tax: ₹{{.Order.Tax}}</p>
      <p>Shipping: ₹{{.Order.Shipping}}</p>
      {{if gt .Order.Discount 0.0}}<p>Discount: -₹{{.Order.Discount}}</p>{{end}}
      <p style="font-size: 18px; font-weight: bold; color: #0ea5e9;">Total: ₹{{.Order.Total}}</p>
    </div>
    <h3>Shipping Address:</h3>
    <p>
      {{.Order.ShippingAddress.Name}}<br>
      {{.Order.ShippingAddress.Street}}<br>
      {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.Pincode}}<br>
      Phone: {{.Order.ShippingAddress.Phone}}
    </p>
    <p>Track your order: <a href="{{.TrackURL}}">Click here</a></p>
    <p>Thank you for choosing AquaPure!</p>
  </div>
</body>
</html>`

const orderStatusHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Order Status Update</h1>
    <p>Order Number: <strong>{{.Order.OrderNumber}}</strong></p>
    <p>Status: <strong>{{.Status}}</strong></p>
    <p>{{.Message}}</p>
    <p>Track your order: <a href="{{.TrackURL}}">Click here</a></p>
  </div>
</body>
</html>`
