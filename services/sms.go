package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shaddy-pv/AquaPurifier/models"
)

const defaultSMSAPIURL = "https://api.twilio.com/2010-04-01"

// SMSService sends texts through a Twilio-style Messages API. Missing
// credentials make every send a logged no-op.
type SMSService struct {
	accountSID  string
	authToken   string
	from        string
	frontendURL string
	apiURL      string
	client      *http.Client
}

func NewSMSService(accountSID, authToken, from, frontendURL, apiURL string) *SMSService {
	if apiURL == "" {
		apiURL = defaultSMSAPIURL
	}
	return &SMSService{
		accountSID:  accountSID,
		authToken:   authToken,
		from:        from,
		frontendURL: frontendURL,
		apiURL:      apiURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) Configured() bool {
	return s.accountSID != "" && s.authToken != "" && s.from != ""
}

// SendOrderConfirmation texts the shipping phone after a successful checkout.
func (s *SMSService) SendOrderConfirmation(order *models.Order) error {
	if !s.Configured() {
		log.Println("📱 SMS skipped: provider not configured")
		return nil
	}

	to := order.ShippingAddress.Phone
	if to == "" {
		return fmt.Errorf("no recipient phone for order %s", order.OrderNumber)
	}

	body := fmt.Sprintf("AquaPure: Your order %s has been placed. Total: ₹%.2f. Track: %s/track-order?order=%s",
		order.OrderNumber, order.Total, s.frontendURL, order.OrderNumber)

	return s.send(to, body)
}

// SendOrderStatusUpdate texts a short status notice after a transition.
func (s *SMSService) SendOrderStatusUpdate(order *models.Order, status models.OrderStatus) error {
	if !s.Configured() {
		log.Println("📱 SMS skipped: provider not configured")
		return nil
	}

	to := order.ShippingAddress.Phone
	if to == "" {
		return fmt.Errorf("no recipient phone for order %s", order.OrderNumber)
	}

	body := fmt.Sprintf("AquaPure Order %s: %s", order.OrderNumber, StatusMessage(status, order.TrackingNumber))
	return s.send(to, body)
}

func (s *SMSService) send(to, body string) error {
	form := url.Values{}
	form.Set("To", formatPhone(to))
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.apiURL, s.accountSID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach SMS provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS provider error (%d): %s", resp.StatusCode, string(respBody))
	}

	log.Println("✅ SMS sent to:", formatPhone(to))
	return nil
}

// formatPhone defaults bare local numbers to the +91 country code.
func formatPhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}
