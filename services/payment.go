package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"
)

const defaultGatewayURL = "https://api.razorpay.com/v1"

// PaymentService wraps the hosted payment gateway. Credentials are injected
// once at startup; a service without credentials fails order creation and
// refunds but still answers signature checks (as "not verified").
type PaymentService struct {
	keyID     string
	keySecret string
	apiURL    string
	client    *http.Client
}

func NewPaymentService(keyID, keySecret, apiURL string) *PaymentService {
	if apiURL == "" {
		apiURL = defaultGatewayURL
	}
	return &PaymentService{
		keyID:     keyID,
		keySecret: keySecret,
		apiURL:    apiURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *PaymentService) Configured() bool {
	return s.keyID != "" && s.keySecret != ""
}

// GatewayOrder is the gateway-side order created for a hosted payment.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayRefund is the gateway's refund record.
type GatewayRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a hosted payment order with the gateway. The amount
// is taken in major units and converted to minor units (paise).
func (s *PaymentService) CreateOrder(amount float64, receipt string) (*GatewayOrder, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  receipt,
		"notes":    map[string]string{"order_id": receipt},
	}

	var order GatewayOrder
	if err := s.post("/orders", payload, &order); err != nil {
		return nil, fmt.Errorf("payment order creation failed: %w", err)
	}

	log.Println("✅ Gateway order created:", order.ID)
	return &order, nil
}

// VerifySignature recomputes the keyed hash of "orderID|paymentID" and
// compares it to the supplied signature in constant time. A missing secret
// fails closed.
func (s *PaymentService) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		log.Println("❌ Gateway key secret not configured, rejecting signature")
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks a gateway webhook body against its signature
// header, constant time, fail closed on missing secret.
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.keySecret == "" {
		log.Println("❌ Gateway key secret not configured, rejecting webhook")
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund initiates a refund for a captured payment. amount <= 0 means a full
// refund; a positive amount (major units) requests a partial refund.
func (s *PaymentService) Refund(paymentID string, amount float64) (*GatewayRefund, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	payload := map[string]interface{}{}
	if amount > 0 {
		payload["amount"] = int64(math.Round(amount * 100))
	}

	var refund GatewayRefund
	if err := s.post("/payments/"+paymentID+"/refund", payload, &refund); err != nil {
		return nil, fmt.Errorf("refund failed: %w", err)
	}

	log.Println("✅ Refund initiated:", refund.ID)
	return &refund, nil
}

func (s *PaymentService) post(path string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.apiURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if json.Unmarshal(body, &ge) == nil && ge.Error.Description != "" {
			return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, ge.Error.Description)
		}
		return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}
