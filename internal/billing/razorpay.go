// File: internal/billing/razorpay.go
package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
)

// Gateway creates payment orders with an upstream gateway.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// GatewayOrder is the subset of the Razorpay order entity the service needs.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayClient talks to the Razorpay Orders API over REST with basic auth.
type RazorpayClient struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	logger     *zap.Logger
}

// NewRazorpayClient creates a Razorpay API client from configuration.
func NewRazorpayClient(cfg *config.Config, logger *zap.Logger) *RazorpayClient {
	return &RazorpayClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.RazorpayBaseURL,
		keyID:      cfg.RazorpayKeyID,
		keySecret:  cfg.RazorpayKeySecret,
		logger:     logger.Named("RazorpayClient"),
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayErrorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates a new order on Razorpay. Amount is in the currency's
// minor unit, as the Orders API expects.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding order request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling razorpay orders API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope razorpayErrorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error.Description != "" {
			return nil, fmt.Errorf("razorpay API error (%s): %s", envelope.Error.Code, envelope.Error.Description)
		}
		return nil, fmt.Errorf("razorpay API returned status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decoding razorpay order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	c.logger.Debug("Razorpay order created",
		zap.String("razorpayOrderID", order.ID),
		zap.Int64("amount", order.Amount),
	)
	return &order, nil
}

// VerifyPaymentSignature checks the checkout callback signature: an
// HMAC-SHA256 of "<order_id>|<payment_id>" keyed with the API key secret.
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header: an
// HMAC-SHA256 of the raw request body keyed with the webhook secret.
func VerifyWebhookSignature(body []byte, signature, webhookSecret string) bool {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
