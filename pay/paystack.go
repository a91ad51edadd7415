// Package pay is the bridge to the hosted payment gateway: transaction
// initiation, verification, and webhook signature checking.
package pay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"savora/config"
)

// Client talks to a Paystack-compatible gateway. Outbound calls carry a
// finite timeout so a slow gateway can never block order persistence
// (orders are written before the gateway is contacted).
type Client struct {
	BaseURL    string
	Secret     string
	HTTPClient *http.Client
}

func NewClient() *Client {
	cfg := config.Load()
	return &Client{
		BaseURL: cfg.PaystackBaseURL,
		Secret:  cfg.PaystackSecret,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// InitRequest describes the hosted transaction to create. Amount is in
// the gateway's minor currency unit (pesewas).
type InitRequest struct {
	AmountMinor int64
	Email       string
	CallbackURL string
	OrderID     string
}

// InitResult carries what the storefront needs to redirect the customer.
type InitResult struct {
	AuthorizationURL string
	Reference        string
}

// Metadata correlates a gateway transaction back to an order.
type Metadata struct {
	OrderID string `json:"order_id"`
}

// Transaction is the gateway's view of a payment attempt.
type Transaction struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Metadata  Metadata `json:"metadata"`
}

type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a hosted transaction and returns the redirect URL
// plus the transaction reference.
func (c *Client) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	payload := map[string]any{
		"amount":       req.AmountMinor,
		"email":        req.Email,
		"currency":     "GHS",
		"callback_url": req.CallbackURL,
		"metadata": map[string]any{
			"order_id": req.OrderID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.Secret)
	httpReq.Header.Set("Content-Type", "application/json")

	env, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}
	if data.AuthorizationURL == "" || data.Reference == "" {
		return nil, fmt.Errorf("gateway initialize returned incomplete data")
	}

	return &InitResult{
		AuthorizationURL: data.AuthorizationURL,
		Reference:        data.Reference,
	}, nil
}

// Verify looks up a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.Secret)

	env, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var txn Transaction
	if err := json.Unmarshal(env.Data, &txn); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &txn, nil
}

func (c *Client) do(req *http.Request) (*gatewayEnvelope, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	var env gatewayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if !env.Status {
		return nil, fmt.Errorf("gateway error: %s", env.Message)
	}
	return &env, nil
}

// WebhookEvent is the async notification delivered by the gateway.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  Transaction `json:"data"`
}

// VerifyWebhookSignature checks the HMAC-SHA512 of the raw request body
// against the signature header. Any mismatch is a hard rejection.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhookEvent decodes a verified webhook body.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &event, nil
}
