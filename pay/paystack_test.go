package pay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Secret:     "sk_test_secret",
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestInitialize(t *testing.T) {
	var gotPayload map[string]any
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example.com/abc123",
				"access_code":       "abc123",
				"reference":         "ref_9xy",
			},
		})
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Initialize(context.Background(), InitRequest{
		AmountMinor: 9340,
		Email:       "ama@example.com",
		CallbackURL: "https://shop.example.com/verify",
		OrderID:     "order-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example.com/abc123", res.AuthorizationURL)
	assert.Equal(t, "ref_9xy", res.Reference)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)

	assert.Equal(t, float64(9340), gotPayload["amount"])
	assert.Equal(t, "GHS", gotPayload["currency"])
	meta, ok := gotPayload["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order-1", meta["order_id"])
}

func TestInitializeGatewayDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Initialize(context.Background(), InitRequest{
		AmountMinor: 100,
		Email:       "ama@example.com",
	})
	assert.ErrorContains(t, err, "Invalid key")
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/ref_9xy", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "success",
				"reference": "ref_9xy",
				"amount":    9340,
				"metadata":  map[string]any{"order_id": "order-1"},
			},
		})
	}))
	defer srv.Close()

	txn, err := testClient(srv.URL).Verify(context.Background(), "ref_9xy")
	require.NoError(t, err)

	assert.Equal(t, "success", txn.Status)
	assert.Equal(t, "ref_9xy", txn.Reference)
	assert.Equal(t, int64(9340), txn.Amount)
	assert.Equal(t, "order-1", txn.Metadata.OrderID)
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_9xy"}}`)

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhookSignature(secret, body, good))
	assert.False(t, VerifyWebhookSignature(secret, body, "deadbeef"))
	assert.False(t, VerifyWebhookSignature(secret, body, ""))
	assert.False(t, VerifyWebhookSignature("other_secret", body, good))

	tampered := append([]byte{}, body...)
	tampered[0] = '['
	assert.False(t, VerifyWebhookSignature(secret, tampered, good))
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"status":"success","reference":"ref_9xy","metadata":{"order_id":"order-1"}}}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "charge.success", event.Event)
	assert.Equal(t, "ref_9xy", event.Data.Reference)
	assert.Equal(t, "order-1", event.Data.Metadata.OrderID)

	_, err = ParseWebhookEvent([]byte("not json"))
	assert.Error(t, err)
}
