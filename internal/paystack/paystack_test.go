package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_xyz", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, float64(299900), body["amount"])
		assert.Equal(t, "moodjournal_abc123", body["reference"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/xyz",
				"access_code":       "xyz",
				"reference":         "moodjournal_abc123",
			},
		})
	}))
	defer srv.Close()

	c := NewClient("sk_test_xyz", srv.URL)
	data, err := c.InitializeTransaction(context.Background(), InitializeRequest{
		Email:     "user@example.com",
		Amount:    299900,
		Reference: "moodjournal_abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/xyz", data.AuthorizationURL)
	assert.Equal(t, "xyz", data.AccessCode)
	assert.Equal(t, "moodjournal_abc123", data.Reference)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/moodjournal_abc123", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "success",
				"reference": "moodjournal_abc123",
				"amount":    2999900,
				"currency":  "NGN",
			},
		})
	}))
	defer srv.Close()

	c := NewClient("sk_test_xyz", srv.URL)
	data, err := c.VerifyTransaction(context.Background(), "moodjournal_abc123")
	require.NoError(t, err)
	assert.Equal(t, "success", data.Status)
	assert.Equal(t, int64(2999900), data.Amount)
}

func TestVerifyTransactionAbandonedStatus(t *testing.T) {
	// The envelope can report true with a non-success transaction status;
	// that is the caller's decision, not a client error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data":    map[string]any{"status": "abandoned", "reference": "ref1", "amount": 0},
		})
	}))
	defer srv.Close()

	c := NewClient("sk", srv.URL)
	data, err := c.VerifyTransaction(context.Background(), "ref1")
	require.NoError(t, err)
	assert.Equal(t, "abandoned", data.Status)
}

func TestGatewayErrorsSurface(t *testing.T) {
	t.Run("envelope failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  false,
				"message": "Transaction reference not found",
			})
		}))
		defer srv.Close()

		c := NewClient("sk", srv.URL)
		_, err := c.VerifyTransaction(context.Background(), "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Transaction reference not found")
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		c := NewClient("sk", "http://127.0.0.1:1")
		_, err := c.InitializeTransaction(context.Background(), InitializeRequest{})
		require.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		c := NewClient("sk", srv.URL)
		_, err := c.VerifyTransaction(context.Background(), "ref")
		require.Error(t, err)
	})
}
