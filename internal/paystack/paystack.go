package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a thin wrapper over the Paystack transaction API. Unlike the
// sentiment adapter there is no fallback here: money movement errors always
// surface to the caller.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type InitializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"` // kobo
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TransactionData is the hosted-payment handle returned by initialize.
type TransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerificationData is the gateway's authoritative record of a transaction.
type VerificationData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Channel   string `json:"channel"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*TransactionData, error) {
	var data TransactionData
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerificationData, error) {
	var data VerificationData
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !env.Status {
		return fmt.Errorf("paystack %s %s: status %d: %s", method, path, resp.StatusCode, env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode paystack data: %w", err)
	}
	return nil
}
