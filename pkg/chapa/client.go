// Package chapa wraps the Chapa payment gateway REST API: hosted-checkout
// initialization, server-to-server verification, and webhook signature
// checks.
package chapa

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client interface {
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*VerifyResponse, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// InitializeRequest matches Chapa's transaction initialization body.
type InitializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type InitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type VerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string  `json:"status"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		TxRef    string  `json:"tx_ref"`
		Email    string  `json:"email"`
	} `json:"data"`
}

// WebhookEvent is the payload Chapa posts to the webhook endpoint.
type WebhookEvent struct {
	Event  string `json:"event"`
	Status string `json:"status"`
	TxRef  string `json:"tx_ref"`
	Amount string `json:"amount"`
	RefID  string `json:"reference,omitempty"`
	Email  string `json:"email,omitempty"`
}

type chapaClient struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
}

func NewClient(baseURL, secretKey, webhookSecret string) Client {
	return &chapaClient{
		baseURL:       baseURL,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *chapaClient) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {

	var response InitializeResponse

	if err := c.post(ctx, "/transaction/initialize", req, &response); err != nil {
		return nil, err
	}

	if response.Status != "success" {
		return nil, fmt.Errorf("chapa initialization failed: %s", response.Message)
	}

	return &response, nil
}

func (c *chapaClient) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {

	var response VerifyResponse

	if err := c.get(ctx, "/transaction/verify/"+txRef, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA256 of the raw request body
// against the shared webhook secret using a constant-time comparison.
func (c *chapaClient) VerifyWebhookSignature(payload []byte, signature string) bool {

	if c.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *chapaClient) post(ctx context.Context, path string, body, out any) error {

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *chapaClient) get(ctx context.Context, path string, out any) error {

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(httpReq, out)
}

func (c *chapaClient) do(req *http.Request, out any) error {

	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chapa request failed: %w", err)
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read chapa response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chapa returned %d: %s", resp.StatusCode, providerMessage(payload))
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode chapa response: %w", err)
	}

	return nil
}

// providerMessage extracts the message field from an error body. Chapa
// returns message as either a string or an object of field errors.
func providerMessage(payload []byte) string {

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}

	if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Message) == 0 {
		return string(payload)
	}

	var msg string
	if err := json.Unmarshal(envelope.Message, &msg); err == nil {
		return msg
	}

	return string(envelope.Message)
}

// GenerateTxRef mints a unique transaction reference such as
// order-1735689600000-9f2c4a1b.
func GenerateTxRef(prefix string) string {

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}

	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}
