package chapa_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "CHASECK_TEST-abc123"

func TestInitialize_SendsAuthAndReturnsCheckoutURL(t *testing.T) {
	var gotAuth string
	var gotBody chapa.InitializeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://checkout.chapa.co/pay/xyz"}}`))
	}))
	defer server.Close()

	client := chapa.NewClient(server.URL, testSecretKey, "whsec")

	resp, err := client.Initialize(context.Background(), &chapa.InitializeRequest{
		Amount:   "45.50",
		Currency: "ETB",
		Email:    "buyer@example.com",
		TxRef:    "order-1-deadbeef",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer "+testSecretKey, gotAuth)
	assert.Equal(t, "45.50", gotBody.Amount)
	assert.Equal(t, "order-1-deadbeef", gotBody.TxRef)
	assert.Equal(t, "https://checkout.chapa.co/pay/xyz", resp.Data.CheckoutURL)
}

func TestInitialize_NonSuccessStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","message":"Invalid currency"}`))
	}))
	defer server.Close()

	client := chapa.NewClient(server.URL, testSecretKey, "whsec")

	_, err := client.Initialize(context.Background(), &chapa.InitializeRequest{Amount: "10.00", Currency: "XX", Email: "a@b.c", TxRef: "order-1-ab"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestInitialize_ErrorBodyWithObjectMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":{"email":["email is required"]},"status":"failed"}`))
	}))
	defer server.Close()

	client := chapa.NewClient(server.URL, testSecretKey, "whsec")

	_, err := client.Initialize(context.Background(), &chapa.InitializeRequest{Amount: "10.00", Currency: "ETB", TxRef: "order-1-ab"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "email is required")
}

func TestVerify_HitsVerifyPathForTxRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/order-1-deadbeef", r.URL.Path)

		w.Write([]byte(`{"status":"success","data":{"status":"success","amount":45.5,"currency":"ETB","tx_ref":"order-1-deadbeef"}}`))
	}))
	defer server.Close()

	client := chapa.NewClient(server.URL, testSecretKey, "whsec")

	resp, err := client.Verify(context.Background(), "order-1-deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "success", resp.Data.Status)
	assert.InDelta(t, 45.5, resp.Data.Amount, 0.001)
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "whsec_test"

	client := chapa.NewClient("http://chapa.local", testSecretKey, secret)
	payload := []byte(`{"event":"charge.completed","tx_ref":"order-1-deadbeef"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(payload, signature))
	assert.False(t, client.VerifyWebhookSignature([]byte(`{"tampered":true}`), signature))
	assert.False(t, client.VerifyWebhookSignature(payload, ""))

	noSecret := chapa.NewClient("http://chapa.local", testSecretKey, "")
	assert.False(t, noSecret.VerifyWebhookSignature(payload, signature))
}

func TestGenerateTxRef_Format(t *testing.T) {
	ref := chapa.GenerateTxRef("order")

	assert.Regexp(t, regexp.MustCompile(`^order-\d+-[0-9a-f]{8}$`), ref)
	assert.NotEqual(t, ref, chapa.GenerateTxRef("order"))
}
