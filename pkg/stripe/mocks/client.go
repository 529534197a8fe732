// Package mocks provides a testify mock for the Stripe client.
package mocks

import (
	"testing"

	stripeClient "github.com/cooleo273/ecommerce-platform/pkg/stripe"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v81"
)

type MockClient struct {
	mock.Mock
}

func NewMockClient(t *testing.T) *MockClient {
	m := &MockClient{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockClient) CreatePaymentIntent(amountCents int64, currency, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	args := m.Called(amountCents, currency, description, metadata)

	if intent, ok := args.Get(0).(*stripe.PaymentIntent); ok {
		return intent, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) RetrievePaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error) {
	args := m.Called(paymentIntentID)

	if intent, ok := args.Get(0).(*stripe.PaymentIntent); ok {
		return intent, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) VerifyWebhookSignature(payload []byte, signature string) (stripeClient.Event, error) {
	args := m.Called(payload, signature)

	if event, ok := args.Get(0).(stripeClient.Event); ok {
		return event, args.Error(1)
	}

	return stripeClient.Event{}, args.Error(1)
}
