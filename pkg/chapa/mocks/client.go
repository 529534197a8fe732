// Package mocks provides a testify mock for the Chapa client.
package mocks

import (
	"context"
	"testing"

	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func NewMockClient(t *testing.T) *MockClient {
	m := &MockClient{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockClient) Initialize(ctx context.Context, req *chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
	args := m.Called(ctx, req)

	if resp, ok := args.Get(0).(*chapa.InitializeResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
	args := m.Called(ctx, txRef)

	if resp, ok := args.Get(0).(*chapa.VerifyResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) VerifyWebhookSignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)

	return args.Bool(0)
}
