// Package mocks provides a testify mock for the email service.
package mocks

import (
	"context"
	"testing"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockEmailService struct {
	mock.Mock
}

func NewMockEmailService(t *testing.T) *MockEmailService {
	m := &MockEmailService{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {
	args := m.Called(ctx, to, order)

	return args.Error(0)
}
