package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cooleo273/ecommerce-platform/internal/api/handlers"
	"github.com/cooleo273/ecommerce-platform/internal/config"
	eventMocks "github.com/cooleo273/ecommerce-platform/internal/events/mocks"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/repositories/mocks"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/internal/testutils"
	"github.com/cooleo273/ecommerce-platform/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderHandlerTest(t *testing.T) (*handlers.OrderHandler, *mocks.MockOrderRepository, *mocks.MockCartRepository, *mocks.MockAddressRepository) {
	t.Helper()

	orderRepo := mocks.NewMockOrderRepository(t)
	cartRepo := mocks.NewMockCartRepository(t)
	addressRepo := mocks.NewMockAddressRepository(t)
	publisher := eventMocks.NewMockPublisher(t)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := &config.Checkout{FreeShippingThreshold: 100, FlatShippingFee: 10}
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, publisher, cfg)

	return handlers.NewOrderHandler(orderService), orderRepo, cartRepo, addressRepo
}

func TestCheckoutHandler_CreatesOrder(t *testing.T) {
	handler, orderRepo, cartRepo, addressRepo := setupOrderHandlerTest(t)

	userID := uuid.New()
	addressID := uuid.New()

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: uuid.New(), Quantity: 1, Product: &models.Product{Price: 30}},
		},
	}

	cartRepo.On("GetWithItems", mock.Anything, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", mock.Anything, addressID).
		Return(&models.Address{ID: addressID, UserID: userID}, nil).Once()
	orderRepo.On("CreateFromCart", mock.Anything, mock.AnythingOfType("*models.Order"), cart.ID, false).
		Return(nil).Once()

	body := `{"shipping_address_id":"` + addressID.String() + `","payment_method":"chapa"}`
	req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/order", strings.NewReader(body), userID, nil)
	rec := httptest.NewRecorder()

	handler.Checkout()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	order, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(models.OrderStatusPending), order["status"])
	assert.InDelta(t, 40.0, order["total"], 0.001)
}

func TestCheckoutHandler_MissingAddressFailsValidation(t *testing.T) {
	handler, orderRepo, _, _ := setupOrderHandlerTest(t)

	req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout/order",
		strings.NewReader(`{"payment_method":"chapa"}`), uuid.New(), nil)
	rec := httptest.NewRecorder()

	handler.Checkout()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_RequiresAuthentication(t *testing.T) {
	handler, _, _, _ := setupOrderHandlerTest(t)

	req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/checkout/order",
		strings.NewReader(`{"shipping_address_id":"`+uuid.NewString()+`","payment_method":"chapa"}`), nil)
	rec := httptest.NewRecorder()

	handler.Checkout()(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrderHandler_InvalidID(t *testing.T) {
	handler, _, _, _ := setupOrderHandlerTest(t)

	req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/not-a-uuid", nil,
		uuid.New(), map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()

	handler.Get()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
