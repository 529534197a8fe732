package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cooleo273/ecommerce-platform/internal/config"
	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	eventMocks "github.com/cooleo273/ecommerce-platform/internal/events/mocks"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/cooleo273/ecommerce-platform/internal/repositories/mocks"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutConfig() *config.Checkout {
	return &config.Checkout{
		FreeShippingThreshold: 100,
		FlatShippingFee:       10,
		StrictInventory:       false,
	}
}

func setupOrderServiceTest(t *testing.T) (*service.OrderService, *mocks.MockOrderRepository, *mocks.MockCartRepository, *mocks.MockAddressRepository, *eventMocks.MockPublisher) {
	t.Helper()

	orderRepo := mocks.NewMockOrderRepository(t)
	cartRepo := mocks.NewMockCartRepository(t)
	addressRepo := mocks.NewMockAddressRepository(t)
	publisher := eventMocks.NewMockPublisher(t)
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, publisher, checkoutConfig())

	return orderService, orderRepo, cartRepo, addressRepo, publisher
}

func cartWith(userID uuid.UUID, items ...models.CartItem) *models.Cart {
	return &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
	}
}

func TestCheckout_FreeShippingAboveThreshold(t *testing.T) {
	orderService, orderRepo, cartRepo, addressRepo, publisher := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	discount := 10.0
	cart := cartWith(userID,
		models.CartItem{
			ProductID: uuid.New(),
			Quantity:  2,
			Product:   &models.Product{Price: 50, Discount: &discount}, // 45.00 each
		},
		models.CartItem{
			ProductID: uuid.New(),
			Quantity:  1,
			Product:   &models.Product{Price: 15},
		},
	)

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", ctx, addressID).Return(&models.Address{ID: addressID, UserID: userID}, nil).Once()

	orderRepo.On("CreateFromCart", ctx, mock.AnythingOfType("*models.Order"), cart.ID, false).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, 0.0, order.ShippingFee)
			assert.Equal(t, 105.0, order.Total)
			require.Len(t, order.Items, 2)
			assert.Equal(t, 45.0, order.Items[0].Price)
			assert.Equal(t, 15.0, order.Items[1].Price)
		}).
		Return(nil).Once()

	publisher.On("Publish", ctx, "order.created", mock.Anything).Return(nil).Once()

	order, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     "chapa",
	})

	require.NoError(t, err)
	assert.Equal(t, 105.0, order.Total)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
}

func TestCheckout_FlatShippingBelowThreshold(t *testing.T) {
	orderService, orderRepo, cartRepo, addressRepo, publisher := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	cart := cartWith(userID, models.CartItem{
		ProductID: uuid.New(),
		Quantity:  3,
		Product:   &models.Product{Price: 10},
	})

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", ctx, addressID).Return(&models.Address{ID: addressID, UserID: userID}, nil).Once()
	orderRepo.On("CreateFromCart", ctx, mock.AnythingOfType("*models.Order"), cart.ID, false).Return(nil).Once()
	publisher.On("Publish", ctx, "order.created", mock.Anything).Return(nil).Once()

	order, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     "chapa",
	})

	require.NoError(t, err)
	assert.Equal(t, 10.0, order.ShippingFee)
	assert.Equal(t, 40.0, order.Total)
}

func TestCheckout_EmptyCart(t *testing.T) {
	orderService, orderRepo, cartRepo, _, _ := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()

	cartRepo.On("GetWithItems", ctx, userID).Return(cartWith(userID), nil).Once()

	order, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: uuid.New(),
		PaymentMethod:     "chapa",
	})

	require.Error(t, err)
	assert.Nil(t, order)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)

	orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_AddressOwnedByAnotherUser(t *testing.T) {
	orderService, orderRepo, cartRepo, addressRepo, _ := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	cart := cartWith(userID, models.CartItem{
		ProductID: uuid.New(),
		Quantity:  1,
		Product:   &models.Product{Price: 20},
	})

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", ctx, addressID).Return(&models.Address{ID: addressID, UserID: uuid.New()}, nil).Once()

	_, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     "chapa",
	})

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)

	orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_ConcurrentCartConsumption(t *testing.T) {
	orderService, orderRepo, cartRepo, addressRepo, _ := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	cart := cartWith(userID, models.CartItem{
		ProductID: uuid.New(),
		Quantity:  1,
		Product:   &models.Product{Price: 20},
	})

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", ctx, addressID).Return(&models.Address{ID: addressID, UserID: userID}, nil).Once()
	orderRepo.On("CreateFromCart", ctx, mock.AnythingOfType("*models.Order"), cart.ID, false).
		Return(repository.ErrCartConflict).Once()

	_, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     "chapa",
	})

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	orderService, orderRepo, cartRepo, addressRepo, publisher := setupOrderServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	addressID := uuid.New()

	cart := cartWith(userID, models.CartItem{
		ProductID: uuid.New(),
		Quantity:  1,
		Product:   &models.Product{Price: 20},
	})

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	addressRepo.On("GetAddressByID", ctx, addressID).Return(&models.Address{ID: addressID, UserID: userID}, nil).Once()
	orderRepo.On("CreateFromCart", ctx, mock.AnythingOfType("*models.Order"), cart.ID, false).Return(nil).Once()
	publisher.On("Publish", ctx, "order.created", mock.Anything).Return(errors.New("broker down")).Once()

	order, err := orderService.Checkout(ctx, userID, &models.CheckoutRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     "chapa",
	})

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	orderService, orderRepo, _, _, _ := setupOrderServiceTest(t)
	ctx := context.Background()
	ownerID := uuid.New()
	orderID := uuid.New()

	orderRepo.On("GetOrderByID", ctx, orderID).
		Return(&models.Order{ID: orderID, UserID: ownerID}, nil).Twice()

	_, err := orderService.GetOrder(ctx, uuid.New(), false, orderID)
	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)

	order, err := orderService.GetOrder(ctx, uuid.New(), true, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	orderService, orderRepo, _, _, _ := setupOrderServiceTest(t)
	ctx := context.Background()
	orderID := uuid.New()

	orderRepo.On("UpdateStatus", ctx, orderID, models.OrderStatusShipped).Return(nil).Once()
	orderRepo.On("GetOrderByID", ctx, orderID).
		Return(&models.Order{ID: orderID, Status: models.OrderStatusShipped}, nil).Once()

	order, err := orderService.UpdateOrderStatus(ctx, orderID, models.OrderStatusShipped)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
}
