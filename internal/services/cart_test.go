package service_test

import (
	"context"
	"testing"

	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/repositories/mocks"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartServiceTest(t *testing.T) (*service.CartService, *mocks.MockCartRepository, *mocks.MockCatalogRepository) {
	t.Helper()

	cartRepo := mocks.NewMockCartRepository(t)
	catalogRepo := mocks.NewMockCatalogRepository(t)

	return service.NewCartService(cartRepo, catalogRepo), cartRepo, catalogRepo
}

func TestSubtotal_RoundsUnitPriceBeforeMultiplying(t *testing.T) {
	discount := 33.0 // 19.99 * 0.67 = 13.3933 -> 13.39 per unit

	items := []models.CartItem{
		{Quantity: 3, Product: &models.Product{Price: 19.99, Discount: &discount}},
		{Quantity: 1, Product: &models.Product{Price: 5}},
	}

	assert.InDelta(t, 13.39*3+5, service.Subtotal(items), 1e-9)
}

func TestSubtotal_SkipsItemsWithoutProduct(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: 10}},
		{Quantity: 5},
	}

	assert.Equal(t, 20.0, service.Subtotal(items))
}

func TestGetCart_ComputesSubtotalFromLivePrices(t *testing.T) {
	cartService, cartRepo, _ := setupCartServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.CartItem{
			{Quantity: 2, Product: &models.Product{Price: 25}},
		},
	}

	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()

	got, err := cartService.GetCart(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Subtotal)
}

func TestAddItem_RejectsOutOfStockProduct(t *testing.T) {
	cartService, cartRepo, catalogRepo := setupCartServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	catalogRepo.On("GetProductByID", ctx, productID).
		Return(&models.Product{ID: productID, Inventory: 0}, nil).Once()

	_, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{
		ProductID: productID,
		Quantity:  1,
	})

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)

	cartRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateItem_ZeroQuantityDelegatesToRepo(t *testing.T) {
	cartService, cartRepo, _ := setupCartServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	cart := &models.Cart{ID: uuid.New(), UserID: userID}

	cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil).Once()
	cartRepo.On("UpdateItemQuantity", ctx, cart.ID, itemID, 0).Return(nil).Once()
	cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()

	_, err := cartService.UpdateItem(ctx, userID, &models.UpdateCartItemRequest{
		ItemID:   itemID,
		Quantity: 0,
	})

	require.NoError(t, err)
}
