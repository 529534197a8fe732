package service_test

import (
	"context"
	"database/sql"
	"testing"

	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/repositories/mocks"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishlistServiceTest(t *testing.T) (*service.WishlistService, *mocks.MockWishlistRepository, *mocks.MockCatalogRepository) {
	t.Helper()

	repo := mocks.NewMockWishlistRepository(t)
	catalogRepo := mocks.NewMockCatalogRepository(t)

	return service.NewWishlistService(repo, catalogRepo), repo, catalogRepo
}

func TestWishlistToggle_ReportsMembership(t *testing.T) {
	wishlistService, repo, catalogRepo := setupWishlistServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	catalogRepo.On("GetProductByID", ctx, productID).
		Return(&models.Product{ID: productID}, nil).Twice()
	repo.On("ToggleItem", ctx, userID, productID).Return(true, nil).Once()
	repo.On("ToggleItem", ctx, userID, productID).Return(false, nil).Once()

	added, err := wishlistService.Toggle(ctx, userID, productID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = wishlistService.Toggle(ctx, userID, productID)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestWishlistAdd_UnknownProduct(t *testing.T) {
	wishlistService, repo, catalogRepo := setupWishlistServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	catalogRepo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

	err := wishlistService.AddItem(ctx, userID, productID)

	require.Error(t, err)
	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	repo.AssertNotCalled(t, "AddItem", ctx, userID, productID)
}

func TestWishlistRemove_MissingItemIsNotFound(t *testing.T) {
	wishlistService, repo, _ := setupWishlistServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	repo.On("RemoveItem", ctx, userID, productID).Return(sql.ErrNoRows).Once()

	err := wishlistService.RemoveItem(ctx, userID, productID)

	require.Error(t, err)
	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
}

func TestWishlistGet_EmptyListNotNil(t *testing.T) {
	wishlistService, repo, _ := setupWishlistServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetWishlist", ctx, userID).
		Return(&models.Wishlist{UserID: userID}, nil).Once()

	wishlist, err := wishlistService.GetWishlist(ctx, userID)

	require.NoError(t, err)
	assert.NotNil(t, wishlist.Items)
	assert.Empty(t, wishlist.Items)
}

func TestWishlistContains(t *testing.T) {
	wishlistService, repo, _ := setupWishlistServiceTest(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	repo.On("Contains", ctx, userID, productID).Return(true, nil).Once()

	inWishlist, err := wishlistService.Contains(ctx, userID, productID)

	require.NoError(t, err)
	assert.True(t, inWishlist)
}
