package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/google/uuid"
)

type WishlistService struct {
	repo        repository.WishlistRepository
	catalogRepo repository.CatalogRepository
}

func NewWishlistService(repo repository.WishlistRepository, catalogRepo repository.CatalogRepository) *WishlistService {
	return &WishlistService{
		repo:        repo,
		catalogRepo: catalogRepo,
	}
}

// Toggle flips the product's wishlist membership and reports whether it
// is now wishlisted.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {

	if _, err := s.catalogRepo.GetProductByID(ctx, productID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return false, errors.NotFoundError("Product not found")
		}

		return false, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	added, err := s.repo.ToggleItem(ctx, userID, productID)
	if err != nil {
		return false, errors.DatabaseError("Failed to update wishlist").WithError(err)
	}

	return added, nil
}

func (s *WishlistService) AddItem(ctx context.Context, userID, productID uuid.UUID) error {

	if _, err := s.catalogRepo.GetProductByID(ctx, productID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Product not found")
		}

		return errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.repo.AddItem(ctx, userID, productID); err != nil {
		return errors.DatabaseError("Failed to add to wishlist").WithError(err)
	}

	return nil
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {

	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Item not found in wishlist")
		}

		return errors.DatabaseError("Failed to remove from wishlist").WithError(err)
	}

	return nil
}

func (s *WishlistService) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {

	inWishlist, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return false, errors.DatabaseError("Failed to check wishlist").WithError(err)
	}

	return inWishlist, nil
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {

	wishlist, err := s.repo.GetWishlist(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch wishlist").WithError(err)
	}

	if wishlist.Items == nil {
		wishlist.Items = []models.WishlistItem{}
	}

	return wishlist, nil
}
