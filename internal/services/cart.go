package service

import (
	"context"
	"database/sql"

	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
)

type CartService struct {
	repo        repository.CartRepository
	catalogRepo repository.CatalogRepository
}

func NewCartService(repo repository.CartRepository, catalogRepo repository.CatalogRepository) *CartService {
	return &CartService{
		repo:        repo,
		catalogRepo: catalogRepo,
	}
}

// GetCart loads the cart with its items and computes the subtotal from
// live product prices.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart.Subtotal = Subtotal(cart.Items)

	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	product, err := s.catalogRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if product.Inventory <= 0 {
		return nil, errors.BadRequestError("Product is out of stock")
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	}

	if err := s.repo.AddItem(ctx, cart.ID, item); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error) {

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.repo.UpdateItemQuantity(ctx, cart.ID, req.ItemID, req.Quantity); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Cart item not found")
		}

		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Cart item not found")
		}

		return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	if err := s.repo.Clear(ctx, userID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// Subtotal sums the discounted unit price of every line, rounding each
// unit price to cents before multiplying by quantity.
func Subtotal(items []models.CartItem) float64 {

	var subtotal float64

	for _, item := range items {
		if item.Product == nil {
			continue
		}

		subtotal += utils.Round2(item.Product.EffectivePrice()) * float64(item.Quantity)
	}

	return subtotal
}
