package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartRepository interface {
	// GetOrCreate returns the user's cart, creating an empty one on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// GetWithItems loads the cart plus items and their referenced products.
	GetWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{UserID: userID}

	query := `
		SELECT id, created_at, updated_at FROM carts WHERE user_id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	cart.ID = uuid.New()

	// ON CONFLICT handles the race where two first requests create the cart.
	insert := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if err := r.DB.QueryRowContext(dbCtx, insert, cart.ID, userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) GetWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.id, ci.product_id, ci.quantity, ci.size, ci.color,
		       p.name, p.description, p.price, p.discount, p.inventory, p.category_id, p.brand_id,
		       p.images, p.sizes, p.colors, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := r.DB.QueryContext(dbCtx, query, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		item := models.CartItem{CartID: cart.ID}
		product := models.Product{}
		var discount sql.NullFloat64

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Size, &item.Color,
			&product.Name, &product.Description, &product.Price, &discount, &product.Inventory,
			&product.CategoryID, &product.BrandID,
			pq.Array(&product.Images), pq.Array(&product.Sizes), pq.Array(&product.Colors),
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		product.ID = item.ProductID

		if discount.Valid {
			product.Discount = &discount.Float64
		}

		item.Product = &product
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, item *models.CartItem) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// Same product+variant merges into the existing line.
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, size, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`

	err := r.DB.QueryRowContext(dbCtx, query, item.ID, cartID, item.ProductID, item.Quantity, item.Size, item.Color).
		Scan(&item.ID, &item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	item.CartID = cartID

	return r.touch(dbCtx, cartID)
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if quantity == 0 {
		return r.RemoveItem(ctx, cartID, itemID)
	}

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3`,
		quantity, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return r.touch(dbCtx, cartID)
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return r.touch(dbCtx, cartID)
}

// Clear removes every item from the user's cart. A missing cart or an
// already-empty cart is not an error; the webhook reconciler calls this
// defensively after a successful payment.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(dbCtx,
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) error {

	if _, err := r.DB.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, time.Now(), cartID); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return nil
}
