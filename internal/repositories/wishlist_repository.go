package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type WishlistRepository interface {
	// ToggleItem adds the product when absent and removes it when present,
	// reporting whether the product ended up in the wishlist.
	ToggleItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	GetWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) getOrCreate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (uuid.UUID, error) {

	var id uuid.UUID

	err := tx.QueryRowContext(ctx, `SELECT id FROM wishlists WHERE user_id = $1`, userID).Scan(&id)
	if err == nil {
		return id, nil
	}

	if err != sql.ErrNoRows {
		return uuid.Nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	id = uuid.New()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO wishlists (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, id, userID).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create wishlist: %w", err)
	}

	return id, nil
}

func (r *wishlistRepository) ToggleItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	wishlistID, err := r.getOrCreate(dbCtx, tx, userID)
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(dbCtx,
		`DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`, wishlistID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get deleted rows: %w", err)
	}

	added := false

	if deletedRows == 0 {

		if _, err := tx.ExecContext(dbCtx, `
			INSERT INTO wishlist_items (id, wishlist_id, product_id, created_at)
			VALUES ($1, $2, $3, NOW())
		`, uuid.New(), wishlistID, productID); err != nil {
			return false, fmt.Errorf("failed to add wishlist item: %w", err)
		}

		added = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit wishlist transaction: %w", err)
	}

	return added, nil
}

func (r *wishlistRepository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	wishlistID, err := r.getOrCreate(dbCtx, tx, userID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(dbCtx, `
		INSERT INTO wishlist_items (id, wishlist_id, product_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (wishlist_id, product_id) DO NOTHING
	`, uuid.New(), wishlistID, productID); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wishlist transaction: %w", err)
	}

	return nil
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `
		DELETE FROM wishlist_items wi
		USING wishlists w
		WHERE wi.wishlist_id = w.id AND w.user_id = $1 AND wi.product_id = $2
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *wishlistRepository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	err := r.DB.QueryRowContext(dbCtx, `
		SELECT EXISTS (
			SELECT 1 FROM wishlist_items wi
			JOIN wishlists w ON w.id = wi.wishlist_id
			WHERE w.user_id = $1 AND wi.product_id = $2
		)
	`, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}

	return exists, nil
}

func (r *wishlistRepository) GetWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	wishlist := &models.Wishlist{UserID: userID}

	err := r.DB.QueryRowContext(dbCtx, `SELECT id FROM wishlists WHERE user_id = $1`, userID).Scan(&wishlist.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return wishlist, nil
		}

		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	query := `
		SELECT wi.id, wi.product_id, wi.created_at,
		       p.name, p.price, p.discount, p.images, p.inventory
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, wishlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		item := models.WishlistItem{}
		product := &models.Product{}
		var discount sql.NullFloat64

		if err := rows.Scan(&item.ID, &item.ProductID, &item.CreatedAt,
			&product.Name, &product.Price, &discount, pq.Array(&product.Images), &product.Inventory); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		if discount.Valid {
			product.Discount = &discount.Float64
		}

		product.ID = item.ProductID
		item.Product = product
		wishlist.Items = append(wishlist.Items, item)
	}

	return wishlist, rows.Err()
}
