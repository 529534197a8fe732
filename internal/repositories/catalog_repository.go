package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error)
	SuggestProductNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateBrand(ctx context.Context, brand *models.Brand) error
	ListBrands(ctx context.Context) ([]models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type catalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepo(db *sql.DB) CatalogRepository {
	return &catalogRepository{DB: db}
}

const productColumns = `id, name, description, price, discount, inventory, category_id, brand_id, images, sizes, colors, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {

	p := &models.Product{}
	var discount sql.NullFloat64

	err := scanner.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &discount, &p.Inventory,
		&p.CategoryID, &p.BrandID, pq.Array(&p.Images), pq.Array(&p.Sizes), pq.Array(&p.Colors),
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if discount.Valid {
		p.Discount = &discount.Float64
	}

	return p, nil
}

func (r *catalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, name, description, price, discount, inventory, category_id, brand_id, images, sizes, colors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Description, product.Price, product.Discount,
		product.Inventory, product.CategoryID, product.BrandID,
		pq.Array(product.Images), pq.Array(product.Sizes), pq.Array(product.Colors)).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	return scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, discount = $4, inventory = $5,
		    category_id = $6, brand_id = $7, images = $8, sizes = $9, colors = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := r.DB.ExecContext(dbCtx, query,
		product.Name, product.Description, product.Price, product.Discount, product.Inventory,
		product.CategoryID, product.BrandID,
		pq.Array(product.Images), pq.Array(product.Sizes), pq.Array(product.Colors),
		time.Now(), product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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

func (r *catalogRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := " WHERE 1=1"
	args := []any{}
	argn := 0

	appendArg := func(clause string, value any) {
		argn++
		where += fmt.Sprintf(clause, argn)
		args = append(args, value)
	}

	if filter.CategoryID != nil {
		appendArg(" AND category_id = $%d", *filter.CategoryID)
	}

	if filter.BrandID != nil {
		appendArg(" AND brand_id = $%d", *filter.BrandID)
	}

	if filter.MinPrice != nil {
		appendArg(" AND price >= $%d", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		appendArg(" AND price <= $%d", *filter.MaxPrice)
	}

	if filter.Search != "" {
		appendArg(" AND name ILIKE $%d", "%"+filter.Search+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argn+1, argn+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {

		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *catalogRepository) SuggestProductNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name FROM products WHERE name ILIKE $1 ORDER BY name LIMIT $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}

	defer rows.Close()

	var suggestions []models.Suggestion

	for rows.Next() {

		s := models.Suggestion{Kind: "product"}

		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}

		suggestions = append(suggestions, s)
	}

	return suggestions, rows.Err()
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (id, name, image, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, category.ID, category.Name, category.Image).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, image, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	defer rows.Close()

	var categories []models.Category

	for rows.Next() {

		var c models.Category

		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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

func (r *catalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO brands (id, name, logo, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, brand.ID, brand.Name, brand.Logo).
		Scan(&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}

func (r *catalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, logo, created_at, updated_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	defer rows.Close()

	var brands []models.Brand

	for rows.Next() {

		var b models.Brand

		if err := rows.Scan(&b.ID, &b.Name, &b.Logo, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}

		brands = append(brands, b)
	}

	return brands, rows.Err()
}

func (r *catalogRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
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
