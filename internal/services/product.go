package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	"github.com/cooleo273/ecommerce-platform/internal/cache"
	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sahilm/fuzzy"
)

const suggestionLimit = 8

type ProductService struct {
	repo      repository.CatalogRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.CatalogRepository, cache cache.Cache) *ProductService {
	return &ProductService{
		repo:      repo,
		cache:     cache,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:          uuid.New(),
		Name:        s.sanitizer.Sanitize(req.Name),
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       req.Price,
		Discount:    req.Discount,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Images:      req.Images,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidateLists(ctx)

	return product, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product

	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("product cache read failed", slog.Any("error", err))
	}

	if hit {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("product cache write failed", slog.Any("error", err))
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Discount != nil {
		product.Discount = req.Discount
	}

	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.BrandID != nil {
		product.BrandID = *req.BrandID
	}

	if req.Images != nil {
		product.Images = req.Images
	}

	if req.Sizes != nil {
		product.Sizes = req.Sizes
	}

	if req.Colors != nil {
		product.Colors = req.Colors
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidateProduct(ctx, id)

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Product not found")
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidateProduct(ctx, id)

	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter *models.ProductFilter) (*models.PaginatedResponse, error) {

	// Only the unfiltered first page is cached; filtered listings vary too
	// much to be worth keying individually.
	cacheable := filter.Search == "" && filter.CategoryID == nil && filter.BrandID == nil &&
		filter.MinPrice == nil && filter.MaxPrice == nil && filter.Page == 1

	if cacheable {

		var cached models.PaginatedResponse

		hit, err := s.cache.Get(ctx, cache.ProductListKey, &cached)
		if err != nil {
			middleware.LoggerFromContext(ctx).Warn("product list cache read failed", slog.Any("error", err))
		}

		if hit {
			return &cached, nil
		}
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list products").WithError(err)
	}

	response := &models.PaginatedResponse{
		Data:     products,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if cacheable {
		if err := s.cache.Set(ctx, cache.ProductListKey, response, 0); err != nil {
			middleware.LoggerFromContext(ctx).Warn("product list cache write failed", slog.Any("error", err))
		}
	}

	return response, nil
}

// Suggest returns autocomplete candidates for a partial query. A cheap
// prefix match against the database feeds a fuzzy re-rank, so transposed
// or partially typed words still surface the intended product.
func (s *ProductService) Suggest(ctx context.Context, query string) ([]models.Suggestion, error) {

	if len(query) < 2 {
		return []models.Suggestion{}, nil
	}

	candidates, err := s.repo.SuggestProductNames(ctx, query, suggestionLimit*4)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch suggestions").WithError(err)
	}

	if len(candidates) == 0 {
		return []models.Suggestion{}, nil
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	matches := fuzzy.Find(query, names)

	ranked := make([]models.Suggestion, 0, suggestionLimit)

	for _, m := range matches {

		suggestion := candidates[m.Index]
		suggestion.Score = m.Score
		ranked = append(ranked, suggestion)

		if len(ranked) == suggestionLimit {
			break
		}
	}

	// Fuzzy matching can reject every candidate for very short queries;
	// fall back to the raw prefix order.
	if len(ranked) == 0 {
		if len(candidates) > suggestionLimit {
			candidates = candidates[:suggestionLimit]
		}

		return candidates, nil
	}

	return ranked, nil
}

func (s *ProductService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		ID:    uuid.New(),
		Name:  s.sanitizer.Sanitize(req.Name),
		Image: req.Image,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, errors.DatabaseError("Failed to create category").WithError(err)
	}

	s.invalidate(ctx, cache.CategoryListKey)

	return category, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {

	var cached []models.Category

	hit, err := s.cache.Get(ctx, cache.CategoryListKey, &cached)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("category cache read failed", slog.Any("error", err))
	}

	if hit {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}

func (s *ProductService) DeleteCategory(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Category not found")
		}

		return errors.DatabaseError("Failed to delete category").WithError(err)
	}

	s.invalidate(ctx, cache.CategoryListKey)

	return nil
}

func (s *ProductService) CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error) {

	brand := &models.Brand{
		ID:   uuid.New(),
		Name: s.sanitizer.Sanitize(req.Name),
		Logo: req.Logo,
	}

	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, errors.DatabaseError("Failed to create brand").WithError(err)
	}

	s.invalidate(ctx, cache.BrandListKey)

	return brand, nil
}

func (s *ProductService) ListBrands(ctx context.Context) ([]models.Brand, error) {

	var cached []models.Brand

	hit, err := s.cache.Get(ctx, cache.BrandListKey, &cached)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("brand cache read failed", slog.Any("error", err))
	}

	if hit {
		return cached, nil
	}

	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list brands").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.BrandListKey, brands, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("brand cache write failed", slog.Any("error", err))
	}

	return brands, nil
}

func (s *ProductService) DeleteBrand(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Brand not found")
		}

		return errors.DatabaseError("Failed to delete brand").WithError(err)
	}

	s.invalidate(ctx, cache.BrandListKey)

	return nil
}

func (s *ProductService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	s.invalidate(ctx, cache.Key(cache.ProductKeyPrefix, id.String()))
	s.invalidateLists(ctx)
}

func (s *ProductService) invalidateLists(ctx context.Context) {
	s.invalidate(ctx, cache.ProductListKey)
}

func (s *ProductService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		middleware.LoggerFromContext(ctx).Warn("cache invalidation failed",
			slog.String("key", key), slog.Any("error", err))
	}
}
