package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Brand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    *float64  `json:"discount,omitempty"`
	Inventory   int       `json:"inventory"`
	CategoryID  uuid.UUID `json:"category_id"`
	BrandID     uuid.UUID `json:"brand_id"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Category    *Category `json:"category,omitempty"`
	Brand       *Brand    `json:"brand,omitempty"`
}

// EffectivePrice is the list price net of any percentage discount.
func (p *Product) EffectivePrice() float64 {
	if p.Discount == nil {
		return p.Price
	}

	return p.Price * (1 - *p.Discount/100)
}

type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=200"`
	Description string    `json:"description"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Discount    *float64  `json:"discount,omitempty" validate:"omitempty,gte=0,lt=100"`
	Inventory   int       `json:"inventory" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	BrandID     uuid.UUID `json:"brand_id" validate:"required"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Discount    *float64  `json:"discount,omitempty" validate:"omitempty,gte=0,lt=100"`
	Inventory   *int      `json:"inventory,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	BrandID     *uuid.UUID `json:"brand_id,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	Page       int
	PageSize   int
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Image string `json:"image"`
}

type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Logo string `json:"logo"`
}

// Suggestion is a single autocomplete hit.
type Suggestion struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Kind  string    `json:"kind"` // product, category, brand
	Score int       `json:"-"`
}
