package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/pagination"
)

// CategoryDTO is the transport shape for one catalog category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameHe      string    `json:"name_he"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductDTO is the transport shape for one product listing. CategoryName is
// populated on detail reads from the joined category row.
type ProductDTO struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	NameHe           string          `json:"name_he"`
	Description      *string         `json:"description,omitempty"`
	DescriptionHe    *string         `json:"description_he,omitempty"`
	Price            decimal.Decimal `json:"price"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName     *string         `json:"category_name,omitempty"`
	ImageURL         *string         `json:"image_url,omitempty"`
	Images           []string        `json:"images"`
	Stock            int             `json:"stock"`
	SKU              *string         `json:"sku,omitempty"`
	Brand            *string         `json:"brand,omitempty"`
	CompatibleModels []string        `json:"compatible_models"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListProductsInput captures the browse filters for the public catalog.
type ListProductsInput struct {
	CategoryID      *uuid.UUID
	Query           string
	IncludeInactive bool
	Pagination      pagination.Params
}

// ProductListResult is one page of products plus paging metadata.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Total    int64        `json:"total"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	NameHe      string  `json:"name_he" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	NameHe      *string `json:"name_he,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name             string          `json:"name" validate:"required,min=1,max=300"`
	NameHe           string          `json:"name_he" validate:"required,min=1,max=300"`
	Description      *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	DescriptionHe    *string         `json:"description_he,omitempty" validate:"omitempty,max=5000"`
	Price            decimal.Decimal `json:"price" validate:"required"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	ImageURL         *string         `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
	Images           []string        `json:"images,omitempty" validate:"omitempty,dive,url"`
	Stock            int             `json:"stock" validate:"min=0"`
	SKU              *string         `json:"sku,omitempty" validate:"omitempty,max=100"`
	Brand            *string         `json:"brand,omitempty" validate:"omitempty,max=200"`
	CompatibleModels []string        `json:"compatible_models,omitempty"`
	IsActive         *bool           `json:"is_active,omitempty"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=300"`
	NameHe           *string          `json:"name_he,omitempty" validate:"omitempty,min=1,max=300"`
	Description      *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	DescriptionHe    *string          `json:"description_he,omitempty" validate:"omitempty,max=5000"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL         *string          `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
	Images           *[]string        `json:"images,omitempty" validate:"omitempty,dive,url"`
	Stock            *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	SKU              *string          `json:"sku,omitempty" validate:"omitempty,max=100"`
	Brand            *string          `json:"brand,omitempty" validate:"omitempty,max=200"`
	CompatibleModels *[]string        `json:"compatible_models,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		NameHe:      c.NameHe,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func productFromModel(p *models.Product, categoryName *string) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:               p.ID,
		Name:             p.Name,
		NameHe:           p.NameHe,
		Description:      p.Description,
		DescriptionHe:    p.DescriptionHe,
		Price:            p.Price,
		CategoryID:       p.CategoryID,
		CategoryName:     categoryName,
		ImageURL:         p.ImageURL,
		Images:           append([]string{}, p.Images...),
		Stock:            p.Stock,
		SKU:              p.SKU,
		Brand:            p.Brand,
		CompatibleModels: append([]string{}, p.CompatibleModels...),
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
