package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents one catalog listing. Price is a fixed-precision currency
// value; it is never handled as a float anywhere in the backend.
type Product struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string          `gorm:"column:name;not null"`
	NameHe           string          `gorm:"column:name_he;not null"`
	Description      *string         `gorm:"column:description"`
	DescriptionHe    *string         `gorm:"column:description_he"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CategoryID       *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	ImageURL         *string         `gorm:"column:image_url"`
	Images           pq.StringArray  `gorm:"column:images;type:text[]"`
	Stock            int             `gorm:"column:stock;not null;default:0"`
	SKU              *string         `gorm:"column:sku;uniqueIndex"`
	Brand            *string         `gorm:"column:brand"`
	CompatibleModels pq.StringArray  `gorm:"column:compatible_models;type:text[]"`
	IsActive         bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
