package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the payload for the cart upsert endpoint.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest sets an absolute quantity for one cart line. A quantity
// of zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// ItemDTO is one cart line joined with the live product fields the shopper
// needs to render the cart.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Name          string          `json:"name"`
	NameHe        string          `json:"name_he"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      *string         `json:"image_url,omitempty"`
	Stock         int             `json:"stock"`
	LineTotal     decimal.Decimal `json:"line_total"`
	AddedAt       time.Time       `json:"added_at"`
	LastChangedAt time.Time       `json:"last_changed_at"`
}

// CartDTO is the whole cart plus its running total.
type CartDTO struct {
	Items []ItemDTO       `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
