package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/enums"
)

// CheckoutRequest carries the requested order lines plus the delivery
// details captured at checkout.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *string        `json:"shipping_address,omitempty" validate:"omitempty,max=500"`
	PaymentMethod   *string        `json:"payment_method,omitempty" validate:"omitempty,max=64"`
}

// CheckoutItem is one requested order line. Prices are never accepted from
// the client; they are read from the catalog inside the checkout transaction.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateStatusRequest is the admin payload for moving an order through its
// fulfillment states.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// OrderItemDTO is one frozen order line.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderDTO is the transport shape for one order with its lines.
type OrderDTO struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"user_id"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	Status               enums.OrderStatus   `json:"status"`
	ShippingAddress      *string             `json:"shipping_address,omitempty"`
	PaymentMethod        *string             `json:"payment_method,omitempty"`
	PaymentStatus        enums.PaymentStatus `json:"payment_status"`
	PaymentTransactionID *string             `json:"payment_transaction_id,omitempty"`
	Items                []OrderItemDTO      `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// AdminOrderDTO extends the order with the buyer's identity.
type AdminOrderDTO struct {
	OrderDTO
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// OrderListResult is one page of the shopper's own orders.
type OrderListResult struct {
	Orders []OrderDTO `json:"orders"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Total  int64      `json:"total"`
}

// AdminOrderListResult is one page of all orders for the back office.
type AdminOrderListResult struct {
	Orders []AdminOrderDTO `json:"orders"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Total  int64           `json:"total"`
}

func orderFromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &OrderDTO{
		ID:                   o.ID,
		UserID:               o.UserID,
		TotalAmount:          o.TotalAmount,
		Status:               o.Status,
		ShippingAddress:      o.ShippingAddress,
		PaymentMethod:        o.PaymentMethod,
		PaymentStatus:        o.PaymentStatus,
		PaymentTransactionID: o.PaymentTransactionID,
		Items:                items,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
