package payments

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitiateRequest starts the hosted payment flow for an order. Amount and
// currency default to the order total and ILS when omitted.
type InitiateRequest struct {
	OrderID  uuid.UUID        `json:"order_id" validate:"required"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency string           `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// InitiateResponse carries the redirect the frontend sends the shopper to.
type InitiateResponse struct {
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
}

// CallbackParams are the fields the gateway posts back to the indicator URL.
// Everything arrives as strings.
type CallbackParams struct {
	TransactionID string
	ResponseCode  string
	Description   string
}

// CallbackResult reports what the callback did, mostly for logging.
type CallbackResult struct {
	OrderID   uuid.UUID
	Completed bool
	Applied   bool
}
