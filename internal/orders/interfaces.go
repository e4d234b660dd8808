package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/enums"
	"github.com/dohelmoto/backend/pkg/pagination"
)

// Repository defines persistence operations for the order tables plus the
// cart rows consumed during checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	ListCartLines(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	LoadProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)

	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context, params pagination.Params) ([]AdminOrderRow, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (int64, error)

	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	SetPaymentInit(ctx context.Context, orderID uuid.UUID, transactionID, token string) error
	UpdatePaymentOutcome(ctx context.Context, orderID uuid.UUID, paymentStatus enums.PaymentStatus, orderStatus enums.OrderStatus) error
}

// AdminOrderRow is one order joined with the buyer's identity for back-office
// listings.
type AdminOrderRow struct {
	Order     models.Order
	UserName  string
	UserEmail string
}
