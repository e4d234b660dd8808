package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/config"
	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/enums"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
	"github.com/dohelmoto/backend/pkg/logger"
)

// Service drives the hosted payment flow against the Cardcom gateway.
type Service interface {
	Initiate(ctx context.Context, userID uuid.UUID, req InitiateRequest) (*InitiateResponse, error)
	HandleCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error)
}

type orderStore interface {
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	SetPaymentInit(ctx context.Context, orderID uuid.UUID, transactionID, token string) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	UpdatePaymentOutcome(ctx context.Context, orderID uuid.UUID, paymentStatus enums.PaymentStatus, orderStatus enums.OrderStatus) error
}

type service struct {
	orders  orderStore
	cardcom config.CardcomConfig
	urls    config.URLConfig
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a payment service.
type ServiceParams struct {
	Orders  orderStore
	Cardcom config.CardcomConfig
	URLs    config.URLConfig
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewService constructs a payment service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Cardcom.TerminalID == "" || params.Cardcom.Username == "" {
		return nil, fmt.Errorf("cardcom credentials required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		orders:  params.Orders,
		cardcom: params.Cardcom,
		urls:    params.URLs,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Initiate freezes a transaction reference onto the order and returns the
// hosted payment page URL. Re-initiating a still-unpaid order mints a fresh
// transaction id; a paid order is refused.
func (s *service) Initiate(ctx context.Context, userID uuid.UUID, req InitiateRequest) (*InitiateResponse, error) {
	order, err := s.orders.FindByIDForUser(ctx, req.OrderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if order.PaymentStatus == enums.PaymentStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already paid")
	}

	amount := order.TotalAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = CurrencyILS
	}

	transactionID := NewTransactionID(s.now())
	hash := SignLowProfile(s.cardcom, amount, currency, transactionID)

	if err := s.orders.SetPaymentInit(ctx, order.ID, transactionID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist transaction id")
	}

	paymentURL := BuildPaymentURL(s.cardcom, s.urls, amount, currency, transactionID, hash, order.ID)

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"transaction_id": transactionID,
			"amount":         amount.StringFixed(2),
		})
		s.logg.Info(logCtx, "payment.initiated")
	}

	return &InitiateResponse{
		PaymentURL:    paymentURL,
		TransactionID: transactionID,
	}, nil
}

// HandleCallback applies the gateway's verdict. Unknown transaction ids are
// swallowed so the gateway stops retrying, and a callback that arrives twice
// leaves a completed order alone.
func (s *service) HandleCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error) {
	if params.TransactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	order, err := s.orders.FindByTransactionID(ctx, params.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logg != nil {
				logCtx := s.logg.WithField(ctx, "transaction_id", params.TransactionID)
				s.logg.Warn(logCtx, "payment.callback.unknown_transaction")
			}
			return &CallbackResult{Applied: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order by transaction")
	}

	if order.PaymentStatus == enums.PaymentStatusCompleted {
		return &CallbackResult{OrderID: order.ID, Completed: true, Applied: false}, nil
	}

	completed := params.ResponseCode == "0"
	paymentStatus := enums.PaymentStatusFailed
	orderStatus := order.Status
	if completed {
		paymentStatus = enums.PaymentStatusCompleted
		orderStatus = enums.OrderStatusProcessing
	}

	if err := s.orders.UpdatePaymentOutcome(ctx, order.ID, paymentStatus, orderStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment outcome")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"transaction_id": params.TransactionID,
			"response_code":  params.ResponseCode,
			"payment_status": string(paymentStatus),
		})
		s.logg.Info(logCtx, "payment.callback.applied")
	}

	return &CallbackResult{OrderID: order.ID, Completed: completed, Applied: true}, nil
}
