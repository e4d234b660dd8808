package payments

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/config"
	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/enums"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
)

type stubOrderStore struct {
	byID          map[uuid.UUID]*models.Order
	byTransaction map[string]*models.Order

	initOrderID       uuid.UUID
	initTransactionID string
	initToken         string

	outcomeOrderID uuid.UUID
	outcomePayment enums.PaymentStatus
	outcomeOrder   enums.OrderStatus
	outcomeCalls   int
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{
		byID:          map[uuid.UUID]*models.Order{},
		byTransaction: map[string]*models.Order{},
	}
}

func (s *stubOrderStore) FindByIDForUser(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, ok := s.byID[orderID]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderStore) SetPaymentInit(_ context.Context, orderID uuid.UUID, transactionID, token string) error {
	s.initOrderID = orderID
	s.initTransactionID = transactionID
	s.initToken = token
	return nil
}

func (s *stubOrderStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Order, error) {
	order, ok := s.byTransaction[transactionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderStore) UpdatePaymentOutcome(_ context.Context, orderID uuid.UUID, paymentStatus enums.PaymentStatus, orderStatus enums.OrderStatus) error {
	s.outcomeOrderID = orderID
	s.outcomePayment = paymentStatus
	s.outcomeOrder = orderStatus
	s.outcomeCalls++
	return nil
}

func newPaymentService(t *testing.T, store *stubOrderStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders:  store,
		Cardcom: gatewayConfig(),
		URLs:    config.URLConfig{Frontend: "https://shop.example", Backend: "https://api.example"},
		Now:     func() time.Time { return time.UnixMilli(1700000000000) },
	})
	require.NoError(t, err)
	return svc
}

func pendingOrder(userID uuid.UUID, amount string) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString(amount),
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
	}
}

func TestInitiateMintsTransactionAndURL(t *testing.T) {
	store := newStubOrderStore()
	userID := uuid.New()
	order := pendingOrder(userID, "249.90")
	store.byID[order.ID] = order

	svc := newPaymentService(t, store)
	resp, err := svc.Initiate(context.Background(), userID, InitiateRequest{OrderID: order.ID})
	require.NoError(t, err)

	assert.Equal(t, order.ID, store.initOrderID)
	assert.Equal(t, resp.TransactionID, store.initTransactionID)
	assert.Contains(t, resp.TransactionID, "DOHEL1700000000000")

	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "249.90", query.Get("SumToBill"))
	assert.Equal(t, "ILS", query.Get("Currency"))
	assert.Equal(t, resp.TransactionID, query.Get("TransactionId"))
	assert.Equal(t,
		SignLowProfile(gatewayConfig(), order.TotalAmount, CurrencyILS, resp.TransactionID),
		query.Get("LowProfileHash"))
	assert.Contains(t, query.Get("SuccessRedirectUrl"), "order_id="+order.ID.String())
	assert.Contains(t, query.Get("Description"), order.ID.String())
}

func TestInitiateHonorsAmountAndCurrencyOverrides(t *testing.T) {
	store := newStubOrderStore()
	userID := uuid.New()
	order := pendingOrder(userID, "249.90")
	store.byID[order.ID] = order

	override := decimal.RequireFromString("99.50")
	svc := newPaymentService(t, store)
	resp, err := svc.Initiate(context.Background(), userID, InitiateRequest{
		OrderID:  order.ID,
		Amount:   &override,
		Currency: "USD",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "99.50", query.Get("SumToBill"))
	assert.Equal(t, "USD", query.Get("Currency"))
	assert.Equal(t,
		SignLowProfile(gatewayConfig(), override, "USD", resp.TransactionID),
		query.Get("LowProfileHash"))
}

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	store := newStubOrderStore()
	userID := uuid.New()
	order := pendingOrder(userID, "10.00")
	store.byID[order.ID] = order

	zero := decimal.Zero
	svc := newPaymentService(t, store)
	_, err := svc.Initiate(context.Background(), userID, InitiateRequest{OrderID: order.ID, Amount: &zero})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, store.initTransactionID)
}

func TestInitiateRejectsForeignOrder(t *testing.T) {
	store := newStubOrderStore()
	order := pendingOrder(uuid.New(), "10.00")
	store.byID[order.ID] = order

	svc := newPaymentService(t, store)
	_, err := svc.Initiate(context.Background(), uuid.New(), InitiateRequest{OrderID: order.ID})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestInitiateRejectsUnknownOrder(t *testing.T) {
	svc := newPaymentService(t, newStubOrderStore())
	_, err := svc.Initiate(context.Background(), uuid.New(), InitiateRequest{OrderID: uuid.New()})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestInitiateRefusesPaidOrder(t *testing.T) {
	store := newStubOrderStore()
	userID := uuid.New()
	order := pendingOrder(userID, "10.00")
	order.PaymentStatus = enums.PaymentStatusCompleted
	store.byID[order.ID] = order

	svc := newPaymentService(t, store)
	_, err := svc.Initiate(context.Background(), userID, InitiateRequest{OrderID: order.ID})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Empty(t, store.initTransactionID)
}

func TestHandleCallbackSuccess(t *testing.T) {
	store := newStubOrderStore()
	order := pendingOrder(uuid.New(), "80.00")
	store.byTransaction["DOHEL1trx"] = order

	svc := newPaymentService(t, store)
	result, err := svc.HandleCallback(context.Background(), CallbackParams{
		TransactionID: "DOHEL1trx",
		ResponseCode:  "0",
	})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.True(t, result.Applied)
	assert.Equal(t, order.ID, result.OrderID)
	assert.Equal(t, enums.PaymentStatusCompleted, store.outcomePayment)
	assert.Equal(t, enums.OrderStatusProcessing, store.outcomeOrder)
}

func TestHandleCallbackFailureKeepsOrderStatus(t *testing.T) {
	store := newStubOrderStore()
	order := pendingOrder(uuid.New(), "80.00")
	store.byTransaction["DOHEL1trx"] = order

	svc := newPaymentService(t, store)
	result, err := svc.HandleCallback(context.Background(), CallbackParams{
		TransactionID: "DOHEL1trx",
		ResponseCode:  "117",
		Description:   "card declined",
	})
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.True(t, result.Applied)
	assert.Equal(t, enums.PaymentStatusFailed, store.outcomePayment)
	assert.Equal(t, enums.OrderStatusPending, store.outcomeOrder)
}

func TestHandleCallbackUnknownTransactionIsSwallowed(t *testing.T) {
	svc := newPaymentService(t, newStubOrderStore())
	result, err := svc.HandleCallback(context.Background(), CallbackParams{
		TransactionID: "DOHELnope",
		ResponseCode:  "0",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestHandleCallbackIsIdempotentForPaidOrder(t *testing.T) {
	store := newStubOrderStore()
	order := pendingOrder(uuid.New(), "80.00")
	order.PaymentStatus = enums.PaymentStatusCompleted
	store.byTransaction["DOHEL1trx"] = order

	svc := newPaymentService(t, store)
	result, err := svc.HandleCallback(context.Background(), CallbackParams{
		TransactionID: "DOHEL1trx",
		ResponseCode:  "0",
	})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.False(t, result.Applied)
	assert.Zero(t, store.outcomeCalls)
}

func TestHandleCallbackRequiresTransactionID(t *testing.T) {
	svc := newPaymentService(t, newStubOrderStore())
	_, err := svc.HandleCallback(context.Background(), CallbackParams{ResponseCode: "0"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
