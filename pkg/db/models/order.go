package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dohelmoto/backend/pkg/enums"
)

// Order is the header row created atomically with its items at checkout.
// Status and payment fields are mutated later by admin action or the gateway
// callback; orders are never deleted.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	TotalAmount          decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status               enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress      *string             `gorm:"column:shipping_address"`
	PaymentMethod        *string             `gorm:"column:payment_method"`
	PaymentStatus        enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentTransactionID *string             `gorm:"column:payment_transaction_id"`
	CardcomToken         *string             `gorm:"column:cardcom_token"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
