package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dohelmoto/backend/pkg/db/models"
)

// Repository manages persistent cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert inserts a cart line or, when the (user, product) pair already
// exists, increments its quantity inside a single statement. Two concurrent
// adds for the same pair therefore never lose an increment.
func (r *Repository) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return r.find(ctx, userID, productID)
}

// SetQuantity overwrites the quantity for an existing line.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// Remove deletes one line. Removing an absent line is a no-op.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

// Clear drops every line belonging to the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// itemRow is one cart line joined with the product columns the cart needs.
type itemRow struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Name      string
	NameHe    string
	Price     decimal.Decimal
	ImageURL  *string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// List returns the user's cart joined with live product data, oldest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	var rows []itemRow
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.product_id, cart_items.quantity,
			products.name, products.name_he, products.price, products.image_url, products.stock,
			cart_items.created_at, cart_items.updated_at`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ItemDTO{
			ID:            row.ID,
			ProductID:     row.ProductID,
			Quantity:      row.Quantity,
			Name:          row.Name,
			NameHe:        row.NameHe,
			Price:         row.Price,
			ImageURL:      row.ImageURL,
			Stock:         row.Stock,
			LineTotal:     row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))),
			AddedAt:       row.CreatedAt,
			LastChangedAt: row.UpdatedAt,
		})
	}
	return items, nil
}

// ListRaw returns the bare cart lines without the product join. Checkout uses
// this inside its transaction.
func (r *Repository) ListRaw(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of distinct lines in the user's cart.
func (r *Repository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *Repository) find(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
