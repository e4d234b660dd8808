package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/db/models"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
)

type stubRepo struct {
	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	createErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		categories: map[uuid.UUID]*models.Category{},
		products:   map[uuid.UUID]*models.Product{},
	}
}

func (s *stubRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = uuid.New()
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubRepo) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	delete(s.categories, id)
	return nil
}

func (s *stubRepo) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, *string, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			return p, &c.NameHe, nil
		}
	}
	return p, nil, nil
}

func (s *stubRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	product.ID = uuid.New()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

func mustService(t *testing.T, repo repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc := mustService(t, newStubRepo())

	_, err := svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceGetProductIncludesCategoryName(t *testing.T) {
	repo := newStubRepo()
	svc := mustService(t, repo)

	category := &models.Category{Name: "Brakes", NameHe: "בלמים"}
	_, err := repo.CreateCategory(context.Background(), category)
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Brake pad",
		NameHe:     "רפידת בלם",
		Price:      decimal.RequireFromString("59.90"),
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryName)
	assert.Equal(t, "בלמים", *got.CategoryName)
}

func TestServiceCreateProductRejectsNegativePrice(t *testing.T) {
	svc := mustService(t, newStubRepo())

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "Broken",
		NameHe: "שבור",
		Price:  decimal.RequireFromString("-1.00"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateProductUnknownCategory(t *testing.T) {
	svc := mustService(t, newStubRepo())

	missing := uuid.New()
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Orphan",
		NameHe:     "יתום",
		Price:      decimal.RequireFromString("5.00"),
		CategoryID: &missing,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCreateProductSKUConflict(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = &duplicateErr{}
	svc := mustService(t, repo)

	sku := "ATV-123"
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "Dup",
		NameHe: "כפול",
		Price:  decimal.RequireFromString("5.00"),
		SKU:    &sku,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

type duplicateErr struct{}

func (d *duplicateErr) Error() string {
	return `duplicate key value violates unique constraint "idx_products_sku"`
}

func TestServiceUpdateProductAppliesPartialChanges(t *testing.T) {
	repo := newStubRepo()
	svc := mustService(t, repo)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:   "Sprocket",
		NameHe: "גלגל שיניים",
		Price:  decimal.RequireFromString("120.00"),
		Stock:  3,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("99.90")
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Sprocket", updated.Name)
	assert.Equal(t, 3, updated.Stock)
}

func TestServiceDeleteCategoryNotFound(t *testing.T) {
	svc := mustService(t, newStubRepo())

	err := svc.DeleteCategory(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
