package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/db/models"
	"github.com/dohelmoto/backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_he TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_he TEXT NOT NULL,
  description TEXT,
  description_he TEXT,
  price NUMERIC NOT NULL,
  category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
  image_url TEXT,
  images TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  sku TEXT UNIQUE,
  brand TEXT,
  compatible_models TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCategory(t *testing.T, tx *gorm.DB, name, nameHe string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:     uuid.New(),
		Name:   name,
		NameHe: nameHe,
	}
	require.NoError(t, tx.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, tx *gorm.DB, categoryID *uuid.UUID, name string, active bool) *models.Product {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		NameHe:     name + " he",
		Price:      decimal.RequireFromString("149.90"),
		CategoryID: categoryID,
		Stock:      4,
		SKU:        &sku,
		IsActive:   active,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func TestRepositoryListCategoriesOrdersByHebrewName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCategory(t, db, "Brakes", "בלמים")
	seedCategory(t, db, "Engine", "מנוע")

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(categories), 2)

	for i := 1; i < len(categories); i++ {
		assert.LessOrEqual(t, categories[i-1].NameHe, categories[i].NameHe)
	}
}

func TestRepositoryDeleteCategoryNullsProductReference(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Suspension", "מתלים")
	product := seedProduct(t, db, &category.ID, "Shock absorber", true)

	require.NoError(t, repo.DeleteCategory(ctx, category.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}

func TestRepositoryListProductsFiltersByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Filters", "מסננים")
	other := seedCategory(t, db, "Wheels", "גלגלים")
	seedProduct(t, db, &category.ID, "Air filter", true)
	seedProduct(t, db, &category.ID, "Oil filter", true)
	seedProduct(t, db, &other.ID, "Rim", true)

	result, total, err := repo.ListProducts(ctx, ListProductsInput{
		CategoryID: &category.ID,
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, result, 2)
	for _, p := range result {
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, category.ID, *p.CategoryID)
	}
}

func TestRepositoryListProductsHidesInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Lights", "תאורה")
	seedProduct(t, db, &category.ID, "Headlight", true)
	hidden := seedProduct(t, db, &category.ID, "Prototype lamp", false)

	visible, _, err := repo.ListProducts(ctx, ListProductsInput{
		CategoryID: &category.ID,
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	for _, p := range visible {
		assert.NotEqual(t, hidden.ID, p.ID)
	}

	all, _, err := repo.ListProducts(ctx, ListProductsInput{
		CategoryID:      &category.ID,
		IncludeInactive: true,
		Pagination:      pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryListProductsSearchMatchesEitherLanguage(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Chains", "שרשראות")
	chain := &models.Product{
		ID:       uuid.New(),
		Name:     "Drive chain",
		NameHe:   "שרשרת הנעה",
		Price:    decimal.RequireFromString("89.00"),
		Stock:    2,
		IsActive: true,
		CategoryID: func() *uuid.UUID {
			id := category.ID
			return &id
		}(),
	}
	require.NoError(t, db.Create(chain).Error)

	byEnglish, _, err := repo.ListProducts(ctx, ListProductsInput{
		Query:      "drive CHAIN",
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.NotEmpty(t, byEnglish)
	assert.Equal(t, chain.ID, byEnglish[0].ID)

	byHebrew, _, err := repo.ListProducts(ctx, ListProductsInput{
		Query:      "שרשרת",
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.NotEmpty(t, byHebrew)
	assert.Equal(t, chain.ID, byHebrew[0].ID)
}

func TestRepositoryListProductsPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Pistons", "בוכנות")
	for i := 0; i < 5; i++ {
		p := seedProduct(t, db, &category.ID, fmt.Sprintf("Piston %d", i), true)
		// Stagger creation times so the DESC ordering is deterministic.
		require.NoError(t, db.Model(p).UpdateColumn("created_at", time.Now().Add(time.Duration(i)*time.Second)).Error)
	}

	first, total, err := repo.ListProducts(ctx, ListProductsInput{
		CategoryID: &category.ID,
		Pagination: pagination.Params{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, first, 2)

	second, _, err := repo.ListProducts(ctx, ListProductsInput{
		CategoryID: &category.ID,
		Pagination: pagination.Params{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	// Newest first.
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt) || first[0].CreatedAt.Equal(first[1].CreatedAt))
}

func TestRepositoryGetProductDetailJoinsCategoryName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Exhaust", "פליטה")
	product := seedProduct(t, db, &category.ID, "Muffler", true)

	got, categoryName, err := repo.GetProductDetail(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	require.NotNil(t, categoryName)
	assert.Equal(t, "פליטה", *categoryName)
}

func TestRepositoryGetProductDetailWithoutCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, nil, "Universal bolt", true)

	got, categoryName, err := repo.GetProductDetail(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Nil(t, categoryName)
}

func TestRepositoryCreateProductDuplicateSKU(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sku := fmt.Sprintf("DUP-%s", uuid.NewString())
	first := &models.Product{
		Name:     "First",
		NameHe:   "ראשון",
		Price:    decimal.RequireFromString("10.00"),
		SKU:      &sku,
		IsActive: true,
	}
	_, err := repo.CreateProduct(ctx, first)
	require.NoError(t, err)

	dup := &models.Product{
		Name:     "Second",
		NameHe:   "שני",
		Price:    decimal.RequireFromString("12.00"),
		SKU:      &sku,
		IsActive: true,
	}
	_, err = repo.CreateProduct(ctx, dup)
	require.Error(t, err)
}
