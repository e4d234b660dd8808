package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dohelmoto/backend/pkg/enums"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func uniqueEmail() string {
	return fmt.Sprintf("rider-%s@example.com", uuid.NewString()[:8])
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        uniqueEmail(),
		PasswordHash: "$argon2id$stub",
		Name:         "Rider",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, enums.UserRoleUser, created.Role)
}

func TestFindByEmailRoundTrip(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	email := uniqueEmail()

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Name:         "Rider",
	})
	require.NoError(t, err)

	found, err := repo.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail(context.Background(), uniqueEmail())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoleByIDReadsStoredRole(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	admin, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        uniqueEmail(),
		PasswordHash: "$argon2id$stub",
		Name:         "Owner",
		Role:         enums.UserRoleAdmin,
	})
	require.NoError(t, err)

	role, err := repo.RoleByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, role)
}

func TestRoleByIDUnknownUserIsNotFound(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	_, err := repo.RoleByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
