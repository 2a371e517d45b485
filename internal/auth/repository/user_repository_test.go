package repository

import (
	"context"
	"testing"

	authdomain "summarizer-backend/internal/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newUniqueViolationDB returns a gorm handle whose inserts fail the way the
// email unique index does. No server is contacted.
func newUniqueViolationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.Callback().Create().Replace("gorm:create", func(tx *gorm.DB) {
		_ = tx.AddError(gorm.ErrDuplicatedKey)
	})
	require.NoError(t, err)
	return db
}

func TestUserRepositoryMapsDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newUniqueViolationDB(t))

	err := repo.Create(context.Background(), &authdomain.User{Email: "Ada@Example.com", Password: "hash", Provider: authdomain.ProviderEmail})
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)
}

func TestMemoryUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &authdomain.User{Email: "ada@example.com"}))
	err := repo.Create(ctx, &authdomain.User{Email: "ADA@example.com"})
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)
}
