package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockShopRepository creates a GormShopRepository with a mocked SQL connection
func newMockShopRepository(t *testing.T) (*GormShopRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormShopRepository(gormDB), mock, mockDB
}

func TestGormShopRepository_FindByID(t *testing.T) {
	t.Run("finds existing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "code", "name", "active"}).
			AddRow(shopID, now, now, 1, "MAIN", "Main Branch", true)

		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnRows(rows)

		shop, err := repo.FindByID(context.Background(), shopID)

		require.NoError(t, err)
		assert.Equal(t, shopID, shop.ID)
		assert.Equal(t, "MAIN", shop.Code)
		assert.True(t, shop.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to the not-found kind", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), shopID)

		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShopRepository_FindByCode(t *testing.T) {
	repo, mock, mockDB := newMockShopRepository(t)
	defer mockDB.Close()

	shopID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "code", "name", "active"}).
		AddRow(shopID, now, now, 1, "MAIN", "Main Branch", true)

	mock.ExpectQuery(`SELECT \* FROM "shops" WHERE code = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("MAIN", 1).
		WillReturnRows(rows)

	shop, err := repo.FindByCode(context.Background(), "main")

	require.NoError(t, err)
	assert.Equal(t, "MAIN", shop.Code, "code lookup upper-cases the input")
	assert.NoError(t, mock.ExpectationsWereMet())
}
