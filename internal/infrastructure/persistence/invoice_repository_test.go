package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupInvoicingTestDB creates an in-memory SQLite database with the
// invoicing tables
func setupInvoicingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&invoicing.Invoice{},
		&invoicing.InvoiceItem{},
		&invoicing.Payment{},
		&invoicing.InvoiceItemHistory{},
		&invoiceNumberSequence{},
	)
	require.NoError(t, err)
	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, tenantID uuid.UUID, number string) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(tenantID, number, uuid.New(), "Aye Chan", time.Now(), nil, invoicing.FinancialOverrides{})
	require.NoError(t, err)

	item, err := invoicing.NewInvoiceItem(inv.ID, invoicing.InvoiceItemInput{
		ProductName: "Engine Oil",
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	inv.AttachItems([]invoicing.InvoiceItem{*item}, invoicing.FinancialOverrides{})

	require.NoError(t, NewGormInvoiceRepository(db).Create(context.Background(), inv))
	return inv
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	created := seedInvoice(t, db, tenantID, "INV-10260001")

	t.Run("FindByID loads the invoice with its items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-10260001", found.InvoiceNumber)
		assert.Equal(t, tenantID, found.TenantID)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Engine Oil", found.Items[0].ProductName)
		assert.True(t, decimal.RequireFromString("100").Equal(found.Subtotal))
	})

	t.Run("FindByID misses on unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("FindByNumber matches exactly", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "INV-10260001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = repo.FindByNumber(ctx, "10260001")
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestGormInvoiceRepository_ResolveRef(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	created := seedInvoice(t, db, uuid.New(), "INV-10260001")

	t.Run("by primary key", func(t *testing.T) {
		found, err := repo.ResolveRef(ctx, invoicing.InvoiceRef(created.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("by exact number", func(t *testing.T) {
		found, err := repo.ResolveRef(ctx, "INV-10260001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("by bare number gets the prefix prepended", func(t *testing.T) {
		found, err := repo.ResolveRef(ctx, "10260001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("unknown ref is not found", func(t *testing.T) {
		_, err := repo.ResolveRef(ctx, "99999999")
		assert.True(t, shared.IsNotFound(err))

		_, err = repo.ResolveRef(ctx, "")
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestGormInvoiceRepository_ReplaceItems(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	created := seedInvoice(t, db, uuid.New(), "INV-10260001")

	replacement, err := invoicing.NewInvoiceItem(created.ID, invoicing.InvoiceItemInput{
		ProductName: "Air Filter",
		Quantity:    3,
		UnitPrice:   decimal.RequireFromString("30"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceItems(ctx, created.ID, []invoicing.InvoiceItem{*replacement}))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Air Filter", found.Items[0].ProductName)

	t.Run("empty set clears all items", func(t *testing.T) {
		require.NoError(t, repo.ReplaceItems(ctx, created.ID, nil))
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Items)
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	created := seedInvoice(t, db, uuid.New(), "INV-10260001")

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.FindByID(ctx, created.ID)
	assert.True(t, shared.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&invoicing.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count, "item rows must go with the invoice")

	t.Run("deleting a missing invoice is not found", func(t *testing.T) {
		assert.True(t, shared.IsNotFound(repo.Delete(ctx, uuid.New())))
	})
}

func TestGormInvoiceRepository_List(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	seedInvoice(t, db, tenantID, "INV-10260001")
	seedInvoice(t, db, tenantID, "INV-10260002")
	seedInvoice(t, db, uuid.New(), "INV-10260003")

	invoices, total, err := repo.List(ctx, invoicing.InvoiceQuery{TenantID: tenantID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, invoices, 2, "other shops' invoices never appear")

	status := invoicing.InvoiceStatusFullpaid
	invoices, total, err = repo.List(ctx, invoicing.InvoiceQuery{TenantID: tenantID, Status: &status})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, invoices)
}

func TestGormInvoiceRepository_NextInvoiceNumber_Global(t *testing.T) {
	db := setupInvoicingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("empty ledger starts at the seed", func(t *testing.T) {
		number, err := repo.NextInvoiceNumber(ctx, uuid.New(), invoicing.NumberingScopeGlobal)
		require.NoError(t, err)
		assert.Equal(t, "INV-10260001", number)
	})

	t.Run("increments the system-wide maximum", func(t *testing.T) {
		seedInvoice(t, db, uuid.New(), "INV-10260007")
		number, err := repo.NextInvoiceNumber(ctx, uuid.New(), invoicing.NumberingScopeGlobal)
		require.NoError(t, err)
		assert.Equal(t, "INV-10260008", number, "the global scan crosses shop boundaries")
	})
}
