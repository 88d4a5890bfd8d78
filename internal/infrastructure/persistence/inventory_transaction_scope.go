package persistence

import (
	"context"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// InventoryTransactionScope implements the inventory TransactionScope using
// GORM transactions, so the stock write and the movement insert commit or
// roll back together.
type InventoryTransactionScope struct {
	db *gorm.DB
}

// NewInventoryTransactionScope creates a new InventoryTransactionScope
func NewInventoryTransactionScope(db *gorm.DB) *InventoryTransactionScope {
	return &InventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *InventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&inventoryTxRepositories{tx: tx})
	})
}

type inventoryTxRepositories struct {
	tx *gorm.DB
}

func (r *inventoryTxRepositories) ProductRepo() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *inventoryTxRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

var _ appinventory.TransactionScope = (*InventoryTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*inventoryTxRepositories)(nil)
