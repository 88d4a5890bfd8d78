package inventory

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory
// repositories. The stock write and the movement insert inside Execute share
// one database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a stock adjustment
// needs within one transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() inventory.ProductRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope runs the scoped function without a real transaction.
// Useful for tests wired with mock repositories.
type NoOpTransactionScope struct {
	productRepo  inventory.ProductRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(productRepo inventory.ProductRepository, movementRepo inventory.StockMovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() inventory.ProductRepository { return s.productRepo }

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
