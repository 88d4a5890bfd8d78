package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, regardless of owning shop.
	// Ownership is verified by the caller.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// UpdateStock writes the product's stock level. It must participate in
	// the same transaction as the movement insert.
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int64) error
}

// StockMovementRepository is the append-only ledger of stock movements
type StockMovementRepository interface {
	// Create appends one movement record
	Create(ctx context.Context, movement *StockMovement) error

	// ListByProduct returns movements for a product, most recent first
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]StockMovement, error)
}
