package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID, regardless of owning shop.
	// Ownership is verified by the caller so that a cross-shop reference
	// surfaces as ACCESS_DENIED rather than NOT_FOUND.
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
