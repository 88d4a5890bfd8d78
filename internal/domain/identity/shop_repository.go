package identity

import (
	"context"

	"github.com/google/uuid"
)

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	// FindByID finds a shop by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// FindByCode finds a shop by its unique code
	FindByCode(ctx context.Context, code string) (*Shop, error)

	// Save creates or updates a shop
	Save(ctx context.Context, shop *Shop) error
}
