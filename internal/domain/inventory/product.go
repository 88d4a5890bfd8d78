package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product belonging to one shop. Its Stock
// field always equals the NewStock of its most recent stock movement; the
// two are written in the same transaction.
type Product struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"type:varchar(100);index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(18,4)"`
	Stock         int64           `gorm:"not null;default:0"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a shop
func NewProduct(tenantID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Product shop cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Product price cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Price:               price,
	}, nil
}
