package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// UnknownCustomerName is stored on an invoice when the referenced customer
// cannot be found at creation time. A dangling customer reference does not
// fail the whole create.
const UnknownCustomerName = "Unknown Customer"

// Customer represents a customer belonging to one shop
type Customer struct {
	shared.TenantAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer for a shop
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Customer shop cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}, nil
}
