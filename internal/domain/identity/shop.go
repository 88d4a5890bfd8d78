package identity

import (
	"strings"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Shop represents a tenant in the multi-tenant system. Every other entity is
// owned transitively through its shop id. Shops are never hard-deleted by the
// core; a superadmin only toggles the active flag.
type Shop struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Active   bool   `gorm:"not null;default:true"`
	Phone    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(200)"`
	Address  string `gorm:"type:text"`
	Timezone string `gorm:"type:varchar(50)"`
	Notes    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates a new active shop with required fields
func NewShop(code, name string) (*Shop, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewValidationError("Shop code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewValidationError("Shop code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewValidationError("Shop name cannot be empty")
	}

	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Active:            true,
	}, nil
}

// Activate marks the shop active
func (s *Shop) Activate() {
	s.Active = true
	s.Touch()
	s.IncrementVersion()
}

// Deactivate marks the shop inactive; its data stays intact
func (s *Shop) Deactivate() {
	s.Active = false
	s.Touch()
	s.IncrementVersion()
}

// IsActive returns true if the shop can be operated on
func (s *Shop) IsActive() bool {
	return s.Active
}
