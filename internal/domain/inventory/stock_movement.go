package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// AdjustOperation represents how a stock adjustment interprets its quantity
type AdjustOperation string

const (
	AdjustOperationAdd      AdjustOperation = "add"
	AdjustOperationSubtract AdjustOperation = "subtract"
	AdjustOperationSet      AdjustOperation = "set"
)

// IsValid checks if the operation is one of the three known tags
func (o AdjustOperation) IsValid() bool {
	switch o {
	case AdjustOperationAdd, AdjustOperationSubtract, AdjustOperationSet:
		return true
	}
	return false
}

// String returns the string representation of AdjustOperation
func (o AdjustOperation) String() string {
	return string(o)
}

// MovementType tags a stock movement with its business cause
type MovementType string

const (
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeSale       MovementType = "SALE"
	MovementTypeReturn     MovementType = "RETURN"
)

// StockMovement is an immutable audit record of one stock change. Movements
// are a permanent ledger: they survive even when the product is deleted, and
// are never updated or removed.
type StockMovement struct {
	shared.BaseEntity
	TenantID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type            MovementType `gorm:"type:varchar(30);not null"`
	Quantity        int64        `gorm:"not null"` // signed delta as requested, even when the stock floor clamps
	PreviousStock   int64        `gorm:"not null"`
	NewStock        int64        `gorm:"not null"`
	ReferenceID     string       `gorm:"type:varchar(100)"`
	ReferenceNumber string       `gorm:"type:varchar(100)"`
	Notes           string       `gorm:"type:text"`
	OccurredAt      time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementMetadata carries the optional audit context for an adjustment
type MovementMetadata struct {
	Type            MovementType
	ReferenceID     string
	ReferenceNumber string
	Notes           string
}

// Adjustment is the computed outcome of applying an operation to a product's
// current stock. NewStock is the clamped result actually written to the
// product; MovementQuantity is the requested signed delta recorded in the
// ledger. The asymmetry is deliberate: the movement log shows intent, the
// stock floor shows the clamp.
type Adjustment struct {
	PreviousStock    int64
	NewStock         int64
	MovementQuantity int64
}

// ComputeAdjustment applies an adjust operation to the current stock level.
// Quantity must be positive for all three operations.
func ComputeAdjustment(current int64, op AdjustOperation, quantity int64) (Adjustment, error) {
	if quantity <= 0 {
		return Adjustment{}, shared.NewValidationError("Quantity must be a positive number")
	}
	if !op.IsValid() {
		return Adjustment{}, shared.NewValidationError(fmt.Sprintf("Unknown stock operation %q", op))
	}

	adj := Adjustment{PreviousStock: current}
	switch op {
	case AdjustOperationAdd:
		adj.NewStock = current + quantity
		adj.MovementQuantity = quantity
	case AdjustOperationSubtract:
		adj.NewStock = current - quantity
		if adj.NewStock < 0 {
			adj.NewStock = 0
		}
		adj.MovementQuantity = -quantity
	case AdjustOperationSet:
		adj.NewStock = quantity
		adj.MovementQuantity = quantity - current
	}
	return adj, nil
}

// NewStockMovement creates the immutable ledger record for an adjustment
func NewStockMovement(product *Product, adj Adjustment, meta MovementMetadata) *StockMovement {
	movementType := meta.Type
	if movementType == "" {
		movementType = MovementTypeAdjustment
	}
	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        product.TenantID,
		ProductID:       product.ID,
		Type:            movementType,
		Quantity:        adj.MovementQuantity,
		PreviousStock:   adj.PreviousStock,
		NewStock:        adj.NewStock,
		ReferenceID:     meta.ReferenceID,
		ReferenceNumber: meta.ReferenceNumber,
		Notes:           meta.Notes,
		OccurredAt:      time.Now(),
	}
}

// Consistent reports whether the movement's arithmetic invariant holds:
// newStock equals previousStock plus quantity, floored at zero.
func (m *StockMovement) Consistent() bool {
	applied := m.PreviousStock + m.Quantity
	if applied < 0 {
		applied = 0
	}
	return m.NewStock == applied
}
