package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a line item owned by exactly one invoice. ProductID is
// nullable: when the referenced product no longer exists at write time the
// reference is dropped but the supplied name and price are kept, so an order
// is never rejected for a dangling reference.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(18,4)"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4)"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WarrantyDueDate *time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceItemInput carries caller-supplied line item fields. Total is
// optional; when absent it is computed as quantity times unit price.
type InvoiceItemInput struct {
	ProductID       *uuid.UUID
	ProductName     string
	Quantity        int64
	UnitPrice       decimal.Decimal
	OriginalPrice   decimal.Decimal
	Discount        decimal.Decimal
	Total           *decimal.Decimal
	WarrantyDueDate *time.Time
}

// NewInvoiceItem builds a line item from caller input
func NewInvoiceItem(invoiceID uuid.UUID, in InvoiceItemInput) (*InvoiceItem, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return nil, shared.NewValidationError("Line item product name cannot be empty")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewValidationError("Line item quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("Line item unit price cannot be negative")
	}

	total := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
	if in.Total != nil {
		total = *in.Total
	}

	return &InvoiceItem{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceID:       invoiceID,
		ProductID:       in.ProductID,
		ProductName:     name,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		OriginalPrice:   in.OriginalPrice,
		Discount:        in.Discount,
		Total:           total,
		WarrantyDueDate: in.WarrantyDueDate,
	}, nil
}

// LineAmount returns the item's contribution to the invoice subtotal
func (i *InvoiceItem) LineAmount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
