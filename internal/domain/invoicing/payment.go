package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment is an append-only record of money received against an invoice.
// Payments are never mutated, merged, or deduplicated; submitting the same
// amount twice produces two records and both count toward paidAmount.
type Payment struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod string          `gorm:"type:varchar(50)"`
	PaymentDate   time.Time       `gorm:"not null"`
	Notes         string          `gorm:"type:text"`
	Reference     string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment record against an invoice
func NewPayment(invoice *Invoice, amount decimal.Decimal, method string, date time.Time, notes, reference string) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      invoice.TenantID,
		InvoiceID:     invoice.ID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentDate:   date,
		Notes:         notes,
		Reference:     reference,
	}, nil
}
