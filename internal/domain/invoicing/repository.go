package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRef is a caller-supplied invoice reference. ResolveRef tries it as
// a primary key first, then as an invoice number, then as an invoice number
// with the canonical prefix prepended.
type InvoiceRef string

// InvoiceQuery narrows invoice listings
type InvoiceQuery struct {
	TenantID   uuid.UUID
	Status     *InvoiceStatus
	CustomerID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

// InvoiceRepository defines the interface for invoice persistence.
// Lookups by id or number do not filter by tenant; the service layer checks
// ownership on the loaded record so that a cross-tenant reference surfaces
// as an access violation rather than a missing row.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	ResolveRef(ctx context.Context, ref InvoiceRef) (*Invoice, error)
	List(ctx context.Context, query InvoiceQuery) ([]*Invoice, int64, error)
	NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID, scope NumberingScope) (string, error)
	Create(ctx context.Context, invoice *Invoice) error
	Save(ctx context.Context, invoice *Invoice) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []InvoiceItem) error
	Delete(ctx context.Context, invoiceID uuid.UUID) error
}

// PaymentRepository defines the interface for payment persistence.
// Payments are append-only; corrections happen through compensating entries.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

// InvoiceItemHistoryRepository persists the line-item audit trail
type InvoiceItemHistoryRepository interface {
	CreateBatch(ctx context.Context, records []*InvoiceItemHistory) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItemHistory, error)
}
