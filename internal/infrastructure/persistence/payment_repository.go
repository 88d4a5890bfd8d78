package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
// The payments table is append-only: there is no update path, and rows are
// removed only by the invoice delete cascade.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create appends one payment record
func (r *GormPaymentRepository) Create(ctx context.Context, payment *invoicing.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// ListByInvoice returns the invoice's payments, oldest first
func (r *GormPaymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*invoicing.Payment, error) {
	var payments []*invoicing.Payment
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumByInvoice re-sums every payment row of the invoice. The reconciliation
// reads this total instead of incrementing a cached figure.
func (r *GormPaymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var total sql.NullString
	err := r.db.WithContext(ctx).
		Model(&invoicing.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid || total.String == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(total.String)
}

// DeleteByInvoice removes the invoice's payment rows; part of the invoice
// delete cascade.
func (r *GormPaymentRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&invoicing.Payment{}).Error
}

var _ invoicing.PaymentRepository = (*GormPaymentRepository)(nil)

// GormInvoiceItemHistoryRepository implements InvoiceItemHistoryRepository
// using GORM. Rows are immutable once written.
type GormInvoiceItemHistoryRepository struct {
	db *gorm.DB
}

// NewGormInvoiceItemHistoryRepository creates a new GormInvoiceItemHistoryRepository
func NewGormInvoiceItemHistoryRepository(db *gorm.DB) *GormInvoiceItemHistoryRepository {
	return &GormInvoiceItemHistoryRepository{db: db}
}

// CreateBatch appends the records in one insert
func (r *GormInvoiceItemHistoryRepository) CreateBatch(ctx context.Context, records []*invoicing.InvoiceItemHistory) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

// ListByInvoice returns the invoice's history rows, oldest first
func (r *GormInvoiceItemHistoryRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*invoicing.InvoiceItemHistory, error) {
	var records []*invoicing.InvoiceItemHistory
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("occurred_at ASC, created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

var _ invoicing.InvoiceItemHistoryRepository = (*GormInvoiceItemHistoryRepository)(nil)
