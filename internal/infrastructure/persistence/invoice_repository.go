package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invoiceNumberSequence is the per-tenant counter row behind the default
// numbering policy. The row is locked FOR UPDATE inside the insert
// transaction so concurrent creates never draw the same number.
type invoiceNumberSequence struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber string    `gorm:"type:varchar(50);not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (invoiceNumberSequence) TableName() string {
	return "invoice_number_sequences"
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items by primary key. Not tenant
// filtered; callers verify ownership on the loaded record.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice with its items by exact invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", number).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ResolveRef resolves a caller-supplied reference through the lookup chain:
// primary key, then exact invoice number, then the number with the canonical
// prefix prepended. The first hit wins.
func (r *GormInvoiceRepository) ResolveRef(ctx context.Context, ref invoicing.InvoiceRef) (*invoicing.Invoice, error) {
	raw := strings.TrimSpace(string(ref))
	if raw == "" {
		return nil, shared.ErrNotFound
	}

	if id, err := uuid.Parse(raw); err == nil {
		invoice, err := r.FindByID(ctx, id)
		if err == nil {
			return invoice, nil
		}
		if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	invoice, err := r.FindByNumber(ctx, raw)
	if err == nil {
		return invoice, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToUpper(raw), "INV-") {
		return r.FindByNumber(ctx, "INV-"+raw)
	}
	return nil, shared.ErrNotFound
}

// List returns the tenant's invoices with their items and the match count
func (r *GormInvoiceRepository) List(ctx context.Context, query invoicing.InvoiceQuery) ([]*invoicing.Invoice, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("tenant_id = ?", query.TenantID)
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.CustomerID != nil {
		q = q.Where("customer_id = ?", *query.CustomerID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	var invoices []*invoicing.Invoice
	if err := q.Order("date DESC, created_at DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	for _, invoice := range invoices {
		if err := r.loadItems(ctx, invoice); err != nil {
			return nil, 0, err
		}
	}
	return invoices, total, nil
}

// NextInvoiceNumber draws the next number under the given policy. Tenant
// scope locks the tenant's counter row FOR UPDATE; global scope scans the
// system-wide maximum, kept for ledgers migrated from a shared counter.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID, scope invoicing.NumberingScope) (string, error) {
	if scope == invoicing.NumberingScopeGlobal {
		return r.nextGlobalNumber(ctx)
	}

	var seq invoiceNumberSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "tenant_id = ?", tenantID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		next := invoicing.NextInvoiceNumber("")
		seq = invoiceNumberSequence{TenantID: tenantID, LastNumber: next, UpdatedAt: time.Now()}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return "", err
		}
		return next, nil
	case err != nil:
		return "", err
	}

	next := invoicing.NextInvoiceNumber(seq.LastNumber)
	seq.LastNumber = next
	seq.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&seq).Error; err != nil {
		return "", err
	}
	return next, nil
}

func (r *GormInvoiceRepository) nextGlobalNumber(ctx context.Context) (string, error) {
	var previous string
	err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Select("invoice_number").
		Order("length(invoice_number) DESC, invoice_number DESC").
		Limit(1).
		Scan(&previous).Error
	if err != nil {
		return "", err
	}
	return invoicing.NextInvoiceNumber(previous), nil
}

// Create inserts the invoice and its items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return err
	}
	if len(invoice.Items) > 0 {
		if err := r.db.WithContext(ctx).Create(&invoice.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Save updates the invoice row; items are written through ReplaceItems
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// ReplaceItems swaps the invoice's item set wholesale: all previous rows are
// deleted and the new set inserted. Last write wins across concurrent edits.
func (r *GormInvoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []invoicing.InvoiceItem) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&invoicing.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Delete removes the invoice's items and then the invoice itself. Payments
// are the caller's responsibility, deleted first in the same transaction.
func (r *GormInvoiceRepository) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&invoicing.InvoiceItem{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&invoicing.Invoice{}, "id = ?", invoiceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) loadItems(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("created_at ASC").
		Find(&invoice.Items).Error
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
