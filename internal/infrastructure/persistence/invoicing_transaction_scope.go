package persistence

import (
	"context"

	appinvoicing "github.com/retailcore/backend/internal/application/invoicing"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// InvoicingTransactionScope implements the invoicing TransactionScope using
// GORM transactions. Every repository handed to the scoped function shares
// the same transaction.
type InvoicingTransactionScope struct {
	db *gorm.DB
}

// NewInvoicingTransactionScope creates a new InvoicingTransactionScope
func NewInvoicingTransactionScope(db *gorm.DB) *InvoicingTransactionScope {
	return &InvoicingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *InvoicingTransactionScope) Execute(ctx context.Context, fn func(repos appinvoicing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&invoicingTxRepositories{tx: tx})
	})
}

type invoicingTxRepositories struct {
	tx *gorm.DB
}

func (r *invoicingTxRepositories) InvoiceRepo() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *invoicingTxRepositories) PaymentRepo() invoicing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *invoicingTxRepositories) HistoryRepo() invoicing.InvoiceItemHistoryRepository {
	return NewGormInvoiceItemHistoryRepository(r.tx)
}

func (r *invoicingTxRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *invoicingTxRepositories) ProductRepo() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appinvoicing.TransactionScope = (*InvoicingTransactionScope)(nil)
var _ appinvoicing.TransactionalRepositories = (*invoicingTxRepositories)(nil)
