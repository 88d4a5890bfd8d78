package invoicing

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the invoicing repositories.
// All repository operations inside Execute share one database transaction and
// commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories an invoicing use case
// needs within one transaction. Invoice items are children of the Invoice
// aggregate; they are written through InvoiceRepo, never independently.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() invoicing.InvoiceRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() invoicing.PaymentRepository
	// HistoryRepo returns the item history repository scoped to the current transaction
	HistoryRepo() invoicing.InvoiceItemHistoryRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() inventory.ProductRepository
}

// NoOpTransactionScope runs the scoped function without a real transaction.
// Useful for tests wired with mock repositories.
type NoOpTransactionScope struct {
	invoiceRepo  invoicing.InvoiceRepository
	paymentRepo  invoicing.PaymentRepository
	historyRepo  invoicing.InvoiceItemHistoryRepository
	customerRepo partner.CustomerRepository
	productRepo  inventory.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo invoicing.InvoiceRepository,
	paymentRepo invoicing.PaymentRepository,
	historyRepo invoicing.InvoiceItemHistoryRepository,
	customerRepo partner.CustomerRepository,
	productRepo inventory.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		historyRepo:  historyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// Execute runs the function without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() invoicing.InvoiceRepository { return s.invoiceRepo }

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() invoicing.PaymentRepository { return s.paymentRepo }

// HistoryRepo returns the item history repository.
func (s *NoOpTransactionScope) HistoryRepo() invoicing.InvoiceItemHistoryRepository {
	return s.historyRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() inventory.ProductRepository { return s.productRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
