package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of invoicing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ResolveRef(ctx context.Context, ref invoicing.InvoiceRef) (*invoicing.Invoice, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, query invoicing.InvoiceQuery) ([]*invoicing.Invoice, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*invoicing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID, scope invoicing.NumberingScope) (string, error) {
	args := m.Called(ctx, tenantID, scope)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []invoicing.InvoiceItem) error {
	args := m.Called(ctx, invoiceID, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of invoicing.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *invoicing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*invoicing.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoicing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of invoicing.InvoiceItemHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) CreateBatch(ctx context.Context, records []*invoicing.InvoiceItemHistory) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*invoicing.InvoiceItemHistory, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoicing.InvoiceItemHistory), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of inventory.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, newStock int64) error {
	args := m.Called(ctx, id, newStock)
	return args.Error(0)
}

// testScope bundles the mocks behind a NoOpTransactionScope
type testScope struct {
	scope     *NoOpTransactionScope
	invoices  *MockInvoiceRepository
	payments  *MockPaymentRepository
	history   *MockHistoryRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
}

func newTestScope() *testScope {
	s := &testScope{
		invoices:  new(MockInvoiceRepository),
		payments:  new(MockPaymentRepository),
		history:   new(MockHistoryRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
	}
	s.scope = NewNoOpTransactionScope(s.invoices, s.payments, s.history, s.customers, s.products)
	return s
}
