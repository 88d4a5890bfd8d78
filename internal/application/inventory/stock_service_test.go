package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func newStockService(products *MockProductRepository, movements *MockStockMovementRepository) *StockService {
	scope := NewNoOpTransactionScope(products, movements)
	return NewStockService(scope, identity.NewTenantGuard(), zap.NewNop())
}

func productWithStock(t *testing.T, tenantID uuid.UUID, stock int64) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(tenantID, "Engine Oil", decimal.RequireFromString("50"))
	require.NoError(t, err)
	p.Stock = stock
	return p
}

func TestStockService_AdjustStock(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("add increases stock and records the movement", func(t *testing.T) {
		products := new(MockProductRepository)
		movements := new(MockStockMovementRepository)
		product := productWithStock(t, tenantID, 10)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("UpdateStock", ctx, product.ID, int64(15)).Return(nil)
		var recorded *inventory.StockMovement
		movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*inventory.StockMovement) }).
			Return(nil)

		svc := newStockService(products, movements)
		updated, err := svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: product.ID,
			Operation: inventory.AdjustOperationAdd,
			Quantity:  5,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(15), updated.Stock)
		require.NotNil(t, recorded)
		assert.Equal(t, int64(10), recorded.PreviousStock)
		assert.Equal(t, int64(15), recorded.NewStock)
		assert.Equal(t, int64(5), recorded.Quantity)
		assert.True(t, recorded.Consistent())
	})

	t.Run("subtract clamps stock at zero but keeps the intent", func(t *testing.T) {
		products := new(MockProductRepository)
		movements := new(MockStockMovementRepository)
		product := productWithStock(t, tenantID, 5)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("UpdateStock", ctx, product.ID, int64(0)).Return(nil)
		var recorded *inventory.StockMovement
		movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*inventory.StockMovement) }).
			Return(nil)

		svc := newStockService(products, movements)
		updated, err := svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: product.ID,
			Operation: inventory.AdjustOperationSubtract,
			Quantity:  8,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), updated.Stock)
		assert.Equal(t, int64(-8), recorded.Quantity, "the ledger keeps the requested delta")
	})

	t.Run("set records the difference as delta", func(t *testing.T) {
		products := new(MockProductRepository)
		movements := new(MockStockMovementRepository)
		product := productWithStock(t, tenantID, 10)

		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("UpdateStock", ctx, product.ID, int64(3)).Return(nil)
		var recorded *inventory.StockMovement
		movements.On("Create", ctx, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*inventory.StockMovement) }).
			Return(nil)

		svc := newStockService(products, movements)
		_, err := svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: product.ID,
			Operation: inventory.AdjustOperationSet,
			Quantity:  3,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(-7), recorded.Quantity)
	})

	t.Run("rejects invalid quantity and unknown operation", func(t *testing.T) {
		products := new(MockProductRepository)
		movements := new(MockStockMovementRepository)
		product := productWithStock(t, tenantID, 10)
		products.On("FindByID", ctx, product.ID).Return(product, nil)

		svc := newStockService(products, movements)

		_, err := svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: product.ID, Operation: inventory.AdjustOperationAdd, Quantity: 0,
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))

		_, err = svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: product.ID, Operation: "multiply", Quantity: 2,
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("cross-shop product is access denied", func(t *testing.T) {
		products := new(MockProductRepository)
		movements := new(MockStockMovementRepository)
		foreign := productWithStock(t, uuid.New(), 10)
		products.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

		svc := newStockService(products, movements)
		_, err := svc.AdjustStock(ctx, tenantID, AdjustStockRequest{
			ProductID: foreign.ID, Operation: inventory.AdjustOperationAdd, Quantity: 1,
		})

		require.Error(t, err)
		assert.True(t, shared.IsAccessDenied(err))
		products.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	})
}
