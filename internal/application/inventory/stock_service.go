package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// StockService applies stock adjustments and keeps the movement ledger
// consistent with the product's stock level.
type StockService struct {
	txScope TransactionScope
	guard   *identity.TenantGuard
	logger  *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(txScope TransactionScope, guard *identity.TenantGuard, logger *zap.Logger) *StockService {
	return &StockService{
		txScope: txScope,
		guard:   guard,
		logger:  logger,
	}
}

// AdjustStockRequest carries one stock adjustment
type AdjustStockRequest struct {
	ProductID       uuid.UUID
	Operation       inventory.AdjustOperation
	Quantity        int64
	ReferenceID     string
	ReferenceNumber string
	Notes           string
}

// AdjustStock applies add, subtract or set to the product's stock and appends
// the movement record in the same transaction. Subtract clamps the stock at
// zero while the movement keeps the full requested delta.
func (s *StockService) AdjustStock(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest) (*inventory.Product, error) {
	var updated *inventory.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, product.TenantID); err != nil {
			return err
		}

		adj, err := inventory.ComputeAdjustment(product.Stock, req.Operation, req.Quantity)
		if err != nil {
			return err
		}

		movement := inventory.NewStockMovement(product, adj, inventory.MovementMetadata{
			Type:            inventory.MovementTypeAdjustment,
			ReferenceID:     req.ReferenceID,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
		})

		if err := repos.ProductRepo().UpdateStock(ctx, product.ID, adj.NewStock); err != nil {
			return fmt.Errorf("failed to update product stock: %w", err)
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		product.Stock = adj.NewStock
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", updated.ID.String()),
		zap.String("operation", string(req.Operation)),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("new_stock", updated.Stock),
	)
	return updated, nil
}

// ListMovements returns the movement ledger of one owned product.
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, product.TenantID); err != nil {
			return err
		}
		movements, err = repos.MovementRepo().ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
