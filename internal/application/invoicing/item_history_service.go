package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"go.uber.org/zap"
)

// ItemHistoryService appends to the immutable line-item audit trail
type ItemHistoryService struct {
	txScope TransactionScope
	guard   *identity.TenantGuard
	logger  *zap.Logger
}

// NewItemHistoryService creates a new ItemHistoryService
func NewItemHistoryService(txScope TransactionScope, guard *identity.TenantGuard, logger *zap.Logger) *ItemHistoryService {
	return &ItemHistoryService{
		txScope: txScope,
		guard:   guard,
		logger:  logger,
	}
}

// RecordChanges appends one history row per change in a single batch.
// The trail is pure append: recording never recomputes invoice totals.
func (s *ItemHistoryService) RecordChanges(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef, changes []invoicing.ItemChange) ([]*invoicing.InvoiceItemHistory, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	var records []*invoicing.InvoiceItemHistory
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().ResolveRef(ctx, ref)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, inv.TenantID); err != nil {
			return err
		}

		records = make([]*invoicing.InvoiceItemHistory, 0, len(changes))
		for _, change := range changes {
			record, err := invoicing.NewInvoiceItemHistory(inv, change)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		if err := repos.HistoryRepo().CreateBatch(ctx, records); err != nil {
			return fmt.Errorf("failed to record item history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item history recorded",
		zap.String("invoice_ref", string(ref)),
		zap.Int("entries", len(records)),
	)
	return records, nil
}

// ListHistory returns the audit trail of one owned invoice, oldest first.
func (s *ItemHistoryService) ListHistory(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef) ([]*invoicing.InvoiceItemHistory, error) {
	var records []*invoicing.InvoiceItemHistory
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().ResolveRef(ctx, ref)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, inv.TenantID); err != nil {
			return err
		}
		records, err = repos.HistoryRepo().ListByInvoice(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
