package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records payments and reconciles the invoice ledger
type PaymentService struct {
	txScope TransactionScope
	guard   *identity.TenantGuard
	logger  *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(txScope TransactionScope, guard *identity.TenantGuard, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		txScope: txScope,
		guard:   guard,
		logger:  logger,
	}
}

// ApplyPaymentRequest carries one payment submission
type ApplyPaymentRequest struct {
	InvoiceRef    invoicing.InvoiceRef
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
	Notes         string
	Reference     string
}

// PaymentResult pairs the recorded payment with the reconciled invoice
type PaymentResult struct {
	Payment *invoicing.Payment
	Invoice *invoicing.Invoice
}

// ApplyPayment appends a payment record and reconciles the invoice in one
// transaction. Payments are append-only and never deduplicated: submitting
// the same amount twice records two rows. The invoice's paid amount is the
// re-summed total over all payment rows, so a cached figure that drifted from
// the records heals on the next payment.
func (s *PaymentService) ApplyPayment(ctx context.Context, tenantID uuid.UUID, req ApplyPaymentRequest) (*PaymentResult, error) {
	result := &PaymentResult{}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().ResolveRef(ctx, req.InvoiceRef)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, inv.TenantID); err != nil {
			return err
		}

		payment, err := invoicing.NewPayment(inv, req.Amount, req.PaymentMethod, req.PaymentDate, req.Notes, req.Reference)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		totalPaid, err := repos.PaymentRepo().SumByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("failed to sum invoice payments: %w", err)
		}

		inv.SettlePayments(totalPaid)
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to reconcile invoice: %w", err)
		}

		result.Payment = payment
		result.Invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		zap.String("invoice_number", result.Invoice.InvoiceNumber),
		zap.String("amount", result.Payment.Amount.String()),
		zap.String("status", result.Invoice.Status.String()),
	)
	return result, nil
}

// ListPayments returns the payments of one owned invoice, oldest first.
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef) ([]*invoicing.Payment, error) {
	var payments []*invoicing.Payment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().ResolveRef(ctx, ref)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureShopOwnership(tenantID, inv.TenantID); err != nil {
			return err
		}
		payments, err = repos.PaymentRepo().ListByInvoice(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}
