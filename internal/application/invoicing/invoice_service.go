package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles the invoice lifecycle: create with derived
// financials, resolve-and-edit, and cascading delete.
type InvoiceService struct {
	txScope TransactionScope
	guard   *identity.TenantGuard
	scope   invoicing.NumberingScope
	logger  *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txScope TransactionScope,
	guard *identity.TenantGuard,
	numberingScope invoicing.NumberingScope,
	logger *zap.Logger,
) *InvoiceService {
	if !numberingScope.IsValid() {
		numberingScope = invoicing.NumberingScopeTenant
	}
	return &InvoiceService{
		txScope: txScope,
		guard:   guard,
		scope:   numberingScope,
		logger:  logger,
	}
}

// CreateItemRequest carries one caller-supplied line item
type CreateItemRequest struct {
	ProductID       *uuid.UUID
	ProductName     string
	Quantity        int64
	UnitPrice       decimal.Decimal
	OriginalPrice   decimal.Decimal
	Discount        decimal.Decimal
	Total           *decimal.Decimal
	WarrantyDueDate *time.Time
}

// CreateInvoiceRequest carries the caller's invoice creation input.
// Financial fields are optional; absent ones are derived from the items.
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID
	CustomerName  string
	Items         []CreateItemRequest
	Subtotal      *decimal.Decimal
	Tax           *decimal.Decimal
	Discount      *decimal.Decimal
	Total         *decimal.Decimal
	PaidAmount    *decimal.Decimal
	Status        *string
	Date          time.Time
	DueDate       *time.Time
	PaymentMethod string
	SalesChannel  string
	Notes         string
}

// CreateInvoice creates an invoice with its items in one transaction.
// A missing customer does not fail the order; the invoice keeps the supplied
// name or falls back to the unknown-customer placeholder. A customer owned by
// another shop is an access violation. Dangling product references are
// stored with a nil product id but keep the supplied name and price.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*invoicing.Invoice, error) {
	fin, err := buildOverrides(req.Subtotal, req.Tax, req.Discount, req.Total, req.PaidAmount, req.Status)
	if err != nil {
		return nil, err
	}

	var created *invoicing.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customerName, err := s.resolveCustomerName(ctx, repos.CustomerRepo(), tenantID, req.CustomerID, req.CustomerName)
		if err != nil {
			return err
		}

		number, err := repos.InvoiceRepo().NextInvoiceNumber(ctx, tenantID, s.scope)
		if err != nil {
			return fmt.Errorf("failed to assign invoice number: %w", err)
		}

		inv, err := invoicing.NewInvoice(tenantID, number, req.CustomerID, customerName, req.Date, req.DueDate, fin)
		if err != nil {
			return err
		}

		items, err := s.buildItems(ctx, repos.ProductRepo(), inv.ID, tenantID, req.Items)
		if err != nil {
			return err
		}
		inv.AttachItems(items, fin)

		if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("tenant_id", tenantID.String()),
		zap.String("total", created.Total.String()),
	)
	return created, nil
}

// UpdateInvoiceRequest carries a partial invoice edit. Nil means unchanged;
// Items non-nil replaces the whole item set.
type UpdateInvoiceRequest struct {
	CustomerID    *uuid.UUID
	CustomerName  *string
	Items         []CreateItemRequest
	ItemsReplaced bool
	Subtotal      *decimal.Decimal
	Tax           *decimal.Decimal
	Discount      *decimal.Decimal
	Total         *decimal.Decimal
	PaidAmount    *decimal.Decimal
	DueAmount     *decimal.Decimal
	Status        *string
	Date          *time.Time
	DueDate       *time.Time
	PaymentMethod *string
	SalesChannel  *string
	Notes         *string
}

// UpdateResult pairs the updated invoice with the item changes the edit
// produced, so transport code can feed the history log without re-diffing.
type UpdateResult struct {
	Invoice     *invoicing.Invoice
	ItemChanges []invoicing.ItemChange
}

// UpdateInvoice resolves the invoice by the reference chain, checks shop
// ownership and applies the patch in one transaction. Item replacement is
// wholesale: previous items are deleted and the new set inserted.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef, req UpdateInvoiceRequest) (*UpdateResult, error) {
	var status *invoicing.InvoiceStatus
	if req.Status != nil {
		parsed, err := invoicing.ParseInvoiceStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	result := &UpdateResult{}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := s.resolveOwned(ctx, repos.InvoiceRepo(), tenantID, ref)
		if err != nil {
			return err
		}

		patch := invoicing.UpdatePatch{
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			Subtotal:      req.Subtotal,
			Tax:           req.Tax,
			Discount:      req.Discount,
			Total:         req.Total,
			PaidAmount:    req.PaidAmount,
			DueAmount:     req.DueAmount,
			Status:        status,
			Date:          req.Date,
			DueDate:       req.DueDate,
			PaymentMethod: req.PaymentMethod,
			SalesChannel:  req.SalesChannel,
			Notes:         req.Notes,
		}

		if req.ItemsReplaced {
			items, err := s.buildItems(ctx, repos.ProductRepo(), inv.ID, tenantID, req.Items)
			if err != nil {
				return err
			}
			result.ItemChanges = invoicing.DiffItems(inv.Items, items)
			patch.ReplaceItems = items
		}

		inv.ApplyUpdate(patch)

		if req.ItemsReplaced {
			if err := repos.InvoiceRepo().ReplaceItems(ctx, inv.ID, inv.Items); err != nil {
				return fmt.Errorf("failed to replace invoice items: %w", err)
			}
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		result.Invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice updated",
		zap.String("invoice_number", result.Invoice.InvoiceNumber),
		zap.Bool("items_replaced", req.ItemsReplaced),
	)
	return result, nil
}

// DeleteInvoice removes the invoice and its children in one transaction,
// child rows first: payments, then items, then the invoice.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := s.resolveOwned(ctx, repos.InvoiceRepo(), tenantID, ref)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().DeleteByInvoice(ctx, inv.ID); err != nil {
			return fmt.Errorf("failed to delete invoice payments: %w", err)
		}
		if err := repos.InvoiceRepo().Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		s.logger.Info("invoice deleted", zap.String("invoice_number", inv.InvoiceNumber))
		return nil
	})
	return err
}

// GetInvoice resolves and returns one owned invoice with its payments.
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID uuid.UUID, ref invoicing.InvoiceRef) (*invoicing.Invoice, []*invoicing.Payment, error) {
	var inv *invoicing.Invoice
	var payments []*invoicing.Payment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := s.resolveOwned(ctx, repos.InvoiceRepo(), tenantID, ref)
		if err != nil {
			return err
		}
		inv = found
		payments, err = repos.PaymentRepo().ListByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("failed to load invoice payments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return inv, payments, nil
}

// ListInvoices returns the tenant's invoices and the total match count.
func (s *InvoiceService) ListInvoices(ctx context.Context, query invoicing.InvoiceQuery) ([]*invoicing.Invoice, int64, error) {
	var invoices []*invoicing.Invoice
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoices, total, err = repos.InvoiceRepo().List(ctx, query)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// resolveOwned looks the invoice up via the reference chain and verifies it
// belongs to the effective shop.
func (s *InvoiceService) resolveOwned(ctx context.Context, repo invoicing.InvoiceRepository, tenantID uuid.UUID, ref invoicing.InvoiceRef) (*invoicing.Invoice, error) {
	inv, err := repo.ResolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.guard.EnsureShopOwnership(tenantID, inv.TenantID); err != nil {
		return nil, err
	}
	return inv, nil
}

// resolveCustomerName loads the customer for the name fallback. A missing
// customer never fails the order; a customer owned by another shop does.
func (s *InvoiceService) resolveCustomerName(ctx context.Context, repo partner.CustomerRepository, tenantID, customerID uuid.UUID, suppliedName string) (string, error) {
	customer, err := repo.FindByID(ctx, customerID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return "", fmt.Errorf("failed to load customer: %w", err)
		}
		if suppliedName != "" {
			return suppliedName, nil
		}
		return partner.UnknownCustomerName, nil
	}
	if err := s.guard.EnsureShopOwnership(tenantID, customer.TenantID); err != nil {
		return "", err
	}
	if suppliedName != "" {
		return suppliedName, nil
	}
	return customer.Name, nil
}

// buildItems validates line items and verifies product references. A
// reference to a product that no longer exists is dropped rather than
// rejected: the item keeps the supplied name and price with a nil product id.
// A product owned by another shop is an access violation.
func (s *InvoiceService) buildItems(ctx context.Context, products inventory.ProductRepository, invoiceID, tenantID uuid.UUID, inputs []CreateItemRequest) ([]invoicing.InvoiceItem, error) {
	items := make([]invoicing.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		productID := in.ProductID
		if productID != nil {
			product, err := products.FindByID(ctx, *productID)
			switch {
			case err != nil && shared.IsNotFound(err):
				productID = nil
			case err != nil:
				return nil, fmt.Errorf("failed to load product: %w", err)
			default:
				if err := s.guard.EnsureShopOwnership(tenantID, product.TenantID); err != nil {
					return nil, err
				}
			}
		}

		item, err := invoicing.NewInvoiceItem(invoiceID, invoicing.InvoiceItemInput{
			ProductID:       productID,
			ProductName:     in.ProductName,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			OriginalPrice:   in.OriginalPrice,
			Discount:        in.Discount,
			Total:           in.Total,
			WarrantyDueDate: in.WarrantyDueDate,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// buildOverrides assembles the financial overrides, parsing and validating
// an explicit status against the closed enum.
func buildOverrides(subtotal, tax, discount, total, paid *decimal.Decimal, rawStatus *string) (invoicing.FinancialOverrides, error) {
	fin := invoicing.FinancialOverrides{
		Subtotal:   subtotal,
		Tax:        tax,
		Discount:   discount,
		Total:      total,
		PaidAmount: paid,
	}
	if rawStatus != nil {
		status, err := invoicing.ParseInvoiceStatus(*rawStatus)
		if err != nil {
			return invoicing.FinancialOverrides{}, err
		}
		fin.Status = &status
	}
	return fin, nil
}
