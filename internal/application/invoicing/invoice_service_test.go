package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newInvoiceService(scope *testScope) *InvoiceService {
	return NewInvoiceService(scope.scope, identity.NewTenantGuard(), invoicing.NumberingScopeTenant, zap.NewNop())
}

func ownedCustomer(t *testing.T, tenantID uuid.UUID, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, name)
	require.NoError(t, err)
	return c
}

func ownedInvoice(t *testing.T, tenantID uuid.UUID, number string) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(tenantID, number, uuid.New(), "Aye Chan", time.Now(), nil, invoicing.FinancialOverrides{})
	require.NoError(t, err)
	return inv
}

func TestInvoiceService_CreateInvoice(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	twoItems := []CreateItemRequest{
		{ProductName: "Engine Oil", Quantity: 2, UnitPrice: dec("50")},
		{ProductName: "Air Filter", Quantity: 3, UnitPrice: dec("50")},
	}

	t.Run("derives financials from items", func(t *testing.T) {
		scope := newTestScope()
		customer := ownedCustomer(t, tenantID, "Aye Chan")
		scope.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		scope.invoices.On("NextInvoiceNumber", ctx, tenantID, invoicing.NumberingScopeTenant).Return("INV-10260001", nil)
		scope.invoices.On("Create", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := newInvoiceService(scope)
		inv, err := svc.CreateInvoice(ctx, tenantID, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      twoItems,
		})

		require.NoError(t, err)
		assert.Equal(t, "INV-10260001", inv.InvoiceNumber)
		assert.Equal(t, "Aye Chan", inv.CustomerName)
		assert.True(t, dec("250").Equal(inv.Subtotal))
		assert.True(t, dec("250").Equal(inv.Total))
		assert.True(t, dec("250").Equal(inv.DueAmount))
		assert.Equal(t, invoicing.InvoiceStatusUnpaid, inv.Status)
		require.Len(t, inv.Items, 2)
		scope.invoices.AssertExpectations(t)
	})

	t.Run("missing customer falls back to placeholder name", func(t *testing.T) {
		scope := newTestScope()
		ghostID := uuid.New()
		scope.customers.On("FindByID", ctx, ghostID).Return(nil, shared.ErrNotFound)
		scope.invoices.On("NextInvoiceNumber", ctx, tenantID, invoicing.NumberingScopeTenant).Return("INV-10260002", nil)
		scope.invoices.On("Create", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := newInvoiceService(scope)
		inv, err := svc.CreateInvoice(ctx, tenantID, CreateInvoiceRequest{
			CustomerID: ghostID,
			Items:      twoItems,
		})

		require.NoError(t, err)
		assert.Equal(t, partner.UnknownCustomerName, inv.CustomerName)
	})

	t.Run("cross-shop customer is access denied", func(t *testing.T) {
		scope := newTestScope()
		foreign := ownedCustomer(t, uuid.New(), "Other Shop Customer")
		scope.customers.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

		svc := newInvoiceService(scope)
		_, err := svc.CreateInvoice(ctx, tenantID, CreateInvoiceRequest{
			CustomerID: foreign.ID,
			Items:      twoItems,
		})

		require.Error(t, err)
		assert.True(t, shared.IsAccessDenied(err), "cross-shop must be denied, not hidden as missing")
		assert.False(t, shared.IsNotFound(err))
		scope.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("dangling product reference is kept with nil id", func(t *testing.T) {
		scope := newTestScope()
		customer := ownedCustomer(t, tenantID, "Aye Chan")
		goneProduct := uuid.New()
		scope.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		scope.products.On("FindByID", ctx, goneProduct).Return(nil, shared.ErrNotFound)
		scope.invoices.On("NextInvoiceNumber", ctx, tenantID, invoicing.NumberingScopeTenant).Return("INV-10260003", nil)
		scope.invoices.On("Create", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		svc := newInvoiceService(scope)
		inv, err := svc.CreateInvoice(ctx, tenantID, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items: []CreateItemRequest{
				{ProductID: &goneProduct, ProductName: "Engine Oil", Quantity: 1, UnitPrice: dec("50")},
			},
		})

		require.NoError(t, err)
		require.Len(t, inv.Items, 1)
		assert.Nil(t, inv.Items[0].ProductID)
		assert.Equal(t, "Engine Oil", inv.Items[0].ProductName)
		assert.True(t, dec("50").Equal(inv.Items[0].UnitPrice))
	})

	t.Run("explicit status is validated against the enum", func(t *testing.T) {
		scope := newTestScope()
		bad := "PENDING"

		svc := newInvoiceService(scope)
		_, err := svc.CreateInvoice(ctx, tenantID, CreateInvoiceRequest{
			CustomerID: uuid.New(),
			Status:     &bad,
		})

		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestInvoiceService_UpdateInvoice(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("item replacement recomputes totals and reports changes", func(t *testing.T) {
		scope := newTestScope()
		inv := ownedInvoice(t, tenantID, "INV-10260001")
		existing, err := invoicing.NewInvoiceItem(inv.ID, invoicing.InvoiceItemInput{
			ProductName: "Engine Oil", Quantity: 2, UnitPrice: dec("50"),
		})
		require.NoError(t, err)
		inv.AttachItems([]invoicing.InvoiceItem{*existing}, invoicing.FinancialOverrides{})

		scope.invoices.On("ResolveRef", ctx, invoicing.InvoiceRef("INV-10260001")).Return(inv, nil)
		scope.invoices.On("ReplaceItems", ctx, inv.ID, mock.AnythingOfType("[]invoicing.InvoiceItem")).Return(nil)
		scope.invoices.On("Save", ctx, inv).Return(nil)

		svc := newInvoiceService(scope)
		result, err := svc.UpdateInvoice(ctx, tenantID, "INV-10260001", UpdateInvoiceRequest{
			ItemsReplaced: true,
			Items: []CreateItemRequest{
				{ProductName: "Engine Oil", Quantity: 5, UnitPrice: dec("50")},
			},
		})

		require.NoError(t, err)
		assert.True(t, dec("250").Equal(result.Invoice.Subtotal))
		require.Len(t, result.ItemChanges, 1)
		assert.Equal(t, invoicing.ItemActionQtyIncreased, result.ItemChanges[0].Action)
		scope.invoices.AssertExpectations(t)
	})

	t.Run("cross-shop invoice is access denied", func(t *testing.T) {
		scope := newTestScope()
		foreign := ownedInvoice(t, uuid.New(), "INV-10260009")
		scope.invoices.On("ResolveRef", ctx, invoicing.InvoiceRef("INV-10260009")).Return(foreign, nil)

		svc := newInvoiceService(scope)
		notes := "hijack"
		_, err := svc.UpdateInvoice(ctx, tenantID, "INV-10260009", UpdateInvoiceRequest{Notes: &notes})

		require.Error(t, err)
		assert.True(t, shared.IsAccessDenied(err))
		scope.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown ref surfaces as not found", func(t *testing.T) {
		scope := newTestScope()
		scope.invoices.On("ResolveRef", ctx, invoicing.InvoiceRef("nope")).Return(nil, shared.ErrNotFound)

		svc := newInvoiceService(scope)
		_, err := svc.UpdateInvoice(ctx, tenantID, "nope", UpdateInvoiceRequest{})

		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestInvoiceService_DeleteInvoice(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("cascades child rows before the invoice", func(t *testing.T) {
		scope := newTestScope()
		inv := ownedInvoice(t, tenantID, "INV-10260001")
		scope.invoices.On("ResolveRef", ctx, invoicing.InvoiceRef("INV-10260001")).Return(inv, nil)
		scope.payments.On("DeleteByInvoice", ctx, inv.ID).Return(nil)
		scope.invoices.On("Delete", ctx, inv.ID).Return(nil)

		svc := newInvoiceService(scope)
		require.NoError(t, svc.DeleteInvoice(ctx, tenantID, "INV-10260001"))
		scope.payments.AssertExpectations(t)
		scope.invoices.AssertExpectations(t)
	})

	t.Run("cross-shop delete is denied before any write", func(t *testing.T) {
		scope := newTestScope()
		foreign := ownedInvoice(t, uuid.New(), "INV-10260001")
		scope.invoices.On("ResolveRef", ctx, invoicing.InvoiceRef("INV-10260001")).Return(foreign, nil)

		svc := newInvoiceService(scope)
		err := svc.DeleteInvoice(ctx, tenantID, "INV-10260001")

		require.Error(t, err)
		assert.True(t, shared.IsAccessDenied(err))
		scope.payments.AssertNotCalled(t, "DeleteByInvoice", mock.Anything, mock.Anything)
		scope.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
