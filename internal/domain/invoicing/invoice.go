package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid   InvoiceStatus = "UNPAID"
	InvoiceStatusHalfpay  InvoiceStatus = "HALFPAY"
	InvoiceStatusFullpaid InvoiceStatus = "FULLPAID"
)

// IsValid checks if the status is one of the three known values
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusHalfpay, InvoiceStatusFullpaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// ParseInvoiceStatus upper-cases a caller-supplied status and validates it
// against the closed enum. Unknown values are rejected rather than persisted.
func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	s := InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown invoice status %q", raw))
	}
	return s, nil
}

// DeriveStatus computes the payment status as a pure function of paid amount
// and total: no payments yet means UNPAID, full coverage means FULLPAID,
// anything in between is HALFPAY.
func DeriveStatus(paidAmount, total decimal.Decimal) InvoiceStatus {
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		return InvoiceStatusUnpaid
	}
	if paidAmount.GreaterThanOrEqual(total) {
		return InvoiceStatusFullpaid
	}
	return InvoiceStatusHalfpay
}

// Invoice is the aggregate root of the invoice ledger. It owns an ordered
// list of line items and an append-only list of payments, and keeps
// total == subtotal + tax - discount and dueAmount == max(0, total - paid)
// consistent across edits and payments.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	Date          time.Time       `gorm:"not null"`
	DueDate       *time.Time
	PaymentMethod string        `gorm:"type:varchar(50)"`
	SalesChannel  string        `gorm:"type:varchar(50)"`
	Notes         string        `gorm:"type:text"`
	Items         []InvoiceItem `gorm:"-"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// FinancialOverrides carries optional caller-supplied financial figures for
// invoice creation. Absent fields are computed from the line items.
type FinancialOverrides struct {
	Subtotal   *decimal.Decimal
	Tax        *decimal.Decimal
	Discount   *decimal.Decimal
	Total      *decimal.Decimal
	PaidAmount *decimal.Decimal
	Status     *InvoiceStatus
}

// NewInvoice creates an invoice with its line items. Totals follow the
// overrides when supplied and the items otherwise; status is derived from
// the paid/total relation unless explicitly overridden.
func NewInvoice(
	tenantID uuid.UUID,
	invoiceNumber string,
	customerID uuid.UUID,
	customerName string,
	date time.Time,
	dueDate *time.Time,
	fin FinancialOverrides,
) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice shop cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice customer cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Date:                date,
		DueDate:             dueDate,
	}

	if fin.Tax != nil {
		inv.Tax = *fin.Tax
	}
	if fin.Discount != nil {
		inv.Discount = *fin.Discount
	}
	if fin.Subtotal != nil {
		inv.Subtotal = *fin.Subtotal
	}
	if fin.PaidAmount != nil {
		inv.PaidAmount = *fin.PaidAmount
	}

	inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
	if fin.Total != nil {
		inv.Total = *fin.Total
	}
	inv.DueAmount = clampDue(inv.Total, inv.PaidAmount)

	if fin.Status != nil {
		inv.Status = *fin.Status
	} else {
		inv.Status = DeriveStatus(inv.PaidAmount, inv.Total)
	}

	return inv, nil
}

// AttachItems sets the invoice's line items and, when no explicit subtotal
// override was given, recomputes subtotal/total/due from them.
func (inv *Invoice) AttachItems(items []InvoiceItem, fin FinancialOverrides) {
	inv.Items = items
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}
	if fin.Subtotal == nil {
		inv.Subtotal = itemsSubtotal(items)
		if fin.Total == nil {
			inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
		}
		inv.DueAmount = clampDue(inv.Total, inv.PaidAmount)
		if fin.Status == nil {
			inv.Status = DeriveStatus(inv.PaidAmount, inv.Total)
		}
	}
}

// UpdatePatch carries a partial set of scalar field updates for an invoice
// edit, plus an optional full replacement of the item array. Nil pointers
// mean "leave unchanged".
type UpdatePatch struct {
	CustomerID    *uuid.UUID
	CustomerName  *string
	Subtotal      *decimal.Decimal
	Tax           *decimal.Decimal
	Discount      *decimal.Decimal
	Total         *decimal.Decimal
	PaidAmount    *decimal.Decimal
	DueAmount     *decimal.Decimal
	Status        *InvoiceStatus
	Date          *time.Time
	DueDate       *time.Time
	PaymentMethod *string
	SalesChannel  *string
	Notes         *string

	// ReplaceItems, when non-nil, replaces the entire item set wholesale.
	// The previous items are deleted and these inserted; there is no
	// per-item diffing, so concurrent editors are last-write-wins.
	ReplaceItems []InvoiceItem
}

// ApplyUpdate mutates the invoice per the edit rules: an item replacement
// recomputes the subtotal unless one was supplied explicitly; any change to
// subtotal, tax or discount recomputes total and due from the mixed old/new
// values; an explicit total with no component change is taken as-is without
// touching due unless due was also supplied.
func (inv *Invoice) ApplyUpdate(patch UpdatePatch) {
	itemsReplaced := patch.ReplaceItems != nil
	if itemsReplaced {
		inv.Items = patch.ReplaceItems
		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
		}
	}

	subtotalChanged := false
	if patch.Subtotal != nil {
		inv.Subtotal = *patch.Subtotal
		subtotalChanged = true
	} else if itemsReplaced {
		inv.Subtotal = itemsSubtotal(inv.Items)
		subtotalChanged = true
	}

	taxOrDiscountChanged := false
	if patch.Tax != nil {
		inv.Tax = *patch.Tax
		taxOrDiscountChanged = true
	}
	if patch.Discount != nil {
		inv.Discount = *patch.Discount
		taxOrDiscountChanged = true
	}

	if patch.PaidAmount != nil {
		inv.PaidAmount = *patch.PaidAmount
	}

	if subtotalChanged || taxOrDiscountChanged {
		inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
		inv.DueAmount = clampDue(inv.Total, inv.PaidAmount)
		if patch.Status == nil {
			inv.Status = DeriveStatus(inv.PaidAmount, inv.Total)
		}
	} else if patch.Total != nil {
		// explicit total with unchanged components is used verbatim
		inv.Total = *patch.Total
		if patch.DueAmount != nil {
			inv.DueAmount = *patch.DueAmount
		}
	}

	if patch.Status != nil {
		inv.Status = *patch.Status
	}
	if patch.CustomerID != nil {
		inv.CustomerID = *patch.CustomerID
	}
	if patch.CustomerName != nil {
		inv.CustomerName = *patch.CustomerName
	}
	if patch.Date != nil {
		inv.Date = *patch.Date
	}
	if patch.DueDate != nil {
		inv.DueDate = patch.DueDate
	}
	if patch.PaymentMethod != nil {
		inv.PaymentMethod = *patch.PaymentMethod
	}
	if patch.SalesChannel != nil {
		inv.SalesChannel = *patch.SalesChannel
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}

	inv.Touch()
	inv.IncrementVersion()
}

// SettlePayments writes the reconciled payment totals back to the invoice.
// totalPaid is the re-summed amount over all payment records, not an
// increment, so prior drift between records and the cached paidAmount heals
// on every payment.
func (inv *Invoice) SettlePayments(totalPaid decimal.Decimal) {
	inv.PaidAmount = totalPaid
	inv.DueAmount = clampDue(inv.Total, totalPaid)
	inv.Status = DeriveStatus(totalPaid, inv.Total)
	inv.Touch()
	inv.IncrementVersion()
}

// IsFullPaid returns true when the invoice is fully covered by payments
func (inv *Invoice) IsFullPaid() bool {
	return inv.Status == InvoiceStatusFullpaid
}

func itemsSubtotal(items []InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].LineAmount())
	}
	return sum
}

func clampDue(total, paid decimal.Decimal) decimal.Decimal {
	due := total.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
