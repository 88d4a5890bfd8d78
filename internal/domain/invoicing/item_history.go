package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemAction tags one line-item mutation in the audit trail
type ItemAction string

const (
	ItemActionAdded        ItemAction = "ADDED"
	ItemActionRemoved      ItemAction = "REMOVED"
	ItemActionQtyIncreased ItemAction = "QTY_INCREASED"
	ItemActionQtyDecreased ItemAction = "QTY_DECREASED"
	ItemActionPriceChanged ItemAction = "PRICE_CHANGED"
)

// IsValid checks if the action is one of the known tags
func (a ItemAction) IsValid() bool {
	switch a {
	case ItemActionAdded, ItemActionRemoved, ItemActionQtyIncreased,
		ItemActionQtyDecreased, ItemActionPriceChanged:
		return true
	}
	return false
}

// String returns the string representation of ItemAction
func (a ItemAction) String() string {
	return string(a)
}

// ParseItemAction upper-cases a caller-supplied action and validates it
// against the closed enum. Unknown tags are rejected rather than persisted.
func ParseItemAction(raw string) (ItemAction, error) {
	a := ItemAction(strings.ToUpper(strings.TrimSpace(raw)))
	if !a.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown item history action %q", raw))
	}
	return a, nil
}

// InvoiceItemHistory is an immutable audit record of a single line-item
// mutation. History rows are pure appends: recording them never recomputes
// invoice totals, which remain the ledger's responsibility.
type InvoiceItemHistory struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Action        ItemAction      `gorm:"type:varchar(30);not null"`
	ProductID     *uuid.UUID      `gorm:"type:uuid"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	OldQuantity   *int64          ``
	NewQuantity   *int64          ``
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountChange  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangedByID   *uuid.UUID      `gorm:"type:uuid"`
	ChangedByName string          `gorm:"type:varchar(200)"`
	Reason        string          `gorm:"type:varchar(500)"`
	Notes         string          `gorm:"type:text"`
	OccurredAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceItemHistory) TableName() string {
	return "invoice_item_histories"
}

// ItemChange carries one caller-supplied history entry
type ItemChange struct {
	Action        ItemAction
	ProductID     *uuid.UUID
	ProductName   string
	OldQuantity   *int64
	NewQuantity   *int64
	UnitPrice     decimal.Decimal
	AmountChange  decimal.Decimal
	ChangedByID   *uuid.UUID
	ChangedByName string
	Reason        string
	Notes         string
}

// NewInvoiceItemHistory builds the immutable record for one change
func NewInvoiceItemHistory(invoice *Invoice, change ItemChange) (*InvoiceItemHistory, error) {
	if !change.Action.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown item history action %q", change.Action))
	}
	if strings.TrimSpace(change.ProductName) == "" {
		return nil, shared.NewValidationError("Item history product name cannot be empty")
	}
	return &InvoiceItemHistory{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      invoice.TenantID,
		InvoiceID:     invoice.ID,
		Action:        change.Action,
		ProductID:     change.ProductID,
		ProductName:   change.ProductName,
		OldQuantity:   change.OldQuantity,
		NewQuantity:   change.NewQuantity,
		UnitPrice:     change.UnitPrice,
		AmountChange:  change.AmountChange,
		ChangedByID:   change.ChangedByID,
		ChangedByName: change.ChangedByName,
		Reason:        change.Reason,
		Notes:         change.Notes,
		OccurredAt:    time.Now(),
	}, nil
}

// DiffItems compares the item set before and after a wholesale replacement
// and produces the change list for the audit trail. Items are matched by
// product id when present and by product name otherwise; a quantity move in
// either direction and a unit price change on the same item produce separate
// entries.
func DiffItems(before, after []InvoiceItem) []ItemChange {
	changes := make([]ItemChange, 0)

	matched := make([]bool, len(after))
	for bi := range before {
		old := &before[bi]
		var cur *InvoiceItem
		for ai := range after {
			if matched[ai] {
				continue
			}
			if sameItem(old, &after[ai]) {
				matched[ai] = true
				cur = &after[ai]
				break
			}
		}

		if cur == nil {
			oldQty := old.Quantity
			changes = append(changes, ItemChange{
				Action:       ItemActionRemoved,
				ProductID:    old.ProductID,
				ProductName:  old.ProductName,
				OldQuantity:  &oldQty,
				UnitPrice:    old.UnitPrice,
				AmountChange: old.LineAmount().Neg(),
			})
			continue
		}

		if cur.Quantity != old.Quantity {
			action := ItemActionQtyIncreased
			if cur.Quantity < old.Quantity {
				action = ItemActionQtyDecreased
			}
			oldQty, newQty := old.Quantity, cur.Quantity
			delta := cur.UnitPrice.Mul(decimal.NewFromInt(newQty - oldQty))
			changes = append(changes, ItemChange{
				Action:       action,
				ProductID:    cur.ProductID,
				ProductName:  cur.ProductName,
				OldQuantity:  &oldQty,
				NewQuantity:  &newQty,
				UnitPrice:    cur.UnitPrice,
				AmountChange: delta,
			})
		}
		if !cur.UnitPrice.Equal(old.UnitPrice) {
			qty := cur.Quantity
			delta := cur.UnitPrice.Sub(old.UnitPrice).Mul(decimal.NewFromInt(qty))
			changes = append(changes, ItemChange{
				Action:       ItemActionPriceChanged,
				ProductID:    cur.ProductID,
				ProductName:  cur.ProductName,
				OldQuantity:  &qty,
				NewQuantity:  &qty,
				UnitPrice:    cur.UnitPrice,
				AmountChange: delta,
			})
		}
	}

	for ai := range after {
		if matched[ai] {
			continue
		}
		added := &after[ai]
		newQty := added.Quantity
		changes = append(changes, ItemChange{
			Action:       ItemActionAdded,
			ProductID:    added.ProductID,
			ProductName:  added.ProductName,
			NewQuantity:  &newQty,
			UnitPrice:    added.UnitPrice,
			AmountChange: added.LineAmount(),
		})
	}

	return changes
}

func sameItem(a, b *InvoiceItem) bool {
	if a.ProductID != nil && b.ProductID != nil {
		return *a.ProductID == *b.ProductID
	}
	if a.ProductID == nil && b.ProductID == nil {
		return a.ProductName == b.ProductName
	}
	return false
}
