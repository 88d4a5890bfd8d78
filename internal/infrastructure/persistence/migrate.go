package persistence

import (
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/domain/partner"
)

// AutoMigrate creates or updates the schema for every persisted entity,
// including the invoice number sequence table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.Shop{},
		&partner.Customer{},
		&inventory.Product{},
		&inventory.StockMovement{},
		&invoicing.Invoice{},
		&invoicing.InvoiceItem{},
		&invoicing.Payment{},
		&invoicing.InvoiceItemHistory{},
		&invoiceNumberSequence{},
	)
}
