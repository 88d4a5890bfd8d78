package handler

import (
	"github.com/retailcore/backend/internal/domain/invoicing"
)

// InvoiceItemResponse represents one invoice line in API responses
type InvoiceItemResponse struct {
	ID              string  `json:"id"`
	ProductID       *string `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int64   `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	OriginalPrice   float64 `json:"original_price"`
	Discount        float64 `json:"discount"`
	Total           float64 `json:"total"`
	WarrantyDueDate *string `json:"warranty_due_date,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string                `json:"id"`
	ShopID        string                `json:"shop_id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Subtotal      float64               `json:"subtotal"`
	Tax           float64               `json:"tax"`
	Discount      float64               `json:"discount"`
	Total         float64               `json:"total"`
	PaidAmount    float64               `json:"paid_amount"`
	DueAmount     float64               `json:"due_amount"`
	Status        string                `json:"status"`
	Date          string                `json:"date"`
	DueDate       *string               `json:"due_date,omitempty"`
	PaymentMethod string                `json:"payment_method"`
	SalesChannel  string                `json:"sales_channel"`
	Notes         string                `json:"notes"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
	Version       int                   `json:"version"`
}

// PaymentResponse represents one payment row in API responses
type PaymentResponse struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   string  `json:"payment_date"`
	Notes         string  `json:"notes"`
	Reference     string  `json:"reference"`
	CreatedAt     string  `json:"created_at"`
}

// ItemHistoryResponse represents one item change record in API responses
type ItemHistoryResponse struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	Action        string  `json:"action"`
	ProductID     *string `json:"product_id"`
	ProductName   string  `json:"product_name"`
	OldQuantity   *int64  `json:"old_quantity"`
	NewQuantity   *int64  `json:"new_quantity"`
	UnitPrice     float64 `json:"unit_price"`
	AmountChange  float64 `json:"amount_change"`
	ChangedByID   *string `json:"changed_by_id,omitempty"`
	ChangedByName string  `json:"changed_by_name,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

func toInvoiceItemResponse(item invoicing.InvoiceItem) InvoiceItemResponse {
	resp := InvoiceItemResponse{
		ID:              item.ID.String(),
		ProductName:     item.ProductName,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice.InexactFloat64(),
		OriginalPrice:   item.OriginalPrice.InexactFloat64(),
		Discount:        item.Discount.InexactFloat64(),
		Total:           item.Total.InexactFloat64(),
		WarrantyDueDate: formatTimePtr(item.WarrantyDueDate),
	}
	if item.ProductID != nil {
		id := item.ProductID.String()
		resp.ProductID = &id
	}
	return resp
}

func toInvoiceResponse(invoice *invoicing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            invoice.ID.String(),
		ShopID:        invoice.TenantID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID.String(),
		CustomerName:  invoice.CustomerName,
		Subtotal:      invoice.Subtotal.InexactFloat64(),
		Tax:           invoice.Tax.InexactFloat64(),
		Discount:      invoice.Discount.InexactFloat64(),
		Total:         invoice.Total.InexactFloat64(),
		PaidAmount:    invoice.PaidAmount.InexactFloat64(),
		DueAmount:     invoice.DueAmount.InexactFloat64(),
		Status:        invoice.Status.String(),
		Date:          formatTime(invoice.Date),
		DueDate:       formatTimePtr(invoice.DueDate),
		PaymentMethod: invoice.PaymentMethod,
		SalesChannel:  invoice.SalesChannel,
		Notes:         invoice.Notes,
		CreatedAt:     formatTime(invoice.CreatedAt),
		UpdatedAt:     formatTime(invoice.UpdatedAt),
		Version:       invoice.Version,
	}
	for _, item := range invoice.Items {
		resp.Items = append(resp.Items, toInvoiceItemResponse(item))
	}
	return resp
}

func toPaymentResponse(payment *invoicing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		InvoiceID:     payment.InvoiceID.String(),
		Amount:        payment.Amount.InexactFloat64(),
		PaymentMethod: payment.PaymentMethod,
		PaymentDate:   formatTime(payment.PaymentDate),
		Notes:         payment.Notes,
		Reference:     payment.Reference,
		CreatedAt:     formatTime(payment.CreatedAt),
	}
}

func toItemHistoryResponse(record *invoicing.InvoiceItemHistory) ItemHistoryResponse {
	resp := ItemHistoryResponse{
		ID:            record.ID.String(),
		InvoiceID:     record.InvoiceID.String(),
		Action:        record.Action.String(),
		ProductName:   record.ProductName,
		OldQuantity:   record.OldQuantity,
		NewQuantity:   record.NewQuantity,
		UnitPrice:     record.UnitPrice.InexactFloat64(),
		AmountChange:  record.AmountChange.InexactFloat64(),
		ChangedByName: record.ChangedByName,
		Reason:        record.Reason,
		Notes:         record.Notes,
		OccurredAt:    formatTime(record.OccurredAt),
	}
	if record.ProductID != nil {
		id := record.ProductID.String()
		resp.ProductID = &id
	}
	if record.ChangedByID != nil {
		id := record.ChangedByID.String()
		resp.ChangedByID = &id
	}
	return resp
}
