package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoicingapp "github.com/retailcore/backend/internal/application/invoicing"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// InvoiceHandler handles invoice, payment and item history API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
	paymentService *invoicingapp.PaymentService
	historyService *invoicingapp.ItemHistoryService
	logger         *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	invoiceService *invoicingapp.InvoiceService,
	paymentService *invoicingapp.PaymentService,
	historyService *invoicingapp.ItemHistoryService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
		historyService: historyService,
		logger:         logger,
	}
}

// RegisterRoutes registers invoice routes on the given group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:ref", h.Get)
		invoices.PUT("/:ref", h.Update)
		invoices.DELETE("/:ref", h.Delete)
		invoices.POST("/:ref/payments", h.ApplyPayment)
		invoices.GET("/:ref/payments", h.ListPayments)
		invoices.POST("/:ref/history", h.RecordHistory)
		invoices.GET("/:ref/history", h.ListHistory)
	}
}

// CreateInvoiceItemRequest represents one line item in a create or update request
type CreateInvoiceItemRequest struct {
	ProductID       *string    `json:"product_id"`
	ProductName     string     `json:"product_name" binding:"required,min=1,max=200"`
	Quantity        int64      `json:"quantity" binding:"required,gt=0"`
	UnitPrice       float64    `json:"unit_price" binding:"gte=0"`
	OriginalPrice   *float64   `json:"original_price"`
	Discount        *float64   `json:"discount"`
	Total           *float64   `json:"total"`
	WarrantyDueDate *time.Time `json:"warranty_due_date"`
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	CustomerID    string                     `json:"customer_id" binding:"required,uuid"`
	CustomerName  string                     `json:"customer_name" binding:"max=200"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal      *float64                   `json:"subtotal"`
	Tax           *float64                   `json:"tax"`
	Discount      *float64                   `json:"discount"`
	Total         *float64                   `json:"total"`
	PaidAmount    *float64                   `json:"paid_amount"`
	Status        *string                    `json:"status"`
	Date          *time.Time                 `json:"date"`
	DueDate       *time.Time                 `json:"due_date"`
	PaymentMethod string                     `json:"payment_method" binding:"max=50"`
	SalesChannel  string                     `json:"sales_channel" binding:"max=50"`
	Notes         string                     `json:"notes" binding:"max=2000"`
}

// UpdateInvoiceRequest represents a partial invoice edit. Absent fields stay
// unchanged; a non-nil items array replaces the whole item set.
type UpdateInvoiceRequest struct {
	CustomerID    *string                    `json:"customer_id" binding:"omitempty,uuid"`
	CustomerName  *string                    `json:"customer_name" binding:"omitempty,max=200"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"omitempty,dive"`
	Subtotal      *float64                   `json:"subtotal"`
	Tax           *float64                   `json:"tax"`
	Discount      *float64                   `json:"discount"`
	Total         *float64                   `json:"total"`
	PaidAmount    *float64                   `json:"paid_amount"`
	DueAmount     *float64                   `json:"due_amount"`
	Status        *string                    `json:"status"`
	Date          *time.Time                 `json:"date"`
	DueDate       *time.Time                 `json:"due_date"`
	PaymentMethod *string                    `json:"payment_method" binding:"omitempty,max=50"`
	SalesChannel  *string                    `json:"sales_channel" binding:"omitempty,max=50"`
	Notes         *string                    `json:"notes" binding:"omitempty,max=2000"`
	ChangeReason  string                     `json:"change_reason" binding:"max=500"`
}

// ApplyPaymentRequest represents a payment submission against an invoice
type ApplyPaymentRequest struct {
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	PaymentMethod string     `json:"payment_method" binding:"max=50"`
	PaymentDate   *time.Time `json:"payment_date"`
	Notes         string     `json:"notes" binding:"max=2000"`
	Reference     string     `json:"reference" binding:"max=100"`
}

// RecordHistoryEntryRequest represents one item change to append to the log
type RecordHistoryEntryRequest struct {
	Action       string   `json:"action" binding:"required"`
	ProductID    *string  `json:"product_id"`
	ProductName  string   `json:"product_name" binding:"required,min=1,max=200"`
	OldQuantity  *int64   `json:"old_quantity"`
	NewQuantity  *int64   `json:"new_quantity"`
	UnitPrice    float64  `json:"unit_price"`
	AmountChange *float64 `json:"amount_change"`
	Reason       string   `json:"reason" binding:"max=500"`
	Notes        string   `json:"notes" binding:"max=2000"`
}

// RecordHistoryRequest represents a batch of item changes
type RecordHistoryRequest struct {
	Entries []RecordHistoryEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// Create creates a new invoice with its line items
func (h *InvoiceHandler) Create(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	items, err := toItemInputs(req.Items)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := invoicingapp.CreateInvoiceRequest{
		CustomerID:    customerID,
		CustomerName:  req.CustomerName,
		Items:         items,
		Status:        req.Status,
		DueDate:       req.DueDate,
		PaymentMethod: req.PaymentMethod,
		SalesChannel:  req.SalesChannel,
		Notes:         req.Notes,
		Date:          time.Now(),
	}
	if req.Date != nil {
		appReq.Date = *req.Date
	}
	if req.Subtotal != nil {
		appReq.Subtotal = toDecimalPtr(*req.Subtotal)
	}
	if req.Tax != nil {
		appReq.Tax = toDecimalPtr(*req.Tax)
	}
	if req.Discount != nil {
		appReq.Discount = toDecimalPtr(*req.Discount)
	}
	if req.Total != nil {
		appReq.Total = toDecimalPtr(*req.Total)
	}
	if req.PaidAmount != nil {
		appReq.PaidAmount = toDecimalPtr(*req.PaidAmount)
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), shopID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(invoice))
}

// Get returns one invoice with its items and payment rows. The ref may be the
// invoice id, the full invoice number or the bare numeric part.
func (h *InvoiceHandler) Get(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	invoice, payments, err := h.invoiceService.GetInvoice(c.Request.Context(), shopID, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := struct {
		Invoice  InvoiceResponse   `json:"invoice"`
		Payments []PaymentResponse `json:"payments"`
	}{
		Invoice:  toInvoiceResponse(invoice),
		Payments: make([]PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	h.Success(c, resp)
}

// List returns the shop's invoices, newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := invoicing.InvoiceQuery{
		TenantID: shopID,
		Search:   c.Query("search"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		status, err := invoicing.ParseInvoiceStatus(raw)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		query.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		query.CustomerID = &customerID
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, toInvoiceResponse(inv))
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Update applies a partial edit to an invoice. When the request carries an
// items array the previous set is replaced wholesale and the resulting
// changes are appended to the item history log.
func (h *InvoiceHandler) Update(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := invoicingapp.UpdateInvoiceRequest{
		CustomerName:  req.CustomerName,
		Status:        req.Status,
		Date:          req.Date,
		DueDate:       req.DueDate,
		PaymentMethod: req.PaymentMethod,
		SalesChannel:  req.SalesChannel,
		Notes:         req.Notes,
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		appReq.CustomerID = &customerID
	}
	if req.Items != nil {
		items, err := toItemInputs(req.Items)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Items = items
		appReq.ItemsReplaced = true
	}
	if req.Subtotal != nil {
		appReq.Subtotal = toDecimalPtr(*req.Subtotal)
	}
	if req.Tax != nil {
		appReq.Tax = toDecimalPtr(*req.Tax)
	}
	if req.Discount != nil {
		appReq.Discount = toDecimalPtr(*req.Discount)
	}
	if req.Total != nil {
		appReq.Total = toDecimalPtr(*req.Total)
	}
	if req.PaidAmount != nil {
		appReq.PaidAmount = toDecimalPtr(*req.PaidAmount)
	}
	if req.DueAmount != nil {
		appReq.DueAmount = toDecimalPtr(*req.DueAmount)
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	result, err := h.invoiceService.UpdateInvoice(c.Request.Context(), shopID, ref, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if len(result.ItemChanges) > 0 {
		changes := result.ItemChanges
		if cred, ok := middleware.GetCredential(c); ok {
			for i := range changes {
				userID := cred.UserID
				changes[i].ChangedByID = &userID
				changes[i].ChangedByName = cred.Username
				changes[i].Reason = req.ChangeReason
			}
		}
		if _, err := h.historyService.RecordChanges(c.Request.Context(), shopID, ref, changes); err != nil {
			// The edit itself is already committed; a failed history append
			// must not roll it back.
			h.logger.Warn("item history append failed",
				zap.String("invoice_id", result.Invoice.ID.String()),
				zap.Error(err))
		}
	}

	h.Success(c, toInvoiceResponse(result.Invoice))
}

// Delete removes an invoice together with its items and payment rows
func (h *InvoiceHandler) Delete(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), shopID, ref); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyPayment records a payment against an invoice and returns the
// reconciled invoice alongside the new payment row
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := invoicingapp.ApplyPaymentRequest{
		InvoiceRef:    invoicing.InvoiceRef(c.Param("ref")),
		Amount:        toDecimal(req.Amount),
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   time.Now(),
		Notes:         req.Notes,
		Reference:     req.Reference,
	}
	if req.PaymentDate != nil {
		appReq.PaymentDate = *req.PaymentDate
	}

	result, err := h.paymentService.ApplyPayment(c.Request.Context(), shopID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := struct {
		Payment PaymentResponse `json:"payment"`
		Invoice InvoiceResponse `json:"invoice"`
	}{
		Payment: toPaymentResponse(result.Payment),
		Invoice: toInvoiceResponse(result.Invoice),
	}
	h.Created(c, resp)
}

// ListPayments returns all payment rows for an invoice, oldest first
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	payments, err := h.paymentService.ListPayments(c.Request.Context(), shopID, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	h.Success(c, items)
}

// RecordHistory appends item change records to an invoice's history log
func (h *InvoiceHandler) RecordHistory(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	var req RecordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cred, _ := middleware.GetCredential(c)
	changes := make([]invoicing.ItemChange, 0, len(req.Entries))
	for _, entry := range req.Entries {
		action, err := invoicing.ParseItemAction(entry.Action)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		change := invoicing.ItemChange{
			Action:      action,
			ProductName: entry.ProductName,
			OldQuantity: entry.OldQuantity,
			NewQuantity: entry.NewQuantity,
			UnitPrice:   toDecimal(entry.UnitPrice),
			Reason:      entry.Reason,
			Notes:       entry.Notes,
		}
		if entry.ProductID != nil {
			productID, err := uuid.Parse(*entry.ProductID)
			if err != nil {
				h.BadRequest(c, "Invalid product ID format")
				return
			}
			change.ProductID = &productID
		}
		if entry.AmountChange != nil {
			change.AmountChange = toDecimal(*entry.AmountChange)
		}
		if cred.UserID != uuid.Nil {
			userID := cred.UserID
			change.ChangedByID = &userID
			change.ChangedByName = cred.Username
		}
		changes = append(changes, change)
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	records, err := h.historyService.RecordChanges(c.Request.Context(), shopID, ref, changes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ItemHistoryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toItemHistoryResponse(r))
	}
	h.Created(c, items)
}

// ListHistory returns an invoice's item change records, oldest first
func (h *InvoiceHandler) ListHistory(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	ref := invoicing.InvoiceRef(c.Param("ref"))
	records, err := h.historyService.ListHistory(c.Request.Context(), shopID, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ItemHistoryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toItemHistoryResponse(r))
	}
	h.Success(c, items)
}

func toItemInputs(items []CreateInvoiceItemRequest) ([]invoicingapp.CreateItemRequest, error) {
	inputs := make([]invoicingapp.CreateItemRequest, 0, len(items))
	for _, item := range items {
		input := invoicingapp.CreateItemRequest{
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       toDecimal(item.UnitPrice),
			WarrantyDueDate: item.WarrantyDueDate,
		}
		if item.ProductID != nil && *item.ProductID != "" {
			productID, err := uuid.Parse(*item.ProductID)
			if err != nil {
				return nil, errors.New("invalid product ID format")
			}
			input.ProductID = &productID
		}
		if item.OriginalPrice != nil {
			input.OriginalPrice = toDecimal(*item.OriginalPrice)
		}
		if item.Discount != nil {
			input.Discount = toDecimal(*item.Discount)
		}
		if item.Total != nil {
			input.Total = toDecimalPtr(*item.Total)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
