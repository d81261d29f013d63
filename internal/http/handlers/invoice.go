package handlers

import (
	"fmt"
	"net/http"

	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// InvoiceStatusRequest is the POST /invoices/:id/status body.
type InvoiceStatusRequest struct {
	Status string `json:"status"`
}

func invoiceView(invoice *models.Invoice) gin.H {
	return gin.H{
		"invoice":      invoice,
		"subtotal":     invoice.Subtotal(),
		"tax_amount":   invoice.TaxAmount(),
		"total_amount": invoice.TotalAmount(),
	}
}

// ListInvoices returns the user's invoices.
func (h *Handler) ListInvoices(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	page, pageSize := pageParams(c)

	invoices, total, err := h.InvoiceService.List(c.Request.Context(), repository.InvoiceListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    user.ID,
		ClientID:  c.Query("client_id"),
		Status:    c.Query("status"),
		WithItems: c.Query("with_items") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, invoices, buildPagination(page, pageSize, total))
}

// CreateInvoice stores a new invoice.
func (h *Handler) CreateInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	invoice, err := h.InvoiceService.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, invoiceView(invoice))
}

// GetInvoice returns one invoice with items and totals.
func (h *Handler) GetInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	invoice, err := h.InvoiceService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, invoiceView(invoice))
}

// UpdateInvoice rewrites the invoice header.
func (h *Handler) UpdateInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	invoice, err := h.InvoiceService.Update(c.Request.Context(), user.ID, c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, invoiceView(invoice))
}

// UpdateInvoiceStatus moves an invoice through its lifecycle.
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var req InvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	invoice, err := h.InvoiceService.UpdateStatus(c.Request.Context(), user.ID, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, invoiceView(invoice))
}

// DeleteInvoice removes an invoice.
func (h *Handler) DeleteInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.InvoiceService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}

// InvoicePDF streams the rendered invoice document.
func (h *Handler) InvoicePDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	invoice, err := h.InvoiceService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data, err := h.InvoiceService.RenderInvoicePDF(c.Request.Context(), user.ID, invoice.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}
