package handlers

import (
	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInvoiceItem appends a line item.
func (h *Handler) CreateInvoiceItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.InvoiceItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.InvoiceService.AddItem(c.Request.Context(), user.ID, c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateInvoiceItem rewrites a line item.
func (h *Handler) UpdateInvoiceItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.InvoiceItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.InvoiceService.UpdateItem(c.Request.Context(), user.ID, c.Param("id"), c.Param("item_id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteInvoiceItem removes a line item.
func (h *Handler) DeleteInvoiceItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.InvoiceService.DeleteItem(c.Request.Context(), user.ID, c.Param("id"), c.Param("item_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
