package handlers

import (
	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// ListClients returns the user's clients.
func (h *Handler) ListClients(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	page, pageSize := pageParams(c)

	clients, total, err := h.ClientService.List(c.Request.Context(), user.ID, page, pageSize, c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, clients, buildPagination(page, pageSize, total))
}

// CreateClient adds a client.
func (h *Handler) CreateClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	client, err := h.ClientService.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, client)
}

// GetClient returns one client.
func (h *Handler) GetClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	client, err := h.ClientService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, client)
}

// UpdateClient rewrites a client.
func (h *Handler) UpdateClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	var input service.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	client, err := h.ClientService.Update(c.Request.Context(), user.ID, c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, client)
}

// DeleteClient removes a client.
func (h *Handler) DeleteClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.ClientService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
