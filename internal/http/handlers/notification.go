package handlers

import (
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the user's own delivery audit trail.
func (h *Handler) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	page, pageSize := pageParams(c)

	notifications, total, err := h.NotificationService.ListForRecipient(
		c.Request.Context(), constants.RecipientTypeUser, user.ID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, notifications, buildPagination(page, pageSize, total))
}
