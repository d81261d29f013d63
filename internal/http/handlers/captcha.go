package handlers

import (
	"github.com/ledgerline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CaptchaImage issues a new image captcha challenge.
func (h *Handler) CaptchaImage(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.NotFound(c, "captcha disabled")
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, challenge)
}
