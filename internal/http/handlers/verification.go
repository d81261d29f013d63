package handlers

import (
	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// SendVerificationRequest is the POST /verifications body.
type SendVerificationRequest struct {
	PhoneNumber string `json:"phone_number"`
	service.CaptchaVerifyPayload
}

// VerifyCodeRequest is the PUT /verifications body.
type VerifyCodeRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        int    `json:"code"`
}

// SendVerification requests a one-time code for a phone number.
func (h *Handler) SendVerification(c *gin.Context) {
	var req SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if h.CaptchaService.Enabled() {
		if err := h.CaptchaService.Verify(req.CaptchaVerifyPayload); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	phone := service.NormalizePhoneNumber(req.PhoneNumber)
	if !service.ValidPhoneNumber(phone) {
		response.Unprocessable(c, service.ErrInvalidPhoneNumber.Error())
		return
	}

	if err := h.VerificationService.SendVerification(c.Request.Context(), phone); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"pending": true})
}

// VerifyCode confirms a one-time code and opens a session.
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	phone := service.NormalizePhoneNumber(req.PhoneNumber)
	if !service.ValidPhoneNumber(phone) {
		response.Unprocessable(c, service.ErrInvalidPhoneNumber.Error())
		return
	}

	user, err := h.VerificationService.VerifyCode(c.Request.Context(), phone, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := h.AuthService.EstablishPhoneSession(c.Request.Context(), user, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}
