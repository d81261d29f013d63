package handlers

import (
	"github.com/ledgerline/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the POST /auth/register body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an email/password account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.AuthService.RegisterWithEmail(c.Request.Context(), req.Email, req.Password, req.Name, c.ClientIP(), c.Request.UserAgent())
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

// Login opens a session with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.AuthService.LoginWithEmail(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
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

// PasswordResetRequest is the POST /auth/password/reset body.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the PUT /auth/password/reset body.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// RequestPasswordReset emails a reset token. The response does not
// reveal whether the address is registered.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.AuthService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "check your email for reset instructions", nil)
}

// ResetPassword sets a new password using a reset token.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.AuthService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "password was reset, please sign in", nil)
}

// Logout deletes the current session.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.AuthService.Logout(c.Request.Context(), claims.SessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "logged out", nil)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}
	response.Success(c, gin.H{
		"user":      user,
		"auth_mode": h.AuthService.Mode(),
	})
}
