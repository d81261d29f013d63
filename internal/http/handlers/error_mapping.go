package handlers

import (
	"errors"

	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds a business error to a response code.
type mappedHandlerError struct {
	target error
	code   int
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.target.Error())
			return
		}
	}
	response.Error(c, fallbackCode, fallbackMsg)
}

// respondServiceError maps the sentinels shared across all endpoints.
// Unknown errors collapse into a generic 500; internals never reach the
// client.
func respondServiceError(c *gin.Context, err error) {
	respondWithMappedError(c, err, []mappedHandlerError{
		{service.ErrRateLimited, response.CodeTooManyRequests},
		{service.ErrSessionExpired, response.CodeUnauthorized},
		{service.ErrInvalidCode, response.CodeUnauthorized},
		{service.ErrInvalidPhoneNumber, response.CodeUnprocessable},
		{service.ErrInvalidEmail, response.CodeUnprocessable},
		{service.ErrWeakPassword, response.CodeUnprocessable},
		{service.ErrEmailExists, response.CodeUnprocessable},
		{service.ErrInvalidCredentials, response.CodeUnauthorized},
		{service.ErrInvalidResetToken, response.CodeUnauthorized},
		{service.ErrAuthModeDisabled, response.CodeBadRequest},
		{service.ErrNotFound, response.CodeNotFound},
		{service.ErrClientNotFound, response.CodeNotFound},
		{service.ErrInvoiceNotFound, response.CodeNotFound},
		{service.ErrInvoiceItemNotFound, response.CodeNotFound},
		{service.ErrInvoiceNumberTaken, response.CodeUnprocessable},
		{service.ErrDueDateBeforeIssueDate, response.CodeUnprocessable},
		{service.ErrInvalidInvoiceStatus, response.CodeUnprocessable},
		{service.ErrInvalidTaxRate, response.CodeUnprocessable},
		{service.ErrInvalidInvoiceItem, response.CodeUnprocessable},
		{service.ErrInvalidClient, response.CodeUnprocessable},
		{service.ErrCaptchaRequired, response.CodeBadRequest},
		{service.ErrCaptchaInvalid, response.CodeBadRequest},
	}, response.CodeInternal, service.ErrServiceUnavailable.Error())
}
