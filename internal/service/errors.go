package service

import "errors"

// Expected business failures. Handlers map these to response codes with
// errors.Is; anything else is logged and surfaced as ErrServiceUnavailable.
var (
	ErrRateLimited        = errors.New("too many verification attempts, please try again later")
	ErrSessionExpired     = errors.New("verification session expired, please request a new code")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")
	ErrWeakPassword       = errors.New("password does not meet the minimum length")
	ErrAuthModeDisabled   = errors.New("authentication mode not enabled")

	ErrNotFound               = errors.New("record not found")
	ErrClientNotFound         = errors.New("client not found")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrInvoiceItemNotFound    = errors.New("invoice item not found")
	ErrInvoiceNumberTaken     = errors.New("invoice number already in use")
	ErrDueDateBeforeIssueDate = errors.New("due date must not be before issue date")
	ErrInvalidInvoiceStatus   = errors.New("invalid invoice status")
	ErrInvalidTaxRate         = errors.New("tax rate must not be negative")
	ErrInvalidInvoiceItem     = errors.New("invalid invoice item")
	ErrInvalidClient          = errors.New("client name and email are required")

	ErrSMSServiceDisabled        = errors.New("sms delivery disabled")
	ErrEmailServiceDisabled      = errors.New("email delivery disabled")
	ErrEmailServiceNotConfigured = errors.New("email delivery not configured")
	ErrChannelUnsupported        = errors.New("recipient has no address for this channel")

	ErrCaptchaRequired = errors.New("captcha verification required")
	ErrCaptchaInvalid  = errors.New("captcha verification failed")
)
