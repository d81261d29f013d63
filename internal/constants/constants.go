package constants

// Authentication modes. Selected once at startup; user construction and
// validation follow the selected strategy.
const (
	AuthModeEmail = "email"
	AuthModePhone = "phone"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Notification delivery methods.
const (
	DeliveryMethodSMS   = "sms"
	DeliveryMethodEmail = "email"
)

// Notification types recorded on the durable audit trail.
const (
	NotificationTypeVerificationCode = "verification_code"
	NotificationTypeInvoiceStatus    = "invoice_status"
	NotificationTypePasswordReset    = "password_reset"
	NotificationTypeGeneric          = "generic"
)

// Polymorphic notification recipient types.
const (
	RecipientTypeUser   = "users"
	RecipientTypeClient = "clients"
)

// Queue and task names.
const (
	QueueDefault           = "default"
	TaskInvoiceStatusEmail = "invoice:status_email"
)

// Captcha scenes.
const (
	CaptchaSceneSendVerification = "send_verification"
)
