package repository

// ClientListFilter filters the client list query.
type ClientListFilter struct {
	Page     int
	PageSize int
	UserID   string
	Search   string
}

// InvoiceListFilter filters the invoice list query.
type InvoiceListFilter struct {
	Page      int
	PageSize  int
	UserID    string
	ClientID  string
	Status    string
	WithItems bool
}

// NotificationListFilter filters the notification audit trail query.
type NotificationListFilter struct {
	Page             int
	PageSize         int
	RecipientType    string
	RecipientID      string
	NotificationType string
	DeliveryMethod   string
}
