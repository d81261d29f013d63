package queue

import (
	"encoding/json"

	"github.com/ledgerline/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskInvoiceStatusEmail notifies a client about an invoice status change.
	TaskInvoiceStatusEmail = constants.TaskInvoiceStatusEmail
)

// InvoiceStatusEmailPayload is the invoice status email task payload.
type InvoiceStatusEmailPayload struct {
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status"`
}

// NewInvoiceStatusEmailTask creates the invoice status email task.
func NewInvoiceStatusEmailTask(payload InvoiceStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceStatusEmail, body), nil
}
