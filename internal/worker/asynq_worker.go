package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/provider"
	"github.com/ledgerline/internal/queue"
	"github.com/ledgerline/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskInvoiceStatusEmail, c.handleInvoiceStatusEmail)
}

// handleInvoiceStatusEmail emails the invoice's client about a status
// change through the notification dispatcher so the attempt is audited.
func (c *Consumer) handleInvoiceStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.InvoiceStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_invoice_status_email_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.InvoiceID) == "" {
		logger.Debugw("worker_invoice_status_email_skip_empty_invoice_id")
		return nil
	}

	invoice, err := c.InvoiceRepo.GetAnyByID(payload.InvoiceID)
	if err != nil {
		logger.Warnw("worker_invoice_status_email_fetch_failed", "invoice_id", payload.InvoiceID, "error", err)
		return err
	}
	if invoice == nil {
		logger.Debugw("worker_invoice_status_email_skip_not_found", "invoice_id", payload.InvoiceID)
		return nil
	}
	if invoice.Client == nil || strings.TrimSpace(invoice.Client.Email) == "" {
		logger.Debugw("worker_invoice_status_email_skip_no_recipient", "invoice_id", invoice.ID)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = invoice.Status
	}

	subject := fmt.Sprintf("Invoice %s is now %s", invoice.InvoiceNumber, status)
	body := fmt.Sprintf(
		"Invoice %s for %s has been marked %s.\n\nTotal due: %s\nDue date: %s\n",
		invoice.InvoiceNumber,
		invoice.Client.Name,
		status,
		invoice.TotalAmount().String(),
		invoice.DueDate.Format("Jan 2, 2006"),
	)

	recipient := service.RecipientFromClient(invoice.Client)
	if _, err := c.NotificationService.DeliverEmail(ctx, recipient, subject, body, constants.NotificationTypeInvoiceStatus); err != nil {
		logger.Warnw("worker_invoice_status_email_send_failed",
			"invoice_id", invoice.ID,
			"invoice_number", invoice.InvoiceNumber,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}
