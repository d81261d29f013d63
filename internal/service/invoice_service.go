package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/queue"
	"github.com/ledgerline/internal/repository"

	"github.com/shopspring/decimal"
)

// InvoiceItemInput is the writable part of a line item.
type InvoiceItemInput struct {
	Description string       `json:"description"`
	Quantity    models.Money `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
}

// InvoiceInput is the writable part of an invoice.
type InvoiceInput struct {
	ClientID      string             `json:"client_id"`
	InvoiceNumber string             `json:"invoice_number"`
	IssueDate     *time.Time         `json:"issue_date"`
	DueDate       *time.Time         `json:"due_date"`
	TaxRate       *models.Money      `json:"tax_rate"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items"`
}

var validInvoiceStatuses = map[string]bool{
	constants.InvoiceStatusDraft:     true,
	constants.InvoiceStatusSent:      true,
	constants.InvoiceStatusPaid:      true,
	constants.InvoiceStatusOverdue:   true,
	constants.InvoiceStatusCancelled: true,
}

// InvoiceService manages invoices and their line items.
type InvoiceService struct {
	cfg         *config.InvoiceConfig
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	queueClient *queue.Client
}

// NewInvoiceService creates the invoice service.
func NewInvoiceService(cfg *config.InvoiceConfig, invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository, queueClient *queue.Client) *InvoiceService {
	return &InvoiceService{
		cfg:         cfg,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		queueClient: queueClient,
	}
}

func validateItemInput(input InvoiceItemInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return ErrInvalidInvoiceItem
	}
	if !input.Quantity.Decimal.IsPositive() {
		return ErrInvalidInvoiceItem
	}
	if input.UnitPrice.Decimal.IsNegative() {
		return ErrInvalidInvoiceItem
	}
	return nil
}

// generateInvoiceNumber builds the per-user sequential number, e.g.
// INV-3F2A9B10-0007 for that user's seventh invoice.
func (s *InvoiceService) generateInvoiceNumber(userID string) (string, error) {
	count, err := s.invoiceRepo.CountByUser(userID)
	if err != nil {
		return "", err
	}
	uid := strings.ToUpper(strings.ReplaceAll(userID, "-", ""))
	if len(uid) > 8 {
		uid = uid[:8]
	}
	return fmt.Sprintf("INV-%s-%04d", uid, count+1), nil
}

// Create validates and stores an invoice with its items.
func (s *InvoiceService) Create(ctx context.Context, userID string, input InvoiceInput) (*models.Invoice, error) {
	client, err := s.clientRepo.GetByID(userID, strings.TrimSpace(input.ClientID))
	if err != nil {
		logger.Errorw("invoice_client_lookup_failed", "user_id", userID, "error", err)
		return nil, ErrServiceUnavailable
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	issueDate := time.Now().Truncate(24 * time.Hour)
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}
	dueDays := s.cfg.DefaultDueDays
	if dueDays <= 0 {
		dueDays = 30
	}
	dueDate := issueDate.AddDate(0, 0, dueDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}
	if dueDate.Before(issueDate) {
		return nil, ErrDueDateBeforeIssueDate
	}

	taxRate := models.NewMoneyFromDecimal(decimal.Zero)
	if input.TaxRate != nil {
		if input.TaxRate.Decimal.IsNegative() {
			return nil, ErrInvalidTaxRate
		}
		taxRate = *input.TaxRate
	} else if rate, err := models.NewMoneyFromString(s.cfg.DefaultTaxRate); err == nil {
		taxRate = rate
	}

	number := strings.TrimSpace(input.InvoiceNumber)
	if number == "" {
		number, err = s.generateInvoiceNumber(userID)
		if err != nil {
			logger.Errorw("invoice_number_generate_failed", "user_id", userID, "error", err)
			return nil, ErrServiceUnavailable
		}
	} else {
		existing, err := s.invoiceRepo.GetByNumber(userID, number)
		if err != nil {
			logger.Errorw("invoice_number_lookup_failed", "user_id", userID, "error", err)
			return nil, ErrServiceUnavailable
		}
		if existing != nil {
			return nil, ErrInvoiceNumberTaken
		}
	}

	invoice := &models.Invoice{
		UserID:        userID,
		ClientID:      client.ID,
		InvoiceNumber: number,
		Status:        constants.InvoiceStatusDraft,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		TaxRate:       taxRate,
		Notes:         input.Notes,
	}
	for _, itemInput := range input.Items {
		if err := validateItemInput(itemInput); err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Description: strings.TrimSpace(itemInput.Description),
			Quantity:    itemInput.Quantity,
			UnitPrice:   itemInput.UnitPrice,
		})
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		logger.Errorw("invoice_create_failed", "user_id", userID, "error", err)
		return nil, ErrServiceUnavailable
	}
	logger.Infow("invoice_created",
		"user_id", userID,
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
	)
	return invoice, nil
}

// Get fetches one of the user's invoices with items and client.
func (s *InvoiceService) Get(_ context.Context, userID, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(userID, invoiceID)
	if err != nil {
		logger.Errorw("invoice_get_failed", "user_id", userID, "error", err)
		return nil, ErrServiceUnavailable
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// List returns the user's invoices.
func (s *InvoiceService) List(_ context.Context, filter repository.InvoiceListFilter) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.List(filter)
	if err != nil {
		logger.Errorw("invoice_list_failed", "user_id", filter.UserID, "error", err)
		return nil, 0, ErrServiceUnavailable
	}
	return invoices, total, nil
}

// Update rewrites the invoice header fields. Line items are managed
// through the item operations.
func (s *InvoiceService) Update(ctx context.Context, userID, invoiceID string, input InvoiceInput) (*models.Invoice, error) {
	invoice, err := s.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if clientID := strings.TrimSpace(input.ClientID); clientID != "" && clientID != invoice.ClientID {
		client, err := s.clientRepo.GetByID(userID, clientID)
		if err != nil {
			return nil, ErrServiceUnavailable
		}
		if client == nil {
			return nil, ErrClientNotFound
		}
		invoice.ClientID = client.ID
		invoice.Client = client
	}
	if number := strings.TrimSpace(input.InvoiceNumber); number != "" && number != invoice.InvoiceNumber {
		existing, err := s.invoiceRepo.GetByNumber(userID, number)
		if err != nil {
			return nil, ErrServiceUnavailable
		}
		if existing != nil {
			return nil, ErrInvoiceNumberTaken
		}
		invoice.InvoiceNumber = number
	}
	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if invoice.DueDate.Before(invoice.IssueDate) {
		return nil, ErrDueDateBeforeIssueDate
	}
	if input.TaxRate != nil {
		if input.TaxRate.Decimal.IsNegative() {
			return nil, ErrInvalidTaxRate
		}
		invoice.TaxRate = *input.TaxRate
	}
	invoice.Notes = input.Notes

	if err := s.invoiceRepo.Update(invoice); err != nil {
		logger.Errorw("invoice_update_failed", "invoice_id", invoiceID, "error", err)
		return nil, ErrServiceUnavailable
	}
	return invoice, nil
}

// UpdateStatus moves an invoice through its lifecycle. Marking an
// invoice sent queues the client notification email.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, invoiceID, status string) (*models.Invoice, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validInvoiceStatuses[status] {
		return nil, ErrInvalidInvoiceStatus
	}

	invoice, err := s.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == status {
		return invoice, nil
	}

	if err := s.invoiceRepo.UpdateStatus(userID, invoiceID, status); err != nil {
		logger.Errorw("invoice_status_update_failed", "invoice_id", invoiceID, "error", err)
		return nil, ErrServiceUnavailable
	}
	invoice.Status = status
	logger.Infow("invoice_status_changed",
		"invoice_id", invoiceID,
		"status", status,
	)

	if status == constants.InvoiceStatusSent {
		payload := queue.InvoiceStatusEmailPayload{InvoiceID: invoiceID, Status: status}
		if err := s.queueClient.EnqueueInvoiceStatusEmail(payload); err != nil {
			logger.Warnw("invoice_status_email_enqueue_failed", "invoice_id", invoiceID, "error", err)
		}
	}
	return invoice, nil
}

// Delete soft-deletes one of the user's invoices.
func (s *InvoiceService) Delete(ctx context.Context, userID, invoiceID string) error {
	if _, err := s.Get(ctx, userID, invoiceID); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(userID, invoiceID); err != nil {
		logger.Errorw("invoice_delete_failed", "invoice_id", invoiceID, "error", err)
		return ErrServiceUnavailable
	}
	return nil
}

// AddItem appends a line item to an invoice.
func (s *InvoiceService) AddItem(ctx context.Context, userID, invoiceID string, input InvoiceItemInput) (*models.InvoiceItem, error) {
	invoice, err := s.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item := &models.InvoiceItem{
		InvoiceID:   invoice.ID,
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}
	if err := s.invoiceRepo.CreateItem(item); err != nil {
		logger.Errorw("invoice_item_create_failed", "invoice_id", invoiceID, "error", err)
		return nil, ErrServiceUnavailable
	}
	return item, nil
}

// UpdateItem rewrites a line item.
func (s *InvoiceService) UpdateItem(ctx context.Context, userID, invoiceID, itemID string, input InvoiceItemInput) (*models.InvoiceItem, error) {
	if _, err := s.Get(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	item, err := s.invoiceRepo.GetItem(invoiceID, itemID)
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	if item == nil {
		return nil, ErrInvoiceItemNotFound
	}
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item.Description = strings.TrimSpace(input.Description)
	item.Quantity = input.Quantity
	item.UnitPrice = input.UnitPrice
	if err := s.invoiceRepo.UpdateItem(item); err != nil {
		logger.Errorw("invoice_item_update_failed", "invoice_id", invoiceID, "error", err)
		return nil, ErrServiceUnavailable
	}
	return item, nil
}

// DeleteItem removes a line item.
func (s *InvoiceService) DeleteItem(ctx context.Context, userID, invoiceID, itemID string) error {
	if _, err := s.Get(ctx, userID, invoiceID); err != nil {
		return err
	}
	item, err := s.invoiceRepo.GetItem(invoiceID, itemID)
	if err != nil {
		return ErrServiceUnavailable
	}
	if item == nil {
		return ErrInvoiceItemNotFound
	}
	if err := s.invoiceRepo.DeleteItem(invoiceID, itemID); err != nil {
		logger.Errorw("invoice_item_delete_failed", "invoice_id", invoiceID, "error", err)
		return ErrServiceUnavailable
	}
	return nil
}

// MarkOverdueInvoices flips sent invoices past their due date to
// overdue. Called from the worker's periodic sweep.
func (s *InvoiceService) MarkOverdueInvoices(_ context.Context, asOf time.Time) (int, error) {
	overdue, err := s.invoiceRepo.ListOverdue(asOf)
	if err != nil {
		logger.Errorw("overdue_sweep_list_failed", "error", err)
		return 0, err
	}
	marked := 0
	for i := range overdue {
		invoice := &overdue[i]
		if err := s.invoiceRepo.UpdateStatus(invoice.UserID, invoice.ID, constants.InvoiceStatusOverdue); err != nil {
			logger.Warnw("overdue_sweep_update_failed", "invoice_id", invoice.ID, "error", err)
			continue
		}
		marked++
	}
	if marked > 0 {
		logger.Infow("overdue_sweep_completed", "marked", marked)
	}
	return marked, nil
}
