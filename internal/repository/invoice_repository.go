package repository

import (
	"errors"
	"time"

	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository is the invoice data access interface. Every query is
// scoped to the owning user except the overdue sweep.
type InvoiceRepository interface {
	GetByID(userID, id string) (*models.Invoice, error)
	GetAnyByID(id string) (*models.Invoice, error)
	GetByNumber(userID, number string) (*models.Invoice, error)
	CountByUser(userID string) (int64, error)
	List(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	Create(invoice *models.Invoice) error
	Update(invoice *models.Invoice) error
	UpdateStatus(userID, id, status string) error
	Delete(userID, id string) error
	ListOverdue(asOf time.Time) ([]models.Invoice, error)
	CreateItem(item *models.InvoiceItem) error
	GetItem(invoiceID, itemID string) (*models.InvoiceItem, error)
	UpdateItem(item *models.InvoiceItem) error
	DeleteItem(invoiceID, itemID string) error
}

// GormInvoiceRepository is the GORM implementation.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates the invoice repository.
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// GetByID fetches one of the user's invoices with items and client.
func (r *GormInvoiceRepository) GetByID(userID, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Items").Preload("Client").
		Where("user_id = ? AND id = ?", userID, id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetAnyByID fetches an invoice regardless of owner. Used by the worker.
func (r *GormInvoiceRepository) GetAnyByID(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Items").Preload("Client").
		Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByNumber fetches a user's invoice by its number.
func (r *GormInvoiceRepository) GetByNumber(userID, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Where("user_id = ? AND invoice_number = ?", userID, number).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// CountByUser counts the user's invoices, soft-deleted rows included so
// generated invoice numbers never collide with a deleted one.
func (r *GormInvoiceRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Invoice{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// List returns the user's invoices.
func (r *GormInvoiceRepository) List(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{}).Where("user_id = ?", filter.UserID)

	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithItems {
		query = query.Preload("Items")
	}

	var invoices []models.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Create inserts an invoice with its items.
func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// Update saves an invoice.
func (r *GormInvoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

// UpdateStatus changes the invoice status in place.
func (r *GormInvoiceRepository) UpdateStatus(userID, id, status string) error {
	return r.db.Model(&models.Invoice{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("status", status).Error
}

// Delete soft-deletes one of the user's invoices.
func (r *GormInvoiceRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Invoice{}).Error
}

// ListOverdue returns sent invoices past their due date.
func (r *GormInvoiceRepository) ListOverdue(asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("status = ? AND due_date < ?", constants.InvoiceStatusSent, asOf).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateItem inserts a line item.
func (r *GormInvoiceRepository) CreateItem(item *models.InvoiceItem) error {
	return r.db.Create(item).Error
}

// GetItem fetches a line item scoped to its invoice.
func (r *GormInvoiceRepository) GetItem(invoiceID, itemID string) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	err := r.db.Where("invoice_id = ? AND id = ?", invoiceID, itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves a line item.
func (r *GormInvoiceRepository) UpdateItem(item *models.InvoiceItem) error {
	return r.db.Save(item).Error
}

// DeleteItem removes a line item.
func (r *GormInvoiceRepository) DeleteItem(invoiceID, itemID string) error {
	return r.db.Where("invoice_id = ? AND id = ?", invoiceID, itemID).
		Delete(&models.InvoiceItem{}).Error
}
