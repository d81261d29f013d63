package repository

import (
	"errors"

	"github.com/ledgerline/internal/models"

	"gorm.io/gorm"
)

// ClientRepository is the client data access interface. Every query is
// scoped to the owning user.
type ClientRepository interface {
	GetByID(userID, id string) (*models.Client, error)
	List(filter ClientListFilter) ([]models.Client, int64, error)
	Create(client *models.Client) error
	Update(client *models.Client) error
	Delete(userID, id string) error
}

// GormClientRepository is the GORM implementation.
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates the client repository.
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// GetByID fetches one of the user's clients.
func (r *GormClientRepository) GetByID(userID, id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// List returns the user's clients.
func (r *GormClientRepository) List(filter ClientListFilter) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{}).Where("user_id = ?", filter.UserID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var clients []models.Client
	if err := query.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Create inserts a client.
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// Update saves a client.
func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete soft-deletes one of the user's clients.
func (r *GormClientRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Client{}).Error
}
