package repository

import (
	"errors"

	"github.com/ledgerline/internal/models"

	"gorm.io/gorm"
)

// SessionRepository is the session data access interface.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByID(id string) (*models.Session, error)
	Delete(id string) error
	DeleteByUser(userID string) error
}

// GormSessionRepository is the GORM implementation.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates the session repository.
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create inserts a session.
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetByID fetches a session by primary key.
func (r *GormSessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Delete removes a session.
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteByUser removes all sessions for a user.
func (r *GormSessionRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}
