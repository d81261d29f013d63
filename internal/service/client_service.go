package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"
)

// ClientInput is the writable part of a client.
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// ClientService manages a user's billable customers.
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates the client service.
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func validateClientInput(input *ClientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" || input.Email == "" {
		return ErrInvalidClient
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Create adds a client for the user.
func (s *ClientService) Create(_ context.Context, userID string, input ClientInput) (*models.Client, error) {
	if err := validateClientInput(&input); err != nil {
		return nil, err
	}
	client := &models.Client{
		UserID: userID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Notes:  input.Notes,
	}
	if err := s.clientRepo.Create(client); err != nil {
		logger.Errorw("client_create_failed", "user_id", userID, "error", err)
		return nil, ErrServiceUnavailable
	}
	logger.Infow("client_created", "user_id", userID, "client_id", client.ID)
	return client, nil
}

// Get fetches one of the user's clients.
func (s *ClientService) Get(_ context.Context, userID, clientID string) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(userID, clientID)
	if err != nil {
		logger.Errorw("client_get_failed", "user_id", userID, "error", err)
		return nil, ErrServiceUnavailable
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// List returns the user's clients.
func (s *ClientService) List(_ context.Context, userID string, page, pageSize int, search string) ([]models.Client, int64, error) {
	clients, total, err := s.clientRepo.List(repository.ClientListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		logger.Errorw("client_list_failed", "user_id", userID, "error", err)
		return nil, 0, ErrServiceUnavailable
	}
	return clients, total, nil
}

// Update rewrites a client's fields.
func (s *ClientService) Update(ctx context.Context, userID, clientID string, input ClientInput) (*models.Client, error) {
	client, err := s.Get(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}
	if err := validateClientInput(&input); err != nil {
		return nil, err
	}
	client.Name = input.Name
	client.Email = input.Email
	client.Phone = input.Phone
	client.Notes = input.Notes
	if err := s.clientRepo.Update(client); err != nil {
		logger.Errorw("client_update_failed", "client_id", clientID, "error", err)
		return nil, ErrServiceUnavailable
	}
	return client, nil
}

// Delete removes one of the user's clients.
func (s *ClientService) Delete(ctx context.Context, userID, clientID string) error {
	if _, err := s.Get(ctx, userID, clientID); err != nil {
		return err
	}
	if err := s.clientRepo.Delete(userID, clientID); err != nil {
		logger.Errorw("client_delete_failed", "client_id", clientID, "error", err)
		return ErrServiceUnavailable
	}
	logger.Infow("client_deleted", "user_id", userID, "client_id", clientID)
	return nil
}
