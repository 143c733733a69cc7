package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/pkg/utils"
)

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ctx context.Context, p models.ClientPayload) (*models.Client, error)
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	SearchClients(ctx context.Context, term string) ([]models.Client, error)
	UpdateClient(ctx context.Context, id int64, p models.ClientPayload) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
	pool       ConnProvider
	mirror     RecordMirror
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, pool ConnProvider, m RecordMirror) ClientService {
	return &clientService{clientRepo: repo, pool: pool, mirror: m}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (s *clientService) validate(p *models.ClientPayload, create bool) error {
	p.FirstName, p.LastName, p.Email = trimmed(p.FirstName), trimmed(p.LastName), trimmed(p.Email)
	if create && (utils.IsEmpty(utils.DerefString(p.FirstName)) || utils.IsEmpty(utils.DerefString(p.LastName)) ||
		utils.IsEmpty(utils.DerefString(p.Email))) {
		return fmt.Errorf("%w: nombre, apellido and correo are required", ErrValidation)
	}
	for field, v := range map[string]*string{"nombre": p.FirstName, "apellido": p.LastName, "correo": p.Email} {
		if v != nil && *v == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
		}
	}
	if p.Email != nil && !utils.IsValidEmail(*p.Email) {
		return fmt.Errorf("%w: correo is not a valid email address", ErrValidation)
	}
	return nil
}

func (s *clientService) CreateClient(ctx context.Context, p models.ClientPayload) (*models.Client, error) {
	if err := s.validate(&p, true); err != nil {
		return nil, err
	}

	var client *models.Client
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		id, err := s.clientRepo.CreateClient(ctx, exec, &p)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		client = &models.Client{
			ID: id, Code: utils.PadCode("CL", id),
			FirstName: *p.FirstName, LastName: *p.LastName,
			Phone: p.Phone, Address: p.Address, Email: *p.Email,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Create(mirror.TableClients, clientRecord(client), mirror.ClientFields)
	return client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client *models.Client
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		client, err = s.clientRepo.GetClientByID(ctx, exec, id)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	return client, err
}

func (s *clientService) GetClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		clients, err = s.clientRepo.GetClients(ctx, exec)
		return err
	})
	return clients, err
}

// SearchClients returns an empty list for a blank term without querying.
func (s *clientService) SearchClients(ctx context.Context, term string) ([]models.Client, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Client{}, nil
	}
	var clients []models.Client
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		clients, err = s.clientRepo.SearchClients(ctx, exec, term)
		return err
	})
	return clients, err
}

func (s *clientService) UpdateClient(ctx context.Context, id int64, p models.ClientPayload) (*models.Client, error) {
	if err := s.validate(&p, false); err != nil {
		return nil, err
	}

	var client *models.Client
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := s.clientRepo.UpdateClient(ctx, tx, id, &p); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("failed to update client: %w", err)
		}
		var err error
		client, err = s.clientRepo.GetClientByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Update(mirror.TableClients, client.ID, clientRecord(client), mirror.ClientFields)
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id int64) error {
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		return s.clientRepo.DeleteClient(ctx, exec, id)
	})
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrClientNotFound
	case errors.Is(err, repositories.ErrForeignKey):
		return ErrClientInUse
	case err != nil:
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.mirror.Delete(mirror.TableClients, id, mirror.ClientFields)
	return nil
}
