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

// ServiceJobService manages one-off technical services billed to a client.
type ServiceJobService interface {
	CreateService(ctx context.Context, p models.ServiceJobPayload) (*models.ServiceJob, error)
	GetServiceByID(ctx context.Context, id int64) (*models.ServiceJob, error)
	GetServices(ctx context.Context) ([]models.ServiceJob, error)
	SearchServices(ctx context.Context, term string) ([]models.ServiceJob, error)
	UpdateService(ctx context.Context, id int64, p models.ServiceJobPayload) (*models.ServiceJob, error)
	DeleteService(ctx context.Context, id int64) error
}

type serviceJobService struct {
	serviceRepo   repositories.ServiceJobRepository
	operationRepo repositories.OperationRepository
	clientRepo    repositories.ClientRepository
	pool          ConnProvider
	mirror        RecordMirror
}

func NewServiceJobService(serviceRepo repositories.ServiceJobRepository, operationRepo repositories.OperationRepository,
	clientRepo repositories.ClientRepository, pool ConnProvider, m RecordMirror) ServiceJobService {
	return &serviceJobService{
		serviceRepo:   serviceRepo,
		operationRepo: operationRepo,
		clientRepo:    clientRepo,
		pool:          pool,
		mirror:        m,
	}
}

func (s *serviceJobService) CreateService(ctx context.Context, p models.ServiceJobPayload) (*models.ServiceJob, error) {
	p.Detail = trimmed(p.Detail)
	if p.ClientID == nil || utils.IsEmpty(utils.DerefString(p.Detail)) {
		return nil, fmt.Errorf("%w: id_cliente and detalle are required", ErrValidation)
	}
	if err := validateAmounts(p.Income, p.Expense); err != nil {
		return nil, err
	}

	var job *models.ServiceJob
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := requireClient(ctx, s.clientRepo, tx, *p.ClientID); err != nil {
			return err
		}
		op := &models.Operation{ClientID: *p.ClientID, Type: models.OperationService}
		if p.Date != nil {
			op.Date = *p.Date
		}
		if p.Income != nil {
			op.Income = *p.Income
		}
		if p.Expense != nil {
			op.Expense = *p.Expense
		}
		if _, err := s.operationRepo.CreateOperation(ctx, tx, op); err != nil {
			return fmt.Errorf("failed to create operation: %w", err)
		}
		if err := s.serviceRepo.CreateServiceDetail(ctx, tx, op.ID, &p); err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		var err error
		job, err = s.serviceRepo.GetServiceByID(ctx, tx, op.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Create(mirror.TableOperations, operationRecord(job.OperationID, job.ClientID, job.Date,
		models.OperationService, job.Income, job.Expense), mirror.OperationFields)
	s.mirror.Create(mirror.TableServices, serviceRecord(job), mirror.ServiceFields)
	return job, nil
}

func (s *serviceJobService) GetServiceByID(ctx context.Context, id int64) (*models.ServiceJob, error) {
	var job *models.ServiceJob
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		job, err = s.serviceRepo.GetServiceByID(ctx, exec, id)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	return job, err
}

func (s *serviceJobService) GetServices(ctx context.Context) ([]models.ServiceJob, error) {
	var jobs []models.ServiceJob
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		jobs, err = s.serviceRepo.GetServices(ctx, exec)
		return err
	})
	return jobs, err
}

func (s *serviceJobService) SearchServices(ctx context.Context, term string) ([]models.ServiceJob, error) {
	if strings.TrimSpace(term) == "" {
		return []models.ServiceJob{}, nil
	}
	var jobs []models.ServiceJob
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		jobs, err = s.serviceRepo.SearchServices(ctx, exec, term)
		return err
	})
	return jobs, err
}

func (s *serviceJobService) UpdateService(ctx context.Context, id int64, p models.ServiceJobPayload) (*models.ServiceJob, error) {
	p.Detail = trimmed(p.Detail)
	if p.Detail != nil && *p.Detail == "" {
		return nil, fmt.Errorf("%w: detalle cannot be empty", ErrValidation)
	}
	if err := validateAmounts(p.Income, p.Expense); err != nil {
		return nil, err
	}

	var job *models.ServiceJob
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if patch := p.OperationPatch(); !patch.Empty() {
			if err := s.operationRepo.UpdateOperation(ctx, tx, id, models.OperationService, patch); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrServiceNotFound
				}
				return fmt.Errorf("failed to update operation: %w", err)
			}
		}
		if err := s.serviceRepo.UpdateServiceDetail(ctx, tx, id, &p); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("failed to update service: %w", err)
		}
		var err error
		job, err = s.serviceRepo.GetServiceByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Update(mirror.TableOperations, job.OperationID, operationRecord(job.OperationID, job.ClientID, job.Date,
		models.OperationService, job.Income, job.Expense), mirror.OperationFields)
	s.mirror.Update(mirror.TableServices, job.OperationID, serviceRecord(job), mirror.ServiceFields)
	return job, nil
}

func (s *serviceJobService) DeleteService(ctx context.Context, id int64) error {
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := s.serviceRepo.DeleteServiceDetail(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("failed to delete service: %w", err)
		}
		if err := s.operationRepo.DeleteOperation(ctx, tx, id, models.OperationService); err != nil {
			return fmt.Errorf("failed to delete operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mirror.Delete(mirror.TableServices, id, mirror.ServiceFields)
	s.mirror.Delete(mirror.TableOperations, id, mirror.OperationFields)
	return nil
}
