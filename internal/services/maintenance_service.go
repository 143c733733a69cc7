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

// DefaultUpcomingDays is the window used when no ?dias= is given.
const DefaultUpcomingDays = 7

type MaintenanceService interface {
	CreateMaintenance(ctx context.Context, p models.MaintenancePayload) (*models.Maintenance, error)
	GetMaintenanceByID(ctx context.Context, id int64) (*models.Maintenance, error)
	GetMaintenances(ctx context.Context) ([]models.Maintenance, error)
	SearchMaintenances(ctx context.Context, term string) ([]models.Maintenance, error)
	GetUpcomingMaintenances(ctx context.Context, days int) ([]models.Maintenance, error)
	UpdateMaintenance(ctx context.Context, id int64, p models.MaintenancePayload) (*models.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id int64) error
}

type maintenanceService struct {
	maintenanceRepo repositories.MaintenanceRepository
	operationRepo   repositories.OperationRepository
	clientRepo      repositories.ClientRepository
	deviceRepo      repositories.DeviceRepository
	pool            ConnProvider
	mirror          RecordMirror
}

func NewMaintenanceService(maintenanceRepo repositories.MaintenanceRepository, operationRepo repositories.OperationRepository,
	clientRepo repositories.ClientRepository, deviceRepo repositories.DeviceRepository, pool ConnProvider, m RecordMirror) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		operationRepo:   operationRepo,
		clientRepo:      clientRepo,
		deviceRepo:      deviceRepo,
		pool:            pool,
		mirror:          m,
	}
}

func (s *maintenanceService) requireDevice(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	if _, err := s.deviceRepo.GetDeviceByID(ctx, exec, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: id_dispositivo %d", ErrUnknownDevice, id)
		}
		return err
	}
	return nil
}

func (s *maintenanceService) CreateMaintenance(ctx context.Context, p models.MaintenancePayload) (*models.Maintenance, error) {
	p.Description, p.Frequency = trimmed(p.Description), trimmed(p.Frequency)
	if p.ClientID == nil || utils.IsEmpty(utils.DerefString(p.Description)) || utils.IsEmpty(utils.DerefString(p.Frequency)) {
		return nil, fmt.Errorf("%w: id_cliente, descripcion and frecuencia are required", ErrValidation)
	}
	if err := validateAmounts(p.Income, p.Expense); err != nil {
		return nil, err
	}

	var m *models.Maintenance
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := requireClient(ctx, s.clientRepo, tx, *p.ClientID); err != nil {
			return err
		}
		if p.DeviceID != nil {
			if err := s.requireDevice(ctx, tx, *p.DeviceID); err != nil {
				return err
			}
		}

		op := &models.Operation{ClientID: *p.ClientID, Type: models.OperationMaintenance}
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
		if err := s.maintenanceRepo.CreateMaintenanceDetail(ctx, tx, op.ID, &p); err != nil {
			return fmt.Errorf("failed to create maintenance: %w", err)
		}
		if p.DeviceID != nil {
			if err := s.maintenanceRepo.LinkDevice(ctx, tx, op.ID, *p.DeviceID); err != nil {
				return err
			}
		}
		var err error
		m, err = s.maintenanceRepo.GetMaintenanceByID(ctx, tx, op.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Create(mirror.TableOperations, operationRecord(m.OperationID, m.ClientID, m.Date,
		models.OperationMaintenance, m.Income, m.Expense), mirror.OperationFields)
	s.mirror.Create(mirror.TableMaintenance, maintenanceRecord(m), mirror.MaintenanceFields)
	return m, nil
}

func (s *maintenanceService) GetMaintenanceByID(ctx context.Context, id int64) (*models.Maintenance, error) {
	var m *models.Maintenance
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		m, err = s.maintenanceRepo.GetMaintenanceByID(ctx, exec, id)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrMaintenanceNotFound
	}
	return m, err
}

func (s *maintenanceService) GetMaintenances(ctx context.Context) ([]models.Maintenance, error) {
	var list []models.Maintenance
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		list, err = s.maintenanceRepo.GetMaintenances(ctx, exec)
		return err
	})
	return list, err
}

func (s *maintenanceService) SearchMaintenances(ctx context.Context, term string) ([]models.Maintenance, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Maintenance{}, nil
	}
	var list []models.Maintenance
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		list, err = s.maintenanceRepo.SearchMaintenances(ctx, exec, term)
		return err
	})
	return list, err
}

// GetUpcomingMaintenances lists maintenance due within days from today, overdue included.
func (s *maintenanceService) GetUpcomingMaintenances(ctx context.Context, days int) ([]models.Maintenance, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: dias cannot be negative", ErrValidation)
	}
	until := models.NewDate(models.Today().AddDate(0, 0, days))

	var list []models.Maintenance
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		list, err = s.maintenanceRepo.GetUpcomingMaintenances(ctx, exec, until)
		return err
	})
	return list, err
}

func (s *maintenanceService) UpdateMaintenance(ctx context.Context, id int64, p models.MaintenancePayload) (*models.Maintenance, error) {
	p.Description, p.Frequency = trimmed(p.Description), trimmed(p.Frequency)
	if (p.Description != nil && *p.Description == "") || (p.Frequency != nil && *p.Frequency == "") {
		return nil, fmt.Errorf("%w: descripcion and frecuencia cannot be empty", ErrValidation)
	}
	if err := validateAmounts(p.Income, p.Expense); err != nil {
		return nil, err
	}

	var m *models.Maintenance
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if patch := p.OperationPatch(); !patch.Empty() {
			if err := s.operationRepo.UpdateOperation(ctx, tx, id, models.OperationMaintenance, patch); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrMaintenanceNotFound
				}
				return fmt.Errorf("failed to update operation: %w", err)
			}
		}
		if err := s.maintenanceRepo.UpdateMaintenanceDetail(ctx, tx, id, &p); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrMaintenanceNotFound
			}
			return fmt.Errorf("failed to update maintenance: %w", err)
		}
		if p.DeviceID != nil {
			if err := s.requireDevice(ctx, tx, *p.DeviceID); err != nil {
				return err
			}
			if err := s.maintenanceRepo.UnlinkDevices(ctx, tx, id); err != nil {
				return err
			}
			if err := s.maintenanceRepo.LinkDevice(ctx, tx, id, *p.DeviceID); err != nil {
				return err
			}
		}
		var err error
		m, err = s.maintenanceRepo.GetMaintenanceByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Update(mirror.TableOperations, m.OperationID, operationRecord(m.OperationID, m.ClientID, m.Date,
		models.OperationMaintenance, m.Income, m.Expense), mirror.OperationFields)
	s.mirror.Update(mirror.TableMaintenance, m.OperationID, maintenanceRecord(m), mirror.MaintenanceFields)
	return m, nil
}

// DeleteMaintenance removes device links, the detail row and then the operation.
func (s *maintenanceService) DeleteMaintenance(ctx context.Context, id int64) error {
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := s.maintenanceRepo.UnlinkDevices(ctx, tx, id); err != nil {
			return err
		}
		if err := s.maintenanceRepo.DeleteMaintenanceDetail(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrMaintenanceNotFound
			}
			return fmt.Errorf("failed to delete maintenance: %w", err)
		}
		if err := s.operationRepo.DeleteOperation(ctx, tx, id, models.OperationMaintenance); err != nil {
			return fmt.Errorf("failed to delete operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mirror.Delete(mirror.TableMaintenance, id, mirror.MaintenanceFields)
	s.mirror.Delete(mirror.TableOperations, id, mirror.OperationFields)
	return nil
}
