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

type DeviceService interface {
	CreateDevice(ctx context.Context, p models.DevicePayload) (*models.Device, error)
	GetDeviceByID(ctx context.Context, id int64) (*models.Device, error)
	GetDevices(ctx context.Context) ([]models.Device, error)
	GetDevicesByClient(ctx context.Context, clientID int64) ([]models.Device, error)
	SearchDevices(ctx context.Context, term string) ([]models.Device, error)
	UpdateDevice(ctx context.Context, id int64, p models.DevicePayload) (*models.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
}

type deviceService struct {
	deviceRepo      repositories.DeviceRepository
	clientRepo      repositories.ClientRepository
	maintenanceRepo repositories.MaintenanceRepository
	pool            ConnProvider
	mirror          RecordMirror
}

func NewDeviceService(deviceRepo repositories.DeviceRepository, clientRepo repositories.ClientRepository,
	maintenanceRepo repositories.MaintenanceRepository, pool ConnProvider, m RecordMirror) DeviceService {
	return &deviceService{
		deviceRepo:      deviceRepo,
		clientRepo:      clientRepo,
		maintenanceRepo: maintenanceRepo,
		pool:            pool,
		mirror:          m,
	}
}

// requireClient fails with ErrUnknownClient when the referenced client is absent.
func requireClient(ctx context.Context, repo repositories.ClientRepository, exec repositories.SQLExecutor, id int64) error {
	ok, err := repo.ClientExists(ctx, exec, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id_cliente %d", ErrUnknownClient, id)
	}
	return nil
}

func (s *deviceService) CreateDevice(ctx context.Context, p models.DevicePayload) (*models.Device, error) {
	p.Type = trimmed(p.Type)
	if p.ClientID == nil || utils.IsEmpty(utils.DerefString(p.Type)) {
		return nil, fmt.Errorf("%w: id_cliente and tipo_dispositivo are required", ErrValidation)
	}

	var device *models.Device
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := requireClient(ctx, s.clientRepo, tx, *p.ClientID); err != nil {
			return err
		}
		id, err := s.deviceRepo.CreateDevice(ctx, tx, &p)
		if err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}
		device, err = s.deviceRepo.GetDeviceByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Create(mirror.TableDevices, deviceRecord(device), mirror.DeviceFields)
	return device, nil
}

func (s *deviceService) GetDeviceByID(ctx context.Context, id int64) (*models.Device, error) {
	var device *models.Device
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		device, err = s.deviceRepo.GetDeviceByID(ctx, exec, id)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrDeviceNotFound
	}
	return device, err
}

func (s *deviceService) GetDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		devices, err = s.deviceRepo.GetDevices(ctx, exec)
		return err
	})
	return devices, err
}

func (s *deviceService) GetDevicesByClient(ctx context.Context, clientID int64) ([]models.Device, error) {
	var devices []models.Device
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		ok, err := s.clientRepo.ClientExists(ctx, exec, clientID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrClientNotFound
		}
		devices, err = s.deviceRepo.GetDevicesByClient(ctx, exec, clientID)
		return err
	})
	return devices, err
}

func (s *deviceService) SearchDevices(ctx context.Context, term string) ([]models.Device, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Device{}, nil
	}
	var devices []models.Device
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		devices, err = s.deviceRepo.SearchDevices(ctx, exec, term)
		return err
	})
	return devices, err
}

func (s *deviceService) UpdateDevice(ctx context.Context, id int64, p models.DevicePayload) (*models.Device, error) {
	p.Type = trimmed(p.Type)
	if p.Type != nil && *p.Type == "" {
		return nil, fmt.Errorf("%w: tipo_dispositivo cannot be empty", ErrValidation)
	}

	var device *models.Device
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if p.ClientID != nil {
			if err := requireClient(ctx, s.clientRepo, tx, *p.ClientID); err != nil {
				return err
			}
		}
		if err := s.deviceRepo.UpdateDevice(ctx, tx, id, &p); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDeviceNotFound
			}
			return fmt.Errorf("failed to update device: %w", err)
		}
		var err error
		device, err = s.deviceRepo.GetDeviceByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.mirror.Update(mirror.TableDevices, device.ID, deviceRecord(device), mirror.DeviceFields)
	return device, nil
}

// DeleteDevice removes the device and its maintenance links.
func (s *deviceService) DeleteDevice(ctx context.Context, id int64) error {
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := s.maintenanceRepo.UnlinkDeviceEverywhere(ctx, tx, id); err != nil {
			return err
		}
		if err := s.deviceRepo.DeleteDevice(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDeviceNotFound
			}
			return fmt.Errorf("failed to delete device: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mirror.Delete(mirror.TableDevices, id, mirror.DeviceFields)
	return nil
}
