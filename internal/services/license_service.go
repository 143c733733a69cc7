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

	"github.com/shopspring/decimal"
)

// LicenseService sells and maintains antivirus, office and operating system licenses.
type LicenseService interface {
	GetLicenses(ctx context.Context, kind models.LicenseKind) ([]models.License, error)
	RegisterLicense(ctx context.Context, kind models.LicenseKind, p models.LicensePayload) (*models.License, error)
	UpdateLicense(ctx context.Context, kind models.LicenseKind, id string, p models.LicensePayload) (*models.License, error)
	DeleteLicense(ctx context.Context, kind models.LicenseKind, id string) error
}

type licenseService struct {
	licenseRepo   repositories.LicenseRepository
	operationRepo repositories.OperationRepository
	clientRepo    repositories.ClientRepository
	pool          ConnProvider
	mirror        RecordMirror
}

func NewLicenseService(licenseRepo repositories.LicenseRepository, operationRepo repositories.OperationRepository,
	clientRepo repositories.ClientRepository, pool ConnProvider, m RecordMirror) LicenseService {
	return &licenseService{
		licenseRepo:   licenseRepo,
		operationRepo: operationRepo,
		clientRepo:    clientRepo,
		pool:          pool,
		mirror:        m,
	}
}

func validateAmounts(income, expense *decimal.Decimal) error {
	if income != nil && income.IsNegative() {
		return fmt.Errorf("%w: ingreso cannot be negative", ErrValidation)
	}
	if expense != nil && expense.IsNegative() {
		return fmt.Errorf("%w: egreso cannot be negative", ErrValidation)
	}
	return nil
}

func validateLicensePayload(p *models.LicensePayload) error {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(p.StartDate.Time) {
		return fmt.Errorf("%w: fechaFin must not be before fechaInicio", ErrValidation)
	}
	if p.DeviceCount != nil && *p.DeviceCount < 0 {
		return fmt.Errorf("%w: numeroDispositivos cannot be negative", ErrValidation)
	}
	return validateAmounts(p.Income, p.Expense)
}

// licenseKindOf checks that id belongs to kind.
func licenseKindOf(kind models.LicenseKind, id string) (string, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	k, ok := repositories.LicenseKindForID(id)
	if !ok || k != kind {
		return "", ErrLicenseNotFound
	}
	return id, nil
}

func (s *licenseService) GetLicenses(ctx context.Context, kind models.LicenseKind) ([]models.License, error) {
	var licenses []models.License
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		licenses, err = s.licenseRepo.GetLicenses(ctx, exec, kind)
		return err
	})
	return licenses, err
}

// RegisterLicense creates the operation, the detail row and the sale in one transaction.
func (s *licenseService) RegisterLicense(ctx context.Context, kind models.LicenseKind, p models.LicensePayload) (*models.License, error) {
	if p.ClientID == nil {
		return nil, fmt.Errorf("%w: idCliente is required", ErrValidation)
	}
	if err := validateLicensePayload(&p); err != nil {
		return nil, err
	}

	var license *models.License
	err := withTx(ctx, s.pool, func(tx *sql.Tx) error {
		if err := requireClient(ctx, s.clientRepo, tx, *p.ClientID); err != nil {
			return err
		}
		id, err := s.licenseRepo.ReserveLicenseID(ctx, tx, kind)
		if err != nil {
			return fmt.Errorf("failed to reserve license id: %w", err)
		}

		op := &models.Operation{ClientID: *p.ClientID, Type: models.OperationSale}
		if p.SaleDate != nil {
			op.Date = *p.SaleDate
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
		if err := s.licenseRepo.CreateLicenseDetail(ctx, tx, kind, id, &p); err != nil {
			return fmt.Errorf("failed to create license: %w", err)
		}
		if err := s.licenseRepo.CreateSale(ctx, tx, op.ID, id); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		license, err = s.licenseRepo.GetLicenseByID(ctx, tx, kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	table, fields := licenseMirrorTable(kind)
	s.mirror.Create(mirror.TableOperations, operationRecord(license.OperationID, license.ClientID, license.SaleDate,
		models.OperationSale, license.Income, license.Expense), mirror.OperationFields)
	s.mirror.Create(mirror.TableSales, saleRecord(license), mirror.SaleFields)
	s.mirror.Create(table, licenseRecord(license), fields)
	return license, nil
}

// UpdateLicense patches the detail row and the sale's operation.
func (s *licenseService) UpdateLicense(ctx context.Context, kind models.LicenseKind, id string, p models.LicensePayload) (*models.License, error) {
	id, err := licenseKindOf(kind, id)
	if err != nil {
		return nil, err
	}
	if err := validateLicensePayload(&p); err != nil {
		return nil, err
	}

	var license *models.License
	err = withTx(ctx, s.pool, func(tx *sql.Tx) error {
		opID, err := s.licenseRepo.GetSaleOperationID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrLicenseNotFound
			}
			return err
		}
		if err := s.licenseRepo.UpdateLicenseDetail(ctx, tx, kind, id, &p); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrLicenseNotFound
			}
			return fmt.Errorf("failed to update license: %w", err)
		}
		if patch := p.OperationPatch(); !patch.Empty() {
			if err := s.operationRepo.UpdateOperation(ctx, tx, opID, models.OperationSale, patch); err != nil {
				return fmt.Errorf("failed to update operation: %w", err)
			}
		}
		license, err = s.licenseRepo.GetLicenseByID(ctx, tx, kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	table, fields := licenseMirrorTable(kind)
	s.mirror.Update(table, license.ID, licenseRecord(license), fields)
	s.mirror.Update(mirror.TableOperations, license.OperationID, operationRecord(license.OperationID, license.ClientID,
		license.SaleDate, models.OperationSale, license.Income, license.Expense), mirror.OperationFields)
	return license, nil
}

// DeleteLicense removes the sale, the detail row and then the operation.
func (s *licenseService) DeleteLicense(ctx context.Context, kind models.LicenseKind, id string) error {
	id, err := licenseKindOf(kind, id)
	if err != nil {
		return err
	}

	var opID int64
	err = withTx(ctx, s.pool, func(tx *sql.Tx) error {
		var err error
		opID, err = s.licenseRepo.GetSaleOperationID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrLicenseNotFound
			}
			return err
		}
		if err := s.licenseRepo.DeleteSale(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		if err := s.licenseRepo.DeleteLicenseDetail(ctx, tx, kind, id); err != nil {
			return fmt.Errorf("failed to delete license: %w", err)
		}
		if err := s.operationRepo.DeleteOperation(ctx, tx, opID, models.OperationSale); err != nil {
			return fmt.Errorf("failed to delete operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	table, fields := licenseMirrorTable(kind)
	s.mirror.Delete(mirror.TableSales, id, mirror.SaleFields, "ID_LICENCIA")
	s.mirror.Delete(table, id, fields)
	s.mirror.Delete(mirror.TableOperations, opID, mirror.OperationFields)
	return nil
}
