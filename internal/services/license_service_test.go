package services

import (
	"context"
	"errors"
	"testing"

	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterLicenseCreatesOperationSaleAndDetail(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	licenses, ops, clients, m := &mockLicenseRepo{}, &mockOperationRepo{}, &mockClientRepo{}, &recordingMirror{}
	svc := NewLicenseService(licenses, ops, clients, pool, m)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	clientID := int64(5)
	income := decimal.NewFromInt(45)
	clients.On("ClientExists", mock.Anything, mock.Anything, clientID).Return(true, nil)
	licenses.On("ReserveLicenseID", mock.Anything, mock.Anything, models.LicenseAntivirus).Return("A-001", nil)
	ops.On("CreateOperation", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Operation")).
		Run(func(args mock.Arguments) {
			op := args.Get(2).(*models.Operation)
			assert.Equal(t, models.OperationSale, op.Type)
			assert.True(t, op.Income.Equal(income))
			op.ID = 31
		}).Return(int64(31), nil)
	licenses.On("CreateLicenseDetail", mock.Anything, mock.Anything, models.LicenseAntivirus, "A-001", mock.Anything).Return(nil)
	licenses.On("CreateSale", mock.Anything, mock.Anything, int64(31), "A-001").Return(nil)
	licenses.On("GetLicenseByID", mock.Anything, mock.Anything, models.LicenseAntivirus, "A-001").Return(&models.License{
		ID: "A-001", Kind: models.LicenseAntivirus, OperationID: 31, ClientID: clientID,
		SaleDate: models.Today(), Income: income,
	}, nil)

	license, err := svc.RegisterLicense(context.Background(), models.LicenseAntivirus, models.LicensePayload{
		ClientID: &clientID, Income: &income,
	})
	require.NoError(t, err)
	assert.Equal(t, "A-001", license.ID)
	assert.Equal(t, int64(31), license.OperationID)
	assert.Equal(t, []string{
		"create:" + mirror.TableOperations,
		"create:" + mirror.TableSales,
		"create:" + mirror.TableAntivirus,
	}, m.tables())
	assert.Equal(t, "45.00", m.calls[0].Record["INGRESO"])
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	licenses.AssertExpectations(t)
}

func TestRegisterLicenseRollsBackOnSaleFailure(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	licenses, ops, clients, m := &mockLicenseRepo{}, &mockOperationRepo{}, &mockClientRepo{}, &recordingMirror{}
	svc := NewLicenseService(licenses, ops, clients, pool, m)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	clientID := int64(5)
	clients.On("ClientExists", mock.Anything, mock.Anything, clientID).Return(true, nil)
	licenses.On("ReserveLicenseID", mock.Anything, mock.Anything, models.LicenseOffice).Return("M-004", nil)
	ops.On("CreateOperation", mock.Anything, mock.Anything, mock.Anything).Return(int64(12), nil)
	licenses.On("CreateLicenseDetail", mock.Anything, mock.Anything, models.LicenseOffice, "M-004", mock.Anything).Return(nil)
	licenses.On("CreateSale", mock.Anything, mock.Anything, mock.Anything, "M-004").Return(repositories.ErrDatabaseError)

	_, err := svc.RegisterLicense(context.Background(), models.LicenseOffice, models.LicensePayload{ClientID: &clientID})
	assert.True(t, errors.Is(err, repositories.ErrDatabaseError))
	assert.Empty(t, m.calls)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRegisterLicenseUnknownClient(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	licenses, ops, clients := &mockLicenseRepo{}, &mockOperationRepo{}, &mockClientRepo{}
	svc := NewLicenseService(licenses, ops, clients, pool, &recordingMirror{})

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	clientID := int64(404)
	clients.On("ClientExists", mock.Anything, mock.Anything, clientID).Return(false, nil)

	_, err := svc.RegisterLicense(context.Background(), models.LicenseOperatingSystem, models.LicensePayload{ClientID: &clientID})
	assert.True(t, errors.Is(err, ErrUnknownClient))
	licenses.AssertNotCalled(t, "ReserveLicenseID", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRegisterLicenseValidation(t *testing.T) {
	pool, _ := newTestPool(t)
	svc := NewLicenseService(&mockLicenseRepo{}, &mockOperationRepo{}, &mockClientRepo{}, pool, &recordingMirror{})

	_, err := svc.RegisterLicense(context.Background(), models.LicenseAntivirus, models.LicensePayload{})
	assert.True(t, errors.Is(err, ErrValidation))

	clientID := int64(1)
	negative := decimal.NewFromInt(-1)
	_, err = svc.RegisterLicense(context.Background(), models.LicenseAntivirus, models.LicensePayload{ClientID: &clientID, Expense: &negative})
	assert.True(t, errors.Is(err, ErrValidation))

	start, _ := models.ParseDate("2026-05-01")
	end, _ := models.ParseDate("2026-04-01")
	_, err = svc.RegisterLicense(context.Background(), models.LicenseAntivirus, models.LicensePayload{
		ClientID: &clientID, StartDate: &start, EndDate: &end,
	})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDeleteLicenseWrongPrefix(t *testing.T) {
	pool, _ := newTestPool(t)
	svc := NewLicenseService(&mockLicenseRepo{}, &mockOperationRepo{}, &mockClientRepo{}, pool, &recordingMirror{})

	err := svc.DeleteLicense(context.Background(), models.LicenseAntivirus, "M-001")
	assert.True(t, errors.Is(err, ErrLicenseNotFound))
}

func TestDeleteLicenseRemovesSaleDetailAndOperation(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	licenses, ops, m := &mockLicenseRepo{}, &mockOperationRepo{}, &recordingMirror{}
	svc := NewLicenseService(licenses, ops, &mockClientRepo{}, pool, m)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	licenses.On("GetSaleOperationID", mock.Anything, mock.Anything, "W-002").Return(int64(18), nil)
	licenses.On("DeleteSale", mock.Anything, mock.Anything, "W-002").Return(nil)
	licenses.On("DeleteLicenseDetail", mock.Anything, mock.Anything, models.LicenseOperatingSystem, "W-002").Return(nil)
	ops.On("DeleteOperation", mock.Anything, mock.Anything, int64(18), models.OperationSale).Return(nil)

	require.NoError(t, svc.DeleteLicense(context.Background(), models.LicenseOperatingSystem, "w-002"))
	assert.Equal(t, []string{
		"delete:" + mirror.TableSales,
		"delete:" + mirror.TableOperatingSystem,
		"delete:" + mirror.TableOperations,
	}, m.tables())
	assert.Equal(t, int64(18), m.calls[2].Key)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
