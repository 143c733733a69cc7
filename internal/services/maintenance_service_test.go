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

type maintenanceFixture struct {
	svc     MaintenanceService
	maint   *mockMaintenanceRepo
	ops     *mockOperationRepo
	clients *mockClientRepo
	devices *mockDeviceRepo
	mirror  *recordingMirror
}

func newMaintenanceFixture(pool ConnProvider) *maintenanceFixture {
	f := &maintenanceFixture{
		maint: &mockMaintenanceRepo{}, ops: &mockOperationRepo{}, clients: &mockClientRepo{},
		devices: &mockDeviceRepo{}, mirror: &recordingMirror{},
	}
	f.svc = NewMaintenanceService(f.maint, f.ops, f.clients, f.devices, pool, f.mirror)
	return f
}

func storedMaintenance(t *testing.T, id int64) *models.Maintenance {
	return &models.Maintenance{
		OperationID: id, Code: "MP014", ClientID: 3, ClientName: "Ana Perez",
		Date: date(t, "2026-01-15"), Income: decimal.NewFromInt(80),
		Description: "Servidor y UPS", Frequency: "Mensual", Type: models.DefaultMaintenanceType,
	}
}

func TestCreateMaintenanceUnknownClient(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	f.clients.On("ClientExists", mock.Anything, mock.Anything, int64(99)).Return(false, nil)

	clientID := int64(99)
	_, err := f.svc.CreateMaintenance(context.Background(), models.MaintenancePayload{
		ClientID: &clientID, Description: str("Servidor"), Frequency: str("Mensual"),
	})
	assert.True(t, errors.Is(err, ErrUnknownClient))
	f.ops.AssertNotCalled(t, "CreateOperation", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.mirror.calls)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateMaintenanceLinksDevice(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	clientID, deviceID := int64(3), int64(7)
	f.clients.On("ClientExists", mock.Anything, mock.Anything, clientID).Return(true, nil)
	f.devices.On("GetDeviceByID", mock.Anything, mock.Anything, deviceID).Return(&models.Device{ID: deviceID, ClientID: clientID}, nil)
	f.ops.On("CreateOperation", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Operation")).
		Run(func(args mock.Arguments) {
			op := args.Get(2).(*models.Operation)
			assert.Equal(t, models.OperationMaintenance, op.Type)
			op.ID = 14
		}).Return(int64(14), nil)
	f.maint.On("CreateMaintenanceDetail", mock.Anything, mock.Anything, int64(14), mock.Anything).Return(nil)
	f.maint.On("LinkDevice", mock.Anything, mock.Anything, int64(14), deviceID).Return(nil)
	f.maint.On("GetMaintenanceByID", mock.Anything, mock.Anything, int64(14)).Return(storedMaintenance(t, 14), nil)

	m, err := f.svc.CreateMaintenance(context.Background(), models.MaintenancePayload{
		ClientID: &clientID, Description: str("Servidor y UPS"), Frequency: str("Mensual"), DeviceID: &deviceID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14), m.OperationID)
	assert.Equal(t, []string{
		"create:" + mirror.TableOperations,
		"create:" + mirror.TableMaintenance,
	}, f.mirror.tables())
	f.maint.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateMaintenanceKeepsOmittedFields(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	f.maint.On("UpdateMaintenanceDetail", mock.Anything, mock.Anything, int64(14), mock.AnythingOfType("*models.MaintenancePayload")).
		Run(func(args mock.Arguments) {
			p := args.Get(3).(*models.MaintenancePayload)
			assert.Nil(t, p.Description)
			assert.Equal(t, "Trimestral", *p.Frequency)
		}).Return(nil)
	stored := storedMaintenance(t, 14)
	stored.Frequency = "Trimestral"
	f.maint.On("GetMaintenanceByID", mock.Anything, mock.Anything, int64(14)).Return(stored, nil)

	m, err := f.svc.UpdateMaintenance(context.Background(), 14, models.MaintenancePayload{Frequency: str(" Trimestral ")})
	require.NoError(t, err)
	assert.Equal(t, "Servidor y UPS", m.Description)

	f.ops.AssertNotCalled(t, "UpdateOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.maint.AssertNotCalled(t, "UnlinkDevices", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{
		"update:" + mirror.TableOperations,
		"update:" + mirror.TableMaintenance,
	}, f.mirror.tables())
	assert.Equal(t, "Servidor y UPS", f.mirror.calls[1].Record["DESCRIPCION"])
	assert.Equal(t, "80.00", f.mirror.calls[0].Record["INGRESO"])
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateMaintenanceReplacesDeviceLink(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	log := &callLog{}
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	income := decimal.NewFromInt(95)
	deviceID := int64(21)
	f.ops.On("UpdateOperation", mock.Anything, mock.Anything, int64(14), models.OperationMaintenance, mock.Anything).
		Run(log.record("operation")).Return(nil)
	f.maint.On("UpdateMaintenanceDetail", mock.Anything, mock.Anything, int64(14), mock.Anything).
		Run(log.record("detail")).Return(nil)
	f.devices.On("GetDeviceByID", mock.Anything, mock.Anything, deviceID).Return(&models.Device{ID: deviceID}, nil)
	f.maint.On("UnlinkDevices", mock.Anything, mock.Anything, int64(14)).Run(log.record("unlink")).Return(nil)
	f.maint.On("LinkDevice", mock.Anything, mock.Anything, int64(14), deviceID).Run(log.record("link")).Return(nil)
	f.maint.On("GetMaintenanceByID", mock.Anything, mock.Anything, int64(14)).Return(storedMaintenance(t, 14), nil)

	_, err := f.svc.UpdateMaintenance(context.Background(), 14, models.MaintenancePayload{Income: &income, DeviceID: &deviceID})
	require.NoError(t, err)
	assert.Equal(t, []string{"operation", "detail", "unlink", "link"}, log.names)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateMaintenanceUnknownDeviceRollsBack(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	deviceID := int64(404)
	f.maint.On("UpdateMaintenanceDetail", mock.Anything, mock.Anything, int64(14), mock.Anything).Return(nil)
	f.devices.On("GetDeviceByID", mock.Anything, mock.Anything, deviceID).Return(nil, repositories.ErrNotFound)

	_, err := f.svc.UpdateMaintenance(context.Background(), 14, models.MaintenancePayload{DeviceID: &deviceID})
	assert.True(t, errors.Is(err, ErrUnknownDevice))
	f.maint.AssertNotCalled(t, "UnlinkDevices", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.mirror.calls)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeleteMaintenanceRemovesChildrenFirst(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	log := &callLog{}
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	f.maint.On("UnlinkDevices", mock.Anything, mock.Anything, int64(14)).Run(log.record("unlink")).Return(nil)
	f.maint.On("DeleteMaintenanceDetail", mock.Anything, mock.Anything, int64(14)).Run(log.record("detail")).Return(nil)
	f.ops.On("DeleteOperation", mock.Anything, mock.Anything, int64(14), models.OperationMaintenance).
		Run(log.record("operation")).Return(nil)

	require.NoError(t, f.svc.DeleteMaintenance(context.Background(), 14))
	assert.Equal(t, []string{"unlink", "detail", "operation"}, log.names)
	assert.Equal(t, []string{
		"delete:" + mirror.TableMaintenance,
		"delete:" + mirror.TableOperations,
	}, f.mirror.tables())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeleteMaintenanceMissingDetailRollsBack(t *testing.T) {
	pool, sqlMock := newTestPool(t)
	f := newMaintenanceFixture(pool)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	f.maint.On("UnlinkDevices", mock.Anything, mock.Anything, int64(15)).Return(nil)
	f.maint.On("DeleteMaintenanceDetail", mock.Anything, mock.Anything, int64(15)).Return(repositories.ErrNotFound)

	err := f.svc.DeleteMaintenance(context.Background(), 15)
	assert.True(t, errors.Is(err, ErrMaintenanceNotFound))
	f.ops.AssertNotCalled(t, "DeleteOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.mirror.calls)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSearchMaintenancesBlankTermSkipsDatabase(t *testing.T) {
	pool, _ := newTestPool(t)
	f := newMaintenanceFixture(pool)

	list, err := f.svc.SearchMaintenances(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	f.maint.AssertNotCalled(t, "SearchMaintenances", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUpcomingMaintenancesRejectsNegativeDays(t *testing.T) {
	pool, _ := newTestPool(t)
	f := newMaintenanceFixture(pool)

	_, err := f.svc.GetUpcomingMaintenances(context.Background(), -1)
	assert.True(t, errors.Is(err, ErrValidation))
}
