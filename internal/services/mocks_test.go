package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"techdesk_backend/internal/database"
	"techdesk_backend/internal/mailer"
	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T) (*database.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewPoolFromDB(db, 5, 2), sqlMock
}

// --- mirror ---

type mirrorCall struct {
	Op     string
	Table  string
	Key    any
	Record mirror.Record
}

type recordingMirror struct {
	mu    sync.Mutex
	calls []mirrorCall
}

func (m *recordingMirror) Create(table string, record mirror.Record, fields []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mirrorCall{Op: "create", Table: table, Record: record})
}

func (m *recordingMirror) Update(table string, key any, record mirror.Record, fields []string, keyField ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mirrorCall{Op: "update", Table: table, Key: key, Record: record})
}

func (m *recordingMirror) Delete(table string, key any, fields []string, keyField ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mirrorCall{Op: "delete", Table: table, Key: key})
}

func (m *recordingMirror) tables() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Op + ":" + c.Table
	}
	return out
}

// --- mailer ---

type fakeSession struct {
	sent   []mailer.Message
	failTo map[string]bool
	closed bool
}

func (s *fakeSession) Send(ctx context.Context, msg mailer.Message) error {
	if s.failTo[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeMailer struct {
	session *fakeSession
	openErr error
	opens   int
}

func (m *fakeMailer) Open(ctx context.Context) (mailer.Session, error) {
	m.opens++
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.session, nil
}

// --- repositories ---

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) CreateClient(ctx context.Context, exec repositories.SQLExecutor, p *models.ClientPayload) (int64, error) {
	args := m.Called(ctx, exec, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) GetClientByID(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Client, error) {
	args := m.Called(ctx, exec, id)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) ClientExists(ctx context.Context, exec repositories.SQLExecutor, id int64) (bool, error) {
	args := m.Called(ctx, exec, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockClientRepo) GetClients(ctx context.Context, exec repositories.SQLExecutor) ([]models.Client, error) {
	args := m.Called(ctx, exec)
	c, _ := args.Get(0).([]models.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) SearchClients(ctx context.Context, exec repositories.SQLExecutor, term string) ([]models.Client, error) {
	args := m.Called(ctx, exec, term)
	c, _ := args.Get(0).([]models.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) UpdateClient(ctx context.Context, exec repositories.SQLExecutor, id int64, p *models.ClientPayload) error {
	return m.Called(ctx, exec, id, p).Error(0)
}

func (m *mockClientRepo) DeleteClient(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

type mockOperationRepo struct{ mock.Mock }

func (m *mockOperationRepo) CreateOperation(ctx context.Context, exec repositories.SQLExecutor, op *models.Operation) (int64, error) {
	args := m.Called(ctx, exec, op)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOperationRepo) UpdateOperation(ctx context.Context, exec repositories.SQLExecutor, id int64, opType string, patch models.OperationPatch) error {
	return m.Called(ctx, exec, id, opType, patch).Error(0)
}

func (m *mockOperationRepo) DeleteOperation(ctx context.Context, exec repositories.SQLExecutor, id int64, opType string) error {
	return m.Called(ctx, exec, id, opType).Error(0)
}

type mockLicenseRepo struct{ mock.Mock }

func (m *mockLicenseRepo) ReserveLicenseID(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind) (string, error) {
	args := m.Called(ctx, exec, kind)
	return args.String(0), args.Error(1)
}

func (m *mockLicenseRepo) CreateLicenseDetail(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error {
	return m.Called(ctx, exec, kind, id, p).Error(0)
}

func (m *mockLicenseRepo) CreateSale(ctx context.Context, exec repositories.SQLExecutor, operationID int64, licenseID string) error {
	return m.Called(ctx, exec, operationID, licenseID).Error(0)
}

func (m *mockLicenseRepo) GetLicenseByID(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind, id string) (*models.License, error) {
	args := m.Called(ctx, exec, kind, id)
	l, _ := args.Get(0).(*models.License)
	return l, args.Error(1)
}

func (m *mockLicenseRepo) GetLicenses(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind) ([]models.License, error) {
	args := m.Called(ctx, exec, kind)
	l, _ := args.Get(0).([]models.License)
	return l, args.Error(1)
}

func (m *mockLicenseRepo) UpdateLicenseDetail(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error {
	return m.Called(ctx, exec, kind, id, p).Error(0)
}

func (m *mockLicenseRepo) GetSaleOperationID(ctx context.Context, exec repositories.SQLExecutor, licenseID string) (int64, error) {
	args := m.Called(ctx, exec, licenseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseRepo) DeleteSale(ctx context.Context, exec repositories.SQLExecutor, licenseID string) error {
	return m.Called(ctx, exec, licenseID).Error(0)
}

func (m *mockLicenseRepo) DeleteLicenseDetail(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind, id string) error {
	return m.Called(ctx, exec, kind, id).Error(0)
}

type mockAuthRepo struct{ mock.Mock }

func (m *mockAuthRepo) CreateUser(ctx context.Context, exec repositories.SQLExecutor, username, hashedPassword string) (int64, error) {
	args := m.Called(ctx, exec, username, hashedPassword)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuthRepo) FindUserByUsername(ctx context.Context, exec repositories.SQLExecutor, username string) (*models.User, error) {
	args := m.Called(ctx, exec, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockAuthRepo) FindUserByID(ctx context.Context, exec repositories.SQLExecutor, userID int64) (*models.User, error) {
	args := m.Called(ctx, exec, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockAlertRepo struct{ mock.Mock }

func (m *mockAlertRepo) GetExpiringItems(ctx context.Context, exec repositories.SQLExecutor, from, to models.Date) ([]models.AlertItem, error) {
	args := m.Called(ctx, exec, from, to)
	items, _ := args.Get(0).([]models.AlertItem)
	return items, args.Error(1)
}

func (m *mockAlertRepo) GetLicenseAlertItem(ctx context.Context, exec repositories.SQLExecutor, kind models.LicenseKind, id string) (*models.AlertItem, error) {
	args := m.Called(ctx, exec, kind, id)
	item, _ := args.Get(0).(*models.AlertItem)
	return item, args.Error(1)
}

type mockSchemaRepo struct{ mock.Mock }

func (m *mockSchemaRepo) ListTables(ctx context.Context, exec repositories.SQLExecutor) ([]string, error) {
	args := m.Called(ctx, exec)
	t, _ := args.Get(0).([]string)
	return t, args.Error(1)
}

func (m *mockSchemaRepo) TableExists(ctx context.Context, exec repositories.SQLExecutor, table string) (bool, error) {
	args := m.Called(ctx, exec, table)
	return args.Bool(0), args.Error(1)
}

func (m *mockSchemaRepo) GetColumns(ctx context.Context, exec repositories.SQLExecutor, table string) ([]models.TableColumn, error) {
	args := m.Called(ctx, exec, table)
	c, _ := args.Get(0).([]models.TableColumn)
	return c, args.Error(1)
}

func (m *mockSchemaRepo) SelectRows(ctx context.Context, exec repositories.SQLExecutor, table string, columns []string, limit int) ([]string, []map[string]any, error) {
	args := m.Called(ctx, exec, table, columns, limit)
	names, _ := args.Get(0).([]string)
	rows, _ := args.Get(1).([]map[string]any)
	return names, rows, args.Error(2)
}

func (m *mockSchemaRepo) CurrentTime(ctx context.Context, exec repositories.SQLExecutor) (time.Time, error) {
	args := m.Called(ctx, exec)
	t, _ := args.Get(0).(time.Time)
	return t, args.Error(1)
}

type mockDeviceRepo struct{ mock.Mock }

func (m *mockDeviceRepo) CreateDevice(ctx context.Context, exec repositories.SQLExecutor, p *models.DevicePayload) (int64, error) {
	args := m.Called(ctx, exec, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDeviceRepo) GetDeviceByID(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Device, error) {
	args := m.Called(ctx, exec, id)
	d, _ := args.Get(0).(*models.Device)
	return d, args.Error(1)
}

func (m *mockDeviceRepo) GetDevices(ctx context.Context, exec repositories.SQLExecutor) ([]models.Device, error) {
	args := m.Called(ctx, exec)
	d, _ := args.Get(0).([]models.Device)
	return d, args.Error(1)
}

func (m *mockDeviceRepo) GetDevicesByClient(ctx context.Context, exec repositories.SQLExecutor, clientID int64) ([]models.Device, error) {
	args := m.Called(ctx, exec, clientID)
	d, _ := args.Get(0).([]models.Device)
	return d, args.Error(1)
}

func (m *mockDeviceRepo) SearchDevices(ctx context.Context, exec repositories.SQLExecutor, term string) ([]models.Device, error) {
	args := m.Called(ctx, exec, term)
	d, _ := args.Get(0).([]models.Device)
	return d, args.Error(1)
}

func (m *mockDeviceRepo) UpdateDevice(ctx context.Context, exec repositories.SQLExecutor, id int64, p *models.DevicePayload) error {
	return m.Called(ctx, exec, id, p).Error(0)
}

func (m *mockDeviceRepo) DeleteDevice(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

type mockMaintenanceRepo struct{ mock.Mock }

func (m *mockMaintenanceRepo) CreateMaintenanceDetail(ctx context.Context, exec repositories.SQLExecutor, operationID int64, p *models.MaintenancePayload) error {
	return m.Called(ctx, exec, operationID, p).Error(0)
}

func (m *mockMaintenanceRepo) LinkDevice(ctx context.Context, exec repositories.SQLExecutor, operationID, deviceID int64) error {
	return m.Called(ctx, exec, operationID, deviceID).Error(0)
}

func (m *mockMaintenanceRepo) UnlinkDevices(ctx context.Context, exec repositories.SQLExecutor, operationID int64) error {
	return m.Called(ctx, exec, operationID).Error(0)
}

func (m *mockMaintenanceRepo) UnlinkDeviceEverywhere(ctx context.Context, exec repositories.SQLExecutor, deviceID int64) error {
	return m.Called(ctx, exec, deviceID).Error(0)
}

func (m *mockMaintenanceRepo) GetMaintenanceByID(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Maintenance, error) {
	args := m.Called(ctx, exec, id)
	mt, _ := args.Get(0).(*models.Maintenance)
	return mt, args.Error(1)
}

func (m *mockMaintenanceRepo) GetMaintenances(ctx context.Context, exec repositories.SQLExecutor) ([]models.Maintenance, error) {
	args := m.Called(ctx, exec)
	list, _ := args.Get(0).([]models.Maintenance)
	return list, args.Error(1)
}

func (m *mockMaintenanceRepo) SearchMaintenances(ctx context.Context, exec repositories.SQLExecutor, term string) ([]models.Maintenance, error) {
	args := m.Called(ctx, exec, term)
	list, _ := args.Get(0).([]models.Maintenance)
	return list, args.Error(1)
}

func (m *mockMaintenanceRepo) GetUpcomingMaintenances(ctx context.Context, exec repositories.SQLExecutor, until models.Date) ([]models.Maintenance, error) {
	args := m.Called(ctx, exec, until)
	list, _ := args.Get(0).([]models.Maintenance)
	return list, args.Error(1)
}

func (m *mockMaintenanceRepo) UpdateMaintenanceDetail(ctx context.Context, exec repositories.SQLExecutor, id int64, p *models.MaintenancePayload) error {
	return m.Called(ctx, exec, id, p).Error(0)
}

func (m *mockMaintenanceRepo) DeleteMaintenanceDetail(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

type mockServiceJobRepo struct{ mock.Mock }

func (m *mockServiceJobRepo) CreateServiceDetail(ctx context.Context, exec repositories.SQLExecutor, operationID int64, p *models.ServiceJobPayload) error {
	return m.Called(ctx, exec, operationID, p).Error(0)
}

func (m *mockServiceJobRepo) GetServiceByID(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.ServiceJob, error) {
	args := m.Called(ctx, exec, id)
	j, _ := args.Get(0).(*models.ServiceJob)
	return j, args.Error(1)
}

func (m *mockServiceJobRepo) GetServices(ctx context.Context, exec repositories.SQLExecutor) ([]models.ServiceJob, error) {
	args := m.Called(ctx, exec)
	j, _ := args.Get(0).([]models.ServiceJob)
	return j, args.Error(1)
}

func (m *mockServiceJobRepo) SearchServices(ctx context.Context, exec repositories.SQLExecutor, term string) ([]models.ServiceJob, error) {
	args := m.Called(ctx, exec, term)
	j, _ := args.Get(0).([]models.ServiceJob)
	return j, args.Error(1)
}

func (m *mockServiceJobRepo) UpdateServiceDetail(ctx context.Context, exec repositories.SQLExecutor, id int64, p *models.ServiceJobPayload) error {
	return m.Called(ctx, exec, id, p).Error(0)
}

func (m *mockServiceJobRepo) DeleteServiceDetail(ctx context.Context, exec repositories.SQLExecutor, id int64) error {
	return m.Called(ctx, exec, id).Error(0)
}

// callLog records the order in which mocked repository methods ran.
type callLog struct{ names []string }

func (l *callLog) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) { l.names = append(l.names, name) }
}
