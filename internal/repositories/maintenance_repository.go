package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
	"techdesk_backend/pkg/utils"

	"github.com/lib/pq"
)

type MaintenanceRepository interface {
	CreateMaintenanceDetail(ctx context.Context, exec SQLExecutor, operationID int64, p *models.MaintenancePayload) error
	LinkDevice(ctx context.Context, exec SQLExecutor, operationID, deviceID int64) error
	UnlinkDevices(ctx context.Context, exec SQLExecutor, operationID int64) error
	UnlinkDeviceEverywhere(ctx context.Context, exec SQLExecutor, deviceID int64) error
	GetMaintenanceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Maintenance, error)
	GetMaintenances(ctx context.Context, exec SQLExecutor) ([]models.Maintenance, error)
	SearchMaintenances(ctx context.Context, exec SQLExecutor, term string) ([]models.Maintenance, error)
	GetUpcomingMaintenances(ctx context.Context, exec SQLExecutor, until models.Date) ([]models.Maintenance, error)
	UpdateMaintenanceDetail(ctx context.Context, exec SQLExecutor, id int64, p *models.MaintenancePayload) error
	DeleteMaintenanceDetail(ctx context.Context, exec SQLExecutor, id int64) error
}

type maintenanceRepository struct{}

func NewMaintenanceRepository() MaintenanceRepository {
	return &maintenanceRepository{}
}

const maintenanceSelect = `SELECT o.id_operacion, c.nombre || ' ' || c.apellido, o.fecha, o.ingreso, o.egreso,
                                  m.descripcion, m.frecuencia, m.prox_mantenimiento, m.tipo_mantenimiento, o.id_cliente,
                                  COALESCE(array_agg(md.id_dispositivo ORDER BY md.id_dispositivo)
                                           FILTER (WHERE md.id_dispositivo IS NOT NULL), '{}')
                           FROM operaciones o
                           INNER JOIN mantenimientos m ON o.id_operacion = m.id_operacion
                           INNER JOIN clientes c ON o.id_cliente = c.id_cliente
                           LEFT JOIN mantenimiento_dispositivos md ON md.id_operacion = m.id_operacion
                           WHERE o.tipo_operacion = 'MANTENIMIENTO'`

const maintenanceGroupBy = ` GROUP BY o.id_operacion, c.nombre, c.apellido, m.id_operacion`

func scanMaintenance(s scanner) (*models.Maintenance, error) {
	m := &models.Maintenance{}
	err := s.Scan(&m.OperationID, &m.ClientName, &m.Date, &m.Income, &m.Expense,
		&m.Description, &m.Frequency, &m.NextDate, &m.Type, &m.ClientID, pq.Array(&m.DeviceIDs))
	if err != nil {
		return nil, err
	}
	m.Code = utils.PadCode("MP", m.OperationID)
	m.ClientCode = utils.PadCode("CL", m.ClientID)
	return m, nil
}

func (r *maintenanceRepository) CreateMaintenanceDetail(ctx context.Context, exec SQLExecutor, operationID int64, p *models.MaintenancePayload) error {
	query := `INSERT INTO mantenimientos (id_operacion, descripcion, frecuencia, prox_mantenimiento, tipo_mantenimiento)
	          VALUES ($1, $2, $3, $4, $5)`
	kind := models.DefaultMaintenanceType
	if p.Type != nil && *p.Type != "" {
		kind = *p.Type
	}
	_, err := exec.ExecContext(ctx, query, operationID, utils.DerefString(p.Description), utils.DerefString(p.Frequency), p.NextDate, kind)
	if err != nil {
		return wrapError(err, "creating maintenance")
	}
	return nil
}

func (r *maintenanceRepository) LinkDevice(ctx context.Context, exec SQLExecutor, operationID, deviceID int64) error {
	query := `INSERT INTO mantenimiento_dispositivos (id_operacion, id_dispositivo) VALUES ($1, $2)
	          ON CONFLICT DO NOTHING`
	if _, err := exec.ExecContext(ctx, query, operationID, deviceID); err != nil {
		return wrapError(err, "linking device to maintenance")
	}
	return nil
}

func (r *maintenanceRepository) UnlinkDevices(ctx context.Context, exec SQLExecutor, operationID int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM mantenimiento_dispositivos WHERE id_operacion = $1`, operationID); err != nil {
		return wrapError(err, "unlinking maintenance devices")
	}
	return nil
}

// UnlinkDeviceEverywhere drops every maintenance link of a device.
func (r *maintenanceRepository) UnlinkDeviceEverywhere(ctx context.Context, exec SQLExecutor, deviceID int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM mantenimiento_dispositivos WHERE id_dispositivo = $1`, deviceID); err != nil {
		return wrapError(err, "unlinking device")
	}
	return nil
}

func (r *maintenanceRepository) GetMaintenanceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Maintenance, error) {
	query := maintenanceSelect + ` AND o.id_operacion = $1` + maintenanceGroupBy
	m, err := scanMaintenance(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting maintenance %d", id))
	}
	return m, nil
}

func (r *maintenanceRepository) GetMaintenances(ctx context.Context, exec SQLExecutor) ([]models.Maintenance, error) {
	query := maintenanceSelect + maintenanceGroupBy + ` ORDER BY o.fecha DESC, o.id_operacion DESC`
	return r.queryMaintenances(ctx, exec, "listing maintenances", query)
}

// SearchMaintenances matches client name, description and the MP/CL codes.
func (r *maintenanceRepository) SearchMaintenances(ctx context.Context, exec SQLExecutor, term string) ([]models.Maintenance, error) {
	query := maintenanceSelect + `
	          AND (UPPER(c.nombre) LIKE UPPER($1)
	            OR UPPER(c.apellido) LIKE UPPER($1)
	            OR UPPER(m.descripcion) LIKE UPPER($1)
	            OR 'MP' || LPAD(o.id_operacion::text, 3, '0') LIKE UPPER($1)
	            OR 'CL' || LPAD(c.id_cliente::text, 3, '0') LIKE UPPER($1))` +
		maintenanceGroupBy + ` ORDER BY o.fecha DESC, o.id_operacion DESC`
	return r.queryMaintenances(ctx, exec, "searching maintenances", query, utils.LikePattern(term))
}

// GetUpcomingMaintenances returns maintenance due on or before until, overdue ones included.
func (r *maintenanceRepository) GetUpcomingMaintenances(ctx context.Context, exec SQLExecutor, until models.Date) ([]models.Maintenance, error) {
	query := maintenanceSelect + `
	          AND m.prox_mantenimiento IS NOT NULL
	          AND m.prox_mantenimiento <= $1` +
		maintenanceGroupBy + ` ORDER BY m.prox_mantenimiento ASC`
	return r.queryMaintenances(ctx, exec, "listing upcoming maintenances", query, until)
}

func (r *maintenanceRepository) queryMaintenances(ctx context.Context, exec SQLExecutor, action, query string, args ...interface{}) ([]models.Maintenance, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, action)
	}
	defer rows.Close()

	list := []models.Maintenance{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, wrapError(err, action)
		}
		list = append(list, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, action)
	}
	return list, nil
}

func (r *maintenanceRepository) UpdateMaintenanceDetail(ctx context.Context, exec SQLExecutor, id int64, p *models.MaintenancePayload) error {
	query := `UPDATE mantenimientos
	          SET descripcion = COALESCE($1, descripcion),
	              frecuencia = COALESCE($2, frecuencia),
	              prox_mantenimiento = COALESCE($3, prox_mantenimiento),
	              tipo_mantenimiento = COALESCE($4, tipo_mantenimiento)
	          WHERE id_operacion = $5`
	res, err := exec.ExecContext(ctx, query, p.Description, p.Frequency, p.NextDate, p.Type, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating maintenance %d", id))
	}
	_, err = affected(res, "updating maintenance")
	return err
}

func (r *maintenanceRepository) DeleteMaintenanceDetail(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM mantenimientos WHERE id_operacion = $1`, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting maintenance %d", id))
	}
	_, err = affected(res, "deleting maintenance")
	return err
}
