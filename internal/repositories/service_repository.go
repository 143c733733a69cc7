package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
	"techdesk_backend/pkg/utils"
)

// ServiceJobRepository persists the detail rows of service operations.
type ServiceJobRepository interface {
	CreateServiceDetail(ctx context.Context, exec SQLExecutor, operationID int64, p *models.ServiceJobPayload) error
	GetServiceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.ServiceJob, error)
	GetServices(ctx context.Context, exec SQLExecutor) ([]models.ServiceJob, error)
	SearchServices(ctx context.Context, exec SQLExecutor, term string) ([]models.ServiceJob, error)
	UpdateServiceDetail(ctx context.Context, exec SQLExecutor, id int64, p *models.ServiceJobPayload) error
	DeleteServiceDetail(ctx context.Context, exec SQLExecutor, id int64) error
}

type serviceJobRepository struct{}

func NewServiceJobRepository() ServiceJobRepository {
	return &serviceJobRepository{}
}

const serviceSelect = `SELECT o.id_operacion, c.nombre || ' ' || c.apellido, s.detalle_servicio,
                              s.tecnico_encargado, s.duracion_estimada, o.fecha, o.ingreso, o.egreso, o.id_cliente
                       FROM operaciones o
                       INNER JOIN servicios s ON o.id_operacion = s.id_operacion
                       INNER JOIN clientes c ON o.id_cliente = c.id_cliente
                       WHERE o.tipo_operacion = 'SERVICIO'`

func scanService(s scanner) (*models.ServiceJob, error) {
	j := &models.ServiceJob{}
	err := s.Scan(&j.OperationID, &j.ClientName, &j.Detail, &j.Technician, &j.EstimatedDuration,
		&j.Date, &j.Income, &j.Expense, &j.ClientID)
	if err != nil {
		return nil, err
	}
	j.Code = utils.PadCode("SV", j.OperationID)
	return j, nil
}

func (r *serviceJobRepository) CreateServiceDetail(ctx context.Context, exec SQLExecutor, operationID int64, p *models.ServiceJobPayload) error {
	query := `INSERT INTO servicios (id_operacion, detalle_servicio, tecnico_encargado, duracion_estimada)
	          VALUES ($1, $2, $3, $4)`
	_, err := exec.ExecContext(ctx, query, operationID, utils.DerefString(p.Detail), p.Technician, p.EstimatedDuration)
	if err != nil {
		return wrapError(err, "creating service")
	}
	return nil
}

func (r *serviceJobRepository) GetServiceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.ServiceJob, error) {
	j, err := scanService(exec.QueryRowContext(ctx, serviceSelect+` AND o.id_operacion = $1`, id))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting service %d", id))
	}
	return j, nil
}

func (r *serviceJobRepository) GetServices(ctx context.Context, exec SQLExecutor) ([]models.ServiceJob, error) {
	return r.queryServices(ctx, exec, "listing services", serviceSelect+` ORDER BY o.fecha DESC, o.id_operacion DESC`)
}

// SearchServices matches client name, detail, technician and the SV code.
func (r *serviceJobRepository) SearchServices(ctx context.Context, exec SQLExecutor, term string) ([]models.ServiceJob, error) {
	query := serviceSelect + `
	          AND (UPPER(c.nombre || ' ' || c.apellido) LIKE UPPER($1)
	            OR UPPER(s.detalle_servicio) LIKE UPPER($1)
	            OR UPPER(COALESCE(s.tecnico_encargado, '')) LIKE UPPER($1)
	            OR 'SV' || LPAD(o.id_operacion::text, 3, '0') LIKE UPPER($1))
	          ORDER BY o.fecha DESC, o.id_operacion DESC`
	return r.queryServices(ctx, exec, "searching services", query, utils.LikePattern(term))
}

func (r *serviceJobRepository) queryServices(ctx context.Context, exec SQLExecutor, action, query string, args ...interface{}) ([]models.ServiceJob, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, action)
	}
	defer rows.Close()

	jobs := []models.ServiceJob{}
	for rows.Next() {
		j, err := scanService(rows)
		if err != nil {
			return nil, wrapError(err, action)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, action)
	}
	return jobs, nil
}

func (r *serviceJobRepository) UpdateServiceDetail(ctx context.Context, exec SQLExecutor, id int64, p *models.ServiceJobPayload) error {
	query := `UPDATE servicios
	          SET detalle_servicio = COALESCE($1, detalle_servicio),
	              tecnico_encargado = COALESCE($2, tecnico_encargado),
	              duracion_estimada = COALESCE($3, duracion_estimada)
	          WHERE id_operacion = $4`
	res, err := exec.ExecContext(ctx, query, p.Detail, p.Technician, p.EstimatedDuration, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating service %d", id))
	}
	_, err = affected(res, "updating service")
	return err
}

func (r *serviceJobRepository) DeleteServiceDetail(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM servicios WHERE id_operacion = $1`, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting service %d", id))
	}
	_, err = affected(res, "deleting service")
	return err
}
