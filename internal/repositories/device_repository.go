package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
	"techdesk_backend/pkg/utils"
)

type DeviceRepository interface {
	CreateDevice(ctx context.Context, exec SQLExecutor, p *models.DevicePayload) (int64, error)
	GetDeviceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Device, error)
	GetDevices(ctx context.Context, exec SQLExecutor) ([]models.Device, error)
	GetDevicesByClient(ctx context.Context, exec SQLExecutor, clientID int64) ([]models.Device, error)
	SearchDevices(ctx context.Context, exec SQLExecutor, term string) ([]models.Device, error)
	UpdateDevice(ctx context.Context, exec SQLExecutor, id int64, p *models.DevicePayload) error
	DeleteDevice(ctx context.Context, exec SQLExecutor, id int64) error
}

type deviceRepository struct{}

func NewDeviceRepository() DeviceRepository {
	return &deviceRepository{}
}

const deviceSelect = `SELECT d.id_dispositivo, d.id_cliente, c.nombre || ' ' || c.apellido,
                             d.tipo_dispositivo, d.marca, d.modelo
                      FROM dispositivos d
                      INNER JOIN clientes c ON c.id_cliente = d.id_cliente`

func scanDevice(s scanner) (*models.Device, error) {
	d := &models.Device{}
	if err := s.Scan(&d.ID, &d.ClientID, &d.ClientName, &d.Type, &d.Brand, &d.Model); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deviceRepository) CreateDevice(ctx context.Context, exec SQLExecutor, p *models.DevicePayload) (int64, error) {
	query := `INSERT INTO dispositivos (id_cliente, tipo_dispositivo, marca, modelo)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id_dispositivo`
	var id int64
	if err := exec.QueryRowContext(ctx, query, p.ClientID, utils.DerefString(p.Type), p.Brand, p.Model).Scan(&id); err != nil {
		return 0, wrapError(err, "creating device")
	}
	return id, nil
}

func (r *deviceRepository) GetDeviceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Device, error) {
	d, err := scanDevice(exec.QueryRowContext(ctx, deviceSelect+` WHERE d.id_dispositivo = $1`, id))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting device %d", id))
	}
	return d, nil
}

func (r *deviceRepository) GetDevices(ctx context.Context, exec SQLExecutor) ([]models.Device, error) {
	return r.queryDevices(ctx, exec, "listing devices", deviceSelect+` ORDER BY d.id_dispositivo`)
}

func (r *deviceRepository) GetDevicesByClient(ctx context.Context, exec SQLExecutor, clientID int64) ([]models.Device, error) {
	query := deviceSelect + ` WHERE d.id_cliente = $1 ORDER BY d.tipo_dispositivo, d.marca, d.modelo`
	return r.queryDevices(ctx, exec, "listing client devices", query, clientID)
}

// SearchDevices matches type, brand, model and owner name.
func (r *deviceRepository) SearchDevices(ctx context.Context, exec SQLExecutor, term string) ([]models.Device, error) {
	query := deviceSelect + `
	          WHERE UPPER(d.tipo_dispositivo) LIKE UPPER($1)
	             OR UPPER(COALESCE(d.marca, '')) LIKE UPPER($1)
	             OR UPPER(COALESCE(d.modelo, '')) LIKE UPPER($1)
	             OR UPPER(c.nombre || ' ' || c.apellido) LIKE UPPER($1)
	          ORDER BY d.id_dispositivo`
	return r.queryDevices(ctx, exec, "searching devices", query, utils.LikePattern(term))
}

func (r *deviceRepository) queryDevices(ctx context.Context, exec SQLExecutor, action, query string, args ...interface{}) ([]models.Device, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, action)
	}
	defer rows.Close()

	devices := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, wrapError(err, action)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, action)
	}
	return devices, nil
}

func (r *deviceRepository) UpdateDevice(ctx context.Context, exec SQLExecutor, id int64, p *models.DevicePayload) error {
	query := `UPDATE dispositivos
	          SET id_cliente = COALESCE($1, id_cliente),
	              tipo_dispositivo = COALESCE($2, tipo_dispositivo),
	              marca = COALESCE($3, marca),
	              modelo = COALESCE($4, modelo)
	          WHERE id_dispositivo = $5`
	res, err := exec.ExecContext(ctx, query, p.ClientID, p.Type, p.Brand, p.Model, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating device %d", id))
	}
	_, err = affected(res, "updating device")
	return err
}

func (r *deviceRepository) DeleteDevice(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM dispositivos WHERE id_dispositivo = $1`, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting device %d", id))
	}
	_, err = affected(res, "deleting device")
	return err
}
