package repositories

import (
	"context"
	"fmt"
	"strings"

	"techdesk_backend/internal/models"
)

// AlertRepository finds licenses and maintenance whose end date is near.
type AlertRepository interface {
	GetExpiringItems(ctx context.Context, exec SQLExecutor, from, to models.Date) ([]models.AlertItem, error)
	GetLicenseAlertItem(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) (*models.AlertItem, error)
}

type alertRepository struct{}

func NewAlertRepository() AlertRepository {
	return &alertRepository{}
}

func licenseAlertSelect(kind models.LicenseKind) string {
	return fmt.Sprintf(`SELECT l.id_licencia, '%s', c.nombre || ' ' || c.apellido, c.correo,
	                           COALESCE(l.detalle, ''), l.fecha_fin
	                    FROM %s l
	                    INNER JOIN ventas v ON v.id_licencia = l.id_licencia
	                    INNER JOIN operaciones o ON o.id_operacion = v.id_operacion
	                    INNER JOIN clientes c ON c.id_cliente = o.id_cliente`, kind, kind.Table())
}

func scanAlertItem(s scanner) (*models.AlertItem, error) {
	item := &models.AlertItem{}
	if err := s.Scan(&item.LicenseID, &item.Kind, &item.ClientName, &item.Email, &item.Detail, &item.EndDate); err != nil {
		return nil, err
	}
	return item, nil
}

// GetExpiringItems unions the three license tables (fecha_fin) and maintenance
// (prox_mantenimiento) for dates in [from, to].
func (r *alertRepository) GetExpiringItems(ctx context.Context, exec SQLExecutor, from, to models.Date) ([]models.AlertItem, error) {
	parts := make([]string, 0, len(models.LicenseKinds)+1)
	for _, k := range models.LicenseKinds {
		parts = append(parts, licenseAlertSelect(k)+` WHERE l.fecha_fin BETWEEN $1 AND $2`)
	}
	parts = append(parts, `SELECT 'MP' || LPAD(o.id_operacion::text, 3, '0'), '`+models.AlertKindMaintenance+`',
	                              c.nombre || ' ' || c.apellido, c.correo, m.descripcion, m.prox_mantenimiento
	                       FROM mantenimientos m
	                       INNER JOIN operaciones o ON o.id_operacion = m.id_operacion
	                       INNER JOIN clientes c ON c.id_cliente = o.id_cliente
	                       WHERE m.prox_mantenimiento BETWEEN $1 AND $2`)
	query := strings.Join(parts, "\nUNION ALL\n") + "\nORDER BY 6, 1"

	rows, err := exec.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, wrapError(err, "scanning expiring licenses")
	}
	defer rows.Close()

	items := []models.AlertItem{}
	for rows.Next() {
		item, err := scanAlertItem(rows)
		if err != nil {
			return nil, wrapError(err, "scanning expiring licenses")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "scanning expiring licenses")
	}
	return items, nil
}

func (r *alertRepository) GetLicenseAlertItem(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) (*models.AlertItem, error) {
	item, err := scanAlertItem(exec.QueryRowContext(ctx, licenseAlertSelect(kind)+` WHERE l.id_licencia = $1`, id))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting license %s", id))
	}
	return item, nil
}
