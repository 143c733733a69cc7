package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"techdesk_backend/internal/models"
)

// LicenseRepository persists license detail rows and the sales linking them to operations.
type LicenseRepository interface {
	ReserveLicenseID(ctx context.Context, exec SQLExecutor, kind models.LicenseKind) (string, error)
	CreateLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error
	CreateSale(ctx context.Context, exec SQLExecutor, operationID int64, licenseID string) error
	GetLicenseByID(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) (*models.License, error)
	GetLicenses(ctx context.Context, exec SQLExecutor, kind models.LicenseKind) ([]models.License, error)
	UpdateLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error
	GetSaleOperationID(ctx context.Context, exec SQLExecutor, licenseID string) (int64, error)
	DeleteSale(ctx context.Context, exec SQLExecutor, licenseID string) error
	DeleteLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) error
}

type licenseRepository struct{}

func NewLicenseRepository() LicenseRepository {
	return &licenseRepository{}
}

// FormatLicenseID renders prefix + n zero-padded to three digits.
func FormatLicenseID(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseLicenseNumber extracts the numeric suffix of id when it carries prefix.
func ParseLicenseNumber(prefix, id string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	digits := id[len(prefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LicenseKindForID resolves the kind from the id prefix.
func LicenseKindForID(id string) (models.LicenseKind, bool) {
	for _, k := range models.LicenseKinds {
		if _, ok := ParseLicenseNumber(k.Prefix(), strings.ToUpper(strings.TrimSpace(id))); ok {
			return k, true
		}
	}
	return "", false
}

// ReserveLicenseID atomically takes the next number for the kind's prefix.
// The first reservation of a prefix continues from the highest id already stored
// in the detail table; numbers are never handed out twice.
func (r *licenseRepository) ReserveLicenseID(ctx context.Context, exec SQLExecutor, kind models.LicenseKind) (string, error) {
	prefix := kind.Prefix()
	if prefix == "" {
		return "", fmt.Errorf("%w: unknown license kind %q", ErrDatabaseError, kind)
	}
	pattern := "^" + prefix + "([0-9]+)$"

	query := `INSERT INTO secuencias_licencia (prefijo, ultimo_valor)
	          SELECT $1, COALESCE(MAX(CAST(SUBSTRING(id_licencia FROM $2) AS INTEGER)), 0) + 1
	          FROM ` + kind.Table() + `
	          WHERE id_licencia ~ $2
	          ON CONFLICT (prefijo) DO UPDATE SET ultimo_valor = secuencias_licencia.ultimo_valor + 1
	          RETURNING ultimo_valor`

	var n int
	if err := exec.QueryRowContext(ctx, query, prefix, pattern).Scan(&n); err != nil {
		return "", wrapError(err, "reserving license id")
	}
	return FormatLicenseID(prefix, n), nil
}

// kindColumns are the detail columns specific to each license kind.
var kindColumns = map[models.LicenseKind][]string{
	models.LicenseAntivirus:       {"clave_activacion", "numero_dispositivos"},
	models.LicenseOffice:          {"cuenta_correo", "contrasena_cuenta", "tipo_plan"},
	models.LicenseOperatingSystem: {"clave_activacion", "version_so", "tipo_licencia"},
}

func kindArgs(kind models.LicenseKind, p *models.LicensePayload) []interface{} {
	switch kind {
	case models.LicenseAntivirus:
		return []interface{}{p.ActivationKey, p.DeviceCount}
	case models.LicenseOffice:
		return []interface{}{p.AccountEmail, p.AccountPassword, p.PlanType}
	case models.LicenseOperatingSystem:
		return []interface{}{p.ActivationKey, p.OSVersion, p.LicenseType}
	}
	return nil
}

func kindDest(kind models.LicenseKind, l *models.License) []interface{} {
	switch kind {
	case models.LicenseAntivirus:
		return []interface{}{&l.ActivationKey, &l.DeviceCount}
	case models.LicenseOffice:
		return []interface{}{&l.AccountEmail, &l.AccountPassword, &l.PlanType}
	case models.LicenseOperatingSystem:
		return []interface{}{&l.ActivationKey, &l.OSVersion, &l.LicenseType}
	}
	return nil
}

func (r *licenseRepository) CreateLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error {
	extra, ok := kindColumns[kind]
	if !ok {
		return fmt.Errorf("%w: unknown license kind %q", ErrDatabaseError, kind)
	}
	columns := append([]string{"id_licencia", "detalle", "fecha_inicio", "fecha_fin", "fecha_alerta"}, extra...)
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	args := append([]interface{}{id, p.Detail, p.StartDate, p.EndDate, p.AlertDate}, kindArgs(kind, p)...)

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		kind.Table(), strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return wrapError(err, "creating license detail")
	}
	return nil
}

func (r *licenseRepository) CreateSale(ctx context.Context, exec SQLExecutor, operationID int64, licenseID string) error {
	_, err := exec.ExecContext(ctx, `INSERT INTO ventas (id_operacion, id_licencia) VALUES ($1, $2)`, operationID, licenseID)
	if err != nil {
		return wrapError(err, "creating sale")
	}
	return nil
}

func licenseSelect(kind models.LicenseKind) string {
	extra := make([]string, 0, len(kindColumns[kind]))
	for _, c := range kindColumns[kind] {
		extra = append(extra, "l."+c)
	}
	return `SELECT l.id_licencia, v.id_operacion, o.id_cliente, c.nombre || ' ' || c.apellido, c.correo,
	               o.fecha, o.ingreso, o.egreso, l.detalle, l.fecha_inicio, l.fecha_fin, l.fecha_alerta, ` +
		strings.Join(extra, ", ") + `
	        FROM ` + kind.Table() + ` l
	        INNER JOIN ventas v ON v.id_licencia = l.id_licencia
	        INNER JOIN operaciones o ON o.id_operacion = v.id_operacion
	        INNER JOIN clientes c ON c.id_cliente = o.id_cliente`
}

func scanLicense(s scanner, kind models.LicenseKind) (*models.License, error) {
	l := &models.License{Kind: kind}
	dest := append([]interface{}{
		&l.ID, &l.OperationID, &l.ClientID, &l.ClientName, &l.ClientEmail,
		&l.SaleDate, &l.Income, &l.Expense, &l.Detail, &l.StartDate, &l.EndDate, &l.AlertDate,
	}, kindDest(kind, l)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *licenseRepository) GetLicenseByID(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) (*models.License, error) {
	query := licenseSelect(kind) + ` WHERE l.id_licencia = $1`
	l, err := scanLicense(exec.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting license %s", id))
	}
	return l, nil
}

// GetLicenses lists the sold licenses of one kind ordered by id.
func (r *licenseRepository) GetLicenses(ctx context.Context, exec SQLExecutor, kind models.LicenseKind) ([]models.License, error) {
	rows, err := exec.QueryContext(ctx, licenseSelect(kind)+` ORDER BY l.id_licencia`)
	if err != nil {
		return nil, wrapError(err, "listing licenses")
	}
	defer rows.Close()

	licenses := []models.License{}
	for rows.Next() {
		l, err := scanLicense(rows, kind)
		if err != nil {
			return nil, wrapError(err, "scanning license")
		}
		licenses = append(licenses, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "listing licenses")
	}
	return licenses, nil
}

// UpdateLicenseDetail applies a partial update of the detail row.
func (r *licenseRepository) UpdateLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string, p *models.LicensePayload) error {
	columns := append([]string{"detalle", "fecha_inicio", "fecha_fin", "fecha_alerta"}, kindColumns[kind]...)
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = COALESCE($%d, %s)", c, i+2, c)
	}
	args := append([]interface{}{id, p.Detail, p.StartDate, p.EndDate, p.AlertDate}, kindArgs(kind, p)...)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id_licencia = $1`, kind.Table(), strings.Join(sets, ", "))
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating license %s", id))
	}
	_, err = affected(res, "updating license")
	return err
}

func (r *licenseRepository) GetSaleOperationID(ctx context.Context, exec SQLExecutor, licenseID string) (int64, error) {
	var opID int64
	err := exec.QueryRowContext(ctx, `SELECT id_operacion FROM ventas WHERE id_licencia = $1`, licenseID).Scan(&opID)
	if err != nil {
		return 0, wrapError(err, fmt.Sprintf("getting sale of license %s", licenseID))
	}
	return opID, nil
}

func (r *licenseRepository) DeleteSale(ctx context.Context, exec SQLExecutor, licenseID string) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM ventas WHERE id_licencia = $1`, licenseID)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting sale of license %s", licenseID))
	}
	_, err = affected(res, "deleting sale")
	return err
}

func (r *licenseRepository) DeleteLicenseDetail(ctx context.Context, exec SQLExecutor, kind models.LicenseKind, id string) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM `+kind.Table()+` WHERE id_licencia = $1`, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting license %s", id))
	}
	_, err = affected(res, "deleting license")
	return err
}
