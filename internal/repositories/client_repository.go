package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
	"techdesk_backend/pkg/utils"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(ctx context.Context, exec SQLExecutor, p *models.ClientPayload) (int64, error)
	GetClientByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Client, error)
	ClientExists(ctx context.Context, exec SQLExecutor, id int64) (bool, error)
	GetClients(ctx context.Context, exec SQLExecutor) ([]models.Client, error)
	SearchClients(ctx context.Context, exec SQLExecutor, term string) ([]models.Client, error)
	UpdateClient(ctx context.Context, exec SQLExecutor, id int64, p *models.ClientPayload) error
	DeleteClient(ctx context.Context, exec SQLExecutor, id int64) error
}

type clientRepository struct{}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository() ClientRepository {
	return &clientRepository{}
}

const clientColumns = `id_cliente, nombre, apellido, celular, direccion, correo`

func scanClient(s scanner) (*models.Client, error) {
	c := &models.Client{}
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.Email); err != nil {
		return nil, err
	}
	c.Code = utils.PadCode("CL", c.ID)
	return c, nil
}

// CreateClient inserts a new client and returns its generated id.
func (r *clientRepository) CreateClient(ctx context.Context, exec SQLExecutor, p *models.ClientPayload) (int64, error) {
	query := `INSERT INTO clientes (nombre, apellido, celular, direccion, correo)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id_cliente`

	var id int64
	err := exec.QueryRowContext(ctx, query,
		utils.DerefString(p.FirstName), utils.DerefString(p.LastName), p.Phone, p.Address, utils.DerefString(p.Email),
	).Scan(&id)
	if err != nil {
		return 0, wrapError(err, "creating client")
	}
	return id, nil
}

// GetClientByID retrieves a client by its id.
func (r *clientRepository) GetClientByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes WHERE id_cliente = $1`
	c, err := scanClient(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("getting client by ID %d", id))
	}
	return c, nil
}

func (r *clientRepository) ClientExists(ctx context.Context, exec SQLExecutor, id int64) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clientes WHERE id_cliente = $1)`, id).Scan(&exists)
	if err != nil {
		return false, wrapError(err, "checking client")
	}
	return exists, nil
}

// GetClients lists every client ordered by name.
func (r *clientRepository) GetClients(ctx context.Context, exec SQLExecutor) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes ORDER BY nombre, apellido`
	return r.queryClients(ctx, exec, "listing clients", query)
}

// SearchClients matches the term against name, surname, email, phone and the CL code.
func (r *clientRepository) SearchClients(ctx context.Context, exec SQLExecutor, term string) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes
	          WHERE UPPER(nombre || ' ' || apellido) LIKE UPPER($1)
	             OR UPPER(correo) LIKE UPPER($1)
	             OR COALESCE(celular, '') LIKE $1
	             OR 'CL' || LPAD(id_cliente::text, 3, '0') LIKE UPPER($1)
	          ORDER BY nombre, apellido`
	return r.queryClients(ctx, exec, "searching clients", query, utils.LikePattern(term))
}

func (r *clientRepository) queryClients(ctx context.Context, exec SQLExecutor, action, query string, args ...interface{}) ([]models.Client, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, action)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrapError(err, action)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, action)
	}
	return clients, nil
}

// UpdateClient applies a partial update; nil fields keep the stored value.
func (r *clientRepository) UpdateClient(ctx context.Context, exec SQLExecutor, id int64, p *models.ClientPayload) error {
	query := `UPDATE clientes
	          SET nombre = COALESCE($1, nombre),
	              apellido = COALESCE($2, apellido),
	              celular = COALESCE($3, celular),
	              direccion = COALESCE($4, direccion),
	              correo = COALESCE($5, correo)
	          WHERE id_cliente = $6`
	res, err := exec.ExecContext(ctx, query, p.FirstName, p.LastName, p.Phone, p.Address, p.Email, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating client %d", id))
	}
	_, err = affected(res, "updating client")
	return err
}

// DeleteClient removes a client. Referenced clients fail with ErrForeignKey.
func (r *clientRepository) DeleteClient(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM clientes WHERE id_cliente = $1`, id)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting client %d", id))
	}
	_, err = affected(res, "deleting client")
	return err
}
