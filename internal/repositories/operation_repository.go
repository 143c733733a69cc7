package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
)

// OperationRepository persists the parent row shared by sales, maintenance and services.
type OperationRepository interface {
	CreateOperation(ctx context.Context, exec SQLExecutor, op *models.Operation) (int64, error)
	UpdateOperation(ctx context.Context, exec SQLExecutor, id int64, opType string, patch models.OperationPatch) error
	DeleteOperation(ctx context.Context, exec SQLExecutor, id int64, opType string) error
}

type operationRepository struct{}

func NewOperationRepository() OperationRepository {
	return &operationRepository{}
}

// CreateOperation inserts op and sets op.ID.
func (r *operationRepository) CreateOperation(ctx context.Context, exec SQLExecutor, op *models.Operation) (int64, error) {
	query := `INSERT INTO operaciones (id_cliente, fecha, tipo_operacion, ingreso, egreso)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id_operacion`
	if op.Date.IsZero() {
		op.Date = models.Today()
	}
	err := exec.QueryRowContext(ctx, query, op.ClientID, op.Date, op.Type, op.Income, op.Expense).Scan(&op.ID)
	if err != nil {
		return 0, wrapError(err, "creating operation")
	}
	return op.ID, nil
}

// UpdateOperation applies the non-nil fields of patch to an operation of the given type.
func (r *operationRepository) UpdateOperation(ctx context.Context, exec SQLExecutor, id int64, opType string, patch models.OperationPatch) error {
	query := `UPDATE operaciones
	          SET fecha = COALESCE($1, fecha),
	              ingreso = COALESCE($2, ingreso),
	              egreso = COALESCE($3, egreso)
	          WHERE id_operacion = $4 AND tipo_operacion = $5`
	res, err := exec.ExecContext(ctx, query, patch.Date, patch.Income, patch.Expense, id, opType)
	if err != nil {
		return wrapError(err, fmt.Sprintf("updating operation %d", id))
	}
	_, err = affected(res, "updating operation")
	return err
}

// DeleteOperation removes the parent row. Detail rows must be deleted first.
func (r *operationRepository) DeleteOperation(ctx context.Context, exec SQLExecutor, id int64, opType string) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM operaciones WHERE id_operacion = $1 AND tipo_operacion = $2`, id, opType)
	if err != nil {
		return wrapError(err, fmt.Sprintf("deleting operation %d", id))
	}
	_, err = affected(res, "deleting operation")
	return err
}
