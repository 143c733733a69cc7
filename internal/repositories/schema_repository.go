package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"techdesk_backend/internal/models"

	"github.com/lib/pq"
)

// SchemaRepository introspects the public schema and reads raw table rows.
type SchemaRepository interface {
	ListTables(ctx context.Context, exec SQLExecutor) ([]string, error)
	TableExists(ctx context.Context, exec SQLExecutor, table string) (bool, error)
	GetColumns(ctx context.Context, exec SQLExecutor, table string) ([]models.TableColumn, error)
	SelectRows(ctx context.Context, exec SQLExecutor, table string, columns []string, limit int) ([]string, []map[string]any, error)
	CurrentTime(ctx context.Context, exec SQLExecutor) (time.Time, error)
}

type schemaRepository struct{}

func NewSchemaRepository() SchemaRepository {
	return &schemaRepository{}
}

func (r *schemaRepository) CurrentTime(ctx context.Context, exec SQLExecutor) (time.Time, error) {
	var now time.Time
	if err := exec.QueryRowContext(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, wrapError(err, "reading database time")
	}
	return now, nil
}

func (r *schemaRepository) ListTables(ctx context.Context, exec SQLExecutor) ([]string, error) {
	query := `SELECT table_name FROM information_schema.tables
	          WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
	          ORDER BY table_name`
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError(err, "listing tables")
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapError(err, "listing tables")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "listing tables")
	}
	return tables, nil
}

func (r *schemaRepository) TableExists(ctx context.Context, exec SQLExecutor, table string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM information_schema.tables
	          WHERE table_schema = 'public' AND table_type = 'BASE TABLE' AND table_name = $1)`
	var exists bool
	if err := exec.QueryRowContext(ctx, query, strings.ToLower(table)).Scan(&exists); err != nil {
		return false, wrapError(err, "checking table")
	}
	return exists, nil
}

func (r *schemaRepository) GetColumns(ctx context.Context, exec SQLExecutor, table string) ([]models.TableColumn, error) {
	query := `SELECT column_name, data_type, is_nullable, column_default
	          FROM information_schema.columns
	          WHERE table_schema = 'public' AND table_name = $1
	          ORDER BY ordinal_position`
	rows, err := exec.QueryContext(ctx, query, strings.ToLower(table))
	if err != nil {
		return nil, wrapError(err, "describing table")
	}
	defer rows.Close()

	columns := []models.TableColumn{}
	for rows.Next() {
		var c models.TableColumn
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Default); err != nil {
			return nil, wrapError(err, "describing table")
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "describing table")
	}
	if len(columns) == 0 {
		return nil, ErrNotFound
	}
	return columns, nil
}

// SelectRows reads rows of table as column->value maps ordered by the first column.
// A nil columns slice selects every column; limit <= 0 means no limit.
// Callers must check the table name against the schema first.
func (r *schemaRepository) SelectRows(ctx context.Context, exec SQLExecutor, table string, columns []string, limit int) ([]string, []map[string]any, error) {
	selectList := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = pq.QuoteIdentifier(strings.ToLower(c))
		}
		selectList = strings.Join(quoted, ", ")
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY 1`, selectList, pq.QuoteIdentifier(strings.ToLower(table)))
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, wrapError(err, "reading table rows")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, nil, wrapError(err, "reading table columns")
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, wrapError(err, "reading table rows")
		}
		row := make(map[string]any, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError(err, "reading table rows")
	}
	return names, out, nil
}
