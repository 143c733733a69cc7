package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
)

const (
	DefaultTableRowLimit = 100
	MaxTableRowLimit     = 1000
)

type SchemaService interface {
	DatabaseTime(ctx context.Context) (time.Time, error)
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]models.TableColumn, error)
	GetTableData(ctx context.Context, table string, limit int) (*models.TableData, error)
}

type schemaService struct {
	schemaRepo repositories.SchemaRepository
	pool       ConnProvider
}

func NewSchemaService(schemaRepo repositories.SchemaRepository, pool ConnProvider) SchemaService {
	return &schemaService{schemaRepo: schemaRepo, pool: pool}
}

// Tables whose rows are never served by GetTableData.
var hiddenTables = map[string]bool{
	"usuarios":          true,
	"schema_migrations": true,
}

func isSecretColumn(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "contrasena") || strings.Contains(name, "password")
}

// withoutSecrets drops credential columns from a row read.
func withoutSecrets(columns []string, rows []map[string]any) ([]string, []map[string]any) {
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if isSecretColumn(c) {
			for _, row := range rows {
				delete(row, c)
			}
			continue
		}
		kept = append(kept, c)
	}
	return kept, rows
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTableRowLimit
	}
	if limit > MaxTableRowLimit {
		return MaxTableRowLimit
	}
	return limit
}

// DatabaseTime reports the server clock for the health check behind GET /.
func (s *schemaService) DatabaseTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		now, err = s.schemaRepo.CurrentTime(ctx, exec)
		return err
	})
	return now, err
}

func (s *schemaService) ListTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		tables, err = s.schemaRepo.ListTables(ctx, exec)
		return err
	})
	return tables, err
}

func (s *schemaService) DescribeTable(ctx context.Context, table string) ([]models.TableColumn, error) {
	var columns []models.TableColumn
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		columns, err = s.schemaRepo.GetColumns(ctx, exec, strings.TrimSpace(table))
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTableNotFound
	}
	return columns, err
}

// GetTableData only reads tables that exist in the public schema; the name is
// never interpolated before that check. Hidden tables answer ErrTableNotFound
// and credential columns are left out.
func (s *schemaService) GetTableData(ctx context.Context, table string, limit int) (*models.TableData, error) {
	name := strings.ToLower(strings.TrimSpace(table))
	limit = clampLimit(limit)

	if hiddenTables[name] {
		return nil, ErrTableNotFound
	}

	data := &models.TableData{Table: name, Limit: limit}
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		exists, err := s.schemaRepo.TableExists(ctx, exec, name)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTableNotFound
		}
		columns, rows, err := s.schemaRepo.SelectRows(ctx, exec, name, nil, limit)
		if err != nil {
			return err
		}
		data.Columns, data.Rows = withoutSecrets(columns, rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
