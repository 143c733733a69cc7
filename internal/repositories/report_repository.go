package repositories

import (
	"context"

	"techdesk_backend/internal/models"

	"github.com/shopspring/decimal"
)

// MonthTypeTotal is the income and expense of one operation type in one month.
type MonthTypeTotal struct {
	Month   int
	Type    string
	Count   int64
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// ReportRepository runs the aggregation queries behind the report endpoints.
type ReportRepository interface {
	GetMonthTotalsByType(ctx context.Context, exec SQLExecutor, year, month int) ([]models.OperationTypeStats, error)
	GetYearTotalsByMonthAndType(ctx context.Context, exec SQLExecutor, year int) ([]MonthTypeTotal, error)
}

type reportRepository struct{}

func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) GetMonthTotalsByType(ctx context.Context, exec SQLExecutor, year, month int) ([]models.OperationTypeStats, error) {
	query := `SELECT tipo_operacion, COUNT(*), COALESCE(SUM(ingreso), 0), COALESCE(SUM(egreso), 0)
	          FROM operaciones
	          WHERE EXTRACT(YEAR FROM fecha) = $1 AND EXTRACT(MONTH FROM fecha) = $2
	          GROUP BY tipo_operacion
	          ORDER BY tipo_operacion`
	rows, err := exec.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, wrapError(err, "monthly statistics")
	}
	defer rows.Close()

	stats := []models.OperationTypeStats{}
	for rows.Next() {
		var s models.OperationTypeStats
		if err := rows.Scan(&s.Type, &s.Count, &s.Income, &s.Expense); err != nil {
			return nil, wrapError(err, "monthly statistics")
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "monthly statistics")
	}
	return stats, nil
}

// GetYearTotalsByMonthAndType returns only the (month, type) pairs that have operations.
func (r *reportRepository) GetYearTotalsByMonthAndType(ctx context.Context, exec SQLExecutor, year int) ([]MonthTypeTotal, error) {
	query := `SELECT EXTRACT(MONTH FROM fecha)::int, tipo_operacion, COUNT(*),
	                 COALESCE(SUM(ingreso), 0), COALESCE(SUM(egreso), 0)
	          FROM operaciones
	          WHERE EXTRACT(YEAR FROM fecha) = $1
	          GROUP BY 1, 2
	          ORDER BY 1, 2`
	rows, err := exec.QueryContext(ctx, query, year)
	if err != nil {
		return nil, wrapError(err, "yearly totals")
	}
	defer rows.Close()

	totals := []MonthTypeTotal{}
	for rows.Next() {
		var t MonthTypeTotal
		if err := rows.Scan(&t.Month, &t.Type, &t.Count, &t.Income, &t.Expense); err != nil {
			return nil, wrapError(err, "yearly totals")
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "yearly totals")
	}
	return totals, nil
}
