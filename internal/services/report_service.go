package services

import (
	"bytes"
	"context"
	"fmt"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService aggregates operations into monthly figures.
type ReportService interface {
	GetMonthlyStats(ctx context.Context, year, month int) (*models.MonthlyStats, error)
	GetMonthlyProfit(ctx context.Context, year int) ([]models.MonthlyProfit, error)
	GetMonthlyIncome(ctx context.Context, year int) ([]models.MonthlyIncome, error)
	ExportYear(ctx context.Context, year int) (*bytes.Buffer, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	pool       ConnProvider
}

func NewReportService(reportRepo repositories.ReportRepository, pool ConnProvider) ReportService {
	return &reportService{reportRepo: reportRepo, pool: pool}
}

func validateYear(year int) error {
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: anio must be between 2000 and 2100", ErrValidation)
	}
	return nil
}

func (s *reportService) GetMonthlyStats(ctx context.Context, year, month int) (*models.MonthlyStats, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: mes must be between 1 and 12", ErrValidation)
	}

	var types []models.OperationTypeStats
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		types, err = s.reportRepo.GetMonthTotalsByType(ctx, exec, year, month)
		return err
	})
	if err != nil {
		return nil, err
	}

	stats := &models.MonthlyStats{Year: year, Month: month, Types: types}
	for _, t := range types {
		stats.TotalCount += t.Count
		stats.TotalIncome = stats.TotalIncome.Add(t.Income)
		stats.TotalExpense = stats.TotalExpense.Add(t.Expense)
	}
	stats.Profit = stats.TotalIncome.Sub(stats.TotalExpense)
	return stats, nil
}

func (s *reportService) yearTotals(ctx context.Context, year int) ([]repositories.MonthTypeTotal, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	var totals []repositories.MonthTypeTotal
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		totals, err = s.reportRepo.GetYearTotalsByMonthAndType(ctx, exec, year)
		return err
	})
	return totals, err
}

// buildProfit folds the per-type totals into twelve months.
func buildProfit(totals []repositories.MonthTypeTotal) []models.MonthlyProfit {
	months := make([]models.MonthlyProfit, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, t := range totals {
		if t.Month < 1 || t.Month > 12 {
			continue
		}
		m := &months[t.Month-1]
		m.Income = m.Income.Add(t.Income)
		m.Expense = m.Expense.Add(t.Expense)
	}
	for i := range months {
		months[i].Profit = months[i].Income.Sub(months[i].Expense)
	}
	return months
}

func buildIncome(totals []repositories.MonthTypeTotal) []models.MonthlyIncome {
	months := make([]models.MonthlyIncome, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, t := range totals {
		if t.Month < 1 || t.Month > 12 {
			continue
		}
		m := &months[t.Month-1]
		switch t.Type {
		case models.OperationSale:
			m.Sales = m.Sales.Add(t.Income)
		case models.OperationMaintenance:
			m.Maintenance = m.Maintenance.Add(t.Income)
		case models.OperationService:
			m.Services = m.Services.Add(t.Income)
		}
		m.Total = m.Total.Add(t.Income)
	}
	return months
}

func (s *reportService) GetMonthlyProfit(ctx context.Context, year int) ([]models.MonthlyProfit, error) {
	totals, err := s.yearTotals(ctx, year)
	if err != nil {
		return nil, err
	}
	return buildProfit(totals), nil
}

func (s *reportService) GetMonthlyIncome(ctx context.Context, year int) ([]models.MonthlyIncome, error) {
	totals, err := s.yearTotals(ctx, year)
	if err != nil {
		return nil, err
	}
	return buildIncome(totals), nil
}

var monthNames = [12]string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// ExportYear renders the profit and income series of one year as an XLSX workbook.
func (s *reportService) ExportYear(ctx context.Context, year int) (*bytes.Buffer, error) {
	totals, err := s.yearTotals(ctx, year)
	if err != nil {
		return nil, err
	}
	profit, income := buildProfit(totals), buildIncome(totals)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	profitSheet := "Ganancia"
	if err := f.SetSheetName("Sheet1", profitSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	profitRows := make([][]interface{}, 0, len(profit))
	for _, m := range profit {
		profitRows = append(profitRows, []interface{}{monthNames[m.Month-1],
			m.Income.InexactFloat64(), m.Expense.InexactFloat64(), m.Profit.InexactFloat64()})
	}
	if err := writeSheet(f, profitSheet, headerStyle, []string{"Mes", "Ingreso", "Egreso", "Ganancia"}, profitRows); err != nil {
		return nil, err
	}

	incomeSheet := "Ingresos"
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	incomeRows := make([][]interface{}, 0, len(income))
	for _, m := range income {
		incomeRows = append(incomeRows, []interface{}{monthNames[m.Month-1], m.Sales.InexactFloat64(),
			m.Maintenance.InexactFloat64(), m.Services.InexactFloat64(), m.Total.InexactFloat64()})
	}
	incomeRows = append(incomeRows, []interface{}{"Total", nil, nil, nil, sumIncome(income).InexactFloat64()})
	if err := writeSheet(f, incomeSheet, headerStyle,
		[]string{"Mes", "Ventas", "Mantenimientos", "Servicios", "Total"}, incomeRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}) error {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 15)
	}
	return nil
}

func sumIncome(months []models.MonthlyIncome) decimal.Decimal {
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Total)
	}
	return total
}
