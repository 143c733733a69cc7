package services

import (
	"context"
	"errors"
	"testing"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) GetMonthTotalsByType(ctx context.Context, exec repositories.SQLExecutor, year, month int) ([]models.OperationTypeStats, error) {
	args := m.Called(ctx, exec, year, month)
	s, _ := args.Get(0).([]models.OperationTypeStats)
	return s, args.Error(1)
}

func (m *mockReportRepo) GetYearTotalsByMonthAndType(ctx context.Context, exec repositories.SQLExecutor, year int) ([]repositories.MonthTypeTotal, error) {
	args := m.Called(ctx, exec, year)
	t, _ := args.Get(0).([]repositories.MonthTypeTotal)
	return t, args.Error(1)
}

func sampleTotals() []repositories.MonthTypeTotal {
	return []repositories.MonthTypeTotal{
		{Month: 1, Type: models.OperationSale, Count: 2, Income: decimal.NewFromInt(100), Expense: decimal.NewFromInt(40)},
		{Month: 1, Type: models.OperationService, Count: 1, Income: decimal.NewFromInt(50), Expense: decimal.Zero},
		{Month: 3, Type: models.OperationMaintenance, Count: 1, Income: decimal.NewFromInt(200), Expense: decimal.NewFromInt(20)},
	}
}

func TestBuildProfitFillsEveryMonth(t *testing.T) {
	months := buildProfit(sampleTotals())
	require.Len(t, months, 12)
	assert.Equal(t, 1, months[0].Month)
	assert.True(t, months[0].Profit.Equal(decimal.NewFromInt(110)))
	assert.True(t, months[1].Profit.IsZero())
	assert.True(t, months[2].Profit.Equal(decimal.NewFromInt(180)))
}

func TestBuildIncomeSplitsByType(t *testing.T) {
	months := buildIncome(sampleTotals())
	require.Len(t, months, 12)
	assert.True(t, months[0].Sales.Equal(decimal.NewFromInt(100)))
	assert.True(t, months[0].Services.Equal(decimal.NewFromInt(50)))
	assert.True(t, months[0].Total.Equal(decimal.NewFromInt(150)))
	assert.True(t, months[2].Maintenance.Equal(decimal.NewFromInt(200)))
	assert.True(t, sumIncome(months).Equal(decimal.NewFromInt(350)))
}

func TestReportYearValidation(t *testing.T) {
	pool, _ := newTestPool(t)
	repo := &mockReportRepo{}
	svc := NewReportService(repo, pool)

	_, err := svc.GetMonthlyProfit(context.Background(), 1999)
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.GetMonthlyStats(context.Background(), 2026, 13)
	assert.True(t, errors.Is(err, ErrValidation))
	repo.AssertNotCalled(t, "GetYearTotalsByMonthAndType", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportYearWorkbook(t *testing.T) {
	pool, _ := newTestPool(t)
	repo := &mockReportRepo{}
	svc := NewReportService(repo, pool)
	repo.On("GetYearTotalsByMonthAndType", mock.Anything, mock.Anything, 2026).Return(sampleTotals(), nil)

	buf, err := svc.ExportYear(context.Background(), 2026)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ganancia", "Ingresos"}, f.GetSheetList())
	header, err := f.GetCellValue("Ganancia", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Ganancia", header)
	month, err := f.GetCellValue("Ganancia", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Febrero", month)
	total, err := f.GetCellValue("Ingresos", "A14")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}
