package models

import "github.com/shopspring/decimal"

// OperationTypeStats aggregates one operation type within a month.
type OperationTypeStats struct {
	Type    string          `json:"tipo_operacion"`
	Count   int64           `json:"cantidad"`
	Income  decimal.Decimal `json:"total_ingreso"`
	Expense decimal.Decimal `json:"total_egreso"`
}

// MonthlyStats is the response of the month statistics report.
type MonthlyStats struct {
	Year         int                  `json:"anio"`
	Month        int                  `json:"mes"`
	Types        []OperationTypeStats `json:"operaciones"`
	TotalCount   int64                `json:"total_operaciones"`
	TotalIncome  decimal.Decimal      `json:"total_ingreso"`
	TotalExpense decimal.Decimal      `json:"total_egreso"`
	Profit       decimal.Decimal      `json:"ganancia"`
}

// MonthlyProfit is one month of the profit series. Months without data are zero.
type MonthlyProfit struct {
	Month   int             `json:"mes"`
	Income  decimal.Decimal `json:"ingreso"`
	Expense decimal.Decimal `json:"egreso"`
	Profit  decimal.Decimal `json:"ganancia"`
}

// MonthlyIncome is one month of income split by operation type.
type MonthlyIncome struct {
	Month       int             `json:"mes"`
	Sales       decimal.Decimal `json:"ventas"`
	Maintenance decimal.Decimal `json:"mantenimientos"`
	Services    decimal.Decimal `json:"servicios"`
	Total       decimal.Decimal `json:"total"`
}
