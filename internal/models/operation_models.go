package models

import "github.com/shopspring/decimal"

// Operation types.
const (
	OperationSale        = "VENTA"
	OperationMaintenance = "MANTENIMIENTO"
	OperationService     = "SERVICIO"
)

// Operation is the billable parent row of every sale, maintenance and service.
type Operation struct {
	ID       int64           `json:"id_operacion"`
	ClientID int64           `json:"id_cliente"`
	Date     Date            `json:"fecha"`
	Type     string          `json:"tipo_operacion"`
	Income   decimal.Decimal `json:"ingreso"`
	Expense  decimal.Decimal `json:"egreso"`
}

// OperationPatch carries the optional operation columns of an update.
type OperationPatch struct {
	Date    *Date
	Income  *decimal.Decimal
	Expense *decimal.Decimal
}

func (p OperationPatch) Empty() bool {
	return p.Date == nil && p.Income == nil && p.Expense == nil
}
