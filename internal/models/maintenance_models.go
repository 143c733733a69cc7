package models

import "github.com/shopspring/decimal"

const DefaultMaintenanceType = "PREVENTIVO"

// Maintenance is a maintenance contract joined with its operation and client.
type Maintenance struct {
	OperationID int64           `json:"id_operacion"`
	Code        string          `json:"mant_prev"`
	ClientCode  string          `json:"cod_cliente"`
	ClientName  string          `json:"nombre_cliente"`
	Date        Date            `json:"fecha"`
	Income      decimal.Decimal `json:"ingreso"`
	Expense     decimal.Decimal `json:"egreso"`
	Description string          `json:"equipos"`
	Frequency   string          `json:"frecuencia"`
	NextDate    *Date           `json:"prox_mantenimiento"`
	Type        string          `json:"tipo_mantenimiento"`
	ClientID    int64           `json:"id_cliente"`
	DeviceIDs   []int64         `json:"dispositivos"`
}

type MaintenancePayload struct {
	ClientID    *int64           `json:"id_cliente"`
	Date        *Date            `json:"fecha"`
	Income      *decimal.Decimal `json:"ingreso"`
	Expense     *decimal.Decimal `json:"egreso"`
	Description *string          `json:"descripcion"`
	Frequency   *string          `json:"frecuencia"`
	NextDate    *Date            `json:"prox_mantenimiento"`
	Type        *string          `json:"tipo_mantenimiento"`
	DeviceID    *int64           `json:"id_dispositivo"`
}

func (p MaintenancePayload) OperationPatch() OperationPatch {
	return OperationPatch{Date: p.Date, Income: p.Income, Expense: p.Expense}
}
