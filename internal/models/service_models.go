package models

import "github.com/shopspring/decimal"

// ServiceJob is a one-off technical service joined with its operation and client.
type ServiceJob struct {
	OperationID       int64           `json:"id_operacion"`
	Code              string          `json:"id_servicio"`
	ClientName        string          `json:"cliente"`
	Detail            string          `json:"detalle"`
	Technician        *string         `json:"tecnico_encargado"`
	EstimatedDuration *string         `json:"duracion_estimada"`
	Date              Date            `json:"fecha"`
	Income            decimal.Decimal `json:"ingreso"`
	Expense           decimal.Decimal `json:"egreso"`
	ClientID          int64           `json:"id_cliente"`
}

type ServiceJobPayload struct {
	ClientID          *int64           `json:"id_cliente"`
	Detail            *string          `json:"detalle"`
	Technician        *string          `json:"tecnico_encargado"`
	EstimatedDuration *string          `json:"duracion_estimada"`
	Date              *Date            `json:"fecha"`
	Income            *decimal.Decimal `json:"ingreso"`
	Expense           *decimal.Decimal `json:"egreso"`
}

func (p ServiceJobPayload) OperationPatch() OperationPatch {
	return OperationPatch{Date: p.Date, Income: p.Income, Expense: p.Expense}
}
