package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LicenseKind selects one of the three license detail tables.
type LicenseKind string

const (
	LicenseAntivirus       LicenseKind = "antivirus"
	LicenseOffice          LicenseKind = "ofimatica"
	LicenseOperatingSystem LicenseKind = "sistema_operativo"
)

var LicenseKinds = []LicenseKind{LicenseAntivirus, LicenseOffice, LicenseOperatingSystem}

// ParseLicenseKind accepts both "sistema_operativo" and "sistema-operativo".
func ParseLicenseKind(s string) (LicenseKind, bool) {
	k := LicenseKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch k {
	case LicenseAntivirus, LicenseOffice, LicenseOperatingSystem:
		return k, true
	}
	return "", false
}

// Prefix returns the license id prefix of the kind.
func (k LicenseKind) Prefix() string {
	switch k {
	case LicenseAntivirus:
		return "A-"
	case LicenseOffice:
		return "M-"
	case LicenseOperatingSystem:
		return "W-"
	}
	return ""
}

// Table returns the detail table name of the kind.
func (k LicenseKind) Table() string {
	if k == "" {
		return ""
	}
	return "licencias_" + string(k)
}

// License is a sold license joined with its sale, operation and client.
// Kind-specific fields are nil for the other kinds.
type License struct {
	ID          string          `json:"idLicencia"`
	Kind        LicenseKind     `json:"tipo"`
	OperationID int64           `json:"idOperacion"`
	ClientID    int64           `json:"idCliente"`
	ClientName  string          `json:"cliente"`
	ClientEmail string          `json:"correo"`
	SaleDate    Date            `json:"fechaVenta"`
	Income      decimal.Decimal `json:"ingreso"`
	Expense     decimal.Decimal `json:"egreso"`
	Detail      *string         `json:"detalle"`
	StartDate   *Date           `json:"fechaInicio"`
	EndDate     *Date           `json:"fechaFin"`
	AlertDate   *Date           `json:"fechaAlerta"`

	ActivationKey   *string `json:"claveActivacion,omitempty"`
	DeviceCount     *int64  `json:"numeroDispositivos,omitempty"`
	AccountEmail    *string `json:"cuentaCorreo,omitempty"`
	AccountPassword *string `json:"contrasenaCuenta,omitempty"`
	PlanType        *string `json:"tipoPlan,omitempty"`
	OSVersion       *string `json:"versionSO,omitempty"`
	LicenseType     *string `json:"tipoLicencia,omitempty"`
}

// LicensePayload is the body of license registration and partial update.
type LicensePayload struct {
	ClientID  *int64           `json:"idCliente"`
	SaleDate  *Date            `json:"fechaVenta"`
	Income    *decimal.Decimal `json:"ingreso"`
	Expense   *decimal.Decimal `json:"egreso"`
	Detail    *string          `json:"detalle"`
	StartDate *Date            `json:"fechaInicio"`
	EndDate   *Date            `json:"fechaFin"`
	AlertDate *Date            `json:"fechaAlerta"`

	ActivationKey   *string `json:"claveActivacion"`
	DeviceCount     *int64  `json:"numeroDispositivos"`
	AccountEmail    *string `json:"cuentaCorreo"`
	AccountPassword *string `json:"contrasenaCuenta"`
	PlanType        *string `json:"tipoPlan"`
	OSVersion       *string `json:"versionSO"`
	LicenseType     *string `json:"tipoLicencia"`
}

func (p LicensePayload) OperationPatch() OperationPatch {
	return OperationPatch{Date: p.SaleDate, Income: p.Income, Expense: p.Expense}
}
