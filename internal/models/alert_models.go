package models

// AlertKindMaintenance tags maintenance rows among license alert candidates.
const AlertKindMaintenance = "mantenimiento"

// AlertItem is one expiring license or maintenance and the outcome of its email.
type AlertItem struct {
	LicenseID  string `json:"idLicencia"`
	Kind       string `json:"tipo"`
	ClientName string `json:"cliente"`
	Email      string `json:"correo"`
	Detail     string `json:"-"`
	EndDate    Date   `json:"fechaFin"`
	DaysLeft   int    `json:"diasRestantes"`
	Sent       bool   `json:"enviado"`
	Error      string `json:"error,omitempty"`
}

type AlertSummary struct {
	Total  int         `json:"totalLicencias"`
	Sent   int         `json:"enviados"`
	Failed int         `json:"fallidos"`
	Days   int         `json:"diasAnticipacion"`
	Items  []AlertItem `json:"licencias"`
}

type ManualAlertResult struct {
	LicenseID string `json:"idLicencia"`
	Email     string `json:"correo"`
	Sent      bool   `json:"enviado"`
	Error     string `json:"error,omitempty"`
}
