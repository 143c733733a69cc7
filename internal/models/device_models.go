package models

type Device struct {
	ID         int64   `json:"id_dispositivo"`
	ClientID   int64   `json:"id_cliente"`
	ClientName string  `json:"nombre_cliente,omitempty"`
	Type       string  `json:"tipo_dispositivo"`
	Brand      *string `json:"marca"`
	Model      *string `json:"modelo"`
}

type DevicePayload struct {
	ClientID *int64  `json:"id_cliente"`
	Type     *string `json:"tipo_dispositivo"`
	Brand    *string `json:"marca"`
	Model    *string `json:"modelo"`
}
