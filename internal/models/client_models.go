package models

// Client is a customer owning devices and operations.
type Client struct {
	ID        int64   `json:"id_cliente"`
	Code      string  `json:"cod_cliente,omitempty"`
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Phone     *string `json:"celular"`
	Address   *string `json:"direccion"`
	Email     string  `json:"correo"`
}

// ClientOption is the short client row used by pickers.
type ClientOption struct {
	ID        int64  `json:"id_cliente"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

// ClientPayload is the request body for creating or partially updating a client.
// Nil fields are left unchanged on update.
type ClientPayload struct {
	FirstName *string `json:"nombre"`
	LastName  *string `json:"apellido"`
	Phone     *string `json:"celular"`
	Address   *string `json:"direccion"`
	Email     *string `json:"correo"`
}
