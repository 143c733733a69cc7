package mirror

const (
	TableClients         = "CLIENTES"
	TableOperations      = "OPERACIONES"
	TableSales           = "VENTAS"
	TableAntivirus       = "LICENCIAS_ANTIVIRUS"
	TableOffice          = "LICENCIAS_OFIMATICA"
	TableOperatingSystem = "LICENCIAS_SISTEMA_OPERATIVO"
	TableDevices         = "DISPOSITIVOS"
	TableMaintenance     = "MANTENIMIENTOS"
	TableServices        = "SERVICIOS"
)

// Field lists follow the column order of each table.
var (
	ClientFields    = []string{"ID_CLIENTE", "NOMBRE", "APELLIDO", "CELULAR", "DIRECCION", "CORREO"}
	OperationFields = []string{"ID_OPERACION", "ID_CLIENTE", "FECHA", "TIPO_OPERACION", "INGRESO", "EGRESO"}
	SaleFields      = []string{"ID_OPERACION", "ID_LICENCIA"}

	AntivirusFields = []string{"ID_LICENCIA", "DETALLE", "FECHA_INICIO", "FECHA_FIN", "FECHA_ALERTA",
		"CLAVE_ACTIVACION", "NUMERO_DISPOSITIVOS"}
	OfficeFields = []string{"ID_LICENCIA", "DETALLE", "FECHA_INICIO", "FECHA_FIN", "FECHA_ALERTA",
		"CUENTA_CORREO", "CONTRASENA_CUENTA", "TIPO_PLAN"}
	OperatingSystemFields = []string{"ID_LICENCIA", "DETALLE", "FECHA_INICIO", "FECHA_FIN", "FECHA_ALERTA",
		"CLAVE_ACTIVACION", "VERSION_SO", "TIPO_LICENCIA"}

	DeviceFields      = []string{"ID_DISPOSITIVO", "ID_CLIENTE", "TIPO_DISPOSITIVO", "MARCA", "MODELO"}
	MaintenanceFields = []string{"ID_OPERACION", "DESCRIPCION", "FRECUENCIA", "PROX_MANTENIMIENTO", "TIPO_MANTENIMIENTO"}
	ServiceFields     = []string{"ID_OPERACION", "DETALLE_SERVICIO", "TECNICO_ENCARGADO", "DURACION_ESTIMADA"}
)

// Fields returns the field list of a mirrored table, or nil.
func Fields(table string) []string {
	switch table {
	case TableClients:
		return ClientFields
	case TableOperations:
		return OperationFields
	case TableSales:
		return SaleFields
	case TableAntivirus:
		return AntivirusFields
	case TableOffice:
		return OfficeFields
	case TableOperatingSystem:
		return OperatingSystemFields
	case TableDevices:
		return DeviceFields
	case TableMaintenance:
		return MaintenanceFields
	case TableServices:
		return ServiceFields
	}
	return nil
}

// Tables lists every mirrored table in rebuild order.
func Tables() []string {
	return []string{
		TableClients, TableOperations, TableSales,
		TableAntivirus, TableOffice, TableOperatingSystem,
		TableDevices, TableMaintenance, TableServices,
	}
}
