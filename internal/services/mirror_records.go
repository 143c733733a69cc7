package services

import (
	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/models"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func clientRecord(c *models.Client) mirror.Record {
	return mirror.Record{
		"ID_CLIENTE": c.ID,
		"NOMBRE":     c.FirstName,
		"APELLIDO":   c.LastName,
		"CELULAR":    c.Phone,
		"DIRECCION":  c.Address,
		"CORREO":     c.Email,
	}
}

func operationRecord(id, clientID int64, date models.Date, opType string, income, expense decimal.Decimal) mirror.Record {
	return mirror.Record{
		"ID_OPERACION":   id,
		"ID_CLIENTE":     clientID,
		"FECHA":          date,
		"TIPO_OPERACION": opType,
		"INGRESO":        money(income),
		"EGRESO":         money(expense),
	}
}

func deviceRecord(d *models.Device) mirror.Record {
	return mirror.Record{
		"ID_DISPOSITIVO":   d.ID,
		"ID_CLIENTE":       d.ClientID,
		"TIPO_DISPOSITIVO": d.Type,
		"MARCA":            d.Brand,
		"MODELO":           d.Model,
	}
}

func saleRecord(l *models.License) mirror.Record {
	return mirror.Record{"ID_OPERACION": l.OperationID, "ID_LICENCIA": l.ID}
}

func licenseRecord(l *models.License) mirror.Record {
	return mirror.Record{
		"ID_LICENCIA":         l.ID,
		"DETALLE":             l.Detail,
		"FECHA_INICIO":        l.StartDate,
		"FECHA_FIN":           l.EndDate,
		"FECHA_ALERTA":        l.AlertDate,
		"CLAVE_ACTIVACION":    l.ActivationKey,
		"NUMERO_DISPOSITIVOS": l.DeviceCount,
		"CUENTA_CORREO":       l.AccountEmail,
		"CONTRASENA_CUENTA":   l.AccountPassword,
		"TIPO_PLAN":           l.PlanType,
		"VERSION_SO":          l.OSVersion,
		"TIPO_LICENCIA":       l.LicenseType,
	}
}

// licenseMirrorTable returns the mirror table and fields of a license kind.
func licenseMirrorTable(kind models.LicenseKind) (string, []string) {
	switch kind {
	case models.LicenseAntivirus:
		return mirror.TableAntivirus, mirror.AntivirusFields
	case models.LicenseOffice:
		return mirror.TableOffice, mirror.OfficeFields
	default:
		return mirror.TableOperatingSystem, mirror.OperatingSystemFields
	}
}

func maintenanceRecord(m *models.Maintenance) mirror.Record {
	return mirror.Record{
		"ID_OPERACION":       m.OperationID,
		"DESCRIPCION":        m.Description,
		"FRECUENCIA":         m.Frequency,
		"PROX_MANTENIMIENTO": m.NextDate,
		"TIPO_MANTENIMIENTO": m.Type,
	}
}

func serviceRecord(j *models.ServiceJob) mirror.Record {
	return mirror.Record{
		"ID_OPERACION":      j.OperationID,
		"DETALLE_SERVICIO":  j.Detail,
		"TECNICO_ENCARGADO": j.Technician,
		"DURACION_ESTIMADA": j.EstimatedDuration,
	}
}
