package services

import "errors"

// --- Service errors shared by every entity ---
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnknownClient       = errors.New("referenced client does not exist")
	ErrUnknownDevice       = errors.New("referenced device does not exist")
	ErrClientNotFound      = errors.New("client not found")
	ErrClientInUse         = errors.New("client is referenced by operations or devices")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrLicenseNotFound     = errors.New("license not found")
	ErrInvalidLicenseKind  = errors.New("invalid license type, expected antivirus, ofimatica or sistema_operativo")
	ErrMaintenanceNotFound = errors.New("maintenance not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrTableNotFound       = errors.New("table not found")
)
