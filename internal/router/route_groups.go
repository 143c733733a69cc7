package router

import (
	"techdesk_backend/internal/handlers"
	"techdesk_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clientes")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
	authenticatedGroup.GET("/clientesServicios", clientHandler.GetClientOptions)
}

// SetupDeviceRoutes sets up the device routes.
func SetupDeviceRoutes(authenticatedGroup *gin.RouterGroup, deviceHandler *handlers.DeviceHandler) {
	deviceRoutes := authenticatedGroup.Group("/dispositivos")
	{
		deviceRoutes.POST("", deviceHandler.CreateDevice)
		deviceRoutes.GET("", deviceHandler.GetDevices)
		deviceRoutes.GET("/search", deviceHandler.SearchDevices)
		deviceRoutes.GET("/cliente/:id", deviceHandler.GetDevicesByClient)
		deviceRoutes.GET("/:id", deviceHandler.GetDeviceByID)
		deviceRoutes.PUT("/:id", deviceHandler.UpdateDevice)
		deviceRoutes.DELETE("/:id", deviceHandler.DeleteDevice)
	}
}

// SetupAlertRoutes sets up the expiration scan and the manual license alert.
func SetupAlertRoutes(authenticatedGroup *gin.RouterGroup, licenseHandler *handlers.LicenseHandler) {
	alertRoutes := authenticatedGroup.Group("/licencias")
	{
		alertRoutes.GET("/verificar-vencimientos", licenseHandler.CheckExpirations)
		alertRoutes.POST("/enviar-alerta/:id_licencia", licenseHandler.SendLicenseAlert)
	}
}

// SetupLicenseRoutes sets up license sales.
func SetupLicenseRoutes(authenticatedGroup *gin.RouterGroup, licenseHandler *handlers.LicenseHandler) {
	licenseRoutes := authenticatedGroup.Group("/licencias")
	{
		licenseRoutes.POST("/registrar-antivirus", licenseHandler.RegisterLicense(models.LicenseAntivirus))
		licenseRoutes.POST("/registrar-ofimatica", licenseHandler.RegisterLicense(models.LicenseOffice))
		licenseRoutes.POST("/registrar-sistema-operativo", licenseHandler.RegisterLicense(models.LicenseOperatingSystem))

		licenseRoutes.GET("/:tipo", licenseHandler.GetLicenses)
		licenseRoutes.PUT("/:tipo/:id_licencia", licenseHandler.UpdateLicense)
		licenseRoutes.DELETE("/:tipo/:id_licencia", licenseHandler.DeleteLicense)
	}
}

// SetupMaintenanceRoutes sets up the maintenance routes.
func SetupMaintenanceRoutes(authenticatedGroup *gin.RouterGroup, maintenanceHandler *handlers.MaintenanceHandler) {
	maintenanceRoutes := authenticatedGroup.Group("/mantenimientos")
	{
		maintenanceRoutes.POST("", maintenanceHandler.CreateMaintenance)
		maintenanceRoutes.GET("", maintenanceHandler.GetMaintenances)
		maintenanceRoutes.GET("/search", maintenanceHandler.SearchMaintenances)
		maintenanceRoutes.GET("/proximos-vencer", maintenanceHandler.GetUpcoming)
		maintenanceRoutes.GET("/:id", maintenanceHandler.GetMaintenanceByID)
		maintenanceRoutes.PUT("/:id", maintenanceHandler.UpdateMaintenance)
		maintenanceRoutes.DELETE("/:id", maintenanceHandler.DeleteMaintenance)
	}
}

// SetupServiceJobRoutes sets up the technical service routes.
func SetupServiceJobRoutes(authenticatedGroup *gin.RouterGroup, serviceJobHandler *handlers.ServiceJobHandler) {
	serviceRoutes := authenticatedGroup.Group("/servicios")
	{
		serviceRoutes.POST("", serviceJobHandler.CreateService)
		serviceRoutes.GET("", serviceJobHandler.GetServices)
		serviceRoutes.GET("/search", serviceJobHandler.SearchServices)
		serviceRoutes.GET("/:id", serviceJobHandler.GetServiceByID)
		serviceRoutes.PUT("/:id", serviceJobHandler.UpdateService)
		serviceRoutes.DELETE("/:id", serviceJobHandler.DeleteService)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	authenticatedGroup.GET("/estadisticas/mes", reportHandler.GetMonthlyStats)
	authenticatedGroup.GET("/estadisticas/export", reportHandler.ExportYear)
	authenticatedGroup.GET("/ganancia/mensual", reportHandler.GetMonthlyProfit)
	authenticatedGroup.GET("/ingresos/mensual", reportHandler.GetMonthlyIncome)
}

// SetupSchemaRoutes sets up the schema introspection routes.
func SetupSchemaRoutes(authenticatedGroup *gin.RouterGroup, schemaHandler *handlers.SchemaHandler) {
	authenticatedGroup.GET("/tables", schemaHandler.ListTables)
	tableRoutes := authenticatedGroup.Group("/table/:name")
	{
		tableRoutes.GET("/structure", schemaHandler.TableStructure)
		tableRoutes.GET("/data", schemaHandler.TableData)
	}
}

// SetupMirrorRoutes sets up the on-demand mirror rebuild.
func SetupMirrorRoutes(authenticatedGroup *gin.RouterGroup, mirrorHandler *handlers.MirrorHandler) {
	authenticatedGroup.POST("/mirror/rebuild", mirrorHandler.Rebuild)
}
