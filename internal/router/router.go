package router

import (
	"techdesk_backend/internal/database"
	"techdesk_backend/internal/handlers"
	"techdesk_backend/internal/mailer"
	"techdesk_backend/internal/middleware"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Deps are the process-wide resources the routes are built from.
type Deps struct {
	Pool          *database.Pool
	Mirror        services.RecordMirror
	MirrorService services.MirrorService
	Mailer        mailer.Mailer
	SMTPRate      float64
	Tokens        *utils.TokenManager
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Deps) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository()
	clientRepo := repositories.NewClientRepository()
	operationRepo := repositories.NewOperationRepository()
	licenseRepo := repositories.NewLicenseRepository()
	deviceRepo := repositories.NewDeviceRepository()
	maintenanceRepo := repositories.NewMaintenanceRepository()
	serviceRepo := repositories.NewServiceJobRepository()
	reportRepo := repositories.NewReportRepository()
	alertRepo := repositories.NewAlertRepository()
	schemaRepo := repositories.NewSchemaRepository()

	// Initialize Services
	pool := deps.Pool
	authService := services.NewAuthService(authRepo, pool, deps.Tokens)
	clientService := services.NewClientService(clientRepo, pool, deps.Mirror)
	deviceService := services.NewDeviceService(deviceRepo, clientRepo, maintenanceRepo, pool, deps.Mirror)
	licenseService := services.NewLicenseService(licenseRepo, operationRepo, clientRepo, pool, deps.Mirror)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, operationRepo, clientRepo, deviceRepo, pool, deps.Mirror)
	serviceJobService := services.NewServiceJobService(serviceRepo, operationRepo, clientRepo, pool, deps.Mirror)
	reportService := services.NewReportService(reportRepo, pool)
	alertService := services.NewAlertService(alertRepo, pool, deps.Mailer, deps.SMTPRate)
	schemaService := services.NewSchemaService(schemaRepo, pool)

	// Initialize Handlers
	healthHandler := handlers.NewHealthHandler(schemaService)
	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(clientService)
	deviceHandler := handlers.NewDeviceHandler(deviceService)
	licenseHandler := handlers.NewLicenseHandler(licenseService, alertService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)
	serviceJobHandler := handlers.NewServiceJobHandler(serviceJobService)
	reportHandler := handlers.NewReportHandler(reportService)
	schemaHandler := handlers.NewSchemaHandler(schemaService)
	mirrorHandler := handlers.NewMirrorHandler(deps.MirrorService)

	engine.GET("/", healthHandler.Root)

	api := engine.Group("/api")

	SetupPublicAuthRoutes(api.Group("/auth", middleware.ConnLease(pool)), authHandler)

	// The connection lease is taken only after the token check.
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens))

	// Alert delivery leases per query so no connection is held during SMTP sends.
	SetupAlertRoutes(authenticated, licenseHandler)

	leased := authenticated.Group("")
	leased.Use(middleware.ConnLease(pool))
	{
		SetupAuthenticatedAuthRoutes(leased.Group("/auth"), authHandler)
		SetupClientRoutes(leased, clientHandler)
		SetupDeviceRoutes(leased, deviceHandler)
		SetupLicenseRoutes(leased, licenseHandler)
		SetupMaintenanceRoutes(leased, maintenanceHandler)
		SetupServiceJobRoutes(leased, serviceJobHandler)
		SetupReportRoutes(leased, reportHandler)
		SetupSchemaRoutes(leased, schemaHandler)
		SetupMirrorRoutes(leased, mirrorHandler)
	}
}

// SetupPublicAuthRoutes sets up the login route.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes sets up the routes about the current user.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
