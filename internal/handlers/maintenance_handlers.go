package handlers

import (
	"net/http"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService services.MaintenanceService
}

func NewMaintenanceHandler(ms services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: ms}
}

func (h *MaintenanceHandler) CreateMaintenance(c *gin.Context) {
	var req models.MaintenancePayload
	if !bindJSON(c, &req, "CreateMaintenance") {
		return
	}
	m, err := h.maintenanceService.CreateMaintenance(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create maintenance.")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MaintenanceHandler) GetMaintenances(c *gin.Context) {
	list, err := h.maintenanceService.GetMaintenances(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch maintenance.")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MaintenanceHandler) SearchMaintenances(c *gin.Context) {
	var q models.SearchQuery
	_ = c.ShouldBindQuery(&q)
	list, err := h.maintenanceService.SearchMaintenances(c.Request.Context(), q.Search)
	if err != nil {
		respondServiceError(c, err, "Failed to search maintenance.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUpcoming lists maintenance due within ?dias= days, overdue included.
func (h *MaintenanceHandler) GetUpcoming(c *gin.Context) {
	days, ok := parseDaysQuery(c, services.DefaultUpcomingDays)
	if !ok {
		return
	}
	list, err := h.maintenanceService.GetUpcomingMaintenances(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch upcoming maintenance.")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MaintenanceHandler) GetMaintenanceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	m, err := h.maintenanceService.GetMaintenanceByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch maintenance.")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MaintenanceHandler) UpdateMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.MaintenancePayload
	if !bindJSON(c, &req, "UpdateMaintenance") {
		return
	}
	m, err := h.maintenanceService.UpdateMaintenance(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update maintenance.")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MaintenanceHandler) DeleteMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.maintenanceService.DeleteMaintenance(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete maintenance.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance deleted successfully."})
}
