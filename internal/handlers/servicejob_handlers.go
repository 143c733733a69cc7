package handlers

import (
	"net/http"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ServiceJobHandler serves /api/servicios, the technical service jobs.
type ServiceJobHandler struct {
	jobService services.ServiceJobService
}

func NewServiceJobHandler(js services.ServiceJobService) *ServiceJobHandler {
	return &ServiceJobHandler{jobService: js}
}

func (h *ServiceJobHandler) CreateService(c *gin.Context) {
	var req models.ServiceJobPayload
	if !bindJSON(c, &req, "CreateService") {
		return
	}
	job, err := h.jobService.CreateService(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create service.")
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *ServiceJobHandler) GetServices(c *gin.Context) {
	jobs, err := h.jobService.GetServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch services.")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *ServiceJobHandler) SearchServices(c *gin.Context) {
	var q models.SearchQuery
	_ = c.ShouldBindQuery(&q)
	jobs, err := h.jobService.SearchServices(c.Request.Context(), q.Search)
	if err != nil {
		respondServiceError(c, err, "Failed to search services.")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *ServiceJobHandler) GetServiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.jobService.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch service.")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ServiceJobHandler) UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.ServiceJobPayload
	if !bindJSON(c, &req, "UpdateService") {
		return
	}
	job, err := h.jobService.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update service.")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ServiceJobHandler) DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.jobService.DeleteService(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete service.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully."})
}
