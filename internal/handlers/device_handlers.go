package handlers

import (
	"net/http"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	deviceService services.DeviceService
}

func NewDeviceHandler(ds services.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: ds}
}

func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	var req models.DevicePayload
	if !bindJSON(c, &req, "CreateDevice") {
		return
	}
	device, err := h.deviceService.CreateDevice(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create device.")
		return
	}
	c.JSON(http.StatusCreated, device)
}

func (h *DeviceHandler) GetDevices(c *gin.Context) {
	devices, err := h.deviceService.GetDevices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch devices.")
		return
	}
	c.JSON(http.StatusOK, devices)
}

// SearchDevices matches type, brand, model or client name.
func (h *DeviceHandler) SearchDevices(c *gin.Context) {
	var q models.SearchQuery
	_ = c.ShouldBindQuery(&q)
	devices, err := h.deviceService.SearchDevices(c.Request.Context(), q.Search)
	if err != nil {
		respondServiceError(c, err, "Failed to search devices.")
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h *DeviceHandler) GetDevicesByClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	devices, err := h.deviceService.GetDevicesByClient(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch client devices.")
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h *DeviceHandler) GetDeviceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	device, err := h.deviceService.GetDeviceByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch device.")
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.DevicePayload
	if !bindJSON(c, &req, "UpdateDevice") {
		return
	}
	device, err := h.deviceService.UpdateDevice(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update device.")
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.deviceService.DeleteDevice(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete device.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully."})
}
