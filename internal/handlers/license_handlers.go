package handlers

import (
	"net/http"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LicenseHandler serves license sales and the expiration alerts.
type LicenseHandler struct {
	licenseService services.LicenseService
	alertService   services.AlertService
}

func NewLicenseHandler(ls services.LicenseService, as services.AlertService) *LicenseHandler {
	return &LicenseHandler{licenseService: ls, alertService: as}
}

func licenseKindParam(c *gin.Context) (models.LicenseKind, bool) {
	kind, ok := models.ParseLicenseKind(c.Param("tipo"))
	if !ok {
		utils.RespondValidationFailed(c, services.ErrInvalidLicenseKind.Error())
		return "", false
	}
	return kind, true
}

// GetLicenses handles GET /api/licencias/:tipo.
func (h *LicenseHandler) GetLicenses(c *gin.Context) {
	kind, ok := licenseKindParam(c)
	if !ok {
		return
	}
	licenses, err := h.licenseService.GetLicenses(c.Request.Context(), kind)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch licenses.")
		return
	}
	c.JSON(http.StatusOK, licenses)
}

// RegisterLicense returns the handler of one registrar-* route.
func (h *LicenseHandler) RegisterLicense(kind models.LicenseKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LicensePayload
		if !bindJSON(c, &req, "RegisterLicense") {
			return
		}
		license, err := h.licenseService.RegisterLicense(c.Request.Context(), kind, req)
		if err != nil {
			respondServiceError(c, err, "Failed to register license.")
			return
		}
		c.JSON(http.StatusCreated, license)
	}
}

func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	kind, ok := licenseKindParam(c)
	if !ok {
		return
	}
	var req models.LicensePayload
	if !bindJSON(c, &req, "UpdateLicense") {
		return
	}
	license, err := h.licenseService.UpdateLicense(c.Request.Context(), kind, c.Param("id_licencia"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update license.")
		return
	}
	c.JSON(http.StatusOK, license)
}

func (h *LicenseHandler) DeleteLicense(c *gin.Context) {
	kind, ok := licenseKindParam(c)
	if !ok {
		return
	}
	if err := h.licenseService.DeleteLicense(c.Request.Context(), kind, c.Param("id_licencia")); err != nil {
		respondServiceError(c, err, "Failed to delete license.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "License deleted successfully."})
}

// CheckExpirations emails every client whose license or maintenance ends within ?dias= days.
func (h *LicenseHandler) CheckExpirations(c *gin.Context) {
	days, ok := parseDaysQuery(c, services.DefaultAlertDays)
	if !ok {
		return
	}
	summary, err := h.alertService.CheckExpirations(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err, "Failed to check expirations.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *LicenseHandler) SendLicenseAlert(c *gin.Context) {
	result, err := h.alertService.SendLicenseAlert(c.Request.Context(), c.Param("id_licencia"))
	if err != nil {
		respondServiceError(c, err, "Failed to send alert.")
		return
	}
	c.JSON(http.StatusOK, result)
}
