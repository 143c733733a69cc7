package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"techdesk_backend/internal/repositories"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := utils.StrToInt64(raw)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid "+name+" format.", raw))
		return 0, false
	}
	return id, true
}

// parseDaysQuery reads ?dias=, falling back to def when absent.
func parseDaysQuery(c *gin.Context, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query("dias"))
	if raw == "" {
		return def, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		utils.RespondValidationFailed(c, "dias must be a non-negative integer.")
		return 0, false
	}
	return days, true
}

func bindJSON(c *gin.Context, dst interface{}, op string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogWarn(op+": failed to bind JSON", map[string]interface{}{"error": err.Error()})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
			"Invalid request payload.", err.Error()))
		return false
	}
	return true
}

// respondServiceError maps service and repository sentinels to the HTTP envelope.
// Anything unrecognized becomes a generic 500 carrying internalMsg.
func respondServiceError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnknownClient),
		errors.Is(err, services.ErrUnknownDevice),
		errors.Is(err, services.ErrInvalidLicenseKind):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrDeviceNotFound),
		errors.Is(err, services.ErrLicenseNotFound),
		errors.Is(err, services.ErrMaintenanceNotFound),
		errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrClientInUse),
		errors.Is(err, services.ErrUsernameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, repositories.ErrDuplicateKey):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Record already exists.", err.Error()))
	case errors.Is(err, repositories.ErrForeignKey):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Record is referenced by other records.", err.Error()))
	default:
		utils.RespondInternal(c, err, internalMsg)
	}
}
