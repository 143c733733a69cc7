package handlers

import (
	"net/http"

	"techdesk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MirrorHandler struct {
	mirrorService services.MirrorService
}

func NewMirrorHandler(ms services.MirrorService) *MirrorHandler {
	return &MirrorHandler{mirrorService: ms}
}

// Rebuild re-exports every mirrored table from the database.
func (h *MirrorHandler) Rebuild(c *gin.Context) {
	result, err := h.mirrorService.Rebuild(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to rebuild mirror.")
		return
	}
	c.JSON(http.StatusOK, result)
}
