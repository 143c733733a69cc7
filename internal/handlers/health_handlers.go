package handlers

import (
	"net/http"
	"time"

	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	schemaService services.SchemaService
}

func NewHealthHandler(ss services.SchemaService) *HealthHandler {
	return &HealthHandler{schemaService: ss}
}

// Root reports that the API is up and the database answers.
func (h *HealthHandler) Root(c *gin.Context) {
	now, err := h.schemaService.DatabaseTime(c.Request.Context())
	if err != nil {
		utils.RespondInternal(c, err, "Database connection failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "TechDesk API running",
		"db_time": now.Format(time.RFC3339),
	})
}
