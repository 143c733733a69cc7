package handlers

import (
	"net/http"

	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SchemaHandler exposes read-only introspection of the public schema.
type SchemaHandler struct {
	schemaService services.SchemaService
}

func NewSchemaHandler(ss services.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemaService: ss}
}

// ListTables handles GET /api/tables.
func (h *SchemaHandler) ListTables(c *gin.Context) {
	tables, err := h.schemaService.ListTables(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list tables.")
		return
	}
	c.JSON(http.StatusOK, tables)
}

// TableStructure handles GET /api/table/:name/structure.
func (h *SchemaHandler) TableStructure(c *gin.Context) {
	columns, err := h.schemaService.DescribeTable(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, err, "Failed to describe table.")
		return
	}
	c.JSON(http.StatusOK, columns)
}

// TableData handles GET /api/table/:name/data?limit=.
func (h *SchemaHandler) TableData(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationFailed(c, "limit must be an integer.")
		return
	}
	data, err := h.schemaService.GetTableData(c.Request.Context(), c.Param("name"), q.Limit)
	if err != nil {
		respondServiceError(c, err, "Failed to read table data.")
		return
	}
	c.JSON(http.StatusOK, data)
}
