package handlers

import (
	"fmt"
	"net/http"
	"time"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService services.ReportService
	now           func() time.Time
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs, now: time.Now}
}

// parseReportQuery reads ?anio= and ?mes=, defaulting to the current year and month.
func (h *ReportHandler) parseReportQuery(c *gin.Context) (models.ReportQuery, bool) {
	var q models.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationFailed(c, "anio and mes must be integers.")
		return q, false
	}
	now := h.now()
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Month == 0 {
		q.Month = int(now.Month())
	}
	return q, true
}

// GetMonthlyStats handles GET /api/estadisticas/mes.
func (h *ReportHandler) GetMonthlyStats(c *gin.Context) {
	q, ok := h.parseReportQuery(c)
	if !ok {
		return
	}
	stats, err := h.reportService.GetMonthlyStats(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		respondServiceError(c, err, "Failed to compute monthly statistics.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMonthlyProfit handles GET /api/ganancia/mensual.
func (h *ReportHandler) GetMonthlyProfit(c *gin.Context) {
	q, ok := h.parseReportQuery(c)
	if !ok {
		return
	}
	series, err := h.reportService.GetMonthlyProfit(c.Request.Context(), q.Year)
	if err != nil {
		respondServiceError(c, err, "Failed to compute monthly profit.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"anio": q.Year, "meses": series})
}

// GetMonthlyIncome handles GET /api/ingresos/mensual.
func (h *ReportHandler) GetMonthlyIncome(c *gin.Context) {
	q, ok := h.parseReportQuery(c)
	if !ok {
		return
	}
	series, err := h.reportService.GetMonthlyIncome(c.Request.Context(), q.Year)
	if err != nil {
		respondServiceError(c, err, "Failed to compute monthly income.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"anio": q.Year, "meses": series})
}

// ExportYear streams the yearly workbook as an attachment.
func (h *ReportHandler) ExportYear(c *gin.Context) {
	q, ok := h.parseReportQuery(c)
	if !ok {
		return
	}
	buf, err := h.reportService.ExportYear(c.Request.Context(), q.Year)
	if err != nil {
		respondServiceError(c, err, "Failed to export report.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reporte_%d.xlsx"`, q.Year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
