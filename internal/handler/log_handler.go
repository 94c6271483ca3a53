package handler

import (
	"net/http"
	"strconv"
	"time"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/export"
	"notify-pipeline/internal/repository"
	"notify-pipeline/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	logs     repository.LogRepository
	exporter *export.Exporter
}

// NewLogHandler builds the audit-log read surface. exporter may be nil when
// no export bucket is configured.
func NewLogHandler(logs repository.LogRepository, exporter *export.Exporter) *LogHandler {
	return &LogHandler{logs: logs, exporter: exporter}
}

func (h *LogHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	records, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"records": records,
		"total":   len(records),
	}))
}

func (h *LogHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("export is not configured", "EXPORT_DISABLED"))
		return
	}

	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	key, count, err := h.exporter.Export(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"key":     key,
		"records": count,
	}))
}

func parseFilter(c *gin.Context) (repository.LogFilter, bool) {
	var filter repository.LogFilter
	if v := c.Query("category"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid category", "INVALID_REQUEST"))
			return filter, false
		}
		filter.CategoryID = domain.Category(n)
	}
	if v := c.Query("status"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid status", "INVALID_REQUEST"))
			return filter, false
		}
		filter.StatusID = domain.Status(n)
	}
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid since timestamp", "INVALID_REQUEST"))
			return filter, false
		}
		filter.Since = t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid limit", "INVALID_REQUEST"))
			return filter, false
		}
		filter.Limit = n
	}
	return filter, true
}
