package handler

import (
	"net/http"
	"strconv"
	"time"

	"notify-pipeline/internal/transport/httpdto"
	"notify-pipeline/pkg/eta"

	"github.com/gin-gonic/gin"
)

type ETAHandler struct{}

func NewETAHandler() *ETAHandler {
	return &ETAHandler{}
}

// Compute returns the arrival estimate for a travel time in seconds.
func (h *ETAHandler) Compute(c *gin.Context) {
	seconds, err := strconv.Atoi(c.DefaultQuery("seconds", "0"))
	if err != nil || seconds < 0 {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid seconds", "INVALID_REQUEST"))
		return
	}

	estimate := eta.Compute(time.Duration(seconds) * time.Second)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"eta":      estimate,
		"eta_text": eta.FormatDuration(seconds),
	}))
}
