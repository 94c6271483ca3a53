package handler

import (
	"errors"
	"net/http"

	"notify-pipeline/internal/services"
	"notify-pipeline/internal/transport/httpdto"
	pipeline_errors "notify-pipeline/pkg/errors"

	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	service *services.OTPService
}

func NewOTPHandler(service *services.OTPService) *OTPHandler {
	return &OTPHandler{service: service}
}

// Request accepts an OTP request and queues it for delivery. The caller gets
// the bus message identifier back; delivery outcome lands in the audit log.
func (h *OTPHandler) Request(c *gin.Context) {
	var req services.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	messageID, err := h.service.Request(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline_errors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"message":    "OTP request accepted for processing",
		"message_id": messageID,
	}))
}

// Verify checks a submitted code against the pending one for the target. The
// code is consumed on success and cannot be replayed.
func (h *OTPHandler) Verify(c *gin.Context) {
	var req services.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	purpose, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, pipeline_errors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
		case errors.Is(err, pipeline_errors.ErrNotFound):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Invalid OTP", "INVALID_OTP"))
		case errors.Is(err, pipeline_errors.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_OTP"))
		default:
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		}
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"message":     "OTP verified successfully",
		"otp_purpose": purpose,
	}))
}
