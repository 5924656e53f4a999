package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/validation"
)

func (h *Handler) ListAllDoctors(c *gin.Context) {
	doctors, err := h.Directory.ListAllDoctors(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// DoctorsAtLocation reads the city from the JSON body.
func (h *Handler) DoctorsAtLocation(c *gin.Context) {
	var form validation.CityQuery
	if !bind(c, &form) {
		return
	}

	doctors, err := h.Directory.FindDoctorsByCity(c.Request.Context(), &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		h.Logger.Warn("health check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
