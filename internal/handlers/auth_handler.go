package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// bind decodes the JSON body into form. Malformed bodies are reported as a
// validation error so the client sees the same field-keyed shape.
func bind(c *gin.Context, form any) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		_ = c.Error(apperror.Validation(map[string]string{"error": "Invalid request body"}))
		return false
	}
	return true
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var form validation.PatientRegistration
	if !bind(c, &form) {
		return
	}

	patient, err := h.Auth.RegisterPatient(c.Request.Context(), &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var form validation.DoctorRegistration
	if !bind(c, &form) {
		return
	}

	doctor, err := h.Auth.RegisterDoctor(c.Request.Context(), &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

func (h *Handler) LoginPatient(c *gin.Context) {
	h.login(c, models.VariantPatient)
}

func (h *Handler) LoginDoctor(c *gin.Context) {
	h.login(c, models.VariantDoctor)
}

func (h *Handler) login(c *gin.Context, variant models.Variant) {
	var form validation.Login
	if !bind(c, &form) {
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), variant, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCurrentAccount returns the profile of whoever holds the token.
func (h *Handler) GetCurrentAccount(c *gin.Context) {
	claims, ok := middleware.Session(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("User not authenticated"))
		return
	}

	rec, err := h.Auth.GetAccount(c.Request.Context(), models.Variant(claims.Role), claims.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
