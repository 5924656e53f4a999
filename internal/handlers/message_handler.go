package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// sessionID returns the ObjectID of the signed-in account.
func sessionID(c *gin.Context) (primitive.ObjectID, bool) {
	claims, ok := middleware.Session(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("User not authenticated"))
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		_ = c.Error(apperror.Unauthorized("Invalid token"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// ContactDoctor stores a patient's message for a doctor.
func (h *Handler) ContactDoctor(c *gin.Context) {
	patientID, ok := sessionID(c)
	if !ok {
		return
	}
	var form validation.ContactDoctor
	if !bind(c, &form) {
		return
	}

	msg, err := h.Messaging.SubmitPatientMessage(c.Request.Context(), patientID, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// ContactPatient stores a doctor's reply for a patient.
func (h *Handler) ContactPatient(c *gin.Context) {
	doctorID, ok := sessionID(c)
	if !ok {
		return
	}
	var form validation.ContactPatient
	if !bind(c, &form) {
		return
	}

	msg, err := h.Messaging.SubmitDoctorReply(c.Request.Context(), doctorID, &form)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}
