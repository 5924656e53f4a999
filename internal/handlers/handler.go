package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// Authenticator is implemented by *services.AuthService.
type Authenticator interface {
	RegisterPatient(ctx context.Context, form *validation.PatientRegistration) (*models.Patient, error)
	RegisterDoctor(ctx context.Context, form *validation.DoctorRegistration) (*models.Doctor, error)
	Login(ctx context.Context, variant models.Variant, form *validation.Login) (*services.LoginResult, error)
	GetAccount(ctx context.Context, variant models.Variant, id string) (models.Record, error)
}

// Messenger is implemented by *services.MessagingService.
type Messenger interface {
	SubmitPatientMessage(ctx context.Context, patientID primitive.ObjectID, form *validation.ContactDoctor) (*models.Message, error)
	SubmitDoctorReply(ctx context.Context, doctorID primitive.ObjectID, form *validation.ContactPatient) (*models.Message, error)
}

// Directory is implemented by *services.DirectoryService.
type Directory interface {
	ListAllDoctors(ctx context.Context) ([]models.Doctor, error)
	FindDoctorsByCity(ctx context.Context, form *validation.CityQuery) ([]models.Doctor, error)
}

// HealthChecker is implemented by *repository.Pinger.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Auth      Authenticator
	Messaging Messenger
	Directory Directory
	Health    HealthChecker
	Logger    *slog.Logger
}

func NewHandler(auth Authenticator, messaging Messenger, directory Directory, health HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{
		Auth:      auth,
		Messaging: messaging,
		Directory: directory,
		Health:    health,
		Logger:    logger,
	}
}

// Routes registers every endpoint on r. Paths are kept flat because the web
// client calls them at the root.
func (h *Handler) Routes(r gin.IRouter, verifier middleware.TokenVerifier) {
	r.GET("/health", h.HealthCheck)

	r.POST("/register", h.RegisterPatient)
	r.POST("/login", h.LoginPatient)
	r.POST("/registerDoc", h.RegisterDoctor)
	r.POST("/loginDoc", h.LoginDoctor)

	r.GET("/allDoctors", h.ListAllDoctors)
	r.POST("/getDoctorsAtLocation", h.DoctorsAtLocation)

	r.POST("/contactDoctor", middleware.RequireSession(verifier, models.VariantPatient), h.ContactDoctor)
	r.POST("/contactPatient", middleware.RequireSession(verifier, models.VariantDoctor), h.ContactPatient)
	r.GET("/me", middleware.RequireSession(verifier), h.GetCurrentAccount)
}
