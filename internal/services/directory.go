package services

import (
	"context"
	"log/slog"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/logger"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/repository"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// DirectoryService answers doctor listing queries. Results are unbounded.
type DirectoryService struct {
	doctors   DoctorStore
	validator *validation.Validator
	logger    *slog.Logger
}

func NewDirectoryService(doctors DoctorStore, validator *validation.Validator, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{doctors: doctors, validator: validator, logger: logger}
}

func (s *DirectoryService) ListAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.Find(ctx, repository.Filter{})
	if err != nil {
		return nil, apperror.Store(err, "Failed to fetch doctors")
	}
	return doctors, nil
}

// FindDoctorsByCity matches city exactly.
func (s *DirectoryService) FindDoctorsByCity(ctx context.Context, form *validation.CityQuery) ([]models.Doctor, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}

	doctors, err := s.doctors.Find(ctx, repository.Filter{City: form.City})
	if err != nil {
		return nil, apperror.Store(err, "Failed to fetch doctors")
	}

	logger.FromContext(ctx, s.logger).Debug("doctors by city",
		slog.String("city", form.City),
		slog.Int("count", len(doctors)),
	)
	return doctors, nil
}
