package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/logger"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/repository"
	"github.com/harentsoaR/medconnect-api/internal/utils"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// LoginResult is returned to the client on a successful login.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type AuthService struct {
	patients  AccountStore[models.Patient]
	doctors   AccountStore[models.Doctor]
	hasher    PasswordHasher
	tokens    TokenSigner
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(
	patients AccountStore[models.Patient],
	doctors AccountStore[models.Doctor],
	hasher PasswordHasher,
	tokens TokenSigner,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		patients:  patients,
		doctors:   doctors,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterPatient validates form and stores a new patient.
func (s *AuthService) RegisterPatient(ctx context.Context, form *validation.PatientRegistration) (*models.Patient, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}

	base := models.Account{Name: form.Name, Email: form.Email, City: form.City}
	return register(ctx, s, s.patients, base, form.Password, func(acct models.Account) *models.Patient {
		return &models.Patient{
			Account:        acct,
			YourMessages:   []models.Message{},
			DoctorMessages: []models.Message{},
		}
	})
}

// RegisterDoctor validates form and stores a new doctor.
func (s *AuthService) RegisterDoctor(ctx context.Context, form *validation.DoctorRegistration) (*models.Doctor, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}

	base := models.Account{Name: form.Name, Email: form.Email, City: form.City}
	return register(ctx, s, s.doctors, base, form.Password, func(acct models.Account) *models.Doctor {
		return &models.Doctor{
			Account:         acct,
			Specialty:       form.Specialty,
			Bio:             form.Bio,
			State:           form.State,
			PatientMessages: []models.Message{},
		}
	})
}

// register is the variant-independent part of registration. The duplicate
// check and the insert are separate store calls, so two concurrent requests
// for the same email can both pass the check.
func register[T any](
	ctx context.Context,
	s *AuthService,
	store AccountStore[T],
	base models.Account,
	password string,
	build func(models.Account) *T,
) (*T, error) {
	log := logger.FromContext(ctx, s.logger)

	_, err := store.FindByEmail(ctx, base.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("email", "Email already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Store(err, "Failed to check existing accounts")
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to hash password")
	}

	base.ID = primitive.NewObjectID()
	base.Password = hash
	base.CreatedAt = s.now().UTC()
	doc := build(base)

	if err := store.Create(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("email", "Email already exists")
		}
		return nil, apperror.Store(err, "Failed to create account")
	}

	log.Info("account registered", slog.String("id", base.ID.Hex()))
	return doc, nil
}

// Login checks credentials for the given variant and issues a Bearer token.
func (s *AuthService) Login(ctx context.Context, variant models.Variant, form *validation.Login) (*LoginResult, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}

	switch variant {
	case models.VariantPatient:
		return login[models.Patient](ctx, s, s.patients, form)
	case models.VariantDoctor:
		return login[models.Doctor](ctx, s, s.doctors, form)
	default:
		return nil, apperror.Internal(errors.Errorf("unknown variant %q", variant), "Unknown account type")
	}
}

func login[T any, PT interface {
	*T
	models.Record
}](ctx context.Context, s *AuthService, store AccountStore[T], form *validation.Login) (*LoginResult, error) {
	found, err := store.FindByEmail(ctx, form.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("emailnotfound", "Email not found")
	}
	if err != nil {
		return nil, apperror.Store(err, "Failed to look up account")
	}

	rec := PT(found)
	acct := rec.Base()
	if !s.hasher.CheckPasswordHash(form.Password, acct.Password) {
		return nil, apperror.InvalidCredentials("passwordincorrect", "Password incorrect")
	}

	token, err := s.tokens.GenerateJWT(acct.ID.Hex(), acct.Name, string(rec.Variant()))
	if err != nil {
		return nil, apperror.Signing(err)
	}

	logger.FromContext(ctx, s.logger).Info("login succeeded",
		slog.String("id", acct.ID.Hex()),
		slog.String("variant", string(rec.Variant())),
	)
	return &LoginResult{Success: true, Token: utils.BearerPrefix + token}, nil
}

// GetAccount fetches the full record of a signed-in account.
func (s *AuthService) GetAccount(ctx context.Context, variant models.Variant, id string) (models.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || !variant.Valid() {
		return nil, apperror.Unauthorized("Invalid token")
	}

	var rec models.Record
	switch variant {
	case models.VariantPatient:
		p, ferr := s.patients.FindByID(ctx, oid)
		rec, err = p, ferr
	case models.VariantDoctor:
		d, ferr := s.doctors.FindByID(ctx, oid)
		rec, err = d, ferr
	}

	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("error", "Account not found")
	}
	if err != nil {
		return nil, apperror.Store(err, "Failed to fetch account")
	}
	return rec, nil
}
