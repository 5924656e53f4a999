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
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

// MessagingService appends messages to account message arrays. It does not
// model conversations: each call is a one-way append.
type MessagingService struct {
	patients  AccountStore[models.Patient]
	doctors   AccountStore[models.Doctor]
	notifier  MessageNotifier
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewMessagingService(
	patients AccountStore[models.Patient],
	doctors AccountStore[models.Doctor],
	notifier MessageNotifier,
	validator *validation.Validator,
	logger *slog.Logger,
) *MessagingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MessagingService{
		patients:  patients,
		doctors:   doctors,
		notifier:  notifier,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitPatientMessage sends a message from the signed-in patient to the
// doctor named in form. The message is pushed to the patient's yourMessages
// and to the doctor's patientMessages in two independent writes; if either
// write fails the caller gets a partial delivery error saying which side
// landed. The doctor is notified only when both writes succeed.
func (s *MessagingService) SubmitPatientMessage(ctx context.Context, patientID primitive.ObjectID, form *validation.ContactDoctor) (*models.Message, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}
	doctorID, err := primitive.ObjectIDFromHex(form.DoctorID)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"doctorId": "Doctor id is invalid"})
	}

	if _, err := s.doctors.FindByID(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("doctornotfound", "Doctor not found")
		}
		return nil, apperror.Store(err, "Failed to look up doctor")
	}

	msg := models.Message{
		DoctorID:    doctorID,
		PatientID:   patientID,
		Name:        form.Name,
		Email:       form.Email,
		Description: form.Description,
		Date:        s.now().UTC(),
	}

	delivered := map[string]bool{"patient": false, "doctor": false}
	var failures []error

	if err := s.patients.AppendMessage(ctx, patientID, models.FieldYourMessages, msg); err != nil {
		failures = append(failures, errors.Wrap(err, "append to patient"))
	} else {
		delivered["patient"] = true
	}

	if err := s.doctors.AppendMessage(ctx, doctorID, models.FieldPatientMessages, msg); err != nil {
		failures = append(failures, errors.Wrap(err, "append to doctor"))
	} else {
		delivered["doctor"] = true
	}

	log := logger.FromContext(ctx, s.logger).With(
		slog.String("patient_id", patientID.Hex()),
		slog.String("doctor_id", doctorID.Hex()),
	)
	if len(failures) > 0 {
		err := errors.Errorf("%d of 2 appends failed: %v", len(failures), failures)
		log.Error("patient message partially delivered",
			slog.Bool("patient", delivered["patient"]),
			slog.Bool("doctor", delivered["doctor"]),
			slog.Any("error", err),
		)
		return nil, apperror.PartialDelivery(err, delivered)
	}

	s.notifier.MessageDelivered(ctx, models.VariantDoctor, msg)
	log.Info("patient message delivered")
	return &msg, nil
}

// SubmitDoctorReply sends a reply from the signed-in doctor to the patient
// named in form. Only the patient's doctorMessages array is written.
func (s *MessagingService) SubmitDoctorReply(ctx context.Context, doctorID primitive.ObjectID, form *validation.ContactPatient) (*models.Message, error) {
	if errs, ok := s.validator.Validate(form); !ok {
		return nil, apperror.Validation(errs)
	}
	patientID, err := primitive.ObjectIDFromHex(form.PatientID)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"patientId": "Patient id is invalid"})
	}

	msg := models.Message{
		DoctorID:  doctorID,
		PatientID: patientID,
		Reply:     form.ReplyMessage,
		Date:      s.now().UTC(),
	}

	if err := s.patients.AppendMessage(ctx, patientID, models.FieldDoctorMessages, msg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patientnotfound", "Patient not found")
		}
		return nil, apperror.Store(err, "Failed to deliver reply")
	}
	s.notifier.MessageDelivered(ctx, models.VariantPatient, msg)

	logger.FromContext(ctx, s.logger).Info("doctor reply delivered",
		slog.String("patient_id", patientID.Hex()),
		slog.String("doctor_id", doctorID.Hex()),
	)
	return &msg, nil
}
