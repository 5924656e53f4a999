// Package validation checks registration and login submissions before they
// reach the store. Rules live in struct tags; client-facing wording lives in
// a message table keyed by "field.tag".
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBcryptBytes is the longest input bcrypt accepts. max= counts runes, so
// multi-byte passwords can pass it and still be too long to hash.
const maxBcryptBytes = 72

// Form is a submission that can be validated.
type Form interface {
	// Normalize trims surrounding whitespace so blank input counts as missing.
	Normalize()
}

type PatientRegistration struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=30,bcrypt"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	City      string `json:"city" validate:"required"`
}

func (f *PatientRegistration) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(f.City)
}

type DoctorRegistration struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=30,bcrypt"`
	Specialty string `json:"special" validate:"required"`
	Bio       string `json:"bio" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
}

func (f *DoctorRegistration) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Specialty = strings.TrimSpace(f.Specialty)
	f.Bio = strings.TrimSpace(f.Bio)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *Login) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// ContactDoctor is a patient's message to a doctor.
type ContactDoctor struct {
	DoctorID    string `json:"doctorId" validate:"required,mongodb"`
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Description string `json:"description" validate:"required"`
}

func (f *ContactDoctor) Normalize() {
	f.DoctorID = strings.TrimSpace(f.DoctorID)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Description = strings.TrimSpace(f.Description)
}

// ContactPatient is a doctor's reply to a patient.
type ContactPatient struct {
	PatientID    string `json:"patientId" validate:"required,mongodb"`
	ReplyMessage string `json:"replyMessage" validate:"required"`
}

func (f *ContactPatient) Normalize() {
	f.PatientID = strings.TrimSpace(f.PatientID)
	f.ReplyMessage = strings.TrimSpace(f.ReplyMessage)
}

type CityQuery struct {
	City string `json:"city" validate:"required"`
}

func (f *CityQuery) Normalize() {
	f.City = strings.TrimSpace(f.City)
}

// DefaultMessages is the wording returned to the registration and login forms.
var DefaultMessages = map[string]string{
	"name.required":      "Name field is required",
	"email.required":     "Email field is required",
	"email.email":        "Email is invalid",
	"password.required":  "Password field is required",
	"password.min":       "Password must be at least 6 characters",
	"password.max":       "Password must be at most 30 characters",
	"password.bcrypt":    "Password must be at most 72 bytes",
	"password2.required": "Confirm password field is required",
	"password2.eqfield":  "Passwords must match",
	"city.required":      "City field is required",
	"special.required":   "Specialty field is required",
	"bio.required":       "Bio field is required",
	"state.required":     "State field is required",

	"doctorId.required":     "Doctor id is required",
	"doctorId.mongodb":      "Doctor id is invalid",
	"patientId.required":    "Patient id is required",
	"patientId.mongodb":     "Patient id is invalid",
	"description.required":  "Description field is required",
	"replyMessage.required": "Reply message is required",
}

type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// New returns a Validator using DefaultMessages.
func New() *Validator {
	return NewWithMessages(DefaultMessages)
}

// NewWithMessages returns a Validator with a custom message table. Missing
// keys fall back to "<field> is invalid".
func NewWithMessages(messages map[string]string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bcrypt", bcryptLength)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, messages: messages}
}

// Validate normalizes form and returns the first failing rule per field.
// It has no side effects beyond normalization.
func (v *Validator) Validate(form Form) (map[string]string, bool) {
	form.Normalize()

	errs := map[string]string{}
	err := v.validate.Struct(form)
	if err == nil {
		return errs, true
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["error"] = err.Error()
		return errs, false
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = v.message(field, fe.Tag())
	}
	return errs, len(errs) == 0
}

func (v *Validator) message(field, tag string) string {
	if msg, ok := v.messages[field+"."+tag]; ok {
		return msg
	}
	return field + " is invalid"
}

func bcryptLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxBcryptBytes
}
