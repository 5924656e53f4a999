package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant selects which account kind and which collection an operation targets.
type Variant string

const (
	VariantPatient Variant = "patient"
	VariantDoctor  Variant = "doctor"
)

func (v Variant) Valid() bool {
	return v == VariantPatient || v == VariantDoctor
}

// Collection is the store collection holding accounts of this variant.
func (v Variant) Collection() string {
	if v == VariantDoctor {
		return "docs"
	}
	return "users"
}

// Account is the shape shared by patients and doctors.
type Account struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash, never sent to clients
	City      string             `bson:"city" json:"city"`
	CreatedAt time.Time          `bson:"date" json:"date"`
}

// Base gives generic code access to the shared fields of either variant.
func (a *Account) Base() *Account { return a }

type Patient struct {
	Account        `bson:",inline"`
	YourMessages   []Message `bson:"yourMessages" json:"yourMessages"`
	DoctorMessages []Message `bson:"doctorMessages" json:"doctorMessages"`
}

func (*Patient) Variant() Variant { return VariantPatient }

type Doctor struct {
	Account         `bson:",inline"`
	Specialty       string    `bson:"special" json:"special"`
	Bio             string    `bson:"bio" json:"bio"`
	State           string    `bson:"state" json:"state"`
	PatientMessages []Message `bson:"patientMessages" json:"patientMessages"`
}

func (*Doctor) Variant() Variant { return VariantDoctor }

// Record is implemented by *Patient and *Doctor.
type Record interface {
	Base() *Account
	Variant() Variant
}

// Message array field names. Arrays are only ever appended to.
const (
	FieldYourMessages    = "yourMessages"
	FieldDoctorMessages  = "doctorMessages"
	FieldPatientMessages = "patientMessages"
)
