package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a message array. Patient messages fill Name, Email
// and Description; doctor replies fill Reply.
type Message struct {
	DoctorID    primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID   primitive.ObjectID `bson:"patientId" json:"patientId"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Reply       string             `bson:"reply,omitempty" json:"reply,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
}
