package entity

import (
	"time"

	"github.com/google/uuid"
)

// Assignment pairs a doctor with a patient and grants the doctor review
// rights over that patient's analysis records. The composite primary key
// prevents assigning the same doctor to the same patient twice.
type Assignment struct {
	DoctorID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	PatientID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`

	// Relationships
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}
