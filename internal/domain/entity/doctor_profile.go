package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data.
// Every doctor-role user must have exactly one profile before reviewing
// records; a missing profile is a configuration error.
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization string    `gorm:"type:varchar(100);index" json:"specialization,omitempty"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:DoctorID" json:"assignments,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
