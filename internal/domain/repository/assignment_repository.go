package repository

import (
	"medical-analysis-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(db *gorm.DB, assignment *entity.Assignment) error
	Exists(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error)
	FindPatientsByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.User, error)
}
