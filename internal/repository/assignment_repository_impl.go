package repository

import (
	"medical-analysis-service/internal/domain/entity"
	domainRepo "medical-analysis-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assignmentRepository struct{}

func NewAssignmentRepository() domainRepo.AssignmentRepository {
	return &assignmentRepository{}
}

func (r *assignmentRepository) Create(db *gorm.DB, assignment *entity.Assignment) error {
	return db.Create(assignment).Error
}

func (r *assignmentRepository) Exists(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.Assignment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPatientsByDoctorID returns the assigned patients ordered by username.
// Usernames are unique, so the ordering is deterministic for a fixed input.
func (r *assignmentRepository) FindPatientsByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.User, error) {
	var patients []entity.User
	err := db.Model(&entity.User{}).
		Joins("JOIN assignments ON assignments.patient_id = users.id").
		Where("assignments.doctor_id = ?", doctorID).
		Order("users.username ASC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
