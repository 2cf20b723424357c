package repository

import (
	"time"

	"medical-analysis-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalysisRepository interface {
	Create(db *gorm.DB, record *entity.AnalysisRecord) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AnalysisRecord, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.AnalysisRecord, error)
	UpdateReview(db *gorm.DB, id uuid.UUID, status entity.AnalysisStatus, doctorNotes string, modifiedAt time.Time) (int64, error)
}
