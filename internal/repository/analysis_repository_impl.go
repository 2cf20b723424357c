package repository

import (
	"errors"
	"time"

	"medical-analysis-service/internal/domain/entity"
	domainRepo "medical-analysis-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analysisRepository struct{}

func NewAnalysisRepository() domainRepo.AnalysisRepository {
	return &analysisRepository{}
}

// Create inserts the record and its ordered terms. gorm persists the Terms
// association in the same statement batch, so caller transactions keep the
// record and its term rows atomic.
func (r *analysisRepository) Create(db *gorm.DB, record *entity.AnalysisRecord) error {
	return db.Create(record).Error
}

func (r *analysisRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AnalysisRecord, error) {
	var record entity.AnalysisRecord
	err := db.Preload("Terms", func(db *gorm.DB) *gorm.DB {
		return db.Order("analysis_terms.position ASC")
	}).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindByPatientID returns the patient's history most recent first. The
// created_at DESC ordering is a contract relied on by the patient view.
func (r *analysisRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.AnalysisRecord, error) {
	var records []entity.AnalysisRecord
	err := db.Preload("Terms", func(db *gorm.DB) *gorm.DB {
		return db.Order("analysis_terms.position ASC")
	}).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateReview applies a review decision in a single UPDATE. Re-applying the
// same status and notes is observationally a no-op apart from the advancing
// last_modified_at stamp. Returns affected rows: 0 means the id is unknown.
func (r *analysisRepository) UpdateReview(db *gorm.DB, id uuid.UUID, status entity.AnalysisStatus, doctorNotes string, modifiedAt time.Time) (int64, error) {
	result := db.Model(&entity.AnalysisRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"doctor_notes":     doctorNotes,
			"last_modified_at": modifiedAt,
		})
	return result.RowsAffected, result.Error
}
