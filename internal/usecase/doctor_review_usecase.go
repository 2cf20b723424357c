package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-analysis-service/internal/converter"
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/domain/repository"
	"medical-analysis-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnknownAnalysis = errors.New("analysis record not found")
	ErrInvalidStatus   = errors.New("invalid review status")
	// ErrNotAssigned rejects review actions by doctors without an assignment
	// to the record's owning patient. The predecessor system let any doctor
	// who could select a patient review their records; requiring the
	// assignment at update time closes that gap.
	ErrNotAssigned = errors.New("doctor is not assigned to this patient")
)

type DoctorReviewUsecase interface {
	ListPatientRecords(ctx context.Context, patientID uuid.UUID) (*dto.AnalysisListResponse, error)
	UpdateReview(ctx context.Context, analysisID uuid.UUID, req *dto.ReviewRequest) (*dto.AnalysisResponse, error)
}

type doctorReviewUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	assignmentRepo    repository.AssignmentRepository
	analysisRepo      repository.AnalysisRepository
	auditService      service.AuditService
}

func NewDoctorReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	assignmentRepo repository.AssignmentRepository,
	analysisRepo repository.AnalysisRepository,
	auditService service.AuditService,
) DoctorReviewUsecase {
	return &doctorReviewUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		assignmentRepo:    assignmentRepo,
		analysisRepo:      analysisRepo,
		auditService:      auditService,
	}
}

// ListPatientRecords returns a patient's records, most recent first, for a
// doctor assigned to that patient.
func (u *doctorReviewUsecase) ListPatientRecords(ctx context.Context, patientID uuid.UUID) (*dto.AnalysisListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	db := u.db.WithContext(ctx)

	assigned, err := u.assignmentRepo.Exists(db, doctorID, patientID)
	if err != nil {
		u.log.Warnf("Failed to check assignment: %+v", err)
		return nil, err
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	records, err := u.analysisRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to list analyses for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AnalysisListResponse{
		Analyses: converter.AnalysesToResponses(records),
		Total:    len(records),
	}, nil
}

// UpdateReview applies a doctor's review decision to a record. All six
// transitions between pending, approved and disapproved are permitted, so
// the only status gate is validity; authorization requires an assignment
// between the acting doctor and the record's owner. Concurrent updates
// resolve last-write-wins at the store layer.
func (u *doctorReviewUsecase) UpdateReview(ctx context.Context, analysisID uuid.UUID, req *dto.ReviewRequest) (*dto.AnalysisResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	status, err := entity.ParseAnalysisStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorProfileMissing
	}

	record, err := u.analysisRepo.FindByID(tx, analysisID)
	if err != nil {
		u.log.Warnf("Failed to find analysis %s: %+v", analysisID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrUnknownAnalysis
	}

	assigned, err := u.assignmentRepo.Exists(tx, doctorID, record.PatientID)
	if err != nil {
		u.log.Warnf("Failed to check assignment: %+v", err)
		return nil, err
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	previousStatus := record.Status
	modifiedAt := time.Now().UTC()

	rows, err := u.analysisRepo.UpdateReview(tx, analysisID, status, req.DoctorNotes, modifiedAt)
	if err != nil {
		u.log.Warnf("Failed to update review for %s: %+v", analysisID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrUnknownAnalysis
	}

	if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionAnalysisReview, "analysis_record", analysisID.String(),
		map[string]interface{}{"status": string(previousStatus)},
		map[string]interface{}{"status": string(status), "doctor_notes": req.DoctorNotes},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	record.Status = status
	record.DoctorNotes = req.DoctorNotes
	record.LastModifiedAt = modifiedAt

	u.log.Infof("Review updated: analysis=%s, doctor=%s, status=%s", analysisID, doctorID, status)
	return converter.AnalysisToResponse(record), nil
}
