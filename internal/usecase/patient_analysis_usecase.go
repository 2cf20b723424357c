package usecase

import (
	"context"
	"errors"
	"time"

	"medical-analysis-service/internal/analysis"
	"medical-analysis-service/internal/converter"
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/domain/repository"
	"medical-analysis-service/internal/gateway"
	"medical-analysis-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientAnalysisUsecase interface {
	Submit(ctx context.Context, req *dto.SubmitAnalysisRequest) (*dto.AnalysisResponse, error)
	History(ctx context.Context) (*dto.AnalysisListResponse, error)
}

type patientAnalysisUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	extractor      *analysis.TermExtractor
	recommendation gateway.RecommendationGateway
	genTimeout     time.Duration
	userRepo       repository.UserRepository
	analysisRepo   repository.AnalysisRepository
	auditService   service.AuditService
}

func NewPatientAnalysisUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	extractor *analysis.TermExtractor,
	recommendation gateway.RecommendationGateway,
	genTimeout time.Duration,
	userRepo repository.UserRepository,
	analysisRepo repository.AnalysisRepository,
	auditService service.AuditService,
) PatientAnalysisUsecase {
	return &patientAnalysisUsecase{
		db:             db,
		log:            log,
		extractor:      extractor,
		recommendation: recommendation,
		genTimeout:     genTimeout,
		userRepo:       userRepo,
		analysisRepo:   analysisRepo,
		auditService:   auditService,
	}
}

// Submit runs the analysis pipeline for the logged-in patient:
// extract terms, compose the summary, generate recommendations, then persist
// record and terms in one transaction. The gateway call happens before any
// write, so a generation failure or cancellation leaves nothing persisted
// and the caller may simply retry.
func (u *patientAnalysisUsecase) Submit(ctx context.Context, req *dto.SubmitAnalysisRequest) (*dto.AnalysisResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() {
		return nil, ErrUnknownPatient
	}

	terms := u.extractor.Extract(req.Text)
	summary := analysis.ComposeSummary(terms)

	genCtx, cancel := context.WithTimeout(ctx, u.genTimeout)
	defer cancel()

	recommendations, err := u.recommendation.Generate(genCtx, summary)
	if err != nil {
		u.log.Warnf("Recommendation generation failed for patient %s: %+v", patientID, err)
		return nil, err
	}

	record := &entity.AnalysisRecord{
		ID:              uuid.New(),
		PatientID:       patientID,
		Summary:         summary,
		Recommendations: recommendations,
		Status:          entity.AnalysisStatusPending,
	}
	record.Terms = entity.NewAnalysisTerms(record.ID, terms)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.analysisRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create analysis record: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAnalysisCreate, "analysis_record", record.ID.String(), map[string]interface{}{
		"term_count": len(terms),
		"status":     string(record.Status),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Analysis created: id=%s, patient=%s, terms=%d", record.ID, patientID, len(terms))
	return converter.AnalysisToResponse(record), nil
}

// History returns the logged-in patient's records, most recent first.
func (u *patientAnalysisUsecase) History(ctx context.Context) (*dto.AnalysisListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	records, err := u.analysisRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list analyses for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AnalysisListResponse{
		Analyses: converter.AnalysesToResponses(records),
		Total:    len(records),
	}, nil
}
