package usecase

import (
	"context"

	"medical-analysis-service/internal/converter"
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditUsecase interface {
	List(ctx context.Context) (*dto.AuditLogListResponse, error)
}

type auditUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditUsecase(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditUsecase {
	return &auditUsecase{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

// List returns the audit trail, most recent first.
func (u *auditUsecase) List(ctx context.Context) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
