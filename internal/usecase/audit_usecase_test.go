package usecase

import (
	"context"
	"testing"
	"time"

	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/repository"
)

func TestAuditListMostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	uc := NewAuditUsecase(db, log, repository.NewAuditLogRepository())

	entries := []entity.AuditLog{
		{Action: entity.AuditActionUserRegister, CreatedAt: time.Now().Add(-2 * time.Hour).UTC()},
		{Action: entity.AuditActionAnalysisCreate, CreatedAt: time.Now().Add(-time.Hour).UTC(), Metadata: entity.JSON{"term_count": 2}},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("failed to seed audit log: %v", err)
		}
	}

	resp, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Logs[0].Action != entity.AuditActionAnalysisCreate {
		t.Errorf("first action = %q, want most recent", resp.Logs[0].Action)
	}
	if resp.Logs[0].Metadata == nil {
		t.Error("metadata not round-tripped")
	}
}

func TestAuditListEmpty(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuditUsecase(db, newTestLogger(), repository.NewAuditLogRepository())

	resp, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}
