package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestReviewUsecase(t *testing.T) (DoctorReviewUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	uc := NewDoctorReviewUsecase(db, log,
		repository.NewDoctorProfileRepository(),
		repository.NewAssignmentRepository(),
		repository.NewAnalysisRepository(),
		newTestAuditService(db, log),
	)
	return uc, db
}

// reviewFixture is a doctor assigned to a patient with one pending record.
type reviewFixture struct {
	doctor  *entity.User
	patient *entity.User
	record  *entity.AnalysisRecord
}

func newReviewFixture(t *testing.T, db *gorm.DB) reviewFixture {
	t.Helper()

	doctor := createTestDoctor(t, db, "drhouse")
	patient := createTestUser(t, db, "alice", entity.RoleIDPatient)
	if err := db.Create(&entity.Assignment{DoctorID: doctor.ID, PatientID: patient.ID}).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	record := createTestRecord(t, db, patient.ID, []string{"fever"}, time.Now().Add(-time.Hour).UTC())
	return reviewFixture{doctor: doctor, patient: patient, record: record}
}

func TestUpdateReviewApproves(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)

	resp, err := uc.UpdateReview(ctxWithUser(fx.doctor.ID), fx.record.ID, &dto.ReviewRequest{
		Status:      "approved",
		DoctorNotes: "Reviewed, looks consistent.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.AnalysisStatusApproved) {
		t.Errorf("status = %q, want approved", resp.Status)
	}
	if resp.DoctorNotes != "Reviewed, looks consistent." {
		t.Errorf("doctor notes = %q", resp.DoctorNotes)
	}

	stored, err := repository.NewAnalysisRepository().FindByID(db, fx.record.ID)
	if err != nil || stored == nil {
		t.Fatalf("stored record = %v, err = %v", stored, err)
	}
	if stored.Status != entity.AnalysisStatusApproved {
		t.Errorf("stored status = %q", stored.Status)
	}
	if stored.DoctorNotes != "Reviewed, looks consistent." {
		t.Errorf("stored notes = %q", stored.DoctorNotes)
	}
	if !stored.LastModifiedAt.After(fx.record.CreatedAt) {
		t.Errorf("last modified %v not after created %v", stored.LastModifiedAt, fx.record.CreatedAt)
	}

	var audits int64
	db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionAnalysisReview).Count(&audits)
	if audits != 1 {
		t.Errorf("audit rows = %d, want 1", audits)
	}
}

func TestUpdateReviewAllTransitions(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)
	ctx := ctxWithUser(fx.doctor.ID)

	statuses := []entity.AnalysisStatus{
		entity.AnalysisStatusPending,
		entity.AnalysisStatusApproved,
		entity.AnalysisStatusDisapproved,
	}
	// No transition is terminal: every ordered pair of distinct statuses
	// must be accepted.
	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				if err := db.Model(&entity.AnalysisRecord{}).Where("id = ?", fx.record.ID).
					Update("status", from).Error; err != nil {
					t.Fatalf("failed to set initial status: %v", err)
				}

				resp, err := uc.UpdateReview(ctx, fx.record.ID, &dto.ReviewRequest{Status: string(to)})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if resp.Status != string(to) {
					t.Errorf("status = %q, want %q", resp.Status, to)
				}
			})
		}
	}
}

func TestUpdateReviewInvalidStatus(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)

	for _, raw := range []string{"rejected", "Approved", ""} {
		_, err := uc.UpdateReview(ctxWithUser(fx.doctor.ID), fx.record.ID, &dto.ReviewRequest{Status: raw})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("UpdateReview(%q): error = %v, want ErrInvalidStatus", raw, err)
		}
	}

	// Record untouched.
	stored, _ := repository.NewAnalysisRepository().FindByID(db, fx.record.ID)
	if stored.Status != entity.AnalysisStatusPending || stored.DoctorNotes != "" {
		t.Errorf("record changed: status=%q notes=%q", stored.Status, stored.DoctorNotes)
	}
}

func TestUpdateReviewUnknownAnalysis(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)

	_, err := uc.UpdateReview(ctxWithUser(fx.doctor.ID), uuid.New(), &dto.ReviewRequest{Status: "approved"})
	if !errors.Is(err, ErrUnknownAnalysis) {
		t.Errorf("error = %v, want ErrUnknownAnalysis", err)
	}
}

func TestUpdateReviewUnassignedDoctor(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)
	stranger := createTestDoctor(t, db, "drwho")

	_, err := uc.UpdateReview(ctxWithUser(stranger.ID), fx.record.ID, &dto.ReviewRequest{Status: "approved"})
	if !errors.Is(err, ErrNotAssigned) {
		t.Errorf("error = %v, want ErrNotAssigned", err)
	}

	stored, _ := repository.NewAnalysisRepository().FindByID(db, fx.record.ID)
	if stored.Status != entity.AnalysisStatusPending {
		t.Errorf("record changed by unassigned doctor: %q", stored.Status)
	}
}

func TestUpdateReviewDoctorWithoutProfile(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)
	// Doctor role, assignment present, but no profile row.
	bare := createTestUser(t, db, "drnoone", entity.RoleIDDoctor)
	if err := db.Create(&entity.Assignment{DoctorID: bare.ID, PatientID: fx.patient.ID}).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	_, err := uc.UpdateReview(ctxWithUser(bare.ID), fx.record.ID, &dto.ReviewRequest{Status: "approved"})
	if !errors.Is(err, ErrDoctorProfileMissing) {
		t.Errorf("error = %v, want ErrDoctorProfileMissing", err)
	}
}

func TestListPatientRecords(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)
	createTestRecord(t, db, fx.patient.ID, []string{"swelling"}, time.Now().Add(-30*time.Minute).UTC())

	resp, err := uc.ListPatientRecords(ctxWithUser(fx.doctor.ID), fx.patient.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if !resp.Analyses[0].CreatedAt.After(resp.Analyses[1].CreatedAt) {
		t.Errorf("records not newest first: %v, %v", resp.Analyses[0].CreatedAt, resp.Analyses[1].CreatedAt)
	}
}

func TestListPatientRecordsRequiresAssignment(t *testing.T) {
	uc, db := newTestReviewUsecase(t)
	fx := newReviewFixture(t, db)
	stranger := createTestDoctor(t, db, "drwho")

	_, err := uc.ListPatientRecords(ctxWithUser(stranger.ID), fx.patient.ID)
	if !errors.Is(err, ErrNotAssigned) {
		t.Errorf("error = %v, want ErrNotAssigned", err)
	}
}
