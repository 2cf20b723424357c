package converter

import (
	"reflect"
	"testing"
	"time"

	"medical-analysis-service/internal/domain/entity"

	"github.com/google/uuid"
)

func TestAnalysisToResponse(t *testing.T) {
	now := time.Now().UTC()
	record := &entity.AnalysisRecord{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		Summary:         "summary",
		Recommendations: "recommendations",
		Status:          entity.AnalysisStatusPending,
		CreatedAt:       now,
		LastModifiedAt:  now,
	}
	record.Terms = entity.NewAnalysisTerms(record.ID, []string{"WHO", "chest pain"})

	resp := AnalysisToResponse(record)

	if !reflect.DeepEqual(resp.Terms, []string{"WHO", "chest pain"}) {
		t.Errorf("terms = %v", resp.Terms)
	}
	if resp.TermsDisplay != "WHO, chest pain" {
		t.Errorf("terms display = %q", resp.TermsDisplay)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestAnalysisToResponseNoTerms(t *testing.T) {
	record := &entity.AnalysisRecord{ID: uuid.New(), Status: entity.AnalysisStatusApproved}

	resp := AnalysisToResponse(record)
	if len(resp.Terms) != 0 {
		t.Errorf("terms = %v, want empty", resp.Terms)
	}
	if resp.TermsDisplay != "" {
		t.Errorf("terms display = %q, want empty", resp.TermsDisplay)
	}
}

func TestAnalysisToResponseNil(t *testing.T) {
	if resp := AnalysisToResponse(nil); resp != nil {
		t.Errorf("response = %+v, want nil", resp)
	}
}
