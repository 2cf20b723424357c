package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseAnalysisStatus(t *testing.T) {
	valid := map[string]AnalysisStatus{
		"pending":     AnalysisStatusPending,
		"approved":    AnalysisStatusApproved,
		"disapproved": AnalysisStatusDisapproved,
	}
	for raw, want := range valid {
		got, err := ParseAnalysisStatus(raw)
		if err != nil {
			t.Errorf("ParseAnalysisStatus(%q) unexpected error: %v", raw, err)
		}
		if got != want {
			t.Errorf("ParseAnalysisStatus(%q) = %q, want %q", raw, got, want)
		}
	}

	invalid := []string{"", "Pending", "APPROVED", "rejected", "done", " pending"}
	for _, raw := range invalid {
		if _, err := ParseAnalysisStatus(raw); err == nil {
			t.Errorf("ParseAnalysisStatus(%q) expected error", raw)
		}
	}
}

func TestNewAnalysisTerms(t *testing.T) {
	id := uuid.New()
	rows := NewAnalysisTerms(id, []string{"fever", "chest pain"})

	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if row.AnalysisID != id {
			t.Errorf("row %d analysis id = %s, want %s", i, row.AnalysisID, id)
		}
		if row.Position != i {
			t.Errorf("row %d position = %d, want %d", i, row.Position, i)
		}
	}
	if rows[0].Term != "fever" || rows[1].Term != "chest pain" {
		t.Errorf("terms = %q, %q", rows[0].Term, rows[1].Term)
	}
}

func TestTermTextsPreservesOrder(t *testing.T) {
	record := &AnalysisRecord{
		Terms: []AnalysisTerm{
			{Position: 0, Term: "migraine"},
			{Position: 1, Term: "knee swelling"},
		},
	}
	texts := record.TermTexts()
	if len(texts) != 2 || texts[0] != "migraine" || texts[1] != "knee swelling" {
		t.Errorf("TermTexts = %v", texts)
	}
}
