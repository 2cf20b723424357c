package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalysisStatus represents the review status of an analysis record
type AnalysisStatus string

const (
	AnalysisStatusPending     AnalysisStatus = "pending"
	AnalysisStatusApproved    AnalysisStatus = "approved"
	AnalysisStatusDisapproved AnalysisStatus = "disapproved"
)

// ParseAnalysisStatus validates a raw status string. Every pairwise
// transition between the three statuses is permitted, so validation is the
// only gate: there is no terminal state and doctors may revise a prior
// decision at any time.
func ParseAnalysisStatus(raw string) (AnalysisStatus, error) {
	switch AnalysisStatus(raw) {
	case AnalysisStatusPending, AnalysisStatusApproved, AnalysisStatusDisapproved:
		return AnalysisStatus(raw), nil
	}
	return "", fmt.Errorf("invalid analysis status %q", raw)
}

// AnalysisRecord represents one submitted narrative: its extracted terms,
// templated summary and generated recommendations, plus the review state.
// Core fields are immutable after creation; only Status and DoctorNotes are
// mutated, by doctor review, each update stamping LastModifiedAt.
type AnalysisRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	Summary         string         `gorm:"type:text;not null" json:"summary"`
	Recommendations string         `gorm:"type:text" json:"recommendations"`
	Status          AnalysisStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DoctorNotes     string         `gorm:"type:text" json:"doctor_notes,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	LastModifiedAt  time.Time      `gorm:"autoUpdateTime" json:"last_modified_at"`

	// Relationships
	Patient User           `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Terms   []AnalysisTerm `gorm:"foreignKey:AnalysisID" json:"terms,omitempty"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the record is awaiting review
func (r *AnalysisRecord) IsPending() bool {
	return r.Status == AnalysisStatusPending
}

// IsApproved checks if the record has been approved
func (r *AnalysisRecord) IsApproved() bool {
	return r.Status == AnalysisStatusApproved
}

// IsDisapproved checks if the record has been disapproved
func (r *AnalysisRecord) IsDisapproved() bool {
	return r.Status == AnalysisStatusDisapproved
}

// TermTexts returns the extracted terms in stored order.
func (r *AnalysisRecord) TermTexts() []string {
	texts := make([]string, 0, len(r.Terms))
	for _, t := range r.Terms {
		texts = append(texts, t.Term)
	}
	return texts
}

// AnalysisTerm is one extracted term of an analysis record. Terms are a
// genuine ordered list keyed by Position, not a comma-joined display string;
// rendering happens at the delivery boundary only.
type AnalysisTerm struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Position   int       `gorm:"not null" json:"position"`
	Term       string    `gorm:"type:varchar(255);not null" json:"term"`
}

func (AnalysisTerm) TableName() string {
	return "analysis_terms"
}

// NewAnalysisTerms builds the ordered term rows for a record.
func NewAnalysisTerms(analysisID uuid.UUID, terms []string) []AnalysisTerm {
	rows := make([]AnalysisTerm, 0, len(terms))
	for i, term := range terms {
		rows = append(rows, AnalysisTerm{
			AnalysisID: analysisID,
			Position:   i,
			Term:       term,
		})
	}
	return rows
}
