package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SubmitAnalysisRequest struct {
	Text string `json:"text" validate:"required"`
}

type ReviewRequest struct {
	Status      string `json:"status" validate:"required"`
	DoctorNotes string `json:"doctor_notes" validate:"omitempty"`
}

// Response DTOs

type AnalysisResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	Terms           []string  `json:"terms"`
	TermsDisplay    string    `json:"terms_display"`
	Summary         string    `json:"summary"`
	Recommendations string    `json:"recommendations"`
	Status          string    `json:"status"`
	DoctorNotes     string    `json:"doctor_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastModifiedAt  time.Time `json:"last_modified_at"`
}

type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int                `json:"total"`
}
