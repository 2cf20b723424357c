package converter

import (
	"strings"

	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/entity"
)

// AnalysisToResponse converts an AnalysisRecord entity to its DTO. Terms
// stay a structured ordered list; the comma-joined TermsDisplay string is
// produced here, at the delivery boundary, and nowhere else.
func AnalysisToResponse(record *entity.AnalysisRecord) *dto.AnalysisResponse {
	if record == nil {
		return nil
	}

	terms := record.TermTexts()
	return &dto.AnalysisResponse{
		ID:              record.ID,
		PatientID:       record.PatientID,
		Terms:           terms,
		TermsDisplay:    strings.Join(terms, ", "),
		Summary:         record.Summary,
		Recommendations: record.Recommendations,
		Status:          string(record.Status),
		DoctorNotes:     record.DoctorNotes,
		CreatedAt:       record.CreatedAt,
		LastModifiedAt:  record.LastModifiedAt,
	}
}

// AnalysesToResponses converts a list of records, preserving order.
func AnalysesToResponses(records []entity.AnalysisRecord) []dto.AnalysisResponse {
	responses := make([]dto.AnalysisResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *AnalysisToResponse(&records[i]))
	}
	return responses
}
