package converter

import (
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/entity"
)

// AuditLogsToResponses converts audit trail entries, preserving order.
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, dto.AuditLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return responses
}
