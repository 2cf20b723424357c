package converter

import (
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Includes the doctor profile when one is attached.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      entity.RoleNameForID(user.RoleID),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			FullName:       user.DoctorProfile.FullName,
			Specialization: user.DoctorProfile.Specialization,
		}
	}

	return response
}

// PatientsToResponses converts assigned patient users to list entries.
func PatientsToResponses(patients []entity.User) []dto.AssignedPatientResponse {
	responses := make([]dto.AssignedPatientResponse, 0, len(patients))
	for _, p := range patients {
		responses = append(responses, dto.AssignedPatientResponse{
			ID:       p.ID,
			Username: p.Username,
		})
	}
	return responses
}
