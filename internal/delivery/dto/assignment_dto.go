package dto

import "github.com/google/uuid"

// Request DTOs

type CreateAssignmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
}

// Response DTOs

type AssignedPatientResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type AssignedPatientListResponse struct {
	Patients []AssignedPatientResponse `json:"patients"`
	Total    int                       `json:"total"`
}
