package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/usecase"
	"medical-analysis-service/pkg/response"
	"medical-analysis-service/pkg/validator"

	"github.com/sirupsen/logrus"
)

type AssignmentHandler struct {
	assignmentUsecase usecase.AssignmentUsecase
	validator         *validator.CustomValidator
	log               *logrus.Logger
}

func NewAssignmentHandler(assignmentUsecase usecase.AssignmentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentUsecase: assignmentUsecase,
		validator:         validator,
		log:               log,
	}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.assignmentUsecase.Assign(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownDoctor), errors.Is(err, usecase.ErrUnknownPatient):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrDoctorProfileMissing):
			response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
		case errors.Is(err, usecase.ErrDuplicateAssignment):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			h.log.Warnf("Failed to create assignment: %+v", err)
			response.InternalServerError(w, "Failed to create assignment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Assignment created successfully", nil)
}

func (h *AssignmentHandler) ListAssignedPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.assignmentUsecase.ListAssignedPatients(r.Context())
	if err != nil {
		h.log.Warnf("Failed to list assigned patients: %+v", err)
		response.InternalServerError(w, "Failed to list assigned patients")
		return
	}

	response.Success(w, http.StatusOK, "Assigned patients retrieved successfully", patients)
}
