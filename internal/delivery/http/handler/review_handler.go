package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/usecase"
	"medical-analysis-service/pkg/response"
	"medical-analysis-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ReviewHandler struct {
	reviewUsecase usecase.DoctorReviewUsecase
	validator     *validator.CustomValidator
	log           *logrus.Logger
}

func NewReviewHandler(reviewUsecase usecase.DoctorReviewUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
		log:           log,
	}
}

func (h *ReviewHandler) ListPatientRecords(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	analyses, err := h.reviewUsecase.ListPatientRecords(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotAssigned) {
			response.Forbidden(w, err.Error())
			return
		}
		h.log.Warnf("Failed to list patient records: %+v", err)
		response.InternalServerError(w, "Failed to list patient records")
		return
	}

	response.Success(w, http.StatusOK, "Patient records retrieved successfully", analyses)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	analysisID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid analysis ID", nil)
		return
	}

	var req dto.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	analysis, err := h.reviewUsecase.UpdateReview(r.Context(), analysisID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrUnknownAnalysis):
			response.NotFound(w, err.Error())
		case errors.Is(err, usecase.ErrNotAssigned):
			response.Forbidden(w, err.Error())
		case errors.Is(err, usecase.ErrDoctorProfileMissing):
			response.Forbidden(w, err.Error())
		default:
			h.log.Warnf("Failed to update review: %+v", err)
			response.InternalServerError(w, "Failed to update review")
		}
		return
	}

	response.Success(w, http.StatusOK, "Review updated successfully", analysis)
}
