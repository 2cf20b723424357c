package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/gateway"
	"medical-analysis-service/internal/usecase"
	"medical-analysis-service/pkg/response"
	"medical-analysis-service/pkg/validator"

	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	analysisUsecase usecase.PatientAnalysisUsecase
	validator       *validator.CustomValidator
	log             *logrus.Logger
}

func NewAnalysisHandler(analysisUsecase usecase.PatientAnalysisUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUsecase: analysisUsecase,
		validator:       validator,
		log:             log,
	}
}

func (h *AnalysisHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	analysis, err := h.analysisUsecase.Submit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownPatient):
			response.NotFound(w, err.Error())
		case errors.Is(err, gateway.ErrGeneration):
			// Nothing was persisted; the client may retry as-is.
			response.Error(w, http.StatusBadGateway, gateway.ErrGeneration.Error(), nil)
		default:
			h.log.Warnf("Failed to submit analysis: %+v", err)
			response.InternalServerError(w, "Failed to submit analysis")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Analysis created successfully", analysis)
}

func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.analysisUsecase.History(r.Context())
	if err != nil {
		h.log.Warnf("Failed to get analysis history: %+v", err)
		response.InternalServerError(w, "Failed to get analysis history")
		return
	}

	response.Success(w, http.StatusOK, "Analysis history retrieved successfully", analyses)
}
