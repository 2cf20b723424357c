package handler

import (
	"net/http"

	"medical-analysis-service/internal/usecase"
	"medical-analysis-service/pkg/response"

	"github.com/sirupsen/logrus"
)

type AuditHandler struct {
	auditUsecase usecase.AuditUsecase
	log          *logrus.Logger
}

func NewAuditHandler(auditUsecase usecase.AuditUsecase, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{
		auditUsecase: auditUsecase,
		log:          log,
	}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditUsecase.List(r.Context())
	if err != nil {
		h.log.Warnf("Failed to list audit logs: %+v", err)
		response.InternalServerError(w, "Failed to list audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
