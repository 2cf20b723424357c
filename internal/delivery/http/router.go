package http

import (
	"net/http"

	"medical-analysis-service/internal/delivery/http/handler"
	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/pkg/response"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	AnalysisHandler   *handler.AnalysisHandler
	ReviewHandler     *handler.ReviewHandler
	AssignmentHandler *handler.AssignmentHandler
	AuditHandler      *handler.AuditHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewCORSMiddleware().Handle)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, http.StatusOK, "OK", nil)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public auth endpoints
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", cfg.AuthHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", cfg.AuthHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", cfg.AuthHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", cfg.AuthHandler.RefreshToken).Methods(http.MethodPost)

	// Authenticated endpoints
	protected := api.PathPrefix("").Subrouter()
	protected.Use(cfg.AuthMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", cfg.AuthHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", cfg.AuthHandler.Me).Methods(http.MethodGet)

	// Patient endpoints
	patient := protected.PathPrefix("").Subrouter()
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/analyses", cfg.AnalysisHandler.Submit).Methods(http.MethodPost)
	patient.HandleFunc("/analyses", cfg.AnalysisHandler.History).Methods(http.MethodGet)

	// Doctor endpoints
	doctor := protected.PathPrefix("").Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/patients", cfg.AssignmentHandler.ListAssignedPatients).Methods(http.MethodGet)
	doctor.HandleFunc("/patients/{id}/analyses", cfg.ReviewHandler.ListPatientRecords).Methods(http.MethodGet)
	doctor.HandleFunc("/analyses/{id}/review", cfg.ReviewHandler.UpdateReview).Methods(http.MethodPut)

	// Assignment management
	assignments := protected.PathPrefix("").Subrouter()
	assignments.Use(middleware.RequireAdminOrDoctor)
	assignments.HandleFunc("/assignments", cfg.AssignmentHandler.Create).Methods(http.MethodPost)

	// Admin endpoints
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", cfg.AuditHandler.List).Methods(http.MethodGet)

	return r
}
