package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-analysis-service/config"
	"medical-analysis-service/internal/analysis"
	httpdelivery "medical-analysis-service/internal/delivery/http"
	"medical-analysis-service/internal/delivery/http/handler"
	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/internal/gateway"
	"medical-analysis-service/internal/infrastructure/cache"
	"medical-analysis-service/internal/infrastructure/database"
	"medical-analysis-service/internal/repository"
	"medical-analysis-service/internal/service"
	"medical-analysis-service/internal/usecase"
	"medical-analysis-service/pkg/jwt"
	"medical-analysis-service/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Run wires the application together and blocks until shutdown.
func Run() {
	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %+v", err)
	}

	if cfg.App.MigrateOnStart {
		if err := database.RunMigrations(cfg.DB); err != nil {
			log.Fatalf("Failed to run migrations: %+v", err)
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %+v", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %+v", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	roleRepo := repository.NewRoleRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	analysisRepo := repository.NewAnalysisRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services and collaborators
	auditService := service.NewAuditService(db, log, auditLogRepo)
	extractor := analysis.NewTermExtractor(analysis.NewHeuristicAnalyzer())
	recommendationGateway := gateway.NewAnthropicGateway(cfg.LLM)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, roleRepo, auditService, jwtService, redisClient)
	assignmentUsecase := usecase.NewAssignmentUsecase(db, log, userRepo, doctorProfileRepo, assignmentRepo, auditService)
	analysisUsecase := usecase.NewPatientAnalysisUsecase(db, log, extractor, recommendationGateway, cfg.LLM.Timeout, userRepo, analysisRepo, auditService)
	reviewUsecase := usecase.NewDoctorReviewUsecase(db, log, doctorProfileRepo, assignmentRepo, analysisRepo, auditService)
	auditUsecase := usecase.NewAuditUsecase(db, log, auditLogRepo)

	// Delivery
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		AuthHandler:       handler.NewAuthHandler(authUsecase, jwtService, customValidator, log),
		AnalysisHandler:   handler.NewAnalysisHandler(analysisUsecase, customValidator, log),
		ReviewHandler:     handler.NewReviewHandler(reviewUsecase, customValidator, log),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentUsecase, customValidator, log),
		AuditHandler:      handler.NewAuditHandler(auditUsecase, log),
		AuthMiddleware:    authMiddleware,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %+v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Server forced to shutdown: %+v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	redisClient.Close()

	log.Info("Server exited")
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
	return log
}
