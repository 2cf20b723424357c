package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/repository"
	"medical-analysis-service/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema and
// role seeds. MaxOpenConns(1) keeps every session on the same connection, so
// the in-memory database is shared across the test's transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.Assignment{},
		&entity.AnalysisRecord{},
		&entity.AnalysisTerm{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient},
	}
	if err := db.Create(&roles).Error; err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAuditService(db *gorm.DB, log *logrus.Logger) service.AuditService {
	return service.NewAuditService(db, log, repository.NewAuditLogRepository())
}

// ctxWithUser mimics the authentication middleware by injecting the acting
// identity into the context.
func ctxWithUser(id uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, id)
}

func createTestUser(t *testing.T, db *gorm.DB, username string, roleID int) *entity.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &entity.User{
		Username: username,
		Password: string(hashed),
		RoleID:   roleID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createTestDoctor(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	doctor := createTestUser(t, db, username, entity.RoleIDDoctor)
	profile := &entity.DoctorProfile{
		UserID:         doctor.ID,
		FullName:       "Dr " + username,
		Specialization: "general",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create doctor profile: %v", err)
	}
	return doctor
}

func createTestRecord(t *testing.T, db *gorm.DB, patientID uuid.UUID, terms []string, createdAt time.Time) *entity.AnalysisRecord {
	t.Helper()

	record := &entity.AnalysisRecord{
		ID:              uuid.New(),
		PatientID:       patientID,
		Summary:         "test summary",
		Recommendations: "test recommendations",
		Status:          entity.AnalysisStatusPending,
		CreatedAt:       createdAt,
		LastModifiedAt:  createdAt,
	}
	record.Terms = entity.NewAnalysisTerms(record.ID, terms)
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create analysis record: %v", err)
	}
	return record
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
