package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-analysis-service/config"
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/repository"
	"medical-analysis-service/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthUsecase(t *testing.T) (AuthUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	// Token storage is not exercised here; the paths under test fail or
	// return before any token is persisted.
	uc := NewAuthUsecase(db, log,
		repository.NewUserRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewRoleRepository(),
		newTestAuditService(db, log),
		jwtService,
		nil,
	)
	return uc, db
}

func TestRegisterPatient(t *testing.T) {
	uc, db := newTestAuthUsecase(t)

	resp, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Username != "alice" || resp.Role != entity.RolePatient {
		t.Errorf("response = %+v", resp)
	}

	var user entity.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	var audits int64
	db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionUserRegister).Count(&audits)
	if audits != 1 {
		t.Errorf("audit rows = %d, want 1", audits)
	}
}

func TestRegisterPatientDuplicateUsername(t *testing.T) {
	uc, db := newTestAuthUsecase(t)
	createTestUser(t, db, "alice", entity.RoleIDPatient)

	_, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Username: "alice",
		Password: "secret123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("error = %v, want ErrUsernameTaken", err)
	}
	if got := countRows(t, db, &entity.User{}); got != 1 {
		t.Errorf("user rows = %d, want 1", got)
	}
}

func TestRegisterPasswordLength(t *testing.T) {
	uc, _ := newTestAuthUsecase(t)

	_, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Username: "bob",
		Password: "12345",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("5-char password: error = %v, want ErrWeakPassword", err)
	}

	// Exactly six characters is the minimum.
	if _, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Username: "bob",
		Password: "123456",
	}); err != nil {
		t.Errorf("6-char password: unexpected error: %v", err)
	}
}

func TestRegisterDoctorCreatesProfile(t *testing.T) {
	uc, db := newTestAuthUsecase(t)

	resp, err := uc.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Username:       "drhouse",
		Password:       "secret123",
		FullName:       "Gregory House",
		Specialization: "diagnostics",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Role != entity.RoleDoctor {
		t.Errorf("role = %q, want %q", resp.Role, entity.RoleDoctor)
	}
	if resp.DoctorProfile == nil || resp.DoctorProfile.FullName != "Gregory House" {
		t.Errorf("doctor profile = %+v", resp.DoctorProfile)
	}

	var profile entity.DoctorProfile
	if err := db.Where("user_id = ?", resp.ID).First(&profile).Error; err != nil {
		t.Fatalf("profile not persisted: %v", err)
	}
	if profile.Specialization != "diagnostics" {
		t.Errorf("specialization = %q", profile.Specialization)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	uc, db := newTestAuthUsecase(t)
	createTestUser(t, db, "alice", entity.RoleIDPatient)

	// Unknown username and wrong password surface identically, so the
	// response never reveals whether an account exists.
	tests := []dto.LoginRequest{
		{Username: "nobody", Password: "secret123"},
		{Username: "alice", Password: "wrong-password"},
	}
	for _, req := range tests {
		_, err := uc.Login(context.Background(), &req)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s): error = %v, want ErrInvalidCredentials", req.Username, err)
		}
	}
}

func TestGetCurrentUser(t *testing.T) {
	uc, db := newTestAuthUsecase(t)
	doctor := createTestDoctor(t, db, "drwho")

	resp, err := uc.GetCurrentUser(context.Background(), doctor.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Role != entity.RoleDoctor {
		t.Errorf("role = %q", resp.Role)
	}
	if resp.DoctorProfile == nil || resp.DoctorProfile.FullName != "Dr drwho" {
		t.Errorf("doctor profile = %+v", resp.DoctorProfile)
	}
}

func TestGetCurrentUserUnknown(t *testing.T) {
	uc, _ := newTestAuthUsecase(t)

	_, err := uc.GetCurrentUser(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}
