package usecase

import (
	"context"
	"errors"

	"medical-analysis-service/internal/converter"
	"medical-analysis-service/internal/delivery/dto"
	"medical-analysis-service/internal/delivery/http/middleware"
	"medical-analysis-service/internal/domain/entity"
	"medical-analysis-service/internal/domain/repository"
	"medical-analysis-service/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnknownDoctor        = errors.New("doctor not found")
	ErrUnknownPatient       = errors.New("patient not found")
	ErrDuplicateAssignment  = errors.New("doctor is already assigned to this patient")
	ErrDoctorProfileMissing = errors.New("doctor account is not fully configured")
)

type AssignmentUsecase interface {
	Assign(ctx context.Context, req *dto.CreateAssignmentRequest) error
	ListAssignedPatients(ctx context.Context) (*dto.AssignedPatientListResponse, error)
}

type assignmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	assignmentRepo    repository.AssignmentRepository
	auditService      service.AuditService
}

func NewAssignmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	assignmentRepo repository.AssignmentRepository,
	auditService service.AuditService,
) AssignmentUsecase {
	return &assignmentUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		assignmentRepo:    assignmentRepo,
		auditService:      auditService,
	}
}

// Assign grants a doctor review rights over a patient's records. Both ids
// must resolve to accounts of the expected role, and the doctor must carry a
// profile; an existing pair is rejected.
func (u *assignmentUsecase) Assign(ctx context.Context, req *dto.CreateAssignmentRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.userRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return ErrUnknownDoctor
	}

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctor.ID, err)
		return err
	}
	if profile == nil {
		return ErrDoctorProfileMissing
	}

	patient, err := u.userRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return err
	}
	if patient == nil || !patient.IsPatient() {
		return ErrUnknownPatient
	}

	exists, err := u.assignmentRepo.Exists(tx, req.DoctorID, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to check assignment: %+v", err)
		return err
	}
	if exists {
		return ErrDuplicateAssignment
	}

	assignment := &entity.Assignment{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
	}

	if err := u.assignmentRepo.Create(tx, assignment); err != nil {
		if isDuplicateKeyError(err, "assignments") {
			return ErrDuplicateAssignment
		}
		if isForeignKeyError(err, "assignments") {
			return ErrUnknownPatient
		}
		u.log.Warnf("Failed to create assignment: %+v", err)
		return err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionAssignmentCreate, "assignment", req.DoctorID.String(), map[string]interface{}{
		"doctor_id":  req.DoctorID.String(),
		"patient_id": req.PatientID.String(),
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Assignment created: doctor=%s, patient=%s", req.DoctorID, req.PatientID)
	return nil
}

// ListAssignedPatients returns the logged-in doctor's patients, ordered by
// username so the listing is deterministic.
func (u *assignmentUsecase) ListAssignedPatients(ctx context.Context) (*dto.AssignedPatientListResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patients, err := u.assignmentRepo.FindPatientsByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list patients for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AssignedPatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}
