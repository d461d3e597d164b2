package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicateEmail / ErrDuplicateCRM / ErrDuplicateMedicalRecord
	// signal a uniqueness conflict against an existing record.
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateCRM           = errors.New("crm already registered")
	ErrDuplicateMedicalRecord = errors.New("medical record already registered")

	// ErrDoctorHasDependents refuses deletion of a doctor that still has
	// patients or diagnoses referencing it.
	ErrDoctorHasDependents = errors.New("doctor has associated patients or diagnoses")
)

// InvalidInputError reports a request the caller can correct, as
// opposed to an internal failure.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

type Service struct {
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{doctors: doctors, patients: patients}
}

// -- Doctors --

type CreateDoctorInput struct {
	Name      string
	Email     string
	CRM       string
	Specialty string
	Phone     string
}

func (s *Service) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
	if in.Name == "" || in.Email == "" || in.CRM == "" || in.Specialty == "" {
		return nil, invalidInput("name, email, crm and specialty are required")
	}
	if err := s.checkDoctorUnique(ctx, in.Email, in.CRM, uuid.Nil); err != nil {
		return nil, err
	}

	d := &Doctor{
		Name:      in.Name,
		Email:     in.Email,
		CRM:       in.CRM,
		Specialty: in.Specialty,
		Phone:     optional(in.Phone),
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, search string) ([]*Doctor, error) {
	if search != "" {
		return s.doctors.Search(ctx, search)
	}
	return s.doctors.List(ctx)
}

// UpdateDoctor applies a partial patch: only fields present in the
// payload are overwritten.
func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, patch DoctorPatch) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email, crm := d.Email, d.CRM
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.CRM != nil {
		crm = *patch.CRM
	}
	if err := s.checkDoctorUnique(ctx, email, crm, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		d.Name = *patch.Name
	}
	d.Email = email
	d.CRM = crm
	if patch.Specialty != nil {
		d.Specialty = *patch.Specialty
	}
	if patch.Phone != nil {
		d.Phone = optional(*patch.Phone)
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.doctors.GetByID(ctx, id); err != nil {
		return err
	}
	patients, diagnoses, err := s.doctors.CountDependents(ctx, id)
	if err != nil {
		return err
	}
	if patients > 0 || diagnoses > 0 {
		return ErrDoctorHasDependents
	}
	return s.doctors.Delete(ctx, id)
}

// checkDoctorUnique rejects an email or CRM already held by a different
// doctor. self is uuid.Nil on the create path.
func (s *Service) checkDoctorUnique(ctx context.Context, email, crm string, self uuid.UUID) error {
	existing, err := s.doctors.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateEmail
	}
	existing, err = s.doctors.GetByCRM(ctx, crm)
	if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateCRM
	}
	return nil
}

// -- Patients --

type CreatePatientInput struct {
	Name          string
	Email         *string
	Phone         *string
	DateOfBirth   *time.Time
	MedicalRecord *string
	DoctorID      uuid.UUID
}

func (s *Service) CreatePatient(ctx context.Context, in CreatePatientInput) (*Patient, error) {
	if in.Name == "" || in.DoctorID == uuid.Nil {
		return nil, invalidInput("name and doctorId are required")
	}
	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		return nil, err
	}
	if err := s.checkPatientUnique(ctx, in.Email, in.MedicalRecord, uuid.Nil); err != nil {
		return nil, err
	}

	p := &Patient{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		DateOfBirth:   in.DateOfBirth,
		MedicalRecord: in.MedicalRecord,
		DoctorID:      in.DoctorID,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	// Reload for the doctor projection.
	return s.patients.GetByID(ctx, p.ID)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search string) ([]*Patient, error) {
	if search != "" {
		return s.patients.Search(ctx, search)
	}
	return s.patients.List(ctx)
}

// UpdatePatient is a full replace: optional fields absent from the
// payload are cleared.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, upd PatientUpdate) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name == "" || upd.DoctorID == uuid.Nil {
		return nil, invalidInput("name and doctorId are required")
	}
	if _, err := s.doctors.GetByID(ctx, upd.DoctorID); err != nil {
		return nil, err
	}
	if err := s.checkPatientUnique(ctx, upd.Email, upd.MedicalRecord, id); err != nil {
		return nil, err
	}

	p.Name = upd.Name
	p.Email = upd.Email
	p.Phone = upd.Phone
	p.DateOfBirth = upd.DateOfBirth
	p.MedicalRecord = upd.MedicalRecord
	p.DoctorID = upd.DoctorID
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, id)
}

// DeletePatient removes the patient and, by cascade, its diagnoses.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.patients.GetByID(ctx, id); err != nil {
		return err
	}
	return s.patients.Delete(ctx, id)
}

func (s *Service) checkPatientUnique(ctx context.Context, email, medicalRecord *string, self uuid.UUID) error {
	if email != nil && *email != "" {
		existing, err := s.patients.GetByEmail(ctx, *email)
		if err != nil && !errors.Is(err, ErrPatientNotFound) {
			return err
		}
		if existing != nil && existing.ID != self {
			return ErrDuplicateEmail
		}
	}
	if medicalRecord != nil && *medicalRecord != "" {
		existing, err := s.patients.GetByMedicalRecord(ctx, *medicalRecord)
		if err != nil && !errors.Is(err, ErrPatientNotFound) {
			return err
		}
		if existing != nil && existing.ID != self {
			return ErrDuplicateMedicalRecord
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
