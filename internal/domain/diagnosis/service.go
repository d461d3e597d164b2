package diagnosis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals that a diagnosis record does not exist.
	ErrNotFound = errors.New("diagnosis not found")
	// ErrPatientNotFound signals a bad patient reference at creation.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrDoctorNotFound signals a bad doctor reference at creation.
	ErrDoctorNotFound = errors.New("doctor not found")
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

// CreateInput carries the request payload for a new diagnosis. The final
// classification is never accepted from the caller; it is computed here
// and stored at creation time.
type CreateInput struct {
	PatientID             uuid.UUID
	DoctorID              uuid.UUID
	Peritoneum            string
	PeritoneumSize        string
	Ovary                 string
	OvarySize             string
	Tube                  string
	TubeSize              string
	DeepEndometriosis     string
	DeepEndometriosisSize string
	Observations          string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Diagnosis, error) {
	if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil {
		return nil, invalidInput("patientId and doctorId are required")
	}

	code, err := FinalClassification(in.Peritoneum, in.Ovary, in.Tube, in.DeepEndometriosis)
	if err != nil {
		return nil, err
	}
	if err := ValidateAxes(in.Peritoneum, in.Ovary, in.Tube, in.DeepEndometriosis); err != nil {
		return nil, invalidInput(err.Error())
	}
	for _, size := range []string{in.PeritoneumSize, in.OvarySize, in.TubeSize, in.DeepEndometriosisSize} {
		if !ValidSizeBucket(size) {
			return nil, invalidInput("invalid size bucket %q", size)
		}
	}

	exists, err := s.repo.PatientExists(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}
	exists, err = s.repo.DoctorExists(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrDoctorNotFound
	}

	d := &Diagnosis{
		PatientID:             in.PatientID,
		DoctorID:              in.DoctorID,
		Peritoneum:            in.Peritoneum,
		PeritoneumSize:        optional(in.PeritoneumSize),
		Ovary:                 in.Ovary,
		OvarySize:             optional(in.OvarySize),
		Tube:                  in.Tube,
		TubeSize:              optional(in.TubeSize),
		DeepEndometriosis:     in.DeepEndometriosis,
		DeepEndometriosisSize: optional(in.DeepEndometriosisSize),
		Observations:          optional(in.Observations),
		FinalClassification:   code,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	// Reload to pick up the patient/doctor projections and the stored
	// creation timestamp.
	return s.repo.GetByID(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Diagnosis, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnosis, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// History aggregates a patient's diagnoses into the trend view. The
// patient must exist even when it has no diagnoses yet.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) (*History, error) {
	exists, err := s.repo.PatientExists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	diagnoses, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return BuildHistory(diagnoses), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
