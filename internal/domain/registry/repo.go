package registry

import (
	"context"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	GetByCRM(ctx context.Context, crm string) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
	Search(ctx context.Context, term string) ([]*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountDependents reports how many patients and diagnoses still
	// reference the doctor; deletion is refused while either is nonzero.
	CountDependents(ctx context.Context, id uuid.UUID) (patients, diagnoses int, err error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	GetByMedicalRecord(ctx context.Context, medicalRecord string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Search(ctx context.Context, term string) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error

	// Delete removes the patient; its diagnoses go with it (cascade).
	Delete(ctx context.Context, id uuid.UUID) error
}
