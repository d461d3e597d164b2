package diagnosis

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Diagnosis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error)
	List(ctx context.Context) ([]*Diagnosis, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnosis, error)

	// Referential checks against the registry tables.
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}
