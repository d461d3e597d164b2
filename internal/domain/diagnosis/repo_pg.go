package diagnosis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const diagnosisCols = `d.id, d.patient_id, d.doctor_id,
	d.peritoneum, d.peritoneum_size, d.ovary, d.ovary_size,
	d.tube, d.tube_size, d.deep_endometriosis, d.deep_endometriosis_size,
	d.observations, d.final_classification, d.created_at,
	p.name, p.medical_record, doc.name, doc.crm, doc.email`

const diagnosisFrom = ` FROM diagnosis d
	JOIN patient p ON p.id = d.patient_id
	JOIN doctor doc ON doc.id = d.doctor_id`

func (r *repoPG) Create(ctx context.Context, d *Diagnosis) error {
	d.ID = uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnosis (
			id, patient_id, doctor_id,
			peritoneum, peritoneum_size, ovary, ovary_size,
			tube, tube_size, deep_endometriosis, deep_endometriosis_size,
			observations, final_classification
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.PatientID, d.DoctorID,
		d.Peritoneum, d.PeritoneumSize, d.Ovary, d.OvarySize,
		d.Tube, d.TubeSize, d.DeepEndometriosis, d.DeepEndometriosisSize,
		d.Observations, d.FinalClassification,
	)
	if err != nil {
		return fmt.Errorf("insert diagnosis: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+diagnosisCols+diagnosisFrom+` WHERE d.id = $1`, id)
	d, err := scanDiagnosis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Diagnosis, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+diagnosisCols+diagnosisFrom+` ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	defer rows.Close()
	return scanDiagnoses(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnosis, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+diagnosisCols+diagnosisFrom+` WHERE d.patient_id = $1 ORDER BY d.created_at DESC`,
		patientID)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses by patient: %w", err)
	}
	defer rows.Close()
	return scanDiagnoses(rows)
}

func (r *repoPG) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient exists: %w", err)
	}
	return exists, nil
}

func (r *repoPG) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check doctor exists: %w", err)
	}
	return exists, nil
}

func scanDiagnosis(row pgx.Row) (*Diagnosis, error) {
	var d Diagnosis
	var patient PatientSummary
	var doctor DoctorSummary
	err := row.Scan(
		&d.ID, &d.PatientID, &d.DoctorID,
		&d.Peritoneum, &d.PeritoneumSize, &d.Ovary, &d.OvarySize,
		&d.Tube, &d.TubeSize, &d.DeepEndometriosis, &d.DeepEndometriosisSize,
		&d.Observations, &d.FinalClassification, &d.CreatedAt,
		&patient.Name, &patient.MedicalRecord, &doctor.Name, &doctor.CRM, &doctor.Email,
	)
	if err != nil {
		return nil, err
	}
	d.Patient = &patient
	d.Doctor = &doctor
	return &d, nil
}

func scanDiagnoses(rows pgx.Rows) ([]*Diagnosis, error) {
	var result []*Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnoses: %w", err)
	}
	return result, nil
}
