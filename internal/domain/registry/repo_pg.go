package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- Doctor Repository --

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `id, name, email, crm, specialty, phone, created_at, updated_at`

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO doctor (id, name, email, crm, specialty, phone)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Email, d.CRM, d.Specialty, d.Phone,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctorRow(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	return scanDoctorRow(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE email = $1`, email))
}

func (r *doctorRepoPG) GetByCRM(ctx context.Context, crm string) (*Doctor, error) {
	return scanDoctorRow(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE crm = $1`, crm))
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+doctorCols+` FROM doctor ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()
	return scanDoctors(rows)
}

func (r *doctorRepoPG) Search(ctx context.Context, term string) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorCols+` FROM doctor
		WHERE name ILIKE '%'||$1||'%' OR email ILIKE '%'||$1||'%' OR crm ILIKE '%'||$1||'%'
		ORDER BY name`, term)
	if err != nil {
		return nil, fmt.Errorf("search doctors: %w", err)
	}
	defer rows.Close()
	return scanDoctors(rows)
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE doctor SET name=$2, email=$3, crm=$4, specialty=$5, phone=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		d.ID, d.Name, d.Email, d.CRM, d.Specialty, d.Phone,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDoctorNotFound
		}
		return fmt.Errorf("update doctor: %w", err)
	}
	return nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *doctorRepoPG) CountDependents(ctx context.Context, id uuid.UUID) (int, int, error) {
	var patients, diagnoses int
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patient WHERE doctor_id = $1),
			(SELECT COUNT(*) FROM diagnosis WHERE doctor_id = $1)`, id,
	).Scan(&patients, &diagnoses)
	if err != nil {
		return 0, 0, fmt.Errorf("count doctor dependents: %w", err)
	}
	return patients, diagnoses, nil
}

func scanDoctorRow(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.CRM, &d.Specialty, &d.Phone, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDoctors(rows pgx.Rows) ([]*Doctor, error) {
	var result []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.CRM, &d.Specialty, &d.Phone, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}
	return result, nil
}

// -- Patient Repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `p.id, p.name, p.email, p.phone, p.date_of_birth, p.medical_record,
	p.doctor_id, p.created_at, p.updated_at,
	d.name, d.email, d.crm, d.specialty`

const patientFrom = ` FROM patient p JOIN doctor d ON d.id = p.doctor_id`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO patient (id, name, email, phone, date_of_birth, medical_record, doctor_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.MedicalRecord, p.DoctorID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatientRow(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return scanPatientRow(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.email = $1`, email))
}

func (r *patientRepoPG) GetByMedicalRecord(ctx context.Context, medicalRecord string) (*Patient, error) {
	return scanPatientRow(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.medical_record = $1`, medicalRecord))
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+patientFrom+` ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	return scanPatients(rows)
}

func (r *patientRepoPG) Search(ctx context.Context, term string) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+patientFrom+`
		WHERE p.name ILIKE '%'||$1||'%' OR p.medical_record ILIKE '%'||$1||'%'
		ORDER BY p.name`, term)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer rows.Close()
	return scanPatients(rows)
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE patient SET name=$2, email=$3, phone=$4, date_of_birth=$5, medical_record=$6, doctor_id=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.MedicalRecord, p.DoctorID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func scanPatientRow(row pgx.Row) (*Patient, error) {
	var p Patient
	var doc DoctorSummary
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.MedicalRecord,
		&p.DoctorID, &p.CreatedAt, &p.UpdatedAt,
		&doc.Name, &doc.Email, &doc.CRM, &doc.Specialty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	p.Doctor = &doc
	return &p, nil
}

func scanPatients(rows pgx.Rows) ([]*Patient, error) {
	var result []*Patient
	for rows.Next() {
		p, err := scanPatientRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return result, nil
}
