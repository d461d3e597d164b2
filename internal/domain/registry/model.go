package registry

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. Email and CRM are unique across the
// registry.
type Doctor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CRM       string    `db:"crm" json:"crm"`
	Specialty string    `db:"specialty" json:"specialty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DoctorPatch is a partial update: presence of a field, not its
// truthiness, decides whether that field is overwritten.
type DoctorPatch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	CRM       *string `json:"crm"`
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
}

// DoctorSummary is the shallow projection of a doctor embedded in
// patient responses.
type DoctorSummary struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CRM       string `json:"crm,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

// Patient maps to the patient table. Email and medical record number are
// unique when present; every patient references a responsible doctor.
type Patient struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	MedicalRecord *string    `db:"medical_record" json:"medicalRecord,omitempty"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctorId"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	// Shallow projection of the responsible doctor, populated on reads.
	Doctor *DoctorSummary `db:"-" json:"doctor,omitempty"`
}

// PatientUpdate is the full-replace update payload: name and doctor are
// required, the optional fields are cleared when absent.
type PatientUpdate struct {
	Name          string
	Email         *string
	Phone         *string
	DateOfBirth   *time.Time
	MedicalRecord *string
	DoctorID      uuid.UUID
}
