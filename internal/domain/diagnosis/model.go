package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis maps to the diagnosis table. Records are immutable after
// creation: they are read individually or by patient, and removed only
// when their patient is deleted.
type Diagnosis struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	PatientID             uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID              uuid.UUID `db:"doctor_id" json:"doctorId"`
	Peritoneum            string    `db:"peritoneum" json:"peritoneum"`
	PeritoneumSize        *string   `db:"peritoneum_size" json:"peritoneumSize,omitempty"`
	Ovary                 string    `db:"ovary" json:"ovary"`
	OvarySize             *string   `db:"ovary_size" json:"ovarySize,omitempty"`
	Tube                  string    `db:"tube" json:"tube"`
	TubeSize              *string   `db:"tube_size" json:"tubeSize,omitempty"`
	DeepEndometriosis     string    `db:"deep_endometriosis" json:"deepEndometriosis"`
	DeepEndometriosisSize *string   `db:"deep_endometriosis_size" json:"deepEndometriosisSize,omitempty"`
	Observations          *string   `db:"observations" json:"observations,omitempty"`
	FinalClassification   string    `db:"final_classification" json:"finalClassification"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`

	// Shallow projections of the related records, populated on reads
	// for display convenience.
	Patient *PatientSummary `db:"-" json:"patient,omitempty"`
	Doctor  *DoctorSummary  `db:"-" json:"doctor,omitempty"`
}

// PatientSummary is the shallow patient projection embedded in diagnosis
// responses.
type PatientSummary struct {
	Name          string  `json:"name"`
	MedicalRecord *string `json:"medicalRecord,omitempty"`
}

// DoctorSummary is the shallow doctor projection embedded in diagnosis
// responses.
type DoctorSummary struct {
	Name  string `json:"name"`
	CRM   string `json:"crm,omitempty"`
	Email string `json:"email,omitempty"`
}
