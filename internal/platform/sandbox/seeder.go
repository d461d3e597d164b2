// Package sandbox resets the database to a known demo dataset. It is
// meant for development and demo environments, not production.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enzian/enzian/internal/domain/diagnosis"
	"github.com/enzian/enzian/internal/domain/registry"
)

// Registry creates the demo doctors and patients. Satisfied by
// registry.Service.
type Registry interface {
	CreateDoctor(ctx context.Context, in registry.CreateDoctorInput) (*registry.Doctor, error)
	CreatePatient(ctx context.Context, in registry.CreatePatientInput) (*registry.Patient, error)
}

// Recorder creates the demo diagnoses. Satisfied by diagnosis.Service.
type Recorder interface {
	Create(ctx context.Context, in diagnosis.CreateInput) (*diagnosis.Diagnosis, error)
}

// Wiper clears all existing records before seeding.
type Wiper interface {
	Wipe(ctx context.Context) error
}

type Seeder struct {
	registry  Registry
	diagnoses Recorder
	wiper     Wiper
}

func NewSeeder(reg Registry, diagnoses Recorder, wiper Wiper) *Seeder {
	return &Seeder{registry: reg, diagnoses: diagnoses, wiper: wiper}
}

// Result summarizes a seeding run.
type Result struct {
	Doctors   int `json:"doctors"`
	Patients  int `json:"patients"`
	Diagnoses int `json:"diagnoses"`
}

// Run wipes the database and loads the demo dataset: three doctors,
// three patients and three diagnoses spanning the severity tiers.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.wiper.Wipe(ctx); err != nil {
		return nil, fmt.Errorf("wipe: %w", err)
	}

	doctors := make([]*registry.Doctor, 0, len(seedDoctors))
	for _, in := range seedDoctors {
		d, err := s.registry.CreateDoctor(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seed doctor %s: %w", in.Name, err)
		}
		doctors = append(doctors, d)
	}

	patients := make([]*registry.Patient, 0, len(seedPatients))
	for _, sp := range seedPatients {
		in := sp.input
		in.DoctorID = doctors[sp.doctorIdx].ID
		p, err := s.registry.CreatePatient(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seed patient %s: %w", in.Name, err)
		}
		patients = append(patients, p)
	}

	for _, sd := range seedDiagnoses {
		in := sd.input
		in.PatientID = patients[sd.patientIdx].ID
		in.DoctorID = doctors[sd.doctorIdx].ID
		if _, err := s.diagnoses.Create(ctx, in); err != nil {
			return nil, fmt.Errorf("seed diagnosis for %s: %w", patients[sd.patientIdx].Name, err)
		}
	}

	return &Result{
		Doctors:   len(doctors),
		Patients:  len(patients),
		Diagnoses: len(seedDiagnoses),
	}, nil
}

var seedDoctors = []registry.CreateDoctorInput{
	{
		Name:      "Dr. João Silva",
		Email:     "joao.silva@exemplo.com",
		CRM:       "123456",
		Specialty: "Ginecologia e Obstetrícia",
		Phone:     "(11) 98765-4321",
	},
	{
		Name:      "Dra. Maria Santos",
		Email:     "maria.santos@exemplo.com",
		CRM:       "789012",
		Specialty: "Reprodução Humana",
		Phone:     "(11) 91234-5678",
	},
	{
		Name:      "Dr. Pedro Oliveira",
		Email:     "pedro.oliveira@exemplo.com",
		CRM:       "345678",
		Specialty: "Endocrinologia Ginecológica",
		Phone:     "(11) 92345-6789",
	},
}

type seedPatient struct {
	input     registry.CreatePatientInput
	doctorIdx int
}

var seedPatients = []seedPatient{
	{
		input: registry.CreatePatientInput{
			Name:          "Maria Santos",
			Email:         strptr("maria.santos@email.com"),
			Phone:         strptr("(11) 91234-5678"),
			DateOfBirth:   dateptr(1990, 5, 15),
			MedicalRecord: strptr("MS001"),
		},
		doctorIdx: 0,
	},
	{
		input: registry.CreatePatientInput{
			Name:          "Ana Oliveira",
			Email:         strptr("ana.oliveira@email.com"),
			Phone:         strptr("(11) 92345-6789"),
			DateOfBirth:   dateptr(1985, 8, 22),
			MedicalRecord: strptr("AO002"),
		},
		doctorIdx: 1,
	},
	{
		input: registry.CreatePatientInput{
			Name:          "Carla Pereira",
			Email:         strptr("carla.pereira@email.com"),
			Phone:         strptr("(11) 93456-7890"),
			DateOfBirth:   dateptr(1992, 12, 10),
			MedicalRecord: strptr("CP003"),
		},
		doctorIdx: 0,
	},
}

type seedDiagnosis struct {
	input      diagnosis.CreateInput
	patientIdx int
	doctorIdx  int
}

var seedDiagnoses = []seedDiagnosis{
	{
		input: diagnosis.CreateInput{
			Peritoneum:            "P2",
			PeritoneumSize:        "3-7cm",
			Ovary:                 "O1",
			OvarySize:             "<3cm",
			Tube:                  "T1",
			TubeSize:              "<3cm",
			DeepEndometriosis:     "B",
			DeepEndometriosisSize: "3-7cm",
			Observations:          "Paciente apresenta dor pélvica crônica. Lesões observadas durante laparoscopia.",
		},
		patientIdx: 0,
		doctorIdx:  0,
	},
	{
		input: diagnosis.CreateInput{
			Peritoneum:            "P1",
			PeritoneumSize:        "<3cm",
			Ovary:                 "O2",
			OvarySize:             "3-7cm",
			Tube:                  "T2",
			TubeSize:              "3-7cm",
			DeepEndometriosis:     "A",
			DeepEndometriosisSize: "<3cm",
			Observations:          "Endometriose moderada com envolvimento ovariano bilateral.",
		},
		patientIdx: 1,
		doctorIdx:  1,
	},
	{
		input: diagnosis.CreateInput{
			Peritoneum:            "P3",
			PeritoneumSize:        ">7cm",
			Ovary:                 "O3",
			OvarySize:             ">7cm",
			Tube:                  "T3",
			TubeSize:              ">7cm",
			DeepEndometriosis:     "C",
			DeepEndometriosisSize: ">7cm",
			Observations:          "Endometriose grave com acometimento extenso e infiltração de órgãos adjacentes.",
		},
		patientIdx: 2,
		doctorIdx:  0,
	},
}

func strptr(s string) *string { return &s }

func dateptr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// pgWiper removes all rows, children before parents so the restrictive
// foreign keys never fire.
type pgWiper struct {
	pool *pgxpool.Pool
}

func NewPGWiper(pool *pgxpool.Pool) Wiper {
	return &pgWiper{pool: pool}
}

func (w *pgWiper) Wipe(ctx context.Context) error {
	for _, table := range []string{"diagnosis", "patient", "doctor"} {
		if _, err := w.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
