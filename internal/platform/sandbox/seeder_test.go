package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/enzian/enzian/internal/domain/diagnosis"
	"github.com/enzian/enzian/internal/domain/registry"
)

type fakeStore struct {
	wiped     bool
	wipeErr   error
	doctors   []*registry.Doctor
	patients  []*registry.Patient
	diagnoses []diagnosis.CreateInput
}

func (f *fakeStore) Wipe(_ context.Context) error {
	if f.wipeErr != nil {
		return f.wipeErr
	}
	f.wiped = true
	f.doctors = nil
	f.patients = nil
	f.diagnoses = nil
	return nil
}

func (f *fakeStore) CreateDoctor(_ context.Context, in registry.CreateDoctorInput) (*registry.Doctor, error) {
	d := &registry.Doctor{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		CRM:       in.CRM,
		Specialty: in.Specialty,
	}
	f.doctors = append(f.doctors, d)
	return d, nil
}

func (f *fakeStore) CreatePatient(_ context.Context, in registry.CreatePatientInput) (*registry.Patient, error) {
	p := &registry.Patient{
		ID:            uuid.New(),
		Name:          in.Name,
		MedicalRecord: in.MedicalRecord,
		DoctorID:      in.DoctorID,
	}
	f.patients = append(f.patients, p)
	return p, nil
}

func (f *fakeStore) Create(_ context.Context, in diagnosis.CreateInput) (*diagnosis.Diagnosis, error) {
	f.diagnoses = append(f.diagnoses, in)
	return &diagnosis.Diagnosis{ID: uuid.New(), PatientID: in.PatientID, DoctorID: in.DoctorID}, nil
}

func TestSeederRun(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store, store, store)

	result, err := seeder.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !store.wiped {
		t.Error("existing data not wiped before seeding")
	}
	if result.Doctors != 3 || result.Patients != 3 || result.Diagnoses != 3 {
		t.Errorf("result = %+v, want 3/3/3", result)
	}

	if store.doctors[0].Name != "Dr. João Silva" || store.doctors[0].CRM != "123456" {
		t.Errorf("first doctor = %+v", store.doctors[0])
	}
	if mr := store.patients[0].MedicalRecord; mr == nil || *mr != "MS001" {
		t.Errorf("first patient medical record = %v", mr)
	}

	// Every seeded diagnosis must reference a seeded patient and doctor.
	for i, in := range store.diagnoses {
		if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil {
			t.Errorf("diagnosis %d has unresolved references", i)
		}
	}
	if store.diagnoses[2].Peritoneum != "P3" || store.diagnoses[2].DeepEndometriosis != "C" {
		t.Errorf("severe demo diagnosis = %+v", store.diagnoses[2])
	}
}

func TestSeederDemoDataset(t *testing.T) {
	if got := seedDoctors[1].Phone; got != "(11) 91234-5678" {
		t.Errorf("doctor 2 phone = %q", got)
	}
	if got := seedDoctors[2].Phone; got != "(11) 92345-6789" {
		t.Errorf("doctor 3 phone = %q", got)
	}

	wantEmails := []string{
		"maria.santos@email.com",
		"ana.oliveira@email.com",
		"carla.pereira@email.com",
	}
	for i, want := range wantEmails {
		if got := seedPatients[i].input.Email; got == nil || *got != want {
			t.Errorf("patient %d email = %v, want %q", i+1, got, want)
		}
	}
	if got := seedPatients[2].input.Phone; got == nil || *got != "(11) 93456-7890" {
		t.Errorf("patient 3 phone = %v", got)
	}

	wantObservations := []string{
		"Paciente apresenta dor pélvica crônica. Lesões observadas durante laparoscopia.",
		"Endometriose moderada com envolvimento ovariano bilateral.",
		"Endometriose grave com acometimento extenso e infiltração de órgãos adjacentes.",
	}
	for i, want := range wantObservations {
		if got := seedDiagnoses[i].input.Observations; got != want {
			t.Errorf("diagnosis %d observations = %q, want %q", i+1, got, want)
		}
	}
	if got := seedDiagnoses[1].input.PeritoneumSize; got != "<3cm" {
		t.Errorf("diagnosis 2 peritoneum size = %q", got)
	}
	if got := seedDiagnoses[1].input.TubeSize; got != "3-7cm" {
		t.Errorf("diagnosis 2 tube size = %q", got)
	}
	if got := seedDiagnoses[2].input.TubeSize; got != ">7cm" {
		t.Errorf("diagnosis 3 tube size = %q", got)
	}
	for i, sd := range seedDiagnoses {
		if sd.input.DeepEndometriosisSize == "" {
			t.Errorf("diagnosis %d missing deep endometriosis size", i+1)
		}
	}
}

func TestSeederRunIsRepeatable(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store, store, store)

	for i := 0; i < 2; i++ {
		result, err := seeder.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if result.Doctors != 3 {
			t.Fatalf("run %d: doctors = %d", i, result.Doctors)
		}
	}
	if len(store.doctors) != 3 {
		t.Errorf("doctors accumulated across runs: %d", len(store.doctors))
	}
}

func TestSeedHandler(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(NewSeeder(store, store, store), zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Seed(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Message  string `json:"message"`
		Doctors  int    `json:"doctors"`
		Patients int    `json:"patients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == "" || resp.Doctors != 3 || resp.Patients != 3 {
		t.Errorf("response = %+v", resp)
	}
}

func TestSeedHandlerWipeFailure(t *testing.T) {
	store := &fakeStore{wipeErr: errors.New("clear diagnosis: connection refused host=db.internal:5432")}
	h := NewHandler(NewSeeder(store, store, store), zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Seed(c)
	if err == nil {
		t.Fatal("expected error when wipe fails")
	}
	e.HTTPErrorHandler(err, c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "failed to seed database") {
		t.Errorf("generic message missing: %s", rec.Body.String())
	}
}
