package registry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/enzian/enzian/internal/domain/diagnosis"
)

// DiagnosisLister supplies the diagnoses embedded in the patient detail
// response. Satisfied by diagnosis.Service.
type DiagnosisLister interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*diagnosis.Diagnosis, error)
}

type Handler struct {
	svc       *Service
	diagnoses DiagnosisLister
}

func NewHandler(svc *Service, diagnoses DiagnosisLister) *Handler {
	return &Handler{svc: svc, diagnoses: diagnoses}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors", h.ListDoctors)
	api.POST("/doctors", h.CreateDoctor)
	api.GET("/doctors/:id", h.GetDoctor)
	api.PUT("/doctors/:id", h.UpdateDoctor)
	api.DELETE("/doctors/:id", h.DeleteDoctor)

	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

// -- Doctors --

type createDoctorRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CRM       string `json:"crm"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var req createDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.CreateDoctor(c.Request().Context(), CreateDoctorInput{
		Name:      req.Name,
		Email:     req.Email,
		CRM:       req.CRM,
		Specialty: req.Specialty,
		Phone:     req.Phone,
	})
	if err != nil {
		// Validation and uniqueness failures are both 400; anything
		// else is an internal failure and must not leak detail.
		if clientError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create doctor")
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch doctor")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch doctors")
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch DoctorPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.UpdateDoctor(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		case clientError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update doctor")
		}
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		case errors.Is(err, ErrDoctorHasDependents):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete doctor")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
}

// -- Patients --

type patientRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"dateOfBirth"`
	MedicalRecord string `json:"medicalRecord"`
	DoctorID      string `json:"doctorId"`
}

// clientError reports whether err is a failure the caller caused and
// can correct. Everything else is treated as internal and rendered
// without detail.
func clientError(err error) bool {
	var ive *InvalidInputError
	return errors.As(err, &ive) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateCRM) ||
		errors.Is(err, ErrDuplicateMedicalRecord) ||
		errors.Is(err, ErrDoctorHasDependents)
}

// parseDate accepts the plain date form used by the clients and falls
// back to RFC 3339.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.DoctorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and doctorId are required")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dateOfBirth")
	}

	p, err := h.svc.CreatePatient(c.Request().Context(), CreatePatientInput{
		Name:          req.Name,
		Email:         optional(req.Email),
		Phone:         optional(req.Phone),
		DateOfBirth:   dob,
		MedicalRecord: optional(req.MedicalRecord),
		DoctorID:      doctorID,
	})
	if err != nil {
		// A bad foreign reference, a duplicate and a validation failure
		// are all 400 on this path.
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "doctor not found")
		case clientError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create patient")
		}
	}
	return c.JSON(http.StatusCreated, p)
}

// patientDetail is the patient record with its diagnoses embedded,
// newest first.
type patientDetail struct {
	*Patient
	Diagnoses []*diagnosis.Diagnosis `json:"diagnoses"`
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	p, err := h.svc.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patient")
	}

	diagnoses := []*diagnosis.Diagnosis{}
	if h.diagnoses != nil {
		list, err := h.diagnoses.ListByPatient(ctx, id)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch diagnoses")
		}
		if list != nil {
			diagnoses = list
		}
	}
	return c.JSON(http.StatusOK, patientDetail{Patient: p, Diagnoses: diagnoses})
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patients")
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.DoctorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and doctorId are required")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dateOfBirth")
	}

	p, err := h.svc.UpdatePatient(c.Request().Context(), id, PatientUpdate{
		Name:          req.Name,
		Email:         optional(req.Email),
		Phone:         optional(req.Phone),
		DateOfBirth:   dob,
		MedicalRecord: optional(req.MedicalRecord),
		DoctorID:      doctorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "doctor not found")
		case clientError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update patient")
		}
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete patient")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient deleted successfully"})
}
