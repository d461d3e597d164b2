package report

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/enzian/enzian/internal/domain/diagnosis"
	"github.com/enzian/enzian/internal/domain/registry"
)

// DiagnosisGetter loads the diagnosis being reported on. Satisfied by
// diagnosis.Service.
type DiagnosisGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*diagnosis.Diagnosis, error)
}

// RegistryReader loads the full patient and doctor records for the
// report header. Satisfied by registry.Service.
type RegistryReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*registry.Patient, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*registry.Doctor, error)
}

type Handler struct {
	gen       *Generator
	diagnoses DiagnosisGetter
	registry  RegistryReader
}

func NewHandler(gen *Generator, diagnoses DiagnosisGetter, reg RegistryReader) *Handler {
	return &Handler{gen: gen, diagnoses: diagnoses, registry: reg}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/diagnoses/:id/report", h.Get)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	d, err := h.diagnoses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, diagnosis.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "diagnosis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch diagnosis")
	}

	// The registry lookups are best effort: the report renders with
	// placeholders for anything that cannot be loaded.
	patient, err := h.registry.GetPatient(ctx, d.PatientID)
	if err != nil && !errors.Is(err, registry.ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patient")
	}
	doctor, err := h.registry.GetDoctor(ctx, d.DoctorID)
	if err != nil && !errors.Is(err, registry.ErrDoctorNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch doctor")
	}

	html, err := h.gen.Render(d, patient, doctor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render report")
	}
	return c.HTMLBlob(http.StatusOK, html)
}
