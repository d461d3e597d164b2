package diagnosis

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CreationCounter receives a tick for every diagnosis created. Satisfied
// by the metrics package; may be nil.
type CreationCounter interface {
	IncrementDiagnosesCreated()
}

type Handler struct {
	svc     *Service
	counter CreationCounter
}

func NewHandler(svc *Service, counter CreationCounter) *Handler {
	return &Handler{svc: svc, counter: counter}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/diagnoses", h.List)
	api.POST("/diagnoses", h.Create)
	api.GET("/diagnoses/:id", h.Get)
	api.GET("/patients/:id/history", h.PatientHistory)
}

type createRequest struct {
	PatientID             string `json:"patientId"`
	DoctorID              string `json:"doctorId"`
	Peritoneum            string `json:"peritoneum"`
	PeritoneumSize        string `json:"peritoneumSize"`
	Ovary                 string `json:"ovary"`
	OvarySize             string `json:"ovarySize"`
	Tube                  string `json:"tube"`
	TubeSize              string `json:"tubeSize"`
	DeepEndometriosis     string `json:"deepEndometriosis"`
	DeepEndometriosisSize string `json:"deepEndometriosisSize"`
	Observations          string `json:"observations"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == "" || req.DoctorID == "" || req.Peritoneum == "" ||
		req.Ovary == "" || req.Tube == "" || req.DeepEndometriosis == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}

	d, err := h.svc.Create(c.Request().Context(), CreateInput{
		PatientID:             patientID,
		DoctorID:              doctorID,
		Peritoneum:            req.Peritoneum,
		PeritoneumSize:        req.PeritoneumSize,
		Ovary:                 req.Ovary,
		OvarySize:             req.OvarySize,
		Tube:                  req.Tube,
		TubeSize:              req.TubeSize,
		DeepEndometriosis:     req.DeepEndometriosis,
		DeepEndometriosisSize: req.DeepEndometriosisSize,
		Observations:          req.Observations,
	})
	if err != nil {
		// A missing patient or doctor is a bad foreign reference on
		// this path, not a missing primary resource. Repository
		// failures fall through as a generic 500.
		var ive *InvalidInputError
		switch {
		case errors.Is(err, ErrIncompleteClassification),
			errors.Is(err, ErrPatientNotFound),
			errors.Is(err, ErrDoctorNotFound),
			errors.As(err, &ive):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create diagnosis")
		}
	}

	if h.counter != nil {
		h.counter.IncrementDiagnosesCreated()
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "diagnosis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch diagnosis")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var diagnoses []*Diagnosis
	var err error
	if pid := c.QueryParam("patientId"); pid != "" {
		patientID, perr := uuid.Parse(pid)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
		}
		diagnoses, err = h.svc.ListByPatient(ctx, patientID)
	} else {
		diagnoses, err = h.svc.List(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch diagnoses")
	}
	if diagnoses == nil {
		diagnoses = []*Diagnosis{}
	}
	return c.JSON(http.StatusOK, diagnoses)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	history, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build history")
	}
	return c.JSON(http.StatusOK, history)
}
