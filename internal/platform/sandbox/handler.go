package sandbox

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	seeder *Seeder
	logger zerolog.Logger
}

func NewHandler(seeder *Seeder, logger zerolog.Logger) *Handler {
	return &Handler{seeder: seeder, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/seed", h.Seed)
}

func (h *Handler) Seed(c echo.Context) error {
	result, err := h.seeder.Run(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("seeding failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to seed database")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "Database seeded successfully",
		"doctors":   result.Doctors,
		"patients":  result.Patients,
		"diagnoses": result.Diagnoses,
	})
}
