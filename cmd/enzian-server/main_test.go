package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestErrorHandlerRendersErrorKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := errorHandler(zerolog.Nop())
	handler(echo.NewHTTPError(http.StatusNotFound, "doctor not found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "doctor not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestErrorHandlerMasksInternalErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := errorHandler(zerolog.Nop())
	handler(errors.New("pq: connection refused"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}
