package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"obras-backend/internal/domain/company"
	"obras-backend/internal/domain/project"
	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/infrastructure/logging"

	"github.com/labstack/echo/v4"
)

func TestRespondError_Mapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", validation.Single("hours", "must be between 0 and 12"), http.StatusUnprocessableEntity, "validation_error", false},
		{"empty attendance", report.ErrEmptyAttendance, http.StatusUnprocessableEntity, "empty_attendance", false},
		{"bad stage", report.ErrInvalidStage, http.StatusUnprocessableEntity, "validation_error", false},
		{"wrong company kind", fmt.Errorf("%w: x", company.ErrWrongKind), http.StatusUnprocessableEntity, "wrong_company_kind", false},
		{"report not found", fmt.Errorf("%w: r1", report.ErrNotFound), http.StatusNotFound, "not_found", false},
		{"project not found", project.ErrNotFound, http.StatusNotFound, "not_found", false},
		{"worker not found", resource.ErrNotFound, http.StatusNotFound, "not_found", false},
		{"locked", report.ErrAlreadyLocked, http.StatusConflict, "already_locked", false},
		{"preceding", report.ErrPrecedingStageNotValidated, http.StatusConflict, "preceding_stage_not_validated", false},
		{"already validated", report.ErrAlreadyValidated, http.StatusConflict, "already_validated", false},
		{"conflict", fmt.Errorf("%w: lost race", report.ErrConflict), http.StatusConflict, "conflict", true},
		{"foreign", resource.ErrForeignResource, http.StatusConflict, "foreign_resource", false},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "internal_error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := respondError(c, logging.Discard(), tt.err); err != nil {
				t.Fatalf("respondError: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if body.Code != tt.code || body.Retryable != tt.retryable {
				t.Fatalf("body = %+v", body)
			}
			if tt.status == http.StatusInternalServerError && body.Error != "internal error" {
				t.Fatalf("internal error leaked: %q", body.Error)
			}
		})
	}
}

func TestRespondError_ValidationDetails(t *testing.T) {
	var v validation.Error
	v.Add("attendance[0].hours", "must be between 0 and 12")
	v.Add("attendance[1].worker_id", "is duplicated")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	_ = respondError(c, logging.Discard(), v.Err())

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Details) != 2 || body.Details[1].Field != "attendance[1].worker_id" {
		t.Fatalf("details = %+v", body.Details)
	}
}
