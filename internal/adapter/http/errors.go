package http

import (
	"errors"
	"net/http"

	"obras-backend/internal/domain/company"
	"obras-backend/internal/domain/project"
	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/validation"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error     string                  `json:"error"`
	Code      string                  `json:"code,omitempty"`
	Details   []validation.FieldError `json:"details,omitempty"`
	Retryable bool                    `json:"retryable,omitempty"`
}

type errorMapping struct {
	target    error
	status    int
	code      string
	retryable bool
}

// first match wins
var errorMappings = []errorMapping{
	{report.ErrEmptyAttendance, http.StatusUnprocessableEntity, "empty_attendance", false},
	{validation.ErrInvalid, http.StatusUnprocessableEntity, "validation_error", false},
	{report.ErrInvalidStage, http.StatusUnprocessableEntity, "validation_error", false},
	{resource.ErrInvalidKind, http.StatusUnprocessableEntity, "validation_error", false},
	{company.ErrWrongKind, http.StatusUnprocessableEntity, "wrong_company_kind", false},

	{report.ErrNotFound, http.StatusNotFound, "not_found", false},
	{project.ErrNotFound, http.StatusNotFound, "not_found", false},
	{company.ErrNotFound, http.StatusNotFound, "not_found", false},
	{resource.ErrNotFound, http.StatusNotFound, "not_found", false},

	{report.ErrAlreadyLocked, http.StatusConflict, "already_locked", false},
	{report.ErrPrecedingStageNotValidated, http.StatusConflict, "preceding_stage_not_validated", false},
	{report.ErrAlreadyValidated, http.StatusConflict, "already_validated", false},
	{report.ErrConflict, http.StatusConflict, "conflict", true},
	{resource.ErrForeignResource, http.StatusConflict, "foreign_resource", false},
	{resource.ErrDuplicateAccessCode, http.StatusConflict, "duplicate_access_code", false},
}

// respondError writes the status for a use case error. Unknown errors are
// logged and hidden behind a 500.
func respondError(c echo.Context, log *logrus.Logger, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := ErrorResponse{Error: err.Error(), Code: m.code, Retryable: m.retryable}
		var ve *validation.Error
		if errors.As(err, &ve) {
			resp.Error = "validation failed"
			resp.Details = ve.Fields
		}
		return c.JSON(m.status, resp)
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "internal_error"})
}

// bindAndValidate answers 400 on a malformed body and 422 on a bad shape.
// When ok is false the response is already written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "bad_request"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_error",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
