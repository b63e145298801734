package http

import (
	"errors"
	"strings"
	"testing"

	"obras-backend/internal/domain/validation"
)

func containsFieldMsg(list []validation.FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		ProjectID string `json:"project_id" validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{ProjectID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		strings.Repeat("a", 33),
	} {
		err := cv.Validate(P{ProjectID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "project_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestDayValidation(t *testing.T) {
	type P struct {
		Date string `json:"date" validate:"omitempty,day"`
	}
	cv := NewValidator()

	for _, ok := range []string{"", "2025-09-06", "2024-02-29"} {
		if err := cv.Validate(P{Date: ok}); err != nil {
			t.Fatalf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"2025-9-6", "06/09/2025", "2025-02-30", "2025-09-06T00:00:00Z"} {
		err := cv.Validate(P{Date: bad})
		if err == nil || !containsFieldMsg(ToFieldErrors(err), "date", "YYYY-MM-DD") {
			t.Fatalf("%q should fail with a day message, got %v", bad, err)
		}
	}
}

func TestDayParser(t *testing.T) {
	var p dayParser
	from := "2025-09-06"
	if d := p.optional("from", &from); d == nil || d.Format(dayLayout) != from {
		t.Fatalf("optional(%q) = %v", from, d)
	}
	if d := p.optional("to", nil); d != nil {
		t.Fatalf("absent value should be nil, got %v", d)
	}
	if err := p.err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.day("date", "2025-02-30")
	bad := "yesterday"
	p.optional("to", &bad)
	err := p.err()
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("want validation.ErrInvalid, got %v", err)
	}
	var ve *validation.Error
	if !errors.As(err, &ve) || len(ve.Fields) != 2 ||
		!containsFieldMsg(ve.Fields, "date", "YYYY-MM-DD") || !containsFieldMsg(ve.Fields, "to", "YYYY-MM-DD") {
		t.Fatalf("fields = %+v", ve)
	}
}

func TestEnumTags(t *testing.T) {
	type P struct {
		Category string `json:"category" validate:"omitempty,category"`
		Stage    string `param:"stage"   validate:"stage"`
		Kind     string `json:"kind"     validate:"kind"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Category: "formwork_carpenter", Stage: "general_contractor", Kind: "machinery"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := cv.Validate(P{Category: "boss", Stage: "supervisor", Kind: "tool"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "category", "official") ||
		!containsFieldMsg(fe, "stage", "subcontractor or general_contractor") ||
		!containsFieldMsg(fe, "kind", "worker or machinery") {
		t.Fatalf("unexpected field errors: %+v", fe)
	}
}

func TestNestedFieldPath(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(submitReportReq{
		ProjectID:    strings.Repeat("a", 32),
		SupervisorID: strings.Repeat("b", 32),
		Attendance:   []attendanceReq{{WorkerID: strings.Repeat("c", 32)}, {WorkerID: "nope"}},
	})
	if err == nil {
		t.Fatal("expected an error for attendance[1].worker_id")
	}
	if fe := ToFieldErrors(err); !containsFieldMsg(fe, "attendance[1].worker_id", "hex") {
		t.Fatalf("unexpected field errors: %+v", fe)
	}
}
