package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/validation"

	"github.com/go-playground/validator/v10"
)

const dayLayout = "2006-01-02"

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report field errors by their json/query/param name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	// company, project and resource ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// calendar day, YYYY-MM-DD
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dayLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return resource.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		_, err := report.ParseStage(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		return resource.Kind(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator.ValidationErrors to readable field messages.
func ToFieldErrors(err error) []validation.FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []validation.FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]validation.FieldError, 0, len(ve))
	for _, e := range ve {
		field := fieldPath(e.Namespace())
		var msg string
		switch e.Tag() {
		case "required":
			msg = "is required"
		case "hex32":
			msg = "must be 32-char lowercase hex"
		case "day":
			msg = "must be a date formatted YYYY-MM-DD"
		case "category":
			msg = "must be one of official, laborer, machine_operator, formwork_carpenter"
		case "stage":
			msg = "must be subcontractor or general_contractor"
		case "kind":
			msg = "must be worker or machinery"
		case "min":
			msg = "must have at least " + e.Param() + " item(s)"
		case "oneof":
			msg = "must be one of " + e.Param()
		default:
			msg = e.Tag() + " validation failed"
		}
		out = append(out, validation.FieldError{Field: field, Message: msg})
	}
	return out
}

// fieldPath drops the request struct name: "submitReportReq.attendance[0].worker_id"
// becomes "attendance[0].worker_id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// dayParser collects every malformed date of one request into a single
// validation error.
type dayParser struct {
	v validation.Error
}

func (p *dayParser) day(field, s string) time.Time {
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		p.v.Add(field, "must be a date formatted YYYY-MM-DD")
	}
	return d
}

// optional returns nil for an absent or empty value.
func (p *dayParser) optional(field string, s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	d := p.day(field, *s)
	return &d
}

func (p *dayParser) err() error { return p.v.Err() }
