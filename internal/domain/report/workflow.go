package report

import (
	"fmt"
	"strings"
	"time"

	"obras-backend/internal/domain/validation"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft                    Status = "draft"
	StatusSubmitted                Status = "submitted"
	StatusValidatedBySubcontractor Status = "validated_by_subcontractor"
	StatusFullyValidated           Status = "fully_validated"
)

// DeriveStatus is the single status rule, evaluated from the highest stage down.
func DeriveStatus(v Validation) Status {
	switch {
	case v.GeneralContractor.Validated:
		return StatusFullyValidated
	case v.Subcontractor.Validated:
		return StatusValidatedBySubcontractor
	case v.Supervisor.Validated:
		return StatusSubmitted
	default:
		return StatusDraft
	}
}

func (s Status) Label() string {
	switch s {
	case StatusFullyValidated:
		return "Fully validated"
	case StatusValidatedBySubcontractor:
		return "Validated by subcontractor"
	case StatusSubmitted:
		return "Submitted"
	default:
		return "Draft"
	}
}

// ParseStage accepts the two stages that can be advanced after submission.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subcontractor":
		return StageSubcontractor, nil
	case "general_contractor", "generalcontractor":
		return StageGeneralContractor, nil
	}
	return "", ErrInvalidStage
}

// ValidateAttendance checks record shape: worker ids present and unique,
// hours within [0, MaxHours].
func ValidateAttendance(records []AttendanceRecord) error {
	var v validation.Error
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		field := fmt.Sprintf("attendance[%d]", i)
		if strings.TrimSpace(r.WorkerID) == "" {
			v.Add(field+".worker_id", "is required")
		} else if _, dup := seen[r.WorkerID]; dup {
			v.Add(field+".worker_id", "appears more than once")
		} else {
			seen[r.WorkerID] = struct{}{}
		}
		if r.Hours.IsNegative() || r.Hours.GreaterThan(MaxHours) {
			v.Add(field+".hours", "must be between 0 and "+MaxHours.String())
		}
	}
	return v.Err()
}

// RequireAttendee returns ErrEmptyAttendance unless some record is attended.
func RequireAttendee(records []AttendanceRecord) error {
	for _, r := range records {
		if r.Attended {
			return nil
		}
	}
	return ErrEmptyAttendance
}

// NewDailyReport builds a submitted report: the supervisor stage is validated
// at now, the later stages are pending.
func NewDailyReport(reportID, projectID, supervisorID string, day time.Time, records []AttendanceRecord, comments *string, photoRefs []string, now time.Time) (*DailyReport, error) {
	if err := ValidateAttendance(records); err != nil {
		return nil, err
	}
	if err := RequireAttendee(records); err != nil {
		return nil, err
	}
	at := now.UTC()
	return &DailyReport{
		ReportID:     reportID,
		ProjectID:    projectID,
		Date:         day,
		SupervisorID: supervisorID,
		Attendance:   cloneAttendance(records),
		Comments:     comments,
		PhotoRefs:    append([]string(nil), photoRefs...),
		Validation: Validation{
			Supervisor: StageValidation{Validated: true, ValidatedAt: &at},
		},
		Version: 1,
	}, nil
}

// Locked reports whether attendance can no longer change.
func (r *DailyReport) Locked() bool {
	return r.Validation.Subcontractor.Validated || r.Validation.GeneralContractor.Validated
}

func (r *DailyReport) Status() Status { return DeriveStatus(r.Validation) }

// Amend replaces attendance on behalf of delegateID. The pre-edit list is
// snapshotted on the first amendment only; later ones refresh editor and time.
func (r *DailyReport) Amend(delegateID string, records []AttendanceRecord, now time.Time) error {
	if r.Locked() {
		return ErrAlreadyLocked
	}
	if err := ValidateAttendance(records); err != nil {
		return err
	}
	if err := RequireAttendee(records); err != nil {
		return err
	}
	at := now.UTC()
	if !r.Modification.Modified {
		r.Modification.Modified = true
		r.Modification.OriginalAttendance = cloneAttendance(r.Attendance)
	}
	r.Modification.ModifiedBy = delegateID
	r.Modification.ModifiedAt = &at
	r.Attendance = cloneAttendance(records)
	return nil
}

// Advance validates stage at now. Timestamps are only ever set here, once.
func (r *DailyReport) Advance(stage Stage, now time.Time) error {
	var target, preceding *StageValidation
	switch stage {
	case StageSubcontractor:
		target, preceding = &r.Validation.Subcontractor, &r.Validation.Supervisor
	case StageGeneralContractor:
		target, preceding = &r.Validation.GeneralContractor, &r.Validation.Subcontractor
	default:
		return ErrInvalidStage
	}
	if target.Validated {
		return ErrAlreadyValidated
	}
	if !preceding.Validated {
		return ErrPrecedingStageNotValidated
	}
	at := now.UTC()
	target.Validated = true
	target.ValidatedAt = &at
	return nil
}

func (r *DailyReport) AttendedCount() int {
	n := 0
	for _, a := range r.Attendance {
		if a.Attended {
			n++
		}
	}
	return n
}

// TotalHours sums the hours of attended records only.
func (r *DailyReport) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Attendance {
		if a.Attended {
			total = total.Add(a.Hours)
		}
	}
	return total
}

func cloneAttendance(in []AttendanceRecord) Attendance {
	if in == nil {
		return Attendance{}
	}
	out := make(Attendance, len(in))
	copy(out, in)
	return out
}
