package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceInput struct {
	WorkerID string
	// WorkerName is optional; it is filled from the roster when empty.
	WorkerName string
	Attended   bool
	Hours      decimal.Decimal
}

type SubmitInput struct {
	ProjectID    string
	SupervisorID string
	// Day is the business day; nil means today in the business timezone.
	Day        *time.Time
	Attendance []AttendanceInput
	Comments   *string
	PhotoRefs  []string
}

type AmendInput struct {
	ReportID   string
	DelegateID string
	Attendance []AttendanceInput
}

// ListFilter fields combine with AND. SubcontractorID and GeneralContractorID
// resolve to the projects those companies own.
type ListFilter struct {
	ProjectID           string
	SupervisorID        string
	SubcontractorID     string
	GeneralContractorID string
	From                *time.Time
	To                  *time.Time
}

type AttendanceDTO struct {
	WorkerID   string          `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Attended   bool            `json:"attended"`
	Hours      decimal.Decimal `json:"hours"`
}

type StageDTO struct {
	Validated   bool       `json:"validated"`
	ValidatedAt *time.Time `json:"validated_at"`
}

type ValidationDTO struct {
	Supervisor        StageDTO `json:"supervisor"`
	Subcontractor     StageDTO `json:"subcontractor"`
	GeneralContractor StageDTO `json:"general_contractor"`
}

type ModificationDTO struct {
	Modified           bool            `json:"modified"`
	ModifiedBy         string          `json:"modified_by"`
	ModifiedAt         *time.Time      `json:"modified_at"`
	OriginalAttendance []AttendanceDTO `json:"original_attendance"`
}

type ReportDTO struct {
	ReportID      string           `json:"report_id"`
	ProjectID     string           `json:"project_id"`
	Date          string           `json:"date"`
	SupervisorID  string           `json:"supervisor_id"`
	Attendance    []AttendanceDTO  `json:"attendance"`
	Comments      *string          `json:"comments"`
	PhotoRefs     []string         `json:"photo_refs"`
	Validation    ValidationDTO    `json:"validation"`
	Modification  *ModificationDTO `json:"modification"`
	Status        string           `json:"status"`
	StatusLabel   string           `json:"status_label"`
	TotalHours    decimal.Decimal  `json:"total_hours"`
	AttendedCount int              `json:"attended_count"`
	Version       int64            `json:"version"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
