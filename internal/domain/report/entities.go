package report

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Stage string

const (
	StageSupervisor        Stage = "supervisor"
	StageSubcontractor     Stage = "subcontractor"
	StageGeneralContractor Stage = "general_contractor"
)

// MaxHours caps the hours of one attendance record.
var MaxHours = decimal.NewFromInt(12)

type AttendanceRecord struct {
	WorkerID   string          `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Attended   bool            `json:"attended"`
	Hours      decimal.Decimal `json:"hours"`
}

// Attendance is stored as a JSON column; order is significant.
type Attendance = datatypes.JSONSlice[AttendanceRecord]

type StageValidation struct {
	Validated   bool       `gorm:"column:validated;not null"`
	ValidatedAt *time.Time `gorm:"column:validated_at"`
}

type Validation struct {
	Supervisor        StageValidation `gorm:"embedded;embeddedPrefix:supervisor_"`
	Subcontractor     StageValidation `gorm:"embedded;embeddedPrefix:subcontractor_"`
	GeneralContractor StageValidation `gorm:"embedded;embeddedPrefix:general_contractor_"`
}

// ModificationRecord is filled the first time a delegate edits attendance.
// Modified never resets; OriginalAttendance keeps the pre-edit list of that first edit.
type ModificationRecord struct {
	Modified           bool       `gorm:"column:modified;not null"`
	ModifiedBy         string     `gorm:"column:modified_by;size:32"`
	ModifiedAt         *time.Time `gorm:"column:modified_at"`
	OriginalAttendance Attendance `gorm:"column:original_attendance"`
}

// Table: daily_reports
type DailyReport struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ReportID string `gorm:"column:report_id;size:96;uniqueIndex"`
	// Date is the business day (00:00 UTC), independent of the validation instants.
	ProjectID    string                      `gorm:"column:project_id;size:32;not null;index:idx_reports_project_day"`
	Date         time.Time                   `gorm:"column:report_date;type:date;not null;index:idx_reports_project_day"`
	SupervisorID string                      `gorm:"column:supervisor_id;size:32;not null;index"`
	Attendance   Attendance                  `gorm:"column:attendance;not null"`
	Comments     *string                     `gorm:"column:comments;type:text"`
	PhotoRefs    datatypes.JSONSlice[string] `gorm:"column:photo_refs"`
	Validation   Validation                  `gorm:"embedded"`
	Modification ModificationRecord          `gorm:"embedded;embeddedPrefix:modification_"`
	// Version is the optimistic concurrency token, bumped on every save.
	Version   int64     `gorm:"column:version;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DailyReport) TableName() string { return "daily_reports" }

// Filter narrows report listings. A nil ProjectIDs does not filter; a non-nil
// empty one matches nothing.
type Filter struct {
	ProjectIDs   []string
	SupervisorID string
	From         *time.Time
	To           *time.Time
}

// NormalizeDay returns the calendar day of t as seen in loc, at 00:00 UTC.
func NormalizeDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
