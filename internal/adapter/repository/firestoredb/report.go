package firestoredb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"obras-backend/internal/domain/report"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
)

// Hours are kept as decimal strings so no precision is lost to float64.
type attendanceDoc struct {
	WorkerID   string `firestore:"worker_id"`
	WorkerName string `firestore:"worker_name"`
	Attended   bool   `firestore:"attended"`
	Hours      string `firestore:"hours"`
}

type stageDoc struct {
	Validated   bool       `firestore:"validated"`
	ValidatedAt *time.Time `firestore:"validated_at"`
}

type reportDoc struct {
	ReportID           string          `firestore:"report_id"`
	ProjectID          string          `firestore:"project_id"`
	Date               time.Time       `firestore:"date"`
	SupervisorID       string          `firestore:"supervisor_id"`
	Attendance         []attendanceDoc `firestore:"attendance"`
	Comments           *string         `firestore:"comments"`
	PhotoRefs          []string        `firestore:"photo_refs"`
	Supervisor         stageDoc        `firestore:"supervisor"`
	Subcontractor      stageDoc        `firestore:"subcontractor"`
	GeneralContractor  stageDoc        `firestore:"general_contractor"`
	Modified           bool            `firestore:"modified"`
	ModifiedBy         string          `firestore:"modified_by"`
	ModifiedAt         *time.Time      `firestore:"modified_at"`
	OriginalAttendance []attendanceDoc `firestore:"original_attendance"`
	Version            int64           `firestore:"version"`
	CreatedAt          time.Time       `firestore:"created_at"`
	UpdatedAt          time.Time       `firestore:"updated_at"`
}

func toAttendanceDocs(in report.Attendance) []attendanceDoc {
	if in == nil {
		return nil
	}
	out := make([]attendanceDoc, len(in))
	for i, a := range in {
		out[i] = attendanceDoc{WorkerID: a.WorkerID, WorkerName: a.WorkerName, Attended: a.Attended, Hours: a.Hours.String()}
	}
	return out
}

func fromAttendanceDocs(in []attendanceDoc) (report.Attendance, error) {
	if in == nil {
		return nil, nil
	}
	out := make(report.Attendance, len(in))
	for i, a := range in {
		h, err := decimal.NewFromString(a.Hours)
		if err != nil {
			return nil, fmt.Errorf("attendance[%d].hours: %w", i, err)
		}
		out[i] = report.AttendanceRecord{WorkerID: a.WorkerID, WorkerName: a.WorkerName, Attended: a.Attended, Hours: h}
	}
	return out, nil
}

func toReportDoc(r *report.DailyReport) reportDoc {
	return reportDoc{
		ReportID:           r.ReportID,
		ProjectID:          r.ProjectID,
		Date:               r.Date,
		SupervisorID:       r.SupervisorID,
		Attendance:         toAttendanceDocs(r.Attendance),
		Comments:           r.Comments,
		PhotoRefs:          r.PhotoRefs,
		Supervisor:         stageDoc(r.Validation.Supervisor),
		Subcontractor:      stageDoc(r.Validation.Subcontractor),
		GeneralContractor:  stageDoc(r.Validation.GeneralContractor),
		Modified:           r.Modification.Modified,
		ModifiedBy:         r.Modification.ModifiedBy,
		ModifiedAt:         r.Modification.ModifiedAt,
		OriginalAttendance: toAttendanceDocs(r.Modification.OriginalAttendance),
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func (d reportDoc) toDomain() (*report.DailyReport, error) {
	att, err := fromAttendanceDocs(d.Attendance)
	if err != nil {
		return nil, err
	}
	orig, err := fromAttendanceDocs(d.OriginalAttendance)
	if err != nil {
		return nil, err
	}
	return &report.DailyReport{
		ReportID:     d.ReportID,
		ProjectID:    d.ProjectID,
		Date:         d.Date.UTC(),
		SupervisorID: d.SupervisorID,
		Attendance:   att,
		Comments:     d.Comments,
		PhotoRefs:    d.PhotoRefs,
		Validation: report.Validation{
			Supervisor:        report.StageValidation(d.Supervisor),
			Subcontractor:     report.StageValidation(d.Subcontractor),
			GeneralContractor: report.StageValidation(d.GeneralContractor),
		},
		Modification: report.ModificationRecord{
			Modified:           d.Modified,
			ModifiedBy:         d.ModifiedBy,
			ModifiedAt:         d.ModifiedAt,
			OriginalAttendance: orig,
		},
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type ReportRepository struct{ s store }

func NewReportRepository(client *firestore.Client) *ReportRepository {
	return &ReportRepository{s: store{client: client}}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.DailyReport) error {
	now := time.Now().UTC()
	rep.CreatedAt, rep.UpdatedAt = now, now
	if rep.Version == 0 {
		rep.Version = 1
	}
	if err := r.s.create(ctx, r.s.col(colReports).Doc(rep.ReportID), toReportDoc(rep)); err != nil {
		return fmt.Errorf("failed to create daily report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByReportID(ctx context.Context, reportID string) (*report.DailyReport, error) {
	return r.get(ctx, r.s, reportID)
}

// GetByReportIDForUpdate reads through the transaction, which makes Firestore
// fail or retry the commit if the document changes before it.
func (r *ReportRepository) GetByReportIDForUpdate(ctx context.Context, reportID string) (*report.DailyReport, error) {
	return r.get(ctx, r.s, reportID)
}

func (r *ReportRepository) get(ctx context.Context, s store, reportID string) (*report.DailyReport, error) {
	doc, err := s.get(ctx, s.col(colReports).Doc(reportID))
	if isNotFound(err) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}
	var d reportDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to parse daily report: %w", err)
	}
	return d.toDomain()
}

func (r *ReportRepository) Save(ctx context.Context, rep *report.DailyReport) error {
	prev := rep.Version
	err := r.s.atomic(ctx, func(ctx context.Context, s store) error {
		stored, err := r.get(ctx, s, rep.ReportID)
		if err != nil {
			return err
		}
		if stored.Version != prev {
			return report.ErrConflict
		}
		d := toReportDoc(rep)
		d.Version = prev + 1
		d.CreatedAt = stored.CreatedAt
		d.UpdatedAt = time.Now().UTC()
		return s.set(ctx, s.col(colReports).Doc(rep.ReportID), d)
	})
	if err != nil {
		return err
	}
	rep.Version = prev + 1
	return nil
}

// List applies the project and supervisor filters in the query and the day
// range in memory, so no composite index is needed.
func (r *ReportRepository) List(ctx context.Context, f report.Filter) ([]report.DailyReport, error) {
	out := []report.DailyReport{}
	if f.ProjectIDs != nil && len(f.ProjectIDs) == 0 {
		return out, nil
	}

	var queries []firestore.Query
	base := r.s.col(colReports).Query
	if f.SupervisorID != "" {
		base = base.Where("supervisor_id", "==", f.SupervisorID)
	}
	if f.ProjectIDs == nil {
		queries = append(queries, base)
	} else {
		for _, ids := range chunks(f.ProjectIDs) {
			queries = append(queries, base.Where("project_id", "in", ids))
		}
	}

	var convErr error
	for _, q := range queries {
		err := each(ctx, r.s, q, func(d *reportDoc) {
			if convErr != nil {
				return
			}
			if f.From != nil && d.Date.Before(*f.From) {
				return
			}
			if f.To != nil && d.Date.After(*f.To) {
				return
			}
			rep, err := d.toDomain()
			if err != nil {
				convErr = err
				return
			}
			out = append(out, *rep)
		})
		if err != nil {
			return nil, err
		}
		if convErr != nil {
			return nil, convErr
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ReportID > out[j].ReportID
	})
	return out, nil
}
