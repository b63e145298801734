package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"obras-backend/internal/domain/lock"
	"obras-backend/internal/domain/project"
	domain "obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/uow"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/infrastructure/logging"
	"obras-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	module    = "report"
	dayLayout = "2006-01-02"
)

type Usecase struct {
	repos  uow.Repos
	uow    uow.UnitOfWork
	locker lock.Locker
	log    *logrus.Logger
	tracer trace.Tracer
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Usecase)

// WithLocker serialises amend and validate calls per report across instances.
func WithLocker(l lock.Locker) Option { return func(u *Usecase) { u.locker = l } }

func WithLogger(l *logrus.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithTracer(t trace.Tracer) Option { return func(u *Usecase) { u.tracer = t } }

// WithLocation sets the business timezone that decides "today".
func WithLocation(loc *time.Location) Option { return func(u *Usecase) { u.loc = loc } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		repos:  repos,
		uow:    tx,
		log:    logging.Discard(),
		tracer: otel.Tracer("obras-backend/report"),
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Submit creates a report whose supervisor stage is validated at submission.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (dto *ReportDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "report.Submit", trace.WithAttributes(attribute.String("project_id", in.ProjectID)))
	defer func() { u.finish(span, "Submit", in, err) }()

	var v validation.Error
	if in.ProjectID == "" {
		v.Add("project_id", "is required")
	}
	if in.SupervisorID == "" {
		v.Add("supervisor_id", "is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	records := toRecords(in.Attendance)
	if err := domain.ValidateAttendance(records); err != nil {
		return nil, err
	}
	if err := domain.RequireAttendee(records); err != nil {
		return nil, err
	}

	now := u.now()
	day := domain.NormalizeDay(now, u.loc)
	if in.Day != nil {
		day = domain.NormalizeDay(*in.Day, time.UTC)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Projects.GetByProjectID(ctx, in.ProjectID)
		if err != nil {
			if errors.Is(err, project.ErrNotFound) {
				return fmt.Errorf("%w: %s", project.ErrNotFound, in.ProjectID)
			}
			return err
		}
		named, err := fillWorkerNames(ctx, r.Workers, p.SubcontractorID, records)
		if err != nil {
			return err
		}
		rep, err := domain.NewDailyReport(id.NewReportID(in.ProjectID, day), in.ProjectID, in.SupervisorID,
			day, named, in.Comments, in.PhotoRefs, now)
		if err != nil {
			return err
		}
		if err := r.Reports.Create(ctx, rep); err != nil {
			return err
		}
		dto = toDTO(rep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Amend replaces the attendance of a report that no later stage has validated.
func (u *Usecase) Amend(ctx context.Context, in AmendInput) (dto *ReportDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "report.Amend", trace.WithAttributes(attribute.String("report_id", in.ReportID)))
	defer func() { u.finish(span, "Amend", in, err) }()

	var v validation.Error
	if in.DelegateID == "" {
		v.Add("delegate_id", "is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	records := toRecords(in.Attendance)
	if err := domain.ValidateAttendance(records); err != nil {
		return nil, err
	}

	err = u.withReportLock(ctx, in.ReportID, func() error {
		return u.uow.WithinReportTx(ctx, in.ReportID, func(r uow.Repos, rep *domain.DailyReport) error {
			// lock condition is re-checked here, on the state this write commits over
			if rep.Locked() {
				return fmt.Errorf("%w: report %s is %s", domain.ErrAlreadyLocked, rep.ReportID, strings.ToLower(rep.Status().Label()))
			}
			p, err := r.Projects.GetByProjectID(ctx, rep.ProjectID)
			if err != nil {
				return err
			}
			named, err := fillWorkerNames(ctx, r.Workers, p.SubcontractorID, records)
			if err != nil {
				return err
			}
			if err := rep.Amend(in.DelegateID, named, u.now()); err != nil {
				return err
			}
			if err := r.Reports.Save(ctx, rep); err != nil {
				return err
			}
			dto = toDTO(rep)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Validate advances stage ("subcontractor" or "general_contractor").
func (u *Usecase) Validate(ctx context.Context, reportID, stage string) (dto *ReportDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "report.Validate", trace.WithAttributes(
		attribute.String("report_id", reportID),
		attribute.String("stage", stage),
	))
	defer func() { u.finish(span, "Validate", map[string]string{"report_id": reportID, "stage": stage}, err) }()

	st, err := domain.ParseStage(stage)
	if err != nil {
		return nil, err
	}

	err = u.withReportLock(ctx, reportID, func() error {
		return u.uow.WithinReportTx(ctx, reportID, func(r uow.Repos, rep *domain.DailyReport) error {
			if err := rep.Advance(st, u.now()); err != nil {
				return err
			}
			if err := r.Reports.Save(ctx, rep); err != nil {
				return err
			}
			dto = toDTO(rep)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, reportID string) (*ReportDTO, error) {
	rep, err := u.repos.Reports.GetByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return toDTO(rep), nil
}

// List returns reports newest day first, newest submission first within a day.
func (u *Usecase) List(ctx context.Context, f ListFilter) ([]ReportDTO, error) {
	ctx, span := u.tracer.Start(ctx, "report.List")
	defer span.End()

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, validation.Single("to", "must not be before from")
	}
	projectIDs, err := u.resolveProjects(ctx, f)
	if err != nil {
		return nil, err
	}
	df := domain.Filter{ProjectIDs: projectIDs, SupervisorID: f.SupervisorID}
	if f.From != nil {
		d := domain.NormalizeDay(*f.From, time.UTC)
		df.From = &d
	}
	if f.To != nil {
		d := domain.NormalizeDay(*f.To, time.UTC)
		df.To = &d
	}
	reps, err := u.repos.Reports.List(ctx, df)
	if err != nil {
		logging.LogError(u.log, module, "List", "list reports", f, err)
		return nil, err
	}
	out := make([]ReportDTO, 0, len(reps))
	for i := range reps {
		out = append(out, *toDTO(&reps[i]))
	}
	return out, nil
}

// Latest is the last-submitted report of projectID on day, the one shown when
// a day has several.
func (u *Usecase) Latest(ctx context.Context, projectID string, day time.Time) (*ReportDTO, error) {
	if _, err := u.repos.Projects.GetByProjectID(ctx, projectID); err != nil {
		return nil, err
	}
	reps, err := u.List(ctx, ListFilter{ProjectID: projectID, From: &day, To: &day})
	if err != nil {
		return nil, err
	}
	if len(reps) == 0 {
		return nil, fmt.Errorf("%w: no report for project %s on %s", domain.ErrNotFound, projectID, day.Format(dayLayout))
	}
	return &reps[0], nil
}

// resolveProjects turns the company filters into a project id set. nil means
// no project restriction.
func (u *Usecase) resolveProjects(ctx context.Context, f ListFilter) ([]string, error) {
	if f.SubcontractorID == "" && f.GeneralContractorID == "" {
		if f.ProjectID == "" {
			return nil, nil
		}
		return []string{f.ProjectID}, nil
	}
	ps, err := u.repos.Projects.List(ctx, project.Filter{
		GeneralContractorID: f.GeneralContractorID,
		SubcontractorID:     f.SubcontractorID,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		if f.ProjectID == "" || p.ProjectID == f.ProjectID {
			ids = append(ids, p.ProjectID)
		}
	}
	return ids, nil
}

func (u *Usecase) withReportLock(ctx context.Context, reportID string, fn func() error) error {
	if u.locker == nil {
		return fn()
	}
	release, err := u.locker.Obtain(ctx, "report:"+reportID)
	if errors.Is(err, lock.ErrNotObtained) {
		return fmt.Errorf("%w: report %s is being changed by another request", domain.ErrConflict, reportID)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			u.log.WithFields(logrus.Fields{"module": module, "report_id": reportID}).Warn("release report lock: " + err.Error())
		}
	}()
	return fn()
}

// finish ends span, logging expected rejections at info and the rest as errors.
func (u *Usecase) finish(span trace.Span, funcName string, data any, err error) {
	defer span.End()
	if err == nil {
		return
	}
	if expected(err) {
		u.log.WithFields(logrus.Fields{"module": module, "funcName": funcName}).Info(err.Error())
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logging.LogError(u.log, module, funcName, "report mutation failed", data, err)
}

func expected(err error) bool {
	for _, target := range []error{
		validation.ErrInvalid,
		domain.ErrNotFound, domain.ErrEmptyAttendance, domain.ErrAlreadyLocked,
		domain.ErrPrecedingStageNotValidated, domain.ErrAlreadyValidated,
		domain.ErrConflict, domain.ErrInvalidStage,
		project.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fillWorkerNames snapshots the worker name into records that omit it.
// fillWorkerNames resolves every record against the roster of subcontractorID.
// A name given by the client is kept as the snapshot; otherwise the roster
// name is copied.
func fillWorkerNames(ctx context.Context, workers resource.WorkerRepository, subcontractorID string, records []domain.AttendanceRecord) ([]domain.AttendanceRecord, error) {
	out := make([]domain.AttendanceRecord, len(records))
	copy(out, records)
	var v validation.Error
	for i := range out {
		field := fmt.Sprintf("attendance[%d].worker_id", i)
		w, err := workers.GetByWorkerID(ctx, out[i].WorkerID)
		if errors.Is(err, resource.ErrNotFound) {
			v.Add(field, "unknown worker")
			continue
		}
		if err != nil {
			return nil, err
		}
		if w.SubcontractorID != subcontractorID {
			v.Add(field, "worker is not in the project subcontractor roster")
			continue
		}
		if out[i].WorkerName == "" {
			out[i].WorkerName = w.Name
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toRecords(in []AttendanceInput) []domain.AttendanceRecord {
	out := make([]domain.AttendanceRecord, len(in))
	for i, a := range in {
		out[i] = domain.AttendanceRecord{
			WorkerID:   strings.TrimSpace(a.WorkerID),
			WorkerName: strings.TrimSpace(a.WorkerName),
			Attended:   a.Attended,
			Hours:      a.Hours,
		}
	}
	return out
}

func attendanceDTOs(in domain.Attendance) []AttendanceDTO {
	out := make([]AttendanceDTO, len(in))
	for i, a := range in {
		out[i] = AttendanceDTO{WorkerID: a.WorkerID, WorkerName: a.WorkerName, Attended: a.Attended, Hours: a.Hours}
	}
	return out
}

func toDTO(r *domain.DailyReport) *ReportDTO {
	status := r.Status()
	dto := &ReportDTO{
		ReportID:     r.ReportID,
		ProjectID:    r.ProjectID,
		Date:         r.Date.UTC().Format(dayLayout),
		SupervisorID: r.SupervisorID,
		Attendance:   attendanceDTOs(r.Attendance),
		Comments:     r.Comments,
		PhotoRefs:    r.PhotoRefs,
		Validation: ValidationDTO{
			Supervisor:        StageDTO(r.Validation.Supervisor),
			Subcontractor:     StageDTO(r.Validation.Subcontractor),
			GeneralContractor: StageDTO(r.Validation.GeneralContractor),
		},
		Status:        string(status),
		StatusLabel:   status.Label(),
		TotalHours:    r.TotalHours(),
		AttendedCount: r.AttendedCount(),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if dto.PhotoRefs == nil {
		dto.PhotoRefs = []string{}
	}
	if r.Modification.Modified {
		dto.Modification = &ModificationDTO{
			Modified:           true,
			ModifiedBy:         r.Modification.ModifiedBy,
			ModifiedAt:         r.Modification.ModifiedAt,
			OriginalAttendance: attendanceDTOs(r.Modification.OriginalAttendance),
		}
	}
	return dto
}
