package report

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"obras-backend/internal/domain/lock"
	"obras-backend/internal/domain/project"
	domain "obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/uow"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/testutil/lockmock"
	"obras-backend/internal/testutil/projectmock"
	"obras-backend/internal/testutil/reportmock"
	"obras-backend/internal/testutil/resourcemock"
	"obras-backend/internal/testutil/uowmock"

	"github.com/shopspring/decimal"
)

var clock = time.Date(2025, 9, 6, 17, 0, 0, 0, time.UTC)

// fixture wires the usecase to map-backed mocks. Save enforces the version
// token the same way the real repositories do.
type fixture struct {
	uc      *Usecase
	reports map[string]*domain.DailyReport
	locker  *lockmock.Locker
	saves   int
	now     time.Time
}

func copyReport(r *domain.DailyReport) *domain.DailyReport {
	c := *r
	c.Attendance = append(domain.Attendance(nil), r.Attendance...)
	return &c
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{reports: map[string]*domain.DailyReport{}, locker: &lockmock.Locker{}, now: clock}

	projects := &projectmock.Repo{
		GetByProjectIDFn: func(_ context.Context, id string) (*project.Project, error) {
			switch id {
			case "P1":
				return &project.Project{ProjectID: "P1", GeneralContractorID: "GC1", SubcontractorID: "SC1"}, nil
			case "P2":
				return &project.Project{ProjectID: "P2", GeneralContractorID: "GC1", SubcontractorID: "SC2"}, nil
			}
			return nil, project.ErrNotFound
		},
		ListFn: func(_ context.Context, pf project.Filter) ([]project.Project, error) {
			all := []project.Project{
				{ProjectID: "P1", GeneralContractorID: "GC1", SubcontractorID: "SC1"},
				{ProjectID: "P2", GeneralContractorID: "GC1", SubcontractorID: "SC2"},
			}
			var out []project.Project
			for _, p := range all {
				if pf.SubcontractorID != "" && p.SubcontractorID != pf.SubcontractorID {
					continue
				}
				if pf.GeneralContractorID != "" && p.GeneralContractorID != pf.GeneralContractorID {
					continue
				}
				out = append(out, p)
			}
			return out, nil
		},
	}
	workers := &resourcemock.Workers{
		GetByWorkerIDFn: func(_ context.Context, id string) (*resource.Worker, error) {
			switch id {
			case "W1":
				return &resource.Worker{WorkerID: "W1", SubcontractorID: "SC1", Name: "Ana"}, nil
			case "W2":
				return &resource.Worker{WorkerID: "W2", SubcontractorID: "SC1", Name: "Luis"}, nil
			case "X1":
				return &resource.Worker{WorkerID: "X1", SubcontractorID: "SC2", Name: "Marta"}, nil
			}
			return nil, resource.ErrNotFound
		},
	}
	get := func(_ context.Context, id string) (*domain.DailyReport, error) {
		r, ok := f.reports[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return copyReport(r), nil
	}
	reports := &reportmock.Repo{
		CreateFn: func(_ context.Context, r *domain.DailyReport) error {
			r.CreatedAt = f.now
			f.reports[r.ReportID] = copyReport(r)
			return nil
		},
		GetByReportIDFn:          get,
		GetByReportIDForUpdateFn: get,
		SaveFn: func(_ context.Context, r *domain.DailyReport) error {
			cur, ok := f.reports[r.ReportID]
			if !ok || cur.Version != r.Version {
				return domain.ErrConflict
			}
			r.Version++
			f.reports[r.ReportID] = copyReport(r)
			f.saves++
			return nil
		},
		ListFn: func(_ context.Context, df domain.Filter) ([]domain.DailyReport, error) {
			var out []domain.DailyReport
			for _, r := range f.reports {
				if df.ProjectIDs != nil && !contains(df.ProjectIDs, r.ProjectID) {
					continue
				}
				if df.SupervisorID != "" && r.SupervisorID != df.SupervisorID {
					continue
				}
				if df.From != nil && r.Date.Before(*df.From) {
					continue
				}
				if df.To != nil && r.Date.After(*df.To) {
					continue
				}
				out = append(out, *copyReport(r))
			}
			sort.Slice(out, func(i, j int) bool {
				if !out[i].Date.Equal(out[j].Date) {
					return out[i].Date.After(out[j].Date)
				}
				return out[i].CreatedAt.After(out[j].CreatedAt)
			})
			return out, nil
		},
	}

	repos := uow.Repos{Projects: projects, Workers: workers, Reports: reports}
	opts = append([]Option{WithLocker(f.locker), WithClock(func() time.Time { return f.now })}, opts...)
	f.uc = NewUsecase(repos, uowmock.Passthrough(repos), opts...)
	return f
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func att(worker string, attended bool, hours int64) AttendanceInput {
	return AttendanceInput{WorkerID: worker, Attended: attended, Hours: decimal.NewFromInt(hours)}
}

func submitP1(t *testing.T, f *fixture) *ReportDTO {
	t.Helper()
	dto, err := f.uc.Submit(context.Background(), SubmitInput{
		ProjectID:    "P1",
		SupervisorID: "SUP1",
		Attendance:   []AttendanceInput{att("W1", true, 8), att("W2", false, 0)},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return dto
}

func TestSubmit_CreatesSubmittedReport(t *testing.T) {
	f := newFixture(t)
	dto := submitP1(t, f)

	if dto.Status != string(domain.StatusSubmitted) || dto.StatusLabel != "Submitted" {
		t.Fatalf("status = %s (%s)", dto.Status, dto.StatusLabel)
	}
	if !dto.Validation.Supervisor.Validated || dto.Validation.Supervisor.ValidatedAt == nil {
		t.Fatalf("supervisor stage: %+v", dto.Validation.Supervisor)
	}
	if dto.Validation.Subcontractor.Validated || dto.Validation.GeneralContractor.Validated {
		t.Fatalf("later stages must be pending: %+v", dto.Validation)
	}
	if !strings.HasPrefix(dto.ReportID, "P1-20250906-") || dto.Date != "2025-09-06" {
		t.Fatalf("id=%s date=%s", dto.ReportID, dto.Date)
	}
	if dto.Attendance[0].WorkerName != "Ana" || dto.Attendance[1].WorkerName != "Luis" {
		t.Fatalf("worker names not snapshotted: %+v", dto.Attendance)
	}
	if dto.AttendedCount != 1 || !dto.TotalHours.Equal(decimal.NewFromInt(8)) || dto.Version != 1 {
		t.Fatalf("count=%d total=%s version=%d", dto.AttendedCount, dto.TotalHours, dto.Version)
	}
	if dto.Modification != nil {
		t.Fatalf("fresh report must have no modification: %+v", dto.Modification)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmitInput
		wantErr error
	}{
		{"no records", SubmitInput{ProjectID: "P1", SupervisorID: "S"}, domain.ErrEmptyAttendance},
		{"nobody attended", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{att("W1", false, 0)}}, domain.ErrEmptyAttendance},
		{"13 hours", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{att("W1", true, 13)}}, validation.ErrInvalid},
		{"missing supervisor", SubmitInput{ProjectID: "P1", Attendance: []AttendanceInput{att("W1", true, 8)}}, validation.ErrInvalid},
		{"duplicate worker", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{att("W1", true, 8), att("W1", true, 2)}}, validation.ErrInvalid},
		{"unknown worker", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{att("W9", true, 8)}}, validation.ErrInvalid},
		{"unknown worker with name", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{
			{WorkerID: "W9", WorkerName: "Ghost", Attended: true, Hours: decimal.NewFromInt(8)},
		}}, validation.ErrInvalid},
		{"worker of another subcontractor", SubmitInput{ProjectID: "P1", SupervisorID: "S", Attendance: []AttendanceInput{att("X1", true, 8)}}, validation.ErrInvalid},
		{"unknown project", SubmitInput{ProjectID: "P9", SupervisorID: "S", Attendance: []AttendanceInput{att("W1", true, 8)}}, project.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Submit(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if len(f.reports) != 0 {
				t.Fatalf("rejected submit persisted a report")
			}
		})
	}
}

func TestSubmit_DefaultDayUsesBusinessTimezone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	f := newFixture(t, WithLocation(madrid))
	f.now = time.Date(2025, 9, 5, 23, 30, 0, 0, time.UTC)

	dto := submitP1(t, f)
	if dto.Date != "2025-09-06" {
		t.Fatalf("date = %s, want 2025-09-06", dto.Date)
	}

	explicit := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	dto, err = f.uc.Submit(context.Background(), SubmitInput{
		ProjectID: "P1", SupervisorID: "SUP1", Day: &explicit,
		Attendance: []AttendanceInput{att("W1", true, 8)},
	})
	if err != nil || dto.Date != "2025-09-01" {
		t.Fatalf("explicit day: %+v, %v", dto, err)
	}
}

func TestWorkflow_Scenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := submitP1(t, f)

	// amend marks W2 present for 4h
	f.now = clock.Add(time.Hour)
	amended, err := f.uc.Amend(ctx, AmendInput{
		ReportID:   first.ReportID,
		DelegateID: "JEFE1",
		Attendance: []AttendanceInput{att("W1", true, 8), att("W2", true, 4)},
	})
	if err != nil {
		t.Fatalf("Amend: %v", err)
	}
	if amended.Modification == nil || !amended.Modification.Modified || amended.Modification.ModifiedBy != "JEFE1" {
		t.Fatalf("modification: %+v", amended.Modification)
	}
	orig := amended.Modification.OriginalAttendance
	if len(orig) != 2 || !orig[0].Attended || orig[1].Attended || !orig[0].Hours.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("snapshot differs from submitted attendance: %+v", orig)
	}
	if amended.AttendedCount != 2 || amended.Version != 2 {
		t.Fatalf("count=%d version=%d", amended.AttendedCount, amended.Version)
	}

	// general contractor before subcontractor
	if _, err := f.uc.Validate(ctx, first.ReportID, "generalContractor"); !errors.Is(err, domain.ErrPrecedingStageNotValidated) {
		t.Fatalf("want ErrPrecedingStageNotValidated, got %v", err)
	}
	if stored := f.reports[first.ReportID]; stored.Validation.GeneralContractor.Validated || stored.Version != 2 {
		t.Fatalf("report changed by rejected validation: %+v", stored.Validation)
	}

	f.now = clock.Add(2 * time.Hour)
	sc, err := f.uc.Validate(ctx, first.ReportID, "subcontractor")
	if err != nil {
		t.Fatalf("Validate subcontractor: %v", err)
	}
	if sc.Status != string(domain.StatusValidatedBySubcontractor) || !sc.Validation.Subcontractor.ValidatedAt.Equal(f.now) {
		t.Fatalf("after subcontractor: %+v", sc.Validation)
	}

	_, err = f.uc.Amend(ctx, AmendInput{ReportID: first.ReportID, DelegateID: "JEFE1", Attendance: []AttendanceInput{att("W1", true, 1)}})
	if !errors.Is(err, domain.ErrAlreadyLocked) {
		t.Fatalf("amend after subcontractor: want ErrAlreadyLocked, got %v", err)
	}

	gc, err := f.uc.Validate(ctx, first.ReportID, "general_contractor")
	if err != nil {
		t.Fatalf("Validate general contractor: %v", err)
	}
	if gc.Status != string(domain.StatusFullyValidated) || gc.StatusLabel != "Fully validated" {
		t.Fatalf("status = %s", gc.Status)
	}
	if _, err := f.uc.Validate(ctx, first.ReportID, "general_contractor"); !errors.Is(err, domain.ErrAlreadyValidated) {
		t.Fatalf("repeat: want ErrAlreadyValidated, got %v", err)
	}

	got, err := f.uc.Get(ctx, first.ReportID)
	if err != nil || got.Version != 4 {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if len(f.locker.Obtained) != len(f.locker.Released) {
		t.Fatalf("locks leaked: obtained=%v released=%v", f.locker.Obtained, f.locker.Released)
	}
}

func TestValidate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Validate(ctx, "missing", "subcontractor"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown report: want ErrNotFound, got %v", err)
	}
	rep := submitP1(t, f)
	if _, err := f.uc.Validate(ctx, rep.ReportID, "supervisor"); !errors.Is(err, domain.ErrInvalidStage) {
		t.Fatalf("supervisor stage: want ErrInvalidStage, got %v", err)
	}
}

func TestAmend_ResolvesEveryWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rep := submitP1(t, f)

	for name, records := range map[string][]AttendanceInput{
		"unknown worker with name": {{WorkerID: "W9", WorkerName: "Ghost", Attended: true, Hours: decimal.NewFromInt(8)}},
		"other roster":             {att("W1", true, 8), att("X1", true, 8)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Amend(ctx, AmendInput{ReportID: rep.ReportID, DelegateID: "J", Attendance: records})
			if !errors.Is(err, validation.ErrInvalid) {
				t.Fatalf("want validation.ErrInvalid, got %v", err)
			}
		})
	}
	if f.saves != 0 {
		t.Fatalf("rejected amend saved %d times", f.saves)
	}

	// a client-given name is kept as the snapshot
	dto, err := f.uc.Amend(ctx, AmendInput{ReportID: rep.ReportID, DelegateID: "J", Attendance: []AttendanceInput{
		{WorkerID: "W1", WorkerName: "Ana M.", Attended: true, Hours: decimal.NewFromInt(8)},
	}})
	if err != nil {
		t.Fatalf("Amend: %v", err)
	}
	if dto.Attendance[0].WorkerName != "Ana M." {
		t.Fatalf("worker name = %q", dto.Attendance[0].WorkerName)
	}
}

func TestMutations_ConflictWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	rep := submitP1(t, f)
	f.locker.ObtainFn = func(context.Context, string) (lock.Release, error) {
		return nil, lock.ErrNotObtained
	}

	_, err := f.uc.Validate(context.Background(), rep.ReportID, "subcontractor")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	_, err = f.uc.Amend(context.Background(), AmendInput{ReportID: rep.ReportID, DelegateID: "J", Attendance: []AttendanceInput{att("W1", true, 2)}})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if f.saves != 0 {
		t.Fatalf("saved %d times without the lock", f.saves)
	}
}

func TestAmend_StaleVersionIsConflict(t *testing.T) {
	f := newFixture(t)
	rep := submitP1(t, f)

	// another writer bumps the stored version after our read
	reports := f.uc.repos.Reports.(*reportmock.Repo)
	read := reports.GetByReportIDForUpdateFn
	reports.GetByReportIDForUpdateFn = func(ctx context.Context, id string) (*domain.DailyReport, error) {
		r, err := read(ctx, id)
		if err == nil {
			f.reports[id].Version++
		}
		return r, err
	}

	_, err := f.uc.Amend(context.Background(), AmendInput{ReportID: rep.ReportID, DelegateID: "J", Attendance: []AttendanceInput{att("W1", true, 2)}})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestList_ScopesAndLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	older := submitP1(t, f)
	f.now = clock.Add(time.Minute)
	newer := submitP1(t, f)
	f.now = clock.Add(2 * time.Minute)
	if _, err := f.uc.Submit(ctx, SubmitInput{ProjectID: "P2", SupervisorID: "SUP2", Attendance: []AttendanceInput{att("X1", true, 8)}}); err != nil {
		t.Fatalf("Submit P2: %v", err)
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"everything", ListFilter{}, 3},
		{"by project", ListFilter{ProjectID: "P1"}, 2},
		{"by supervisor", ListFilter{SupervisorID: "SUP2"}, 1},
		{"by subcontractor", ListFilter{SubcontractorID: "SC2"}, 1},
		{"by general contractor", ListFilter{GeneralContractorID: "GC1"}, 3},
		{"subcontractor without projects", ListFilter{SubcontractorID: "SC9"}, 0},
		{"project outside subcontractor", ListFilter{SubcontractorID: "SC2", ProjectID: "P1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.uc.List(ctx, tt.filter)
			if err != nil || len(got) != tt.want {
				t.Fatalf("List(%+v) = %d reports, %v; want %d", tt.filter, len(got), err, tt.want)
			}
		})
	}

	day := time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)
	latest, err := f.uc.Latest(ctx, "P1", day)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ReportID != newer.ReportID || latest.ReportID == older.ReportID {
		t.Fatalf("Latest = %s, want %s", latest.ReportID, newer.ReportID)
	}
	if _, err := f.uc.Latest(ctx, "P1", day.AddDate(0, 0, 1)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty day: want ErrNotFound, got %v", err)
	}
	if _, err := f.uc.Latest(ctx, "P9", day); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("unknown project: want project.ErrNotFound, got %v", err)
	}

	from, to := day, day.AddDate(0, 0, -1)
	if _, err := f.uc.List(ctx, ListFilter{From: &from, To: &to}); !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("inverted range: want ErrInvalid, got %v", err)
	}
}
