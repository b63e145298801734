package uow

import (
	"context"

	"obras-backend/internal/domain/company"
	"obras-backend/internal/domain/project"
	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"
)

// Repos are bound to the running transaction.
type Repos struct {
	Companies company.Repository
	Projects  project.Repository
	Workers   resource.WorkerRepository
	Machinery resource.MachineryRepository
	Reports   report.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the report first, then pass it in.
	// Returns report.ErrNotFound without calling fn when the id is unknown.
	WithinReportTx(ctx context.Context, reportID string, fn func(r Repos, rep *report.DailyReport) error) error
}
