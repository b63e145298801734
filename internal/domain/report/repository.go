package report

import "context"

type Repository interface {
	Create(ctx context.Context, r *DailyReport) error

	// GetByReportID returns ErrNotFound when the id is unknown.
	GetByReportID(ctx context.Context, reportID string) (*DailyReport, error)

	// GetByReportIDForUpdate reads the report holding a write lock where the
	// store supports one. Only meaningful inside a unit of work.
	GetByReportIDForUpdate(ctx context.Context, reportID string) (*DailyReport, error)

	// Save persists r only if the stored version still equals r.Version, then
	// bumps r.Version. A lost race returns ErrConflict.
	Save(ctx context.Context, r *DailyReport) error

	// List orders by day desc, then creation desc (newest submission first).
	List(ctx context.Context, f Filter) ([]DailyReport, error)
}
