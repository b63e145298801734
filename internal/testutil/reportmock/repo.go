package reportmock

import (
	"context"

	domain "obras-backend/internal/domain/report"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, r *domain.DailyReport) error
	GetByReportIDFn          func(ctx context.Context, reportID string) (*domain.DailyReport, error)
	GetByReportIDForUpdateFn func(ctx context.Context, reportID string) (*domain.DailyReport, error)
	SaveFn                   func(ctx context.Context, r *domain.DailyReport) error
	ListFn                   func(ctx context.Context, f domain.Filter) ([]domain.DailyReport, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.DailyReport) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByReportID(ctx context.Context, reportID string) (*domain.DailyReport, error) {
	if m.GetByReportIDFn != nil {
		return m.GetByReportIDFn(ctx, reportID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByReportIDForUpdate(ctx context.Context, reportID string) (*domain.DailyReport, error) {
	if m.GetByReportIDForUpdateFn != nil {
		return m.GetByReportIDForUpdateFn(ctx, reportID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, r *domain.DailyReport) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.DailyReport, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
