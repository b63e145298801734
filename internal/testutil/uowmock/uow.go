package uowmock

import (
	"context"
	"errors"

	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinReportTxFn func(ctx context.Context, reportID string, fn func(r uow.Repos, rep *report.DailyReport) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinReportTx(fn func(context.Context, string, func(uow.Repos, *report.DailyReport) error) error) *UoW {
	m.WithinReportTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs every unit of work directly against repos, with
// WithinReportTx loading the report through repos.Reports.GetByReportIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinReportTxFn: func(ctx context.Context, reportID string, fn func(uow.Repos, *report.DailyReport) error) error {
			rep, err := repos.Reports.GetByReportIDForUpdate(ctx, reportID)
			if err != nil {
				return err
			}
			return fn(repos, rep)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinReportTx(ctx context.Context, reportID string, fn func(r uow.Repos, rep *report.DailyReport) error) error {
	if m.WithinReportTxFn != nil {
		return m.WithinReportTxFn(ctx, reportID, fn)
	}
	return errUnimplemented
}
