package companymock

import (
	"context"

	domain "obras-backend/internal/domain/company"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, c *domain.Company) error
	GetByCompanyIDFn func(ctx context.Context, companyID string) (*domain.Company, error)
	ListFn           func(ctx context.Context, kind domain.Kind) ([]domain.Company, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Company) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByCompanyID(ctx context.Context, companyID string) (*domain.Company, error) {
	if m.GetByCompanyIDFn != nil {
		return m.GetByCompanyIDFn(ctx, companyID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, kind domain.Kind) ([]domain.Company, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, kind)
	}
	return nil, nil
}
