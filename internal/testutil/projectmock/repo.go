package projectmock

import (
	"context"

	domain "obras-backend/internal/domain/project"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, p *domain.Project) error
	GetByProjectIDFn func(ctx context.Context, projectID string) (*domain.Project, error)
	ListFn           func(ctx context.Context, f domain.Filter) ([]domain.Project, error)
	UpdateDetailsFn  func(ctx context.Context, p *domain.Project) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Project) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByProjectID(ctx context.Context, projectID string) (*domain.Project, error) {
	if m.GetByProjectIDFn != nil {
		return m.GetByProjectIDFn(ctx, projectID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) UpdateDetails(ctx context.Context, p *domain.Project) error {
	if m.UpdateDetailsFn != nil {
		return m.UpdateDetailsFn(ctx, p)
	}
	return nil
}
