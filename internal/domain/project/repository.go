package project

import "context"

type Repository interface {
	Create(ctx context.Context, p *Project) error

	// GetByProjectID returns ErrNotFound when no project has that public id.
	GetByProjectID(ctx context.Context, projectID string) (*Project, error)

	List(ctx context.Context, f Filter) ([]Project, error)

	// UpdateDetails writes name, address, dates and client name only.
	// Owner columns are never touched.
	UpdateDetails(ctx context.Context, p *Project) error
}
