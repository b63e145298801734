package company

import "context"

type Repository interface {
	Create(ctx context.Context, c *Company) error

	// GetByCompanyID returns ErrNotFound when no company has that public id.
	GetByCompanyID(ctx context.Context, companyID string) (*Company, error)

	// List returns every company, or only those of kind when it is non-empty.
	List(ctx context.Context, kind Kind) ([]Company, error)
}
