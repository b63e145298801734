package resourcemock

import (
	"context"

	domain "obras-backend/internal/domain/resource"
)

var _ domain.MachineryRepository = (*Machinery)(nil)

// Machinery is a function-backed mock that satisfies domain.MachineryRepository.
type Machinery struct {
	CreateFn              func(ctx context.Context, m *domain.Machinery) error
	GetByMachineryIDFn    func(ctx context.Context, machineryID string) (*domain.Machinery, error)
	ListByProjectFn       func(ctx context.Context, projectID string) ([]domain.Machinery, error)
	ListBySubcontractorFn func(ctx context.Context, subcontractorID string) ([]domain.Machinery, error)
	AddProjectFn          func(ctx context.Context, machineryID, projectID string) error
	RemoveProjectFn       func(ctx context.Context, machineryID, projectID string) error
	DeleteFn              func(ctx context.Context, machineryID string) error
}

func (m *Machinery) Create(ctx context.Context, x *domain.Machinery) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, x)
	}
	return nil
}

func (m *Machinery) GetByMachineryID(ctx context.Context, machineryID string) (*domain.Machinery, error) {
	if m.GetByMachineryIDFn != nil {
		return m.GetByMachineryIDFn(ctx, machineryID)
	}
	return nil, context.Canceled
}

func (m *Machinery) ListByProject(ctx context.Context, projectID string) ([]domain.Machinery, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID)
	}
	return nil, nil
}

func (m *Machinery) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]domain.Machinery, error) {
	if m.ListBySubcontractorFn != nil {
		return m.ListBySubcontractorFn(ctx, subcontractorID)
	}
	return nil, nil
}

func (m *Machinery) AddProject(ctx context.Context, machineryID, projectID string) error {
	if m.AddProjectFn != nil {
		return m.AddProjectFn(ctx, machineryID, projectID)
	}
	return nil
}

func (m *Machinery) RemoveProject(ctx context.Context, machineryID, projectID string) error {
	if m.RemoveProjectFn != nil {
		return m.RemoveProjectFn(ctx, machineryID, projectID)
	}
	return nil
}

func (m *Machinery) Delete(ctx context.Context, machineryID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, machineryID)
	}
	return nil
}
