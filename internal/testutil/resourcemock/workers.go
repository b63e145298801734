package resourcemock

import (
	"context"

	domain "obras-backend/internal/domain/resource"
)

var _ domain.WorkerRepository = (*Workers)(nil)

// Workers is a function-backed mock that satisfies domain.WorkerRepository.
type Workers struct {
	CreateFn              func(ctx context.Context, w *domain.Worker) error
	GetByWorkerIDFn       func(ctx context.Context, workerID string) (*domain.Worker, error)
	GetByAccessCodeFn     func(ctx context.Context, subcontractorID, accessCode string) (*domain.Worker, error)
	ListByProjectFn       func(ctx context.Context, projectID string) ([]domain.Worker, error)
	ListBySubcontractorFn func(ctx context.Context, subcontractorID string) ([]domain.Worker, error)
	AddProjectFn          func(ctx context.Context, workerID, projectID string) error
	RemoveProjectFn       func(ctx context.Context, workerID, projectID string) error
	DeleteFn              func(ctx context.Context, workerID string) error
}

func (m *Workers) Create(ctx context.Context, w *domain.Worker) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}

func (m *Workers) GetByWorkerID(ctx context.Context, workerID string) (*domain.Worker, error) {
	if m.GetByWorkerIDFn != nil {
		return m.GetByWorkerIDFn(ctx, workerID)
	}
	return nil, context.Canceled
}

func (m *Workers) GetByAccessCode(ctx context.Context, subcontractorID, accessCode string) (*domain.Worker, error) {
	if m.GetByAccessCodeFn != nil {
		return m.GetByAccessCodeFn(ctx, subcontractorID, accessCode)
	}
	return nil, context.Canceled
}

func (m *Workers) ListByProject(ctx context.Context, projectID string) ([]domain.Worker, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID)
	}
	return nil, nil
}

func (m *Workers) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]domain.Worker, error) {
	if m.ListBySubcontractorFn != nil {
		return m.ListBySubcontractorFn(ctx, subcontractorID)
	}
	return nil, nil
}

func (m *Workers) AddProject(ctx context.Context, workerID, projectID string) error {
	if m.AddProjectFn != nil {
		return m.AddProjectFn(ctx, workerID, projectID)
	}
	return nil
}

func (m *Workers) RemoveProject(ctx context.Context, workerID, projectID string) error {
	if m.RemoveProjectFn != nil {
		return m.RemoveProjectFn(ctx, workerID, projectID)
	}
	return nil
}

func (m *Workers) Delete(ctx context.Context, workerID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, workerID)
	}
	return nil
}
