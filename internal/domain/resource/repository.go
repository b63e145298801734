package resource

import "context"

// WorkerRepository stores workers and their project assignment set.
// AddProject and RemoveProject are single atomic set updates in storage;
// both are idempotent.
type WorkerRepository interface {
	// Create returns ErrDuplicateAccessCode when the roster already has the code.
	Create(ctx context.Context, w *Worker) error
	GetByWorkerID(ctx context.Context, workerID string) (*Worker, error)
	GetByAccessCode(ctx context.Context, subcontractorID, accessCode string) (*Worker, error)
	ListByProject(ctx context.Context, projectID string) ([]Worker, error)
	ListBySubcontractor(ctx context.Context, subcontractorID string) ([]Worker, error)
	AddProject(ctx context.Context, workerID, projectID string) error
	RemoveProject(ctx context.Context, workerID, projectID string) error
	// Delete hard-deletes the worker together with its assignments.
	Delete(ctx context.Context, workerID string) error
}

type MachineryRepository interface {
	Create(ctx context.Context, m *Machinery) error
	GetByMachineryID(ctx context.Context, machineryID string) (*Machinery, error)
	ListByProject(ctx context.Context, projectID string) ([]Machinery, error)
	ListBySubcontractor(ctx context.Context, subcontractorID string) ([]Machinery, error)
	AddProject(ctx context.Context, machineryID, projectID string) error
	RemoveProject(ctx context.Context, machineryID, projectID string) error
	Delete(ctx context.Context, machineryID string) error
}
