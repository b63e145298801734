package resource

import "time"

type CreateWorkerInput struct {
	SubcontractorID string
	Name            string
	AccessCode      string
	Category        string
	// ProjectID, when set, is attached to the new or the existing worker.
	ProjectID string
}

type CreateMachineryInput struct {
	SubcontractorID string
	Name            string
	Reference       string
	ProjectID       string
}

type AssignInput struct {
	ProjectID   string
	Kind        string
	ResourceIDs []string
}

type WorkerDTO struct {
	WorkerID        string    `json:"worker_id"`
	Name            string    `json:"name"`
	SubcontractorID string    `json:"subcontractor_id"`
	AccessCode      string    `json:"access_code"`
	Category        *string   `json:"category"`
	ProjectIDs      []string  `json:"project_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

type MachineryDTO struct {
	MachineryID     string    `json:"machinery_id"`
	Name            string    `json:"name"`
	SubcontractorID string    `json:"subcontractor_id"`
	Reference       string    `json:"reference"`
	ProjectIDs      []string  `json:"project_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateWorkerResult tells a fresh registration apart from a de-duplicated one.
type CreateWorkerResult struct {
	Worker  WorkerDTO `json:"worker"`
	Created bool      `json:"created"`
}
