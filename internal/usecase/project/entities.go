package project

import "time"

type CreateProjectInput struct {
	Name                string
	Address             string
	GeneralContractorID string
	SubcontractorID     string
	StartDate           *time.Time
	EndDate             *time.Time
	ClientName          *string
}

// UpdateDetailsInput never carries the owner companies.
type UpdateDetailsInput struct {
	ProjectID  string
	Name       string
	Address    string
	StartDate  *time.Time
	EndDate    *time.Time
	ClientName *string
}

type ListFilter struct {
	GeneralContractorID string
	SubcontractorID     string
}

type ProjectDTO struct {
	ProjectID           string    `json:"project_id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	GeneralContractorID string    `json:"general_contractor_id"`
	SubcontractorID     string    `json:"subcontractor_id"`
	StartDate           *string   `json:"start_date"`
	EndDate             *string   `json:"end_date"`
	ClientName          *string   `json:"client_name"`
	CreatedAt           time.Time `json:"created_at"`
}
