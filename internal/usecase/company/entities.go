package company

import "time"

type CreateCompanyInput struct {
	Kind                string
	Name                string
	ServedContractorIDs []string
}

type CompanyDTO struct {
	CompanyID           string    `json:"company_id"`
	Kind                string    `json:"kind"`
	Name                string    `json:"name"`
	ServedContractorIDs []string  `json:"served_contractor_ids,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
