package company

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrNotFound  = errors.New("company not found")
	ErrWrongKind = errors.New("company has the wrong kind for this role")
)

type Kind string

const (
	KindGeneralContractor Kind = "general_contractor"
	KindSubcontractor     Kind = "subcontractor"
)

func (k Kind) Valid() bool {
	return k == KindGeneralContractor || k == KindSubcontractor
}

// Table: companies. Both variants share the table, told apart by kind.
type Company struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-" firestore:"-"`
	CompanyID string `gorm:"column:company_id;size:32;uniqueIndex" json:"company_id" firestore:"company_id"`
	Kind      Kind   `gorm:"column:kind;size:32;index;not null" json:"kind" firestore:"kind"`
	Name      string `gorm:"column:name;size:255;not null" json:"name" firestore:"name"`
	// Only meaningful for subcontractors: the general contractors they work for.
	ServedContractorIDs datatypes.JSONSlice[string] `gorm:"column:served_contractor_ids" json:"served_contractor_ids,omitempty" firestore:"served_contractor_ids"`
	CreatedAt           time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at" firestore:"created_at"`
	UpdatedAt           time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at" firestore:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// Require returns ErrWrongKind unless the company is of kind k.
func (c *Company) Require(k Kind) error {
	if c.Kind != k {
		return ErrWrongKind
	}
	return nil
}
