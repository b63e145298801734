package project

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("project not found")
)

// Table: projects. GeneralContractorID and SubcontractorID are fixed at creation;
// reports hang off the project, so re-owning one needs its own operation.
type Project struct {
	ID                  uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-" firestore:"-"`
	ProjectID           string     `gorm:"column:project_id;size:32;uniqueIndex" json:"project_id" firestore:"project_id"`
	Name                string     `gorm:"column:name;size:255;not null" json:"name" firestore:"name"`
	Address             string     `gorm:"column:address;type:text" json:"address" firestore:"address"`
	GeneralContractorID string     `gorm:"column:general_contractor_id;size:32;index;not null" json:"general_contractor_id" firestore:"general_contractor_id"`
	SubcontractorID     string     `gorm:"column:subcontractor_id;size:32;index;not null" json:"subcontractor_id" firestore:"subcontractor_id"`
	StartDate           *time.Time `gorm:"column:start_date;type:date" json:"start_date,omitempty" firestore:"start_date"`
	EndDate             *time.Time `gorm:"column:end_date;type:date" json:"end_date,omitempty" firestore:"end_date"`
	ClientName          *string    `gorm:"column:client_name;size:255" json:"client_name,omitempty" firestore:"client_name"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at" firestore:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at" firestore:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// Filter narrows project listings; empty fields do not filter.
type Filter struct {
	GeneralContractorID string
	SubcontractorID     string
}
