package resource

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicateAccessCode = errors.New("access code already used in this subcontractor roster")
	ErrForeignResource     = errors.New("resource belongs to a different subcontractor than the project")
	ErrInvalidKind         = errors.New("resource kind must be worker or machinery")
)

type Kind string

const (
	KindWorker    Kind = "worker"
	KindMachinery Kind = "machinery"
)

func (k Kind) Valid() bool { return k == KindWorker || k == KindMachinery }

// Category is the professional category of a worker.
type Category string

const (
	CategoryOfficial          Category = "official"
	CategoryLaborer           Category = "laborer"
	CategoryMachineOperator   Category = "machine_operator"
	CategoryFormworkCarpenter Category = "formwork_carpenter"
)

var Categories = []Category{
	CategoryOfficial,
	CategoryLaborer,
	CategoryMachineOperator,
	CategoryFormworkCarpenter,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Table: workers. (subcontractor_id, access_code) is unique.
// ProjectIDs is loaded from the assignment set, it is not a column.
type Worker struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-" firestore:"-"`
	WorkerID        string    `gorm:"column:worker_id;size:32;uniqueIndex" json:"worker_id" firestore:"worker_id"`
	Name            string    `gorm:"column:name;size:255;not null" json:"name" firestore:"name"`
	SubcontractorID string    `gorm:"column:subcontractor_id;size:32;not null;uniqueIndex:ux_workers_roster_code" json:"subcontractor_id" firestore:"subcontractor_id"`
	AccessCode      string    `gorm:"column:access_code;size:64;not null;uniqueIndex:ux_workers_roster_code" json:"access_code" firestore:"access_code"`
	Category        *Category `gorm:"column:category;size:32" json:"category,omitempty" firestore:"category"`
	ProjectIDs      []string  `gorm:"-" json:"project_ids" firestore:"project_ids"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at" firestore:"updated_at"`
}

func (Worker) TableName() string { return "workers" }

// Table: machinery.
type Machinery struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-" firestore:"-"`
	MachineryID     string    `gorm:"column:machinery_id;size:32;uniqueIndex" json:"machinery_id" firestore:"machinery_id"`
	Name            string    `gorm:"column:name;size:255;not null" json:"name" firestore:"name"`
	SubcontractorID string    `gorm:"column:subcontractor_id;size:32;index;not null" json:"subcontractor_id" firestore:"subcontractor_id"`
	Reference       string    `gorm:"column:reference;size:64" json:"reference" firestore:"reference"`
	ProjectIDs      []string  `gorm:"-" json:"project_ids" firestore:"project_ids"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at" firestore:"updated_at"`
}

func (Machinery) TableName() string { return "machinery" }

// AssignedTo reports whether projectID is in the assignment set.
func AssignedTo(projectIDs []string, projectID string) bool {
	for _, p := range projectIDs {
		if p == projectID {
			return true
		}
	}
	return false
}
