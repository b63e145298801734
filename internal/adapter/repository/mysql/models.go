package mysql

import (
	"errors"
	"time"

	"obras-backend/internal/domain/company"
	"obras-backend/internal/domain/project"
	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/resource"

	"gorm.io/gorm"
)

// Assignment sets are join tables keyed by (project, resource) so that adding
// an existing link is a no-op insert and removing one is a single delete.
type projectWorker struct {
	ProjectID string    `gorm:"column:project_id;size:32;primaryKey"`
	WorkerID  string    `gorm:"column:worker_id;size:32;primaryKey;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (projectWorker) TableName() string { return "project_workers" }

type projectMachinery struct {
	ProjectID   string    `gorm:"column:project_id;size:32;primaryKey"`
	MachineryID string    `gorm:"column:machinery_id;size:32;primaryKey;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (projectMachinery) TableName() string { return "project_machinery" }

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&company.Company{},
		&project.Project{},
		&resource.Worker{},
		&resource.Machinery{},
		&projectWorker{},
		&projectMachinery{},
		&report.DailyReport{},
	)
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
