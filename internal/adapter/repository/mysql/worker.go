package mysql

import (
	"context"
	"errors"

	"obras-backend/internal/domain/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkerRepository struct{ db *gorm.DB }

func NewWorkerRepository(db *gorm.DB) *WorkerRepository { return &WorkerRepository{db: db} }

func (r *WorkerRepository) Create(ctx context.Context, w *resource.Worker) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return resource.ErrDuplicateAccessCode
			}
			return err
		}
		for _, p := range w.ProjectIDs {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&projectWorker{ProjectID: p, WorkerID: w.WorkerID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if w.ProjectIDs == nil {
		w.ProjectIDs = []string{}
	}
	return nil
}

func (r *WorkerRepository) GetByWorkerID(ctx context.Context, workerID string) (*resource.Worker, error) {
	return r.first(ctx, "worker_id = ?", workerID)
}

func (r *WorkerRepository) GetByAccessCode(ctx context.Context, subcontractorID, accessCode string) (*resource.Worker, error) {
	return r.first(ctx, "subcontractor_id = ? AND access_code = ?", subcontractorID, accessCode)
}

func (r *WorkerRepository) first(ctx context.Context, query string, args ...any) (*resource.Worker, error) {
	db := r.db.WithContext(ctx)
	var w resource.Worker
	err := db.Where(query, args...).First(&w).Error
	if isNotFound(err) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := []resource.Worker{w}
	if err := loadWorkerProjects(db, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *WorkerRepository) ListByProject(ctx context.Context, projectID string) ([]resource.Worker, error) {
	db := r.db.WithContext(ctx)
	var out []resource.Worker
	err := db.Joins("JOIN project_workers pw ON pw.worker_id = workers.worker_id").
		Where("pw.project_id = ?", projectID).
		Order("workers.name, workers.id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, loadWorkerProjects(db, out)
}

func (r *WorkerRepository) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]resource.Worker, error) {
	db := r.db.WithContext(ctx)
	var out []resource.Worker
	if err := db.Where("subcontractor_id = ?", subcontractorID).Order("name, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, loadWorkerProjects(db, out)
}

func (r *WorkerRepository) AddProject(ctx context.Context, workerID, projectID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&projectWorker{ProjectID: projectID, WorkerID: workerID}).Error
}

func (r *WorkerRepository) RemoveProject(ctx context.Context, workerID, projectID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND worker_id = ?", projectID, workerID).
		Delete(&projectWorker{}).Error
}

func (r *WorkerRepository) Delete(ctx context.Context, workerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ?", workerID).Delete(&projectWorker{}).Error; err != nil {
			return err
		}
		res := tx.Where("worker_id = ?", workerID).Delete(&resource.Worker{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return resource.ErrNotFound
		}
		return nil
	})
}

func loadWorkerProjects(db *gorm.DB, ws []resource.Worker) error {
	if len(ws) == 0 {
		return nil
	}
	ids := make([]string, len(ws))
	for i := range ws {
		ids[i] = ws[i].WorkerID
	}
	var links []projectWorker
	if err := db.Where("worker_id IN ?", ids).Order("created_at, project_id").Find(&links).Error; err != nil {
		return err
	}
	by := make(map[string][]string, len(ws))
	for _, l := range links {
		by[l.WorkerID] = append(by[l.WorkerID], l.ProjectID)
	}
	for i := range ws {
		ws[i].ProjectIDs = by[ws[i].WorkerID]
		if ws[i].ProjectIDs == nil {
			ws[i].ProjectIDs = []string{}
		}
	}
	return nil
}
