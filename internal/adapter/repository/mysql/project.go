package mysql

import (
	"context"

	"obras-backend/internal/domain/project"

	"gorm.io/gorm"
)

type ProjectRepository struct{ db *gorm.DB }

func NewProjectRepository(db *gorm.DB) *ProjectRepository { return &ProjectRepository{db: db} }

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) GetByProjectID(ctx context.Context, projectID string) (*project.Project, error) {
	var out project.Project
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&out).Error
	if isNotFound(err) {
		return nil, project.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProjectRepository) List(ctx context.Context, f project.Filter) ([]project.Project, error) {
	q := r.db.WithContext(ctx).Order("name, id")
	if f.GeneralContractorID != "" {
		q = q.Where("general_contractor_id = ?", f.GeneralContractorID)
	}
	if f.SubcontractorID != "" {
		q = q.Where("subcontractor_id = ?", f.SubcontractorID)
	}
	var out []project.Project
	return out, q.Find(&out).Error
}

func (r *ProjectRepository) UpdateDetails(ctx context.Context, p *project.Project) error {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&project.Project{}).Where("project_id = ?", p.ProjectID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return project.ErrNotFound
	}
	// map form so that nil dates and empty strings are written too
	return db.Model(&project.Project{}).
		Where("project_id = ?", p.ProjectID).
		Updates(map[string]any{
			"name":        p.Name,
			"address":     p.Address,
			"start_date":  p.StartDate,
			"end_date":    p.EndDate,
			"client_name": p.ClientName,
		}).Error
}
