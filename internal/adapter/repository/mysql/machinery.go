package mysql

import (
	"context"

	"obras-backend/internal/domain/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MachineryRepository struct{ db *gorm.DB }

func NewMachineryRepository(db *gorm.DB) *MachineryRepository {
	return &MachineryRepository{db: db}
}

func (r *MachineryRepository) Create(ctx context.Context, m *resource.Machinery) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		for _, p := range m.ProjectIDs {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&projectMachinery{ProjectID: p, MachineryID: m.MachineryID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if m.ProjectIDs == nil {
		m.ProjectIDs = []string{}
	}
	return nil
}

func (r *MachineryRepository) GetByMachineryID(ctx context.Context, machineryID string) (*resource.Machinery, error) {
	db := r.db.WithContext(ctx)
	var m resource.Machinery
	err := db.Where("machinery_id = ?", machineryID).First(&m).Error
	if isNotFound(err) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := []resource.Machinery{m}
	if err := loadMachineryProjects(db, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *MachineryRepository) ListByProject(ctx context.Context, projectID string) ([]resource.Machinery, error) {
	db := r.db.WithContext(ctx)
	var out []resource.Machinery
	err := db.Joins("JOIN project_machinery pm ON pm.machinery_id = machinery.machinery_id").
		Where("pm.project_id = ?", projectID).
		Order("machinery.name, machinery.id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, loadMachineryProjects(db, out)
}

func (r *MachineryRepository) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]resource.Machinery, error) {
	db := r.db.WithContext(ctx)
	var out []resource.Machinery
	if err := db.Where("subcontractor_id = ?", subcontractorID).Order("name, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, loadMachineryProjects(db, out)
}

func (r *MachineryRepository) AddProject(ctx context.Context, machineryID, projectID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&projectMachinery{ProjectID: projectID, MachineryID: machineryID}).Error
}

func (r *MachineryRepository) RemoveProject(ctx context.Context, machineryID, projectID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND machinery_id = ?", projectID, machineryID).
		Delete(&projectMachinery{}).Error
}

func (r *MachineryRepository) Delete(ctx context.Context, machineryID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("machinery_id = ?", machineryID).Delete(&projectMachinery{}).Error; err != nil {
			return err
		}
		res := tx.Where("machinery_id = ?", machineryID).Delete(&resource.Machinery{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return resource.ErrNotFound
		}
		return nil
	})
}

func loadMachineryProjects(db *gorm.DB, ms []resource.Machinery) error {
	if len(ms) == 0 {
		return nil
	}
	ids := make([]string, len(ms))
	for i := range ms {
		ids[i] = ms[i].MachineryID
	}
	var links []projectMachinery
	if err := db.Where("machinery_id IN ?", ids).Order("created_at, project_id").Find(&links).Error; err != nil {
		return err
	}
	by := make(map[string][]string, len(ms))
	for _, l := range links {
		by[l.MachineryID] = append(by[l.MachineryID], l.ProjectID)
	}
	for i := range ms {
		ms[i].ProjectIDs = by[ms[i].MachineryID]
		if ms[i].ProjectIDs == nil {
			ms[i].ProjectIDs = []string{}
		}
	}
	return nil
}
