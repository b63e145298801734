package firestoredb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"obras-backend/internal/domain/project"

	"cloud.google.com/go/firestore"
)

type ProjectRepository struct{ s store }

func NewProjectRepository(client *firestore.Client) *ProjectRepository {
	return &ProjectRepository{s: store{client: client}}
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := r.s.create(ctx, r.s.col(colProjects).Doc(p.ProjectID), p); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByProjectID(ctx context.Context, projectID string) (*project.Project, error) {
	doc, err := r.s.get(ctx, r.s.col(colProjects).Doc(projectID))
	if isNotFound(err) {
		return nil, project.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	var p project.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, f project.Filter) ([]project.Project, error) {
	q := r.s.col(colProjects).Query
	if f.GeneralContractorID != "" {
		q = q.Where("general_contractor_id", "==", f.GeneralContractorID)
	}
	if f.SubcontractorID != "" {
		q = q.Where("subcontractor_id", "==", f.SubcontractorID)
	}
	out := []project.Project{}
	if err := each(ctx, r.s, q, func(p *project.Project) { out = append(out, *p) }); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProjectRepository) UpdateDetails(ctx context.Context, p *project.Project) error {
	err := r.s.update(ctx, r.s.col(colProjects).Doc(p.ProjectID), []firestore.Update{
		{Path: "name", Value: p.Name},
		{Path: "address", Value: p.Address},
		{Path: "start_date", Value: p.StartDate},
		{Path: "end_date", Value: p.EndDate},
		{Path: "client_name", Value: p.ClientName},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if isNotFound(err) {
		return project.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}
