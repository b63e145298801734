package firestoredb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"obras-backend/internal/domain/resource"

	"cloud.google.com/go/firestore"
)

type MachineryRepository struct{ s store }

func NewMachineryRepository(client *firestore.Client) *MachineryRepository {
	return &MachineryRepository{s: store{client: client}}
}

func (r *MachineryRepository) Create(ctx context.Context, m *resource.Machinery) error {
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	if m.ProjectIDs == nil {
		m.ProjectIDs = []string{}
	}
	if err := r.s.create(ctx, r.s.col(colMachinery).Doc(m.MachineryID), m); err != nil {
		return fmt.Errorf("failed to create machinery: %w", err)
	}
	return nil
}

func (r *MachineryRepository) GetByMachineryID(ctx context.Context, machineryID string) (*resource.Machinery, error) {
	doc, err := r.s.get(ctx, r.s.col(colMachinery).Doc(machineryID))
	if isNotFound(err) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get machinery: %w", err)
	}
	var m resource.Machinery
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to parse machinery: %w", err)
	}
	if m.ProjectIDs == nil {
		m.ProjectIDs = []string{}
	}
	return &m, nil
}

func (r *MachineryRepository) ListByProject(ctx context.Context, projectID string) ([]resource.Machinery, error) {
	return r.list(ctx, r.s.col(colMachinery).Where("project_ids", "array-contains", projectID))
}

func (r *MachineryRepository) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]resource.Machinery, error) {
	return r.list(ctx, r.s.col(colMachinery).Where("subcontractor_id", "==", subcontractorID))
}

func (r *MachineryRepository) list(ctx context.Context, q firestore.Query) ([]resource.Machinery, error) {
	out := []resource.Machinery{}
	err := each(ctx, r.s, q, func(m *resource.Machinery) {
		if m.ProjectIDs == nil {
			m.ProjectIDs = []string{}
		}
		out = append(out, *m)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MachineryRepository) AddProject(ctx context.Context, machineryID, projectID string) error {
	return r.setUpdate(ctx, machineryID, firestore.ArrayUnion(projectID))
}

func (r *MachineryRepository) RemoveProject(ctx context.Context, machineryID, projectID string) error {
	return r.setUpdate(ctx, machineryID, firestore.ArrayRemove(projectID))
}

func (r *MachineryRepository) setUpdate(ctx context.Context, machineryID string, op any) error {
	err := r.s.update(ctx, r.s.col(colMachinery).Doc(machineryID), []firestore.Update{
		{Path: "project_ids", Value: op},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if isNotFound(err) {
		return resource.ErrNotFound
	}
	return err
}

func (r *MachineryRepository) Delete(ctx context.Context, machineryID string) error {
	return r.s.atomic(ctx, func(ctx context.Context, s store) error {
		ref := s.col(colMachinery).Doc(machineryID)
		if _, err := s.get(ctx, ref); err != nil {
			if isNotFound(err) {
				return resource.ErrNotFound
			}
			return err
		}
		return s.delete(ctx, ref)
	})
}
