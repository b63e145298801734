package firestoredb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"obras-backend/internal/domain/resource"

	"cloud.google.com/go/firestore"
)

// accessCodeDoc reserves (subcontractor, access code) for one worker; its
// document id is the uniqueness key.
type accessCodeDoc struct {
	WorkerID string `firestore:"worker_id"`
}

func accessCodeKey(subcontractorID, accessCode string) string {
	return subcontractorID + ":" + url.PathEscape(accessCode)
}

type WorkerRepository struct{ s store }

func NewWorkerRepository(client *firestore.Client) *WorkerRepository {
	return &WorkerRepository{s: store{client: client}}
}

func (r *WorkerRepository) Create(ctx context.Context, w *resource.Worker) error {
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	if w.ProjectIDs == nil {
		w.ProjectIDs = []string{}
	}
	err := r.s.atomic(ctx, func(ctx context.Context, s store) error {
		codeRef := s.col(colAccessCodes).Doc(accessCodeKey(w.SubcontractorID, w.AccessCode))
		_, err := s.get(ctx, codeRef)
		if err == nil {
			return resource.ErrDuplicateAccessCode
		}
		if !isNotFound(err) {
			return err
		}
		if err := s.create(ctx, codeRef, accessCodeDoc{WorkerID: w.WorkerID}); err != nil {
			return err
		}
		return s.create(ctx, s.col(colWorkers).Doc(w.WorkerID), w)
	})
	if isAlreadyExists(err) {
		return resource.ErrDuplicateAccessCode
	}
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (r *WorkerRepository) GetByWorkerID(ctx context.Context, workerID string) (*resource.Worker, error) {
	doc, err := r.s.get(ctx, r.s.col(colWorkers).Doc(workerID))
	if isNotFound(err) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	var w resource.Worker
	if err := doc.DataTo(&w); err != nil {
		return nil, fmt.Errorf("failed to parse worker: %w", err)
	}
	if w.ProjectIDs == nil {
		w.ProjectIDs = []string{}
	}
	return &w, nil
}

func (r *WorkerRepository) GetByAccessCode(ctx context.Context, subcontractorID, accessCode string) (*resource.Worker, error) {
	doc, err := r.s.get(ctx, r.s.col(colAccessCodes).Doc(accessCodeKey(subcontractorID, accessCode)))
	if isNotFound(err) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access code: %w", err)
	}
	var code accessCodeDoc
	if err := doc.DataTo(&code); err != nil {
		return nil, fmt.Errorf("failed to parse access code: %w", err)
	}
	return r.GetByWorkerID(ctx, code.WorkerID)
}

func (r *WorkerRepository) ListByProject(ctx context.Context, projectID string) ([]resource.Worker, error) {
	return r.list(ctx, r.s.col(colWorkers).Where("project_ids", "array-contains", projectID))
}

func (r *WorkerRepository) ListBySubcontractor(ctx context.Context, subcontractorID string) ([]resource.Worker, error) {
	return r.list(ctx, r.s.col(colWorkers).Where("subcontractor_id", "==", subcontractorID))
}

func (r *WorkerRepository) list(ctx context.Context, q firestore.Query) ([]resource.Worker, error) {
	out := []resource.Worker{}
	err := each(ctx, r.s, q, func(w *resource.Worker) {
		if w.ProjectIDs == nil {
			w.ProjectIDs = []string{}
		}
		out = append(out, *w)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *WorkerRepository) AddProject(ctx context.Context, workerID, projectID string) error {
	return r.setUpdate(ctx, workerID, firestore.ArrayUnion(projectID))
}

func (r *WorkerRepository) RemoveProject(ctx context.Context, workerID, projectID string) error {
	return r.setUpdate(ctx, workerID, firestore.ArrayRemove(projectID))
}

func (r *WorkerRepository) setUpdate(ctx context.Context, workerID string, op any) error {
	err := r.s.update(ctx, r.s.col(colWorkers).Doc(workerID), []firestore.Update{
		{Path: "project_ids", Value: op},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if isNotFound(err) {
		return resource.ErrNotFound
	}
	return err
}

func (r *WorkerRepository) Delete(ctx context.Context, workerID string) error {
	return r.s.atomic(ctx, func(ctx context.Context, s store) error {
		ref := s.col(colWorkers).Doc(workerID)
		doc, err := s.get(ctx, ref)
		if isNotFound(err) {
			return resource.ErrNotFound
		}
		if err != nil {
			return err
		}
		var w resource.Worker
		if err := doc.DataTo(&w); err != nil {
			return err
		}
		if err := s.delete(ctx, s.col(colAccessCodes).Doc(accessCodeKey(w.SubcontractorID, w.AccessCode))); err != nil {
			return err
		}
		return s.delete(ctx, ref)
	})
}
