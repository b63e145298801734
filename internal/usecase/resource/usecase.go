package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"obras-backend/internal/domain/company"
	"obras-backend/internal/domain/project"
	domain "obras-backend/internal/domain/resource"
	"obras-backend/internal/domain/uow"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/infrastructure/logging"
	"obras-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

const module = "resource"

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	log   *logrus.Logger
}

// NewUsecase: repos serve plain reads, tx runs every mutation.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logging.Discard()
	}
	return &Usecase{repos: repos, uow: tx, log: log}
}

// CreateWorker registers a worker in a subcontractor roster. When the roster
// already has the access code, the existing worker is reused and only the
// project is attached to it.
func (u *Usecase) CreateWorker(ctx context.Context, in CreateWorkerInput) (*CreateWorkerResult, error) {
	var v validation.Error
	if in.SubcontractorID == "" {
		v.Add("subcontractor_id", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if strings.TrimSpace(in.AccessCode) == "" {
		v.Add("access_code", "is required")
	}
	var category *domain.Category
	if in.Category != "" {
		c := domain.Category(in.Category)
		if !c.Valid() {
			v.Add("category", "must be one of official, laborer, machine_operator, formwork_carpenter")
		}
		category = &c
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.AccessCode)

	var res *CreateWorkerResult
	attempt := func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			res = nil
			if err := requireSubcontractor(ctx, r, in.SubcontractorID); err != nil {
				return err
			}
			if in.ProjectID != "" {
				if err := requireOwnedProject(ctx, r, in.ProjectID, in.SubcontractorID); err != nil {
					return err
				}
			}

			existing, err := r.Workers.GetByAccessCode(ctx, in.SubcontractorID, code)
			switch {
			case err == nil:
				if in.ProjectID != "" && !domain.AssignedTo(existing.ProjectIDs, in.ProjectID) {
					if err := r.Workers.AddProject(ctx, existing.WorkerID, in.ProjectID); err != nil {
						return err
					}
					existing.ProjectIDs = append(existing.ProjectIDs, in.ProjectID)
				}
				res = &CreateWorkerResult{Worker: workerDTO(existing), Created: false}
				return nil
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}

			w := &domain.Worker{
				WorkerID:        id.NewID32(),
				Name:            strings.TrimSpace(in.Name),
				SubcontractorID: in.SubcontractorID,
				AccessCode:      code,
				Category:        category,
			}
			if in.ProjectID != "" {
				w.ProjectIDs = []string{in.ProjectID}
			}
			if err := r.Workers.Create(ctx, w); err != nil {
				return err
			}
			res = &CreateWorkerResult{Worker: workerDTO(w), Created: true}
			return nil
		})
	}

	err := attempt()
	if errors.Is(err, domain.ErrDuplicateAccessCode) {
		// lost a race with a concurrent registration of the same code: reuse it
		err = attempt()
	}
	if err != nil {
		u.logFailure("CreateWorker", in, err)
		return nil, err
	}
	return res, nil
}

func (u *Usecase) CreateMachinery(ctx context.Context, in CreateMachineryInput) (*MachineryDTO, error) {
	var v validation.Error
	if in.SubcontractorID == "" {
		v.Add("subcontractor_id", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var out *MachineryDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := requireSubcontractor(ctx, r, in.SubcontractorID); err != nil {
			return err
		}
		if in.ProjectID != "" {
			if err := requireOwnedProject(ctx, r, in.ProjectID, in.SubcontractorID); err != nil {
				return err
			}
		}
		m := &domain.Machinery{
			MachineryID:     id.NewID32(),
			Name:            strings.TrimSpace(in.Name),
			SubcontractorID: in.SubcontractorID,
			Reference:       strings.TrimSpace(in.Reference),
		}
		if in.ProjectID != "" {
			m.ProjectIDs = []string{in.ProjectID}
		}
		if err := r.Machinery.Create(ctx, m); err != nil {
			return err
		}
		out = machineryDTO(m)
		return nil
	})
	if err != nil {
		u.logFailure("CreateMachinery", in, err)
		return nil, err
	}
	return out, nil
}

// Assign adds projectID to each resource's assignment set. Every resource is
// checked before the first write; re-assigning is a no-op.
func (u *Usecase) Assign(ctx context.Context, in AssignInput) error {
	kind := domain.Kind(in.Kind)
	var v validation.Error
	if in.ProjectID == "" {
		v.Add("project_id", "is required")
	}
	if !kind.Valid() {
		v.Add("kind", "must be worker or machinery")
	}
	if len(in.ResourceIDs) == 0 {
		v.Add("resource_ids", "must not be empty")
	}
	for i, rid := range in.ResourceIDs {
		if strings.TrimSpace(rid) == "" {
			v.Add(fmt.Sprintf("resource_ids[%d]", i), "is required")
		}
	}
	if err := v.Err(); err != nil {
		return err
	}
	ids := dedupe(in.ResourceIDs)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := getProject(ctx, r, in.ProjectID)
		if err != nil {
			return err
		}
		for _, rid := range ids {
			owner, err := resourceOwner(ctx, r, kind, rid)
			if err != nil {
				return err
			}
			if owner != p.SubcontractorID {
				return fmt.Errorf("%w: %s %s belongs to %s, project %s to %s",
					domain.ErrForeignResource, kind, rid, owner, p.ProjectID, p.SubcontractorID)
			}
		}
		for _, rid := range ids {
			if kind == domain.KindWorker {
				err = r.Workers.AddProject(ctx, rid, p.ProjectID)
			} else {
				err = r.Machinery.AddProject(ctx, rid, p.ProjectID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.logFailure("Assign", in, err)
		return err
	}
	return nil
}

// Unassign removes projectID from the resource's set. The resource id is
// looked up among workers first, then machinery. Removing an absent link succeeds.
func (u *Usecase) Unassign(ctx context.Context, projectID, resourceID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := getProject(ctx, r, projectID); err != nil {
			return err
		}
		_, err := r.Workers.GetByWorkerID(ctx, resourceID)
		if err == nil {
			return r.Workers.RemoveProject(ctx, resourceID, projectID)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		_, err = r.Machinery.GetByMachineryID(ctx, resourceID)
		if err == nil {
			return r.Machinery.RemoveProject(ctx, resourceID, projectID)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: resource %s", domain.ErrNotFound, resourceID)
		}
		return err
	})
	if err != nil {
		u.logFailure("Unassign", map[string]string{"project_id": projectID, "resource_id": resourceID}, err)
		return err
	}
	return nil
}

func (u *Usecase) ListWorkersByProject(ctx context.Context, projectID string) ([]WorkerDTO, error) {
	if _, err := getProject(ctx, u.repos, projectID); err != nil {
		return nil, err
	}
	ws, err := u.repos.Workers.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return workerDTOs(ws), nil
}

func (u *Usecase) ListMachineryByProject(ctx context.Context, projectID string) ([]MachineryDTO, error) {
	if _, err := getProject(ctx, u.repos, projectID); err != nil {
		return nil, err
	}
	ms, err := u.repos.Machinery.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return machineryDTOs(ms), nil
}

func (u *Usecase) ListWorkersBySubcontractor(ctx context.Context, subcontractorID string) ([]WorkerDTO, error) {
	if err := requireSubcontractor(ctx, u.repos, subcontractorID); err != nil {
		return nil, err
	}
	ws, err := u.repos.Workers.ListBySubcontractor(ctx, subcontractorID)
	if err != nil {
		return nil, err
	}
	return workerDTOs(ws), nil
}

func (u *Usecase) ListMachineryBySubcontractor(ctx context.Context, subcontractorID string) ([]MachineryDTO, error) {
	if err := requireSubcontractor(ctx, u.repos, subcontractorID); err != nil {
		return nil, err
	}
	ms, err := u.repos.Machinery.ListBySubcontractor(ctx, subcontractorID)
	if err != nil {
		return nil, err
	}
	return machineryDTOs(ms), nil
}

// RemoveWorker hard-deletes the worker; its assignments go with it.
func (u *Usecase) RemoveWorker(ctx context.Context, workerID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Workers.Delete(ctx, workerID)
	})
	if err != nil {
		u.logFailure("RemoveWorker", workerID, err)
	}
	return err
}

func (u *Usecase) RemoveMachinery(ctx context.Context, machineryID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Machinery.Delete(ctx, machineryID)
	})
	if err != nil {
		u.logFailure("RemoveMachinery", machineryID, err)
	}
	return err
}

// logFailure keeps expected rejections at info and reports the rest as errors.
func (u *Usecase) logFailure(funcName string, data any, err error) {
	if expected(err) {
		u.log.WithFields(logrus.Fields{"module": module, "funcName": funcName}).Info(err.Error())
		return
	}
	logging.LogError(u.log, module, funcName, "resource mutation failed", data, err)
}

func expected(err error) bool {
	for _, target := range []error{
		validation.ErrInvalid,
		domain.ErrNotFound, domain.ErrForeignResource, domain.ErrDuplicateAccessCode,
		project.ErrNotFound, company.ErrNotFound, company.ErrWrongKind,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func getProject(ctx context.Context, r uow.Repos, projectID string) (*project.Project, error) {
	p, err := r.Projects.GetByProjectID(ctx, projectID)
	if errors.Is(err, project.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", project.ErrNotFound, projectID)
	}
	return p, err
}

func requireOwnedProject(ctx context.Context, r uow.Repos, projectID, subcontractorID string) error {
	p, err := getProject(ctx, r, projectID)
	if err != nil {
		return err
	}
	if p.SubcontractorID != subcontractorID {
		return fmt.Errorf("%w: project %s is run by %s", domain.ErrForeignResource, projectID, p.SubcontractorID)
	}
	return nil
}

func requireSubcontractor(ctx context.Context, r uow.Repos, companyID string) error {
	c, err := r.Companies.GetByCompanyID(ctx, companyID)
	if errors.Is(err, company.ErrNotFound) {
		return fmt.Errorf("%w: subcontractor %s", company.ErrNotFound, companyID)
	}
	if err != nil {
		return err
	}
	return c.Require(company.KindSubcontractor)
}

func resourceOwner(ctx context.Context, r uow.Repos, kind domain.Kind, resourceID string) (string, error) {
	var owner string
	var err error
	if kind == domain.KindWorker {
		var w *domain.Worker
		if w, err = r.Workers.GetByWorkerID(ctx, resourceID); err == nil {
			owner = w.SubcontractorID
		}
	} else {
		var m *domain.Machinery
		if m, err = r.Machinery.GetByMachineryID(ctx, resourceID); err == nil {
			owner = m.SubcontractorID
		}
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, resourceID)
	}
	return owner, err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, s := range ids {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func workerDTO(w *domain.Worker) WorkerDTO {
	var category *string
	if w.Category != nil {
		c := string(*w.Category)
		category = &c
	}
	projects := w.ProjectIDs
	if projects == nil {
		projects = []string{}
	}
	return WorkerDTO{
		WorkerID:        w.WorkerID,
		Name:            w.Name,
		SubcontractorID: w.SubcontractorID,
		AccessCode:      w.AccessCode,
		Category:        category,
		ProjectIDs:      projects,
		CreatedAt:       w.CreatedAt,
	}
}

func workerDTOs(ws []domain.Worker) []WorkerDTO {
	out := make([]WorkerDTO, 0, len(ws))
	for i := range ws {
		out = append(out, workerDTO(&ws[i]))
	}
	return out
}

func machineryDTO(m *domain.Machinery) *MachineryDTO {
	projects := m.ProjectIDs
	if projects == nil {
		projects = []string{}
	}
	return &MachineryDTO{
		MachineryID:     m.MachineryID,
		Name:            m.Name,
		SubcontractorID: m.SubcontractorID,
		Reference:       m.Reference,
		ProjectIDs:      projects,
		CreatedAt:       m.CreatedAt,
	}
}

func machineryDTOs(ms []domain.Machinery) []MachineryDTO {
	out := make([]MachineryDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *machineryDTO(&ms[i]))
	}
	return out
}
