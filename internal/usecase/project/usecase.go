package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"obras-backend/internal/domain/company"
	domain "obras-backend/internal/domain/project"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/infrastructure/logging"
	"obras-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

const dayLayout = "2006-01-02"

type Usecase struct {
	projects  domain.Repository
	companies company.Repository
	log       *logrus.Logger
}

func NewUsecase(projects domain.Repository, companies company.Repository, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logging.Discard()
	}
	return &Usecase{projects: projects, companies: companies, log: log}
}

func (u *Usecase) Create(ctx context.Context, in CreateProjectInput) (*ProjectDTO, error) {
	var v validation.Error
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if in.GeneralContractorID == "" {
		v.Add("general_contractor_id", "is required")
	}
	if in.SubcontractorID == "" {
		v.Add("subcontractor_id", "is required")
	}
	checkDates(&v, in.StartDate, in.EndDate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := u.requireKind(ctx, in.GeneralContractorID, company.KindGeneralContractor); err != nil {
		return nil, err
	}
	if err := u.requireKind(ctx, in.SubcontractorID, company.KindSubcontractor); err != nil {
		return nil, err
	}

	p := &domain.Project{
		ProjectID:           id.NewID32(),
		Name:                strings.TrimSpace(in.Name),
		Address:             in.Address,
		GeneralContractorID: in.GeneralContractorID,
		SubcontractorID:     in.SubcontractorID,
		StartDate:           dayOnly(in.StartDate),
		EndDate:             dayOnly(in.EndDate),
		ClientName:          in.ClientName,
	}
	if err := u.projects.Create(ctx, p); err != nil {
		logging.LogError(u.log, "project", "Create", "create project", in, err)
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) Get(ctx context.Context, projectID string) (*ProjectDTO, error) {
	p, err := u.projects.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) List(ctx context.Context, f ListFilter) ([]ProjectDTO, error) {
	ps, err := u.projects.List(ctx, domain.Filter{
		GeneralContractorID: f.GeneralContractorID,
		SubcontractorID:     f.SubcontractorID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ProjectDTO, 0, len(ps))
	for i := range ps {
		out = append(out, *toDTO(&ps[i]))
	}
	return out, nil
}

// UpdateDetails rewrites the descriptive fields. Owner companies stay as created.
func (u *Usecase) UpdateDetails(ctx context.Context, in UpdateDetailsInput) (*ProjectDTO, error) {
	var v validation.Error
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	checkDates(&v, in.StartDate, in.EndDate)
	if err := v.Err(); err != nil {
		return nil, err
	}

	p, err := u.projects.GetByProjectID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Address = in.Address
	p.StartDate = dayOnly(in.StartDate)
	p.EndDate = dayOnly(in.EndDate)
	p.ClientName = in.ClientName
	if err := u.projects.UpdateDetails(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.LogError(u.log, "project", "UpdateDetails", "update project", in, err)
		}
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) requireKind(ctx context.Context, companyID string, k company.Kind) error {
	c, err := u.companies.GetByCompanyID(ctx, companyID)
	if errors.Is(err, company.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", company.ErrNotFound, k, companyID)
	}
	if err != nil {
		return err
	}
	if err := c.Require(k); err != nil {
		return fmt.Errorf("%w: %s is not a %s", err, companyID, k)
	}
	return nil
}

func checkDates(v *validation.Error, start, end *time.Time) {
	if start != nil && end != nil && dayOnly(end).Before(*dayOnly(start)) {
		v.Add("end_date", "must not be before start_date")
	}
}

func dayOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dayLayout)
	return &s
}

func toDTO(p *domain.Project) *ProjectDTO {
	return &ProjectDTO{
		ProjectID:           p.ProjectID,
		Name:                p.Name,
		Address:             p.Address,
		GeneralContractorID: p.GeneralContractorID,
		SubcontractorID:     p.SubcontractorID,
		StartDate:           formatDay(p.StartDate),
		EndDate:             formatDay(p.EndDate),
		ClientName:          p.ClientName,
		CreatedAt:           p.CreatedAt,
	}
}
