package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "obras-backend/internal/domain/company"
	"obras-backend/internal/domain/validation"
	"obras-backend/internal/infrastructure/logging"
	"obras-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

type Usecase struct {
	repo domain.Repository
	log  *logrus.Logger
}

func NewUsecase(r domain.Repository, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logging.Discard()
	}
	return &Usecase{repo: r, log: log}
}

func (u *Usecase) Create(ctx context.Context, in CreateCompanyInput) (*CompanyDTO, error) {
	kind := domain.Kind(in.Kind)
	var v validation.Error
	if !kind.Valid() {
		v.Add("kind", "must be general_contractor or subcontractor")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if kind == domain.KindGeneralContractor && len(in.ServedContractorIDs) > 0 {
		v.Add("served_contractor_ids", "only subcontractors serve general contractors")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	// served contractors must exist and be general contractors
	for _, gcID := range in.ServedContractorIDs {
		gc, err := u.repo.GetByCompanyID(ctx, gcID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: general contractor %s", domain.ErrNotFound, gcID)
		}
		if err != nil {
			return nil, err
		}
		if err := gc.Require(domain.KindGeneralContractor); err != nil {
			return nil, fmt.Errorf("%w: %s is a %s", err, gcID, gc.Kind)
		}
	}

	c := &domain.Company{
		CompanyID:           id.NewID32(),
		Kind:                kind,
		Name:                strings.TrimSpace(in.Name),
		ServedContractorIDs: in.ServedContractorIDs,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		logging.LogError(u.log, "company", "Create", "create company", in, err)
		return nil, err
	}
	return toDTO(c), nil
}

func (u *Usecase) Get(ctx context.Context, companyID string) (*CompanyDTO, error) {
	c, err := u.repo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// List returns every company, or only those of kind when it is set.
func (u *Usecase) List(ctx context.Context, kind string) ([]CompanyDTO, error) {
	k := domain.Kind(kind)
	if k != "" && !k.Valid() {
		return nil, validation.Single("kind", "must be general_contractor or subcontractor")
	}
	cs, err := u.repo.List(ctx, k)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyDTO, 0, len(cs))
	for i := range cs {
		out = append(out, *toDTO(&cs[i]))
	}
	return out, nil
}

func toDTO(c *domain.Company) *CompanyDTO {
	return &CompanyDTO{
		CompanyID:           c.CompanyID,
		Kind:                string(c.Kind),
		Name:                c.Name,
		ServedContractorIDs: c.ServedContractorIDs,
		CreatedAt:           c.CreatedAt,
	}
}
