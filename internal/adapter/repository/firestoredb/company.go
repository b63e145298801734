package firestoredb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"obras-backend/internal/domain/company"

	"cloud.google.com/go/firestore"
)

type CompanyRepository struct{ s store }

func NewCompanyRepository(client *firestore.Client) *CompanyRepository {
	return &CompanyRepository{s: store{client: client}}
}

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := r.s.create(ctx, r.s.col(colCompanies).Doc(c.CompanyID), c); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) GetByCompanyID(ctx context.Context, companyID string) (*company.Company, error) {
	doc, err := r.s.get(ctx, r.s.col(colCompanies).Doc(companyID))
	if isNotFound(err) {
		return nil, company.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	var c company.Company
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to parse company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) List(ctx context.Context, kind company.Kind) ([]company.Company, error) {
	q := r.s.col(colCompanies).Query
	if kind != "" {
		q = q.Where("kind", "==", string(kind))
	}
	out := []company.Company{}
	err := each(ctx, r.s, q, func(c *company.Company) { out = append(out, *c) })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
