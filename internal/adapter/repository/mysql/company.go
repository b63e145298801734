package mysql

import (
	"context"

	"obras-backend/internal/domain/company"

	"gorm.io/gorm"
)

type CompanyRepository struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) *CompanyRepository { return &CompanyRepository{db: db} }

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CompanyRepository) GetByCompanyID(ctx context.Context, companyID string) (*company.Company, error) {
	var out company.Company
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&out).Error
	if isNotFound(err) {
		return nil, company.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CompanyRepository) List(ctx context.Context, kind company.Kind) ([]company.Company, error) {
	q := r.db.WithContext(ctx).Order("name, id")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []company.Company
	return out, q.Find(&out).Error
}
