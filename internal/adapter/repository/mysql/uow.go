package mysql

import (
	"context"

	"obras-backend/internal/domain/report"
	"obras-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Companies: &CompanyRepository{db: tx},
		Projects:  &ProjectRepository{db: tx},
		Workers:   &WorkerRepository{db: tx},
		Machinery: &MachineryRepository{db: tx},
		Reports:   &ReportRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinReportTx(ctx context.Context, reportID string, fn func(r uow.Repos, rep *report.DailyReport) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the report row up-front so stage checks and the write see the same state
		rep, err := r.Reports.GetByReportIDForUpdate(ctx, reportID)
		if err != nil {
			return err
		}
		return fn(r, rep)
	})
}
