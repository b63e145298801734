package mysql

import (
	"context"

	"obras-backend/internal/domain/report"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) *ReportRepository { return &ReportRepository{db: db} }

func (r *ReportRepository) Create(ctx context.Context, rep *report.DailyReport) error {
	if rep.Version == 0 {
		rep.Version = 1
	}
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetByReportID(ctx context.Context, reportID string) (*report.DailyReport, error) {
	return r.get(r.db.WithContext(ctx), reportID)
}

func (r *ReportRepository) GetByReportIDForUpdate(ctx context.Context, reportID string) (*report.DailyReport, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), reportID)
}

func (r *ReportRepository) get(db *gorm.DB, reportID string) (*report.DailyReport, error) {
	var out report.DailyReport
	err := db.Where("report_id = ?", reportID).First(&out).Error
	if isNotFound(err) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReportRepository) Save(ctx context.Context, rep *report.DailyReport) error {
	prev := rep.Version
	rep.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(rep).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(rep)
	if res.Error != nil {
		rep.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		rep.Version = prev
		return report.ErrConflict
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, f report.Filter) ([]report.DailyReport, error) {
	if f.ProjectIDs != nil && len(f.ProjectIDs) == 0 {
		return []report.DailyReport{}, nil
	}
	q := r.db.WithContext(ctx).Model(&report.DailyReport{})
	if f.ProjectIDs != nil {
		q = q.Where("project_id IN ?", f.ProjectIDs)
	}
	if f.SupervisorID != "" {
		q = q.Where("supervisor_id = ?", f.SupervisorID)
	}
	if f.From != nil {
		q = q.Where("report_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("report_date <= ?", *f.To)
	}
	var out []report.DailyReport
	if err := q.Order("report_date DESC, created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
