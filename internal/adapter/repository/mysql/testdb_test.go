package mysql

import (
	"testing"
	"time"

	"obras-backend/internal/domain/report"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// One connection only: every new :memory: connection would be a fresh database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var day = time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)

func makeReport(t *testing.T, reportID, projectID string, d time.Time) *report.DailyReport {
	t.Helper()
	r, err := report.NewDailyReport(reportID, projectID, "sup-1", d,
		[]report.AttendanceRecord{
			{WorkerID: "w-1", WorkerName: "Ana", Attended: true, Hours: decimal.RequireFromString("7.5")},
			{WorkerID: "w-2", WorkerName: "Luis", Attended: false, Hours: decimal.Zero},
		}, nil, []string{"photos/1.jpg"}, d.Add(18*time.Hour))
	if err != nil {
		t.Fatalf("NewDailyReport: %v", err)
	}
	return r
}
