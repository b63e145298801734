package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewReportID builds a daily report id as <project>-<yyyymmdd>-<8 hex>.
// The random suffix keeps several reports of the same project and day apart.
func NewReportID(projectID string, day time.Time) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return projectID + "-" + day.Format("20060102") + "-" + hex.EncodeToString(b)
}
