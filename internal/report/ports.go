package report

import (
	"context"
	"fmt"
	"time"
)

// Report — один отчёт тестировщика, отслеживаемый до разрешения.
type Report struct {
	ReportID        string
	NumericID       int64
	OriginChatID    int64
	OriginMessageID int
	AuthorID        int64
	AuthorUsername  string
	AuthorFirstName string
	Tag             string
	Content         string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AdminMessageID  *int64
	AdminChatID     *int64
}

// ID builds the composite report key. The same message forwarded into a
// different chat produces a different key; this is a known edge case and is
// deliberately not guarded against.
func ID(chatID int64, messageID int) string {
	return fmt.Sprintf("%d_%d", chatID, messageID)
}

// Filter narrows List and Count. Zero values mean "no filter".
type Filter struct {
	Tag    string
	Status Status
	Limit  int
	Offset int
}

// Store — persistence. Each operation commits independently; callers must not
// assume multi-statement atomicity across calls.
type Store interface {
	// Add inserts a report. A duplicate ReportID is an idempotent no-op
	// reported as false, not an error.
	Add(ctx context.Context, r *Report) (bool, error)
	// Get returns nil when the report does not exist.
	Get(ctx context.Context, reportID string) (*Report, error)
	// UpdateStatus sets the status, advances updated_at and backfills the
	// admin message/chat ids when provided.
	UpdateStatus(ctx context.Context, reportID string, status Status, adminMessageID, adminChatID *int64) (bool, error)
	// List returns reports newest first.
	List(ctx context.Context, f Filter) ([]Report, error)
	Count(ctx context.Context, f Filter) (int, error)
}
