package sqlite

import (
	"time"

	"github.com/airtrafficctl/atc/internal/store"
)

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// clampPageSize enforces the offset+limit pagination cap.
func clampPageSize(limit int) int {
	if limit <= 0 || limit > store.MaxPageSize {
		return store.MaxPageSize
	}
	return limit
}
