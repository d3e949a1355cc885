package uiutil

import (
	"strings"
	"time"
)

const (
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
	FriendlyDateLayout     = "Jan 2, 2006"
	FriendlyTimeLayout     = "3:04 PM"
)

// Layouts the backend uses for the visit date and time columns.
var (
	visitDateLayouts = []string{time.DateOnly}
	visitTimeLayouts = []string{time.TimeOnly, "15:04", time.Kitchen}
)

// FormatFriendlyDateTime returns a consistent, user-friendly local timestamp representation.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// FormatVisitDate renders a backend date such as "2024-03-09" as "Mar 9, 2024".
// Values in an unknown layout are returned unchanged.
func FormatVisitDate(raw string) string {
	if t, ok := parseAny(raw, visitDateLayouts); ok {
		return t.Format(FriendlyDateLayout)
	}
	return strings.TrimSpace(raw)
}

// FormatVisitTime renders a backend time such as "14:30:00" as "2:30 PM".
// Values in an unknown layout are returned unchanged.
func FormatVisitTime(raw string) string {
	if t, ok := parseAny(raw, visitTimeLayouts); ok {
		return t.Format(FriendlyTimeLayout)
	}
	return strings.TrimSpace(raw)
}

func parseAny(raw string, layouts []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
