// Package wire is the normalization boundary between the backend's
// snake_case JSON contract and the camelCase gorm models. Every known
// field has an explicit two-way mapping; missing wire fields normalize
// to zero values, never to nulls the form layer would choke on.
package wire

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the on-the-wire timestamp contract: MM-DD-YYYY HH:mm.
// It predates this server and every deployed client depends on it, so
// it is NOT ISO-8601 and must not become it.
const TimeLayout = "01-02-2006 15:04"

// Time wraps time.Time with the custom wire layout for JSON.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time, truncating to minute precision to match
// what survives a round trip through the wire layout.
func NewTime(t time.Time) Time {
	return Time{t.Truncate(time.Minute)}
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected MM-DD-YYYY HH:mm: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// ParseTime parses a wire-format date string (used for query params).
// Bare dates without a time component are accepted as midnight.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("01-02-2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected MM-DD-YYYY[ HH:mm]: %w", s, err)
	}
	return t, nil
}
