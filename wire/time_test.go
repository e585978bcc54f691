package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeMarshalUsesWireLayout(t *testing.T) {
	ts := NewTime(time.Date(2026, 7, 4, 15, 30, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"07-04-2026 15:30"`, string(out))
}

func TestTimeMarshalZero(t *testing.T) {
	out, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}

func TestTimeUnmarshal(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`"12-31-2026 23:59"`), &ts))
	assert.Equal(t, time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), ts.Time)

	// Empty and null normalize to the zero time.
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimeUnmarshalRejectsISO(t *testing.T) {
	var ts Time
	err := json.Unmarshal([]byte(`"2026-07-04T15:30:00Z"`), &ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MM-DD-YYYY HH:mm")
}

func TestTimeRoundTrip(t *testing.T) {
	orig := NewTime(time.Date(2026, 2, 14, 9, 5, 42, 999, time.UTC))
	out, err := json.Marshal(orig)
	require.NoError(t, err)
	var back Time
	require.NoError(t, json.Unmarshal(out, &back))
	// Seconds are below the wire precision and dropped by NewTime.
	assert.Equal(t, time.Date(2026, 2, 14, 9, 5, 0, 0, time.UTC), back.Time)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("07-04-2026 15:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 4, 15, 30, 0, 0, time.UTC), got)

	// Bare dates are accepted as midnight for query params.
	got, err = ParseTime(" 07-04-2026 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("2026-07-04")
	assert.Error(t, err)
	_, err = ParseTime("not a date")
	assert.Error(t, err)
}
