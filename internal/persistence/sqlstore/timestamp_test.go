package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

	inputs := []any{
		"2024-03-01T09:30:00Z",
		"2024-03-01T11:30:00+02:00",
		[]byte("2024-03-01 09:30:00"),
		"2024-03-01 09:30:00+00:00",
		want.In(time.FixedZone("JST", 9*3600)),
	}
	for _, in := range inputs {
		var ts timestamp
		require.NoError(t, ts.Scan(in), "%v", in)
		assert.True(t, want.Equal(ts.Time), "%v scanned as %v", in, ts.Time)
		assert.Equal(t, time.UTC, ts.Location())
	}

	var ts timestamp
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(12))

	assert.Equal(t, "2024-03-01T09:30:00Z", formatTimestamp(want.In(time.FixedZone("X", 3600))))
}
