package timezone_test

import (
	"tasktrack/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestToAppTime(t *testing.T) {
	utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	converted := timezone.ToAppTime(utc)

	assert.True(t, utc.Equal(converted))
	assert.Equal(t, timezone.GetLocation(), converted.Location())
}

func TestParse(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		parsed, err := timezone.Parse("2024-01-01", time.RFC3339, time.DateOnly)
		require.NoError(t, err)

		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.January, parsed.Month())
		assert.Equal(t, 1, parsed.Day())
		assert.Equal(t, timezone.GetLocation(), parsed.Location())
	})

	t.Run("rfc3339 keeps offset", func(t *testing.T) {
		parsed, err := timezone.Parse("2024-03-10T08:30:00Z", time.RFC3339, time.DateOnly)
		require.NoError(t, err)

		assert.True(t, parsed.Equal(time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := timezone.Parse("01/02/2024", time.RFC3339, time.DateOnly)

		assert.ErrorIs(t, err, timezone.ErrUnsupportedLayout)
	})
}

func TestFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	formatted := timezone.Format(testTime, time.RFC3339)
	parsed, err := time.Parse(time.RFC3339, formatted)
	require.NoError(t, err)

	assert.True(t, testTime.Equal(parsed))
}
