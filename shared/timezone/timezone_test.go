package timezone_test

import (
	"testing"
	"time"
	"vprime/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	before := time.Now()
	now := timezone.Now()

	assert.False(t, now.Before(before.Truncate(time.Second)))
	assert.Equal(t, timezone.Now().Location(), now.Location())
}

func TestStamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	stamp := timezone.Stamp(ts)

	parsed, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts), "stamp %s is the same instant", stamp)
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, ts.In(timezone.Now().Location()).Format("2006-01-02"), timezone.Format(ts, "2006-01-02"))
	assert.Empty(t, timezone.Format(time.Time{}, time.RFC3339))
	assert.Empty(t, timezone.Stamp(time.Time{}))
}
