package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := Day(time.Date(2025, 6, 1, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestDays(t *testing.T) {
	r := New(d("2025-06-01"), d("2025-06-03"))
	days := r.Days()

	require.Len(t, days, 3)
	assert.Equal(t, d("2025-06-01"), days[0])
	assert.Equal(t, d("2025-06-03"), days[2])
	assert.Equal(t, 3, r.Len())
}

func TestSingleDayRange(t *testing.T) {
	r := New(d("2025-06-01"), d("2025-06-01"))
	assert.True(t, r.Valid())
	assert.Equal(t, 1, r.Len())
}

func TestInvertedRange(t *testing.T) {
	r := New(d("2025-06-03"), d("2025-06-01"))
	assert.False(t, r.Valid())
	assert.Empty(t, r.Days())
	assert.Equal(t, 0, r.Len())
}

func TestOverlapsInclusiveBoundary(t *testing.T) {
	a := New(d("2025-06-01"), d("2025-06-02"))
	b := New(d("2025-06-02"), d("2025-06-03"))
	c := New(d("2025-06-03"), d("2025-06-04"))

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

func TestParse(t *testing.T) {
	r, err := Parse("2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01..2025-06-05", r.String())
	assert.True(t, r.Contains(d("2025-06-05")))
	assert.False(t, r.Contains(d("2025-06-06")))

	_, err = Parse("06/01/2025", "2025-06-05")
	assert.Error(t, err)
}
