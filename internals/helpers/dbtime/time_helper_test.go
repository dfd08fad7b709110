package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p)

	_, err = ParsePeriod("05-2024")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParsePeriod("")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-05-20 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", FormatDate(d))

	_, err = ParseDate("2024-05")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateOfUsesLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*3600)
	// 2024-05-31 20:00 UTC sudah 1 Juni di Manila
	ts := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DateOf(ts, manila))
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), DateOf(ts, nil))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "January 2025", PeriodLabel(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01", FormatPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
	assert.NotNil(t, LoadLocation(""))
}
