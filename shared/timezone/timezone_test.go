package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/shared/timezone"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { _ = timezone.Init("UTC") })

	require.NoError(t, timezone.Init("Europe/Rome"))
	assert.Equal(t, "Europe/Rome", timezone.GetLocation().String())
	assert.Equal(t, "Europe/Rome", timezone.Now().Location().String())

	require.NoError(t, timezone.Init(""))
	assert.Equal(t, time.UTC.String(), timezone.GetLocation().String())
}

func TestInit_UnknownZoneFallsBackToUTC(t *testing.T) {
	t.Cleanup(func() { _ = timezone.Init("UTC") })

	err := timezone.Init("Mars/Olympus_Mons")

	assert.Error(t, err)
	assert.Equal(t, time.UTC, timezone.GetLocation())
}

func TestFormat(t *testing.T) {
	require.NoError(t, timezone.Init("UTC"))

	moment := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", timezone.Format(moment, time.DateOnly))
	assert.Empty(t, timezone.Format(time.Time{}, time.DateOnly))
}

func TestParse(t *testing.T) {
	require.NoError(t, timezone.Init("UTC"))

	parsed, err := timezone.Parse(time.DateOnly, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.Day())

	_, err = timezone.Parse(time.DateOnly, "10/03/2024")
	assert.Error(t, err)
}

func TestDates_IgnoreApplicationTimezone(t *testing.T) {
	t.Cleanup(func() { _ = timezone.Init("UTC") })
	require.NoError(t, timezone.Init("America/New_York"))

	parsed, err := timezone.ParseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), parsed)

	assert.Equal(t, "2024-01-10", timezone.FormatDate(parsed))
	assert.Equal(t, "2024-01-09", timezone.Format(parsed, time.DateOnly))
	assert.Empty(t, timezone.FormatDate(time.Time{}))

	_, err = timezone.ParseDate("10/01/2024")
	assert.Error(t, err)
}
