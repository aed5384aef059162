package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var (
	appLocation *time.Location
	mu          sync.RWMutex
)

// Init loads the named IANA location and makes it the application timezone.
// An empty name selects UTC.
func Init(name string) error {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		name = defaultZone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC")

		setLocation(time.UTC)

		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	setLocation(loc)

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return nil
}

func setLocation(loc *time.Location) {
	mu.Lock()
	defer mu.Unlock()

	appLocation = loc
}

// GetLocation returns the current application timezone location.
func GetLocation() *time.Location {
	mu.RLock()
	defer mu.RUnlock()

	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse parses a time string in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, GetLocation())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time: %w", err)
	}

	return t, nil
}

// Format formats a time in the application timezone. Zero times format as an empty string.
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return ToAppTime(t).Format(layout)
}

// ParseDate parses a calendar date as midnight UTC, the way the database driver reads a
// DATE column back.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return t, nil
}

// FormatDate formats the calendar date of t without moving it into the application
// timezone. Zero times format as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}
