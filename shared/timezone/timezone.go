package timezone

import (
	"errors"
	"fmt"
	"tasktrack/config"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location

	ErrUnsupportedLayout = errors.New("value does not match any supported layout")
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse tries each layout in order and returns the first successful parse.
// Layouts without a zone offset are interpreted in the application timezone.
func Parse(value string, layouts ...string) (time.Time, error) {
	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, value, GetLocation())
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse %q: %w", value, ErrUnsupportedLayout)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
