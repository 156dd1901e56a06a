// Package timezone pins application timestamps to APP_TIMEZONE.
//
//	createdAt := timezone.Now()
//	body.CreatedAt = timezone.Stamp(createdAt)
//
// The zone is resolved from config on first use. An empty or unknown IANA name falls back to UTC.
package timezone

import (
	"sync"
	"time"
	"vprime/config"
	"vprime/shared/constant"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	return load(config.Get().App.Timezone)
})

func load(name string) *time.Location {
	if name == constant.Empty {
		log.Warn().Msg("APP_TIMEZONE not set, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("application timezone loaded")

	return loc
}

func Now() time.Time {
	return time.Now().In(location())
}

// Format renders t in the application zone. The zero time renders as an empty string.
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return constant.Empty
	}

	return t.In(location()).Format(layout)
}

// Stamp is Format with the API's timestamp layout.
func Stamp(t time.Time) string {
	return Format(t, constant.DateFormat)
}
