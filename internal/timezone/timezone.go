package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Europe/Moscow"

var (
	mu       sync.RWMutex
	fallback = DefaultTimezone
)

// SetDefault replaces the zone used for salons without a valid timezone.
// Invalid names are ignored.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	fallback = tz
	mu.Unlock()
}

func defaultName() string {
	mu.RLock()
	defer mu.RUnlock()
	return fallback
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(defaultName())
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(defaultName()))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
