// Package biztime provides timezone-aware date boundary calculations.
// All storage and transport use UTC. A user's configured timezone is only
// used to decide where their day and month boundaries fall; the resulting
// instants are always converted back to UTC.
//
// Design principles:
// - All time storage is in UTC
// - Boundary math must name the timezone explicitly
// - Implicit Local timezone is prohibited
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is used when a user has no timezone configured.
	DefaultTimezone = "UTC"
)

var (
	defaultLocation     *time.Location
	defaultLocationOnce sync.Once
	initErr             error

	locCacheMu sync.RWMutex
	locCache   = make(map[string]*time.Location)
)

// Init sets the process-wide default timezone. Should be called once at
// startup. If tz is empty, defaults to UTC.
func Init(tz string) error {
	defaultLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		defaultLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit sets the default timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize default timezone %q: %v", tz, err))
	}
}

// Location returns the process-wide default location, auto-initializing
// with UTC when Init was never called.
func Location() *time.Location {
	if defaultLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return defaultLocation
}

// LocationFor resolves a user timezone name to a location. Empty or
// unparseable names fall back to the process default; stored user
// timezones must never make boundary math fail.
func LocationFor(tz string) *time.Location {
	if tz == "" {
		return Location()
	}

	locCacheMu.RLock()
	loc, ok := locCache[tz]
	locCacheMu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Location()
	}

	locCacheMu.Lock()
	locCache[tz] = loc
	locCacheMu.Unlock()
	return loc
}

// ParseLocation validates a timezone name. Use at input boundaries before
// persisting a user preference.
func ParseLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return Location(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayIn returns the start of t's day (00:00:00) in loc, converted
// to UTC.
func StartOfDayIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).UTC()
}

// SameDayIn reports whether a and b fall on the same calendar date in loc.
func SameDayIn(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfMonthIn returns the start of t's month in loc, converted to UTC.
func StartOfMonthIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc).UTC()
}

// NextMonthStartIn returns the start of the month after t's month in loc,
// converted to UTC. time.Date normalizes month overflow.
func NextMonthStartIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month()+1, 1, 0, 0, 0, 0, loc).UTC()
}

// DaysUntilIn returns the number of whole calendar days in loc from now
// until t, never negative. A period ending later today counts as 0.
func DaysUntilIn(now, t time.Time, loc *time.Location) int {
	start := StartOfDayIn(now, loc)
	end := StartOfDayIn(t, loc)
	if end.Before(start) {
		return 0
	}
	// Round to absorb DST days that are 23 or 25 hours long.
	return int((end.Sub(start) + 12*time.Hour) / (24 * time.Hour))
}
