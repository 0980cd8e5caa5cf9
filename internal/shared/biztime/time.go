// Package biztime holds the business timezone used for display formatting.
// Timestamps are carried in UTC; only rendering converts to the business timezone.
package biztime

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the default business timezone.
const DefaultTimezone = "Asia/Tokyo"

// DisplayLayout renders timestamps as YYYY/MM/DD HH:MM.
const DisplayLayout = "2006/01/02 15:04"

var (
	bizLocation   *time.Location
	bizLocationMu sync.RWMutex
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	bizLocationMu.Lock()
	bizLocation = loc
	bizLocationMu.Unlock()
	return nil
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	bizLocationMu.RLock()
	loc := bizLocation
	bizLocationMu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDisplay renders t in the business timezone; the zero time renders as "".
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(DisplayLayout)
}
