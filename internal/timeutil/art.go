package timeutil

import (
	"time"
)

// ART is the Argentina time location (UTC-3). All transport and analysis
// timestamps are displayed in plant-local time.
var ART *time.Location

func init() {
	var err error
	ART, err = time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		// Fallback: create fixed zone if the tz database is not available
		ART = time.FixedZone("ART", -3*60*60) // UTC-3
	}
}

// Now returns the current time in ART.
func Now() time.Time {
	return time.Now().In(ART)
}

// ToART converts any time to ART.
func ToART(t time.Time) time.Time {
	return t.In(ART)
}

// ParseInART parses a time string and returns it in ART.
func ParseInART(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, ART)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatART formats a time in ART using the given layout.
func FormatART(t time.Time, layout string) string {
	return t.In(ART).Format(layout)
}

// DayKey returns the ART calendar date (YYYY-MM-DD) a timestamp falls on.
// Used to bucket transports for the daily volume summary.
func DayKey(t time.Time) string {
	return t.In(ART).Format(DateLayout)
}

// Common layouts for ART formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02/01/2006 15:04"
)
