// Package uptime reports how long the bot process has been running.
package uptime

import (
	"errors"
	"fmt"
	"math"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// ErrInvalidElapsed is returned for elapsed values that cannot be turned into
// a whole number of seconds.
var ErrInvalidElapsed = errors.New("invalid elapsed seconds")

// Breakdown is an elapsed duration split into calendar units.
type Breakdown struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

func (b Breakdown) String() string {
	return fmt.Sprintf("%dd %dh %dm %ds", b.Days, b.Hours, b.Minutes, b.Seconds)
}

// Split rounds elapsedSeconds to the nearest second (halves away from zero)
// and breaks it down into days, hours, minutes and seconds.
func Split(elapsedSeconds float64) (Breakdown, error) {
	if math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidElapsed, elapsedSeconds)
	}
	if elapsedSeconds < 0 {
		return Breakdown{}, fmt.Errorf("%w: negative value %v", ErrInvalidElapsed, elapsedSeconds)
	}
	if elapsedSeconds >= math.MaxInt64 {
		return Breakdown{}, fmt.Errorf("%w: %v overflows", ErrInvalidElapsed, elapsedSeconds)
	}

	total := int64(math.Round(elapsedSeconds))
	return Breakdown{
		Days:    total / secondsPerDay,
		Hours:   total % secondsPerDay / secondsPerHour,
		Minutes: total % secondsPerHour / secondsPerMinute,
		Seconds: total % secondsPerMinute,
	}, nil
}

// Format renders elapsedSeconds as "{days}d {hours}h {minutes}m {seconds}s".
// Zero-valued units are always printed.
func Format(elapsedSeconds float64) (string, error) {
	b, err := Split(elapsedSeconds)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
