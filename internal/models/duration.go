package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is a normalized hours/minutes/seconds value as printed on a bill.
// Minutes and seconds are always kept in [0, 60).
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// NewDuration builds a Duration, carrying seconds into minutes and minutes
// into hours. NewDuration(1, 75, 90) is 02:16:30.
func NewDuration(hours, minutes, seconds int) Duration {
	minutes += seconds / 60
	seconds %= 60
	hours += minutes / 60
	minutes %= 60
	return Duration{Hours: hours, Minutes: minutes, Seconds: seconds}
}

// ParseDuration parses "HH:MM:SS". Components may overflow ("01:75:90");
// the result is normalized.
func ParseDuration(s string) (Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Duration{}, fmt.Errorf("invalid duration %q: expected HH:MM:SS", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: bad component %q", s, p)
		}
		n[i] = v
	}
	return NewDuration(n[0], n[1], n[2]), nil
}

// Add returns d+o normalized into d's representation.
func (d Duration) Add(o Duration) Duration {
	return NewDuration(d.Hours+o.Hours, d.Minutes+o.Minutes, d.Seconds+o.Seconds)
}

// TotalSeconds returns the duration in seconds.
func (d Duration) TotalSeconds() int {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// RoundedMinutes converts to whole minutes, rounding half up (5m30s -> 6).
func (d Duration) RoundedMinutes() int {
	return (d.TotalSeconds() + 30) / 60
}

// IsZero reports whether the duration is empty.
func (d Duration) IsZero() bool {
	return d.TotalSeconds() == 0
}

func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}

// MarshalYAML renders the duration in its bill form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
