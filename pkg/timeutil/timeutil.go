// Package timeutil formats times and durations for messages.
package timeutil

import (
	"time"

	"github.com/hako/durafmt"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// FormatDateTime formats t as YYYY-MM-DD hh:mm:ss.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// Humanize renders d with its two most significant units, e.g. "3 days 4 hours".
func Humanize(d time.Duration) string {
	if d < time.Second {
		return durafmt.Parse(d).LimitFirstN(1).String()
	}

	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}
