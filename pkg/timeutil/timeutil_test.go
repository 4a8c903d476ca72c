package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/strawberry-py/strawberry-go/pkg/timeutil"
)

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2022, 6, 8, 9, 5, 3, 0, time.UTC)

	assert.Equal(t, "2022-06-08 09:05:03", timeutil.FormatDateTime(ts))
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "TwoUnits", d: 3*24*time.Hour + 4*time.Hour + 5*time.Minute, want: "3 days 4 hours"},
		{name: "DropsFraction", d: 90*time.Second + 300*time.Millisecond, want: "1 minute 30 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeutil.Humanize(tt.d))
		})
	}
}
