package timeago

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name   string
		offset time.Duration
		want   string
	}{
		{"Same instant", 0, "now"},
		{"Sub-second in the past", -400 * time.Millisecond, "now"},
		{"One second ago", -time.Second, "1 second ago"},
		{"Seconds ago", -5 * time.Second, "5 seconds ago"},
		{"Rounds up to a minute", -90 * time.Second, "1 minute ago"},
		{"Half rounds toward the future", -150 * time.Second, "2 minutes ago"},
		{"Hours ago", -2 * time.Hour, "2 hours ago"},
		{"Yesterday", -26 * time.Hour, "yesterday"},
		{"Days ago", -3 * day, "3 days ago"},
		{"Last week", -8 * day, "last week"},
		{"Weeks ago", -20 * day, "3 weeks ago"},
		{"Last month", -40 * day, "last month"},
		{"Months ago", -100 * day, "3 months ago"},
		{"Last year", -400 * day, "last year"},
		{"Years ago", -3 * 365 * day, "3 years ago"},
		{"In minutes", 5 * time.Minute, "in 5 minutes"},
		{"Tomorrow", 30 * time.Hour, "tomorrow"},
		{"Next week", 9 * day, "next week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(now.Add(tt.offset), now))
		})
	}
}
