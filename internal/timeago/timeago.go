// Package timeago renders a timestamp as an English relative-time phrase
// such as "now", "5 minutes ago", "yesterday" or "in 3 weeks".
package timeago

import (
	"fmt"
	"math"
	"time"
)

type division struct {
	amount float64
	unit   string
}

// Each amount converts the running duration into the next unit.
var divisions = []division{
	{60, "second"},
	{60, "minute"},
	{24, "hour"},
	{7, "day"},
	{4.34524, "week"},
	{12, "month"},
	{math.Inf(1), "year"},
}

// Format returns t relative to now.
func Format(t, now time.Time) string {
	duration := t.Sub(now).Seconds()

	for _, d := range divisions {
		if math.Abs(duration) < d.amount {
			return phrase(roundHalfUp(duration), d.unit)
		}
		duration /= d.amount
	}
	return ""
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func phrase(n int, unit string) string {
	switch n {
	case 0:
		if unit == "second" {
			return "now"
		}
		if unit == "day" {
			return "today"
		}
		return "this " + unit
	case -1:
		switch unit {
		case "day":
			return "yesterday"
		case "week", "month", "year":
			return "last " + unit
		}
	case 1:
		switch unit {
		case "day":
			return "tomorrow"
		case "week", "month", "year":
			return "next " + unit
		}
	}

	if n < 0 {
		return fmt.Sprintf("%d %s ago", -n, plural(-n, unit))
	}
	return fmt.Sprintf("in %d %s", n, plural(n, unit))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
