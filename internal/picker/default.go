package picker

import (
	"time"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/constraint"
)

// DefaultSelection computes the construction-time selection and the text written into
// the bound field. ok is false when neither auto-default nor a parseable default-time
// applies; the selection is then 12:00 AM and the field is left alone.
func DefaultSelection(o constraint.Options, now time.Time) (sel clock.Time, display string, ok bool) {
	if o.AutoDefault {
		sel = RoundUp(now, o.Interval())
		return sel, sel.Format(o.PadHour), true
	}
	if o.DefaultTime != "" {
		t, err := clock.Parse(o.DefaultTime)
		if err == nil {
			return t, o.DefaultTime, true
		}
	}
	return clock.Midnight(), "", false
}

// RoundUp converts the wall clock to 12-hour form and rounds the minute up to the next
// multiple of interval. Reaching 60 moves to the next hour (12 wraps to 1) at minute 0;
// the period flips only when the new hour is 12.
func RoundUp(now time.Time, interval int) clock.Time {
	if interval <= 0 {
		interval = 1
	}
	cur := clock.FromClock(now.Hour(), now.Minute())
	next := (now.Minute() + interval - 1) / interval * interval
	if next < 60 {
		return clock.Time{Hour: cur.Hour, Minute: next, Period: cur.Period}
	}

	h := cur.Hour + 1
	if cur.Hour == 12 {
		h = 1
	}
	p := cur.Period
	if h == 12 {
		p = p.Toggle()
	}
	return clock.Time{Hour: h, Minute: 0, Period: p}
}
