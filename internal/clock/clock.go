package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is the AM/PM half of a 12-hour clock reading.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// Periods lists the periods in display order.
var Periods = []Period{AM, PM}

// ParsePeriod accepts "am"/"pm" in any case.
func ParsePeriod(s string) (Period, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AM":
		return AM, true
	case "PM":
		return PM, true
	default:
		return "", false
	}
}

// Toggle returns the other period.
func (p Period) Toggle() Period {
	if p == AM {
		return PM
	}
	return AM
}

// Time is a 12-hour clock reading.
//
// Hour and Minute are not range-checked: Parse only validates the textual shape,
// so "13:00 AM" yields Hour=13. Offered values produced by the picker are always
// within 1..12 / 0..59.
type Time struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Period Period `json:"period"`
}

var (
	ErrUnparseable = errors.New("unparseable time")
	ErrInvalidDate = errors.New("invalid date")
)

var reTime = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

// Parse reads "H:MM AM" or "HH:MM PM" (case-insensitive, optional space before the period).
func Parse(s string) (Time, error) {
	m := reTime.FindStringSubmatch(s)
	if m == nil {
		return Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	return Time{Hour: h, Minute: mi, Period: Period(strings.ToUpper(m[3]))}, nil
}

// FromClock converts a 24-hour wall-clock reading.
func FromClock(hour24, minute int) Time {
	h := hour24 % 12
	if h == 0 {
		h = 12
	}
	p := AM
	if hour24 >= 12 {
		p = PM
	}
	return Time{Hour: h, Minute: minute, Period: p}
}

// Midnight is the built-in selection (12:00 AM).
func Midnight() Time { return Time{Hour: 12, Minute: 0, Period: AM} }

// MinutesSinceMidnight maps the reading onto minute-of-day:
// 12 AM -> minute, 1-11 AM -> hour*60+minute, 12 PM -> 720+minute, 1-11 PM -> (hour+12)*60+minute.
func (t Time) MinutesSinceMidnight() int {
	switch {
	case t.Period == AM && t.Hour == 12:
		return t.Minute
	case t.Period == AM:
		return t.Hour*60 + t.Minute
	case t.Hour == 12:
		return 12*60 + t.Minute
	default:
		return (t.Hour+12)*60 + t.Minute
	}
}

// Hour24 is the hour used when anchoring the reading on a date.
func (t Time) Hour24() int {
	switch {
	case t.Period == AM && t.Hour == 12:
		return 0
	case t.Period == PM && t.Hour != 12:
		return t.Hour + 12
	default:
		return t.Hour
	}
}

// String formats as "H:MM AM".
func (t Time) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Period)
}

// Padded formats as "HH:MM AM".
func (t Time) Padded() string {
	return fmt.Sprintf("%02d:%02d %s", t.Hour, t.Minute, t.Period)
}

// Format picks String or Padded.
func (t Time) Format(padHour bool) string {
	if padHour {
		return t.Padded()
	}
	return t.String()
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate reads a calendar date. RFC3339 timestamps are accepted and reduced to their date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// CombineDateAndTime anchors a time string on a date string. Both are interpreted
// without a timezone (UTC), so differences between two combined instants are pure
// wall-clock minutes.
func CombineDateAndTime(dateStr, timeStr string) (time.Time, error) {
	t, err := Parse(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return At(dateStr, t)
}

// At anchors an already parsed reading on a date string.
func At(dateStr string, t Time) (time.Time, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour24(), t.Minute, 0, 0, time.UTC), nil
}
