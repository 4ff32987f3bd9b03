package constraint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Option keys accepted in a picker's option bag.
const (
	KeyMinuteInterval    = "minute-interval"
	KeyAutoDefault       = "auto-default"
	KeyDefaultTime       = "default-time"
	KeyMinTime           = "min-time"
	KeyMaxTime           = "max-time"
	KeyDisabledTimes     = "disabled-times"
	KeyMinOffset         = "min-offset"
	KeyDateRef           = "date-ref"
	KeyDateTimeMinOffset = "datetime-min-offset"
	KeyPadHour           = "pad-hour"
)

// Options is the typed form of a picker's option bag. Values are kept as written;
// Build turns them into a Set.
type Options struct {
	MinuteInterval    int      `json:"minuteInterval"`
	AutoDefault       bool     `json:"autoDefault"`
	DefaultTime       string   `json:"defaultTime,omitempty"`
	MinTime           string   `json:"minTime,omitempty"`
	MaxTime           string   `json:"maxTime,omitempty"`
	DisabledTimes     []string `json:"disabledTimes,omitempty"`
	MinOffset         string   `json:"minOffset,omitempty"`
	DateRef           string   `json:"dateRef,omitempty"`
	DateTimeMinOffset string   `json:"datetimeMinOffset,omitempty"`
	PadHour           bool     `json:"padHour"`
}

func DefaultOptions() Options {
	return Options{MinuteInterval: 1}
}

// optionError reports a malformed option value. It never stops construction.
type optionError struct {
	key   string
	value string
	why   string
}

func (e optionError) Error() string {
	return fmt.Sprintf("option %s=%q ignored: %s", e.key, e.value, e.why)
}

// ParseOptions reads a flat key/value bag. Unknown keys and malformed values are
// returned as problems and fall back to defaults.
func ParseOptions(bag map[string]string) (Options, []error) {
	o := DefaultOptions()
	var problems []error

	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		v := bag[rawKey]
		switch key {
		case KeyMinuteInterval:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				problems = append(problems, optionError{key, v, "expected a positive integer"})
				continue
			}
			o.MinuteInterval = n
		case KeyAutoDefault:
			b, err := parseBool(v)
			if err != nil {
				problems = append(problems, optionError{key, v, "expected a boolean"})
				continue
			}
			o.AutoDefault = b
		case KeyPadHour:
			b, err := parseBool(v)
			if err != nil {
				problems = append(problems, optionError{key, v, "expected a boolean"})
				continue
			}
			o.PadHour = b
		case KeyDefaultTime:
			o.DefaultTime = strings.TrimSpace(v)
		case KeyMinTime:
			o.MinTime = strings.TrimSpace(v)
		case KeyMaxTime:
			o.MaxTime = strings.TrimSpace(v)
		case KeyDisabledTimes:
			o.DisabledTimes = splitList(v)
		case KeyMinOffset:
			o.MinOffset = strings.TrimSpace(v)
		case KeyDateRef:
			o.DateRef = strings.TrimSpace(v)
		case KeyDateTimeMinOffset:
			o.DateTimeMinOffset = strings.TrimSpace(v)
		default:
			problems = append(problems, optionError{rawKey, v, "unknown option"})
		}
	}
	return o, problems
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Interval is the minute step used for offered minutes, never below 1.
func (o Options) Interval() int {
	if o.MinuteInterval <= 0 {
		return 1
	}
	return o.MinuteInterval
}
