package constraint

import (
	"sort"
	"strconv"
	"strings"

	"timepick-cli/internal/clock"
)

// MinOffset requires the candidate to be at least Minutes after the time held by Field
// (same day, no wraparound).
type MinOffset struct {
	Field   string `json:"field"`
	Minutes int    `json:"minutes"`
}

// DateTimeMinOffset requires the candidate, anchored on OwnDateField, to be at least
// Minutes after RefDateField+RefTimeField.
type DateTimeMinOffset struct {
	RefDateField string `json:"refDateField"`
	RefTimeField string `json:"refTimeField"`
	Minutes      int    `json:"minutes"`
	OwnDateField string `json:"ownDateField,omitempty"`
}

// Set is the immutable rule set of one picker.
type Set struct {
	disabled  map[string]struct{}
	minTime   *clock.Time
	maxTime   *clock.Time
	minOffset *MinOffset
	dtOffset  *DateTimeMinOffset
	dateRef   string
	padHour   bool
}

// Build turns options into a Set. Rules whose values cannot be read are left out and
// reported as problems; the remaining rules still apply.
func (o Options) Build() (*Set, []error) {
	s := &Set{
		disabled: make(map[string]struct{}, len(o.DisabledTimes)),
		dateRef:  o.DateRef,
		padHour:  o.PadHour,
	}
	var problems []error

	for _, d := range o.DisabledTimes {
		s.disabled[d] = struct{}{}
	}

	if o.MinTime != "" {
		t, err := clock.Parse(o.MinTime)
		if err != nil {
			problems = append(problems, optionError{KeyMinTime, o.MinTime, "not a time"})
		} else {
			s.minTime = &t
		}
	}
	if o.MaxTime != "" {
		t, err := clock.Parse(o.MaxTime)
		if err != nil {
			problems = append(problems, optionError{KeyMaxTime, o.MaxTime, "not a time"})
		} else {
			s.maxTime = &t
		}
	}

	if o.MinOffset != "" {
		field, minutes, ok := strings.Cut(o.MinOffset, ":")
		field = strings.TrimSpace(field)
		n, err := strconv.Atoi(strings.TrimSpace(minutes))
		if !ok || field == "" || err != nil {
			problems = append(problems, optionError{KeyMinOffset, o.MinOffset, "expected <fieldId>:<minutes>"})
		} else {
			s.minOffset = &MinOffset{Field: field, Minutes: n}
		}
	}

	if o.DateTimeMinOffset != "" {
		ids, minutes, ok := strings.Cut(o.DateTimeMinOffset, ":")
		refDate, refTime, okIDs := strings.Cut(ids, ",")
		refDate = strings.TrimSpace(refDate)
		refTime = strings.TrimSpace(refTime)
		n, err := strconv.Atoi(strings.TrimSpace(minutes))
		if !ok || !okIDs || refDate == "" || refTime == "" || err != nil {
			problems = append(problems, optionError{KeyDateTimeMinOffset, o.DateTimeMinOffset, "expected <refDateId>,<refTimeId>:<minutes>"})
		} else {
			s.dtOffset = &DateTimeMinOffset{
				RefDateField: refDate,
				RefTimeField: refTime,
				Minutes:      n,
				OwnDateField: o.DateRef,
			}
			if o.DateRef == "" {
				problems = append(problems, optionError{KeyDateTimeMinOffset, o.DateTimeMinOffset, "date-ref is not set; the rule never applies"})
			}
		}
	}

	return s, problems
}

func (s *Set) PadHour() bool { return s.padHour }

func (s *Set) MinTime() (clock.Time, bool) {
	if s.minTime == nil {
		return clock.Time{}, false
	}
	return *s.minTime, true
}

func (s *Set) MaxTime() (clock.Time, bool) {
	if s.maxTime == nil {
		return clock.Time{}, false
	}
	return *s.maxTime, true
}

func (s *Set) MinOffset() (MinOffset, bool) {
	if s.minOffset == nil {
		return MinOffset{}, false
	}
	return *s.minOffset, true
}

func (s *Set) DateTimeMinOffset() (DateTimeMinOffset, bool) {
	if s.dtOffset == nil {
		return DateTimeMinOffset{}, false
	}
	return *s.dtOffset, true
}

func (s *Set) DisabledTimes() []string {
	out := make([]string, 0, len(s.disabled))
	for k := range s.disabled {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ReferenceFields lists every field whose changes can alter availability, in the
// order min-offset, reference date, reference time, own date.
func (s *Set) ReferenceFields() []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	if s.minOffset != nil {
		add(s.minOffset.Field)
	}
	if s.dtOffset != nil {
		add(s.dtOffset.RefDateField)
		add(s.dtOffset.RefTimeField)
	}
	add(s.dateRef)
	return out
}
