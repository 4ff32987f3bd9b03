package constraint

import (
	"timepick-cli/internal/clock"
)

// FieldReader reads the current value of another field in the form. A missing field
// and an empty value are treated the same.
type FieldReader interface {
	Value(id string) (string, bool)
}

// Check names one rule of a Set.
type Check string

const (
	CheckDisabledTimes     Check = KeyDisabledTimes
	CheckMinTime           Check = KeyMinTime
	CheckMaxTime           Check = KeyMaxTime
	CheckMinOffset         Check = KeyMinOffset
	CheckDateTimeMinOffset Check = KeyDateTimeMinOffset
)

var checkOrder = []Check{
	CheckDisabledTimes,
	CheckMinTime,
	CheckMaxTime,
	CheckMinOffset,
	CheckDateTimeMinOffset,
}

// Evaluator decides whether a candidate time is disabled. Reference fields are read on
// every call.
type Evaluator struct {
	set    *Set
	fields FieldReader
}

func NewEvaluator(set *Set, fields FieldReader) Evaluator {
	return Evaluator{set: set, fields: fields}
}

// IsDisabled reports whether any rule rejects the candidate.
func (e Evaluator) IsDisabled(c clock.Time) bool {
	if e.set == nil {
		return false
	}
	for _, chk := range checkOrder {
		if e.fails(chk, c) {
			return true
		}
	}
	return false
}

// Reasons lists every rule that rejects the candidate.
func (e Evaluator) Reasons(c clock.Time) []Check {
	if e.set == nil {
		return nil
	}
	var out []Check
	for _, chk := range checkOrder {
		if e.fails(chk, c) {
			out = append(out, chk)
		}
	}
	return out
}

func (e Evaluator) fails(chk Check, c clock.Time) bool {
	switch chk {
	case CheckDisabledTimes:
		_, ok := e.set.disabled[c.Format(e.set.padHour)]
		return ok
	case CheckMinTime:
		return e.set.minTime != nil && c.MinutesSinceMidnight() < e.set.minTime.MinutesSinceMidnight()
	case CheckMaxTime:
		return e.set.maxTime != nil && c.MinutesSinceMidnight() > e.set.maxTime.MinutesSinceMidnight()
	case CheckMinOffset:
		return e.failsMinOffset(c)
	case CheckDateTimeMinOffset:
		return e.failsDateTimeMinOffset(c)
	}
	return false
}

func (e Evaluator) failsMinOffset(c clock.Time) bool {
	r := e.set.minOffset
	if r == nil {
		return false
	}
	raw, ok := e.value(r.Field)
	if !ok {
		return false
	}
	ref, err := clock.Parse(raw)
	if err != nil {
		return false
	}
	// No wraparound: a reference later in the day always rejects.
	return c.MinutesSinceMidnight()-ref.MinutesSinceMidnight() < r.Minutes
}

func (e Evaluator) failsDateTimeMinOffset(c clock.Time) bool {
	r := e.set.dtOffset
	if r == nil || r.OwnDateField == "" {
		return false
	}
	refDate, ok1 := e.value(r.RefDateField)
	refTime, ok2 := e.value(r.RefTimeField)
	ownDate, ok3 := e.value(r.OwnDateField)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	ref, err := clock.CombineDateAndTime(refDate, refTime)
	if err != nil {
		return false
	}
	cand, err := clock.At(ownDate, c)
	if err != nil {
		return false
	}
	return cand.Sub(ref).Minutes() < float64(r.Minutes)
}

func (e Evaluator) value(id string) (string, bool) {
	if e.fields == nil || id == "" {
		return "", false
	}
	v, ok := e.fields.Value(id)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
