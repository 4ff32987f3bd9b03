package picker

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/constraint"
	"timepick-cli/internal/form"
)

// Fields is what a picker needs from the surrounding form: read any field, write its
// own bound field, emit notifications and subscribe to reference fields.
type Fields interface {
	constraint.FieldReader
	Subscriber
	Set(id, value string)
	Dispatch(id string, kind form.EventKind)
}

// Observer receives picker activity; metrics implement it.
type Observer interface {
	Refreshed(field string, disabled int)
	Rejected(field string, col Column)
	Confirmed(field string)
}

type nopObserver struct{}

func (nopObserver) Refreshed(string, int) {}
func (nopObserver) Rejected(string, Column) {}
func (nopObserver) Confirmed(string) {}

type Option func(*Picker)

func WithLogger(l *zap.Logger) Option {
	return func(p *Picker) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock replaces time.Now for auto-default computation.
func WithClock(now func() time.Time) Option {
	return func(p *Picker) {
		if now != nil {
			p.now = now
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Picker) {
		if o != nil {
			p.obs = o
		}
	}
}

// Picker is one time picker bound to one field. It owns its selection; the popup's
// rendering is left to callers, which read Columns after every change.
//
// A Picker is not safe for concurrent use.
type Picker struct {
	field  string
	opts   constraint.Options
	set    *constraint.Set
	eval   constraint.Evaluator
	fields Fields

	log *zap.Logger
	now func() time.Time
	obs Observer

	sel     clock.Time
	saved   clock.Time
	open    bool
	cols    Columns
	watcher *Watcher
}

// New builds the rule set, seeds the selection (writing the default into the bound
// field when one applies), subscribes to reference fields and computes the columns.
func New(field string, opts constraint.Options, fields Fields, options ...Option) *Picker {
	p := &Picker{
		field:  field,
		opts:   opts,
		fields: fields,
		log:    zap.NewNop(),
		now:    time.Now,
		obs:    nopObserver{},
		sel:    clock.Midnight(),
	}
	for _, o := range options {
		o(p)
	}
	p.log = p.log.With(zap.String("field", field))

	set, problems := opts.Build()
	for _, err := range problems {
		p.log.Warn("picker option ignored", zap.Error(err))
	}
	p.set = set
	p.eval = constraint.NewEvaluator(set, fields)

	if sel, display, ok := DefaultSelection(opts, p.now()); ok {
		p.sel = sel
		if fields != nil {
			fields.Set(field, display)
		}
		p.log.Debug("default selection", zap.String("value", display), zap.Bool("auto", opts.AutoDefault))
	}
	p.saved = p.sel

	p.watcher = Watch(fields, set.ReferenceFields(), func(ev form.Event) {
		p.log.Debug("reference changed", zap.String("ref", ev.Field), zap.String("value", ev.Value))
		p.Refresh()
	})
	p.Refresh()
	return p
}

func (p *Picker) Field() string { return p.field }
func (p *Picker) Options() constraint.Options { return p.opts }
func (p *Picker) Rules() *constraint.Set { return p.set }
func (p *Picker) Selection() clock.Time { return p.sel }
func (p *Picker) Columns() Columns { return p.cols }
func (p *Picker) IsOpen() bool { return p.open }
func (p *Picker) WatchedFields() []string { return p.watcher.Fields() }
func (p *Picker) Evaluator() constraint.Evaluator { return p.eval }

// Value is the selection formatted the way Confirm would write it.
func (p *Picker) Value() string { return p.sel.Format(p.opts.PadHour) }

// State is a serialisable view of a picker.
type State struct {
	Field     string     `json:"field"`
	Value     string     `json:"value"`
	Selection clock.Time `json:"selection"`
	Open      bool       `json:"open"`
	Watching  []string   `json:"watching"`
	Columns   Columns    `json:"columns"`
}

func (p *Picker) State() State {
	watching := p.WatchedFields()
	if watching == nil {
		watching = []string{}
	}
	return State{
		Field:     p.field,
		Value:     p.Value(),
		Selection: p.sel,
		Open:      p.open,
		Watching:  watching,
		Columns:   p.cols,
	}
}

// Lookup finds the offered choice matching value in col, normalising numbers and
// period case. ok is false when the value is not offered.
func (p *Picker) Lookup(col Column, value string) (Choice, bool) {
	want := strings.TrimSpace(value)
	switch col {
	case ColumnHour, ColumnMinute:
		n, err := strconv.Atoi(want)
		if err != nil {
			return Choice{}, false
		}
		want = strconv.Itoa(n)
	case ColumnPeriod:
		per, ok := clock.ParsePeriod(want)
		if !ok {
			return Choice{}, false
		}
		want = string(per)
	default:
		return Choice{}, false
	}
	for _, c := range p.cols.Get(col) {
		if c.Value == want {
			return c, true
		}
	}
	return Choice{}, false
}

// Check evaluates an arbitrary candidate against the rules.
func (p *Picker) Check(c clock.Time) (disabled bool, reasons []constraint.Check) {
	reasons = p.eval.Reasons(c)
	return len(reasons) > 0, reasons
}

// Refresh recomputes every column with the other two dimensions held at the current
// selection.
func (p *Picker) Refresh() {
	sel := p.sel
	pad := p.opts.PadHour

	var cols Columns
	for _, h := range OfferedHours() {
		c := clock.Time{Hour: h, Minute: sel.Minute, Period: sel.Period}
		cols.Hours = append(cols.Hours, Choice{
			Value:    strconv.Itoa(h),
			Label:    hourLabel(h, pad),
			Disabled: p.eval.IsDisabled(c),
			Selected: h == sel.Hour,
		})
	}
	for _, m := range OfferedMinutes(p.opts.Interval()) {
		c := clock.Time{Hour: sel.Hour, Minute: m, Period: sel.Period}
		cols.Minutes = append(cols.Minutes, Choice{
			Value:    strconv.Itoa(m),
			Label:    minuteLabel(m),
			Disabled: p.eval.IsDisabled(c),
			Selected: m == sel.Minute,
		})
	}
	for _, per := range clock.Periods {
		c := clock.Time{Hour: sel.Hour, Minute: sel.Minute, Period: per}
		cols.Periods = append(cols.Periods, Choice{
			Value:    string(per),
			Label:    string(per),
			Disabled: p.eval.IsDisabled(c),
			Selected: per == sel.Period,
		})
	}
	p.cols = cols
	p.obs.Refreshed(p.field, cols.Disabled())
}

func (p *Picker) SelectHour(h int) bool {
	if h < 1 || h > 12 {
		return false
	}
	return p.trySelect(ColumnHour, clock.Time{Hour: h, Minute: p.sel.Minute, Period: p.sel.Period})
}

func (p *Picker) SelectMinute(m int) bool {
	if m < 0 || m > 59 || m%p.opts.Interval() != 0 {
		return false
	}
	return p.trySelect(ColumnMinute, clock.Time{Hour: p.sel.Hour, Minute: m, Period: p.sel.Period})
}

func (p *Picker) SelectPeriod(per clock.Period) bool {
	if per != clock.AM && per != clock.PM {
		return false
	}
	return p.trySelect(ColumnPeriod, clock.Time{Hour: p.sel.Hour, Minute: p.sel.Minute, Period: per})
}

// Select parses value for the given column. Values that are not offered, or that are
// disabled at the current selection, leave the selection unchanged.
func (p *Picker) Select(col Column, value string) bool {
	switch col {
	case ColumnHour:
		n, err := strconv.Atoi(value)
		return err == nil && p.SelectHour(n)
	case ColumnMinute:
		n, err := strconv.Atoi(value)
		return err == nil && p.SelectMinute(n)
	case ColumnPeriod:
		per, ok := clock.ParsePeriod(value)
		return ok && p.SelectPeriod(per)
	}
	return false
}

var selectOrders = [][3]Column{
	{ColumnHour, ColumnMinute, ColumnPeriod},
	{ColumnHour, ColumnPeriod, ColumnMinute},
	{ColumnMinute, ColumnHour, ColumnPeriod},
	{ColumnMinute, ColumnPeriod, ColumnHour},
	{ColumnPeriod, ColumnHour, ColumnMinute},
	{ColumnPeriod, ColumnMinute, ColumnHour},
}

// SelectTime moves the selection to t one column at a time, the way a user would,
// using the first column order whose every intermediate choice is enabled. The
// selection is unchanged when t is not offered or no such order exists.
func (p *Picker) SelectTime(t clock.Time) bool {
	if t.Hour < 1 || t.Hour > 12 || t.Minute < 0 || t.Minute > 59 || t.Minute%p.opts.Interval() != 0 {
		return false
	}
	if t.Period != clock.AM && t.Period != clock.PM {
		return false
	}
	for _, order := range selectOrders {
		cur := p.sel
		ok := true
		for _, col := range order {
			cur = withColumn(cur, t, col)
			if p.eval.IsDisabled(cur) {
				ok = false
				break
			}
		}
		if ok {
			p.sel = t
			p.Refresh()
			return true
		}
	}
	p.obs.Rejected(p.field, ColumnHour)
	return false
}

func withColumn(cur, target clock.Time, col Column) clock.Time {
	switch col {
	case ColumnHour:
		cur.Hour = target.Hour
	case ColumnMinute:
		cur.Minute = target.Minute
	case ColumnPeriod:
		cur.Period = target.Period
	}
	return cur
}

func (p *Picker) trySelect(col Column, cand clock.Time) bool {
	if p.eval.IsDisabled(cand) {
		p.obs.Rejected(p.field, col)
		p.log.Debug("disabled choice ignored", zap.String("column", string(col)), zap.String("candidate", cand.String()))
		return false
	}
	p.sel = cand
	p.Refresh()
	return true
}

// Restore re-seeds the selection from a previously committed value of the bound field
// without writing the field or notifying anyone. Values outside 1..12 / 0..59 are refused.
func (p *Picker) Restore(value string) bool {
	t, err := clock.Parse(value)
	if err != nil || t.Hour < 1 || t.Hour > 12 || t.Minute > 59 {
		return false
	}
	p.sel = t
	p.saved = t
	p.Refresh()
	return true
}

// Open shows the popup: it remembers the selection for Cancel and revalidates against
// the current reference values.
func (p *Picker) Open() {
	if !p.open {
		p.saved = p.sel
	}
	p.open = true
	p.Refresh()
}

// Hide closes the popup without touching the selection. Idempotent.
func (p *Picker) Hide() {
	p.open = false
}

// Cancel closes the popup and restores the selection it was opened with.
func (p *Picker) Cancel() {
	if p.open {
		p.sel = p.saved
		p.Refresh()
	}
	p.open = false
}

// Confirm writes the formatted selection into the bound field, emits change and input
// notifications and closes the popup.
func (p *Picker) Confirm() string {
	v := p.Value()
	if p.fields != nil {
		p.fields.Set(p.field, v)
		p.fields.Dispatch(p.field, form.Change)
		p.fields.Dispatch(p.field, form.Input)
	}
	p.saved = p.sel
	p.open = false
	p.obs.Confirmed(p.field)
	p.log.Info("time confirmed", zap.String("value", v))
	return v
}

// Close tears the picker down and unsubscribes from reference fields.
func (p *Picker) Close() {
	p.open = false
	p.watcher.Stop()
}
