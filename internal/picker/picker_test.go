package picker

import (
	"reflect"
	"testing"
	"time"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/constraint"
	"timepick-cli/internal/form"
)

func at(h, m int) func() time.Time {
	return func() time.Time { return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC) }
}

func opts(t *testing.T, bag map[string]string) constraint.Options {
	t.Helper()
	o, problems := constraint.ParseOptions(bag)
	if len(problems) != 0 {
		t.Fatalf("unexpected option problems: %v", problems)
	}
	return o
}

func choice(t *testing.T, p *Picker, col Column, value string) Choice {
	t.Helper()
	for _, c := range p.Columns().Get(col) {
		if c.Value == value {
			return c
		}
	}
	t.Fatalf("no %s choice %q", col, value)
	return Choice{}
}

func TestAutoDefault_RollsOverAtTheHour(t *testing.T) {
	cases := []struct {
		h, m     int
		interval string
		want     clock.Time
	}{
		{11, 58, "15", clock.Time{Hour: 12, Minute: 0, Period: clock.PM}},
		{23, 58, "15", clock.Time{Hour: 12, Minute: 0, Period: clock.AM}},
		{12, 58, "15", clock.Time{Hour: 1, Minute: 0, Period: clock.PM}},
		{0, 50, "15", clock.Time{Hour: 1, Minute: 0, Period: clock.AM}},
		{10, 46, "15", clock.Time{Hour: 11, Minute: 0, Period: clock.AM}},
		{10, 45, "15", clock.Time{Hour: 10, Minute: 45, Period: clock.AM}},
		{15, 7, "5", clock.Time{Hour: 3, Minute: 10, Period: clock.PM}},
		{15, 0, "5", clock.Time{Hour: 3, Minute: 0, Period: clock.PM}},
		{9, 59, "1", clock.Time{Hour: 9, Minute: 59, Period: clock.AM}},
	}
	for _, c := range cases {
		f := form.New()
		p := New("t", opts(t, map[string]string{"auto-default": "true", "minute-interval": c.interval}), f, WithClock(at(c.h, c.m)))
		if got := p.Selection(); got != c.want {
			t.Fatalf("at %02d:%02d/%s: expected %#v, got %#v", c.h, c.m, c.interval, c.want, got)
		}
		if v, _ := f.Value("t"); v != c.want.String() {
			t.Fatalf("at %02d:%02d: expected bound field %q, got %q", c.h, c.m, c.want.String(), v)
		}
	}
}

func TestAutoDefault_IgnoresDefaultTime(t *testing.T) {
	p := New("t", opts(t, map[string]string{"auto-default": "true", "default-time": "9:00 AM"}), form.New(), WithClock(at(14, 20)))
	if p.Selection() != (clock.Time{Hour: 2, Minute: 20, Period: clock.PM}) {
		t.Fatalf("expected auto default to win, got %#v", p.Selection())
	}
}

func TestExplicitDefault_WritesLiteral(t *testing.T) {
	f := form.New()
	p := New("t", opts(t, map[string]string{"default-time": "09:15 am"}), f)
	if p.Selection() != (clock.Time{Hour: 9, Minute: 15, Period: clock.AM}) {
		t.Fatalf("unexpected selection %#v", p.Selection())
	}
	if v, _ := f.Value("t"); v != "09:15 am" {
		t.Fatalf("expected literal default in bound field, got %q", v)
	}
}

func TestExplicitDefault_UnparseableKeepsMidnight(t *testing.T) {
	f := form.New()
	p := New("t", opts(t, map[string]string{"default-time": "quarter past nine"}), f)
	if p.Selection() != clock.Midnight() {
		t.Fatalf("expected 12:00 AM, got %#v", p.Selection())
	}
	if _, ok := f.Value("t"); ok {
		t.Fatalf("expected bound field to stay unset")
	}
}

func TestColumns_OfferedValues(t *testing.T) {
	p := New("t", opts(t, map[string]string{"minute-interval": "15", "pad-hour": "true"}), form.New())
	cols := p.Columns()
	if len(cols.Hours) != 12 || cols.Hours[0].Label != "01" || cols.Hours[11].Value != "12" {
		t.Fatalf("unexpected hours: %#v", cols.Hours)
	}
	var minutes []string
	for _, c := range cols.Minutes {
		minutes = append(minutes, c.Label)
	}
	if !reflect.DeepEqual(minutes, []string{"00", "15", "30", "45"}) {
		t.Fatalf("unexpected minutes: %v", minutes)
	}
	if len(cols.Periods) != 2 || !cols.Periods[0].Selected {
		t.Fatalf("expected AM selected, got %#v", cols.Periods)
	}
	if !choice(t, p, ColumnHour, "12").Selected {
		t.Fatalf("expected hour 12 selected")
	}
}

func TestOfferedValues_RoundTripThroughFormat(t *testing.T) {
	for _, interval := range []int{1, 5, 7, 15, 30} {
		for _, pad := range []bool{false, true} {
			for _, per := range clock.Periods {
				for _, h := range OfferedHours() {
					for _, m := range OfferedMinutes(interval) {
						want := clock.Time{Hour: h, Minute: m, Period: per}
						got, err := clock.Parse(want.Format(pad))
						if err != nil || got != want {
							t.Fatalf("round trip %q: got %#v err=%v", want.Format(pad), got, err)
						}
					}
				}
			}
		}
	}
}

func TestColumnScoping_PeriodChangeRevalidatesHoursAndMinutes(t *testing.T) {
	p := New("t", opts(t, map[string]string{"min-time": "6:00 AM", "max-time": "6:00 PM"}), form.New())

	if !choice(t, p, ColumnHour, "3").Disabled || choice(t, p, ColumnHour, "7").Disabled {
		t.Fatalf("expected AM hours: 3 disabled, 7 enabled")
	}
	if !choice(t, p, ColumnMinute, "30").Disabled {
		t.Fatalf("expected 12:30 AM to be disabled")
	}
	if !choice(t, p, ColumnPeriod, "AM").Disabled || choice(t, p, ColumnPeriod, "PM").Disabled {
		t.Fatalf("expected 12:00 AM disabled and 12:00 PM enabled")
	}

	if !p.SelectPeriod(clock.PM) {
		t.Fatalf("expected PM to be selectable")
	}
	if choice(t, p, ColumnHour, "3").Disabled || !choice(t, p, ColumnHour, "7").Disabled {
		t.Fatalf("expected PM hours: 3 enabled, 7 disabled")
	}
	if choice(t, p, ColumnMinute, "30").Disabled {
		t.Fatalf("expected 12:30 PM to be enabled")
	}
}

func TestSelect_DisabledChoiceIsNoOp(t *testing.T) {
	obs := &countingObserver{}
	p := New("t", opts(t, map[string]string{"min-time": "6:00 AM"}), form.New(), WithObserver(obs))
	before := p.Selection()
	if p.SelectMinute(30) {
		t.Fatalf("expected 12:30 AM to be refused")
	}
	if p.Select(ColumnHour, "2") {
		t.Fatalf("expected 2:00 AM to be refused")
	}
	if p.Selection() != before {
		t.Fatalf("selection changed: %#v", p.Selection())
	}
	if obs.rejected != 2 {
		t.Fatalf("expected 2 rejections, got %d", obs.rejected)
	}
	if !p.Select(ColumnHour, "7") || p.Selection().Hour != 7 {
		t.Fatalf("expected 7:00 AM to be selected, got %#v", p.Selection())
	}
}

func TestSelect_RefusesValuesNotOffered(t *testing.T) {
	p := New("t", opts(t, map[string]string{"minute-interval": "15"}), form.New())
	for _, tc := range []struct {
		col Column
		v   string
	}{
		{ColumnHour, "0"}, {ColumnHour, "13"}, {ColumnHour, "x"},
		{ColumnMinute, "10"}, {ColumnMinute, "60"},
		{ColumnPeriod, "noon"}, {"second", "1"},
	} {
		if p.Select(tc.col, tc.v) {
			t.Fatalf("expected %s=%q to be refused", tc.col, tc.v)
		}
	}
	if !p.Select(ColumnMinute, "45") || !p.Select(ColumnPeriod, "pm") {
		t.Fatalf("expected offered values to be accepted")
	}
	if p.Value() != "12:45 PM" {
		t.Fatalf("expected 12:45 PM, got %q", p.Value())
	}
}

func TestWatcher_ReferenceChangeRevalidates(t *testing.T) {
	f := form.New()
	obs := &countingObserver{}
	p := New("arrive", opts(t, map[string]string{"min-offset": "depart:30"}), f, WithObserver(obs))
	if !reflect.DeepEqual(p.WatchedFields(), []string{"depart"}) {
		t.Fatalf("unexpected watched fields %v", p.WatchedFields())
	}
	p.SelectPeriod(clock.PM)
	p.SelectHour(2)

	refreshes := obs.refreshed
	f.Commit("depart", "2:00 PM")
	if obs.refreshed != refreshes+1 {
		t.Fatalf("expected exactly one refresh, got %d", obs.refreshed-refreshes)
	}
	if !choice(t, p, ColumnMinute, "29").Disabled || choice(t, p, ColumnMinute, "30").Disabled {
		t.Fatalf("expected 2:29 PM disabled and 2:30 PM enabled")
	}
	if !choice(t, p, ColumnHour, "1").Disabled {
		t.Fatalf("expected 1:00 PM disabled")
	}

	f.Commit("depart", "")
	if choice(t, p, ColumnMinute, "29").Disabled {
		t.Fatalf("expected empty reference to lift the rule")
	}

	f.Commit("unrelated", "x")
	if obs.refreshed != refreshes+2 {
		t.Fatalf("expected unrelated field to be ignored")
	}
}

func TestWatcher_DateFieldsTriggerRefresh(t *testing.T) {
	f := form.New()
	f.Set("out-date", "2024-01-01")
	f.Set("out-time", "5:00 PM")
	p := New("back-time", opts(t, map[string]string{
		"datetime-min-offset": "out-date,out-time:60",
		"date-ref":            "back-date",
	}), f)
	if !reflect.DeepEqual(p.WatchedFields(), []string{"out-date", "out-time", "back-date"}) {
		t.Fatalf("unexpected watched fields %v", p.WatchedFields())
	}
	p.SelectPeriod(clock.PM)
	p.SelectHour(5)

	if choice(t, p, ColumnHour, "5").Disabled {
		t.Fatalf("expected rule to be skipped while own date is empty")
	}
	f.Commit("back-date", "2024-01-01")
	if !choice(t, p, ColumnHour, "5").Disabled || choice(t, p, ColumnHour, "6").Disabled {
		t.Fatalf("expected same-day 5 PM disabled and 6 PM enabled")
	}
	f.Commit("back-date", "2024-01-02")
	if choice(t, p, ColumnHour, "5").Disabled {
		t.Fatalf("expected next-day 5 PM enabled")
	}
}

func TestConfirm_WritesFieldAndNotifiesWatchers(t *testing.T) {
	f := form.New()
	var events []form.Event
	f.SubscribeAll(func(ev form.Event) { events = append(events, ev) })

	depart := New("depart", opts(t, nil), f)
	arrive := New("arrive", opts(t, map[string]string{"min-offset": "depart:60"}), f)

	depart.Open()
	depart.SelectPeriod(clock.PM)
	depart.SelectHour(3)
	if got := depart.Confirm(); got != "3:00 PM" {
		t.Fatalf("expected 3:00 PM, got %q", got)
	}
	if depart.IsOpen() {
		t.Fatalf("expected popup closed after confirm")
	}
	want := []form.Event{
		{Field: "depart", Kind: form.Change, Value: "3:00 PM"},
		{Field: "depart", Kind: form.Input, Value: "3:00 PM"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %v, got %v", want, events)
	}

	if !arrive.Restore("4:00 PM") {
		t.Fatalf("expected restore to succeed")
	}
	if !choice(t, arrive, ColumnHour, "3").Disabled || choice(t, arrive, ColumnHour, "4").Disabled {
		t.Fatalf("expected arrive 3 PM disabled and 4 PM enabled after depart confirm")
	}
}

func TestCancel_RestoresSelection_HideDoesNot(t *testing.T) {
	f := form.New()
	p := New("t", opts(t, map[string]string{"default-time": "9:00 AM"}), f)

	p.Open()
	p.SelectHour(10)
	p.Cancel()
	if p.Selection().Hour != 9 || p.IsOpen() {
		t.Fatalf("expected cancel to restore 9 and close, got %#v open=%v", p.Selection(), p.IsOpen())
	}
	if v, _ := f.Value("t"); v != "9:00 AM" {
		t.Fatalf("expected bound field untouched, got %q", v)
	}

	p.Open()
	p.SelectHour(11)
	p.Hide()
	p.Hide()
	if p.Selection().Hour != 11 || p.IsOpen() {
		t.Fatalf("expected hide to keep 11 and close, got %#v", p.Selection())
	}
	p.Cancel()
	if p.Selection().Hour != 11 {
		t.Fatalf("expected cancel on a hidden picker to be a no-op")
	}
}

func TestOpen_RevalidatesAgainstSilentReferenceWrites(t *testing.T) {
	f := form.New()
	p := New("arrive", opts(t, map[string]string{"min-offset": "depart:0"}), f)
	f.Set("depart", "11:00 PM")
	if choice(t, p, ColumnHour, "12").Disabled {
		t.Fatalf("expected stale columns before open")
	}
	p.Open()
	if !choice(t, p, ColumnHour, "12").Disabled {
		t.Fatalf("expected open to revalidate")
	}
}

func TestRestore(t *testing.T) {
	f := form.New()
	p := New("t", opts(t, map[string]string{"default-time": "9:00 AM"}), f)
	f.Subscribe("t", "", func(ev form.Event) { t.Fatalf("unexpected notification %#v", ev) })
	if !p.Restore("4:45 PM") || p.Value() != "4:45 PM" {
		t.Fatalf("expected restore to 4:45 PM, got %q", p.Value())
	}
	if p.Restore("13:00 PM") || p.Restore("") {
		t.Fatalf("expected out-of-range and empty values to be refused")
	}
}

func TestClose_Unsubscribes(t *testing.T) {
	f := form.New()
	p := New("arrive", opts(t, map[string]string{"min-offset": "depart:0", "date-ref": "day"}), f)
	if f.Subscribers("depart") != 1 || f.Subscribers("day") != 1 {
		t.Fatalf("expected subscriptions on depart and day")
	}
	p.Close()
	p.Close()
	if f.Subscribers("depart") != 0 || f.Subscribers("day") != 0 {
		t.Fatalf("expected subscriptions removed")
	}
}

func TestRegistry_OpenHidesOthers(t *testing.T) {
	f := form.New()
	r := NewRegistry(f)
	a := r.Add("a", opts(t, nil))
	b := r.Add("b", opts(t, nil))

	if _, ok := r.Open("a"); !ok || !a.IsOpen() {
		t.Fatalf("expected a open")
	}
	b.SelectHour(5)
	if _, ok := r.Open("b"); !ok || a.IsOpen() || !b.IsOpen() {
		t.Fatalf("expected only b open")
	}
	if b.Selection().Hour != 5 {
		t.Fatalf("expected hiding others not to touch b")
	}
	if p, ok := r.Active(); !ok || p != b {
		t.Fatalf("expected b active")
	}
	if _, ok := r.Open("missing"); ok {
		t.Fatalf("expected unknown field to fail")
	}
	if !reflect.DeepEqual(r.Fields(), []string{"a", "b"}) {
		t.Fatalf("unexpected order %v", r.Fields())
	}
}

func TestRegistry_AddReplacesAndRemoveCloses(t *testing.T) {
	f := form.New()
	r := NewRegistry(f)
	r.Add("x", opts(t, map[string]string{"min-offset": "ref:0"}))
	r.Add("x", opts(t, map[string]string{"min-offset": "ref:0"}))
	if f.Subscribers("ref") != 1 {
		t.Fatalf("expected replaced picker to unsubscribe, got %d", f.Subscribers("ref"))
	}
	if len(r.Fields()) != 1 {
		t.Fatalf("expected one field, got %v", r.Fields())
	}
	r.Remove("x")
	if f.Subscribers("ref") != 0 || len(r.Pickers()) != 0 {
		t.Fatalf("expected remove to close the picker")
	}
	r.Add("y", opts(t, map[string]string{"min-offset": "ref:0"}))
	r.Close()
	if f.Subscribers("ref") != 0 {
		t.Fatalf("expected close to tear everything down")
	}
}

type countingObserver struct {
	refreshed int
	rejected  int
	confirmed int
}

func (o *countingObserver) Refreshed(string, int)   { o.refreshed++ }
func (o *countingObserver) Rejected(string, Column) { o.rejected++ }
func (o *countingObserver) Confirmed(string)        { o.confirmed++ }

func TestSelectTime_FindsAnEnabledPath(t *testing.T) {
	p := New("t", opts(t, map[string]string{"min-time": "6:00 AM", "max-time": "6:00 PM", "minute-interval": "15"}), form.New())

	// 12:00 AM -> 3:45 PM: hour first would pass through 3:00 AM (disabled), period first works.
	if !p.SelectTime(clock.Time{Hour: 3, Minute: 45, Period: clock.PM}) {
		t.Fatalf("expected 3:45 PM to be reachable")
	}
	if p.Value() != "3:45 PM" {
		t.Fatalf("expected 3:45 PM, got %q", p.Value())
	}

	for _, bad := range []clock.Time{
		{Hour: 7, Minute: 0, Period: clock.PM},
		{Hour: 3, Minute: 10, Period: clock.PM},
		{Hour: 13, Minute: 0, Period: clock.AM},
	} {
		if p.SelectTime(bad) {
			t.Fatalf("expected %v to be refused", bad)
		}
	}
	if p.Value() != "3:45 PM" {
		t.Fatalf("expected refused selections to leave 3:45 PM, got %q", p.Value())
	}
}

func TestLookupAndState(t *testing.T) {
	p := New("t", opts(t, map[string]string{"minute-interval": "5", "min-time": "6:00 AM"}), form.New())
	if c, ok := p.Lookup(ColumnMinute, " 05 "); !ok || c.Value != "5" || !c.Disabled {
		t.Fatalf("expected disabled minute 5, got %+v ok=%v", c, ok)
	}
	if _, ok := p.Lookup(ColumnMinute, "7"); ok {
		t.Fatalf("expected minute 7 not to be offered")
	}
	if c, ok := p.Lookup(ColumnPeriod, "pm"); !ok || c.Disabled {
		t.Fatalf("expected PM enabled, got %+v ok=%v", c, ok)
	}
	if _, ok := p.Lookup("second", "1"); ok {
		t.Fatalf("expected unknown column to fail")
	}

	st := p.State()
	if st.Field != "t" || st.Value != "12:00 AM" || st.Open || st.Watching == nil || len(st.Columns.Minutes) != 12 {
		t.Fatalf("unexpected state %+v", st)
	}
}
