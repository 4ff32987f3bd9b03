package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"timepick-cli/internal/config"
	"timepick-cli/internal/form"
)

func testConfig() *config.Config {
	return &config.Config{Fields: []config.FieldDef{
		{ID: "depart", Kind: config.KindTime, Options: map[string]string{"default-time": "9:00 AM", "minute-interval": "15"}},
		{ID: "arrive", Kind: config.KindTime, Value: "11:00 AM", Options: map[string]string{"min-offset": "depart:30", "colour": "red"}},
		{ID: "note", Label: "Note", Kind: config.KindText},
	}}
}

func open(t *testing.T, dir string) *Session {
	t.Helper()
	return openConfig(t, dir, testConfig())
}

func openConfig(t *testing.T, dir string, cfg *config.Config) *Session {
	t.Helper()
	s, err := Open(context.Background(), cfg, dir, Options{
		Clock: func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestOpen_SeedsDefaultsAndConfigValues(t *testing.T) {
	s := open(t, t.TempDir())
	defer s.Close()

	depart, err := s.Field("depart")
	if err != nil || depart.Value != "9:00 AM" {
		t.Fatalf("expected default 9:00 AM, got %+v err=%v", depart, err)
	}
	arrive, _ := s.Field("arrive")
	if arrive.Value != "11:00 AM" {
		t.Fatalf("expected configured 11:00 AM, got %q", arrive.Value)
	}
	p, _ := s.Picker("arrive")
	if p.Value() != "11:00 AM" {
		t.Fatalf("expected picker restored to 11:00 AM, got %q", p.Value())
	}
	if len(arrive.Problems) != 1 {
		t.Fatalf("expected one option problem for arrive, got %v", arrive.Problems)
	}
	if len(s.Fields()) != 3 {
		t.Fatalf("expected 3 fields")
	}
}

func TestSetField_NotifiesWatchersAndPersists(t *testing.T) {
	dir := t.TempDir()
	s := open(t, dir)

	arrive, _ := s.Picker("arrive")
	arrive.SelectPeriod("PM")
	if _, err := s.SetField("depart", "1:00 PM"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if c, _ := arrive.Lookup("hour", "1"); !c.Disabled {
		t.Fatalf("expected 1:00 PM to be disabled (< depart + 30)")
	}
	if c, _ := arrive.Lookup("hour", "2"); c.Disabled {
		t.Fatalf("expected 2:00 PM to be enabled")
	}

	if _, err := s.SetField("note", "window seat"); err != nil {
		t.Fatalf("set note: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := open(t, dir)
	defer s2.Close()
	if f, _ := s2.Field("depart"); f.Value != "1:00 PM" {
		t.Fatalf("expected stored depart to win over default, got %q", f.Value)
	}
	p, _ := s2.Picker("depart")
	if p.Value() != "1:00 PM" {
		t.Fatalf("expected depart picker restored, got %q", p.Value())
	}
	if f, _ := s2.Field("note"); f.Value != "window seat" {
		t.Fatalf("expected note persisted, got %q", f.Value)
	}

	evs, err := s2.DB.Events(context.Background(), "depart", 0)
	if err != nil || len(evs) != 1 || evs[0].Kind != form.Change {
		t.Fatalf("expected one change event for depart, got %+v err=%v", evs, err)
	}
}

func TestConfirm_IsRecorded(t *testing.T) {
	s := open(t, t.TempDir())
	defer s.Close()

	p, _ := s.Picker("depart")
	p.Open()
	p.SelectMinute(45)
	p.Confirm()

	evs, err := s.DB.Events(context.Background(), "depart", 0)
	if err != nil || len(evs) != 2 {
		t.Fatalf("expected change and input events, got %+v err=%v", evs, err)
	}
	if evs[0].Kind != form.Change || evs[1].Kind != form.Input || evs[0].Value != "9:45 AM" {
		t.Fatalf("unexpected events %+v", evs)
	}
}

func TestPicker_Errors(t *testing.T) {
	s := open(t, t.TempDir())
	defer s.Close()

	if _, err := s.Picker("missing"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := s.Picker("note"); !errors.Is(err, ErrNotTimeField) {
		t.Fatalf("expected ErrNotTimeField, got %v", err)
	}
	if _, err := s.SetField("missing", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSetField_DisabledTimeLeavesSelection(t *testing.T) {
	s := open(t, t.TempDir())
	defer s.Close()

	p, _ := s.Picker("arrive")
	if _, err := s.SetField("arrive", "8:00 AM"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.Value() != "11:00 AM" {
		t.Fatalf("expected selection to stay at 11:00 AM, got %q", p.Value())
	}
	p.Open()
	if got := p.Confirm(); got != "11:00 AM" {
		t.Fatalf("expected confirm to write 11:00 AM, got %q", got)
	}
	if f, _ := s.Field("arrive"); f.Value != "11:00 AM" {
		t.Fatalf("expected field value 11:00 AM, got %q", f.Value)
	}

	if _, err := s.SetField("arrive", "1:00 PM"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.Value() != "1:00 PM" {
		t.Fatalf("expected selection to follow an enabled value, got %q", p.Value())
	}
}

func TestOpen_ReferenceDeclaredLaterIsSeen(t *testing.T) {
	cfg := &config.Config{Fields: []config.FieldDef{
		{ID: "arrive", Kind: config.KindTime, Options: map[string]string{"min-offset": "depart:30"}},
		{ID: "depart", Kind: config.KindTime, Options: map[string]string{"default-time": "2:00 PM"}},
	}}
	s := openConfig(t, t.TempDir(), cfg)
	defer s.Close()

	p, _ := s.Picker("arrive")
	c, ok := p.Lookup("hour", "1")
	if !ok || !c.Disabled {
		t.Fatalf("expected hour 1 disabled once depart has its default, got %+v ok=%v", c, ok)
	}
}

func TestOpen_KeepsUnparseableStoredValue(t *testing.T) {
	dir := t.TempDir()
	s := open(t, dir)
	if _, err := s.SetField("depart", "13:00 AM"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := open(t, dir)
	defer s2.Close()
	if f, _ := s2.Field("depart"); f.Value != "13:00 AM" {
		t.Fatalf("expected stored text kept, got %q", f.Value)
	}
	p, _ := s2.Picker("depart")
	if p.Value() != "9:00 AM" {
		t.Fatalf("expected picker to keep its default, got %q", p.Value())
	}
}
