package clock

import (
	"errors"
	"testing"
)

func TestParse_AcceptsBothPaddingsAndCase(t *testing.T) {
	cases := map[string]Time{
		"9:05 AM":   {Hour: 9, Minute: 5, Period: AM},
		"09:05 am":  {Hour: 9, Minute: 5, Period: AM},
		"12:30PM":   {Hour: 12, Minute: 30, Period: PM},
		"1:00   pm": {Hour: 1, Minute: 0, Period: PM},
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %#v, got %#v", in, want, got)
		}
	}
}

func TestParse_KeepsShapeOnlyPermissiveness(t *testing.T) {
	got, err := Parse("13:00 AM")
	if err != nil {
		t.Fatalf("expected 13:00 AM to parse, got %v", err)
	}
	if got.Hour != 13 || got.Minute != 0 || got.Period != AM {
		t.Fatalf("expected hour=13 AM, got %#v", got)
	}
}

func TestParse_RejectsOtherShapes(t *testing.T) {
	for _, in := range []string{"", "9 AM", "9:5 AM", "14:00", " 9:00 AM", "9:00 AM ", "9:00 XM", "123:00 AM"} {
		if _, err := Parse(in); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("expected ErrUnparseable for %q, got %v", in, err)
		}
	}
}

func TestMinutesSinceMidnight_Mapping(t *testing.T) {
	cases := []struct {
		t    Time
		want int
	}{
		{Time{12, 0, AM}, 0},
		{Time{12, 59, AM}, 59},
		{Time{1, 0, AM}, 60},
		{Time{11, 59, AM}, 719},
		{Time{12, 0, PM}, 720},
		{Time{12, 15, PM}, 735},
		{Time{1, 0, PM}, 780},
		{Time{11, 59, PM}, 1439},
	}
	for _, c := range cases {
		if got := c.t.MinutesSinceMidnight(); got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.t, c.want, got)
		}
	}
}

func TestMinutesSinceMidnight_StrictlyIncreasingOverTheDay(t *testing.T) {
	prev := -1
	for _, p := range Periods {
		for _, h := range []int{12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11} {
			for m := 0; m < 60; m++ {
				got := Time{Hour: h, Minute: m, Period: p}.MinutesSinceMidnight()
				if got <= prev {
					t.Fatalf("not increasing at %d:%02d %s: prev=%d got=%d", h, m, p, prev, got)
				}
				prev = got
			}
		}
	}
	if prev != 1439 {
		t.Fatalf("expected last minute-of-day 1439, got %d", prev)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, pad := range []bool{false, true} {
		for _, p := range Periods {
			for h := 1; h <= 12; h++ {
				for m := 0; m < 60; m++ {
					want := Time{Hour: h, Minute: m, Period: p}
					got, err := Parse(want.Format(pad))
					if err != nil || got != want {
						t.Fatalf("round trip %q (pad=%v): got %#v err=%v", want.Format(pad), pad, got, err)
					}
				}
			}
		}
	}
}

func TestFormat_Padding(t *testing.T) {
	tm := Time{Hour: 9, Minute: 0, Period: AM}
	if tm.String() != "9:00 AM" {
		t.Fatalf("expected 9:00 AM, got %q", tm.String())
	}
	if tm.Padded() != "09:00 AM" {
		t.Fatalf("expected 09:00 AM, got %q", tm.Padded())
	}
}

func TestFromClock(t *testing.T) {
	cases := map[int]Time{
		0:  {12, 7, AM},
		11: {11, 7, AM},
		12: {12, 7, PM},
		23: {11, 7, PM},
	}
	for h24, want := range cases {
		if got := FromClock(h24, 7); got != want {
			t.Fatalf("FromClock(%d): expected %#v, got %#v", h24, want, got)
		}
	}
}

func TestCombineDateAndTime(t *testing.T) {
	a, err := CombineDateAndTime("2024-01-01", "5:00 PM")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	b, err := CombineDateAndTime("2024-01-02", "12:05 AM")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if got := b.Sub(a).Minutes(); got != 7*60+5 {
		t.Fatalf("expected 425 minutes, got %v", got)
	}

	if _, err := CombineDateAndTime("not a date", "5:00 PM"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := CombineDateAndTime("2024-01-01", "17:00"); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestParseDate_Layouts(t *testing.T) {
	for _, in := range []string{"2024-03-09", "2024/03/09", "03/09/2024", "2024-03-09T22:10:00Z"} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("parse date %q: %v", in, err)
		}
		if d.Year() != 2024 || d.Month() != 3 || d.Day() != 9 {
			t.Fatalf("parse date %q: got %v", in, d)
		}
	}
}
