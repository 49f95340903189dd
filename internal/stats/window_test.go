package stats

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWindow_ZeroOffset(t *testing.T) {
	for _, unit := range []Unit{UnitDay, UnitMonth} {
		_, err := ResolveWindow(date(2022, 1, 1), 0, unit)
		if !errors.Is(err, ErrZeroOffset) {
			t.Errorf("ResolveWindow(offset=0, unit=%d) error = %v, want ErrZeroOffset", unit, err)
		}
	}
}

func TestResolveWindow_ForwardDays(t *testing.T) {
	w, err := ResolveWindow(date(2022, 1, 1), 7, UnitDay)
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}

	wantStart := date(2022, 1, 1)
	wantEnd := date(2022, 1, 8)
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v (midnight of anchor day)", w.Start, wantStart)
	}
	if !w.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", w.End, wantEnd)
	}
}

func TestResolveWindow_BackwardDaysIncludesAnchorDay(t *testing.T) {
	w, err := ResolveWindow(date(2022, 1, 8), -7, UnitDay)
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}

	// Backward windows anchor at the last nanosecond of the anchor day.
	wantEnd := date(2022, 1, 9).Add(-time.Nanosecond)
	wantStart := wantEnd.AddDate(0, 0, -7)
	if !w.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v (end of anchor day)", w.End, wantEnd)
	}
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}

	// The anchor day's data must be inside the window going backward.
	lateInAnchorDay := date(2022, 1, 8).Add(23 * time.Hour)
	if !w.Contains(lateInAnchorDay) {
		t.Errorf("window %+v does not contain %v from the anchor day", w, lateInAnchorDay)
	}
	// A forward window anchored the same day would exclude it.
	fw, _ := ResolveWindow(date(2022, 1, 8), 7, UnitDay)
	if fw.Contains(date(2022, 1, 7).Add(23 * time.Hour)) {
		t.Error("forward window contains the prior day, want excluded")
	}
}

func TestResolveWindow_NeverInverted(t *testing.T) {
	anchors := []time.Time{
		date(2022, 1, 1),
		date(2022, 2, 28),
		date(2020, 2, 29),
		date(2022, 12, 31),
	}
	offsets := []int{-12, -6, -1, 1, 6, 12}

	for _, anchor := range anchors {
		for _, offset := range offsets {
			for _, unit := range []Unit{UnitDay, UnitMonth} {
				w, err := ResolveWindow(anchor, offset, unit)
				if err != nil {
					t.Fatalf("ResolveWindow(%v, %d, %d) failed: %v", anchor, offset, unit, err)
				}
				if w.Start.After(w.End) {
					t.Errorf("ResolveWindow(%v, %d, %d): Start %v after End %v",
						anchor, offset, unit, w.Start, w.End)
				}
			}
		}
	}
}

func TestResolveWindow_MonthClamping(t *testing.T) {
	tests := []struct {
		name    string
		anchor  time.Time
		months  int
		wantEnd time.Time
	}{
		{"jan 31 plus one month clamps to feb 28", date(2022, 1, 31), 1, date(2022, 2, 28)},
		{"jan 31 plus one month in leap year", date(2020, 1, 31), 1, date(2020, 2, 29)},
		{"mar 31 plus one month clamps to apr 30", date(2022, 3, 31), 1, date(2022, 4, 30)},
		{"year boundary forward", date(2022, 12, 15), 2, date(2023, 2, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow(tt.anchor, tt.months, UnitMonth)
			if err != nil {
				t.Fatalf("ResolveWindow failed: %v", err)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", w.End, tt.wantEnd)
			}
			if !w.Start.Equal(tt.anchor) {
				t.Errorf("Start = %v, want anchor midnight %v", w.Start, tt.anchor)
			}
		})
	}
}

func TestResolveWindow_BackwardMonths(t *testing.T) {
	w, err := ResolveWindow(date(2022, 7, 1), -6, UnitMonth)
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}

	wantEnd := date(2022, 7, 2).Add(-time.Nanosecond)
	wantStart := time.Date(2022, 1, 1, 23, 59, 59, 999999999, time.UTC)
	if !w.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", w.End, wantEnd)
	}
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}
}

func TestAddMonths_LeapYear(t *testing.T) {
	got := addMonths(date(2020, 2, 29), 12)
	want := date(2021, 2, 28)
	if !got.Equal(want) {
		t.Errorf("addMonths(2020-02-29, 12) = %v, want %v", got, want)
	}
}
