package stats

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod_Month(t *testing.T) {
	rng, err := ResolvePeriod(PeriodMonth, date(2025, time.June, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rng.Start.Equal(date(2025, time.June, 1)) {
		t.Errorf("expected start 2025-06-01, got %v", rng.Start)
	}
	if !rng.Contains(date(2025, time.June, 30)) {
		t.Error("expected last day of month inside range")
	}
	if rng.Contains(date(2025, time.July, 1)) {
		t.Error("expected first day of next month outside range")
	}
}

func TestResolvePeriod_Quarter(t *testing.T) {
	rng, err := ResolvePeriod(PeriodQuarter, date(2025, time.May, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rng.Start.Equal(date(2025, time.April, 1)) {
		t.Errorf("expected start 2025-04-01, got %v", rng.Start)
	}
	if !rng.Contains(date(2025, time.June, 30)) {
		t.Error("expected quarter end inside range")
	}
	if rng.Contains(date(2025, time.July, 1)) {
		t.Error("expected next quarter outside range")
	}
}

func TestResolvePeriod_Year(t *testing.T) {
	rng, err := ResolvePeriod(PeriodYear, date(2025, time.March, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rng.Contains(date(2025, time.January, 1)) || !rng.Contains(date(2025, time.December, 31)) {
		t.Error("expected whole calendar year inside range")
	}
	if rng.Contains(date(2024, time.December, 31)) {
		t.Error("expected previous year outside range")
	}
}

func TestResolvePeriod_UnknownPeriod(t *testing.T) {
	if _, err := ResolvePeriod("week", date(2025, time.June, 1)); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestFilterByRange_InclusiveBothEnds(t *testing.T) {
	rng := Range{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}
	schedules := []Schedule{
		{ID: "a", Date: rng.Start},
		{ID: "b", Date: rng.End},
		{ID: "c", Date: date(2025, time.May, 31)},
		{ID: "d", Date: date(2025, time.July, 1)},
	}
	got := FilterByRange(schedules, ScheduleDate, &rng)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("expected boundary records a and b, got %s and %s", got[0].ID, got[1].ID)
	}
}

func TestFilterByRange_ExcludesZeroDates(t *testing.T) {
	rng := Range{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}
	schedules := []Schedule{
		{ID: "a", Date: date(2025, time.June, 5)},
		{ID: "b"}, // unparseable date upstream
	}
	got := FilterByRange(schedules, ScheduleDate, &rng)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expected only the dated record, got %v", got)
	}
}

func TestFilterByRange_NilRangeIsAllTime(t *testing.T) {
	schedules := []Schedule{
		{ID: "a", Date: date(1999, time.January, 1)},
		{ID: "b", Date: date(2030, time.December, 31)},
		{ID: "c"},
	}
	got := FilterByRange(schedules, ScheduleDate, nil)
	if len(got) != 2 {
		t.Errorf("expected all dated records in all-time mode, got %d", len(got))
	}
}

func TestFilterByRange_DoesNotMutateInput(t *testing.T) {
	schedules := []Schedule{
		{ID: "a", Date: date(2025, time.June, 5)},
		{ID: "b", Date: date(2025, time.July, 5)},
	}
	rng := Range{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}
	FilterByRange(schedules, ScheduleDate, &rng)
	if schedules[0].ID != "a" || schedules[1].ID != "b" || len(schedules) != 2 {
		t.Error("input slice was mutated")
	}
}
