package stats

import (
	"fmt"
	"time"
)

// Period is the reporting granularity keyword.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Valid reports whether p is a known granularity.
func (p Period) Valid() bool {
	return p == PeriodMonth || p == PeriodQuarter || p == PeriodYear
}

// Range is a concrete inclusive date window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ResolvePeriod expands a period/anchor shorthand into the calendar bounds of
// the anchor's month, quarter or year. The returned range is inclusive: End
// is the last representable instant of the window.
func ResolvePeriod(period Period, anchor time.Time) (Range, error) {
	loc := anchor.Location()
	switch period {
	case PeriodMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, nil
	case PeriodQuarter:
		firstMonth := quarterFirstMonth(anchor.Month())
		start := time.Date(anchor.Year(), firstMonth, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 3, 0).Add(-time.Nanosecond)}, nil
	case PeriodYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}, nil
	}
	return Range{}, fmt.Errorf("unknown period %q", period)
}

func quarterFirstMonth(m time.Month) time.Month {
	return time.Month((int(m)-1)/3*3 + 1)
}

// quarterOf returns the 1-based calendar quarter of a month.
func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// FilterByRange returns the subset of records whose date falls inside the
// inclusive range. Records with a zero date (unparseable or missing in the
// source) are always excluded. A nil range is the all-time mode: every record
// with a valid date passes.
func FilterByRange[T any](records []T, dateOf func(T) time.Time, rng *Range) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		d := dateOf(rec)
		if d.IsZero() {
			continue
		}
		if rng != nil && !rng.Contains(d) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Date accessors shared by the filter and bucketing calls.

func ScheduleDate(s Schedule) time.Time         { return s.Date }
func PaymentDate(p Payment) time.Time           { return p.CreatedAt }
func TestOrderDate(o TestOrder) time.Time       { return o.ResultTime }
func HealthRecordDate(r HealthRecord) time.Time { return r.CreatedAt }
