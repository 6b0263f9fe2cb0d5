package stats

import (
	"testing"
	"time"
)

func TestBucketByDayOfMonth_FixedLength(t *testing.T) {
	// June has 30 days; the output length never depends on the data.
	got := BucketByDayOfMonth(nil, ScheduleDate, nil, nil, date(2025, time.June, 1))
	if len(got) != 30 {
		t.Fatalf("expected 30 buckets for June, got %d", len(got))
	}
	for i, b := range got {
		if b.Total != 0 {
			t.Errorf("bucket %d: expected zero-initialized total, got %d", i, b.Total)
		}
	}
	// February in a leap year
	if got := BucketByDayOfMonth([]Schedule{}, ScheduleDate, nil, nil, date(2024, time.February, 10)); len(got) != 29 {
		t.Errorf("expected 29 buckets for Feb 2024, got %d", len(got))
	}
}

func TestBucketByDayOfMonth_Counts(t *testing.T) {
	schedules := []Schedule{
		{Date: date(2025, time.June, 1)},
		{Date: date(2025, time.June, 1)},
		{Date: date(2025, time.June, 15)},
	}
	got := BucketByDayOfMonth(schedules, ScheduleDate, nil, nil, date(2025, time.June, 1))
	if len(got) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(got))
	}
	if got[0].Total != 2 {
		t.Errorf("expected bucket 0 total 2, got %d", got[0].Total)
	}
	if got[14].Total != 1 {
		t.Errorf("expected bucket 14 total 1, got %d", got[14].Total)
	}
	for i, b := range got {
		if i != 0 && i != 14 && b.Total != 0 {
			t.Errorf("bucket %d: expected 0, got %d", i, b.Total)
		}
	}
}

func TestBucketByDayOfMonth_DropsOtherMonths(t *testing.T) {
	schedules := []Schedule{
		{Date: date(2025, time.May, 15)},  // wrong month
		{Date: date(2024, time.June, 15)}, // wrong year, same day-of-month
	}
	got := BucketByDayOfMonth(schedules, ScheduleDate, nil, nil, date(2025, time.June, 1))
	for i, b := range got {
		if b.Total != 0 {
			t.Errorf("bucket %d: out-of-range record leaked in, total %d", i, b.Total)
		}
	}
}

func TestBucketByDayOfMonth_Classification(t *testing.T) {
	schedules := []Schedule{
		{Date: date(2025, time.June, 3), Type: "Khám mới"},
		{Date: date(2025, time.June, 3), Type: "Tái khám"},
		{Date: date(2025, time.June, 3), Type: "something-else"},
	}
	got := BucketByDayOfMonth(schedules, ScheduleDate, visitKind, nil, date(2025, time.June, 1))
	b := got[2]
	if b.Total != 3 {
		t.Errorf("expected total 3, got %d", b.Total)
	}
	if b.Kinds[VisitExamination] != 1 || b.Kinds[VisitFollowUp] != 1 {
		t.Errorf("unexpected kind counts: %v", b.Kinds)
	}
	if _, ok := b.Kinds["something-else"]; ok {
		t.Error("unclassified type must not create a kind bucket")
	}
}

func TestBucketByMonthOfQuarter(t *testing.T) {
	schedules := []Schedule{
		{Date: date(2025, time.April, 2)},
		{Date: date(2025, time.June, 9)},
		{Date: date(2025, time.June, 20)},
		{Date: date(2025, time.July, 1)}, // next quarter, dropped
	}
	got := BucketByMonthOfQuarter(schedules, ScheduleDate, nil, nil, date(2025, time.May, 15))
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got))
	}
	if got[0].Total != 1 || got[1].Total != 0 || got[2].Total != 2 {
		t.Errorf("unexpected totals: %d %d %d", got[0].Total, got[1].Total, got[2].Total)
	}
	if got[0].Label != "2025-04" || got[2].Label != "2025-06" {
		t.Errorf("unexpected labels: %s %s", got[0].Label, got[2].Label)
	}
}

func TestBucketByQuarterOfYear(t *testing.T) {
	schedules := []Schedule{
		{Date: date(2025, time.January, 5)},
		{Date: date(2025, time.November, 5)},
		{Date: date(2024, time.November, 5)}, // wrong year, dropped
	}
	got := BucketByQuarterOfYear(schedules, ScheduleDate, nil, nil, date(2025, time.June, 1))
	if len(got) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(got))
	}
	if got[0].Total != 1 || got[3].Total != 1 || got[1].Total != 0 || got[2].Total != 0 {
		t.Errorf("unexpected totals: %v", got)
	}
	if got[3].Label != "2025-Q4" {
		t.Errorf("unexpected label %s", got[3].Label)
	}
}

func TestBucketByYearWindow(t *testing.T) {
	payments := []Payment{
		{CreatedAt: date(2020, time.March, 1), Amount: 100, Status: "Đã thanh toán"},
		{CreatedAt: date(2025, time.March, 1), Amount: 50, Status: "Đã thanh toán"},
		{CreatedAt: date(2019, time.March, 1), Amount: 9999, Status: "Đã thanh toán"}, // before window
	}
	got := BucketByYearWindow(payments, PaymentDate, nil, paidAmount, date(2025, time.June, 1))
	if len(got) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(got))
	}
	if got[0].Label != "2020" || got[5].Label != "2025" {
		t.Errorf("unexpected labels: %s .. %s", got[0].Label, got[5].Label)
	}
	if got[0].Total != 1 || got[0].Amount != 100 {
		t.Errorf("2020 bucket: got total %d amount %v", got[0].Total, got[0].Amount)
	}
	if got[5].Amount != 50 {
		t.Errorf("2025 bucket: got amount %v", got[5].Amount)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		anchor time.Time
		days   int
	}{
		{date(2025, time.June, 10), 30},
		{date(2025, time.January, 1), 31},
		{date(2025, time.February, 28), 28},
		{date(2024, time.February, 1), 29},
	}
	for _, tc := range cases {
		if got := daysInMonth(tc.anchor); got != tc.days {
			t.Errorf("daysInMonth(%v) = %d, expected %d", tc.anchor, got, tc.days)
		}
	}
}
