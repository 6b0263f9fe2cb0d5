package stats

import (
	"testing"
	"time"
)

func TestRate(t *testing.T) {
	cases := []struct {
		num, den, want int
	}{
		{1, 2, 50},
		{3, 4, 75},
		{2, 3, 67}, // rounded
		{1, 3, 33},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},  // zero denominator yields 0, never NaN
		{7, 0, 0},
		{1, -2, 0},
	}
	for _, tc := range cases {
		if got := Rate(tc.num, tc.den); got != tc.want {
			t.Errorf("Rate(%d, %d) = %d, expected %d", tc.num, tc.den, got, tc.want)
		}
	}
}

func TestRate_Bounds(t *testing.T) {
	for num := 0; num <= 10; num++ {
		for den := 0; den <= 10; den++ {
			got := Rate(num, den)
			if den >= num && (got < 0 || got > 100) {
				t.Errorf("Rate(%d, %d) = %d out of [0,100]", num, den, got)
			}
		}
	}
}

func TestDistinctPatients(t *testing.T) {
	schedules := []Schedule{
		{PatientID: "p1"},
		{PatientID: "p1"},
		{PatientID: "p2"},
		{PatientID: ""},
	}
	if got := DistinctPatients(schedules); got != 2 {
		t.Errorf("expected 2 distinct patients, got %d", got)
	}
	if got := DistinctPatients(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
}

func TestNewPatients_RequiresFullHistory(t *testing.T) {
	// p1 first visited in May: not new in June even though they visited then.
	// p2's first-ever visit is in June: new.
	history := []Schedule{
		{PatientID: "p1", Date: date(2025, time.May, 10)},
		{PatientID: "p1", Date: date(2025, time.June, 5)},
		{PatientID: "p2", Date: date(2025, time.June, 12)},
		{PatientID: "p3", Date: date(2025, time.July, 1)},
	}
	rng := Range{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}
	if got := NewPatients(history, rng); got != 1 {
		t.Errorf("expected 1 new patient, got %d", got)
	}
}

func TestNewPatients_UnorderedHistory(t *testing.T) {
	// earliest-date detection must not depend on input order
	history := []Schedule{
		{PatientID: "p1", Date: date(2025, time.June, 5)},
		{PatientID: "p1", Date: date(2025, time.May, 10)},
	}
	rng := Range{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}
	if got := NewPatients(history, rng); got != 0 {
		t.Errorf("expected 0 new patients, got %d", got)
	}
}

func TestRankDoctors(t *testing.T) {
	schedules := []Schedule{
		{DoctorID: "d1", Status: "Hoàn thành"},
		{DoctorID: "d1", Status: "Hoàn thành"},
		{DoctorID: "d1", Status: "Chờ khám"},
		{DoctorID: "d2", Status: "Hoàn thành"},
		{DoctorID: "d2", Status: "Vắng mặt"},
		{DoctorID: "d2", Status: "weird"},
	}
	staff := []StaffMember{
		{ID: "d1", FullName: "Dr. An", Role: RoleDoctor},
		{ID: "d2", FullName: "Dr. Bình", Role: RoleDoctor},
	}
	got := RankDoctors(schedules, staff, "")
	if len(got) != 2 {
		t.Fatalf("expected 2 doctors, got %d", len(got))
	}
	if got[0].DoctorID != "d1" {
		t.Errorf("expected d1 ranked first, got %s", got[0].DoctorID)
	}
	if got[0].Completed != 2 || got[0].Waiting != 1 {
		t.Errorf("d1 histogram wrong: %+v", got[0])
	}
	if got[0].CompletionRate != 67 {
		t.Errorf("expected completion rate 67, got %d", got[0].CompletionRate)
	}
	if got[1].Unknown != 1 || got[1].Absent != 1 {
		t.Errorf("d2 histogram wrong: %+v", got[1])
	}
	if got[0].DoctorName != "Dr. An" {
		t.Errorf("expected staff name joined in, got %q", got[0].DoctorName)
	}
}

func TestRankDoctors_StableTies(t *testing.T) {
	// d1 and d2 both have one completed schedule; input order wins.
	schedules := []Schedule{
		{DoctorID: "d1", Status: "COMPLETED"},
		{DoctorID: "d2", Status: "COMPLETED"},
	}
	got := RankDoctors(schedules, nil, "")
	if got[0].DoctorID != "d1" || got[1].DoctorID != "d2" {
		t.Errorf("tie broke input order: %s, %s", got[0].DoctorID, got[1].DoctorID)
	}
}

func TestRankDoctors_NarrowsToOneDoctor(t *testing.T) {
	schedules := []Schedule{
		{DoctorID: "d1", Status: "COMPLETED"},
		{DoctorID: "d2", Status: "COMPLETED"},
	}
	got := RankDoctors(schedules, nil, "d2")
	if len(got) != 1 || got[0].DoctorID != "d2" {
		t.Errorf("expected only d2, got %v", got)
	}
}

func TestTallyHIVResults_BothRateVariants(t *testing.T) {
	orders := []TestOrder{
		{Result: "Dương tính"},
		{Result: "POSITIVE"},
		{Result: "positive"},
		{Result: "Âm tính"},
		{Result: "pending-result"},
		{Result: ""},
	}
	tally := TallyHIVResults(orders)
	if tally.Positive != 3 || tally.Negative != 1 || tally.Unknown != 2 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
	if got := tally.RateExcludingUnknown(); got != 75 {
		t.Errorf("excluding-unknown rate: expected 75, got %d", got)
	}
	if got := tally.RateIncludingUnknown(); got != 50 {
		t.Errorf("including-unknown rate: expected 50, got %d", got)
	}
}

func TestTallyHIVResults_Empty(t *testing.T) {
	tally := TallyHIVResults(nil)
	if tally.RateExcludingUnknown() != 0 || tally.RateIncludingUnknown() != 0 {
		t.Error("empty tally must yield 0 rates")
	}
}

func TestSummarizeRevenue_ExcludesNonCompleted(t *testing.T) {
	payments := []Payment{
		{Amount: 100, Status: "Chờ thanh toán"},
		{Amount: 200, Status: "Đã thanh toán"},
	}
	got := SummarizeRevenue(payments)
	if got.TotalRevenue != 200 {
		t.Errorf("expected revenue 200, got %v", got.TotalRevenue)
	}
	if got.TotalCompleted != 1 || got.TotalPending != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestSummarizeRevenue_MalformedAmounts(t *testing.T) {
	payments := []Payment{
		{Amount: -50, Status: "PAID"},   // negative treated as 0, still counted
		{Amount: 300, Status: "PAID"},
		{Amount: 10, Status: "FAILED"},  // failed never summed
		{Amount: 10, Status: "mystery"}, // unknown never summed
	}
	got := SummarizeRevenue(payments)
	if got.TotalRevenue != 300 {
		t.Errorf("expected revenue 300, got %v", got.TotalRevenue)
	}
	if got.TotalCompleted != 2 || got.TotalFailed != 1 || got.TotalUnknown != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestSummarizeRevenue_Empty(t *testing.T) {
	got := SummarizeRevenue(nil)
	if got.TotalRevenue != 0 || got.TotalCompleted != 0 || got.TotalPending != 0 || got.TotalFailed != 0 {
		t.Errorf("expected zeroed summary, got %+v", got)
	}
}
