package stats

import (
	"testing"
	"time"
)

func TestParseDate_Layouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2025-06-15T10:30:00Z", time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-06-15T10:30:00", time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-06-15 10:30:00", time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-06-15", date(2025, time.June, 15)},
		{"15/06/2025", date(2025, time.June, 15)},
	}
	for _, tc := range cases {
		if got := parseDate(tc.raw); !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, expected %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseDate_UnparseableIsZero(t *testing.T) {
	for _, raw := range []any{"garbage", "06-15-2025", "", nil, 42.0} {
		if got := parseDate(raw); !got.IsZero() {
			t.Errorf("parseDate(%v) = %v, expected zero time", raw, got)
		}
	}
}

func TestAsAmount(t *testing.T) {
	cases := []struct {
		raw  any
		want float64
	}{
		{150000.0, 150000},
		{"150000", 150000},
		{"150000.50", 150000.50},
		{"abc", 0},
		{-50.0, 0},
		{"-50", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		if got := asAmount(tc.raw); got != tc.want {
			t.Errorf("asAmount(%v) = %v, expected %v", tc.raw, got, tc.want)
		}
	}
}

func TestAdaptSchedule_CamelAndSnakeKeys(t *testing.T) {
	camel := AdaptSchedule(map[string]any{
		"scheduleId": "s1",
		"date":       "2025-06-15",
		"status":     "Đã đặt",
		"doctorId":   "d1",
		"patientId":  "p1",
	})
	snake := AdaptSchedule(map[string]any{
		"schedule_id": "s1",
		"date":        "2025-06-15",
		"status":      "Đã đặt",
		"doctor_id":   "d1",
		"patient_id":  "p1",
	})
	if camel != snake {
		t.Errorf("camelCase and snake_case inputs diverged: %+v vs %+v", camel, snake)
	}
	if camel.ID != "s1" || camel.DoctorID != "d1" || camel.PatientID != "p1" {
		t.Errorf("unexpected schedule: %+v", camel)
	}
	if !camel.Date.Equal(date(2025, time.June, 15)) {
		t.Errorf("unexpected date: %v", camel.Date)
	}
}

func TestAdaptSchedule_MissingFieldsDegrade(t *testing.T) {
	got := AdaptSchedule(map[string]any{"status": "Hoàn thành"})
	if got.ID != "" || got.DoctorID != "" || !got.Date.IsZero() {
		t.Errorf("missing fields must be zero values, got %+v", got)
	}
	if got.Status != "Hoàn thành" {
		t.Errorf("present field lost: %+v", got)
	}
}

func TestAdaptPayment_AmountVariants(t *testing.T) {
	fromNumber := AdaptPayment(map[string]any{"id": "p1", "amount": 200.0, "status": "PAID"})
	fromString := AdaptPayment(map[string]any{"id": "p1", "total": "200", "status": "PAID"})
	if fromNumber.Amount != 200 || fromString.Amount != 200 {
		t.Errorf("amounts: %v, %v", fromNumber.Amount, fromString.Amount)
	}
	bad := AdaptPayment(map[string]any{"id": "p2", "amount": "not-a-number", "status": "PAID"})
	if bad.Amount != 0 {
		t.Errorf("malformed amount must degrade to 0, got %v", bad.Amount)
	}
}

func TestAdaptTestOrder_ResultTimeAliases(t *testing.T) {
	actual := AdaptTestOrder(map[string]any{"id": "o1", "actualResultTime": "2025-06-04", "result": "Dương tính"})
	plain := AdaptTestOrder(map[string]any{"id": "o1", "result_time": "2025-06-04", "result": "Dương tính"})
	if !actual.ResultTime.Equal(date(2025, time.June, 4)) || !plain.ResultTime.Equal(date(2025, time.June, 4)) {
		t.Errorf("result time aliases not picked up: %v, %v", actual.ResultTime, plain.ResultTime)
	}
}

func TestAdaptStaffMember(t *testing.T) {
	got := AdaptStaffMember(map[string]any{
		"user_id":        "u1",
		"full_name":      "Dr. An",
		"role":           "DOCTOR",
		"account_status": "ACTIVE",
	})
	if got.ID != "u1" || got.FullName != "Dr. An" || got.Role != RoleDoctor || got.AccountStatus != "ACTIVE" {
		t.Errorf("unexpected staff member: %+v", got)
	}
}

func TestAdaptHealthRecord(t *testing.T) {
	got := AdaptHealthRecord(map[string]any{
		"id":               "hr1",
		"schedule_id":      "s1",
		"treatment_status": "Đang điều trị",
		"height":           170.0,
		"weight":           65.5,
		"created_at":       "2025-06-04T08:00:00Z",
	})
	if got.TreatmentStatus != "Đang điều trị" || got.Height != 170 || got.Weight != 65.5 {
		t.Errorf("unexpected health record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at was not parsed")
	}
}
