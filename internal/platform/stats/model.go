package stats

import "time"

// The engine consumes read-only snapshots of clinic entities. Every field
// may be absent in the source data: a zero Date means "unknown", an empty
// status string normalizes to Unknown, a missing amount is 0. Snapshots are
// never mutated by the engine.

// Schedule is one appointment booking.
type Schedule struct {
	ID        string
	Date      time.Time
	Slot      string
	Status    string // raw, normalize with ScheduleDomain
	Type      string // examination, follow-up, consultation
	DoctorID  string
	PatientID string
}

// HealthRecord is the medical record created for a completed schedule.
type HealthRecord struct {
	ID              string
	ScheduleID      string
	TreatmentStatus string
	HIVStatus       string // raw, normalize with TestResultDomain
	BloodType       string
	Height          float64
	Weight          float64
	CreatedAt       time.Time
}

// TestOrder is a lab test ordered against a health record.
type TestOrder struct {
	ID             string
	HealthRecordID string
	TestTypeID     string
	Result         string // raw, normalize with TestResultDomain
	PaymentStatus  string // raw, normalize with PaymentDomain
	ResultTime     time.Time
}

// Payment is a charge raised for a schedule or health record.
type Payment struct {
	ID             string
	ScheduleID     string
	HealthRecordID string
	Amount         float64 // negative or absent amounts are treated as 0
	Status         string  // raw, normalize with PaymentDomain
	Description    string
	CreatedAt      time.Time
}

// Staff roles.
const (
	RoleDoctor        = "Doctor"
	RoleLabTechnician = "LabTechnician"
	RoleManager       = "Manager"
)

// StaffMember is a clinic employee.
type StaffMember struct {
	ID            string
	FullName      string
	Role          string
	AccountStatus string // raw, normalize with AccountDomain
}

// Entities bundles the raw lists one report-generation cycle works over.
// Any list may be nil or empty; the assembler still produces a structurally
// complete report with zeroed sections for the missing kinds.
type Entities struct {
	Schedules     []Schedule
	HealthRecords []HealthRecord
	TestOrders    []TestOrder
	Payments      []Payment
	Staff         []StaffMember
}
