package stats

import (
	"fmt"
	"time"
)

// ReportKind is the closed set of report shapes the assembler produces.
type ReportKind string

const (
	StaffReport       ReportKind = "StaffReport"
	AppointmentReport ReportKind = "AppointmentReport"
	FinancialReport   ReportKind = "FinancialReport"
	MedicalReport     ReportKind = "MedicalReport"
)

// Filter selects the reporting window and optionally narrows staff-scoped
// calculators to a single doctor.
type Filter struct {
	Period   Period
	Anchor   time.Time
	DoctorID string
}

// Validate fails fast on programmer errors: a missing period or anchor is a
// malformed call, not a data-quality condition to degrade over.
func (f Filter) Validate() error {
	if f.Period == "" {
		return fmt.Errorf("filter period is required")
	}
	if !f.Period.Valid() {
		return fmt.Errorf("unknown period %q", f.Period)
	}
	if f.Anchor.IsZero() {
		return fmt.Errorf("filter anchor date is required")
	}
	return nil
}

// Visit kind keys used for bucket classification sub-counts.
const (
	VisitExamination  = "examination"
	VisitFollowUp     = "followUp"
	VisitConsultation = "consultation"
)

var visitKinds = map[string]string{
	"Khám mới":     VisitExamination,
	"EXAMINATION":  VisitExamination,
	"examination":  VisitExamination,
	"Tái khám":     VisitFollowUp,
	"FOLLOW_UP":    VisitFollowUp,
	"follow-up":    VisitFollowUp,
	"followUp":     VisitFollowUp,
	"Tư vấn":       VisitConsultation,
	"CONSULTATION": VisitConsultation,
	"consultation": VisitConsultation,
}

// visitKind maps a schedule's raw type to its classification key, or "" when
// the type is absent or unrecognized (the record still counts in the bucket
// total).
func visitKind(s Schedule) string {
	return visitKinds[s.Type]
}

// AppointmentReportShape is the stable output of the AppointmentReport kind.
// Completion and cancellation rates use the full filtered schedule count as
// denominator, Unknown statuses included.
type AppointmentReportShape struct {
	Period           Period    `json:"period"`
	RangeStart       time.Time `json:"range_start"`
	RangeEnd         time.Time `json:"range_end"`
	TotalSchedules   int       `json:"total_schedules"`
	Booked           int       `json:"booked"`
	Waiting          int       `json:"waiting"`
	Completed        int       `json:"completed"`
	Consulted        int       `json:"consulted"`
	Absent           int       `json:"absent"`
	Cancelled        int       `json:"cancelled"`
	Unknown          int       `json:"unknown"`
	CompletionRate   int       `json:"completion_rate"`
	CancellationRate int       `json:"cancellation_rate"`
	UniquePatients   int       `json:"unique_patients"`
	NewPatients      int       `json:"new_patients"`
	Buckets          []Bucket  `json:"buckets"`
}

// StaffReportShape is the stable output of the StaffReport kind.
type StaffReportShape struct {
	Period         Period              `json:"period"`
	RangeStart     time.Time           `json:"range_start"`
	RangeEnd       time.Time           `json:"range_end"`
	TotalStaff     int                 `json:"total_staff"`
	Doctors        int                 `json:"doctors"`
	LabTechnicians int                 `json:"lab_technicians"`
	Managers       int                 `json:"managers"`
	ActiveStaff    int                 `json:"active_staff"`
	InactiveStaff  int                 `json:"inactive_staff"`
	UnknownStatus  int                 `json:"unknown_status"`
	Rankings       []DoctorPerformance `json:"rankings"`
}

// FinancialReportShape is the stable output of the FinancialReport kind.
// Bucket amounts carry only canonically paid revenue.
type FinancialReportShape struct {
	Period     Period    `json:"period"`
	RangeStart time.Time `json:"range_start"`
	RangeEnd   time.Time `json:"range_end"`
	RevenueSummary
	Buckets []Bucket `json:"buckets"`
}

// MedicalReportShape is the stable output of the MedicalReport kind.
// PositivityRate excludes unknown results from the denominator;
// PositivityRateAll includes them. Both variants are carried side by side.
type MedicalReportShape struct {
	Period            Period         `json:"period"`
	RangeStart        time.Time      `json:"range_start"`
	RangeEnd          time.Time      `json:"range_end"`
	TotalOrders       int            `json:"total_orders"`
	HIVTally
	PositivityRate    int            `json:"positivity_rate"`
	PositivityRateAll int            `json:"positivity_rate_all"`
	PaidOrders        int            `json:"paid_orders"`
	UnpaidOrders      int            `json:"unpaid_orders"`
	TreatmentStatuses map[string]int `json:"treatment_statuses"`
	Buckets           []Bucket       `json:"buckets"`
}

// AssembleReport runs the fixed pipeline — normalize, filter by range,
// bucket, per-kind calculators — over read-only entity snapshots and returns
// the report shape for the kind. It is a pure function: identical inputs
// produce deeply-equal outputs and the inputs are never mutated. Empty entity
// lists yield a structurally complete, zero-valued report.
func AssembleReport(kind ReportKind, entities Entities, filter Filter) (any, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rng, err := ResolvePeriod(filter.Period, filter.Anchor)
	if err != nil {
		return nil, err
	}

	switch kind {
	case AppointmentReport:
		return assembleAppointmentReport(entities, filter, rng), nil
	case StaffReport:
		return assembleStaffReport(entities, filter, rng), nil
	case FinancialReport:
		return assembleFinancialReport(entities, filter, rng), nil
	case MedicalReport:
		return assembleMedicalReport(entities, filter, rng), nil
	}
	return nil, fmt.Errorf("unknown report kind %q", kind)
}

func assembleAppointmentReport(entities Entities, filter Filter, rng Range) *AppointmentReportShape {
	schedules := entities.Schedules
	if filter.DoctorID != "" {
		narrowed := make([]Schedule, 0, len(schedules))
		for _, s := range schedules {
			if s.DoctorID == filter.DoctorID {
				narrowed = append(narrowed, s)
			}
		}
		schedules = narrowed
	}
	filtered := FilterByRange(schedules, ScheduleDate, &rng)

	report := &AppointmentReportShape{
		Period:     filter.Period,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
	}
	for _, s := range filtered {
		report.TotalSchedules++
		switch NormalizeStatus(s.Status, ScheduleDomain) {
		case StatusBooked:
			report.Booked++
		case StatusWaiting:
			report.Waiting++
		case StatusCompleted:
			report.Completed++
		case StatusConsulted:
			report.Consulted++
		case StatusAbsent:
			report.Absent++
		case StatusCancelled:
			report.Cancelled++
		default:
			report.Unknown++
		}
	}
	report.CompletionRate = Rate(report.Completed, report.TotalSchedules)
	report.CancellationRate = Rate(report.Cancelled, report.TotalSchedules)
	report.UniquePatients = DistinctPatients(filtered)
	report.NewPatients = NewPatients(schedules, rng)
	report.Buckets = bucketSchedules(filtered, filter.Period, filter.Anchor)
	return report
}

func bucketSchedules(filtered []Schedule, period Period, anchor time.Time) []Bucket {
	switch period {
	case PeriodMonth:
		return BucketByDayOfMonth(filtered, ScheduleDate, visitKind, nil, anchor)
	case PeriodQuarter:
		return BucketByMonthOfQuarter(filtered, ScheduleDate, visitKind, nil, anchor)
	default:
		return BucketByQuarterOfYear(filtered, ScheduleDate, visitKind, nil, anchor)
	}
}

func assembleStaffReport(entities Entities, filter Filter, rng Range) *StaffReportShape {
	report := &StaffReportShape{
		Period:     filter.Period,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
	}
	for _, m := range entities.Staff {
		report.TotalStaff++
		switch m.Role {
		case RoleDoctor:
			report.Doctors++
		case RoleLabTechnician:
			report.LabTechnicians++
		case RoleManager:
			report.Managers++
		}
		switch NormalizeStatus(m.AccountStatus, AccountDomain) {
		case StatusActive:
			report.ActiveStaff++
		case StatusInactive:
			report.InactiveStaff++
		default:
			report.UnknownStatus++
		}
	}
	filtered := FilterByRange(entities.Schedules, ScheduleDate, &rng)
	report.Rankings = RankDoctors(filtered, entities.Staff, filter.DoctorID)
	if report.Rankings == nil {
		report.Rankings = []DoctorPerformance{}
	}
	return report
}

func assembleFinancialReport(entities Entities, filter Filter, rng Range) *FinancialReportShape {
	filtered := FilterByRange(entities.Payments, PaymentDate, &rng)
	report := &FinancialReportShape{
		Period:         filter.Period,
		RangeStart:     rng.Start,
		RangeEnd:       rng.End,
		RevenueSummary: SummarizeRevenue(filtered),
	}
	switch filter.Period {
	case PeriodMonth:
		report.Buckets = BucketByDayOfMonth(filtered, PaymentDate, nil, paidAmount, filter.Anchor)
	case PeriodQuarter:
		report.Buckets = BucketByMonthOfQuarter(filtered, PaymentDate, nil, paidAmount, filter.Anchor)
	default:
		report.Buckets = BucketByQuarterOfYear(filtered, PaymentDate, nil, paidAmount, filter.Anchor)
	}
	return report
}

func assembleMedicalReport(entities Entities, filter Filter, rng Range) *MedicalReportShape {
	filtered := FilterByRange(entities.TestOrders, TestOrderDate, &rng)
	tally := TallyHIVResults(filtered)

	report := &MedicalReportShape{
		Period:            filter.Period,
		RangeStart:        rng.Start,
		RangeEnd:          rng.End,
		TotalOrders:       len(filtered),
		HIVTally:          tally,
		PositivityRate:    tally.RateExcludingUnknown(),
		PositivityRateAll: tally.RateIncludingUnknown(),
		TreatmentStatuses: map[string]int{},
	}
	for _, o := range filtered {
		switch NormalizeStatus(o.PaymentStatus, PaymentDomain) {
		case StatusPaid, StatusCompleted:
			report.PaidOrders++
		default:
			report.UnpaidOrders++
		}
	}
	records := FilterByRange(entities.HealthRecords, HealthRecordDate, &rng)
	for _, r := range records {
		if r.TreatmentStatus == "" {
			continue
		}
		report.TreatmentStatuses[r.TreatmentStatus]++
	}
	switch filter.Period {
	case PeriodMonth:
		report.Buckets = BucketByDayOfMonth(filtered, TestOrderDate, nil, nil, filter.Anchor)
	case PeriodQuarter:
		report.Buckets = BucketByMonthOfQuarter(filtered, TestOrderDate, nil, nil, filter.Anchor)
	default:
		report.Buckets = BucketByQuarterOfYear(filtered, TestOrderDate, nil, nil, filter.Anchor)
	}
	return report
}
