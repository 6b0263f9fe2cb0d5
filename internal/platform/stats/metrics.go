package stats

import (
	"math"
	"sort"
	"time"
)

// Rate computes round(numerator/denominator*100). A zero or negative
// denominator yields 0, never NaN or a panic; callers that need to tell
// "no data" from "genuinely 0%" must do so before calling.
func Rate(numerator, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}

// DistinctPatients counts unique patient ids across the given schedules.
// Identity is the id value, never object reference; empty ids are skipped.
func DistinctPatients(schedules []Schedule) int {
	seen := make(map[string]struct{}, len(schedules))
	for _, s := range schedules {
		if s.PatientID == "" {
			continue
		}
		seen[s.PatientID] = struct{}{}
	}
	return len(seen)
}

// NewPatients counts patients whose first-ever schedule falls inside the
// range. The first-occurrence map is built over the ENTIRE unfiltered
// history — a patient who visited before the window is not "new" even if
// they also visited during it. Dropping the full-history scan would change
// the metric's meaning, so this is a deliberate two-pass computation.
func NewPatients(history []Schedule, rng Range) int {
	earliest := make(map[string]time.Time, len(history))
	for _, s := range history {
		if s.PatientID == "" || s.Date.IsZero() {
			continue
		}
		if first, ok := earliest[s.PatientID]; !ok || s.Date.Before(first) {
			earliest[s.PatientID] = s.Date
		}
	}
	count := 0
	for _, first := range earliest {
		if rng.Contains(first) {
			count++
		}
	}
	return count
}

// DoctorPerformance is the per-doctor schedule histogram used for ranking.
type DoctorPerformance struct {
	DoctorID       string `json:"doctor_id"`
	DoctorName     string `json:"doctor_name,omitempty"`
	Waiting        int    `json:"waiting"`
	Completed      int    `json:"completed"`
	Consulted      int    `json:"consulted"`
	Absent         int    `json:"absent"`
	Cancelled      int    `json:"cancelled"`
	Unknown        int    `json:"unknown"`
	Total          int    `json:"total"`
	CompletionRate int    `json:"completion_rate"`
}

// RankDoctors partitions each doctor's schedules by canonical status and
// ranks the doctors by completed count, descending. Ties keep the order in
// which doctors first appear in the input (stable sort). When doctorID is
// non-empty the result is narrowed to that one doctor. Staff names are
// joined in when a matching StaffMember exists.
func RankDoctors(schedules []Schedule, staff []StaffMember, doctorID string) []DoctorPerformance {
	names := make(map[string]string, len(staff))
	for _, m := range staff {
		if m.Role == RoleDoctor {
			names[m.ID] = m.FullName
		}
	}

	byDoctor := make(map[string]*DoctorPerformance)
	var order []string
	for _, s := range schedules {
		if s.DoctorID == "" {
			continue
		}
		if doctorID != "" && s.DoctorID != doctorID {
			continue
		}
		perf, ok := byDoctor[s.DoctorID]
		if !ok {
			perf = &DoctorPerformance{DoctorID: s.DoctorID, DoctorName: names[s.DoctorID]}
			byDoctor[s.DoctorID] = perf
			order = append(order, s.DoctorID)
		}
		perf.Total++
		switch NormalizeStatus(s.Status, ScheduleDomain) {
		case StatusWaiting, StatusBooked:
			perf.Waiting++
		case StatusCompleted:
			perf.Completed++
		case StatusConsulted:
			perf.Consulted++
		case StatusAbsent:
			perf.Absent++
		case StatusCancelled:
			perf.Cancelled++
		default:
			perf.Unknown++
		}
	}

	out := make([]DoctorPerformance, 0, len(order))
	for _, id := range order {
		perf := byDoctor[id]
		perf.CompletionRate = Rate(perf.Completed, perf.Total)
		out = append(out, *perf)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Completed > out[j].Completed })
	return out
}

// HIVTally is the normalized result breakdown of a set of HIV test orders.
type HIVTally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Unknown  int `json:"unknown"`
}

// TallyHIVResults normalizes each order's result string and counts it.
func TallyHIVResults(orders []TestOrder) HIVTally {
	var t HIVTally
	for _, o := range orders {
		switch NormalizeStatus(o.Result, TestResultDomain) {
		case StatusPositive:
			t.Positive++
		case StatusNegative:
			t.Negative++
		default:
			t.Unknown++
		}
	}
	return t
}

// RateExcludingUnknown is positive/(positive+negative): unknown results do
// not dilute the denominator.
func (t HIVTally) RateExcludingUnknown() int {
	return Rate(t.Positive, t.Positive+t.Negative)
}

// RateIncludingUnknown counts unknown results in the denominator. Both
// variants exist in the consuming dashboards; reports name the variant they
// carry instead of silently picking one.
func (t HIVTally) RateIncludingUnknown() int {
	return Rate(t.Positive, t.Positive+t.Negative+t.Unknown)
}

// RevenueSummary aggregates a payment list. Only canonically Paid or
// Completed payments contribute to TotalRevenue; pending and failed payments
// are counted but never summed.
type RevenueSummary struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalCompleted int     `json:"total_completed"`
	TotalPending   int     `json:"total_pending"`
	TotalFailed    int     `json:"total_failed"`
	TotalUnknown   int     `json:"total_unknown"`
}

// SummarizeRevenue reduces the payment list to a RevenueSummary. A negative
// or NaN amount contributes 0 for that payment only; the payment is still
// counted in its status bucket.
func SummarizeRevenue(payments []Payment) RevenueSummary {
	var sum RevenueSummary
	for _, p := range payments {
		switch NormalizeStatus(p.Status, PaymentDomain) {
		case StatusPaid, StatusCompleted:
			sum.TotalCompleted++
			sum.TotalRevenue += paymentAmount(p)
		case StatusPending:
			sum.TotalPending++
		case StatusFailed:
			sum.TotalFailed++
		default:
			sum.TotalUnknown++
		}
	}
	return sum
}

// paymentAmount guards against negative and non-finite amounts.
func paymentAmount(p Payment) float64 {
	if p.Amount < 0 || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return 0
	}
	return p.Amount
}

// paidAmount is the bucketing weight for revenue trend buckets: only
// canonically paid payments carry their amount.
func paidAmount(p Payment) float64 {
	switch NormalizeStatus(p.Status, PaymentDomain) {
	case StatusPaid, StatusCompleted:
		return paymentAmount(p)
	}
	return 0
}
