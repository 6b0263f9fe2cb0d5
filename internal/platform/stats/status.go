package stats

// Status is one member of the closed canonical set all raw status strings
// normalize to. The raw vocabulary mixes Vietnamese display strings and
// legacy uppercase/lowercase English codes; matching is by explicit
// enumeration, never fuzzy.
type Status string

const (
	StatusBooked    Status = "Booked"
	StatusWaiting   Status = "Waiting"
	StatusCompleted Status = "Completed"
	StatusConsulted Status = "Consulted"
	StatusAbsent    Status = "Absent"
	StatusCancelled Status = "Cancelled"

	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusFailed  Status = "Failed"

	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"

	StatusPositive Status = "Positive"
	StatusNegative Status = "Negative"

	StatusUnknown Status = "Unknown"
)

// StatusDomain selects which synonym table applies to a raw status string.
type StatusDomain int

const (
	ScheduleDomain StatusDomain = iota
	PaymentDomain
	AccountDomain
	TestResultDomain
)

var scheduleSynonyms = map[string]Status{
	"Đã đặt":        StatusBooked,
	"Đang hoạt động": StatusBooked,
	"ACTIVE":        StatusBooked,
	"BOOKED":        StatusBooked,
	"booked":        StatusBooked,
	"Chờ khám":      StatusWaiting,
	"WAITING":       StatusWaiting,
	"waiting":       StatusWaiting,
	"Hoàn thành":    StatusCompleted,
	"COMPLETED":     StatusCompleted,
	"completed":     StatusCompleted,
	"Đã tư vấn":     StatusConsulted,
	"CONSULTED":     StatusConsulted,
	"consulted":     StatusConsulted,
	"Vắng mặt":      StatusAbsent,
	"ABSENT":        StatusAbsent,
	"absent":        StatusAbsent,
	"Hủy":           StatusCancelled,
	"Đã hủy":        StatusCancelled,
	"CANCELLED":     StatusCancelled,
	"cancelled":     StatusCancelled,
}

var paymentSynonyms = map[string]Status{
	"Chờ thanh toán": StatusPending,
	"PENDING":        StatusPending,
	"pending":        StatusPending,
	"Đã thanh toán":  StatusPaid,
	"PAID":           StatusPaid,
	"paid":           StatusPaid,
	"Hoàn thành":     StatusCompleted,
	"COMPLETED":      StatusCompleted,
	"completed":      StatusCompleted,
	"Thất bại":       StatusFailed,
	"FAILED":         StatusFailed,
	"failed":         StatusFailed,
}

var accountSynonyms = map[string]Status{
	"Đang hoạt động":  StatusActive,
	"ACTIVE":          StatusActive,
	"active":          StatusActive,
	"Ngừng hoạt động": StatusInactive,
	"INACTIVE":        StatusInactive,
	"inactive":        StatusInactive,
	"LOCKED":          StatusInactive,
	"Khóa":            StatusInactive,
}

var testResultSynonyms = map[string]Status{
	"Dương tính": StatusPositive,
	"POSITIVE":   StatusPositive,
	"positive":   StatusPositive,
	"Âm tính":    StatusNegative,
	"NEGATIVE":   StatusNegative,
	"negative":   StatusNegative,
}

var synonymTables = map[StatusDomain]map[string]Status{
	ScheduleDomain:   scheduleSynonyms,
	PaymentDomain:    paymentSynonyms,
	AccountDomain:    accountSynonyms,
	TestResultDomain: testResultSynonyms,
}

// NormalizeStatus maps a raw status string to its canonical value for the
// given domain. Anything outside the synonym table returns StatusUnknown;
// callers must branch on Unknown explicitly rather than folding it into a
// default bucket.
func NormalizeStatus(raw string, domain StatusDomain) Status {
	table, ok := synonymTables[domain]
	if !ok {
		return StatusUnknown
	}
	if s, ok := table[raw]; ok {
		return s
	}
	return StatusUnknown
}
