package stats

import "testing"

func TestNormalizeStatus_ScheduleVietnamese(t *testing.T) {
	if got := NormalizeStatus("Đã đặt", ScheduleDomain); got != StatusBooked {
		t.Errorf("expected Booked, got %s", got)
	}
	if got := NormalizeStatus("Hoàn thành", ScheduleDomain); got != StatusCompleted {
		t.Errorf("expected Completed, got %s", got)
	}
	if got := NormalizeStatus("Đã hủy", ScheduleDomain); got != StatusCancelled {
		t.Errorf("expected Cancelled, got %s", got)
	}
}

func TestNormalizeStatus_ScheduleLegacyCodes(t *testing.T) {
	for _, raw := range []string{"ACTIVE", "BOOKED", "booked", "Đang hoạt động"} {
		if got := NormalizeStatus(raw, ScheduleDomain); got != StatusBooked {
			t.Errorf("NormalizeStatus(%q) = %s, expected Booked", raw, got)
		}
	}
	if got := NormalizeStatus("COMPLETED", ScheduleDomain); got != StatusCompleted {
		t.Errorf("expected Completed, got %s", got)
	}
}

func TestNormalizeStatus_UnmappedReturnsUnknown(t *testing.T) {
	if got := NormalizeStatus("weird-status", ScheduleDomain); got != StatusUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
	// matching is case-sensitive: only the enumerated variants map
	if got := NormalizeStatus("Booked", ScheduleDomain); got != StatusUnknown {
		t.Errorf("expected Unknown for non-enumerated casing, got %s", got)
	}
	if got := NormalizeStatus("", PaymentDomain); got != StatusUnknown {
		t.Errorf("expected Unknown for empty string, got %s", got)
	}
}

func TestNormalizeStatus_PaymentDomain(t *testing.T) {
	if got := NormalizeStatus("Chờ thanh toán", PaymentDomain); got != StatusPending {
		t.Errorf("expected Pending, got %s", got)
	}
	if got := NormalizeStatus("Đã thanh toán", PaymentDomain); got != StatusPaid {
		t.Errorf("expected Paid, got %s", got)
	}
	if got := NormalizeStatus("FAILED", PaymentDomain); got != StatusFailed {
		t.Errorf("expected Failed, got %s", got)
	}
}

func TestNormalizeStatus_DomainsDoNotLeak(t *testing.T) {
	// "Chờ thanh toán" is a payment status; in the schedule domain it is Unknown.
	if got := NormalizeStatus("Chờ thanh toán", ScheduleDomain); got != StatusUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
}

func TestNormalizeStatus_AccountAndTestResult(t *testing.T) {
	if got := NormalizeStatus("Đang hoạt động", AccountDomain); got != StatusActive {
		t.Errorf("expected Active, got %s", got)
	}
	if got := NormalizeStatus("LOCKED", AccountDomain); got != StatusInactive {
		t.Errorf("expected Inactive, got %s", got)
	}
	if got := NormalizeStatus("Dương tính", TestResultDomain); got != StatusPositive {
		t.Errorf("expected Positive, got %s", got)
	}
	if got := NormalizeStatus("Âm tính", TestResultDomain); got != StatusNegative {
		t.Errorf("expected Negative, got %s", got)
	}
}
