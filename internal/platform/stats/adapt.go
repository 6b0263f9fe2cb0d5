package stats

import (
	"strconv"
	"time"
)

// The legacy backend serves loosely-shaped JSON: field names vary between
// snake_case and camelCase, dates arrive in several layouts, and amounts may
// be numbers or numeric strings. All of that is resolved here, once per
// entity kind; everything downstream assumes the canonical snapshot shape.

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseDate tries the known layouts in order. A value that parses under none
// of them yields the zero time, which downstream filters treat as "unknown
// date" and exclude — it is never coerced to now or epoch.
func parseDate(v any) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// pick returns the first present key's value.
func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// asAmount accepts JSON numbers and numeric strings; anything else, and any
// negative value, degrades to 0 rather than aborting the record.
func asAmount(v any) float64 {
	var amount float64
	switch n := v.(type) {
	case float64:
		amount = n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		amount = parsed
	default:
		return 0
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// AdaptSchedule converts one raw schedule object into its canonical snapshot.
func AdaptSchedule(raw map[string]any) Schedule {
	return Schedule{
		ID:        asString(pick(raw, "id", "scheduleId", "schedule_id")),
		Date:      parseDate(pick(raw, "date", "scheduleDate", "schedule_date")),
		Slot:      asString(pick(raw, "slot", "time_slot", "timeSlot")),
		Status:    asString(pick(raw, "status")),
		Type:      asString(pick(raw, "type", "scheduleType", "schedule_type")),
		DoctorID:  asString(pick(raw, "doctorId", "doctor_id")),
		PatientID: asString(pick(raw, "patientId", "patient_id", "userId", "user_id")),
	}
}

// AdaptHealthRecord converts one raw health record object.
func AdaptHealthRecord(raw map[string]any) HealthRecord {
	height, _ := pick(raw, "height").(float64)
	weight, _ := pick(raw, "weight").(float64)
	return HealthRecord{
		ID:              asString(pick(raw, "id", "healthRecordId", "health_record_id")),
		ScheduleID:      asString(pick(raw, "scheduleId", "schedule_id")),
		TreatmentStatus: asString(pick(raw, "treatmentStatus", "treatment_status")),
		HIVStatus:       asString(pick(raw, "hivStatus", "hiv_status")),
		BloodType:       asString(pick(raw, "bloodType", "blood_type")),
		Height:          height,
		Weight:          weight,
		CreatedAt:       parseDate(pick(raw, "createdAt", "created_at")),
	}
}

// AdaptTestOrder converts one raw test order object.
func AdaptTestOrder(raw map[string]any) TestOrder {
	return TestOrder{
		ID:             asString(pick(raw, "id", "testOrderId", "test_order_id")),
		HealthRecordID: asString(pick(raw, "healthRecordId", "health_record_id")),
		TestTypeID:     asString(pick(raw, "testTypeId", "test_type_id")),
		Result:         asString(pick(raw, "result", "testResult", "test_result")),
		PaymentStatus:  asString(pick(raw, "paymentStatus", "payment_status")),
		ResultTime:     parseDate(pick(raw, "actualResultTime", "actual_result_time", "resultTime", "result_time")),
	}
}

// AdaptPayment converts one raw payment object.
func AdaptPayment(raw map[string]any) Payment {
	return Payment{
		ID:             asString(pick(raw, "id", "paymentId", "payment_id")),
		ScheduleID:     asString(pick(raw, "scheduleId", "schedule_id")),
		HealthRecordID: asString(pick(raw, "healthRecordId", "health_record_id")),
		Amount:         asAmount(pick(raw, "amount", "total", "totalAmount", "total_amount")),
		Status:         asString(pick(raw, "status", "paymentStatus", "payment_status")),
		Description:    asString(pick(raw, "description", "note")),
		CreatedAt:      parseDate(pick(raw, "createdAt", "created_at", "paymentDate", "payment_date")),
	}
}

var roleAliases = map[string]string{
	"DOCTOR":         RoleDoctor,
	"doctor":         RoleDoctor,
	"Bác sĩ":         RoleDoctor,
	"LAB_TECHNICIAN": RoleLabTechnician,
	"STAFF":          RoleLabTechnician,
	"Nhân viên":      RoleLabTechnician,
	"MANAGER":        RoleManager,
	"manager":        RoleManager,
	"Quản lý":        RoleManager,
}

// asRole maps legacy role codes to the canonical role names; an unlisted
// code passes through unchanged.
func asRole(v any) string {
	raw := asString(v)
	if canonical, ok := roleAliases[raw]; ok {
		return canonical
	}
	return raw
}

// AdaptStaffMember converts one raw staff object.
func AdaptStaffMember(raw map[string]any) StaffMember {
	return StaffMember{
		ID:            asString(pick(raw, "id", "staffId", "staff_id", "userId", "user_id")),
		FullName:      asString(pick(raw, "fullName", "full_name", "name")),
		Role:          asRole(pick(raw, "role", "roleName", "role_name")),
		AccountStatus: asString(pick(raw, "accountStatus", "account_status", "status")),
	}
}
