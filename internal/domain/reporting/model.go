package reporting

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/stats"
)

// Row models mirror the clinic schema. Nullable columns are pointers; the
// ToSnapshot converters collapse them into the zero-value convention the
// aggregation engine expects (zero time = unknown date, empty string = raw
// status that normalizes to Unknown).

type ScheduleRow struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Date      *time.Time `db:"schedule_date" json:"date,omitempty"`
	Slot      *string    `db:"time_slot" json:"slot,omitempty"`
	Status    *string    `db:"status" json:"status,omitempty"`
	Type      *string    `db:"schedule_type" json:"type,omitempty"`
	DoctorID  *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *ScheduleRow) ToSnapshot() stats.Schedule {
	return stats.Schedule{
		ID:        r.ID.String(),
		Date:      derefTime(r.Date),
		Slot:      derefString(r.Slot),
		Status:    derefString(r.Status),
		Type:      derefString(r.Type),
		DoctorID:  derefUUID(r.DoctorID),
		PatientID: derefUUID(r.PatientID),
	}
}

type HealthRecordRow struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ScheduleID      *uuid.UUID `db:"schedule_id" json:"schedule_id,omitempty"`
	TreatmentStatus *string    `db:"treatment_status" json:"treatment_status,omitempty"`
	HIVStatus       *string    `db:"hiv_status" json:"hiv_status,omitempty"`
	BloodType       *string    `db:"blood_type" json:"blood_type,omitempty"`
	Height          *float64   `db:"height" json:"height,omitempty"`
	Weight          *float64   `db:"weight" json:"weight,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *HealthRecordRow) ToSnapshot() stats.HealthRecord {
	return stats.HealthRecord{
		ID:              r.ID.String(),
		ScheduleID:      derefUUID(r.ScheduleID),
		TreatmentStatus: derefString(r.TreatmentStatus),
		HIVStatus:       derefString(r.HIVStatus),
		BloodType:       derefString(r.BloodType),
		Height:          derefFloat(r.Height),
		Weight:          derefFloat(r.Weight),
		CreatedAt:       r.CreatedAt,
	}
}

type TestOrderRow struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	HealthRecordID *uuid.UUID `db:"health_record_id" json:"health_record_id,omitempty"`
	TestTypeID     *uuid.UUID `db:"test_type_id" json:"test_type_id,omitempty"`
	Result         *string    `db:"result" json:"result,omitempty"`
	PaymentStatus  *string    `db:"payment_status" json:"payment_status,omitempty"`
	ResultTime     *time.Time `db:"actual_result_time" json:"actual_result_time,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (r *TestOrderRow) ToSnapshot() stats.TestOrder {
	return stats.TestOrder{
		ID:             r.ID.String(),
		HealthRecordID: derefUUID(r.HealthRecordID),
		TestTypeID:     derefUUID(r.TestTypeID),
		Result:         derefString(r.Result),
		PaymentStatus:  derefString(r.PaymentStatus),
		ResultTime:     derefTime(r.ResultTime),
	}
}

type PaymentRow struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ScheduleID     *uuid.UUID `db:"schedule_id" json:"schedule_id,omitempty"`
	HealthRecordID *uuid.UUID `db:"health_record_id" json:"health_record_id,omitempty"`
	Amount         *float64   `db:"amount" json:"amount,omitempty"`
	Status         *string    `db:"status" json:"status,omitempty"`
	Description    *string    `db:"description" json:"description,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (r *PaymentRow) ToSnapshot() stats.Payment {
	return stats.Payment{
		ID:             r.ID.String(),
		ScheduleID:     derefUUID(r.ScheduleID),
		HealthRecordID: derefUUID(r.HealthRecordID),
		Amount:         derefFloat(r.Amount),
		Status:         derefString(r.Status),
		Description:    derefString(r.Description),
		CreatedAt:      r.CreatedAt,
	}
}

type StaffRow struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FullName      *string   `db:"full_name" json:"full_name,omitempty"`
	Role          *string   `db:"role" json:"role,omitempty"`
	AccountStatus *string   `db:"account_status" json:"account_status,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (r *StaffRow) ToSnapshot() stats.StaffMember {
	return stats.StaffMember{
		ID:            r.ID.String(),
		FullName:      derefString(r.FullName),
		Role:          derefString(r.Role),
		AccountStatus: derefString(r.AccountStatus),
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefTime(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

func derefUUID(p *uuid.UUID) string {
	if p == nil {
		return ""
	}
	return p.String()
}
