package reporting

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/stats"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// sourcePG reads entity snapshots from Postgres. The engine does its own
// range filtering (new-patient detection needs the full schedule history), so
// every list is an unfiltered table scan ordered by creation time.
type sourcePG struct{ pool *pgxpool.Pool }

func NewSourcePG(pool *pgxpool.Pool) Source { return &sourcePG{pool: pool} }

func (r *sourcePG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const scheduleCols = `id, schedule_date, time_slot, status, schedule_type, doctor_id, patient_id, created_at, updated_at`

func (r *sourcePG) ListSchedules(ctx context.Context) ([]stats.Schedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+scheduleCols+` FROM schedule ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []stats.Schedule
	for rows.Next() {
		var s ScheduleRow
		if err := rows.Scan(&s.ID, &s.Date, &s.Slot, &s.Status, &s.Type, &s.DoctorID, &s.PatientID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s.ToSnapshot())
	}
	return items, rows.Err()
}

const healthRecordCols = `id, schedule_id, treatment_status, hiv_status, blood_type, height, weight, created_at, updated_at`

func (r *sourcePG) ListHealthRecords(ctx context.Context) ([]stats.HealthRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+healthRecordCols+` FROM health_record ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []stats.HealthRecord
	for rows.Next() {
		var hr HealthRecordRow
		if err := rows.Scan(&hr.ID, &hr.ScheduleID, &hr.TreatmentStatus, &hr.HIVStatus, &hr.BloodType, &hr.Height, &hr.Weight, &hr.CreatedAt, &hr.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, hr.ToSnapshot())
	}
	return items, rows.Err()
}

const testOrderCols = `id, health_record_id, test_type_id, result, payment_status, actual_result_time, created_at`

func (r *sourcePG) ListTestOrders(ctx context.Context) ([]stats.TestOrder, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+testOrderCols+` FROM test_order ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []stats.TestOrder
	for rows.Next() {
		var o TestOrderRow
		if err := rows.Scan(&o.ID, &o.HealthRecordID, &o.TestTypeID, &o.Result, &o.PaymentStatus, &o.ResultTime, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o.ToSnapshot())
	}
	return items, rows.Err()
}

const paymentCols = `id, schedule_id, health_record_id, amount, status, description, created_at`

func (r *sourcePG) ListPayments(ctx context.Context) ([]stats.Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+paymentCols+` FROM payment ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []stats.Payment
	for rows.Next() {
		var p PaymentRow
		if err := rows.Scan(&p.ID, &p.ScheduleID, &p.HealthRecordID, &p.Amount, &p.Status, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p.ToSnapshot())
	}
	return items, rows.Err()
}

const staffCols = `id, full_name, role, account_status, created_at`

func (r *sourcePG) ListStaff(ctx context.Context) ([]stats.StaffMember, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM staff_account ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []stats.StaffMember
	for rows.Next() {
		var m StaffRow
		if err := rows.Scan(&m.ID, &m.FullName, &m.Role, &m.AccountStatus, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m.ToSnapshot())
	}
	return items, rows.Err()
}
