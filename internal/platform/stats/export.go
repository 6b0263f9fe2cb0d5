package stats

import "fmt"

// ExportRow is one flat row of an exported report.
type ExportRow = map[string]any

// ToExportRows flattens a report shape into tabular rows with fixed,
// human-readable column names, for CSV/spreadsheet sinks. The column slice
// fixes the header order (rows are maps and carry no order of their own).
// The input report is never mutated; this is purely a presentation transform.
func ToExportRows(report any) ([]string, []ExportRow, error) {
	switch r := report.(type) {
	case *AppointmentReportShape:
		return appointmentRows(r)
	case *StaffReportShape:
		return staffRows(r)
	case *FinancialReportShape:
		return financialRows(r)
	case *MedicalReportShape:
		return medicalRows(r)
	}
	return nil, nil, fmt.Errorf("unsupported report shape %T", report)
}

func appointmentRows(r *AppointmentReportShape) ([]string, []ExportRow, error) {
	columns := []string{"Period", "Total Appointments", "Examinations", "Follow-ups", "Consultations"}
	rows := make([]ExportRow, 0, len(r.Buckets)+1)
	for _, b := range r.Buckets {
		rows = append(rows, ExportRow{
			"Period":             b.Label,
			"Total Appointments": b.Total,
			"Examinations":       b.Kinds[VisitExamination],
			"Follow-ups":         b.Kinds[VisitFollowUp],
			"Consultations":      b.Kinds[VisitConsultation],
		})
	}
	rows = append(rows, ExportRow{
		"Period":             "Total",
		"Total Appointments": r.TotalSchedules,
		"Examinations":       sumKind(r.Buckets, VisitExamination),
		"Follow-ups":         sumKind(r.Buckets, VisitFollowUp),
		"Consultations":      sumKind(r.Buckets, VisitConsultation),
	})
	return columns, rows, nil
}

func sumKind(buckets []Bucket, kind string) int {
	total := 0
	for _, b := range buckets {
		total += b.Kinds[kind]
	}
	return total
}

func staffRows(r *StaffReportShape) ([]string, []ExportRow, error) {
	columns := []string{"Doctor", "Waiting", "Completed", "Consulted", "Absent", "Total", "Completion Rate (%)"}
	rows := make([]ExportRow, 0, len(r.Rankings))
	for _, perf := range r.Rankings {
		name := perf.DoctorName
		if name == "" {
			name = perf.DoctorID
		}
		rows = append(rows, ExportRow{
			"Doctor":              name,
			"Waiting":             perf.Waiting,
			"Completed":           perf.Completed,
			"Consulted":           perf.Consulted,
			"Absent":              perf.Absent,
			"Total":               perf.Total,
			"Completion Rate (%)": perf.CompletionRate,
		})
	}
	return columns, rows, nil
}

func financialRows(r *FinancialReportShape) ([]string, []ExportRow, error) {
	columns := []string{"Period", "Payments", "Revenue"}
	rows := make([]ExportRow, 0, len(r.Buckets)+1)
	for _, b := range r.Buckets {
		rows = append(rows, ExportRow{
			"Period":   b.Label,
			"Payments": b.Total,
			"Revenue":  b.Amount,
		})
	}
	rows = append(rows, ExportRow{
		"Period":   "Total",
		"Payments": r.TotalCompleted + r.TotalPending + r.TotalFailed + r.TotalUnknown,
		"Revenue":  r.TotalRevenue,
	})
	return columns, rows, nil
}

func medicalRows(r *MedicalReportShape) ([]string, []ExportRow, error) {
	columns := []string{"Indicator", "Value"}
	rows := []ExportRow{
		{"Indicator": "Total Test Orders", "Value": r.TotalOrders},
		{"Indicator": "Positive Results", "Value": r.Positive},
		{"Indicator": "Negative Results", "Value": r.Negative},
		{"Indicator": "Unknown Results", "Value": r.Unknown},
		{"Indicator": "Positivity Rate excl. Unknown (%)", "Value": r.PositivityRate},
		{"Indicator": "Positivity Rate incl. Unknown (%)", "Value": r.PositivityRateAll},
		{"Indicator": "Paid Orders", "Value": r.PaidOrders},
		{"Indicator": "Unpaid Orders", "Value": r.UnpaidOrders},
	}
	return columns, rows, nil
}
