package reporting

import (
	"context"

	"github.com/clinic/clinic/internal/platform/stats"
)

// Source supplies the entity snapshots one report-generation cycle works
// over. Two implementations exist: the Postgres repository and the legacy
// backend REST client; the service treats them identically.
type Source interface {
	ListSchedules(ctx context.Context) ([]stats.Schedule, error)
	ListHealthRecords(ctx context.Context) ([]stats.HealthRecord, error)
	ListTestOrders(ctx context.Context) ([]stats.TestOrder, error)
	ListPayments(ctx context.Context) ([]stats.Payment, error)
	ListStaff(ctx context.Context) ([]stats.StaffMember, error)
}
