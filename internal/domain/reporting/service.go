package reporting

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/analytics"
	"github.com/clinic/clinic/internal/platform/stats"
)

type Service struct {
	source Source
	log    zerolog.Logger
	usage  *analytics.UsageTracker
}

func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{source: source, log: log}
}

// SetUsageTracker attaches an optional UsageTracker to the service.
func (s *Service) SetUsageTracker(ut *analytics.UsageTracker) {
	s.usage = ut
}

var reportKinds = map[string]stats.ReportKind{
	"staff":        stats.StaffReport,
	"appointments": stats.AppointmentReport,
	"financial":    stats.FinancialReport,
	"medical":      stats.MedicalReport,
}

// ParseReportKind maps a URL path segment to a report kind.
func ParseReportKind(raw string) (stats.ReportKind, error) {
	kind, ok := reportKinds[raw]
	if !ok {
		return "", fmt.Errorf("unknown report kind: %s", raw)
	}
	return kind, nil
}

// GenerateReport fetches the entity snapshots a kind needs and runs the
// aggregation pipeline over them. A failed entity fetch degrades to an empty
// list with a warning: one unavailable table must not take down the whole
// report, the affected sections just come back zeroed.
func (s *Service) GenerateReport(ctx context.Context, kind stats.ReportKind, filter stats.Filter) (any, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	entities := s.fetchEntities(ctx, kind)
	report, err := stats.AssembleReport(kind, entities, filter)
	if err != nil {
		return nil, err
	}
	if s.usage != nil {
		s.usage.RecordReport(string(kind))
	}
	return report, nil
}

// ExportReport generates a report and flattens it into tabular rows.
func (s *Service) ExportReport(ctx context.Context, kind stats.ReportKind, filter stats.Filter) ([]string, []stats.ExportRow, error) {
	report, err := s.GenerateReport(ctx, kind, filter)
	if err != nil {
		return nil, nil, err
	}
	columns, rows, err := stats.ToExportRows(report)
	if err != nil {
		return nil, nil, err
	}
	if s.usage != nil {
		s.usage.RecordExport(string(kind))
	}
	return columns, rows, nil
}

// DoctorRankings returns the per-doctor performance histograms for the
// filter's window, ranked by completed count.
func (s *Service) DoctorRankings(ctx context.Context, filter stats.Filter) ([]stats.DoctorPerformance, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rng, err := stats.ResolvePeriod(filter.Period, filter.Anchor)
	if err != nil {
		return nil, err
	}
	schedules := s.listSchedules(ctx)
	staff := s.listStaff(ctx)
	filtered := stats.FilterByRange(schedules, stats.ScheduleDate, &rng)
	rankings := stats.RankDoctors(filtered, staff, filter.DoctorID)
	if rankings == nil {
		rankings = []stats.DoctorPerformance{}
	}
	return rankings, nil
}

// fetchEntities loads only the lists the kind consumes. Schedules are always
// loaded in full: the appointment report's new-patient metric needs the
// complete history, not just the window.
func (s *Service) fetchEntities(ctx context.Context, kind stats.ReportKind) stats.Entities {
	var entities stats.Entities
	switch kind {
	case stats.AppointmentReport:
		entities.Schedules = s.listSchedules(ctx)
	case stats.StaffReport:
		entities.Schedules = s.listSchedules(ctx)
		entities.Staff = s.listStaff(ctx)
	case stats.FinancialReport:
		entities.Payments = s.listPayments(ctx)
	case stats.MedicalReport:
		entities.TestOrders = s.listTestOrders(ctx)
		entities.HealthRecords = s.listHealthRecords(ctx)
	}
	return entities
}

func (s *Service) listSchedules(ctx context.Context) []stats.Schedule {
	items, err := s.source.ListSchedules(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("schedules unavailable, report section will be empty")
		return nil
	}
	return items
}

func (s *Service) listHealthRecords(ctx context.Context) []stats.HealthRecord {
	items, err := s.source.ListHealthRecords(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("health records unavailable, report section will be empty")
		return nil
	}
	return items
}

func (s *Service) listTestOrders(ctx context.Context) []stats.TestOrder {
	items, err := s.source.ListTestOrders(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("test orders unavailable, report section will be empty")
		return nil
	}
	return items
}

func (s *Service) listPayments(ctx context.Context) []stats.Payment {
	items, err := s.source.ListPayments(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("payments unavailable, report section will be empty")
		return nil
	}
	return items
}

func (s *Service) listStaff(ctx context.Context) []stats.StaffMember {
	items, err := s.source.ListStaff(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("staff accounts unavailable, report section will be empty")
		return nil
	}
	return items
}
