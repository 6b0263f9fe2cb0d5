package analytics

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Core metric type
// ---------------------------------------------------------------------------

// RequestMetric captures a single API request's metadata for analytics.
type RequestMetric struct {
	Timestamp  time.Time     `json:"timestamp"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration"`
	UserID     string        `json:"user_id"`
}

// ---------------------------------------------------------------------------
// Internal counter types
// ---------------------------------------------------------------------------

type endpointStats struct {
	Path          string
	TotalRequests int64
	TotalErrors   int64
	TotalDuration int64 // nanoseconds
	StatusCounts  map[int]int64
	mu            sync.Mutex
}

type userStats struct {
	UserID        string
	TotalRequests int64
	TotalErrors   int64
	LastRequestAt time.Time
	mu            sync.Mutex
}

type reportStats struct {
	Kind            string
	Generated       int64
	Exported        int64
	LastGeneratedAt time.Time
	mu              sync.Mutex
}

// ---------------------------------------------------------------------------
// Summary types (returned by query methods)
// ---------------------------------------------------------------------------

// EndpointSummary provides aggregated statistics for a single API endpoint.
type EndpointSummary struct {
	Path            string        `json:"path"`
	TotalRequests   int64         `json:"total_requests"`
	ErrorRate       float64       `json:"error_rate"`
	AvgLatency      time.Duration `json:"avg_latency"`
	P95Latency      time.Duration `json:"p95_latency"`
	StatusBreakdown map[int]int64 `json:"status_breakdown"`
}

// UserSummary provides aggregated statistics for a single API user.
type UserSummary struct {
	UserID        string    `json:"user_id"`
	TotalRequests int64     `json:"total_requests"`
	ErrorRate     float64   `json:"error_rate"`
	LastSeen      time.Time `json:"last_seen"`
}

// ReportSummary provides the generation/export breakdown for one report kind.
type ReportSummary struct {
	Kind            string    `json:"kind"`
	Generated       int64     `json:"generated"`
	Exported        int64     `json:"exported"`
	Total           int64     `json:"total"`
	LastGeneratedAt time.Time `json:"last_generated_at"`
}

// UsageOverview provides a high-level summary of API usage.
type UsageOverview struct {
	TotalRequests   int64              `json:"total_requests"`
	TotalErrors     int64              `json:"total_errors"`
	ErrorRate       float64            `json:"error_rate"`
	AvgLatency      time.Duration      `json:"avg_latency"`
	UniqueUsers     int                `json:"unique_users"`
	UniqueEndpoints int                `json:"unique_endpoints"`
	TopEndpoints    []*EndpointSummary `json:"top_endpoints"`
	TopReports      []*ReportSummary   `json:"top_reports"`
}

// TimeSeriesBucket holds aggregated metrics for a single time bucket.
type TimeSeriesBucket struct {
	Timestamp    time.Time     `json:"timestamp"`
	RequestCount int64         `json:"request_count"`
	ErrorCount   int64         `json:"error_count"`
	AvgLatency   time.Duration `json:"avg_latency"`
}

// ---------------------------------------------------------------------------
// UsageTracker — the main thread-safe analytics aggregator
// ---------------------------------------------------------------------------

// UsageTracker provides thread-safe usage tracking with an append-only ring
// buffer of request metrics and per-endpoint, per-user, and per-report-kind
// counters.
type UsageTracker struct {
	metrics          []*RequestMetric
	maxMetrics       int
	writePos         int
	full             bool
	endpointCounters map[string]*endpointStats
	userCounters     map[string]*userStats
	reportCounters   map[string]*reportStats
	mu               sync.RWMutex
	totalRequests    int64
	totalErrors      int64
	totalDuration    int64 // nanoseconds
}

// NewUsageTracker creates a new UsageTracker with the given ring buffer capacity.
func NewUsageTracker(maxMetrics int) *UsageTracker {
	if maxMetrics <= 0 {
		maxMetrics = 100000
	}
	return &UsageTracker{
		metrics:          make([]*RequestMetric, 0, maxMetrics),
		maxMetrics:       maxMetrics,
		endpointCounters: make(map[string]*endpointStats),
		userCounters:     make(map[string]*userStats),
		reportCounters:   make(map[string]*reportStats),
	}
}

// Record appends a metric to the ring buffer and updates all counters.
func (ut *UsageTracker) Record(metric *RequestMetric) {
	isError := metric.StatusCode >= 400

	// Update atomic totals.
	atomic.AddInt64(&ut.totalRequests, 1)
	if isError {
		atomic.AddInt64(&ut.totalErrors, 1)
	}
	atomic.AddInt64(&ut.totalDuration, int64(metric.Duration))

	ut.mu.Lock()

	// Ring buffer insert.
	if ut.full {
		ut.metrics[ut.writePos] = metric
	} else if len(ut.metrics) < ut.maxMetrics {
		ut.metrics = append(ut.metrics, metric)
	}
	ut.writePos++
	if ut.writePos >= ut.maxMetrics {
		ut.writePos = 0
		ut.full = true
	}

	// Endpoint counters.
	ep, ok := ut.endpointCounters[metric.Path]
	if !ok {
		ep = &endpointStats{
			Path:         metric.Path,
			StatusCounts: make(map[int]int64),
		}
		ut.endpointCounters[metric.Path] = ep
	}

	// User counters.
	var us *userStats
	if metric.UserID != "" {
		us, ok = ut.userCounters[metric.UserID]
		if !ok {
			us = &userStats{UserID: metric.UserID}
			ut.userCounters[metric.UserID] = us
		}
	}

	ut.mu.Unlock()

	// Update endpoint stats (per-endpoint mutex to reduce contention).
	ep.mu.Lock()
	ep.TotalRequests++
	if isError {
		ep.TotalErrors++
	}
	ep.TotalDuration += int64(metric.Duration)
	ep.StatusCounts[metric.StatusCode]++
	ep.mu.Unlock()

	// Update user stats.
	if us != nil {
		us.mu.Lock()
		us.TotalRequests++
		if isError {
			us.TotalErrors++
		}
		us.LastRequestAt = metric.Timestamp
		us.mu.Unlock()
	}
}

// RecordReport counts one successful report generation for the given kind.
// It is called by the reporting service after a report is assembled.
func (ut *UsageTracker) RecordReport(kind string) {
	ut.recordReport(kind, false)
}

// RecordExport counts one successful report export for the given kind.
func (ut *UsageTracker) RecordExport(kind string) {
	ut.recordReport(kind, true)
}

func (ut *UsageTracker) recordReport(kind string, export bool) {
	if kind == "" {
		return
	}

	ut.mu.Lock()
	rs, ok := ut.reportCounters[kind]
	if !ok {
		rs = &reportStats{Kind: kind}
		ut.reportCounters[kind] = rs
	}
	ut.mu.Unlock()

	rs.mu.Lock()
	if export {
		rs.Exported++
	} else {
		rs.Generated++
	}
	rs.LastGeneratedAt = time.Now()
	rs.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// GetEndpointStats returns aggregated stats for a single endpoint path.
func (ut *UsageTracker) GetEndpointStats(path string) *EndpointSummary {
	ut.mu.RLock()
	ep, ok := ut.endpointCounters[path]
	ut.mu.RUnlock()
	if !ok {
		return nil
	}
	return ut.buildEndpointSummary(ep)
}

// GetUserStats returns aggregated stats for a single user.
func (ut *UsageTracker) GetUserStats(userID string) *UserSummary {
	ut.mu.RLock()
	us, ok := ut.userCounters[userID]
	ut.mu.RUnlock()
	if !ok {
		return nil
	}
	return buildUserSummary(us)
}

// GetReportStats returns the generation/export breakdown for one report kind.
func (ut *UsageTracker) GetReportStats(kind string) *ReportSummary {
	ut.mu.RLock()
	rs, ok := ut.reportCounters[kind]
	ut.mu.RUnlock()
	if !ok {
		return nil
	}
	return buildReportSummary(rs)
}

// GetReportBreakdown returns summaries for every report kind seen so far,
// sorted by total count descending.
func (ut *UsageTracker) GetReportBreakdown() []*ReportSummary {
	ut.mu.RLock()
	summaries := make([]*ReportSummary, 0, len(ut.reportCounters))
	for _, rs := range ut.reportCounters {
		summaries = append(summaries, buildReportSummary(rs))
	}
	ut.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].Kind < summaries[j].Kind
	})
	return summaries
}

// GetOverview returns a high-level usage summary.
func (ut *UsageTracker) GetOverview() *UsageOverview {
	total := atomic.LoadInt64(&ut.totalRequests)
	errors := atomic.LoadInt64(&ut.totalErrors)
	dur := atomic.LoadInt64(&ut.totalDuration)

	var errorRate float64
	if total > 0 {
		errorRate = float64(errors) / float64(total)
	}

	var avgLatency time.Duration
	if total > 0 {
		avgLatency = time.Duration(dur / total)
	}

	ut.mu.RLock()
	uniqueUsers := len(ut.userCounters)
	uniqueEndpoints := len(ut.endpointCounters)
	ut.mu.RUnlock()

	topReports := ut.GetReportBreakdown()
	if len(topReports) > 5 {
		topReports = topReports[:5]
	}

	return &UsageOverview{
		TotalRequests:   total,
		TotalErrors:     errors,
		ErrorRate:       errorRate,
		AvgLatency:      avgLatency,
		UniqueUsers:     uniqueUsers,
		UniqueEndpoints: uniqueEndpoints,
		TopEndpoints:    ut.GetTopEndpoints(5),
		TopReports:      topReports,
	}
}

// GetTopEndpoints returns the top N endpoints sorted by request count descending.
func (ut *UsageTracker) GetTopEndpoints(limit int) []*EndpointSummary {
	ut.mu.RLock()
	summaries := make([]*EndpointSummary, 0, len(ut.endpointCounters))
	for _, ep := range ut.endpointCounters {
		summaries = append(summaries, ut.buildEndpointSummary(ep))
	}
	ut.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalRequests > summaries[j].TotalRequests
	})

	if limit > len(summaries) {
		limit = len(summaries)
	}
	return summaries[:limit]
}

// GetTopUsers returns the top N users sorted by request count descending.
func (ut *UsageTracker) GetTopUsers(limit int) []*UserSummary {
	ut.mu.RLock()
	summaries := make([]*UserSummary, 0, len(ut.userCounters))
	for _, us := range ut.userCounters {
		summaries = append(summaries, buildUserSummary(us))
	}
	ut.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalRequests > summaries[j].TotalRequests
	})

	if limit > len(summaries) {
		limit = len(summaries)
	}
	return summaries[:limit]
}

// GetTimeSeries returns request counts bucketed by the given interval over the
// specified lookback duration.
func (ut *UsageTracker) GetTimeSeries(interval, duration time.Duration) []*TimeSeriesBucket {
	now := time.Now()
	start := now.Add(-duration).Truncate(interval)
	numBuckets := int(duration/interval) + 1

	buckets := make([]*TimeSeriesBucket, numBuckets)
	for i := 0; i < numBuckets; i++ {
		buckets[i] = &TimeSeriesBucket{
			Timestamp: start.Add(time.Duration(i) * interval),
		}
	}

	ut.mu.RLock()
	metricsCopy := make([]*RequestMetric, len(ut.metrics))
	copy(metricsCopy, ut.metrics)
	ut.mu.RUnlock()

	for _, m := range metricsCopy {
		if m == nil {
			continue
		}
		if m.Timestamp.Before(start) || m.Timestamp.After(now) {
			continue
		}
		idx := int(m.Timestamp.Sub(start) / interval)
		if idx < 0 || idx >= numBuckets {
			continue
		}
		buckets[idx].RequestCount++
		if m.StatusCode >= 400 {
			buckets[idx].ErrorCount++
		}
		buckets[idx].AvgLatency += m.Duration // accumulate, we'll average below
	}

	for _, b := range buckets {
		if b.RequestCount > 0 {
			b.AvgLatency = time.Duration(int64(b.AvgLatency) / b.RequestCount)
		}
	}

	return buckets
}

// GetErrorRate returns the overall error rate as a float between 0 and 1.
func (ut *UsageTracker) GetErrorRate() float64 {
	total := atomic.LoadInt64(&ut.totalRequests)
	errors := atomic.LoadInt64(&ut.totalErrors)
	if total == 0 {
		return 0
	}
	return float64(errors) / float64(total)
}

// GetAverageLatency returns the average request duration.
func (ut *UsageTracker) GetAverageLatency() time.Duration {
	total := atomic.LoadInt64(&ut.totalRequests)
	dur := atomic.LoadInt64(&ut.totalDuration)
	if total == 0 {
		return 0
	}
	return time.Duration(dur / total)
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (ut *UsageTracker) buildEndpointSummary(ep *endpointStats) *EndpointSummary {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	var errorRate float64
	if ep.TotalRequests > 0 {
		errorRate = float64(ep.TotalErrors) / float64(ep.TotalRequests)
	}

	var avgLatency time.Duration
	if ep.TotalRequests > 0 {
		avgLatency = time.Duration(ep.TotalDuration / ep.TotalRequests)
	}

	statusBreakdown := make(map[int]int64, len(ep.StatusCounts))
	for code, count := range ep.StatusCounts {
		statusBreakdown[code] = count
	}

	// P95 requires the stored metrics; we compute it from the ring buffer.
	p95 := ut.computeP95ForPath(ep.Path)

	return &EndpointSummary{
		Path:            ep.Path,
		TotalRequests:   ep.TotalRequests,
		ErrorRate:       errorRate,
		AvgLatency:      avgLatency,
		P95Latency:      p95,
		StatusBreakdown: statusBreakdown,
	}
}

func buildUserSummary(us *userStats) *UserSummary {
	us.mu.Lock()
	defer us.mu.Unlock()

	var errorRate float64
	if us.TotalRequests > 0 {
		errorRate = float64(us.TotalErrors) / float64(us.TotalRequests)
	}

	return &UserSummary{
		UserID:        us.UserID,
		TotalRequests: us.TotalRequests,
		ErrorRate:     errorRate,
		LastSeen:      us.LastRequestAt,
	}
}

func buildReportSummary(rs *reportStats) *ReportSummary {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return &ReportSummary{
		Kind:            rs.Kind,
		Generated:       rs.Generated,
		Exported:        rs.Exported,
		Total:           rs.Generated + rs.Exported,
		LastGeneratedAt: rs.LastGeneratedAt,
	}
}

func (ut *UsageTracker) computeP95ForPath(path string) time.Duration {
	ut.mu.RLock()
	var durations []time.Duration
	for _, m := range ut.metrics {
		if m != nil && m.Path == path {
			durations = append(durations, m.Duration)
		}
	}
	ut.mu.RUnlock()

	if len(durations) == 0 {
		return 0
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	idx := int(float64(len(durations)) * 0.95)
	if idx >= len(durations) {
		idx = len(durations) - 1
	}
	return durations[idx]
}

// ---------------------------------------------------------------------------
// Echo middleware
// ---------------------------------------------------------------------------

// UsageMiddleware returns Echo middleware that records every request into the
// provided UsageTracker.
func UsageMiddleware(tracker *UsageTracker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := req.URL.Path

			// Execute handler.
			err := next(c)

			duration := time.Since(start)
			statusCode := c.Response().Status

			// Extract the authenticated subject from context.
			userID := ""
			if v := c.Get("sub"); v != nil {
				if s, ok := v.(string); ok {
					userID = s
				}
			}

			tracker.Record(&RequestMetric{
				Timestamp:  start,
				Method:     req.Method,
				Path:       path,
				StatusCode: statusCode,
				Duration:   duration,
				UserID:     userID,
			})

			return err
		}
	}
}

// ---------------------------------------------------------------------------
// Echo HTTP handler
// ---------------------------------------------------------------------------

// UsageHandler provides HTTP endpoints for querying API usage analytics.
type UsageHandler struct {
	tracker *UsageTracker
}

// NewUsageHandler creates a new handler backed by the given tracker.
func NewUsageHandler(tracker *UsageTracker) *UsageHandler {
	return &UsageHandler{tracker: tracker}
}

// RegisterRoutes registers the analytics admin endpoints on the provided group.
func (h *UsageHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/analytics/overview", h.HandleOverview)
	g.GET("/analytics/endpoints", h.HandleTopEndpoints)
	g.GET("/analytics/reports", h.HandleReports)
	g.GET("/analytics/reports/:kind", h.HandleReportStats)
	g.GET("/analytics/users", h.HandleTopUsers)
	g.GET("/analytics/users/:id", h.HandleUserStats)
	g.GET("/analytics/timeseries", h.HandleTimeSeries)
}

// HandleOverview returns overall API usage statistics.
func (h *UsageHandler) HandleOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tracker.GetOverview())
}

// HandleTopEndpoints returns the top endpoints sorted by request count.
func (h *UsageHandler) HandleTopEndpoints(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return c.JSON(http.StatusOK, h.tracker.GetTopEndpoints(limit))
}

// HandleReports returns the per-kind report generation breakdown.
func (h *UsageHandler) HandleReports(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tracker.GetReportBreakdown())
}

// HandleReportStats returns stats for a specific report kind.
func (h *UsageHandler) HandleReportStats(c echo.Context) error {
	kind := c.Param("kind")
	summary := h.tracker.GetReportStats(kind)
	if summary == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report kind not found"})
	}
	return c.JSON(http.StatusOK, summary)
}

// HandleTopUsers returns the top users sorted by request count.
func (h *UsageHandler) HandleTopUsers(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return c.JSON(http.StatusOK, h.tracker.GetTopUsers(limit))
}

// HandleUserStats returns stats for a specific user.
func (h *UsageHandler) HandleUserStats(c echo.Context) error {
	id := c.Param("id")
	summary := h.tracker.GetUserStats(id)
	if summary == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, summary)
}

// HandleTimeSeries returns time-bucketed request counts.
func (h *UsageHandler) HandleTimeSeries(c echo.Context) error {
	interval := parseDurationParam(c.QueryParam("interval"), time.Minute)
	duration := parseDurationParam(c.QueryParam("duration"), time.Hour)

	return c.JSON(http.StatusOK, h.tracker.GetTimeSeries(interval, duration))
}

// parseDurationParam parses a human-friendly duration string like "1m", "5m",
// "1h", "24h", "7d" into a time.Duration.
func parseDurationParam(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}

	// Handle "d" suffix for days.
	if strings.HasSuffix(s, "d") {
		numStr := strings.TrimSuffix(s, "d")
		if n, err := strconv.Atoi(numStr); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
		return defaultVal
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
