package reporting

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/stats"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports", auth.RequireRole("admin", "manager"))
	g.GET("/staff/doctors", h.ListDoctorRankings)
	g.GET("/:kind", h.GetReport)
	g.GET("/:kind/export", h.ExportReport)
}

// filterFromQuery builds the report filter from query parameters. Period
// defaults to month and the anchor to today; an explicit bad value still
// fails.
func filterFromQuery(c echo.Context) (stats.Filter, error) {
	filter := stats.Filter{
		Period:   stats.PeriodMonth,
		Anchor:   time.Now(),
		DoctorID: c.QueryParam("doctor_id"),
	}
	if p := c.QueryParam("period"); p != "" {
		filter.Period = stats.Period(p)
	}
	if d := c.QueryParam("date"); d != "" {
		anchor, err := parseAnchor(d)
		if err != nil {
			return stats.Filter{}, err
		}
		filter.Anchor = anchor
	}
	return filter, filter.Validate()
}

func parseAnchor(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}

func (h *Handler) GetReport(c echo.Context) error {
	kind, err := ParseReportKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.GenerateReport(c.Request().Context(), kind, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ExportReport(c echo.Context) error {
	kindRaw := c.Param("kind")
	kind, err := ParseReportKind(kindRaw)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	columns, rows, err := h.svc.ExportReport(c.Request().Context(), kind, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := fmt.Sprintf("%s-report-%s.csv", kindRaw, filter.Anchor.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatCell(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.2f", n)
	}
	return fmt.Sprint(v)
}

func (h *Handler) ListDoctorRankings(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rankings, err := h.svc.DoctorRankings(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pg := pagination.FromContext(c)
	total := len(rankings)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rankings[start:end], total, pg.Limit, pg.Offset))
}
