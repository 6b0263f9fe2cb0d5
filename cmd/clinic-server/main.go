package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/reporting"
	"github.com/clinic/clinic/internal/platform/analytics"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/backend"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/metrics"
	"github.com/clinic/clinic/internal/platform/middleware"
	"github.com/clinic/clinic/internal/platform/openapi"
	"github.com/clinic/clinic/internal/platform/stats"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic statistics and reporting server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the reporting API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report once and write it to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			kindRaw, _ := cmd.Flags().GetString("kind")
			period, _ := cmd.Flags().GetString("period")
			date, _ := cmd.Flags().GetString("date")
			doctorID, _ := cmd.Flags().GetString("doctor")
			format, _ := cmd.Flags().GetString("format")

			kind, err := reporting.ParseReportKind(kindRaw)
			if err != nil {
				return err
			}
			filter, err := buildFilter(period, date, doctorID)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

			ctx := context.Background()
			var pool *pgxpool.Pool
			if cfg.DataSource == config.SourcePostgres {
				pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
				if err != nil {
					return err
				}
				defer pool.Close()
			}

			svc := reporting.NewService(newSource(cfg, pool), logger)

			switch format {
			case "json":
				report, err := svc.GenerateReport(ctx, kind, filter)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "csv":
				columns, rows, err := svc.ExportReport(ctx, kind, filter)
				if err != nil {
					return err
				}
				return writeCSV(os.Stdout, columns, rows)
			default:
				return fmt.Errorf("unknown format %q, expected json or csv", format)
			}
		},
	}
	cmd.Flags().String("kind", "appointments", "Report kind: staff, appointments, financial or medical")
	cmd.Flags().String("period", string(stats.PeriodMonth), "Reporting period: month, quarter or year")
	cmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().String("doctor", "", "Restrict to a single doctor ID")
	cmd.Flags().String("format", "json", "Output format: json or csv")
	return cmd
}

// buildFilter assembles the report filter from CLI flags. An empty date
// anchors the report on today.
func buildFilter(period, date, doctorID string) (stats.Filter, error) {
	filter := stats.Filter{
		Period:   stats.Period(period),
		Anchor:   time.Now(),
		DoctorID: doctorID,
	}
	if date != "" {
		anchor, err := time.Parse("2006-01-02", date)
		if err != nil {
			return stats.Filter{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
		filter.Anchor = anchor
	}
	return filter, filter.Validate()
}

func writeCSV(out io.Writer, columns []string, rows []stats.ExportRow) error {
	w := csv.NewWriter(out)
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

// newSource picks the entity source the reports read from. The pool may be
// nil when the backend source is selected.
func newSource(cfg *config.Config, pool *pgxpool.Pool) reporting.Source {
	if cfg.DataSource == config.SourceBackend {
		return backend.NewClient(cfg.BackendAPIURL, cfg.BackendAPIKey)
	}
	return reporting.NewSourcePG(pool)
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database (only the Postgres source needs a pool)
	ctx := context.Background()
	var pool *pgxpool.Pool
	if cfg.DataSource == config.SourcePostgres {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
	} else {
		logger.Info().Str("url", cfg.BackendAPIURL).Msg("reading entities from backend API")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(auth.AuthSkipper))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	// Per-request database connection
	if pool != nil {
		e.Use(db.ConnMiddleware(pool))
	}

	// Usage analytics
	tracker := analytics.NewUsageTracker(cfg.UsageBuffer)
	e.Use(analytics.UsageMiddleware(tracker))

	// Prometheus metrics
	metricsProvider := metrics.NewProvider(metrics.Config{
		ServiceName:    "clinic-server",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Env,
	})
	e.Use(metricsProvider.Middleware())
	e.GET("/metrics", metricsProvider.PrometheusHandler())
	if pool != nil {
		metricsProvider.StartPoolCollector(pool)
	}
	defer metricsProvider.Shutdown(ctx)

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Report routes
	svc := reporting.NewService(newSource(cfg, pool), logger)
	svc.SetUsageTracker(tracker)
	reportHandler := reporting.NewHandler(svc)
	reportHandler.RegisterRoutes(apiV1)

	// API documentation
	specGen := openapi.NewGenerator("0.1.0", "http://localhost:"+cfg.Port)
	specGen.RegisterRoutes(apiV1)

	// Usage analytics routes, admin only
	adminGroup := apiV1.Group("/admin", auth.RequireRole("admin"))
	usageHandler := analytics.NewUsageHandler(tracker)
	usageHandler.RegisterRoutes(adminGroup)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
