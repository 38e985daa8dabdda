// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/config"
	"github.com/nukgsz/schoolsite/internal/geoip"
	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/handler/api"
	"github.com/nukgsz/schoolsite/internal/logging"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/scheduler"
	"github.com/nukgsz/schoolsite/internal/service"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = version.DevVersion
	appGitCommit = version.Unknown
	appBuildTime = version.Unknown
)

// Request budgets of /api. Multipart uploads get the longer one, which
// also extends the connection deadlines set on the server below.
const (
	apiTimeout    = 30 * time.Second
	uploadTimeout = 10 * time.Minute
)

// staticMaxAge is the browser cache lifetime of uploaded files.
const staticMaxAge = 7 * 24 * time.Hour

// ReloadGeoIPJob picks up GeoLite2 database updates without a restart.
const ReloadGeoIPJob = "reload_geoip"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	migrateOnly := flag.Bool("migrate", false, "Apply database migrations and exit")
	forceSeed := flag.Bool("seed", false, "Seed default content even when SCHOOL_DO_SEED is off")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "schoolsite - school website API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_JWT_SECRET       Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_DB_DRIVER        sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_DB_PATH          SQLite database path (default: ./data/school.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_DB_DSN           MySQL DSN, required for the mysql driver\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_SERVER_PORT      Server port (default: 3001)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_PUBLIC_DIR       Upload root served at /uploads and /documents (default: ./public)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_ALLOWED_ORIGINS  Comma-separated CORS origins\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_ADMIN_PASSWORD   Password of the seeded admin (generated when empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_DEMO_MODE        Read-mostly demo deployment (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SCHOOL_GEOIP_DB_PATH    GeoLite2-Country database for login audit logs\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(*migrateOnly, *forceSeed); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}.WithBuildInfo()
}

func run(migrateOnly, forceSeed bool) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := buildInfo()

	logLevel, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(os.Stdout, logLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations", "driver", cfg.DBDriver)
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if migrateOnly {
		slog.Info("migrations applied")
		return nil
	}

	ctx := context.Background()
	if cfg.DoSeed || forceSeed {
		opts := store.SeedOptions{AdminUsername: cfg.AdminUsername, AdminPassword: cfg.AdminPassword}
		if err := store.Seed(ctx, db, opts); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if cfg.DemoMode {
			if err := store.SeedDemo(ctx, db); err != nil {
				return fmt.Errorf("seeding demo content: %w", err)
			}
		}
	}
	queries := store.New(db)
	sched, err := scheduler.New(queries, cfg.TokenPurgeSchedule, logger)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("GeoIP lookups disabled", "error", err)
	} else if geo.Enabled() {
		slog.Info("GeoIP database loaded", "path", cfg.GeoIPDBPath)
		if err := sched.Register(ReloadGeoIPJob, "@daily", func(context.Context) error {
			return geo.Reload()
		}); err != nil {
			return fmt.Errorf("registering GeoIP reload: %w", err)
		}
	}
	defer func() { _ = geo.Close() }()

	sched.Start()
	defer sched.Stop()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	apiHandler := api.NewHandler(db, tokens, api.Config{
		PublicDir:      cfg.PublicDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Location:       cfg.Location(),
		Development:    cfg.IsDevelopment(),
		DemoMode:       cfg.DemoMode,
		Version:        versionInfo,
		LoginProtection: middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit: cfg.LoginRate,
			IPBurst:     cfg.LoginBurst,
		}),
		Audit: service.NewLoginAuditor(geo),
	})
	if cfg.DemoMode {
		slog.Warn("demo mode enabled: deletions, user management and password changes are blocked")
	}

	r := newRouter(cfg, apiHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		slog.Info("initializing database", "driver", cfg.DBDriver, "path", cfg.DBPath)
	} else {
		slog.Info("initializing database", "driver", cfg.DBDriver)
	}

	db, err := store.NewDB(cfg.DBDriver, cfg.DataSource())
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func newRouter(cfg *config.Config, h *api.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Language)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TimeoutBudget(middleware.UploadBudget(apiTimeout, uploadTimeout)))
		h.Routes(r)
	})

	for _, dir := range []string{"uploads", "documents"} {
		prefix := "/" + dir + "/"
		root := filepath.Join(cfg.PublicDir, dir)
		r.With(middleware.StaticCache(staticMaxAge)).
			Handle(prefix+"*", http.StripPrefix(prefix, fileServer(root)))
	}

	return r
}

// fileServer serves the files below root without directory listings.
func fileServer(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			handler.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
