package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/firstclassrl/pixel-pdf-service/app/controller"
	"github.com/firstclassrl/pixel-pdf-service/app/router"
	"github.com/firstclassrl/pixel-pdf-service/assets"
	"github.com/firstclassrl/pixel-pdf-service/config"
	"github.com/firstclassrl/pixel-pdf-service/db"
	"github.com/firstclassrl/pixel-pdf-service/httpclient"
	"github.com/firstclassrl/pixel-pdf-service/notify"
	"github.com/firstclassrl/pixel-pdf-service/repository"
	"github.com/firstclassrl/pixel-pdf-service/service"
	"github.com/firstclassrl/pixel-pdf-service/storage"
)

const shutdownTimeout = 15 * time.Second

// App owns the wired service graph and the HTTP server.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	db     *sql.DB
}

// New wires the application from configuration. Storage, webhook and audit
// log are optional; the inline render path works with none of them.
func New(ctx context.Context, cfg *config.Config, l *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: l}

	store, err := a.buildStorage(ctx)
	if err != nil {
		return nil, err
	}

	var notifier *notify.WebhookNotifier
	if cfg.WebhookURL != "" {
		breaker := httpclient.NewBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultBreakerConfig("pdf-webhook"),
			l,
		)
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, breaker, l)
	}

	var renderLog repository.RenderLogRepository
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			// The audit log is best effort end to end; a dead database
			// must not block PDF generation.
			l.Warn("audit database unavailable, render log disabled",
				slog.String("error", err.Error()))
		} else {
			a.db = conn
			renderLog = repository.NewPostgresRenderLog(conn)
		}
	}

	logo := assets.LoadLogo(cfg.LogoPath, l)
	renderer := service.NewBrowserRenderer(cfg.ChromePath, l)
	pdfService := service.NewPDFService(renderer, store, notifier, renderLog, logo, cfg.AssetBaseURL, cfg.DefaultBucket, l)

	controllers := &router.Controllers{
		PDF:    controller.NewPDFController(pdfService),
		Health: controller.NewHealthController(a.healthChecks()),
	}

	a.server = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort),
		Handler:           router.New(controllers, l),
		ReadHeaderTimeout: 10 * time.Second,
		// Renders can legitimately take tens of seconds.
		WriteTimeout: 2 * time.Minute,
	}

	return a, nil
}

// buildStorage selects the configured backend. Missing credentials leave
// storage nil so upload-mode requests fail fast with a clear error.
func (a *App) buildStorage(ctx context.Context) (storage.Storage, error) {
	if !a.cfg.StorageConfigured() {
		a.logger.Warn("storage backend not configured, upload mode disabled",
			slog.String("backend", a.cfg.StorageBackend))
		return nil, nil
	}

	switch a.cfg.StorageBackend {
	case "supabase":
		client := httpclient.New(httpclient.DefaultConfig())
		return storage.NewSupabaseStorage(a.cfg.SupabaseURL, a.cfg.SupabaseServiceKey, client, a.logger), nil
	case "drive":
		return storage.NewDriveStorage(ctx, a.cfg.GoogleCredentials, a.cfg.DriveParentFolderID, a.logger)
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.cfg.StorageBackend)
}

func (a *App) healthChecks() map[string]controller.HealthChecker {
	checks := map[string]controller.HealthChecker{
		"chrome": func(ctx context.Context) error {
			if a.cfg.ChromePath != "" {
				if _, err := os.Stat(a.cfg.ChromePath); err != nil {
					return fmt.Errorf("chrome binary: %w", err)
				}
			}
			return nil
		},
	}
	if a.db != nil {
		checks["database"] = func(ctx context.Context) error {
			return a.db.PingContext(ctx)
		}
	}
	return checks
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}
