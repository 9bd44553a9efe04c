// Package server initializes and runs the profile sync webhook: the HTTP
// endpoint receiving Clerk events and the gRPC health service. Both stop
// when the root context is cancelled or a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/server/archive"
	"github.com/sermonmate/sermonmate/internal/server/config"
	"github.com/sermonmate/sermonmate/internal/server/dedupe"
	"github.com/sermonmate/sermonmate/internal/server/httpapi"
	"github.com/sermonmate/sermonmate/internal/server/metrics"
	"github.com/sermonmate/sermonmate/internal/server/repositories/repomanager"
	"github.com/sermonmate/sermonmate/internal/server/services"
	"github.com/sermonmate/sermonmate/internal/server/svix"

	gs "github.com/sermonmate/sermonmate/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *redis.Client
	httpServer *http.Server
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	verifier, err := newVerifier(ctx, c, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	store, err := app.newDedupeStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	arch, err := newArchiver(ctx, c, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	m := metrics.New()
	profileService := services.NewProfileService(db, rm, logger)
	webhook := httpapi.NewWebhookHandler(verifier, profileService, store, arch, m, logger)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		WebhookPath: c.WebhookPath,
		RateLimit:   c.RateLimit,
		RateBurst:   c.RateBurst,
	}, webhook, db, m, logger)

	app.httpServer = &http.Server{
		Addr:              c.EndpointAddrHTTP,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db)

	return app, nil
}

// newVerifier returns nil when no secret is configured; the handler then
// answers every delivery with 500.
func newVerifier(ctx context.Context, c *config.Config, logger logging.Logger) (*svix.Verifier, error) {
	if c.WebhookSecret == "" {
		logger.Warn(ctx, "webhook secret is not set, deliveries will be refused")
		return nil, nil
	}
	v, err := svix.NewVerifier(c.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook secret: %w", err)
	}
	return v, nil
}

func (app *App) newDedupeStore(ctx context.Context) (dedupe.Store, error) {
	if app.config.RedisAddr == "" {
		return dedupe.NewMemoryStore(app.config.DedupeTTL), nil
	}
	client, err := dedupe.NewRedisClient(ctx, app.config.RedisAddr)
	if err != nil {
		return nil, err
	}
	app.redis = client
	return dedupe.NewRedisStore(client, app.config.DedupeTTL), nil
}

func newArchiver(ctx context.Context, c *config.Config, logger logging.Logger) (archive.Archiver, error) {
	if c.S3Bucket == "" {
		return archive.Nop{}, nil
	}
	a, err := archive.NewS3Archiver(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "archiving events", "bucket", c.S3Bucket)
	return a, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr, "webhook_path", app.config.WebhookPath)

	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the database and Redis connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.Close()
}

func (app *App) Close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
