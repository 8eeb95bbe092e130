package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/data/db"
	apphttp "github.com/appback/lottoguide-api/internal/http"
	"github.com/appback/lottoguide-api/internal/jobs"
	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

const ServiceName = "lottoguide-api"

type App struct {
	Log     *logger.Logger
	Config  *config.Config
	Metrics *observability.Metrics

	server    *apphttp.Server
	scheduler *jobs.Scheduler
	closers   []func(context.Context) error
}

// New loads configuration and wires every component. Storage and the scheduled
// jobs are only built when a database is configured.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := build(context.Background(), cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Log: log, Config: cfg}

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(ServiceName, cfg.Env))
	a.closers = append(a.closers, shutdownOTel)

	if observability.Enabled() {
		a.Metrics = observability.Init()
	}

	assembler, err := wireAssembler(cfg, log, a.Metrics)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	pingers := map[string]pinger{}
	if cfg.StorageEnabled() {
		st, err := wireStorage(ctx, cfg, log)
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, st.close)
		pingers["db"] = st.DB
		if st.Patterns != nil {
			pingers["redis"] = st.Patterns
		}
		if cfg.Jobs.Enabled {
			a.scheduler = wireJobs(cfg, log, a.Metrics, st)
		}
	} else {
		log.Info("no database configured; draw refresh and metrics jobs disabled")
	}

	handlers := wireHandlers(log, assembler, pingers)
	router := wireRouter(cfg, log, a.Metrics, handlers)
	a.server = apphttp.NewServer(apphttp.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, router, log)

	return a, nil
}

// Run serves HTTP and runs the scheduler until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return errors.New("app not initialized")
	}
	defer a.close(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	if a.scheduler != nil {
		g.Go(func() error {
			return a.scheduler.Run(gctx)
		})
	}
	a.Log.Info("lottoguide api started", "addr", a.Config.HTTP.Addr, "backend", a.Config.Backend.Type, "storage", a.Config.StorageEnabled())
	return g.Wait()
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.Config.HTTP.ShutdownTimeout.Duration)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("shutdown step failed", "error", err)
		}
	}
	a.closers = nil
	a.Log.Sync()
}

var _ pinger = (*db.Service)(nil)
