package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/appback/lottoguide-api/internal/clients/lottoapi"
	"github.com/appback/lottoguide-api/internal/clients/redis"
	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/data/db"
	"github.com/appback/lottoguide-api/internal/data/repos"
	apphttp "github.com/appback/lottoguide-api/internal/http"
	httpH "github.com/appback/lottoguide-api/internal/http/handlers"
	"github.com/appback/lottoguide-api/internal/inference/router"
	"github.com/appback/lottoguide-api/internal/jobs"
	"github.com/appback/lottoguide-api/internal/mission"
	"github.com/appback/lottoguide-api/internal/mission/policy"
	"github.com/appback/lottoguide-api/internal/mission/template"
	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Mission *httpH.MissionHandler
}

type storage struct {
	DB       *db.Service
	Repos    repos.Repos
	Patterns redis.PatternCache
}

func (s *storage) close(context.Context) error {
	if s.Patterns != nil {
		_ = s.Patterns.Close()
	}
	return s.DB.Close()
}

func wireAssembler(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics) (*mission.Assembler, error) {
	backend, err := router.New(cfg.Backend, log)
	if err != nil {
		return nil, fmt.Errorf("init backend: %w", err)
	}

	catalog := template.Default()
	if cfg.Mission.TemplatesPath != "" {
		catalog, err = template.LoadCatalog(cfg.Mission.TemplatesPath)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
	}

	log.Info("Wiring mission assembler...", "backend", cfg.Backend.Type)
	return mission.NewAssembler(
		backend,
		policy.New(nil),
		template.NewSelector(catalog),
		log,
		mission.WithGenerationTimeout(cfg.Mission.GenerationTimeout.Duration),
		mission.WithTemplateLimit(cfg.Mission.TemplateLimit),
		mission.WithMetrics(metrics),
	), nil
}

func wireStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	svc, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	st := &storage{
		DB:    svc,
		Repos: repos.New(svc.DB(), log),
	}

	if cfg.Redis.Addr != "" {
		cache, err := redis.NewPatternCache(cfg.Redis, log)
		if err != nil {
			// The pattern cache is optional; jobs still persist metrics without it.
			log.Warn("redis unavailable; pattern cache disabled", "error", err)
		} else {
			st.Patterns = cache
		}
	}
	return st, nil
}

func wireJobs(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics, st *storage) *jobs.Scheduler {
	log.Info("Wiring jobs...")
	source := lottoapi.New(lottoapi.Options{BaseURL: cfg.Jobs.DrawAPIBaseURL}, log)

	var patterns jobs.PatternStore
	if st.Patterns != nil {
		patterns = st.Patterns
	}
	recompute := jobs.NewMetricsRecomputer(st.Repos.Draws, st.Repos.NumberMetrics, patterns, cfg.Jobs.Windows, log)
	refresh := jobs.NewDrawRefresher(
		st.Repos.Draws,
		source,
		recompute,
		cfg.Jobs.MaxConsecutiveFailures,
		cfg.Jobs.FetchDelay.Duration,
		log,
	)

	s := jobs.NewScheduler(log, metrics)
	s.Add(refresh, cfg.Jobs.RefreshInterval.Duration, true)
	s.Add(recompute, cfg.Jobs.RecomputeInterval.Duration, false)
	return s
}

func wireHandlers(log *logger.Logger, assembler *mission.Assembler, pingers map[string]pinger) Handlers {
	log.Info("Wiring handlers...")
	deps := make(map[string]httpH.Pinger, len(pingers))
	for name, p := range pingers {
		deps[name] = p
	}
	return Handlers{
		Health:  httpH.NewHealthHandler(deps),
		Mission: httpH.NewMissionHandler(assembler, log),
	}
}

func wireRouter(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName:     ServiceName,
		Log:             log,
		Metrics:         metrics,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		MissionHandler:  handlers.Mission,
		HealthHandler:   handlers.Health,
	})
}
