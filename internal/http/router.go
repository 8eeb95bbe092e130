package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/appback/lottoguide-api/internal/http/handlers"
	httpMW "github.com/appback/lottoguide-api/internal/http/middleware"
	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName     string
	Log             *logger.Logger
	Metrics         *observability.Metrics
	AllowedOrigins  []string
	MaxRequestBytes int64

	MissionHandler *httpH.MissionHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.LimitBody(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api/v1")
	{
		// Missions
		if cfg.MissionHandler != nil {
			api.POST("/missions", cfg.MissionHandler.CreateMission)
			api.POST("/mission", cfg.MissionHandler.CreateMission)
		}
	}

	return r
}
