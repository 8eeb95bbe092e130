package jobs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/appback/lottoguide-api/internal/domain/draws"
	"github.com/appback/lottoguide-api/internal/pkg/dbctx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
	"github.com/appback/lottoguide-api/internal/stats"
)

const RecomputeJobName = "recompute_metrics"

var DefaultWindows = []int{20, 50, 100}

type RecentDraws interface {
	ListRecent(dbc dbctx.Context, limit int) ([]*draws.Draw, error)
}

type MetricStore interface {
	UpsertAll(dbc dbctx.Context, metrics []*draws.NumberMetric) error
}

type PatternStore interface {
	Put(ctx context.Context, ps stats.PatternStats) error
}

type MetricsRecomputer struct {
	draws    RecentDraws
	metrics  MetricStore
	patterns PatternStore
	windows  []int
	now      func() time.Time
	log      *logger.Logger
}

// NewMetricsRecomputer builds the recompute job. patterns may be nil when no cache is configured.
func NewMetricsRecomputer(d RecentDraws, m MetricStore, patterns PatternStore, windows []int, log *logger.Logger) *MetricsRecomputer {
	if log == nil {
		log = logger.Nop()
	}
	ws := make([]int, 0, len(windows))
	for _, w := range windows {
		if w > 0 && !slices.Contains(ws, w) {
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		ws = append(ws, DefaultWindows...)
	}
	return &MetricsRecomputer{
		draws:    d,
		metrics:  m,
		patterns: patterns,
		windows:  ws,
		now:      time.Now,
		log:      log.With("job", RecomputeJobName),
	}
}

func (r *MetricsRecomputer) Name() string { return RecomputeJobName }

func (r *MetricsRecomputer) Run(ctx context.Context) error {
	return r.RecomputeMetrics(ctx)
}

// RecomputeMetrics rebuilds number metrics and pattern statistics for every window.
// A failing window does not stop the others; all failures are returned joined.
func (r *MetricsRecomputer) RecomputeMetrics(ctx context.Context) error {
	dbc := dbctx.New(ctx)
	ds, err := r.draws.ListRecent(dbc, slices.Max(r.windows))
	if err != nil {
		return fmt.Errorf("list recent draws: %w", err)
	}
	if len(ds) == 0 {
		r.log.Warn("no draws stored; skipping recompute")
		return nil
	}

	var errs []error
	for _, w := range r.windows {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.metrics.UpsertAll(dbc, stats.ComputeNumberMetrics(w, ds)); err != nil {
			errs = append(errs, fmt.Errorf("window %d metrics: %w", w, err))
			continue
		}
		if r.patterns != nil {
			if err := r.patterns.Put(ctx, stats.ComputePatternStats(w, ds, r.now())); err != nil {
				// The cache is advisory; metrics are already stored.
				r.log.Warn("pattern cache write failed", "window", w, "error", err)
			}
		}
		r.log.Debug("window recomputed", "window", w, "through_draw_no", ds[0].DrawNo)
	}
	return errors.Join(errs...)
}
