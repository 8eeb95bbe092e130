package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/appback/lottoguide-api/internal/clients/lottoapi"
	"github.com/appback/lottoguide-api/internal/domain/draws"
	"github.com/appback/lottoguide-api/internal/mission/combo"
	"github.com/appback/lottoguide-api/internal/pkg/dbctx"
	"github.com/appback/lottoguide-api/internal/platform/httpx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

const RefreshJobName = "refresh_draws"

// DrawSource is the external draw feed.
type DrawSource interface {
	LatestDrawNo(ctx context.Context) (int, error)
	FetchDraw(ctx context.Context, drawNo int) (*lottoapi.DrawResult, error)
}

// DrawStore is the subset of the draw repository the refresher writes through.
type DrawStore interface {
	GetByDrawNo(dbc dbctx.Context, drawNo int) (*draws.Draw, error)
	FirstMissingDrawNo(dbc dbctx.Context) (int, error)
	Upsert(dbc dbctx.Context, d *draws.Draw) error
}

// RefreshResult summarizes one refresh pass.
type RefreshResult struct {
	StartDrawNo   int
	LatestDrawNo  int
	Saved         int
	FailedDrawNos []int
}

type DrawRefresher struct {
	store  DrawStore
	source DrawSource
	after  Job
	log    *logger.Logger

	maxConsecutiveFailures int
	fetchDelay             time.Duration

	group singleflight.Group
}

// NewDrawRefresher builds the refresher. after, when set, runs once a pass has saved draws.
func NewDrawRefresher(store DrawStore, source DrawSource, after Job, maxConsecutiveFailures int, fetchDelay time.Duration, log *logger.Logger) *DrawRefresher {
	if log == nil {
		log = logger.Nop()
	}
	if maxConsecutiveFailures <= 0 {
		maxConsecutiveFailures = 10
	}
	if fetchDelay < 0 {
		fetchDelay = 0
	}
	return &DrawRefresher{
		store:                  store,
		source:                 source,
		after:                  after,
		log:                    log.With("job", RefreshJobName),
		maxConsecutiveFailures: maxConsecutiveFailures,
		fetchDelay:             fetchDelay,
	}
}

func (r *DrawRefresher) Name() string { return RefreshJobName }

func (r *DrawRefresher) Run(ctx context.Context) error {
	_, err := r.RefreshDraws(ctx)
	return err
}

// RefreshDraws fetches every draw from the first missing number up to the latest one.
// Concurrent callers share a single pass and its result.
func (r *DrawRefresher) RefreshDraws(ctx context.Context) (RefreshResult, error) {
	v, err, shared := r.group.Do(RefreshJobName, func() (any, error) {
		return r.refresh(ctx)
	})
	if shared {
		r.log.Debug("joined in-flight refresh")
	}
	res, _ := v.(RefreshResult)
	return res, err
}

func (r *DrawRefresher) refresh(ctx context.Context) (RefreshResult, error) {
	dbc := dbctx.New(ctx)
	var res RefreshResult

	start, err := r.store.FirstMissingDrawNo(dbc)
	if err != nil {
		return res, fmt.Errorf("find first missing draw: %w", err)
	}
	latest, err := r.source.LatestDrawNo(ctx)
	if err != nil {
		return res, fmt.Errorf("latest draw number: %w", err)
	}
	res.StartDrawNo, res.LatestDrawNo = start, latest
	if start > latest {
		r.log.Info("draws up to date", "latest", latest)
		return res, nil
	}
	r.log.Info("refreshing draws", "from", start, "to", latest)

	consecutive := 0
	for no := start; no <= latest; no++ {
		if ctx.Err() != nil {
			break
		}
		existing, err := r.store.GetByDrawNo(dbc, no)
		if err != nil {
			return res, fmt.Errorf("lookup draw %d: %w", no, err)
		}
		if existing != nil {
			continue
		}

		if err := r.fetchAndStore(ctx, dbc, no); err != nil {
			res.FailedDrawNos = append(res.FailedDrawNos, no)
			consecutive++
			r.log.Warn("draw fetch failed", "draw_no", no, "consecutive", consecutive, "error", err)
			if consecutive >= r.maxConsecutiveFailures {
				r.log.Warn("stopping refresh after consecutive failures", "draw_no", no, "consecutive", consecutive)
				break
			}
		} else {
			res.Saved++
			consecutive = 0
		}

		if no < latest && r.fetchDelay > 0 {
			if err := httpx.Sleep(ctx, r.fetchDelay); err != nil {
				break
			}
		}
	}

	// One more attempt for isolated failures once the feed has proven reachable.
	if len(res.FailedDrawNos) > 0 && res.Saved > 0 && ctx.Err() == nil {
		var still []int
		for _, no := range res.FailedDrawNos {
			if err := r.fetchAndStore(ctx, dbc, no); err != nil {
				still = append(still, no)
				continue
			}
			res.Saved++
		}
		res.FailedDrawNos = still
	}

	r.log.Info("draw refresh finished", "saved", res.Saved, "failed", len(res.FailedDrawNos))

	if res.Saved == 0 && len(res.FailedDrawNos) > 0 {
		return res, fmt.Errorf("draw refresh saved nothing; %d draws failed from %d", len(res.FailedDrawNos), start)
	}
	if res.Saved > 0 && r.after != nil {
		if err := r.after.Run(ctx); err != nil {
			r.log.Warn("post-refresh job failed", "job", r.after.Name(), "error", err)
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return res, err
	}
	return res, nil
}

func (r *DrawRefresher) fetchAndStore(ctx context.Context, dbc dbctx.Context, no int) error {
	dr, err := r.source.FetchDraw(ctx, no)
	if err != nil {
		return err
	}
	d, err := toDraw(dr)
	if err != nil {
		return err
	}
	return r.store.Upsert(dbc, d)
}

func toDraw(dr *lottoapi.DrawResult) (*draws.Draw, error) {
	d := &draws.Draw{
		ID:           uuid.New(),
		DrawNo:       dr.DrawNo,
		DrawDate:     dr.DrawDate,
		N1:           dr.Numbers[0],
		N2:           dr.Numbers[1],
		N3:           dr.Numbers[2],
		N4:           dr.Numbers[3],
		N5:           dr.Numbers[4],
		N6:           dr.Numbers[5],
		Bonus:        dr.Bonus,
		FirstPrize:   dr.FirstPrize,
		FirstWinners: dr.FirstWinners,
		TotalSales:   dr.TotalSales,
	}
	tags, err := json.Marshal(combo.Extract(d.Numbers()).Strings())
	if err != nil {
		return nil, err
	}
	d.ComboTags = datatypes.JSON(tags)
	return d, nil
}
