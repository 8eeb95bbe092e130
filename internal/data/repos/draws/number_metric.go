package draws

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/appback/lottoguide-api/internal/domain/draws"
	"github.com/appback/lottoguide-api/internal/pkg/dbctx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type NumberMetricRepo interface {
	UpsertAll(dbc dbctx.Context, metrics []*types.NumberMetric) error
	ListByWindow(dbc dbctx.Context, windowSize int) ([]*types.NumberMetric, error)
}

type numberMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNumberMetricRepo(db *gorm.DB, baseLog *logger.Logger) NumberMetricRepo {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &numberMetricRepo{
		db:  db,
		log: baseLog.With("repo", "NumberMetricRepo"),
	}
}

// UpsertAll writes every metric in one transaction keyed by (window_size, number).
func (r *numberMetricRepo) UpsertAll(dbc dbctx.Context, metrics []*types.NumberMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, m := range metrics {
		m.UpdatedAt = now
	}
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "window_size"}, {Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"frequency", "last_seen_draw_no", "overdue", "through_draw_no", "updated_at",
			}),
		}).CreateInBatches(metrics, 100).Error
	})
}

func (r *numberMetricRepo) ListByWindow(dbc dbctx.Context, windowSize int) ([]*types.NumberMetric, error) {
	out := []*types.NumberMetric{}
	if err := dbc.DB(r.db).
		Where("window_size = ?", windowSize).
		Order("number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
