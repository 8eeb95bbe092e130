package draws

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/appback/lottoguide-api/internal/domain/draws"
	"github.com/appback/lottoguide-api/internal/pkg/dbctx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type DrawRepo interface {
	Count(dbc dbctx.Context) (int64, error)
	GetByDrawNo(dbc dbctx.Context, drawNo int) (*types.Draw, error)
	Latest(dbc dbctx.Context) (*types.Draw, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.Draw, error)
	FirstMissingDrawNo(dbc dbctx.Context) (int, error)
	Upsert(dbc dbctx.Context, d *types.Draw) error
}

type drawRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDrawRepo(db *gorm.DB, baseLog *logger.Logger) DrawRepo {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &drawRepo{
		db:  db,
		log: baseLog.With("repo", "DrawRepo"),
	}
}

func (r *drawRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Draw{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// GetByDrawNo returns nil, nil when the draw is not stored.
func (r *drawRepo) GetByDrawNo(dbc dbctx.Context, drawNo int) (*types.Draw, error) {
	if drawNo < 1 {
		return nil, nil
	}
	var d types.Draw
	err := dbc.DB(r.db).Where("draw_no = ?", drawNo).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Latest returns the highest-numbered draw, or nil, nil on an empty table.
func (r *drawRepo) Latest(dbc dbctx.Context) (*types.Draw, error) {
	var d types.Draw
	err := dbc.DB(r.db).Order("draw_no DESC").Limit(1).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListRecent returns up to limit draws, newest first.
func (r *drawRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.Draw, error) {
	out := []*types.Draw{}
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Order("draw_no DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FirstMissingDrawNo returns the smallest draw number >= 1 that is not stored.
// With draws 1..n stored contiguously it returns n+1.
func (r *drawRepo) FirstMissingDrawNo(dbc dbctx.Context) (int, error) {
	var (
		cnt   int64
		minNo sql.NullInt64
	)
	if err := dbc.DB(r.db).Model(&types.Draw{}).
		Select("COUNT(*), MIN(draw_no)").
		Row().Scan(&cnt, &minNo); err != nil {
		return 0, err
	}
	if cnt == 0 || !minNo.Valid || minNo.Int64 > 1 {
		return 1, nil
	}

	var gap sql.NullInt64
	err := dbc.DB(r.db).Raw(`
		SELECT MIN(d.draw_no + 1)
		FROM draw d
		LEFT JOIN draw n ON n.draw_no = d.draw_no + 1
		WHERE n.draw_no IS NULL
	`).Row().Scan(&gap)
	if err != nil {
		return 0, err
	}
	if !gap.Valid {
		return 1, nil
	}
	return int(gap.Int64), nil
}

// Upsert inserts d or replaces the stored draw with the same number. CreatedAt is kept.
func (r *drawRepo) Upsert(dbc dbctx.Context, d *types.Draw) error {
	if d == nil {
		return errors.New("nil draw")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "draw_no"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"draw_date", "n1", "n2", "n3", "n4", "n5", "n6", "bonus",
			"first_prize", "first_winners", "total_sales", "combo_tags", "updated_at",
		}),
	}).Create(d).Error
}
