package draws

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

// Draw is one official lottery result.
type Draw struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DrawNo       int            `gorm:"column:draw_no;not null;uniqueIndex" json:"draw_no"`
	DrawDate     time.Time      `gorm:"column:draw_date;not null;index" json:"draw_date"`
	N1           int            `gorm:"column:n1;not null" json:"n1"`
	N2           int            `gorm:"column:n2;not null" json:"n2"`
	N3           int            `gorm:"column:n3;not null" json:"n3"`
	N4           int            `gorm:"column:n4;not null" json:"n4"`
	N5           int            `gorm:"column:n5;not null" json:"n5"`
	N6           int            `gorm:"column:n6;not null" json:"n6"`
	Bonus        int            `gorm:"column:bonus;not null" json:"bonus"`
	FirstPrize   int64          `gorm:"column:first_prize" json:"first_prize"`
	FirstWinners int            `gorm:"column:first_winners" json:"first_winners"`
	TotalSales   int64          `gorm:"column:total_sales" json:"total_sales"`
	ComboTags    datatypes.JSON `gorm:"column:combo_tags" json:"combo_tags"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Draw) TableName() string { return "draw" }

// Numbers returns the six main numbers. The bonus is excluded.
func (d Draw) Numbers() mission.Combination {
	return mission.Combination{d.N1, d.N2, d.N3, d.N4, d.N5, d.N6}
}

// NumberMetric is the per-number statistic over the most recent WindowSize draws.
type NumberMetric struct {
	WindowSize     int       `gorm:"column:window_size;primaryKey;autoIncrement:false" json:"window_size"`
	Number         int       `gorm:"column:number;primaryKey;autoIncrement:false" json:"number"`
	Frequency      int       `gorm:"column:frequency;not null;default:0" json:"frequency"`
	LastSeenDrawNo *int      `gorm:"column:last_seen_draw_no" json:"last_seen_draw_no,omitempty"`
	Overdue        int       `gorm:"column:overdue;not null;default:0" json:"overdue"`
	ThroughDrawNo  int       `gorm:"column:through_draw_no;not null" json:"through_draw_no"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (NumberMetric) TableName() string { return "number_metric" }
