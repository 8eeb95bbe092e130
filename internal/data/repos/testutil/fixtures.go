package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/appback/lottoguide-api/internal/domain/draws"
)

// FirstDrawDate is the date of draw number 1.
var FirstDrawDate = time.Date(2002, time.December, 7, 0, 0, 0, 0, time.UTC)

// NewDraw builds draw drawNo with the given numbers. The date follows the weekly schedule.
func NewDraw(drawNo int, nums [6]int, bonus int) *draws.Draw {
	return &draws.Draw{
		ID:        uuid.New(),
		DrawNo:    drawNo,
		DrawDate:  FirstDrawDate.AddDate(0, 0, 7*(drawNo-1)),
		N1:        nums[0],
		N2:        nums[1],
		N3:        nums[2],
		N4:        nums[3],
		N5:        nums[4],
		N6:        nums[5],
		Bonus:     bonus,
		ComboTags: datatypes.JSON([]byte("[]")),
	}
}

func SeedDraw(tb testing.TB, ctx context.Context, tx *gorm.DB, drawNo int, nums [6]int, bonus int) *draws.Draw {
	tb.Helper()
	d := NewDraw(drawNo, nums, bonus)
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed draw %d: %v", drawNo, err)
	}
	return d
}
