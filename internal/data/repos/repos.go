package repos

import (
	"gorm.io/gorm"

	"github.com/appback/lottoguide-api/internal/data/repos/draws"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type DrawRepo = draws.DrawRepo
type NumberMetricRepo = draws.NumberMetricRepo

// Repos groups the storage collaborators used by the scheduled jobs.
type Repos struct {
	Draws         DrawRepo
	NumberMetrics NumberMetricRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Draws:         draws.NewDrawRepo(db, log),
		NumberMetrics: draws.NewNumberMetricRepo(db, log),
	}
}
