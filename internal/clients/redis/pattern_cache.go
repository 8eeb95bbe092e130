package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/platform/logger"
	"github.com/appback/lottoguide-api/internal/stats"
)

const keyPrefix = "lottoguide:pattern:"

// PatternCache stores pattern statistics per window size.
type PatternCache interface {
	Put(ctx context.Context, ps stats.PatternStats) error
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, windowSize int) (*stats.PatternStats, error)
	Invalidate(ctx context.Context, windowSizes ...int) error
	Ping(ctx context.Context) error
	Close() error
}

type patternCache struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewPatternCache(cfg config.RedisConfig, log *logger.Logger) (PatternCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewPatternCacheFromClient(rdb, cfg.PatternTTL.Duration, log), nil
}

// NewPatternCacheFromClient wraps an existing client. A non-positive ttl keeps entries until overwritten.
func NewPatternCacheFromClient(rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger) PatternCache {
	if log == nil {
		log = logger.Nop()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &patternCache{
		log: log.With("service", "RedisPatternCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func key(windowSize int) string {
	return keyPrefix + strconv.Itoa(windowSize)
}

func (c *patternCache) Put(ctx context.Context, ps stats.PatternStats) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis pattern cache not initialized")
	}
	raw, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(ps.WindowSize), raw, c.ttl).Err()
}

func (c *patternCache) Get(ctx context.Context, windowSize int) (*stats.PatternStats, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("redis pattern cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, key(windowSize)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ps stats.PatternStats
	if err := json.Unmarshal(raw, &ps); err != nil {
		c.log.Warn("dropping undecodable pattern stats", "window", windowSize, "error", err)
		_ = c.rdb.Del(ctx, key(windowSize)).Err()
		return nil, nil
	}
	return &ps, nil
}

func (c *patternCache) Invalidate(ctx context.Context, windowSizes ...int) error {
	if c == nil || c.rdb == nil || len(windowSizes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(windowSizes))
	for _, w := range windowSizes {
		keys = append(keys, key(w))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *patternCache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis pattern cache not initialized")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *patternCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
