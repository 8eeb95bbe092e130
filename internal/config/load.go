package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendStub    = "stub"
	BackendOAIHTTP = "oai_http"
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil || value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar like \"5s\"")
	}
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

func Default() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		Backend: BackendConfig{
			Type:        BackendStub,
			Timeout:     Duration{Duration: 30 * time.Second},
			MaxRetries:  2,
			BaseBackoff: Duration{Duration: time.Second},
			MaxBackoff:  Duration{Duration: 10 * time.Second},
		},
		Mission: MissionConfig{
			TemplateLimit: 3,
		},
		DB: DBConfig{Driver: "postgres"},
		Redis: RedisConfig{
			PatternTTL: Duration{Duration: 24 * time.Hour},
		},
		Jobs: JobsConfig{
			Enabled:                true,
			DrawAPIBaseURL:         "https://www.dhlottery.co.kr",
			RefreshInterval:        Duration{Duration: 24 * time.Hour},
			RecomputeInterval:      Duration{Duration: 24 * time.Hour},
			MaxConsecutiveFailures: 10,
			FetchDelay:             Duration{Duration: 2 * time.Second},
			Windows:                []int{20, 50, 100},
		},
	}
}

// Load reads defaults, then the YAML file at LOTTO_CONFIG_PATH (or ./config/config.yaml if present),
// then environment overrides, and finally validates.
func Load() (*Config, error) {
	cfg := Default()

	cfgPath := strings.TrimSpace(os.Getenv("LOTTO_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("LOG_MODE"); v != "" {
		cfg.Env = v
	}
	if v := env("LOTTO_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := env("LOTTO_CORS_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	if v := env("LOTTO_BACKEND_TYPE"); v != "" {
		cfg.Backend.Type = v
	}
	if v := env("LOTTO_BACKEND_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := env("LOTTO_BACKEND_API_KEY"); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := env("LOTTO_BACKEND_MODEL"); v != "" {
		cfg.Backend.Model = v
	}
	if v := env("LLM_COST_INPUT_PER_1K"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backend.CostInputPer1K = f
		}
	}
	if v := env("LLM_COST_OUTPUT_PER_1K"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backend.CostOutputPer1K = f
		}
	}
	if v := env("LOTTO_TEMPLATES_PATH"); v != "" {
		cfg.Mission.TemplatesPath = v
	}
	if v := env("LOTTO_DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := env("LOTTO_DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := env("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := env("LOTTO_JOBS_ENABLED"); v != "" {
		cfg.Jobs.Enabled = parseBool(v)
	}
}

func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	b := &cfg.Backend
	b.Type = strings.ToLower(strings.TrimSpace(b.Type))
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	switch b.Type {
	case "", "stub", "mock":
		b.Type = BackendStub
	case "oai_http", "openai_http", "openai":
		b.Type = BackendOAIHTTP
		if b.BaseURL == "" {
			return errors.New("backend (oai_http) missing base_url")
		}
		if strings.TrimSpace(b.ChatCompletionsPath) == "" {
			b.ChatCompletionsPath = "/v1/chat/completions"
		}
		if strings.TrimSpace(b.Model) == "" {
			b.Model = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("unsupported backend type %q", b.Type)
	}
	if b.Timeout.Duration <= 0 {
		b.Timeout = Duration{Duration: 30 * time.Second}
	}
	if b.MaxRetries < 0 {
		return errors.New("backend.max_retries must be >= 0")
	}
	if b.BaseBackoff.Duration <= 0 {
		b.BaseBackoff = Duration{Duration: time.Second}
	}
	if b.MaxBackoff.Duration < b.BaseBackoff.Duration {
		b.MaxBackoff = b.BaseBackoff
	}
	if b.CostInputPer1K < 0 || b.CostOutputPer1K < 0 {
		return errors.New("backend cost rates must be >= 0")
	}

	if cfg.Mission.GenerationTimeout.Duration < 0 {
		return errors.New("mission.generation_timeout must be >= 0")
	}
	if cfg.Mission.TemplateLimit <= 0 {
		cfg.Mission.TemplateLimit = 3
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	switch cfg.DB.Driver {
	case "", "postgres", "postgresql", "pg":
		cfg.DB.Driver = "postgres"
	case "sqlite", "sqlite3":
		cfg.DB.Driver = "sqlite"
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	if cfg.Redis.PatternTTL.Duration <= 0 {
		cfg.Redis.PatternTTL = Duration{Duration: 24 * time.Hour}
	}

	j := &cfg.Jobs
	j.DrawAPIBaseURL = strings.TrimRight(strings.TrimSpace(j.DrawAPIBaseURL), "/")
	if j.RefreshInterval.Duration <= 0 {
		j.RefreshInterval = Duration{Duration: 24 * time.Hour}
	}
	if j.RecomputeInterval.Duration <= 0 {
		j.RecomputeInterval = Duration{Duration: 24 * time.Hour}
	}
	if j.MaxConsecutiveFailures <= 0 {
		j.MaxConsecutiveFailures = 10
	}
	if j.FetchDelay.Duration < 0 {
		j.FetchDelay = Duration{}
	}
	if len(j.Windows) == 0 {
		j.Windows = []int{20, 50, 100}
	}
	for _, w := range j.Windows {
		if w <= 0 {
			return fmt.Errorf("jobs.windows contains non-positive window %d", w)
		}
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
