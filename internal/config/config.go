package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`
	AllowedOrigins    []string `yaml:"allowed_origins,omitempty"`
}

type BackendConfig struct {
	// Type is "stub" or "oai_http".
	Type string `yaml:"type"`

	// BaseURL is the upstream base URL for "oai_http" backends.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey is optional; when set it is sent as `Authorization: Bearer <api_key>`.
	APIKey string `yaml:"api_key,omitempty"`

	Model               string  `yaml:"model,omitempty"`
	ChatCompletionsPath string  `yaml:"chat_completions_path,omitempty"`
	Temperature         float64 `yaml:"temperature,omitempty"`
	MaxTokens           int     `yaml:"max_tokens,omitempty"`

	// Timeout bounds a single upstream attempt.
	Timeout Duration `yaml:"timeout,omitempty"`

	// MaxRetries is the number of additional attempts on retryable failures.
	MaxRetries  int      `yaml:"max_retries,omitempty"`
	BaseBackoff Duration `yaml:"base_backoff,omitempty"`
	MaxBackoff  Duration `yaml:"max_backoff,omitempty"`

	// USD per 1K tokens; zero disables cost estimation.
	CostInputPer1K  float64 `yaml:"cost_input_per_1k,omitempty"`
	CostOutputPer1K float64 `yaml:"cost_output_per_1k,omitempty"`
}

type MissionConfig struct {
	// GenerationTimeout bounds the backend call inside one assembly. Zero means no extra bound.
	GenerationTimeout Duration `yaml:"generation_timeout,omitempty"`
	TemplatesPath     string   `yaml:"templates_path,omitempty"`
	TemplateLimit     int      `yaml:"template_limit,omitempty"`
}

type DBConfig struct {
	// Driver is "postgres" or "sqlite". An empty DSN disables storage and the jobs.
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

type RedisConfig struct {
	Addr       string   `yaml:"addr,omitempty"`
	Password   string   `yaml:"password,omitempty"`
	DB         int      `yaml:"db,omitempty"`
	PatternTTL Duration `yaml:"pattern_ttl,omitempty"`
}

type JobsConfig struct {
	Enabled                bool     `yaml:"enabled"`
	DrawAPIBaseURL         string   `yaml:"draw_api_base_url,omitempty"`
	RefreshInterval        Duration `yaml:"refresh_interval,omitempty"`
	RecomputeInterval      Duration `yaml:"recompute_interval,omitempty"`
	MaxConsecutiveFailures int      `yaml:"max_consecutive_failures,omitempty"`
	FetchDelay             Duration `yaml:"fetch_delay,omitempty"`
	Windows                []int    `yaml:"windows,omitempty"`
}

type Config struct {
	Env     string        `yaml:"env"`
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Mission MissionConfig `yaml:"mission"`
	DB      DBConfig      `yaml:"db"`
	Redis   RedisConfig   `yaml:"redis"`
	Jobs    JobsConfig    `yaml:"jobs"`
}

// StorageEnabled reports whether a database is configured.
func (c *Config) StorageEnabled() bool {
	return c != nil && c.DB.DSN != ""
}
