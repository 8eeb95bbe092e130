package observability

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics is the process-wide Prometheus registry. A nil *Metrics is a valid no-op.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec

	llmRequests *CounterVec
	llmLatency  *HistogramVec
	llmTokens   *CounterVec
	llmCost     *CounterVec

	missions         *CounterVec
	policyViolations *CounterVec

	jobRuns     *CounterVec
	jobDuration *HistogramVec

	all []metricWriter
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Enabled reads METRICS_ENABLED.
func Enabled() bool {
	return envBool("METRICS_ENABLED")
}

// Current returns the registry built by Init, or nil.
func Current() *Metrics {
	return instance
}

// Init builds the registry once and makes it Current.
func Init() *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics()
	})
	return instance
}

// NewMetrics builds an isolated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("lotto_api_requests_total", "HTTP requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("lotto_api_request_seconds", "HTTP request latency.", []string{"method", "route", "status"}, nil),
		apiInflight: NewGaugeVec("lotto_api_inflight", "In-flight HTTP requests.", nil),

		llmRequests: NewCounterVec("lotto_llm_requests_total", "Generation backend calls by backend/status.", []string{"backend", "status"}),
		llmLatency:  NewHistogramVec("lotto_llm_request_seconds", "Generation backend latency.", []string{"backend", "status"}, []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}),
		llmTokens:   NewCounterVec("lotto_llm_tokens_total", "Tokens by backend/direction.", []string{"backend", "direction"}),
		llmCost:     NewCounterVec("lotto_llm_cost_usd_total", "Estimated generation cost (USD).", []string{"backend"}),

		missions:         NewCounterVec("lotto_missions_total", "Mission assemblies by outcome.", []string{"outcome"}),
		policyViolations: NewCounterVec("lotto_policy_violations_total", "Rejected phrases by phrase.", []string{"phrase"}),

		jobRuns:     NewCounterVec("lotto_job_runs_total", "Scheduled job runs by job/status.", []string{"job", "status"}),
		jobDuration: NewHistogramVec("lotto_job_seconds", "Scheduled job duration.", []string{"job", "status"}, []float64{0.1, 1, 5, 30, 60, 300, 900}),
	}
	m.all = []metricWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens, m.llmCost,
		m.missions, m.policyViolations,
		m.jobRuns, m.jobDuration,
	}
	return m
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, mw := range m.all {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	code := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, code)
	m.apiLatency.Observe(dur.Seconds(), method, route, code)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

// ObserveLLMRequest records one backend call. cost may be nil.
func (m *Metrics) ObserveLLMRequest(backend, status string, dur time.Duration, inputTokens, outputTokens int, cost *float64) {
	if m == nil {
		return
	}
	backend = strings.TrimSpace(backend)
	m.llmRequests.Inc(backend, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), backend, status)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), backend, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), backend, "output")
	}
	if cost != nil && *cost > 0 {
		m.llmCost.Add(*cost, backend)
	}
}

// IncMission counts an assembly outcome: ok, busy, invalid, policy or error.
func (m *Metrics) IncMission(outcome string) {
	if m == nil {
		return
	}
	m.missions.Inc(outcome)
}

func (m *Metrics) IncPolicyViolation(phrase string) {
	if m == nil {
		return
	}
	m.policyViolations.Inc(phrase)
}

func (m *Metrics) ObserveJob(job, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.Inc(job, status)
	m.jobDuration.Observe(dur.Seconds(), job, status)
}

func (m *Metrics) MissionCount(outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.missions.Value(outcome)
}
