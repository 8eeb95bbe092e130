// Package oaihttp generates mission text through an OpenAI-compatible chat completions endpoint.
package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/appback/lottoguide-api/internal/config"
	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/httpx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

const backendName = "oai_http"

type Backend struct {
	baseURL  string
	apiKey   string
	chatPath string
	model    string

	temperature float64
	maxTokens   int

	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration

	rates observability.CostRates

	httpClient *http.Client
	log        *logger.Logger
}

func New(cfg config.BackendConfig, log *logger.Logger) (*Backend, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	if log == nil {
		log = logger.Nop()
	}

	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseBackoff := cfg.BaseBackoff.Duration
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	maxBackoff := cfg.MaxBackoff.Duration
	if maxBackoff < baseBackoff {
		maxBackoff = 10 * baseBackoff
	}

	return &Backend{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		chatPath:    chatPath,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
		rates: observability.CostRates{
			InputPer1K:  cfg.CostInputPer1K,
			OutputPer1K: cfg.CostOutputPer1K,
		},
		httpClient: &http.Client{Transport: tr},
		log:        log.With("component", "oaihttp.Backend"),
	}, nil
}

// NewWithHTTPClient swaps the transport, mainly so tests avoid the network.
func NewWithHTTPClient(cfg config.BackendConfig, log *logger.Logger, httpClient *http.Client) (*Backend, error) {
	b, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		b.httpClient = httpClient
	}
	return b, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

// Generate sends one chat completion. Overload and timeouts surface as engine.ErrBusy once retries run out.
func (b *Backend) Generate(ctx context.Context, prompt engine.Prompt) (engine.Result, error) {
	msgs := toChatMessages(prompt)
	if len(msgs) == 0 {
		return engine.Result{}, errors.New("oai_http: empty prompt")
	}
	req := chatCompletionRequest{
		Model:       b.model,
		Messages:    msgs,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}

	start := time.Now()
	raw, err := b.do(ctx, req)
	if err != nil {
		err = classify(err)
		observability.Current().ObserveLLMRequest(backendName, outcome(err), time.Since(start), 0, 0, nil)
		return engine.Result{}, err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		observability.Current().ObserveLLMRequest(backendName, "decode_error", time.Since(start), 0, 0, nil)
		return engine.Result{}, fmt.Errorf("oai_http: decode response: %w", err)
	}

	u := extractUsageFromRaw(raw)
	res := engine.Result{Text: extractChatText(resp)}
	if total := u.total(); total > 0 {
		res.TokenUsage = &total
		res.CostEstimate = observability.EstimateCost(u.input, u.output, b.rates)
	}
	observability.Current().ObserveLLMRequest(backendName, "ok", time.Since(start), u.input, u.output, res.CostEstimate)
	return res, nil
}

func toChatMessages(p engine.Prompt) []chatMessage {
	out := make([]chatMessage, 0, 2)
	if s := strings.TrimSpace(p.System); s != "" {
		out = append(out, chatMessage{Role: "system", Content: s})
	}
	if u := strings.TrimSpace(p.User); u != "" {
		out = append(out, chatMessage{Role: "user", Content: u})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

func (b *Backend) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}
}

func (b *Backend) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	ctx2, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, b.baseURL+b.chatPath, &buf)
	if err != nil {
		return nil, nil, err
	}
	b.setHeaders(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfter(resp.Header),
		}
	}
	return resp, raw, nil
}

func (b *Backend) do(ctx context.Context, body any) ([]byte, error) {
	backoff := b.baseBackoff
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, raw, err := b.doOnce(ctx, body)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt == b.maxRetries || ctx.Err() != nil {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, b.maxBackoff))
		b.log.Warn("generation request retrying",
			"attempt", attempt+1,
			"max_retries", b.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if serr := httpx.Sleep(ctx, sleepFor); serr != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > b.maxBackoff {
			backoff = b.maxBackoff
		}
	}
	return nil, fmt.Errorf("unreachable retry loop")
}

type usage struct {
	input, output, reported int
}

func (u usage) total() int {
	if u.reported > 0 {
		return u.reported
	}
	return u.input + u.output
}

func extractUsageFromRaw(raw []byte) usage {
	var payload struct {
		Usage map[string]any `json:"usage"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &payload) != nil || payload.Usage == nil {
		return usage{}
	}
	u := usage{
		input:    intFromAny(payload.Usage["input_tokens"]),
		output:   intFromAny(payload.Usage["output_tokens"]),
		reported: intFromAny(payload.Usage["total_tokens"]),
	}
	if u.input == 0 && u.output == 0 {
		u.input = intFromAny(payload.Usage["prompt_tokens"])
		u.output = intFromAny(payload.Usage["completion_tokens"])
	}
	return u
}

func intFromAny(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}
