// Package lottoapi fetches official draw results from the public lottery JSON endpoint.
package lottoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/appback/lottoguide-api/internal/platform/httpx"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://www.dhlottery.co.kr"
	drawPath       = "/common.do"
	userAgent      = "Mozilla/5.0 (compatible; lottoguide-api/1.0)"
)

// ErrDrawNotFound means the endpoint has no result for the requested number yet.
var ErrDrawNotFound = errors.New("draw not found")

// DrawResult is one decoded draw. Numbers are sorted ascending.
type DrawResult struct {
	DrawNo       int
	DrawDate     time.Time
	Numbers      [6]int
	Bonus        int
	FirstPrize   int64
	FirstWinners int
	TotalSales   int64
}

type drawPayload struct {
	ReturnValue    string `json:"returnValue"`
	DrwNo          int    `json:"drwNo"`
	DrwNoDate      string `json:"drwNoDate"`
	DrwtNo1        int    `json:"drwtNo1"`
	DrwtNo2        int    `json:"drwtNo2"`
	DrwtNo3        int    `json:"drwtNo3"`
	DrwtNo4        int    `json:"drwtNo4"`
	DrwtNo5        int    `json:"drwtNo5"`
	DrwtNo6        int    `json:"drwtNo6"`
	BnusNo         int    `json:"bnusNo"`
	FirstWinamnt   int64  `json:"firstWinamnt"`
	FirstPrzwnerCo int    `json:"firstPrzwnerCo"`
	TotSellamnt    int64  `json:"totSellamnt"`
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	HTTPClient  *http.Client
	// Now is used for the latest-draw estimate. Defaults to time.Now.
	Now func() time.Time
}

type Client struct {
	baseURL     string
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	now         func() time.Time

	httpClient *http.Client
	log        *logger.Logger
}

func New(opts Options, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseBackoff := opts.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	maxBackoff := opts.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 10 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &Client{
		baseURL:     baseURL,
		timeout:     timeout,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
		now:         now,
		httpClient:  hc,
		log:         log.With("client", "lottoapi"),
	}
}

// FetchDraw returns draw drawNo, or ErrDrawNotFound when the endpoint reports no result.
func (c *Client) FetchDraw(ctx context.Context, drawNo int) (*DrawResult, error) {
	if drawNo < 1 {
		return nil, fmt.Errorf("invalid draw number %d", drawNo)
	}
	q := url.Values{}
	q.Set("method", "getLottoNumber")
	q.Set("drwNo", strconv.Itoa(drawNo))

	raw, err := c.do(ctx, c.baseURL+drawPath+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch draw %d: %w", drawNo, err)
	}
	res, err := decodeDraw(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch draw %d: %w", drawNo, err)
	}
	if res.DrawNo != drawNo {
		return nil, fmt.Errorf("fetch draw %d: endpoint answered draw %d", drawNo, res.DrawNo)
	}
	return res, nil
}

// LatestDrawNo estimates the newest draw from the weekly schedule and steps back while the
// endpoint has no result for it, so a Saturday before the draw resolves to the prior week.
func (c *Client) LatestDrawNo(ctx context.Context) (int, error) {
	est := EstimateLatestDrawNo(c.now())
	for no := est; no >= 1 && no > est-2; no-- {
		_, err := c.FetchDraw(ctx, no)
		if err == nil {
			return no, nil
		}
		if !errors.Is(err, ErrDrawNotFound) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("latest draw near %d: %w", est, ErrDrawNotFound)
}

var (
	firstDrawDate = time.Date(2002, time.December, 7, 0, 0, 0, 0, seoul)
	seoul         = time.FixedZone("KST", 9*60*60)
)

// EstimateLatestDrawNo counts weekly Saturday draws since draw 1 on 2002-12-07, in KST.
func EstimateLatestDrawNo(now time.Time) int {
	local := now.In(seoul)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, seoul)
	back := (int(day.Weekday()) - int(time.Saturday) + 7) % 7
	lastDraw := day.AddDate(0, 0, -back)
	if lastDraw.Before(firstDrawDate) {
		return 0
	}
	weeks := int(lastDraw.Sub(firstDrawDate).Hours() / (24 * 7))
	return weeks + 1
}

func decodeDraw(raw []byte) (*DrawResult, error) {
	var p drawPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode draw payload: %w", err)
	}
	if p.ReturnValue != "success" || p.DrwNo == 0 {
		return nil, ErrDrawNotFound
	}
	nums := [6]int{p.DrwtNo1, p.DrwtNo2, p.DrwtNo3, p.DrwtNo4, p.DrwtNo5, p.DrwtNo6}
	sort.Ints(nums[:])
	for _, n := range nums {
		if n < 1 || n > 45 {
			return nil, fmt.Errorf("draw %d: number %d out of range", p.DrwNo, n)
		}
	}
	res := &DrawResult{
		DrawNo:       p.DrwNo,
		Numbers:      nums,
		Bonus:        p.BnusNo,
		FirstPrize:   p.FirstWinamnt,
		FirstWinners: p.FirstPrzwnerCo,
		TotalSales:   p.TotSellamnt,
	}
	if p.DrwNoDate != "" {
		d, err := time.ParseInLocation("2006-01-02", p.DrwNoDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("draw %d: bad date %q", p.DrwNo, p.DrwNoDate)
		}
		res.DrawDate = d
	}
	return res, nil
}

func (c *Client) doOnce(ctx context.Context, target string) (*http.Response, []byte, error) {
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
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

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, raw, err := c.doOnce(ctx, target)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries || ctx.Err() != nil {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, c.maxBackoff))
		c.log.Warn("draw api retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if serr := httpx.Sleep(ctx, sleepFor); serr != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
	return nil, fmt.Errorf("unreachable retry loop")
}
