package oaihttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/appback/lottoguide-api/internal/inference/engine"
	"github.com/appback/lottoguide-api/internal/platform/httpx"
)

// busyStatuses are upstream answers that mean "try again later".
var busyStatuses = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
	http.StatusBadGateway:         true,
	http.StatusGatewayTimeout:     true,
}

// classify maps a final transport error to the port's error contract.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if code := httpx.StatusCode(err); busyStatuses[code] {
		return engine.Busy(fmt.Sprintf("upstream status %d", code), err)
	}
	if httpx.IsTimeout(err) {
		return engine.Busy("upstream timeout", err)
	}
	return fmt.Errorf("oai_http: %w", err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engine.ErrBusy):
		return "busy"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
