package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"catalog/harvester/internal/retry"
)

var ErrNotFound = errors.New("catalog: resource not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %s for %s", e.Status, e.URL)
}

// Is lets errors.Is(err, ErrNotFound) match 404 and 410 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && (e.Code == http.StatusNotFound || e.Code == http.StatusGone)
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	switch {
	case e.Code == http.StatusRequestTimeout, e.Code == http.StatusTooManyRequests:
		return true
	case e.Code >= 500:
		return true
	default:
		return false
	}
}

// ClassifyPage is the retry classifier for detail pages. Every failure,
// including any non-2xx status, is retried; only cancellation stops.
func ClassifyPage(err error) retry.Decision {
	if errors.Is(err, context.Canceled) {
		return retry.Stop
	}
	return retry.Retry
}

// ClassifyAsset is the retry classifier for asset downloads. Network errors,
// attempt timeouts, 408, 429 and 5xx are retried; not found, other statuses and
// cancellation stop.
func ClassifyAsset(err error) retry.Decision {
	if errors.Is(err, context.Canceled) {
		return retry.Stop
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && !statusErr.Temporary() {
		return retry.Stop
	}

	return retry.Retry
}
