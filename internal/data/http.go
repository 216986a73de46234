package data

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout applies to every upstream request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

func newRestyClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "grid-mix/1.0")
	return client
}

// fetchBody performs a GET and returns the body of a 2xx response. Responses are
// served from cache when one is configured.
func fetchBody(ctx context.Context, client *resty.Client, cache *ResponseCache, source, url string, params map[string]string, accept string) ([]byte, error) {
	tag := sourceTag(source)

	var cacheKey string
	if cache != nil {
		cacheKey = CacheKey(url, params)
		if body, found := cache.Get(cacheKey); found {
			log.Printf("[%s] Cache hit: using cached response (%d bytes)", tag, len(body))
			return body, nil
		}
	}

	log.Printf("[%s] Request: GET %s %v", tag, url, params)

	req := client.R().SetContext(ctx).SetHeader("Accept", accept)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	start := time.Now()
	resp, err := req.Get(url)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[%s] Request failed: %v (duration: %v)", tag, err, duration)
		if isTimeout(err) {
			return nil, &FetchError{
				Source:  source,
				Code:    CodeTimeout,
				Message: fmt.Sprintf("request timed out after %v", duration.Round(time.Millisecond)),
				Err:     err,
			}
		}
		return nil, &FetchError{
			Source:  source,
			Code:    CodeRequestFailed,
			Message: "request failed",
			Err:     err,
		}
	}

	log.Printf("[%s] Response: %d %s (duration: %v, %d bytes)", tag, resp.StatusCode(), resp.Status(), duration, len(resp.Body()))

	if !resp.IsSuccess() {
		return nil, &FetchError{
			Source:     source,
			StatusCode: resp.StatusCode(),
			Code:       CodeHTTPStatus,
			Message:    fmt.Sprintf("upstream returned status %d: %s", resp.StatusCode(), resp.Status()),
		}
	}

	body := resp.Body()
	if cache != nil {
		cache.Set(cacheKey, body)
		log.Printf("[%s] Cached response", tag)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sourceTag(source string) string {
	switch source {
	case SourceBMRS:
		return "BMRS"
	case SourceNESO:
		return "NESO"
	default:
		return source
	}
}
