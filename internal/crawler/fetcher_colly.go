package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements Fetcher using the Colly collector. Each attempt
// runs on a clone of the base collector so per-visit state never leaks
// between fetches; retry scheduling lives in the wrapping loop, not Colly.
type CollyFetcher struct {
	baseCollector *colly.Collector
	retry         RetryPolicy
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, retry RetryPolicy, logger *zap.Logger) (*CollyFetcher, error) {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.MaxBodySize(cfg.MaxBodyBytes),
		colly.IgnoreRobotsTxt(),
	)
	base.SetRequestTimeout(cfg.RequestTimeout)
	base.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})

	return &CollyFetcher{
		baseCollector: base,
		retry:         retry,
		logger:        logger,
	}, nil
}

// Fetch retrieves rawURL, retrying per the policy. On terminal failure the
// returned error wraps ErrFetchFailed and the FetchResult carries whatever
// the last attempt learned (status code, content type) for the Record.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (FetchResult, error) {
	var (
		last    FetchResult
		lastErr error
	)
	for attempt := 1; ; attempt++ {
		res, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		last, lastErr = res, err

		if !f.retry.ShouldRetry(err, attempt) {
			break
		}
		wait := f.retry.Backoff(attempt)
		f.logger.Warn("Fetch attempt failed; retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		MetricRetries.Inc()
		if err := sleepCtx(ctx, wait); err != nil {
			return last, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
	}

	MetricFetchErrors.Inc()
	return last, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
}

func (f *CollyFetcher) fetchOnce(ctx context.Context, rawURL string) (FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return FetchResult{}, err
	}

	collector := f.baseCollector.Clone()

	var (
		result   FetchResult
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		result = FetchResult{
			URL:         rawURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Headers:     r.Headers.Clone(),
			Body:        append([]byte(nil), r.Body...),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.URL = rawURL
			result.StatusCode = r.StatusCode
			if r.Request != nil && r.Request.URL != nil {
				result.FinalURL = r.Request.URL.String()
			}
			if r.Headers != nil {
				result.ContentType = r.Headers.Get("Content-Type")
			}
			if r.StatusCode != 0 && err != nil {
				fetchErr = &StatusError{StatusCode: r.StatusCode}
				return
			}
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		fetchErr = err
	})

	MetricRequests.Inc()
	if err := collector.Visit(rawURL); err != nil {
		// Colly surfaces HTTP status errors synchronously, after OnError has
		// already populated result; keep what the attempt learned.
		if fetchErr != nil {
			return result, fetchErr
		}
		result.URL = rawURL
		return result, err
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	if result.FinalURL == "" {
		return result, errors.New("colly fetch produced no result")
	}
	return result, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
