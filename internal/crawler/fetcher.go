package crawler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Page is the raw result of fetching one URL.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher fetches a URL and returns the page body.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// CollyFetcher implements Fetcher using the Colly collector. One base
// collector (and therefore one transport) is shared across the whole run so
// connections are reused and every request carries the same identity.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
	)
	base.AllowURLRevisit = true // re-crawls revisit every page by design
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}
}

// Fetch retrieves a single page via the shared collector. Non-2xx statuses
// surface as errors through Colly's error callback.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: Page{
			URL:        rawURL,
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}})
	})

	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return Page{}, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		return res.page, res.err
	default:
		return Page{}, errors.New("colly fetch produced no result")
	}
}

type fetchResult struct {
	page Page
	err  error
}
