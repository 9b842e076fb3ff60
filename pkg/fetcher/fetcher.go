package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/levelwatch/pkg/caching"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// ErrStatus is returned for any non-2xx response.
var ErrStatus = errors.New("unexpected status code")

type Fetcher struct {
	client *resty.Client
	cache  *caching.Cache
}

// NewFetcher returns a fetcher with a bounded per-request timeout. Requests are
// never retried.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Fetcher{client: client}
}

// WithCache serves pages from c while they are fresh and stores fetched pages in it.
func (f *Fetcher) WithCache(c *caching.Cache) *Fetcher {
	f.cache = c
	return f
}

func (f *Fetcher) GetHtml(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetHtmlBytes returns the page body converted to UTF-8.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			return data, nil
		}
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to fetch HTML: %w: %d", ErrStatus, resp.StatusCode())
	}

	body, err := toUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if f.cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = f.cache.Set(url, body)
	}
	return body, nil
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
