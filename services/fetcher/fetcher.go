package fetcher

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"path/filepath"
	"time"

	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"
	"golang.org/x/net/publicsuffix"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Fetcher downloads an asset and stores it as a named file
type Fetcher interface {
	// Fetch downloads url into dir/name and returns the written path
	Fetch(ctx context.Context, url, dir, name string) (string, error)
}

// HTTPFetcher implements Fetcher with a cookie-keeping resty session
type HTTPFetcher struct {
	client *resty.Client
	fs     afero.Fs
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher writing into fs
func NewHTTPFetcher(fs afero.Fs, timeout time.Duration) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(timeout)
	client.SetCookieJar(jar)

	return &HTTPFetcher{client: client, fs: fs}, nil
}

// Fetch downloads url with a single GET. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dir, name string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", roboterr.NewFetch(url, "request failed", err)
	}
	if !res.IsSuccess() {
		return "", roboterr.NewFetch(url, fmt.Sprintf("unexpected status code: %d", res.StatusCode()), nil)
	}

	path := filepath.Join(dir, name)
	if err := afero.WriteFile(f.fs, path, res.Body(), 0o644); err != nil {
		return "", roboterr.NewFetch(url, "failed to save asset", err)
	}
	return path, nil
}
