// Package browsertest provides a scripted in-memory Browser for tests.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sjsage522/invoicerobot/internal/browser"

	"github.com/PuerkitoBio/goquery"
)

// PNG is the payload returned by Screenshot
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Browser serves Pages in order; a successful Click on NextSelector moves to the next page.
type Browser struct {
	URLValue     string
	Pages        []string
	NextSelector string

	NavigateErr   error
	ClickErr      error
	ScreenshotErr error

	Current     int
	Navigations []string
	Clicks      []string
	Screenshots int
	Closed      bool
}

var _ browser.Browser = (*Browser)(nil)

// New creates a fake browser serving pages
func New(url, nextSelector string, pages ...string) *Browser {
	return &Browser{URLValue: url, NextSelector: nextSelector, Pages: pages}
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.Navigations = append(b.Navigations, url)
	if b.NavigateErr != nil {
		return b.NavigateErr
	}
	b.URLValue = url
	return nil
}

func (b *Browser) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	found, err := b.has(selector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return nil
}

func (b *Browser) Click(ctx context.Context, selector string, timeout time.Duration) error {
	b.Clicks = append(b.Clicks, selector)
	if b.ClickErr != nil {
		return b.ClickErr
	}
	found, err := b.has(selector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	if selector == b.NextSelector && b.Current < len(b.Pages)-1 {
		b.Current++
	}
	return nil
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	if len(b.Pages) == 0 {
		return "<html><body></body></html>", nil
	}
	return b.Pages[b.Current], nil
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	return b.URLValue, nil
}

func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	if b.ScreenshotErr != nil {
		return nil, b.ScreenshotErr
	}
	b.Screenshots++
	return PNG, nil
}

func (b *Browser) Close() error {
	b.Closed = true
	return nil
}

func (b *Browser) has(selector string) (bool, error) {
	html, _ := b.HTML(context.Background())
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}
