package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// RodBrowser implements Browser on top of a go-rod controlled Chromium
type RodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

var _ Browser = (*RodBrowser)(nil)

// Launch starts a browser process and opens a blank page
func Launch(ctx context.Context, opts Options) (*RodBrowser, error) {
	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	for _, flag := range append(DefaultFlags, opts.Flags...) {
		l = l.Set(flags.Flag(flag))
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).NoDefaultDevice().Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &RodBrowser{launcher: l, browser: b, page: page}, nil
}

// Navigate opens url and waits for the load event
func (r *RodBrowser) Navigate(ctx context.Context, url string) error {
	p := r.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for %s to load: %w", url, err)
	}
	return nil
}

// WaitPresent waits for selector to be attached to the document
func (r *RodBrowser) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := r.page.Context(ctx).Timeout(timeout).Element(selector); err != nil {
		return notFound(selector, err)
	}
	return nil
}

// Click waits for selector to be interactable and clicks it
func (r *RodBrowser) Click(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := r.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return notFound(selector, err)
	}
	if _, err := el.WaitInteractable(); err != nil {
		return notFound(selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// HTML returns the rendered document
func (r *RodBrowser) HTML(ctx context.Context) (string, error) {
	html, err := r.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return html, nil
}

// URL returns the current page address
func (r *RodBrowser) URL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

// Screenshot captures the viewport as PNG
func (r *RodBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	return r.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close closes the browser and removes its profile directory
func (r *RodBrowser) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	r.launcher.Cleanup()
	return err
}

func notFound(selector string, err error) error {
	var nf *rod.ElementNotFoundError
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %s: %v", ErrElementNotFound, selector, err)
	}
	return fmt.Errorf("failed to locate %s: %w", selector, err)
}
