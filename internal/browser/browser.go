// Package browser exposes the browsing session the robot drives.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrElementNotFound is returned when a selector does not resolve within its wait
var ErrElementNotFound = errors.New("element not found")

// Browser is an owned browsing session. It is used by a single goroutine.
type Browser interface {
	// Navigate opens url and waits for the page load event
	Navigate(ctx context.Context, url string) error

	// WaitPresent waits up to timeout for selector to be attached to the document.
	// It returns ErrElementNotFound when the wait expires.
	WaitPresent(ctx context.Context, selector string, timeout time.Duration) error

	// Click waits up to timeout for selector to be interactable and clicks it
	Click(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the rendered document of the current page
	HTML(ctx context.Context) (string, error)

	// URL returns the address of the current page
	URL(ctx context.Context) (string, error)

	// Screenshot captures the visible viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases every resource held by the session
	Close() error
}

// Options configures a browser launch
type Options struct {
	Headless bool
	Bin      string
	Flags    []string
}

// DefaultFlags are passed to every launched browser
var DefaultFlags = []string{"start-maximized", "disable-notifications"}
