package crawler

import (
	"context"

	"sjsage522/invoicerobot/internal/browser"
)

var _ Session = (*InvoicePage)(nil)

// NewSessionFactory returns a factory launching a go-rod browser wrapped in an InvoicePage
func NewSessionFactory(opts browser.Options, config PageConfig) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		b, err := browser.Launch(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewInvoicePage(b, config), nil
	}
}

// StaticSessionFactory returns a factory handing out a page over an existing browser
func StaticSessionFactory(b browser.Browser, config PageConfig) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		return NewInvoicePage(b, config), nil
	}
}
