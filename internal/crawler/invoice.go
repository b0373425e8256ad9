package crawler

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"sjsage522/invoicerobot/internal/browser"
	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// InvoicePage is the page object for the paginated invoice table
type InvoicePage struct {
	browser browser.Browser
	config  PageConfig
}

// NewInvoicePage creates a page object driving b
func NewInvoicePage(b browser.Browser, config PageConfig) *InvoicePage {
	if config.Selectors == (Selectors{}) {
		config.Selectors = DefaultSelectors
	}
	return &InvoicePage{browser: b, config: config}
}

// Open navigates the session to url
func (p *InvoicePage) Open(ctx context.Context, url string) error {
	if err := p.browser.Navigate(ctx, url); err != nil {
		return roboterr.NewNavigation(url, "failed to open site", err)
	}
	return nil
}

// TableIsPresent reports whether the invoice table shows up within the element wait.
// A missing table is returned as a table_not_found error.
func (p *InvoicePage) TableIsPresent(ctx context.Context) (bool, error) {
	if err := p.browser.WaitPresent(ctx, p.config.Selectors.Table, p.config.ElementWait); err != nil {
		return false, roboterr.NewTableNotFound(p.config.Selectors.Table, err)
	}
	return true, nil
}

// Rows reads the currently loaded table and yields one RowRecord per row with at least
// four cells. The page is read when iteration starts, so ranging again re-reads the live
// page. A row whose link can't be resolved stops the sequence with an error.
func (p *InvoicePage) Rows(ctx context.Context) iter.Seq2[RowRecord, error] {
	return func(yield func(RowRecord, error) bool) {
		html, err := p.browser.HTML(ctx)
		if err != nil {
			yield(RowRecord{}, roboterr.NewExtraction("rows", "failed to read page", err))
			return
		}
		pageURL, err := p.browser.URL(ctx)
		if err != nil {
			yield(RowRecord{}, roboterr.NewExtraction("rows", "failed to read page url", err))
			return
		}

		doc, err := createDocument(strings.NewReader(html))
		if err != nil {
			yield(RowRecord{}, roboterr.NewExtraction("rows", "failed to parse page", err))
			return
		}

		rows := doc.Find(p.config.Selectors.Rows)
		for i := range rows.Length() {
			cells := rows.Eq(i).Find(p.config.Selectors.Cells)
			if cells.Length() < minCells {
				continue
			}

			assetURL, err := p.assetURL(cells, pageURL)
			if err != nil {
				yield(RowRecord{}, roboterr.NewExtraction(fmt.Sprintf("row %d", i), "failed to capture href", err))
				return
			}

			record := RowRecord{
				InvoiceID: cellText(cells, cellInvoiceID),
				RawDate:   cellText(cells, cellDate),
				AssetURL:  assetURL,
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// assetURL returns the resolved href of the link inside the asset cell
func (p *InvoicePage) assetURL(cells *goquery.Selection, pageURL string) (string, error) {
	link := cells.Eq(cellLink).Find(p.config.Selectors.Link).First()
	if link.Length() == 0 {
		return "", fmt.Errorf("%w: %s", browser.ErrElementNotFound, p.config.Selectors.Link)
	}
	href, exists := link.Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return "", errors.New("link has no href")
	}
	return ResolveURL(pageURL, href)
}

// IsNextDisabled reports whether the next control is shown disabled within the short
// next wait. Lookup failures count as not disabled.
func (p *InvoicePage) IsNextDisabled(ctx context.Context) bool {
	return p.browser.WaitPresent(ctx, p.config.Selectors.NextDisabled, p.config.NextWait) == nil
}

// Advance clicks the next control
func (p *InvoicePage) Advance(ctx context.Context) error {
	if err := p.browser.Click(ctx, p.config.Selectors.Next, p.config.ElementWait); err != nil {
		return roboterr.NewPagination("failed to click next button", err)
	}
	return nil
}

// Screenshot captures the current page as PNG
func (p *InvoicePage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.browser.Screenshot(ctx)
}

// Close releases the browsing session
func (p *InvoicePage) Close() error {
	return p.browser.Close()
}
