package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"sjsage522/invoicerobot/internal/browser"
	"sjsage522/invoicerobot/internal/browser/browsertest"
	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://invoices.example.com/"

const tableHTML = `<html><body>
<table id="tableSandbox">
  <thead><tr><th>#</th><th>ID</th><th>Due Date</th><th>Invoice</th></tr></thead>
  <tbody>
    <tr><td>1</td><td> 1001 </td><td>04-03-2024</td><td><a href="/invoices/1001.jpg">Invoice</a></td></tr>
    <tr><td colspan="4">Loading...</td></tr>
    <tr><td>2</td><td>1002</td><td>09-03-2024</td><td><a href="https://cdn.example.com/1002.jpg">Invoice</a></td></tr>
  </tbody>
</table>
<a id="tableSandbox_next" class="paginate_button next">Next</a>
</body></html>`

const lastPageHTML = `<html><body>
<table id="tableSandbox"><tbody>
  <tr><td>3</td><td>1003</td><td>01-01-2024</td><td><a href="invoices/1003.jpg">Invoice</a></td></tr>
</tbody></table>
<a id="tableSandbox_next" class="paginate_button next disabled">Next</a>
</body></html>`

const brokenLinkHTML = `<html><body>
<table id="tableSandbox"><tbody>
  <tr><td>1</td><td>2001</td><td>01-01-2024</td><td><a href="/ok.jpg">Invoice</a></td></tr>
  <tr><td>2</td><td>2002</td><td>01-01-2024</td><td>no link</td></tr>
  <tr><td>3</td><td>2003</td><td>01-01-2024</td><td><a href="/never.jpg">Invoice</a></td></tr>
</tbody></table>
</body></html>`

func newPage(b browser.Browser) *InvoicePage {
	return NewInvoicePage(b, PageConfig{ElementWait: time.Second, NextWait: 10 * time.Millisecond})
}

func collect(t *testing.T, p *InvoicePage) ([]RowRecord, error) {
	t.Helper()
	var records []RowRecord
	for record, err := range p.Rows(context.Background()) {
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

func TestRowsSkipsShortRowsAndResolvesLinks(t *testing.T) {
	fake := browsertest.New(pageURL, DefaultSelectors.Next, tableHTML)
	records, err := collect(t, newPage(fake))
	require.NoError(t, err)

	assert.Equal(t, []RowRecord{
		{InvoiceID: "1001", RawDate: "04-03-2024", AssetURL: "https://invoices.example.com/invoices/1001.jpg"},
		{InvoiceID: "1002", RawDate: "09-03-2024", AssetURL: "https://cdn.example.com/1002.jpg"},
	}, records)
}

func TestRowsStopsOnMissingLink(t *testing.T) {
	fake := browsertest.New(pageURL, DefaultSelectors.Next, brokenLinkHTML)
	records, err := collect(t, newPage(fake))

	require.Error(t, err)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeExtraction))
	assert.True(t, errors.Is(err, browser.ErrElementNotFound))
	require.Len(t, records, 1)
	assert.Equal(t, "2001", records[0].InvoiceID)
}

func TestRowsReReadsLivePage(t *testing.T) {
	fake := browsertest.New(pageURL, DefaultSelectors.Next, tableHTML, lastPageHTML)
	page := newPage(fake)

	first, err := collect(t, page)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	require.NoError(t, page.Advance(context.Background()))

	second, err := collect(t, page)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "https://invoices.example.com/invoices/1003.jpg", second[0].AssetURL)
}

func TestRowsEarlyBreak(t *testing.T) {
	fake := browsertest.New(pageURL, DefaultSelectors.Next, tableHTML)
	seen := 0
	for _, err := range newPage(fake).Rows(context.Background()) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestTableIsPresent(t *testing.T) {
	present, err := newPage(browsertest.New(pageURL, DefaultSelectors.Next, tableHTML)).TableIsPresent(context.Background())
	require.NoError(t, err)
	assert.True(t, present)

	present, err = newPage(browsertest.New(pageURL, DefaultSelectors.Next, "<html><body>maintenance</body></html>")).TableIsPresent(context.Background())
	assert.False(t, present)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeTableNotFound))
}

func TestIsNextDisabled(t *testing.T) {
	assert.False(t, newPage(browsertest.New(pageURL, DefaultSelectors.Next, tableHTML)).IsNextDisabled(context.Background()))
	assert.True(t, newPage(browsertest.New(pageURL, DefaultSelectors.Next, lastPageHTML)).IsNextDisabled(context.Background()))

	// no next control at all still means "keep paginating"
	assert.False(t, newPage(browsertest.New(pageURL, DefaultSelectors.Next, brokenLinkHTML)).IsNextDisabled(context.Background()))
}

func TestAdvanceFailure(t *testing.T) {
	fake := browsertest.New(pageURL, DefaultSelectors.Next, brokenLinkHTML)
	err := newPage(fake).Advance(context.Background())
	require.Error(t, err)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypePagination))
	assert.Equal(t, []string{DefaultSelectors.Next}, fake.Clicks)
}

func TestOpen(t *testing.T) {
	fake := browsertest.New("", DefaultSelectors.Next, tableHTML)
	require.NoError(t, newPage(fake).Open(context.Background(), pageURL))
	assert.Equal(t, []string{pageURL}, fake.Navigations)

	fake.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := newPage(fake).Open(context.Background(), pageURL)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeNavigation))
}

func TestResolveURL(t *testing.T) {
	testCases := []struct {
		page     string
		href     string
		expected string
	}{
		{"https://example.com/deals/", "/a.jpg", "https://example.com/a.jpg"},
		{"https://example.com/deals/", "b.jpg", "https://example.com/deals/b.jpg"},
		{"https://example.com/deals/", "//cdn.example.com/c.jpg", "https://cdn.example.com/c.jpg"},
		{"https://example.com/deals/", "http://other.com/d.jpg", "http://other.com/d.jpg"},
		{"", "/e.jpg", "/e.jpg"},
	}

	for _, tc := range testCases {
		resolved, err := ResolveURL(tc.page, tc.href)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, resolved)
	}
}
