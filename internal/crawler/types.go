package crawler

import (
	"context"
	"iter"
	"time"
)

// RowRecord represents one candidate row of the invoice table
type RowRecord struct {
	InvoiceID string `json:"invoice_id"`
	RawDate   string `json:"raw_date"`
	AssetURL  string `json:"asset_url"`
}

// AcceptedRow is a RowRecord that passed the date policy, with its date in ledger layout
type AcceptedRow struct {
	InvoiceID     string `json:"invoice_id"`
	FormattedDate string `json:"formatted_date"`
	AssetURL      string `json:"asset_url"`
}

// Values returns the row in ledger column order
func (r AcceptedRow) Values() []string {
	return []string{r.InvoiceID, r.FormattedDate, r.AssetURL}
}

// Selectors contains CSS selectors for the invoice page
type Selectors struct {
	Table        string
	Rows         string
	Cells        string
	Link         string
	Next         string
	NextDisabled string
}

// DefaultSelectors matches the invoice table layout of the target site
var DefaultSelectors = Selectors{
	Table:        "#tableSandbox",
	Rows:         "table tbody tr",
	Cells:        "td",
	Link:         "a",
	Next:         "#tableSandbox_next",
	NextDisabled: "#tableSandbox_next.disabled",
}

// Column positions inside a table row
const (
	cellInvoiceID = 1
	cellDate      = 2
	cellLink      = 3
	minCells      = 4
)

// PageConfig contains configuration for an invoice page
type PageConfig struct {
	Selectors   Selectors
	ElementWait time.Duration
	NextWait    time.Duration
}

// Session is the browsing capability the extraction state machine drives
type Session interface {
	Open(ctx context.Context, url string) error
	TableIsPresent(ctx context.Context) (bool, error)
	Rows(ctx context.Context) iter.Seq2[RowRecord, error]
	IsNextDisabled(ctx context.Context) bool
	Advance(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// SessionFactory opens a new browsing session
type SessionFactory func(ctx context.Context) (Session, error)
