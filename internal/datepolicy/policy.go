// Package datepolicy decides which invoice dates are due and renders them for the ledger.
package datepolicy

import (
	"time"

	roboterr "sjsage522/invoicerobot/pkg/errors"
)

const (
	// SourceLayout is the layout dates are rendered with on the invoice table (DD-MM-YYYY)
	SourceLayout = "02-01-2006"
	// LedgerLayout is the layout dates are stored with in the ledger (DD/MM/YYYY)
	LedgerLayout = "02/01/2006"
)

// IsOnOrBeforeToday reports whether dateStr, parsed with layout, falls on or before the
// current calendar date in the local timezone. Unparseable input yields false.
func IsOnOrBeforeToday(dateStr, layout string) bool {
	return IsOnOrBefore(dateStr, layout, time.Now())
}

// IsOnOrBefore is IsOnOrBeforeToday against an explicit reference instant.
func IsOnOrBefore(dateStr, layout string, today time.Time) bool {
	parsed, err := time.ParseInLocation(layout, dateStr, today.Location())
	if err != nil {
		return false
	}
	return !calendarDate(parsed).After(calendarDate(today))
}

// Reformat re-renders dateStr from one layout to another.
func Reformat(dateStr, fromLayout, toLayout string) (string, error) {
	parsed, err := time.Parse(fromLayout, dateStr)
	if err != nil {
		return "", roboterr.NewDateFormat(dateStr, fromLayout, err)
	}
	return parsed.Format(toLayout), nil
}

// ToLedger reformats a source table date into the ledger layout.
func ToLedger(dateStr string) (string, error) {
	return Reformat(dateStr, SourceLayout, LedgerLayout)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
