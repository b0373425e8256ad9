package datepolicy

import (
	"testing"
	"time"

	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOnOrBefore(t *testing.T) {
	today := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.Local)

	testCases := []struct {
		name     string
		date     string
		expected bool
	}{
		{"yesterday", "04-03-2024", true},
		{"today", "05-03-2024", true},
		{"tomorrow", "06-03-2024", false},
		{"far past", "31-12-1999", true},
		{"next year", "01-01-2025", false},
		{"iso layout", "2024-03-05", false},
		{"garbage", "not a date", false},
		{"empty", "", false},
		{"impossible day", "32-01-2024", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsOnOrBefore(tc.date, SourceLayout, today))
		})
	}
}

func TestIsOnOrBeforeTodayUsesClock(t *testing.T) {
	now := time.Now()
	assert.True(t, IsOnOrBeforeToday(now.Format(SourceLayout), SourceLayout))
	assert.True(t, IsOnOrBeforeToday(now.AddDate(0, 0, -1).Format(SourceLayout), SourceLayout))
	assert.False(t, IsOnOrBeforeToday(now.AddDate(0, 0, 5).Format(SourceLayout), SourceLayout))
}

func TestReformat(t *testing.T) {
	formatted, err := ToLedger("05-03-2024")
	require.NoError(t, err)
	assert.Equal(t, "05/03/2024", formatted)

	formatted, err = Reformat("2024-03-05", "2006-01-02", LedgerLayout)
	require.NoError(t, err)
	assert.Equal(t, "05/03/2024", formatted)
}

func TestReformatMalformed(t *testing.T) {
	_, err := ToLedger("2024-03-05")
	require.Error(t, err)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeDateFormat))
	assert.Contains(t, err.Error(), "2024-03-05")
}
