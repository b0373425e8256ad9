package helpers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	runStampLayout      = "02.01.2006_15.04.05"
	artifactStampLayout = "02-01-2006_15.04.05"
	logFileLayout       = "02-01-2006"
)

// RunStamp returns the per-run directory name, e.g. 05.03.2024_14.30.00
func RunStamp(now time.Time) string {
	return now.Format(runStampLayout)
}

// LedgerFileName returns the full path of a new ledger file inside dir
func LedgerFileName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("FATURAS_%s.csv", now.Format(artifactStampLayout)))
}

// ErrorImageName returns a timestamped screenshot path inside dir.
// A trailing .png on base is dropped so the stamp lands before the extension.
func ErrorImageName(dir, base string, now time.Time) string {
	base = strings.TrimSuffix(base, ".png")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, now.Format(artifactStampLayout)))
}

// LogFileName returns the daily log file path inside dir
func LogFileName(dir string, now time.Time) string {
	return filepath.Join(dir, now.Format(logFileLayout)+".txt")
}

// AssetFileName returns the file name an invoice image is stored under
func AssetFileName(invoiceID string) string {
	return SanitizeFileName(invoiceID) + ".png"
}

// SanitizeFileName replaces path separators so an id can't escape its directory
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return replacer.Replace(name)
}
