package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/spf13/afero"
)

// Ledger is an append-only CSV file of accepted rows
type Ledger interface {
	// Append writes one row and flushes it to disk before returning
	Append(values []string) error

	// Path returns the ledger file location
	Path() string

	// Close closes the underlying file
	Close() error
}

// CSVLedger implements Ledger on a CSV file
type CSVLedger struct {
	path    string
	columns []string
	file    afero.File
	writer  *csv.Writer
}

var _ Ledger = (*CSVLedger)(nil)

// Create creates a new ledger file at path holding only the header row
func Create(fs afero.Fs, path string, columns []string) (*CSVLedger, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, roboterr.NewLedger(path, "failed to create ledger directory", err)
	}

	file, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, roboterr.NewLedger(path, "failed to create ledger file", err)
	}

	l := &CSVLedger{
		path:    path,
		columns: columns,
		file:    file,
		writer:  csv.NewWriter(file),
	}
	if err := l.write(columns); err != nil {
		file.Close()
		return nil, err
	}
	return l, nil
}

// Append writes values as a row and flushes it
func (l *CSVLedger) Append(values []string) error {
	if len(values) != len(l.columns) {
		return roboterr.NewLedger(l.path, fmt.Sprintf("row has %d values, want %d", len(values), len(l.columns)), nil)
	}
	return l.write(values)
}

// Path returns the ledger file location
func (l *CSVLedger) Path() string {
	return l.path
}

// Close closes the ledger file
func (l *CSVLedger) Close() error {
	return l.file.Close()
}

func (l *CSVLedger) write(values []string) error {
	if err := l.writer.Write(values); err != nil {
		return roboterr.NewLedger(l.path, "failed to write row", err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return roboterr.NewLedger(l.path, "failed to flush row", err)
	}
	if err := l.file.Sync(); err != nil {
		return roboterr.NewLedger(l.path, "failed to sync ledger", err)
	}
	return nil
}

// ReadAll returns every row of the ledger at path, header included
func ReadAll(fs afero.Fs, path string) ([][]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return csv.NewReader(file).ReadAll()
}
