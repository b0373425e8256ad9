package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeSetup represents directory, ledger or session creation failures
	ErrorTypeSetup ErrorType = "setup"
	// ErrorTypeNavigation represents failures to open the target page
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeTableNotFound represents a missing invoice table on first pass
	ErrorTypeTableNotFound ErrorType = "table_not_found"
	// ErrorTypeExtraction represents row or link extraction failures
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeDateFormat represents a date that does not match the expected layout
	ErrorTypeDateFormat ErrorType = "date_format"
	// ErrorTypeFetch represents asset download failures
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeLedger represents ledger append or flush failures
	ErrorTypeLedger ErrorType = "ledger"
	// ErrorTypePagination represents failures to advance to the next page
	ErrorTypePagination ErrorType = "pagination"
	// ErrorTypeScreenshot represents failures to capture a diagnostic screenshot
	ErrorTypeScreenshot ErrorType = "screenshot"
	// ErrorTypeLock represents a run lock that is already held
	ErrorTypeLock ErrorType = "lock"
	// ErrorTypeUnknown is reported for errors that carry no type
	ErrorTypeUnknown ErrorType = "unknown"
)

// RobotError represents a typed robot error
type RobotError struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *RobotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *RobotError) Unwrap() error {
	return e.Err
}

// IsFatalToRun reports whether the error ends the run. No kind is retried.
func (e *RobotError) IsFatalToRun() bool {
	return true
}

// New creates a new RobotError
func New(errType ErrorType, op, message string, err error) *RobotError {
	return &RobotError{
		Type:    errType,
		Op:      op,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// KindOf returns the type of the first RobotError in err's chain
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var re *RobotError
	if stderrors.As(err, &re) {
		return re.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given type
func Is(err error, errType ErrorType) bool {
	return err != nil && KindOf(err) == errType
}

// NewSetup creates a new setup error
func NewSetup(op, message string, err error) *RobotError {
	return New(ErrorTypeSetup, op, message, err)
}

// NewNavigation creates a new navigation error
func NewNavigation(op, message string, err error) *RobotError {
	return New(ErrorTypeNavigation, op, message, err)
}

// NewTableNotFound creates a new table-not-found error
func NewTableNotFound(selector string, err error) *RobotError {
	return New(ErrorTypeTableNotFound, "table", fmt.Sprintf("table %q not found", selector), err)
}

// NewExtraction creates a new extraction error
func NewExtraction(op, message string, err error) *RobotError {
	return New(ErrorTypeExtraction, op, message, err)
}

// NewDateFormat creates a new date format error
func NewDateFormat(value, layout string, err error) *RobotError {
	return New(ErrorTypeDateFormat, "date", fmt.Sprintf("%q does not match layout %q", value, layout), err)
}

// NewFetch creates a new fetch error
func NewFetch(url, message string, err error) *RobotError {
	return New(ErrorTypeFetch, url, message, err)
}

// NewLedger creates a new ledger error
func NewLedger(op, message string, err error) *RobotError {
	return New(ErrorTypeLedger, op, message, err)
}

// NewPagination creates a new pagination error
func NewPagination(message string, err error) *RobotError {
	return New(ErrorTypePagination, "next", message, err)
}

// NewScreenshot creates a new screenshot error
func NewScreenshot(path string, err error) *RobotError {
	return New(ErrorTypeScreenshot, path, "failed to capture screenshot", err)
}

// NewLock creates a new lock error
func NewLock(key, message string, err error) *RobotError {
	return New(ErrorTypeLock, key, message, err)
}
