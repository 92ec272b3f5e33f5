package dao

import (
	"errors"
	"fmt"
)

// Error is a constant DAO error.
type Error string

const (
	// ErrStaleResponse marks a completion for a key that is no longer current.
	ErrStaleResponse = Error("stale response discarded")

	// ErrNoSource indicates the grid has no data source configured.
	ErrNoSource = Error("no data source configured")

	// ErrUnknownColumn indicates a filter or sort on a column the source does not know.
	ErrUnknownColumn = Error("unknown column")
)

func (e Error) Error() string {
	return string(e)
}

// DataFetchError reports a transport or decode failure. No rows accompany it.
type DataFetchError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *DataFetchError) Error() string {
	var where string
	if e.URL != "" {
		where = " " + e.URL
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s%s: unexpected status %d", e.Op, where, e.Status)
	}
	return fmt.Sprintf("%s%s: %v", e.Op, where, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// IsDataFetchError returns true if err wraps a DataFetchError.
func IsDataFetchError(err error) bool {
	var dfe *DataFetchError
	return errors.As(err, &dfe)
}
