package quiz

import (
	"errors"
	"fmt"
)

// EmptyPoolError indicates the resolved FilterSet yields zero total results.
// Recoverable by changing filters.
type EmptyPoolError struct {
	Query string
}

// Error implements the error interface for EmptyPoolError.
func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("no cards available for query %q", e.Query)
}

// IsEmptyPool returns true if the error is an EmptyPoolError.
func IsEmptyPool(err error) bool {
	var e *EmptyPoolError
	return errors.As(err, &e)
}

// NoCardsOnPageError indicates a computed result page came back with no
// items, an internal inconsistency between the reported total and the
// page contents. Callers may retry by re-sampling.
type NoCardsOnPageError struct {
	Query string
	Page  int
}

// Error implements the error interface for NoCardsOnPageError.
func (e *NoCardsOnPageError) Error() string {
	return fmt.Sprintf("page %d of query %q returned no cards", e.Page, e.Query)
}

// IsNoCardsOnPage returns true if the error is a NoCardsOnPageError.
func IsNoCardsOnPage(err error) bool {
	var e *NoCardsOnPageError
	return errors.As(err, &e)
}
