package service

import "errors"

var (
	// ErrPlanNotFound indicates the plan id does not resolve to a document.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrItemNotFound indicates the addressed item id is absent from the
	// addressed day bucket at transaction time.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidMove indicates a section was targeted for a cross-day move.
	// Sections keep their day for life; only reordering within it is allowed.
	ErrInvalidMove = errors.New("sections cannot move to another day")

	// ErrConcurrencyExhausted indicates repeated write conflicts consumed
	// the retry budget. The call may be retried as a whole.
	ErrConcurrencyExhausted = errors.New("retry attempts exhausted")
)
