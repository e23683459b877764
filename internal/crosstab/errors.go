package crosstab

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent means the page has no table grid or no plain text.
	ErrNoContent = errors.New("no table or text")
	// ErrMalformedHeader means fewer than three non-blank table rows remain.
	ErrMalformedHeader = errors.New("table has fewer than three non-blank rows")
	// ErrPageUnreadable means the page source failed on this page only.
	ErrPageUnreadable = errors.New("page could not be read")
)

// PageError describes why a single page produced no block.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// DocumentError is a fatal error tied to the input or output file.
type DocumentError struct {
	Path string
	Op   string // "open" or "write"
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
