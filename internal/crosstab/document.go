// Package crosstab flattens survey crosstab tables into self-describing
// plain-text blocks, one per PDF page.
package crosstab

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	headerDepth    = 3
	blockSeparator = "\n\n"
)

// Page is one page as delivered by a PageSource. A nil or empty Table or
// Lines means the page has no crosstab.
type Page struct {
	Number int
	Table  [][]string
	Lines  []string
}

// PageSource supplies pages of a document by 1-based number.
type PageSource interface {
	NumPages() int
	Page(ctx context.Context, number int) (Page, error)
}

// Summary counts the outcome of a run.
type Summary struct {
	TotalPages int
	Extracted  int
	Skipped    int
}

// Document is the ordered collection of page blocks of one run.
type Document struct {
	Blocks  []PageBlock
	Skipped []*PageError
	Summary Summary
}

// String joins the blocks with a blank line between consecutive blocks.
func (d *Document) String() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, block := range d.Blocks {
		parts = append(parts, block.String())
	}
	return strings.Join(parts, blockSeparator)
}

// Extractor turns the pages of a PageSource into a Document.
type Extractor struct {
	observer Observer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObserver sets the progress observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewExtractor creates an Extractor. Without options progress is discarded.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{observer: NopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes every page of src in order. Pages without content or
// with a malformed table are skipped and recorded in Document.Skipped; only
// context cancellation aborts the run.
func (e *Extractor) Extract(ctx context.Context, src PageSource) (*Document, error) {
	total := src.NumPages()
	doc := &Document{Summary: Summary{TotalPages: total}}

	for number := 1; number <= total; number++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction stopped at page %d: %w", number, err)
		}

		e.observer.PageStarted(number, total)

		block, err := e.extractPage(ctx, src, number)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, fmt.Errorf("extraction stopped at page %d: %w", number, err)
			}
			pageErr := &PageError{Page: number, Err: err}
			doc.Skipped = append(doc.Skipped, pageErr)
			e.observer.PageSkipped(number, err)
			continue
		}

		doc.Blocks = append(doc.Blocks, block)
	}

	sort.SliceStable(doc.Blocks, func(i, j int) bool {
		return doc.Blocks[i].Page < doc.Blocks[j].Page
	})

	doc.Summary.Extracted = len(doc.Blocks)
	doc.Summary.Skipped = len(doc.Skipped)
	e.observer.RunComplete(doc.Summary)

	return doc, nil
}

func (e *Extractor) extractPage(ctx context.Context, src PageSource, number int) (PageBlock, error) {
	page, err := src.Page(ctx, number)
	if err != nil {
		return PageBlock{}, err
	}
	if page.Number == 0 {
		page.Number = number
	}
	return BuildBlock(page)
}

// BuildBlock composes the block for a single page.
func BuildBlock(page Page) (PageBlock, error) {
	if len(page.Table) == 0 || len(page.Lines) == 0 {
		return PageBlock{}, ErrNoContent
	}

	rows := dropBlankRows(page.Table)
	if len(rows) < headerDepth {
		return PageBlock{}, fmt.Errorf("%w: found %d", ErrMalformedHeader, len(rows))
	}

	header := HeaderRows{
		Top:       rows[0],
		Bottom:    rows[1],
		ValueType: rows[2],
	}.Flatten()

	return ComposeBlock(page.Number, ExtractLabels(page.Lines), header, rows[headerDepth:]), nil
}
