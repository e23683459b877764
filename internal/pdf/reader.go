package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/crosstab-extractor/internal/crosstab"
)

// Document is an open PDF that serves crosstab pages. It implements
// crosstab.PageSource.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	layout LayoutOptions
}

// OpenDocument opens the PDF at path for page-by-page extraction.
func OpenDocument(path string, layout LayoutOptions) (*Document, error) {
	f, reader, err := openReader(path)
	if err != nil {
		return nil, &crosstab.DocumentError{Path: path, Op: "open", Err: err}
	}

	return &Document{
		path:   path,
		file:   f,
		reader: reader,
		layout: layout,
	}, nil
}

// openReader wraps pdf.Open, which panics on some truncated files.
func openReader(path string) (f *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f != nil {
				f.Close()
			}
			f, reader, err = nil, nil, fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, reader, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return f, reader, nil
}

// Path returns the file the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Page extracts the table grid and text lines of a 1-based page. A page
// the library cannot decode yields an error wrapping
// crosstab.ErrPageUnreadable; the rest of the document stays usable.
func (d *Document) Page(ctx context.Context, number int) (page crosstab.Page, err error) {
	if err := ctx.Err(); err != nil {
		return crosstab.Page{}, err
	}
	if number < 1 || number > d.reader.NumPage() {
		return crosstab.Page{}, fmt.Errorf("invalid page number %d (document has %d pages)",
			number, d.reader.NumPage())
	}

	defer func() {
		if r := recover(); r != nil {
			page, err = crosstab.Page{}, fmt.Errorf("%w: %v", crosstab.ErrPageUnreadable, r)
		}
	}()

	p := d.reader.Page(number)
	if p.V.IsNull() {
		return crosstab.Page{Number: number}, nil
	}

	layout := Layout(p.Content().Text, d.layout)
	return crosstab.Page{
		Number: number,
		Table:  layout.Table,
		Lines:  layout.Lines,
	}, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
