package crosstab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves pre-built pages; missing page numbers return errs[n] or
// an empty page.
type fakeSource struct {
	pages map[int]Page
	errs  map[int]error
	total int
	calls []int
}

func (s *fakeSource) NumPages() int { return s.total }

func (s *fakeSource) Page(_ context.Context, number int) (Page, error) {
	s.calls = append(s.calls, number)
	if err, ok := s.errs[number]; ok {
		return Page{}, err
	}
	return s.pages[number], nil
}

type recordingObserver struct {
	started []int
	skipped map[int]error
	summary *Summary
}

func (o *recordingObserver) PageStarted(page, _ int) { o.started = append(o.started, page) }

func (o *recordingObserver) PageSkipped(page int, reason error) {
	if o.skipped == nil {
		o.skipped = map[int]error{}
	}
	o.skipped[page] = reason
}

func (o *recordingObserver) RunComplete(s Summary) { o.summary = &s }

func approvalPage(number int) Page {
	return Page{
		Number: number,
		Lines:  []string{"1. Do you approve?", "BANNER: Gender"},
		Table: [][]string{
			{"Total", "Male", "Female"},
			{"", "", ""},
			{"N", "120", "60"},
			{"Approve", "70", "35"},
		},
	}
}

func TestExtractor_SinglePageEndToEnd(t *testing.T) {
	src := &fakeSource{total: 1, pages: map[int]Page{1: approvalPage(1)}}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	// The all-blank second row is dropped first, so the header triple is
	// Total/N/Approve and no data rows remain.
	want := "Page: 1\n" +
		"Question: 1. Do you approve?\n" +
		"Banner: BANNER: Gender\n" +
		"Total: N, Male: 120, Female: 60\n" +
		"Approve, 70, 35"
	assert.Equal(t, want, doc.String())
	assert.Equal(t, Summary{TotalPages: 1, Extracted: 1}, doc.Summary)
}

func TestExtractor_EmptySubCategoryRow(t *testing.T) {
	page := approvalPage(1)
	page.Table[1] = []string{"--", "", ""}
	src := &fakeSource{total: 1, pages: map[int]Page{1: page}}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	want := "Page: 1\n" +
		"Question: 1. Do you approve?\n" +
		"Banner: BANNER: Gender\n" +
		"Total, Male, Female\n" +
		"N, 120, 60\n" +
		"Approve, 70, 35"
	assert.Equal(t, want, doc.String())
}

func TestExtractor_BlankRowRemovedBeforeHeader(t *testing.T) {
	page := Page{
		Lines: []string{"2. Q", "BANNER"},
		Table: [][]string{
			{"", "", "", ""},
			{"Total", "Age"},
			{"", "18-34", "35+"},
			{" ", ""},
			{"Base", "200", "90", "110"},
			{"Yes", "1", "2", "3"},
		},
	}
	src := &fakeSource{total: 1, pages: map[int]Page{1: page}}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	block := doc.Blocks[0]
	assert.Equal(t, 1, block.Page, "page number defaults to the requested number")
	assert.Equal(t, []string{"Total", "Age: 18-34", "Age: 35+", "Age"}, block.Header.Labels)
	assert.Equal(t, []string{"Base", "200", "90", "110"}, block.Header.Values)
	assert.Equal(t, [][]string{{"Yes", "1", "2", "3"}}, block.DataRows)
}

func TestExtractor_SkipsPagesWithoutContent(t *testing.T) {
	noTable := approvalPage(2)
	noTable.Table = nil
	noText := approvalPage(3)
	noText.Lines = nil

	src := &fakeSource{
		total: 3,
		pages: map[int]Page{1: approvalPage(1), 2: noTable, 3: noText},
	}
	obs := &recordingObserver{}

	doc, err := NewExtractor(WithObserver(obs)).Extract(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, 1, doc.Blocks[0].Page)
	assert.NotContains(t, doc.String(), "Page: 2")
	assert.NotContains(t, doc.String(), "Page: 3")

	assert.Equal(t, []int{1, 2, 3}, obs.started)
	assert.ErrorIs(t, obs.skipped[2], ErrNoContent)
	assert.ErrorIs(t, obs.skipped[3], ErrNoContent)
	require.NotNil(t, obs.summary)
	assert.Equal(t, Summary{TotalPages: 3, Extracted: 1, Skipped: 2}, *obs.summary)
}

func TestExtractor_SkipsMalformedHeader(t *testing.T) {
	short := approvalPage(2)
	short.Table = [][]string{{"Total", "Male"}, {"", ""}, {"N", "5"}}

	src := &fakeSource{total: 2, pages: map[int]Page{1: approvalPage(1), 2: short}}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, 2, doc.Skipped[0].Page)
	assert.ErrorIs(t, doc.Skipped[0], ErrMalformedHeader)
}

func TestExtractor_PageErrorIsNotFatal(t *testing.T) {
	src := &fakeSource{
		total: 2,
		pages: map[int]Page{2: approvalPage(2)},
		errs:  map[int]error{1: fmt.Errorf("%w: bad font", ErrPageUnreadable)},
	}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, 2, doc.Blocks[0].Page)
	assert.ErrorIs(t, doc.Skipped[0], ErrPageUnreadable)
}

func TestExtractor_MultiPageOrdering(t *testing.T) {
	src := &fakeSource{
		total: 3,
		pages: map[int]Page{1: approvalPage(1), 2: approvalPage(2), 3: approvalPage(3)},
	}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, src.calls)
	b1, err := BuildBlock(approvalPage(1))
	require.NoError(t, err)
	b2, err := BuildBlock(approvalPage(2))
	require.NoError(t, err)
	b3, err := BuildBlock(approvalPage(3))
	require.NoError(t, err)

	assert.Equal(t, b1.String()+"\n\n"+b2.String()+"\n\n"+b3.String(), doc.String())
}

func TestExtractor_EmptyDocument(t *testing.T) {
	doc, err := NewExtractor().Extract(context.Background(), &fakeSource{})
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)
	assert.Equal(t, "", doc.String())
}

func TestExtractor_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().Extract(ctx, &fakeSource{total: 1, pages: map[int]Page{1: approvalPage(1)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDocument_StringJoinsWithBlankLine(t *testing.T) {
	b1, err := BuildBlock(approvalPage(1))
	require.NoError(t, err)
	b4, err := BuildBlock(approvalPage(4))
	require.NoError(t, err)

	doc := &Document{Blocks: []PageBlock{b1, b4}}
	assert.Regexp(t, `(?s)^Page: 1\n.*\n\nPage: 4\n`, doc.String())
}

func TestExtractor_OrdersBlocksByPageNumber(t *testing.T) {
	src := &fakeSource{
		total: 3,
		pages: map[int]Page{1: approvalPage(7), 2: approvalPage(3), 3: approvalPage(5)},
	}

	doc, err := NewExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 3)

	pages := []int{doc.Blocks[0].Page, doc.Blocks[1].Page, doc.Blocks[2].Page}
	assert.Equal(t, []int{3, 5, 7}, pages)
	assert.Regexp(t, `(?s)^Page: 3\n.*\n\nPage: 5\n.*\n\nPage: 7\n`, doc.String())
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(log.New(&buf, "", 0))

	obs.PageStarted(1, 3)
	obs.PageSkipped(2, ErrNoContent)
	obs.PageSkipped(3, fmt.Errorf("%w: found 1", ErrMalformedHeader))
	obs.RunComplete(Summary{TotalPages: 3, Extracted: 1, Skipped: 2})

	assert.Equal(t, "Processing page 1/3\n"+
		"Skipping page 2 (no table or text)\n"+
		"Skipping page 3: table has fewer than three non-blank rows: found 1\n"+
		"Extracted 1 of 3 pages (2 skipped)\n", buf.String())
}
