// Package pdf adapts PDF files to the crosstab extractor: validation with
// pdfcpu, glyph extraction with ledongthuc/pdf and a layout pass that turns
// glyphs into text lines and a table grid.
package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/crosstab-extractor/internal/crosstab"
)

// Service converts PDF documents by orchestrating validation, page
// extraction and block composition.
type Service struct {
	maxFileSize int64
	layout      LayoutOptions
	validator   *Validator
}

// NewService creates a service enforcing maxFileSize on inputs.
func NewService(maxFileSize int64, layout LayoutOptions) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		layout:      layout,
		validator:   NewValidator(maxFileSize),
	}
}

// Preview converts the document and returns its text without writing it.
func (s *Service) Preview(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	if _, err := s.validator.ValidateFile(req.Input); err != nil {
		return nil, &crosstab.DocumentError{Path: req.Input, Op: "open", Err: err}
	}

	doc, err := OpenDocument(req.Input, s.layout)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	extractor := crosstab.NewExtractor(crosstab.WithObserver(req.Observer))
	out, err := extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", doc.Path(), err)
	}

	return &ConvertResult{
		Input:     req.Input,
		Pages:     out.Summary.TotalPages,
		Extracted: out.Summary.Extracted,
		Skipped:   out.Skipped,
		Text:      out.String(),
		Document:  out,
	}, nil
}

// Convert converts the document and writes the text to req.Output, or to
// the default output path when req.Output is empty.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	output := req.Output
	if output == "" {
		output = crosstab.DefaultOutputPath(req.Input)
	}

	result, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := crosstab.WriteFile(output, result.Document); err != nil {
		return nil, err
	}
	result.Output = output

	return result, nil
}

// Validate reports whether path is a readable PDF within the size limit.
func (s *Service) Validate(path string) *ValidateResult {
	result := &ValidateResult{Path: path}

	pages, err := s.validator.ValidateFile(path)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
