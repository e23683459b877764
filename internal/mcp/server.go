package mcp

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/crosstab-extractor/internal/config"
	"github.com/a3tai/crosstab-extractor/internal/crosstab"
	"github.com/a3tai/crosstab-extractor/internal/descriptions"
	"github.com/a3tai/crosstab-extractor/internal/pdf"
	"github.com/a3tai/crosstab-extractor/internal/security"
)

// previewChars is the number of characters of converted text returned by
// crosstab_extract.
const previewChars = 2000

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	paths      *security.PathValidator
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	paths, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("invalid working directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		paths:      paths,
		mcpServer:  mcpServer,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		descriptions.ToolCrosstabExtract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolCrosstabExtract)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative to the server directory"),
		),
		mcp.WithString("output",
			mcp.Description("Output text file (default: <name>_for_gpt.txt next to the PDF)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleCrosstabExtract)

	previewTool := mcp.NewTool(
		descriptions.ToolCrosstabPreview,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolCrosstabPreview)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative to the server directory"),
		),
	)
	s.mcpServer.AddTool(previewTool, s.handleCrosstabPreview)

	validateTool := mcp.NewTool(
		descriptions.ToolPDFValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPDFValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative to the server directory"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handlePDFValidateFile)
}

func (s *Server) handleCrosstabExtract(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	input, err := s.resolvePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var output string
	if o, ok := request.GetArguments()["output"].(string); ok && o != "" {
		if output, err = s.paths.Resolve(o); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var transcript bytes.Buffer
	req := pdf.ConvertRequest{
		Input:    input,
		Output:   output,
		Observer: crosstab.NewLogObserver(log.New(&transcript, "", 0)),
	}

	result, err := s.pdfService.Convert(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(formatFailure(err, transcript.String())), nil
	}
	log.Printf("Saved %s to %s", result.Input, result.Output)

	return mcp.NewToolResultText(s.formatExtractResult(result, transcript.String())), nil
}

func (s *Server) handleCrosstabPreview(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	input, err := s.resolvePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var transcript bytes.Buffer
	req := pdf.ConvertRequest{
		Input:    input,
		Observer: crosstab.NewLogObserver(log.New(&transcript, "", 0)),
	}

	result, err := s.pdfService.Preview(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(formatFailure(err, transcript.String())), nil
	}

	if result.Text == "" {
		return mcp.NewToolResultText(fmt.Sprintf("No crosstab tables found in %s (%d pages)",
			result.Input, result.Pages)), nil
	}
	return mcp.NewToolResultText(result.Text), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := s.resolvePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.pdfService.Validate(path)

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) resolvePath(request mcp.CallToolRequest) (string, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return "", err
	}
	return s.paths.Resolve(path)
}

func (s *Server) formatExtractResult(result *pdf.ConvertResult, transcript string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Extracted crosstabs from %s\n", result.Input)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Blocks: %d\n", result.Extracted)
	fmt.Fprintf(&b, "Skipped: %d\n", len(result.Skipped))
	fmt.Fprintf(&b, "Saved to: %s\n", result.Output)

	fmt.Fprintf(&b, "\n--- Preview (first %d characters) ---\n", previewChars)
	if result.Text == "" {
		b.WriteString("(no crosstab tables found)\n")
	} else {
		b.WriteString(preview(result.Text, previewChars))
		b.WriteString("\n")
	}

	b.WriteString("\n--- Extraction log ---\n")
	b.WriteString(transcript)

	return b.String()
}

func formatFailure(err error, transcript string) string {
	if transcript == "" {
		return err.Error()
	}
	return fmt.Sprintf("%v\n\n--- Extraction log ---\n%s", err, transcript)
}

// preview returns at most n characters of text.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// Run serves MCP over standard I/O until ctx is canceled or the client
// closes the stream.
func (s *Server) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.config.IsDebug() {
		log.Printf("Starting crosstab MCP server in stdio mode")
		log.Printf("Working directory: %s", s.paths.Root())
		log.Printf("Max file size: %d bytes", s.pdfService.GetMaxFileSize())
		log.Printf("Tools: %s", strings.Join(descriptions.GetAllToolNames(), ", "))
	}

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.Default())

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
