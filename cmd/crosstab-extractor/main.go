package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/crosstab-extractor/internal/config"
	"github.com/a3tai/crosstab-extractor/internal/crosstab"
	"github.com/a3tai/crosstab-extractor/internal/mcp"
	"github.com/a3tai/crosstab-extractor/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol; stay silent unless debugging
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
		return
	}

	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// loadConfig parses the command line. A nil config with a nil error means
// --version or --help was handled and the process should exit cleanly.
func loadConfig(args []string, stdout io.Writer) (*config.Config, error) {
	cfg, err := config.Load(args)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(stdout)
		return nil, nil
	case errors.Is(err, pflag.ErrHelp):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return cfg, nil
}

// runCLIMode converts one document and prints the output path
func runCLIMode(ctx context.Context, cfg *config.Config, service *pdf.Service, stdout io.Writer) error {
	req := pdf.ConvertRequest{
		Input:    cfg.Input,
		Output:   cfg.Output,
		Observer: crosstab.NewLogObserver(log.Default()),
	}

	result, err := service.Convert(ctx, req)
	if err != nil {
		return err
	}

	log.Printf("Saved to %s", result.Output)
	fmt.Fprintln(stdout, result.Output)
	return nil
}

// runStdioMode serves MCP until the client disconnects or a signal arrives
func runStdioMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()
		if err := <-serverErrCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	log.Println("Server stopped successfully")
	return nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg == nil {
		return
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	service := pdf.NewService(cfg.MaxFileSize, cfg.Layout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsCLIMode() {
		if err := runCLIMode(ctx, cfg, service, os.Stdout); err != nil {
			log.Fatalf("Conversion failed: %v", err)
		}
		return
	}

	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	if err := runStdioMode(ctx, cancel, server); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Crosstab Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
