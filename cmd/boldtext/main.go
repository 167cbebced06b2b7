package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ironsheep/boldtext/internal/config"
	"github.com/ironsheep/boldtext/internal/pipeline"
	"github.com/ironsheep/boldtext/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("boldtext - capture a frame and store its bold text")
	fmt.Println()
	fmt.Println("Usage: boldtext [command] [config.yaml]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run              Capture one frame and store bold detections (default)")
	fmt.Println("  serve            Run as an MCP server over stdin/stdout")
	fmt.Println("  version          Print version information")
	fmt.Println("  help             Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BOLDTEXT_CONFIG=path         YAML configuration file")
	fmt.Println("  BOLDTEXT_DB_PATH=path        SQLite database (default extracted_texts.db)")
	fmt.Println("  BOLDTEXT_DEVICE=n            Camera device index (default 0)")
	fmt.Println("  BOLDTEXT_IMAGE=path          Read a still image instead of the camera")
	fmt.Println("  BOLDTEXT_DETECTOR=name       tesseract or edges")
	fmt.Println("  BOLDTEXT_PREVIEW=path        Write an annotated preview image")
	fmt.Println("  BOLDTEXT_LOG_LEVEL=debug     Enable debug logging")
}

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("boldtext %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "run", "serve":
			cmd = args[0]
			args = args[1:]
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol and reports)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("BOLDTEXT_LOG_LEVEL") == "debug" {
		log.Printf("boldtext v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfgPath := os.Getenv("BOLDTEXT_CONFIG")
	if len(args) > 0 {
		cfgPath = args[0]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	switch cmd {
	case "serve":
		if err := server.New(cfg).Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		if err := run(cfg); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
	}
}

func run(cfg *config.Config) error {
	p, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d detected, %d bold, %d rejected\n",
		report.RunID, report.Detected, len(report.Accepted), len(report.Rejected))
	for _, r := range report.Records {
		fmt.Printf("  #%d %q %s (%.2f)\n", r.ID, r.Text, r.BBox, r.Probability)
	}
	if cfg.Preview.Enabled && report.PreviewError == "" {
		fmt.Printf("preview written to %s\n", cfg.Preview.OutputPath)
	}
	return nil
}
