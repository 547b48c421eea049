package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fairwaylabs/launchmeter/internal/config"
	"github.com/fairwaylabs/launchmeter/internal/events"
	"github.com/fairwaylabs/launchmeter/internal/metrics"
	"github.com/fairwaylabs/launchmeter/internal/pipeline"
	"github.com/fairwaylabs/launchmeter/internal/server"
	"github.com/fairwaylabs/launchmeter/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("launchmeter %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("launchmeter - MCP server for ball speed measurement")
			fmt.Println()
			fmt.Println("Usage: launchmeter [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LAUNCHMETER_LOG_LEVEL=debug       Minimum event level (debug, info, warn, error)")
			fmt.Println("  LAUNCHMETER_METRICS_ADDR=:9090    Serve Prometheus metrics on this address")
			fmt.Println("  LAUNCHMETER_STORE_PATH=shots.db   Persist measurements to this SQLite file")
			fmt.Println("  LAUNCHMETER_MARKER_COUNT=4        Number of reference markers")
			fmt.Println("  LAUNCHMETER_LABELS=ball,club      Detector class names")
			fmt.Println()
			fmt.Println("Tuning thresholds (corner, match, confidence, IoU) are also read")
			fmt.Println("from LAUNCHMETER_* variables; see the config package for the list.")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// A .env file is optional; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	level := events.Info
	if v := os.Getenv("LAUNCHMETER_LOG_LEVEL"); v != "" {
		parsed, err := events.ParseLevel(v)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		level = parsed
	}
	sink := events.NewLogSink(level, os.Stderr, false)

	opts := []pipeline.Option{pipeline.WithSink(sink)}

	m := metrics.New()
	opts = append(opts, pipeline.WithMetrics(m))
	if addr := os.Getenv("LAUNCHMETER_METRICS_ADDR"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	if path := os.Getenv("LAUNCHMETER_STORE_PATH"); path != "" {
		shots, err := store.Open(path)
		if err != nil {
			log.Fatalf("Failed to open shot store: %v", err)
		}
		defer shots.Close()
		opts = append(opts, pipeline.WithStore(shots))
	}

	srv := server.New(pipeline.New(cfg, opts...))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
