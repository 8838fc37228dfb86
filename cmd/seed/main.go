package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/devpulse/engage/internal/seed"
)

// Default configuration constants.
const (
	defaultContributors = 25
	defaultSnapshots    = 20
	defaultWeek         = 8
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		cohort       = flag.String("cohort", "cohort-1", "Cohort id to seed")
		week         = flag.Int("week", defaultWeek, "Current program week number")
		contributors = flag.Int("contributors", defaultContributors, "Number of contributors to simulate")
		snapshots    = flag.Int("snapshots", defaultSnapshots, "Number of snapshots to generate and submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for generated snapshots (default: generated_snapshots_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for seeder output (default: seed_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	// Setup logging
	if err := seed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create seeding configuration
	config := &seed.Config{
		BaseURL:      *baseURL,
		Cohort:       *cohort,
		CurrentWeek:  *week,
		Contributors: *contributors,
		Snapshots:    *snapshots,
		Workers:      *workers,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the seeder
	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
