package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devpulse/engage/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seeding and verification cycle.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting engage snapshot seeder",
		logger.String("baseURL", config.BaseURL),
		logger.String("cohort", config.Cohort),
		logger.Int("currentWeek", config.CurrentWeek),
		logger.Int("contributors", config.Contributors),
		logger.Int("snapshots", config.Snapshots),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate snapshots
	snapshots, err := generateSnapshots(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	// Step 3: Submit snapshots concurrently
	if err := submitSnapshots(ctx, config, snapshots, stats); err != nil {
		return fmt.Errorf("snapshot submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for snapshots to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Fetch computed results
	client := newHTTPClient(config.Timeout)

	events, err := fetchTimeline(ctx, client, config)
	if err != nil {
		return fmt.Errorf("timeline retrieval failed: %w", err)
	}
	stats.TimelineEvents = len(events)

	report, err := fetchValidation(ctx, client, config)
	if err != nil {
		return fmt.Errorf("validation retrieval failed: %w", err)
	}
	stats.Discrepancies = len(report.Discrepancies)

	alerts, err := fetchAlerts(ctx, client, config)
	if err != nil {
		return fmt.Errorf("alert retrieval failed: %w", err)
	}
	stats.AlertsRaised = len(alerts)

	// Step 6: Verify results
	if err := verifyResults(ctx, config, events, report, alerts); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save snapshots to file
	if err := saveSnapshotsToFile(ctx, config, snapshots); err != nil {
		logger.Get().Warn(ctx, "failed to save snapshots to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSnapshotsToFile saves the generated snapshots to a JSON file.
func saveSnapshotsToFile(ctx context.Context, config *Config, snapshots []SnapshotRequest) error {
	if len(snapshots) == 0 {
		return fmt.Errorf("no snapshots to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_snapshots_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, snap := range snapshots {
		jsonData, err := marshalJSON(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write snapshot %d: %w", i, err)
		}

		if i < len(snapshots)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "snapshots saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, snapshotsPerSecond float64

	if stats.SnapshotsSubmitted > 0 {
		successRate = float64(stats.SnapshotsSuccessful) / float64(stats.SnapshotsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		snapshotsPerSecond = float64(stats.SnapshotsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("snapshotsGenerated", stats.SnapshotsGenerated),
		logger.Int("snapshotsSubmitted", stats.SnapshotsSubmitted),
		logger.Int("snapshotsSuccessful", stats.SnapshotsSuccessful),
		logger.Int("snapshotsDuplicate", stats.SnapshotsDuplicate),
		logger.Int("snapshotsFailed", stats.SnapshotsFailed),
		logger.Int("timelineEvents", stats.TimelineEvents),
		logger.Int("discrepancies", stats.Discrepancies),
		logger.Int("alertsRaised", stats.AlertsRaised),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("snapshotsPerSecond", snapshotsPerSecond))
}
