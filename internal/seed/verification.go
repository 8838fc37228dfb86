package seed

import (
	"context"
	"fmt"
	"log"
)

// timelineKey is the composite identity a timeline event must be unique by.
type timelineKey struct {
	typ         string
	title       string
	day         string
	contributor string
}

// verifyResults checks the computed timeline, validation report, and alerts
// for internal consistency.
func verifyResults(ctx context.Context, config *Config, events []TimelineEvent, report *ValidationReport, alerts []Alert) error {
	log.Println("verifying results...")

	if len(events) == 0 {
		return fmt.Errorf("no timeline events to verify")
	}

	if err := verifyTimelineOrder(events); err != nil {
		return err
	}
	log.Println("timeline order verified")

	if err := verifyTimelineUniqueness(events); err != nil {
		return err
	}
	log.Println("timeline uniqueness verified")

	displayReport(report, alerts, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// verifyTimelineOrder checks that events are sorted newest first.
func verifyTimelineOrder(events []TimelineEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].Date.After(events[i-1].Date) {
			return fmt.Errorf("timeline not sorted: event %d (%s) is newer than event %d (%s)",
				i, events[i].Date, i-1, events[i-1].Date)
		}
	}
	return nil
}

// verifyTimelineUniqueness checks that no two events share the composite
// (type, title, day, contributor) identity.
func verifyTimelineUniqueness(events []TimelineEvent) error {
	seen := make(map[timelineKey]int, len(events))
	for i, ev := range events {
		contributor := ev.Username
		if contributor == "" {
			contributor = ev.Name
		}
		key := timelineKey{
			typ:         ev.Type,
			title:       ev.Title,
			day:         ev.Date.Format("2006-01-02"),
			contributor: contributor,
		}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate timeline events %d and %d: %s %q on %s by %s",
				prev, i, key.typ, key.title, key.day, key.contributor)
		}
		seen[key] = i
	}
	return nil
}

// displayReport summarizes the validation report and alerts.
func displayReport(report *ValidationReport, alerts []Alert, verbose bool) {
	log.Printf("validation report: %d validated, %d discrepancies",
		len(report.Validated), len(report.Discrepancies))

	if verbose {
		for _, d := range report.Discrepancies {
			log.Printf("   discrepancy: %s: %s", d.Username, d.Description)
		}
	}

	log.Printf("alerts raised: %d", len(alerts))
	if verbose {
		for _, a := range alerts {
			log.Printf("   alert: %s [%s] %s", a.User, a.Status, a.Description)
		}
	}
}
