// Package timeline merges project-board items and survey rows into one
// deduplicated, chronologically ordered activity timeline.
package timeline

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devpulse/engage/internal/domain/identity"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/internal/domain/program"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/devpulse/engage/pkg/metrics"
)

// literalZeroCount is the exact string a survey row reports when a week had
// no contributions. The gate is a string comparison against this literal,
// not a numeric one: values like "00" or " 0" still emit a survey event.
const literalZeroCount = "0"

// surveyEventTitle is the fixed title of per-week survey events; the dedup
// key distinguishes them by date and contributor.
const surveyEventTitle = "Weekly survey response"

// pullLinkMarker classifies an issue-slot link as a pull request.
const pullLinkMarker = "/pull/"

var errNoDate = errors.New("record has no usable date")

// Normalizer maps a raw display name or handle to a canonical username.
type Normalizer func(string) string

// IDSource produces event ids unique within one synthesis run.
type IDSource func() string

// dedupKey is the composite identity of a timeline event. Within one
// synthesis call the key is unique; the first occurrence wins.
type dedupKey struct {
	typ         model.EventType
	title       string
	day         string
	contributor string
}

// Synthesizer builds activity timelines. It holds no per-run state: the
// dedup set lives inside each Synthesize call, so concurrent calls for
// different cohorts cannot cross-contaminate each other's decisions.
type Synthesizer struct {
	normalize Normalizer
	newID     IDSource
	logger    logger.Logger
}

// New creates a timeline synthesizer with configuration options.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		normalize: identity.Normalize,
		newID:     uuid.NewString,
		logger:    logger.Get().Named("timeline"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Synthesize merges board items and survey rows into a single timeline,
// newest first. A record with an unparseable date is skipped with a logged
// error; a single bad record never aborts the batch. Events are
// deduplicated by (type, title, day, contributor), filtered to require a
// non-empty title and a valid date, and sorted by date descending.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	boardItems []model.ProjectBoardItem,
	surveys []model.SurveyRecord,
) []model.TimelineEvent {
	// Request-scoped dedup memory; must not survive past this call.
	seen := make(map[dedupKey]struct{})
	events := make([]model.TimelineEvent, 0, len(boardItems)+len(surveys))

	for _, item := range boardItems {
		ev, err := s.boardEvent(item)
		if err != nil {
			s.logger.Error(ctx, "skipping board item",
				logger.String("id", item.ID),
				logger.Error(err),
			)
			metrics.RecordRecordSkipped("timeline", "malformed_date")
			continue
		}
		events = s.append(events, seen, ev)
	}

	for _, record := range surveys {
		if strings.TrimSpace(record.Name) == "" {
			metrics.RecordRecordSkipped("timeline", "empty_identity")
			continue
		}

		week, ok := program.ParseWeekLabel(record.Week)
		if !ok {
			s.logger.Error(ctx, "skipping survey record with unparseable week",
				logger.String("name", record.Name),
				logger.String("week", record.Week),
			)
			metrics.RecordRecordSkipped("timeline", "malformed_date")
			continue
		}
		date := program.WeekStart(week)

		if record.Contributions != literalZeroCount {
			events = s.append(events, seen, s.surveyEvent(record, date))
		}

		for _, slot := range record.Issues {
			if strings.TrimSpace(slot.Title) == "" {
				continue
			}
			events = s.append(events, seen, s.slotEvent(record, slot, date))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})

	metrics.RecordTimelineEvents(len(events))

	return events
}

// append admits ev unless its composite key was already seen or it fails
// the title/date filter. First occurrence wins.
func (s *Synthesizer) append(events []model.TimelineEvent, seen map[dedupKey]struct{}, ev model.TimelineEvent) []model.TimelineEvent {
	if strings.TrimSpace(ev.Title) == "" || ev.Date.IsZero() {
		metrics.RecordRecordSkipped("timeline", "unfit_event")
		return events
	}

	key := dedupKey{
		typ:         ev.Type,
		title:       ev.Title,
		day:         ev.Date.Format("2006-01-02"),
		contributor: ev.Username,
	}
	if _, dup := seen[key]; dup {
		metrics.RecordDuplicateCollapsed()
		return events
	}
	seen[key] = struct{}{}

	return append(events, ev)
}

// boardEvent maps a project-board item to a timeline event. Closed items
// date from their close timestamp, open ones from creation; an item with
// neither is unusable.
func (s *Synthesizer) boardEvent(item model.ProjectBoardItem) (model.TimelineEvent, error) {
	date := item.CreatedAt
	if item.Closed() && !item.ClosedAt.IsZero() {
		date = item.ClosedAt
	}
	if date.IsZero() {
		return model.TimelineEvent{}, errNoDate
	}
	date = program.Day(date)

	typ := model.EventTypeIssue
	if item.IsPullRequest {
		typ = model.EventTypePR
	}

	status := model.EventStatusOpen
	if item.Closed() {
		status = model.EventStatusClosed
		// A closed pull request that was actually merged outranks plain closure.
		if item.IsPullRequest && item.Merged {
			status = model.EventStatusMerged
		}
	}

	return model.TimelineEvent{
		ID:       s.newID(),
		Type:     typ,
		Title:    item.Title,
		Date:     date,
		Name:     item.Assignee,
		Username: s.normalize(item.Assignee),
		Cohort:   program.CohortFor(date),
		Week:     program.WeekLabel(program.Week(date)),
		Status:   status,
	}, nil
}

// surveyEvent emits the per-week activity marker for a survey record.
func (s *Synthesizer) surveyEvent(record model.SurveyRecord, date time.Time) model.TimelineEvent {
	return model.TimelineEvent{
		ID:          s.newID(),
		Type:        model.EventTypeSurvey,
		Title:       surveyEventTitle,
		Date:        date,
		Name:        record.Name,
		Username:    s.contributor(record),
		TechPartner: record.TechPartners,
		Cohort:      program.CohortFor(date),
		Week:        program.WeekLabel(program.Week(date)),
		Status:      model.EventStatusClosed,
		Description: record.Engagement,
	}
}

// slotEvent maps one survey issue slot to an issue or pull-request event.
func (s *Synthesizer) slotEvent(record model.SurveyRecord, slot model.IssueSlot, date time.Time) model.TimelineEvent {
	typ := model.EventTypeIssue
	if strings.Contains(slot.Link, pullLinkMarker) {
		typ = model.EventTypePR
	}

	return model.TimelineEvent{
		ID:          s.newID(),
		Type:        typ,
		Title:       slot.Title,
		URL:         slot.Link,
		Date:        date,
		Name:        record.Name,
		Username:    s.contributor(record),
		TechPartner: record.TechPartners,
		Cohort:      program.CohortFor(date),
		Week:        program.WeekLabel(program.Week(date)),
		Status:      model.EventStatusOpen,
		Description: slot.Description,
	}
}

// contributor prefers the record's platform username over its display name.
func (s *Synthesizer) contributor(record model.SurveyRecord) string {
	if u := s.normalize(record.Username); u != "" {
		return u
	}
	return s.normalize(record.Name)
}
