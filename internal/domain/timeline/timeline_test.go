package timeline_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/internal/domain/program"
	"github.com/devpulse/engage/internal/domain/timeline"
	"github.com/devpulse/engage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// sequentialIDs returns a deterministic id source so two synthesis runs over
// identical input produce comparable output.
func sequentialIDs() timeline.IDSource {
	n := 0
	return func() string {
		n++
		return "ev-" + strconv.Itoa(n)
	}
}

func newSynthesizer() *timeline.Synthesizer {
	return timeline.New(timeline.WithIDSource(sequentialIDs()))
}

func day(yyyy int, m time.Month, d int) time.Time {
	return time.Date(yyyy, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSynthesize_BoardItems(t *testing.T) {
	Convey("Given board items of both kinds", t, func() {
		s := newSynthesizer()
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "Fix parser", State: model.BoardStateOpen, CreatedAt: day(2025, time.April, 2), Assignee: "ana"},
			{ID: "2", Title: "Add cache", State: model.BoardStateClosed, IsPullRequest: true, Merged: true,
				CreatedAt: day(2025, time.March, 28), ClosedAt: day(2025, time.April, 5), Assignee: "bob"},
			{ID: "3", Title: "Drop flag", State: model.BoardStateClosed, IsPullRequest: true,
				CreatedAt: day(2025, time.March, 20), ClosedAt: day(2025, time.March, 30), Assignee: "bob"},
		}

		Convey("When synthesizing", func() {
			events := s.Synthesize(context.Background(), items, nil)

			Convey("Then each item should map to the right type and status", func() {
				So(len(events), ShouldEqual, 3)
				byTitle := map[string]model.TimelineEvent{}
				for _, ev := range events {
					byTitle[ev.Title] = ev
				}
				So(byTitle["Fix parser"].Type, ShouldEqual, model.EventTypeIssue)
				So(byTitle["Fix parser"].Status, ShouldEqual, model.EventStatusOpen)
				So(byTitle["Add cache"].Type, ShouldEqual, model.EventTypePR)
				So(byTitle["Add cache"].Status, ShouldEqual, model.EventStatusMerged)
				So(byTitle["Drop flag"].Status, ShouldEqual, model.EventStatusClosed)
			})

			Convey("And closed items should date from their close timestamp", func() {
				for _, ev := range events {
					if ev.Title == "Add cache" {
						So(ev.Date, ShouldEqual, day(2025, time.April, 5))
					}
				}
			})

			Convey("And every event should carry a derived cohort and week", func() {
				for _, ev := range events {
					So(ev.Cohort, ShouldNotBeEmpty)
					So(ev.Week, ShouldStartWith, "Week ")
				}
			})
		})
	})
}

func TestSynthesize_MalformedRecords(t *testing.T) {
	Convey("Given a batch with malformed records", t, func() {
		s := newSynthesizer()
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "No dates at all", State: model.BoardStateOpen, Assignee: "ana"},
			{ID: "2", Title: "Fine", State: model.BoardStateOpen, CreatedAt: day(2025, time.April, 2), Assignee: "ana"},
		}
		surveys := []model.SurveyRecord{
			{Name: "Bob", Week: "someday", Contributions: "3"},
			{Name: "Cid", Week: "Week 5", Contributions: "2"},
		}

		Convey("When synthesizing", func() {
			events := s.Synthesize(context.Background(), items, surveys)

			Convey("Then bad records should be skipped and the rest processed", func() {
				So(len(events), ShouldEqual, 2)
				titles := []string{events[0].Title, events[1].Title}
				So(titles, ShouldContain, "Fine")
			})
		})
	})
}

func TestSynthesize_LiteralZeroRule(t *testing.T) {
	Convey("Given survey rows with varying contribution-count text", t, func() {
		s := newSynthesizer()

		row := func(name, count string) model.SurveyRecord {
			return model.SurveyRecord{Name: name, Week: "Week 3", Contributions: count}
		}

		Convey("When the count is the literal string zero", func() {
			events := s.Synthesize(context.Background(), nil, []model.SurveyRecord{row("Ana", "0")})

			Convey("Then no survey event should be emitted", func() {
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the count is a non-literal zero spelling", func() {
			events := s.Synthesize(context.Background(), nil, []model.SurveyRecord{
				row("Ana", "00"),
				row("Bob", " 0"),
			})

			Convey("Then survey events should still be emitted", func() {
				So(len(events), ShouldEqual, 2)
				So(events[0].Type, ShouldEqual, model.EventTypeSurvey)
			})
		})

		Convey("When the count is positive", func() {
			events := s.Synthesize(context.Background(), nil, []model.SurveyRecord{row("Ana", "4")})

			Convey("Then one survey event should be emitted at the week start", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Date, ShouldEqual, program.WeekStart(3))
			})
		})
	})
}

func TestSynthesize_IssueSlots(t *testing.T) {
	Convey("Given a survey row with three issue slots", t, func() {
		s := newSynthesizer()
		record := model.SurveyRecord{
			Name: "Ana", Week: "Week 4", Contributions: "3",
			Issues: []model.IssueSlot{
				{Title: "Fix parser", Link: "https://example.com/repo/issues/12"},
				{Title: "Add cache", Link: "https://example.com/repo/pull/7"},
				{Title: "", Link: "https://example.com/repo/pull/9"},
			},
		}

		Convey("When synthesizing", func() {
			events := s.Synthesize(context.Background(), nil, []model.SurveyRecord{record})

			Convey("Then empty-title slots should be dropped", func() {
				// one survey event + two slot events
				So(len(events), ShouldEqual, 3)
			})

			Convey("And links containing /pull/ should classify as pull requests", func() {
				byTitle := map[string]model.TimelineEvent{}
				for _, ev := range events {
					byTitle[ev.Title] = ev
				}
				So(byTitle["Fix parser"].Type, ShouldEqual, model.EventTypeIssue)
				So(byTitle["Add cache"].Type, ShouldEqual, model.EventTypePR)
				So(byTitle["Add cache"].URL, ShouldContainSubstring, "/pull/")
			})
		})
	})
}

func TestSynthesize_Dedup(t *testing.T) {
	Convey("Given sources that resolve to the same composite key", t, func() {
		s := newSynthesizer()
		// Week 2 starts exactly seven days after the epoch.
		slotDate := program.WeekStart(2)
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "Fix parser", State: model.BoardStateOpen, CreatedAt: slotDate, Assignee: "ana"},
			{ID: "2", Title: "Fix parser", State: model.BoardStateOpen, CreatedAt: slotDate.Add(4 * time.Hour), Assignee: "Ana"},
		}
		surveys := []model.SurveyRecord{{
			Name: "Ana", Week: "Week 2", Contributions: "0",
			Issues: []model.IssueSlot{{Title: "Fix parser", Link: "https://example.com/repo/issues/12"}},
		}}

		Convey("When synthesizing the union", func() {
			events := s.Synthesize(context.Background(), items, surveys)

			Convey("Then exactly one event should survive for that key", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Title, ShouldEqual, "Fix parser")
			})
		})
	})
}

func TestSynthesize_Idempotence(t *testing.T) {
	Convey("Given a fixed input set", t, func() {
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "Fix parser", State: model.BoardStateOpen, CreatedAt: day(2025, time.April, 2), Assignee: "ana"},
			{ID: "2", Title: "Add cache", State: model.BoardStateClosed, IsPullRequest: true,
				CreatedAt: day(2025, time.March, 28), ClosedAt: day(2025, time.April, 5), Assignee: "bob"},
		}
		surveys := []model.SurveyRecord{
			{Name: "Ana", Week: "Week 4", Contributions: "2"},
		}

		Convey("When synthesizing twice with fresh synthesizers", func() {
			first := newSynthesizer().Synthesize(context.Background(), items, surveys)
			second := newSynthesizer().Synthesize(context.Background(), items, surveys)

			Convey("Then both runs should yield identical output", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestSynthesize_SortOrder(t *testing.T) {
	Convey("Given events scattered across dates", t, func() {
		s := newSynthesizer()
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "a", State: model.BoardStateOpen, CreatedAt: day(2025, time.March, 10), Assignee: "ana"},
			{ID: "2", Title: "b", State: model.BoardStateOpen, CreatedAt: day(2025, time.May, 1), Assignee: "ana"},
			{ID: "3", Title: "c", State: model.BoardStateOpen, CreatedAt: day(2025, time.April, 12), Assignee: "ana"},
			{ID: "4", Title: "d", State: model.BoardStateOpen, CreatedAt: day(2025, time.March, 30), Assignee: "ana"},
		}

		Convey("When synthesizing", func() {
			events := s.Synthesize(context.Background(), items, nil)

			Convey("Then adjacent events should be in non-increasing date order", func() {
				for i := 1; i < len(events); i++ {
					So(events[i-1].Date.Before(events[i].Date), ShouldBeFalse)
				}
			})
		})
	})
}

func TestSynthesize_UniqueIDs(t *testing.T) {
	Convey("Given a default synthesizer", t, func() {
		s := timeline.New()
		items := []model.ProjectBoardItem{
			{ID: "1", Title: "a", State: model.BoardStateOpen, CreatedAt: day(2025, time.March, 10), Assignee: "ana"},
			{ID: "2", Title: "b", State: model.BoardStateOpen, CreatedAt: day(2025, time.March, 11), Assignee: "ana"},
		}

		Convey("When synthesizing", func() {
			events := s.Synthesize(context.Background(), items, nil)

			Convey("Then every event id should be unique within the run", func() {
				ids := map[string]bool{}
				for _, ev := range events {
					So(ids[ev.ID], ShouldBeFalse)
					ids[ev.ID] = true
				}
			})
		})
	})
}
