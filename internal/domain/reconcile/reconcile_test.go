package reconcile_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/internal/domain/reconcile"
	"github.com/devpulse/engage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func boardItem(id, assignee string) model.ProjectBoardItem {
	return model.ProjectBoardItem{ID: id, Title: "item " + id, State: model.BoardStateOpen, Assignee: assignee}
}

func TestReconcile_SkipPolicy(t *testing.T) {
	Convey("Given an empty project board", t, func() {
		e := reconcile.New()
		surveys := []model.SurveyRecord{
			{Name: "Ana", Contributions: "5"},
		}

		Convey("When reconciling", func() {
			validated, discrepancies := e.Reconcile(context.Background(), nil, nil, surveys, 1)

			Convey("Then validation should be skipped wholesale", func() {
				So(validated, ShouldBeEmpty)
				So(discrepancies, ShouldBeEmpty)
			})
		})
	})
}

func TestReconcile_PrimaryCheck(t *testing.T) {
	Convey("Given one board item assigned to ana", t, func() {
		e := reconcile.New()
		items := []model.ProjectBoardItem{boardItem("1", "ana")}

		Convey("When ana reports three contributions with tolerance 1", func() {
			surveys := []model.SurveyRecord{{Name: "Ana", Contributions: "3"}}
			validated, discrepancies := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then the primary check should fail", func() {
				vc, ok := validated["ana"]
				So(ok, ShouldBeTrue)
				So(vc.Reported, ShouldEqual, 3)
				So(vc.BoardCount, ShouldEqual, 1)
				So(vc.IsValid, ShouldBeFalse)
			})

			Convey("And one discrepancy should mention the Project Board", func() {
				found := false
				for _, d := range discrepancies {
					if d.Username == "ana" && strings.Contains(d.Description, "Project Board") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When ana reports a count within tolerance", func() {
			surveys := []model.SurveyRecord{{Name: "Ana", Contributions: "2"}}
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then the primary check should pass", func() {
				So(validated["ana"].IsValid, ShouldBeTrue)
			})
		})
	})
}

func TestReconcile_SecondaryCheck(t *testing.T) {
	Convey("Given a board and a contributor profile for ana", t, func() {
		e := reconcile.New()
		items := []model.ProjectBoardItem{boardItem("1", "ana"), boardItem("2", "ana")}
		surveys := []model.SurveyRecord{{Name: "Ana", Contributions: "2"}}

		Convey("When the profile total is far from the board count", func() {
			profiles := map[string]model.ContributorProfile{
				"ana": {Username: "ana", IssuesCreated: 5, PullRequestsCreated: 3, PullRequestsReviewed: 2},
			}
			validated, discrepancies := e.Reconcile(context.Background(), items, profiles, surveys, 1)

			Convey("Then the secondary check should fail independently", func() {
				vc := validated["ana"]
				So(vc.ProfileCount, ShouldEqual, 10)
				So(vc.BoardCount, ShouldEqual, 2)
				So(vc.IsValid, ShouldBeTrue)
				So(vc.ContributorValid, ShouldBeFalse)
				So(len(discrepancies), ShouldEqual, 1)
				So(discrepancies[0].Description, ShouldContainSubstring, "contributor profile")
			})
		})

		Convey("When the profile is missing entirely", func() {
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 2)

			Convey("Then the profile count should default to zero", func() {
				So(validated["ana"].ProfileCount, ShouldEqual, 0)
				So(validated["ana"].ContributorValid, ShouldBeTrue)
			})
		})
	})
}

func TestReconcile_ToleranceMonotonicity(t *testing.T) {
	Convey("Given a fixed tolerance", t, func() {
		e := reconcile.New()
		items := []model.ProjectBoardItem{boardItem("1", "ana")}
		const tolerance = 2

		Convey("Then widening the gap past the tolerance should flip valid to invalid exactly once", func() {
			prevValid := true
			for reported := 1; reported <= 10; reported++ {
				surveys := []model.SurveyRecord{{Name: "Ana", Contributions: strconv.Itoa(reported)}}
				validated, _ := e.Reconcile(context.Background(), items, nil, surveys, tolerance)
				valid := validated["ana"].IsValid
				// Once invalid, a larger gap must never become valid again.
				if !prevValid {
					So(valid, ShouldBeFalse)
				}
				prevValid = valid
			}
		})
	})
}

func TestReconcile_LastWriteWins(t *testing.T) {
	Convey("Given two survey rows for the same normalized username", t, func() {
		e := reconcile.New()
		items := []model.ProjectBoardItem{boardItem("1", "ana")}
		surveys := []model.SurveyRecord{
			{Name: "Ana", Contributions: "9"},
			{Name: "ana", Contributions: "1"},
		}

		Convey("When reconciling", func() {
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then exactly one entry should exist, computed from the later row", func() {
				So(len(validated), ShouldEqual, 1)
				So(validated["ana"].Reported, ShouldEqual, 1)
				So(validated["ana"].IsValid, ShouldBeTrue)
			})
		})
	})
}

func TestReconcile_DirtyInput(t *testing.T) {
	Convey("Given dirty survey input", t, func() {
		e := reconcile.New()
		items := []model.ProjectBoardItem{boardItem("1", "ana")}

		Convey("When a record has no contributor name", func() {
			surveys := []model.SurveyRecord{
				{Name: "   ", Contributions: "4"},
				{Name: "Ana", Contributions: "1"},
			}
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then the nameless record should be skipped silently", func() {
				So(len(validated), ShouldEqual, 1)
				So(validated["ana"].Reported, ShouldEqual, 1)
			})
		})

		Convey("When the contribution count is not numeric", func() {
			surveys := []model.SurveyRecord{{Name: "Ana", Contributions: "a few"}}
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then the reported count should degrade to zero", func() {
				So(validated["ana"].Reported, ShouldEqual, 0)
				So(validated["ana"].IsValid, ShouldBeTrue)
			})
		})

		Convey("When the record carries an explicit platform username", func() {
			surveys := []model.SurveyRecord{{Name: "Ana Maria", Username: "ana", Contributions: "1"}}
			validated, _ := e.Reconcile(context.Background(), items, nil, surveys, 1)

			Convey("Then the username should take precedence over the display name", func() {
				So(validated["ana"].BoardCount, ShouldEqual, 1)
			})
		})
	})
}
