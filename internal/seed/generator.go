package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/devpulse/engage/internal/domain/program"
	"github.com/devpulse/engage/internal/ingest"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/google/uuid"
)

// Generation tuning constants.
const (
	maxBoardItemsPerContributor = 4
	discrepancyOdds             = 5  // one in N contributors over-reports
	inactiveOdds                = 4  // one in N contributors stops reporting
	duplicateOdds               = 5  // one in N snapshots reuses a prior id
	inactiveWeeksBehind         = 3  // how far behind inactive contributors fall
	pullRequestOdds             = 3  // one in N board items is a pull request
	overReportInflation         = 10 // how much over-reporters inflate counts
)

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Farid", "Grace", "Hugo",
	"Iris", "Joao", "Kira", "Liam", "Mona", "Nadia", "Omar", "Priya",
	"Quinn", "Rosa", "Sami", "Tara",
}

var lastNames = []string{
	"Silva", "Chen", "Okafor", "Haddad", "Novak", "Iyer", "Moreau",
	"Kowalski", "Tanaka", "Alvarez",
}

var taskTitles = []string{
	"Fix parser crash on empty input",
	"Add retry logic to uploader",
	"Refactor session cache",
	"Document the ingestion API",
	"Migrate CI to new runners",
	"Improve timeline query latency",
	"Handle null assignees in board sync",
	"Add pagination to contributor list",
}

// contributor is the stable identity generated snapshots revolve around.
type contributor struct {
	name       string
	username   string
	boardItems []BoardItem
	profile    Profile
	latestWeek int
	overStater bool
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateSnapshots builds the contributor pool and derives snapshots from
// it. A fraction of snapshots reuse a prior snapshot id to exercise the
// intake dedupe path.
func generateSnapshots(ctx context.Context, config *Config, stats *Stats) ([]SnapshotRequest, error) {
	logger.Get().Info(ctx, "generating snapshots",
		logger.Int("contributors", config.Contributors),
		logger.Int("snapshots", config.Snapshots),
	)

	contributors := generateContributors(config)

	snapshots := make([]SnapshotRequest, 0, config.Snapshots)
	for i := 0; i < config.Snapshots; i++ {
		snap := buildSnapshot(config, contributors)
		if i > 0 && randomInt(duplicateOdds) == 0 {
			// Reuse an earlier id so the service sees a duplicate.
			snap.SnapshotID = snapshots[randomInt(i)].SnapshotID
		}
		snapshots = append(snapshots, snap)
	}

	stats.SnapshotsGenerated = len(snapshots)
	logger.Get().Info(ctx, "generated snapshots successfully", logger.Int("count", len(snapshots)))

	return snapshots, nil
}

// generateContributors builds the shared pool of identities with their
// board items and profile counts.
func generateContributors(config *Config) []contributor {
	contributors := make([]contributor, config.Contributors)

	for i := range contributors {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		username := first + last + strconv.Itoa(i)

		itemCount := 1 + randomInt(maxBoardItemsPerContributor)
		items := make([]BoardItem, 0, itemCount)
		var issues, prs int
		for j := 0; j < itemCount; j++ {
			item := buildBoardItem(config, username)
			if item.IsPullRequest {
				prs++
			} else {
				issues++
			}
			items = append(items, item)
		}

		latestWeek := config.CurrentWeek
		if randomInt(inactiveOdds) == 0 && config.CurrentWeek > inactiveWeeksBehind {
			latestWeek = config.CurrentWeek - inactiveWeeksBehind
		}

		contributors[i] = contributor{
			name:       first + " " + last,
			username:   username,
			boardItems: items,
			profile: Profile{
				Username:            username,
				IssuesCreated:       issues,
				PullRequestsCreated: prs,
			},
			latestWeek: latestWeek,
			overStater: randomInt(discrepancyOdds) == 0,
		}
	}

	return contributors
}

// buildBoardItem creates one board item assigned to username, dated inside
// the cohort's active window.
func buildBoardItem(config *Config, username string) BoardItem {
	week := 1 + randomInt(config.CurrentWeek)
	created := program.WeekStart(week).Add(time.Duration(randomInt(5)) * 24 * time.Hour)

	item := BoardItem{
		ID:            uuid.New().String(),
		Title:         taskTitles[randomInt(len(taskTitles))],
		State:         "open",
		IsPullRequest: randomInt(pullRequestOdds) == 0,
		CreatedAt:     created.Format(time.RFC3339),
		Assignee:      username,
		Column:        "In Progress",
	}

	if randomInt(2) == 0 {
		item.State = "closed"
		item.ClosedAt = created.Add(48 * time.Hour).Format(time.RFC3339)
		item.Column = "Done"
		if item.IsPullRequest {
			item.Merged = true
		}
	}

	return item
}

// buildSnapshot derives one full snapshot from the contributor pool.
func buildSnapshot(config *Config, contributors []contributor) SnapshotRequest {
	rows := make([]map[string]string, 0, len(contributors))
	items := make([]BoardItem, 0, len(contributors)*2)
	profiles := make([]Profile, 0, len(contributors))

	for _, c := range contributors {
		reported := len(c.boardItems)
		if c.overStater {
			reported += overReportInflation
		}

		row := map[string]string{
			ingest.ColName:          c.name,
			ingest.ColUsername:      c.username,
			ingest.ColWeek:          program.WeekLabel(c.latestWeek),
			ingest.ColEngagement:    "Active",
			ingest.ColContributions: strconv.Itoa(reported),
		}
		if len(c.boardItems) > 0 {
			// First slot points at a real board title, exercising dedup.
			row["Issue 1 Title"] = c.boardItems[0].Title
			row["Issue 1 Link"] = "https://example.com/org/repo/issues/" + strconv.Itoa(randomInt(1000))
		}
		rows = append(rows, row)

		items = append(items, c.boardItems...)
		profiles = append(profiles, c.profile)
	}

	return SnapshotRequest{
		SnapshotID:  uuid.New().String(),
		Cohort:      config.Cohort,
		CurrentWeek: program.WeekLabel(config.CurrentWeek),
		SurveyRows:  rows,
		BoardItems:  items,
		Profiles:    profiles,
	}
}
