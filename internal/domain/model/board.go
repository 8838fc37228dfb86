package model

import "time"

// Board item lifecycle states.
const (
	BoardStateOpen   = "open"
	BoardStateClosed = "closed"
)

// BoardColumn is the derived status column of a board item.
type BoardColumn string

const (
	ColumnTodo       BoardColumn = "Todo"
	ColumnInProgress BoardColumn = "In Progress"
	ColumnDone       BoardColumn = "Done"
)

// ProjectBoardItem is a unit of work tracked on the code-hosting project
// board; the primary source of truth for contribution counts.
type ProjectBoardItem struct {
	ID            string
	Title         string
	State         string // BoardStateOpen or BoardStateClosed
	IsPullRequest bool
	Merged        bool // a closed pull request that was actually merged
	CreatedAt     time.Time
	ClosedAt      time.Time // zero when still open
	Assignee      string    // platform username, empty when unassigned
	Column        BoardColumn
}

// Closed reports whether the item has left the open state.
func (i ProjectBoardItem) Closed() bool {
	return i.State == BoardStateClosed
}
