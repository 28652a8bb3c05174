package schedule

import "time"

// Board splits a user's entries the way the dashboard shows them
type Board struct {
	Review []*Entry // reviewed before and due now
	Future []*Entry // reviewed before and due later
	New    []*Entry // never reviewed
}

// GroupEntries sorts entries into board sections, keeping their input order
func GroupEntries(entries []*Entry, now time.Time) Board {
	var board Board
	for _, e := range entries {
		switch {
		case e.IsNew():
			board.New = append(board.New, e)
		case e.IsDue(now):
			board.Review = append(board.Review, e)
		default:
			board.Future = append(board.Future, e)
		}
	}
	return board
}

// Len returns the number of entries on the board
func (b Board) Len() int {
	return len(b.Review) + len(b.Future) + len(b.New)
}
