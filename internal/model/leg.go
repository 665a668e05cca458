package model

import "time"

// LegData is one complete leg of a match. Created when the leg begins and
// sealed once a side reaches exactly zero on a double or bull.
type LegData struct {
	MatchID       MatchID
	LegNumber     int
	StartingScore int

	// Winner is empty while the leg is in progress
	Winner Side

	// Remaining scores at the moment the leg ended
	HomeFinalScore int
	AwayFinalScore int

	// WinningDarts is the number of darts the winner threw in this leg
	WinningDarts int

	// Throws holds every dart from both sides in throw order,
	// including darts from bust turns
	Throws []DartThrow

	StartedAt time.Time
	EndedAt   time.Time
}

// TotalDarts returns the number of darts thrown in the leg by both sides
func (l *LegData) TotalDarts() int {
	return len(l.Throws)
}

// ThrowsFor returns the darts thrown by one side, in order
func (l *LegData) ThrowsFor(side Side) []DartThrow {
	var throws []DartThrow
	for _, t := range l.Throws {
		if t.Side == side {
			throws = append(throws, t)
		}
	}
	return throws
}

// Duration returns the elapsed time of the leg
func (l *LegData) Duration() time.Duration {
	if l.EndedAt.IsZero() {
		return 0
	}
	return l.EndedAt.Sub(l.StartedAt)
}
