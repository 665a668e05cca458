package match

import (
	"time"

	"github.com/oche-club/dartscore-go/internal/model"
)

// session is the live scoring state for one match. A single logical writer
// scores a match at a time; the controller serializes access to the session
// map and to each session.
type session struct {
	state *model.GameState

	// pending holds the 0-3 darts of the turn in progress
	pending []model.DartThrow

	// history holds every committed dart of the match, all legs, in order
	history []model.DartThrow

	// legs holds sealed legs
	legs []model.LegData

	// turnNumber is the per-leg visit counter, shared by both sides
	turnNumber int

	// turnStartScore is the thrower's committed score at the start of the turn
	turnStartScore int

	// firstThrower opens leg 1; legs alternate thereafter
	firstThrower model.Side

	// Optional player identities for stats persistence at match completion
	homePlayerID model.PlayerID
	awayPlayerID model.PlayerID

	legStartedAt time.Time

	undo []snapshot
	redo []snapshot
}

// snapshot is a complete, consistent copy of a session's mutable state.
// Restoring one can never leave the session partially rolled back.
type snapshot struct {
	state          model.GameState
	pending        []model.DartThrow
	history        []model.DartThrow
	legs           []model.LegData
	turnNumber     int
	turnStartScore int
	legStartedAt   time.Time
}

func (s *session) snapshot() snapshot {
	return snapshot{
		state:          *s.state,
		pending:        copyThrows(s.pending),
		history:        copyThrows(s.history),
		legs:           copyLegs(s.legs),
		turnNumber:     s.turnNumber,
		turnStartScore: s.turnStartScore,
		legStartedAt:   s.legStartedAt,
	}
}

func (s *session) restore(snap snapshot) {
	state := snap.state
	s.state = &state
	s.pending = copyThrows(snap.pending)
	s.history = copyThrows(snap.history)
	s.legs = copyLegs(snap.legs)
	s.turnNumber = snap.turnNumber
	s.turnStartScore = snap.turnStartScore
	s.legStartedAt = snap.legStartedAt
}

// pushUndo records the current state ahead of a mutation. A new mutation
// after an undo invalidates the redo stack.
func (s *session) pushUndo() {
	s.undo = append(s.undo, s.snapshot())
	s.redo = nil
}

// legThrows returns the committed darts of one leg
func (s *session) legThrows(legNumber int) []model.DartThrow {
	var throws []model.DartThrow
	for _, t := range s.history {
		if t.LegNumber == legNumber {
			throws = append(throws, t)
		}
	}
	return throws
}

// legStarter returns the side that opens the given leg
func (s *session) legStarter(legNumber int) model.Side {
	if legNumber%2 == 1 {
		return s.firstThrower
	}
	return s.firstThrower.Opponent()
}

func copyThrows(throws []model.DartThrow) []model.DartThrow {
	if throws == nil {
		return nil
	}
	out := make([]model.DartThrow, len(throws))
	copy(out, throws)
	return out
}

func copyLegs(legs []model.LegData) []model.LegData {
	if legs == nil {
		return nil
	}
	out := make([]model.LegData, len(legs))
	copy(out, legs)
	for i := range out {
		out[i].Throws = copyThrows(out[i].Throws)
	}
	return out
}
