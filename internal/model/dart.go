package model

import "time"

// Side identifies one of the two competing sides in a match
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether the side is one of the two recognized values
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// DartThrow is one recorded dart
type DartThrow struct {
	MatchID    MatchID
	Side       Side
	LegNumber  int
	TurnNumber int
	DartNumber int // 1, 2, or 3 within the turn
	Score      int // raw segment value (0-60, 25, 50)

	// RunningScore is the thrower's remaining score after this dart
	RunningScore int

	IsDoubleAttempt    bool // aimed at a finishing double/bull
	IsCheckoutAttempt  bool // thrown from a checkoutable position
	CheckoutSuccessful bool // reduced remaining score to exactly zero on a double/bull
	Bust               bool // part of a turn that was later ruled a bust

	Timestamp time.Time
}

// TurnData groups the 1-3 darts of a single visit to the oche
type TurnData struct {
	LegNumber          int
	TurnNumber         int
	TotalScore         int
	Darts              []DartThrow
	Bust               bool
	CheckoutAttempt    bool
	CheckoutSuccessful bool
}
