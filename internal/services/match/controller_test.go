package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/oche-club/dartscore-go/internal/dependencies/mocks"
	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/storage/memory"
	"github.com/oche-club/dartscore-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(
		s.storage,
		checkout.New(),
		stats.New(stats.DefaultConfig()),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.ctx = context.Background()
}

func (s *ControllerSuite) newMatch(format model.LegFormat) model.MatchID {
	s.random.QueueString("MATCH0000001")
	state, err := s.controller.CreateMatch(s.ctx, CreateMatchParams{
		Type:          model.MatchTypeLeague,
		Format:        format,
		StartingScore: 501,
		HomeName:      "Oche Club A",
		AwayName:      "Oche Club B",
	})
	s.Require().NoError(err)
	return state.MatchID
}

func (s *ControllerSuite) startMatch(format model.LegFormat) model.MatchID {
	id := s.newMatch(format)
	_, err := s.controller.StartMatch(s.ctx, id)
	s.Require().NoError(err)
	return id
}

// playTurn throws the given darts for the current thrower and completes
// the turn, unless a dart already ended the leg
func (s *ControllerSuite) playTurn(id model.MatchID, scores ...int) *model.GameState {
	var state *model.GameState
	var err error
	for _, score := range scores {
		state, err = s.controller.AddDart(s.ctx, id, score)
		s.Require().NoError(err)
		if state.DartsThrown == 0 {
			// Leg ended mid-turn
			return state
		}
	}
	state, err = s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)
	return state
}

// bringHomeTo plays home down to the given remaining score using full
// turns, with away throwing a single 1 each visit
func (s *ControllerSuite) bringHomeTo(id model.MatchID, target int) *model.GameState {
	plans := map[int][][]int{
		32:  {{60, 60, 60}, {60, 60, 60}, {60, 25, 24}},
		40:  {{60, 60, 60}, {60, 60, 60}, {60, 25, 16}},
		50:  {{60, 60, 60}, {60, 60, 60}, {60, 25, 6}},
		57:  {{60, 60, 60}, {60, 60, 60}, {60, 20, 4}},
		170: {{60, 60, 60}, {60, 57, 34}},
	}
	plan, ok := plans[target]
	s.Require().True(ok, "no plan for target %d", target)

	var state *model.GameState
	for _, turn := range plan {
		state = s.playTurn(id, turn...)
		state = s.playTurn(id, 1)
	}
	s.Require().Equal(target, state.HomeScore)
	return state
}

// Creation and lifecycle

func (s *ControllerSuite) TestCreateMatchStartsInSetup() {
	s.random.QueueString("MATCH0000001")
	state, err := s.controller.CreateMatch(s.ctx, CreateMatchParams{
		Type:          model.MatchTypeLeague,
		Format:        model.FormatBestOf5,
		StartingScore: 501,
		HomeName:      "Oche Club A",
		AwayName:      "Oche Club B",
	})
	s.Require().NoError(err)

	s.Equal(model.MatchID("MATCH0000001"), state.MatchID)
	s.Equal(model.MatchStatusSetup, state.Status)
	s.Equal(501, state.HomeScore)
	s.Equal(501, state.AwayScore)
	s.Equal(1, state.CurrentLeg)
	s.Equal(model.SideHome, state.CurrentThrower)
	s.Zero(state.DartsThrown)
	s.False(state.Complete)
}

func (s *ControllerSuite) TestCreateMatchValidation() {
	cases := []struct {
		name   string
		params CreateMatchParams
		want   error
	}{
		{"bad type", CreateMatchParams{Type: "exhibition", Format: model.FormatSingle, StartingScore: 501}, model.ErrInvalidMatchType},
		{"bad format", CreateMatchParams{Type: model.MatchTypeLeague, Format: "bo9", StartingScore: 501}, model.ErrInvalidLegFormat},
		{"bad starting score", CreateMatchParams{Type: model.MatchTypeLeague, Format: model.FormatSingle, StartingScore: 500}, model.ErrInvalidStartingScore},
		{"bad first thrower", CreateMatchParams{Type: model.MatchTypeLeague, Format: model.FormatSingle, StartingScore: 501, FirstThrower: "left"}, model.ErrInvalidSide},
	}
	for _, tc := range cases {
		_, err := s.controller.CreateMatch(s.ctx, tc.params)
		s.ErrorIs(err, tc.want, tc.name)
	}
}

func (s *ControllerSuite) TestStartMatchTransitionsToPlaying() {
	id := s.newMatch(model.FormatSingle)

	state, err := s.controller.StartMatch(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, state.Status)

	_, err = s.controller.StartMatch(s.ctx, id)
	s.ErrorIs(err, model.ErrMatchAlreadyStarted)
}

func (s *ControllerSuite) TestAddDartBeforeStartRejected() {
	id := s.newMatch(model.FormatSingle)
	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.ErrorIs(err, model.ErrMatchNotStarted)
}

func (s *ControllerSuite) TestUnknownMatch() {
	_, err := s.controller.GetState(s.ctx, "NOSUCHMATCH0")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Turn mechanics

func (s *ControllerSuite) TestAddDartUpdatesRunningScore() {
	id := s.startMatch(model.FormatSingle)

	state, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	s.Equal(441, state.HomeScore)
	s.Equal(1, state.DartsThrown)
	s.True(state.HomeStarted)
	s.False(state.AwayStarted)
}

func (s *ControllerSuite) TestAddDartRejectsInvalidValue() {
	id := s.startMatch(model.FormatSingle)

	for _, v := range []int{-1, 23, 59, 61, 43} {
		_, err := s.controller.AddDart(s.ctx, id, v)
		s.ErrorIs(err, model.ErrInvalidDartValue, "value %d", v)
	}

	state, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(501, state.HomeScore)
	s.Zero(state.DartsThrown)
}

func (s *ControllerSuite) TestFourthDartIsSilentlyIgnored() {
	id := s.startMatch(model.FormatSingle)

	for _, v := range []int{60, 60, 60} {
		_, err := s.controller.AddDart(s.ctx, id, v)
		s.Require().NoError(err)
	}

	state, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	s.Equal(3, state.DartsThrown)
	s.Equal(321, state.HomeScore)

	canUndo, err := s.controller.CanUndo(s.ctx, id)
	s.Require().NoError(err)
	s.True(canUndo)

	// The ignored dart must not have pushed an undo entry
	undos := len(s.mustSession(id).undo)
	s.Equal(3, undos)
}

func (s *ControllerSuite) mustSession(id model.MatchID) *session {
	s.T().Helper()
	s.controller.mu.Lock()
	defer s.controller.mu.Unlock()
	sess, err := s.controller.session(id)
	s.Require().NoError(err)
	return sess
}

func (s *ControllerSuite) TestCompleteTurnWithNoDarts() {
	id := s.startMatch(model.FormatSingle)
	_, err := s.controller.CompleteTurn(s.ctx, id)
	s.ErrorIs(err, model.ErrNoDartsThrown)
}

func (s *ControllerSuite) TestCompleteTurnHandsOverTheOche() {
	id := s.startMatch(model.FormatSingle)

	state := s.playTurn(id, 60, 60, 60)

	s.Equal(321, state.HomeScore)
	s.Equal(501, state.AwayScore)
	s.Equal(model.SideAway, state.CurrentThrower)
	s.Zero(state.DartsThrown)
}

func (s *ControllerSuite) TestTurnMayCompleteWithFewerThanThreeDarts() {
	id := s.startMatch(model.FormatSingle)

	_, err := s.controller.AddDart(s.ctx, id, 26)
	s.Require().NoError(err)
	state, err := s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(475, state.HomeScore)
	s.Equal(model.SideAway, state.CurrentThrower)
}

func (s *ControllerSuite) TestCheckoutAttemptFlagging() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 170)

	// From 170 with 3 darts every throw is a checkout attempt
	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)

	turn, err := s.controller.CurrentTurn(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(turn, 1)
	s.True(turn[0].IsCheckoutAttempt)
	s.False(turn[0].IsDoubleAttempt)
	s.False(turn[0].CheckoutSuccessful)
	s.Equal(110, turn[0].RunningScore)
}

func (s *ControllerSuite) TestDoubleAttemptFlaggedOnFinishingScore() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 32)

	_, err := s.controller.AddDart(s.ctx, id, 16)
	s.Require().NoError(err)

	turn, err := s.controller.CurrentTurn(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(turn, 1)
	s.True(turn[0].IsDoubleAttempt)
	s.True(turn[0].IsCheckoutAttempt)
}

// Busts

func (s *ControllerSuite) TestBustOnScoreOfOne() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 32)

	_, err := s.controller.AddDart(s.ctx, id, 20)
	s.Require().NoError(err)
	_, err = s.controller.AddDart(s.ctx, id, 11)
	s.Require().NoError(err)

	state, err := s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(32, state.HomeScore, "bust must restore the pre-turn score")
	s.Equal(model.SideAway, state.CurrentThrower)

	history, err := s.controller.DartHistory(s.ctx, id)
	s.Require().NoError(err)
	last := history[len(history)-2:]
	s.True(last[0].Bust)
	s.True(last[1].Bust)
	s.Equal(20, last[0].Score)
	s.Equal(11, last[1].Score)
}

func (s *ControllerSuite) TestBustPastZero() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 32)

	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	state, err := s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(32, state.HomeScore)
}

func (s *ControllerSuite) TestBustOnZeroWithoutDoubleFinish() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 57)

	// T19 reaches zero but is not a finishing double
	_, err := s.controller.AddDart(s.ctx, id, 57)
	s.Require().NoError(err)
	state, err := s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(57, state.HomeScore)
	s.Equal(model.SideAway, state.CurrentThrower)
}

func (s *ControllerSuite) TestBustIsDeterministic() {
	run := func() *model.GameState {
		s.SetupTest()
		id := s.startMatch(model.FormatSingle)
		s.bringHomeTo(id, 32)
		_, err := s.controller.AddDart(s.ctx, id, 20)
		s.Require().NoError(err)
		_, err = s.controller.AddDart(s.ctx, id, 11)
		s.Require().NoError(err)
		state, err := s.controller.CompleteTurn(s.ctx, id)
		s.Require().NoError(err)
		return state
	}

	s.Equal(run(), run())
}

func (s *ControllerSuite) TestOvershootThenDoubleDoesNotWinLeg() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)

	// T20 shoots past zero; D20 then matches the stale displayed score
	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	state, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	s.Equal(model.MatchStatusPlaying, state.Status)
	s.Zero(state.HomeLegsWon)
	s.False(state.Complete)
	s.Equal(2, state.DartsThrown)

	state, err = s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(40, state.HomeScore, "bust must restore the pre-turn score")
	s.Equal(model.SideAway, state.CurrentThrower)
}

func (s *ControllerSuite) TestDartsAfterOvershootCarryNoAttemptFlags() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)

	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	_, err = s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)
	_, err = s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	history, err := s.controller.DartHistory(s.ctx, id)
	s.Require().NoError(err)
	visit := history[len(history)-2:]

	// The first dart of the visit was a live attempt on 40
	s.True(visit[0].IsCheckoutAttempt)
	s.True(visit[0].IsDoubleAttempt)
	s.True(visit[0].Bust)

	// After the overshoot the visit is dead; the D20 is not an attempt
	s.False(visit[1].IsCheckoutAttempt)
	s.False(visit[1].IsDoubleAttempt)
	s.False(visit[1].CheckoutSuccessful)
	s.True(visit[1].Bust)

	// The aggregator therefore counts a single attempt for the visit
	game := stats.New(stats.DefaultConfig()).GameStats("", "Oche Club A", visit, nil, false)
	s.Equal(1, game.CheckoutAttempts)
	s.Equal(1, game.DoubleAttempts)
	s.Zero(game.CheckoutHits)
}

// Leg and match completion

func (s *ControllerSuite) TestCheckoutWinsLegImmediately() {
	id := s.startMatch(model.FormatBestOf3)
	s.bringHomeTo(id, 40)

	state, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	s.Equal(2, state.CurrentLeg)
	s.Equal(1, state.HomeLegsWon)
	s.Equal(501, state.HomeScore)
	s.Equal(501, state.AwayScore)
	s.Zero(state.DartsThrown)
	s.False(state.HomeStarted)
	s.False(state.AwayStarted)
	s.Equal(model.SideAway, state.CurrentThrower, "leg start alternates")
	s.Equal(model.MatchStatusPlaying, state.Status)
}

func (s *ControllerSuite) TestMidTurnCheckoutEndsLeg() {
	id := s.startMatch(model.FormatBestOf3)
	s.bringHomeTo(id, 50)

	// Bull finishes on the first dart of the turn
	state, err := s.controller.AddDart(s.ctx, id, 50)
	s.Require().NoError(err)

	s.Equal(1, state.HomeLegsWon)
	s.Equal(2, state.CurrentLeg)
}

func (s *ControllerSuite) TestFinalDartIsMarkedCheckoutSuccessful() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)

	_, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	history, err := s.controller.DartHistory(s.ctx, id)
	s.Require().NoError(err)
	final := history[len(history)-1]
	s.True(final.CheckoutSuccessful)
	s.True(final.IsCheckoutAttempt)
	s.Zero(final.RunningScore)
}

func (s *ControllerSuite) TestSingleFormatFinishesMatchOnFirstLeg() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)

	state, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	s.Equal(model.MatchStatusFinished, state.Status)
	s.True(state.Complete)
	s.Equal(model.SideHome, state.Winner)

	_, err = s.controller.AddDart(s.ctx, id, 20)
	s.ErrorIs(err, model.ErrMatchFinished)
}

func (s *ControllerSuite) TestLegIsSealedWithWinnerAndThrows() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)
	_, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	legs, err := s.controller.Legs(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(legs, 1)

	leg := legs[0]
	s.Equal(model.SideHome, leg.Winner)
	s.Equal(501, leg.StartingScore)
	s.Equal(10, leg.WinningDarts)
	s.Zero(leg.HomeFinalScore)
	s.Equal(498, leg.AwayFinalScore)
	s.Equal(13, leg.TotalDarts())
}

func (s *ControllerSuite) TestCompletedLegIsPersisted() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)
	_, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	saved, err := s.storage.GetLeg(s.ctx, id, 1)
	s.Require().NoError(err)
	s.Equal(model.SideHome, saved.Winner)

	summary, err := s.storage.GetMatchSummary(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.SideHome, summary.Winner)
	s.Equal(1, summary.HomeLegsWon)
}

func (s *ControllerSuite) TestPlayerStatsPersistedOnCompletion() {
	s.random.QueueString("MATCH0000001")
	state, err := s.controller.CreateMatch(s.ctx, CreateMatchParams{
		Type:          model.MatchTypeLeague,
		Format:        model.FormatSingle,
		StartingScore: 501,
		HomeName:      "Alice",
		AwayName:      "Bob",
		HomePlayerID:  "alice",
		AwayPlayerID:  "bob",
	})
	s.Require().NoError(err)
	id := state.MatchID
	_, err = s.controller.StartMatch(s.ctx, id)
	s.Require().NoError(err)

	s.bringHomeTo(id, 40)
	_, err = s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)

	aliceStats, err := s.storage.GetPlayerGameStats(s.ctx, id, "alice")
	s.Require().NoError(err)
	s.True(aliceStats.GameWon)
	s.Equal(10, aliceStats.TotalDarts)
	s.Equal(501, aliceStats.TotalPoints)
	s.Equal(2, aliceStats.Scores180)
	s.Equal(40, aliceStats.HighestCheckout)
	s.Equal(1, aliceStats.LegsWon)

	bobStats, err := s.storage.GetPlayerGameStats(s.ctx, id, "bob")
	s.Require().NoError(err)
	s.False(bobStats.GameWon)
	s.Equal(3, bobStats.TotalDarts)
}

func (s *ControllerSuite) TestPersistenceFailureSurfacesButStateStands() {
	failing := &failingStorage{Storage: memory.New()}
	controller := NewController(
		failing,
		checkout.New(),
		stats.New(stats.DefaultConfig()),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)

	s.random.QueueString("MATCH0000001")
	state, err := controller.CreateMatch(s.ctx, CreateMatchParams{
		Type:          model.MatchTypeLeague,
		Format:        model.FormatBestOf3,
		StartingScore: 501,
		HomeName:      "A",
		AwayName:      "B",
	})
	s.Require().NoError(err)
	id := state.MatchID
	_, err = controller.StartMatch(s.ctx, id)
	s.Require().NoError(err)

	for _, turn := range [][]int{{60, 60, 60}, {60, 60, 60}, {60, 25, 16}} {
		for _, v := range turn {
			_, err = controller.AddDart(s.ctx, id, v)
			s.Require().NoError(err)
		}
		_, err = controller.CompleteTurn(s.ctx, id)
		s.Require().NoError(err)
		_, err = controller.AddDart(s.ctx, id, 1)
		s.Require().NoError(err)
		_, err = controller.CompleteTurn(s.ctx, id)
		s.Require().NoError(err)
	}

	state, err = controller.AddDart(s.ctx, id, 40)
	s.Require().ErrorIs(err, model.ErrPersistence)

	// The leg win applied despite the storage failure
	s.Equal(1, state.HomeLegsWon)
	s.Equal(2, state.CurrentLeg)

	live, err := controller.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(2, live.CurrentLeg)
}

type failingStorage struct {
	*memory.Storage
}

func (f *failingStorage) SaveLeg(ctx context.Context, leg *model.LegData) error {
	return errors.New("connection refused")
}

// Undo / redo

func (s *ControllerSuite) TestUndoRedoRoundTrip() {
	id := s.startMatch(model.FormatSingle)

	before, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)

	for _, v := range []int{60, 60, 60} {
		_, err = s.controller.AddDart(s.ctx, id, v)
		s.Require().NoError(err)
	}
	_, err = s.controller.CompleteTurn(s.ctx, id)
	s.Require().NoError(err)

	after, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)

	for i := 0; i < 4; i++ {
		_, err = s.controller.Undo(s.ctx, id)
		s.Require().NoError(err)
	}

	restored, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(before, restored)

	history, err := s.controller.DartHistory(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(history)

	for i := 0; i < 4; i++ {
		_, err = s.controller.Redo(s.ctx, id)
		s.Require().NoError(err)
	}

	redone, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(after, redone)
}

func (s *ControllerSuite) TestUndoWithEmptyStackIsNoOp() {
	id := s.startMatch(model.FormatSingle)

	state, err := s.controller.Undo(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, state.Status)

	canRedo, err := s.controller.CanRedo(s.ctx, id)
	s.Require().NoError(err)
	s.False(canRedo)
}

func (s *ControllerSuite) TestNewMutationClearsRedoStack() {
	id := s.startMatch(model.FormatSingle)

	_, err := s.controller.AddDart(s.ctx, id, 60)
	s.Require().NoError(err)
	_, err = s.controller.Undo(s.ctx, id)
	s.Require().NoError(err)

	canRedo, err := s.controller.CanRedo(s.ctx, id)
	s.Require().NoError(err)
	s.True(canRedo)

	_, err = s.controller.AddDart(s.ctx, id, 20)
	s.Require().NoError(err)

	canRedo, err = s.controller.CanRedo(s.ctx, id)
	s.Require().NoError(err)
	s.False(canRedo)
}

func (s *ControllerSuite) TestUndoRestoresAFinishedMatch() {
	id := s.startMatch(model.FormatSingle)
	s.bringHomeTo(id, 40)

	state, err := s.controller.AddDart(s.ctx, id, 40)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusFinished, state.Status)

	state, err = s.controller.Undo(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, state.Status)
	s.Equal(40, state.HomeScore)
	s.Zero(state.HomeLegsWon)
}

// Pause / resume

func (s *ControllerSuite) TestPauseBlocksScoring() {
	id := s.startMatch(model.FormatSingle)

	state, err := s.controller.Pause(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPaused, state.Status)

	_, err = s.controller.AddDart(s.ctx, id, 60)
	s.ErrorIs(err, model.ErrMatchPaused)
	_, err = s.controller.Undo(s.ctx, id)
	s.ErrorIs(err, model.ErrMatchPaused)

	state, err = s.controller.Resume(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, state.Status)

	_, err = s.controller.AddDart(s.ctx, id, 60)
	s.NoError(err)
}

func (s *ControllerSuite) TestResumeRequiresPause() {
	id := s.startMatch(model.FormatSingle)
	_, err := s.controller.Resume(s.ctx, id)
	s.ErrorIs(err, model.ErrMatchNotPaused)
}

// End-to-end scenario: a full 501 leg with a 180, a bust, and a checkout

func (s *ControllerSuite) TestFullLegScenario() {
	id := s.startMatch(model.FormatSingle)

	s.playTurn(id, 60, 60, 60) // home 321
	s.playTurn(id, 45, 42, 26) // away 388
	s.playTurn(id, 60, 60, 57) // home 144
	s.playTurn(id, 60, 60, 60) // away 208
	s.playTurn(id, 60, 60, 60) // home busts from 144

	state, err := s.controller.GetState(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(144, state.HomeScore)

	s.playTurn(id, 20)                 // away 188
	state = s.playTurn(id, 60, 52, 32) // home checks out 144

	s.Equal(model.MatchStatusFinished, state.Status)
	s.Equal(model.SideHome, state.Winner)

	legs, err := s.controller.Legs(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(legs, 1)

	homeThrows := legs[0].ThrowsFor(model.SideHome)
	s.Len(homeThrows, 12)

	final := homeThrows[len(homeThrows)-1]
	s.True(final.CheckoutSuccessful)

	statsSvc := stats.New(stats.DefaultConfig())
	homeStats := statsSvc.GameStats("p", "Home", homeThrows, legs, true)
	s.Equal(2, homeStats.Scores180, "the bust 180 still counts for statistics")
	s.Equal(144, homeStats.HighestCheckout)
}
