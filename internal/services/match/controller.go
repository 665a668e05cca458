package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oche-club/dartscore-go/internal/dependencies/clock"
	"github.com/oche-club/dartscore-go/internal/dependencies/random"
	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/storage"
)

const matchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CreateMatchParams is the starting configuration supplied by the caller
type CreateMatchParams struct {
	Type          model.MatchType
	Format        model.LegFormat
	StartingScore int

	HomeName string
	AwayName string

	// Optional player identities; when set, per-player game stats are
	// persisted on match completion
	HomePlayerID model.PlayerID
	AwayPlayerID model.PlayerID

	// FirstThrower opens leg 1; defaults to home
	FirstThrower model.Side
}

// Controller owns live match sessions and the legal transitions between
// turns, legs, and matches. In-memory transitions always commit before
// persistence runs; a persistence failure is surfaced wrapped in
// model.ErrPersistence alongside the already-applied state.
type Controller struct {
	mu       sync.Mutex
	sessions map[model.MatchID]*session

	storage         storage.Storage
	checkoutService *checkout.Service
	statsService    *stats.Service
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger
}

// NewController creates a new match controller
func NewController(
	storage storage.Storage,
	checkoutService *checkout.Service,
	statsService *stats.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		sessions:        make(map[model.MatchID]*session),
		storage:         storage,
		checkoutService: checkoutService,
		statsService:    statsService,
		clock:           clock,
		random:          random,
		logger:          logger,
	}
}

// CreateMatch sets up a new match session in the setup state
func (c *Controller) CreateMatch(ctx context.Context, params CreateMatchParams) (*model.GameState, error) {
	if !params.Type.Valid() {
		return nil, model.ErrInvalidMatchType
	}
	if !params.Format.Valid() {
		return nil, model.ErrInvalidLegFormat
	}
	if !model.ValidStartingScore(params.StartingScore) {
		return nil, model.ErrInvalidStartingScore
	}
	if params.FirstThrower == "" {
		params.FirstThrower = model.SideHome
	}
	if !params.FirstThrower.Valid() {
		return nil, model.ErrInvalidSide
	}

	now := c.clock.Now()
	matchID := model.MatchID(c.random.String(12, matchIDAlphabet))

	state := &model.GameState{
		MatchID:        matchID,
		Status:         model.MatchStatusSetup,
		Type:           params.Type,
		Format:         params.Format,
		StartingScore:  params.StartingScore,
		HomeName:       params.HomeName,
		AwayName:       params.AwayName,
		CurrentLeg:     1,
		HomeScore:      params.StartingScore,
		AwayScore:      params.StartingScore,
		CurrentThrower: params.FirstThrower,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sess := &session{
		state:          state,
		turnNumber:     1,
		turnStartScore: params.StartingScore,
		firstThrower:   params.FirstThrower,
		homePlayerID:   params.HomePlayerID,
		awayPlayerID:   params.AwayPlayerID,
	}

	c.mu.Lock()
	c.sessions[matchID] = sess
	c.mu.Unlock()

	c.logger.Info("match created",
		slog.String("match_id", string(matchID)),
		slog.String("type", string(params.Type)),
		slog.String("format", string(params.Format)),
		slog.Int("starting_score", params.StartingScore),
	)

	return state.Clone(), nil
}

// StartMatch transitions a match from setup to playing
func (c *Controller) StartMatch(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}

	switch sess.state.Status {
	case model.MatchStatusFinished:
		return nil, model.ErrMatchFinished
	case model.MatchStatusPlaying, model.MatchStatusPaused:
		return nil, model.ErrMatchAlreadyStarted
	}

	now := c.clock.Now()
	sess.state.Status = model.MatchStatusPlaying
	sess.state.UpdatedAt = now
	sess.legStartedAt = now

	c.logger.Info("match started", slog.String("match_id", string(matchID)))

	return sess.state.Clone(), nil
}

// GetState returns a copy of the current match state
func (c *Controller) GetState(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	return sess.state.Clone(), nil
}

// AddDart records one dart for the current thrower. A fourth dart in a
// full turn is silently ignored. If the dart reduces the remaining score
// to exactly zero on a double or bull, the leg is won immediately.
func (c *Controller) AddDart(ctx context.Context, matchID model.MatchID, score int) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.mutableSession(matchID)
	if err != nil {
		return nil, err
	}

	if !c.checkoutService.IsValidDartValue(score) {
		return nil, model.ErrInvalidDartValue
	}

	// Turn is full; caller must complete it first
	if len(sess.pending) == 3 {
		return sess.state.Clone(), nil
	}

	sess.pushUndo()

	state := sess.state
	side := state.CurrentThrower

	// Remaining score after the darts already thrown this turn. The
	// displayed score never drops past zero, so a prior overshoot must be
	// carried here rather than read back from the state.
	preThrow := sess.turnStartScore
	for _, d := range sess.pending {
		preThrow -= d.Score
	}
	dartsInHand := 3 - len(sess.pending)

	throw := model.DartThrow{
		MatchID:           matchID,
		Side:              side,
		LegNumber:         state.CurrentLeg,
		TurnNumber:        sess.turnNumber,
		DartNumber:        len(sess.pending) + 1,
		Score:             score,
		RunningScore:      preThrow - score,
		IsDoubleAttempt:   c.checkoutService.IsFinishingDouble(preThrow),
		IsCheckoutAttempt: c.checkoutService.IsCheckoutAttempt(preThrow, dartsInHand),
		Timestamp:         c.clock.Now(),
	}
	if throw.RunningScore == 0 && c.checkoutService.IsFinishingDouble(score) {
		throw.CheckoutSuccessful = true
	}

	sess.pending = append(sess.pending, throw)
	state.DartsThrown = len(sess.pending)

	if score > 0 && !state.Started(side) {
		c.markStarted(state, side)
	}

	// A throw past zero leaves the displayed score at its pre-dart value;
	// the turn will be ruled a bust at completion
	if throw.RunningScore >= 0 {
		state.SetScore(side, throw.RunningScore)
	}
	state.UpdatedAt = throw.Timestamp

	if throw.CheckoutSuccessful {
		return c.winLeg(ctx, sess)
	}

	return state.Clone(), nil
}

// CompleteTurn seals the turn in progress. Busts are detected here: a
// post-turn remaining score below zero, equal to one, or equal to zero
// without a double finish discards the turn's score effect while keeping
// the thrown darts in history flagged as a bust.
func (c *Controller) CompleteTurn(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.mutableSession(matchID)
	if err != nil {
		return nil, err
	}
	if len(sess.pending) == 0 {
		return nil, model.ErrNoDartsThrown
	}

	sess.pushUndo()

	state := sess.state
	side := state.CurrentThrower

	turnTotal := 0
	for _, d := range sess.pending {
		turnTotal += d.Score
	}
	postTurn := sess.turnStartScore - turnTotal
	lastDart := sess.pending[len(sess.pending)-1]

	if postTurn == 0 && c.checkoutService.IsFinishingDouble(lastDart.Score) {
		// Normally handled inside AddDart; seal the leg here as well
		return c.winLeg(ctx, sess)
	}

	bust := postTurn < 0 || postTurn == 1 || postTurn == 0
	if bust {
		for i := range sess.pending {
			sess.pending[i].Bust = true
		}
		state.SetScore(side, sess.turnStartScore)
	} else {
		state.SetScore(side, postTurn)
	}

	c.commitTurn(sess)
	state.UpdatedAt = c.clock.Now()

	return state.Clone(), nil
}

// commitTurn moves pending darts to history and hands the oche to the
// other side
func (c *Controller) commitTurn(sess *session) {
	sess.history = append(sess.history, sess.pending...)
	sess.pending = nil
	sess.turnNumber++

	state := sess.state
	state.CurrentThrower = state.CurrentThrower.Opponent()
	state.DartsThrown = 0
	sess.turnStartScore = state.Score(state.CurrentThrower)
}

// winLeg seals the current leg for the current thrower and either finishes
// the match or starts the next leg. The in-memory transition commits before
// persistence; a storage failure is returned wrapped in model.ErrPersistence
// with the applied state.
func (c *Controller) winLeg(ctx context.Context, sess *session) (*model.GameState, error) {
	state := sess.state
	winner := state.CurrentThrower
	now := c.clock.Now()

	// Commit the winning turn
	sess.history = append(sess.history, sess.pending...)
	sess.pending = nil
	state.DartsThrown = 0

	legNumber := state.CurrentLeg
	throws := sess.legThrows(legNumber)
	winnerDarts := 0
	for _, t := range throws {
		if t.Side == winner {
			winnerDarts++
		}
	}

	leg := model.LegData{
		MatchID:        state.MatchID,
		LegNumber:      legNumber,
		StartingScore:  state.StartingScore,
		Winner:         winner,
		HomeFinalScore: state.HomeScore,
		AwayFinalScore: state.AwayScore,
		WinningDarts:   winnerDarts,
		Throws:         throws,
		StartedAt:      sess.legStartedAt,
		EndedAt:        now,
	}
	sess.legs = append(sess.legs, leg)

	if winner == model.SideHome {
		state.HomeLegsWon++
	} else {
		state.AwayLegsWon++
	}

	c.logger.Info("leg won",
		slog.String("match_id", string(state.MatchID)),
		slog.Int("leg", legNumber),
		slog.String("winner", string(winner)),
		slog.Int("darts", winnerDarts),
	)

	if state.LegsWon(winner) >= state.Format.RequiredLegs() {
		state.Status = model.MatchStatusFinished
		state.Complete = true
		state.Winner = winner
		state.UpdatedAt = now

		c.logger.Info("match finished",
			slog.String("match_id", string(state.MatchID)),
			slog.String("winner", string(winner)),
			slog.Int("home_legs", state.HomeLegsWon),
			slog.Int("away_legs", state.AwayLegsWon),
		)

		if err := c.persistFinished(ctx, sess, &leg, now); err != nil {
			return state.Clone(), err
		}
		return state.Clone(), nil
	}

	// Next leg: scores reset, turn counter reset, opening flags cleared,
	// the starting thrower alternates
	state.CurrentLeg++
	state.HomeScore = state.StartingScore
	state.AwayScore = state.StartingScore
	state.HomeStarted = false
	state.AwayStarted = false
	state.CurrentThrower = sess.legStarter(state.CurrentLeg)
	state.UpdatedAt = now
	sess.turnNumber = 1
	sess.turnStartScore = state.StartingScore
	sess.legStartedAt = now

	if err := c.storage.SaveLeg(ctx, &leg); err != nil {
		c.logger.Error("failed to save leg",
			slog.String("match_id", string(state.MatchID)),
			slog.Int("leg", legNumber),
			slog.String("error", err.Error()),
		)
		return state.Clone(), fmt.Errorf("%w: saving leg %d: %v", model.ErrPersistence, legNumber, err)
	}

	return state.Clone(), nil
}

// persistFinished writes the final leg, the match summary, and per-player
// game stats when player identities were supplied
func (c *Controller) persistFinished(ctx context.Context, sess *session, finalLeg *model.LegData, now time.Time) error {
	state := sess.state

	if err := c.storage.SaveLeg(ctx, finalLeg); err != nil {
		c.logger.Error("failed to save leg",
			slog.String("match_id", string(state.MatchID)),
			slog.Int("leg", finalLeg.LegNumber),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: saving leg %d: %v", model.ErrPersistence, finalLeg.LegNumber, err)
	}

	summary := &model.MatchSummary{
		ID:          state.MatchID,
		Type:        state.Type,
		Format:      state.Format,
		HomeName:    state.HomeName,
		AwayName:    state.AwayName,
		HomeLegsWon: state.HomeLegsWon,
		AwayLegsWon: state.AwayLegsWon,
		Winner:      state.Winner,
		CompletedAt: now,
	}
	if err := c.storage.SaveMatchSummary(ctx, summary); err != nil {
		c.logger.Error("failed to save match summary",
			slog.String("match_id", string(state.MatchID)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: saving match summary: %v", model.ErrPersistence, err)
	}

	sides := []struct {
		side     model.Side
		playerID model.PlayerID
		name     string
	}{
		{model.SideHome, sess.homePlayerID, state.HomeName},
		{model.SideAway, sess.awayPlayerID, state.AwayName},
	}
	for _, s := range sides {
		if s.playerID == "" {
			continue
		}
		darts := sideThrows(sess.history, s.side)
		gameStats := c.statsService.GameStats(s.playerID, s.name, darts, sess.legs, state.Winner == s.side)
		gameStats.MatchID = state.MatchID
		gameStats.GameDate = now
		if err := c.storage.SavePlayerGameStats(ctx, &gameStats); err != nil {
			c.logger.Error("failed to save player game stats",
				slog.String("match_id", string(state.MatchID)),
				slog.String("player_id", string(s.playerID)),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("%w: saving stats for player %s: %v", model.ErrPersistence, s.playerID, err)
		}
	}

	return nil
}

// Undo restores the state prior to the most recent mutation. An empty
// undo stack is a no-op.
func (c *Controller) Undo(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	if sess.state.Status == model.MatchStatusPaused {
		return nil, model.ErrMatchPaused
	}
	if len(sess.undo) == 0 {
		return sess.state.Clone(), nil
	}

	snap := sess.undo[len(sess.undo)-1]
	sess.undo = sess.undo[:len(sess.undo)-1]
	sess.redo = append(sess.redo, sess.snapshot())
	sess.restore(snap)

	return sess.state.Clone(), nil
}

// Redo reapplies the most recently undone mutation. An empty redo stack
// is a no-op.
func (c *Controller) Redo(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	if sess.state.Status == model.MatchStatusPaused {
		return nil, model.ErrMatchPaused
	}
	if len(sess.redo) == 0 {
		return sess.state.Clone(), nil
	}

	snap := sess.redo[len(sess.redo)-1]
	sess.redo = sess.redo[:len(sess.redo)-1]
	sess.undo = append(sess.undo, sess.snapshot())
	sess.restore(snap)

	return sess.state.Clone(), nil
}

// Pause suspends scoring; the live state is preserved
func (c *Controller) Pause(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}

	switch sess.state.Status {
	case model.MatchStatusFinished:
		return nil, model.ErrMatchFinished
	case model.MatchStatusSetup:
		return nil, model.ErrMatchNotStarted
	case model.MatchStatusPaused:
		return nil, model.ErrMatchPaused
	}

	sess.state.Status = model.MatchStatusPaused
	sess.state.UpdatedAt = c.clock.Now()

	return sess.state.Clone(), nil
}

// Resume returns a paused match to play
func (c *Controller) Resume(ctx context.Context, matchID model.MatchID) (*model.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	if sess.state.Status != model.MatchStatusPaused {
		return nil, model.ErrMatchNotPaused
	}

	sess.state.Status = model.MatchStatusPlaying
	sess.state.UpdatedAt = c.clock.Now()

	return sess.state.Clone(), nil
}

// CurrentTurn returns a copy of the darts thrown so far this turn
func (c *Controller) CurrentTurn(ctx context.Context, matchID model.MatchID) ([]model.DartThrow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	return copyThrows(sess.pending), nil
}

// DartHistory returns every committed dart of the match in throw order
func (c *Controller) DartHistory(ctx context.Context, matchID model.MatchID) ([]model.DartThrow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	return copyThrows(sess.history), nil
}

// Legs returns the sealed legs of the match
func (c *Controller) Legs(ctx context.Context, matchID model.MatchID) ([]model.LegData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	return copyLegs(sess.legs), nil
}

// CanUndo reports whether an undo is available
func (c *Controller) CanUndo(ctx context.Context, matchID model.MatchID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return false, err
	}
	return len(sess.undo) > 0, nil
}

// CanRedo reports whether a redo is available
func (c *Controller) CanRedo(ctx context.Context, matchID model.MatchID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.session(matchID)
	if err != nil {
		return false, err
	}
	return len(sess.redo) > 0, nil
}

// session looks up a live session; callers hold c.mu
func (c *Controller) session(matchID model.MatchID) (*session, error) {
	sess, ok := c.sessions[matchID]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return sess, nil
}

// mutableSession looks up a session and checks it accepts turn mutations
func (c *Controller) mutableSession(matchID model.MatchID) (*session, error) {
	sess, err := c.session(matchID)
	if err != nil {
		return nil, err
	}
	switch sess.state.Status {
	case model.MatchStatusFinished:
		return nil, model.ErrMatchFinished
	case model.MatchStatusPaused:
		return nil, model.ErrMatchPaused
	case model.MatchStatusSetup:
		return nil, model.ErrMatchNotStarted
	}
	return sess, nil
}

func (c *Controller) markStarted(state *model.GameState, side model.Side) {
	if side == model.SideHome {
		state.HomeStarted = true
	} else {
		state.AwayStarted = true
	}
}

func sideThrows(history []model.DartThrow, side model.Side) []model.DartThrow {
	var throws []model.DartThrow
	for _, t := range history {
		if t.Side == side {
			throws = append(throws, t)
		}
	}
	return throws
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateMatch(ctx context.Context, params CreateMatchParams) (*model.GameState, error)
	StartMatch(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	GetState(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	AddDart(ctx context.Context, matchID model.MatchID, score int) (*model.GameState, error)
	CompleteTurn(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	Undo(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	Redo(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	Pause(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	Resume(ctx context.Context, matchID model.MatchID) (*model.GameState, error)
	CurrentTurn(ctx context.Context, matchID model.MatchID) ([]model.DartThrow, error)
	DartHistory(ctx context.Context, matchID model.MatchID) ([]model.DartThrow, error)
	Legs(ctx context.Context, matchID model.MatchID) ([]model.LegData, error)
	CanUndo(ctx context.Context, matchID model.MatchID) (bool, error)
	CanRedo(ctx context.Context, matchID model.MatchID) (bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
