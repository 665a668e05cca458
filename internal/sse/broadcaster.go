package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/oche-club/dartscore-go/internal/model"
)

// Broadcaster pushes match events to SSE viewers as JSON payloads
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// StatePayload is the JSON body of state-bearing events
type StatePayload struct {
	MatchID        model.MatchID     `json:"match_id"`
	Status         model.MatchStatus `json:"status"`
	CurrentLeg     int               `json:"current_leg"`
	HomeScore      int               `json:"home_score"`
	AwayScore      int               `json:"away_score"`
	HomeLegsWon    int               `json:"home_legs_won"`
	AwayLegsWon    int               `json:"away_legs_won"`
	CurrentThrower model.Side        `json:"current_thrower"`
	DartsThrown    int               `json:"darts_thrown"`
	Complete       bool              `json:"complete"`
	Winner         model.Side        `json:"winner,omitempty"`
}

// DartPayload is the JSON body of dart events
type DartPayload struct {
	Side               model.Side `json:"side"`
	LegNumber          int        `json:"leg_number"`
	TurnNumber         int        `json:"turn_number"`
	DartNumber         int        `json:"dart_number"`
	Score              int        `json:"score"`
	RunningScore       int        `json:"running_score"`
	CheckoutAttempt    bool       `json:"checkout_attempt"`
	CheckoutSuccessful bool       `json:"checkout_successful"`
}

// LegPayload is the JSON body of leg-won events
type LegPayload struct {
	LegNumber    int        `json:"leg_number"`
	Winner       model.Side `json:"winner"`
	WinningDarts int        `json:"winning_darts"`
}

func statePayload(state *model.GameState) StatePayload {
	return StatePayload{
		MatchID:        state.MatchID,
		Status:         state.Status,
		CurrentLeg:     state.CurrentLeg,
		HomeScore:      state.HomeScore,
		AwayScore:      state.AwayScore,
		HomeLegsWon:    state.HomeLegsWon,
		AwayLegsWon:    state.AwayLegsWon,
		CurrentThrower: state.CurrentThrower,
		DartsThrown:    state.DartsThrown,
		Complete:       state.Complete,
		Winner:         state.Winner,
	}
}

// broadcastJSON marshals the payload and sends it on the match's hub, if
// any viewers are connected
func (b *Broadcaster) broadcastJSON(matchID model.MatchID, event string, payload any) {
	hub := b.hubManager.GetHub(matchID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse failed to marshal payload",
			slog.String("match", string(matchID)),
			slog.String("event", event),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(event, string(data))
}

// BroadcastStateUpdate pushes the latest match state
func (b *Broadcaster) BroadcastStateUpdate(state *model.GameState) {
	b.broadcastJSON(state.MatchID, "state", statePayload(state))
}

// BroadcastDartThrown pushes a single recorded dart
func (b *Broadcaster) BroadcastDartThrown(matchID model.MatchID, throw model.DartThrow) {
	b.broadcastJSON(matchID, "dart", DartPayload{
		Side:               throw.Side,
		LegNumber:          throw.LegNumber,
		TurnNumber:         throw.TurnNumber,
		DartNumber:         throw.DartNumber,
		Score:              throw.Score,
		RunningScore:       throw.RunningScore,
		CheckoutAttempt:    throw.IsCheckoutAttempt,
		CheckoutSuccessful: throw.CheckoutSuccessful,
	})
}

// BroadcastLegWon announces a sealed leg
func (b *Broadcaster) BroadcastLegWon(matchID model.MatchID, leg *model.LegData) {
	b.broadcastJSON(matchID, "leg-won", LegPayload{
		LegNumber:    leg.LegNumber,
		Winner:       leg.Winner,
		WinningDarts: leg.WinningDarts,
	})
}

// BroadcastMatchFinished announces the final result and removes the hub
// after the message drains
func (b *Broadcaster) BroadcastMatchFinished(state *model.GameState) {
	b.broadcastJSON(state.MatchID, "match-finished", statePayload(state))
}
