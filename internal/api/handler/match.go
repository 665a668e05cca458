package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oche-club/dartscore-go/internal/api/middleware"
	"github.com/oche-club/dartscore-go/internal/api/request"
	"github.com/oche-club/dartscore-go/internal/api/response"
	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/match"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/sse"
	"github.com/oche-club/dartscore-go/internal/storage"
)

// MatchHandler handles match scoring endpoints
type MatchHandler struct {
	matchController *match.Controller
	statsService    *stats.Service
	storage         storage.Storage
	hubManager      *sse.HubManager
	broadcaster     *sse.Broadcaster
	logger          *slog.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(
	matchController *match.Controller,
	statsService *stats.Service,
	store storage.Storage,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *MatchHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &MatchHandler{
		matchController: matchController,
		statsService:    statsService,
		storage:         store,
		hubManager:      hubManager,
		broadcaster:     broadcaster,
		logger:          logger,
	}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.HomeName == "" || req.AwayName == "" {
		WriteError(w, NewInvalidRequestError("home_name and away_name are required"))
		return
	}

	firstThrower := model.SideHome
	if req.FirstThrower != "" {
		firstThrower = model.Side(req.FirstThrower)
	}

	state, err := h.matchController.CreateMatch(r.Context(), match.CreateMatchParams{
		Type:          model.MatchType(req.Type),
		Format:        model.LegFormat(req.Format),
		StartingScore: req.StartingScore,
		HomeName:      req.HomeName,
		AwayName:      req.AwayName,
		HomePlayerID:  model.PlayerID(req.HomePlayerID),
		AwayPlayerID:  model.PlayerID(req.AwayPlayerID),
		FirstThrower:  firstThrower,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchStateFromModel(state, false, false))
}

// Start handles POST /api/v1/matches/{id}/start
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.StartMatch(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.GetState(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeState(w, r, http.StatusOK, state)
}

// AddDart handles POST /api/v1/matches/{id}/darts
func (h *MatchHandler) AddDart(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	var req request.AddDartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	legsBefore := h.legsWon(r, matchID)

	state, err := h.matchController.AddDart(r.Context(), matchID, req.Score)
	if !h.resolvePersistence(w, state, err) {
		return
	}

	h.broadcastDart(r, matchID)
	h.broadcastLegIfWon(r, state, legsBefore)
	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// CompleteTurn handles POST /api/v1/matches/{id}/complete-turn
func (h *MatchHandler) CompleteTurn(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	legsBefore := h.legsWon(r, matchID)

	state, err := h.matchController.CompleteTurn(r.Context(), matchID)
	if !h.resolvePersistence(w, state, err) {
		return
	}

	h.broadcastLegIfWon(r, state, legsBefore)
	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// Undo handles POST /api/v1/matches/{id}/undo
func (h *MatchHandler) Undo(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.Undo(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// Redo handles POST /api/v1/matches/{id}/redo
func (h *MatchHandler) Redo(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.Redo(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// Pause handles POST /api/v1/matches/{id}/pause
func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.Pause(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// Resume handles POST /api/v1/matches/{id}/resume
func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	state, err := h.matchController.Resume(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastState(state)
	h.writeState(w, r, http.StatusOK, state)
}

// CurrentTurn handles GET /api/v1/matches/{id}/turn
func (h *MatchHandler) CurrentTurn(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	throws, err := h.matchController.CurrentTurn(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DartThrowsFromModel(throws))
}

// DartHistory handles GET /api/v1/matches/{id}/darts
func (h *MatchHandler) DartHistory(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	throws, err := h.matchController.DartHistory(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DartThrowsFromModel(throws))
}

// Legs handles GET /api/v1/matches/{id}/legs
// Serves from the live session when the match is in memory, otherwise
// from stored legs
func (h *MatchHandler) Legs(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	legs, err := h.loadLegs(r, matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Leg, len(legs))
	for i := range legs {
		out[i] = response.LegFromModel(&legs[i], false)
	}
	response.JSON(w, http.StatusOK, out)
}

// GetLeg handles GET /api/v1/matches/{id}/legs/{leg}
func (h *MatchHandler) GetLeg(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])
	legNumber, err := strconv.Atoi(mux.Vars(r)["leg"])
	if err != nil || legNumber < 1 {
		WriteError(w, NewInvalidRequestError("leg must be a positive integer"))
		return
	}

	legs, err := h.loadLegs(r, matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	for i := range legs {
		if legs[i].LegNumber == legNumber {
			response.JSON(w, http.StatusOK, response.LegFromModel(&legs[i], true))
			return
		}
	}
	WriteError(w, model.ErrLegNotFound)
}

// MatchStats handles GET /api/v1/matches/{id}/stats?side=home
func (h *MatchHandler) MatchStats(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	side := model.Side(r.URL.Query().Get("side"))
	if !side.Valid() {
		WriteError(w, model.ErrInvalidSide)
		return
	}

	legs, err := h.loadLegs(r, matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchStatsFromModel(h.statsService.MatchStats(legs, side)))
}

// PlayerGameStats handles GET /api/v1/matches/{id}/players/{player_id}/stats
func (h *MatchHandler) PlayerGameStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	matchID := model.MatchID(vars["id"])
	playerID := model.PlayerID(vars["player_id"])

	gameStats, err := h.storage.GetPlayerGameStats(r.Context(), matchID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerGameStatsFromModel(gameStats))
}

// ListMatches handles GET /api/v1/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.storage.ListMatchSummaries(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.MatchSummary, len(summaries))
	for i, s := range summaries {
		out[i] = response.MatchSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, out)
}

// Events handles GET /api/v1/matches/{id}/events
// Streams match updates over SSE. Viewers do not need an account.
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["id"])

	if _, err := h.matchController.GetState(r.Context(), matchID); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager == nil {
		WriteError(w, NewInternalError())
		return
	}

	viewerID := model.PlayerID("viewer")
	if player := middleware.GetPlayer(r.Context()); player != nil {
		viewerID = player.ID
	}

	hub := h.hubManager.GetOrCreateHub(matchID)
	sse.ServeSSE(w, r, hub, viewerID)
}

// loadLegs reads completed legs from the live session, falling back to
// storage when the match is no longer in memory
func (h *MatchHandler) loadLegs(r *http.Request, matchID model.MatchID) ([]model.LegData, error) {
	legs, err := h.matchController.Legs(r.Context(), matchID)
	if err == nil {
		return legs, nil
	}
	if !errors.Is(err, model.ErrMatchNotFound) {
		return nil, err
	}

	stored, err := h.storage.GetLegsForMatch(r.Context(), matchID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, model.ErrMatchNotFound
	}

	out := make([]model.LegData, len(stored))
	for i, l := range stored {
		out[i] = *l
	}
	return out, nil
}

// resolvePersistence reports whether the request should proceed. A
// persistence failure after the transition was applied is logged and
// served as success; the in-memory state is authoritative.
func (h *MatchHandler) resolvePersistence(w http.ResponseWriter, state *model.GameState, err error) bool {
	if err == nil {
		return true
	}
	if state != nil && errors.Is(err, model.ErrPersistence) {
		h.logger.Warn("match persistence failed, state applied",
			slog.String("match", string(state.MatchID)),
			slog.Any("error", err))
		return true
	}
	WriteError(w, err)
	return false
}

func (h *MatchHandler) writeState(w http.ResponseWriter, r *http.Request, status int, state *model.GameState) {
	canUndo, _ := h.matchController.CanUndo(r.Context(), state.MatchID)
	canRedo, _ := h.matchController.CanRedo(r.Context(), state.MatchID)
	response.JSON(w, status, response.MatchStateFromModel(state, canUndo, canRedo))
}

func (h *MatchHandler) broadcastState(state *model.GameState) {
	if h.broadcaster == nil {
		return
	}
	h.broadcaster.BroadcastStateUpdate(state)
	if state.Complete {
		h.broadcaster.BroadcastMatchFinished(state)
	}
}

// legsWon returns the completed leg count before a scoring operation,
// so a leg won during the operation can be detected afterwards
func (h *MatchHandler) legsWon(r *http.Request, matchID model.MatchID) int {
	state, err := h.matchController.GetState(r.Context(), matchID)
	if err != nil {
		return 0
	}
	return state.HomeLegsWon + state.AwayLegsWon
}

func (h *MatchHandler) broadcastLegIfWon(r *http.Request, state *model.GameState, legsBefore int) {
	if h.broadcaster == nil || state == nil {
		return
	}
	if state.HomeLegsWon+state.AwayLegsWon <= legsBefore {
		return
	}
	legs, err := h.loadLegs(r, state.MatchID)
	if err != nil || len(legs) == 0 {
		return
	}
	h.broadcaster.BroadcastLegWon(state.MatchID, &legs[len(legs)-1])
}

func (h *MatchHandler) broadcastDart(r *http.Request, matchID model.MatchID) {
	if h.broadcaster == nil {
		return
	}
	throws, err := h.matchController.CurrentTurn(r.Context(), matchID)
	if err != nil || len(throws) == 0 {
		return
	}
	h.broadcaster.BroadcastDartThrown(matchID, throws[len(throws)-1])
}
