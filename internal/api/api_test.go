package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oche-club/dartscore-go/internal/api"
	"github.com/oche-club/dartscore-go/internal/api/response"
	"github.com/oche-club/dartscore-go/internal/factory"
	"github.com/oche-club/dartscore-go/internal/services/auth"
	"github.com/oche-club/dartscore-go/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		MatchController: app.MatchController,
		CheckoutService: app.CheckoutService,
		StatsService:    app.StatsService,
		Storage:         app.Storage,
		HubManager:      app.HubManager,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func createGuestPlayer(t *testing.T, ts *testServer, name string) string {
	t.Helper()

	body := map[string]string{"display_name": name}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}

func createMatch(t *testing.T, ts *testServer, token string) response.MatchState {
	t.Helper()

	body := map[string]any{
		"type":           "league",
		"format":         "single",
		"starting_score": 501,
		"home_name":      "Alice",
		"away_name":      "Bob",
	}
	rr := ts.request(http.MethodPost, "/api/v1/matches", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func startMatch(t *testing.T, ts *testServer, token, matchID string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/start", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
}

func throwDart(t *testing.T, ts *testServer, token, matchID string, score int) response.MatchState {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/darts", map[string]int{"score": score}, token)
	require.Equal(t, http.StatusOK, rr.Code, "dart %d rejected: %s", score, rr.Body.String())

	var resp response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func completeTurn(t *testing.T, ts *testServer, token, matchID string) response.MatchState {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/complete-turn", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.Player.IsGuest)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)
}

func TestConvertGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	token := createGuestPlayer(t, ts, "Charlie")

	body := map[string]string{"username": "charlie", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/convert", body, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Player.IsGuest)

	// The old session was invalidated by the conversion
	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The new session works
	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, resp.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	// Create guest first
	body := map[string]string{"display_name": "Bob"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var authResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &authResp)
	require.NoError(t, err)

	// Get me
	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, authResp.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err = json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	// Try to get /me without token
	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Try to create a match without token
	rr = ts.request(http.MethodPost, "/api/v1/matches", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateMatch(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	matchResp := createMatch(t, ts, token)

	assert.NotEmpty(t, matchResp.ID)
	assert.Equal(t, "setup", matchResp.Status)
	assert.Equal(t, 501, matchResp.HomeScore)
	assert.Equal(t, 501, matchResp.AwayScore)
	assert.Equal(t, "home", matchResp.CurrentThrower)
}

func TestCreateMatchValidation(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{
			name: "bad starting score",
			body: map[string]any{
				"type": "league", "format": "single", "starting_score": 500,
				"home_name": "A", "away_name": "B",
			},
			code: "INVALID_STARTING_SCORE",
		},
		{
			name: "bad format",
			body: map[string]any{
				"type": "league", "format": "bo9", "starting_score": 501,
				"home_name": "A", "away_name": "B",
			},
			code: "INVALID_FORMAT",
		},
		{
			name: "bad match type",
			body: map[string]any{
				"type": "friendly", "format": "single", "starting_score": 501,
				"home_name": "A", "away_name": "B",
			},
			code: "INVALID_MATCH_TYPE",
		},
		{
			name: "missing names",
			body: map[string]any{
				"type": "league", "format": "single", "starting_score": 501,
			},
			code: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/matches", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.code)
		})
	}
}

func TestScoringFlow(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	matchResp := createMatch(t, ts, token)
	startMatch(t, ts, token, matchResp.ID)

	// Home throws a 180
	throwDart(t, ts, token, matchResp.ID, 60)
	throwDart(t, ts, token, matchResp.ID, 60)
	state := throwDart(t, ts, token, matchResp.ID, 60)
	assert.Equal(t, 321, state.HomeScore)
	assert.Equal(t, "home", state.CurrentThrower)

	state = completeTurn(t, ts, token, matchResp.ID)
	assert.Equal(t, "away", state.CurrentThrower)
	assert.True(t, state.CanUndo)
	assert.False(t, state.CanRedo)

	// Invalid dart value is rejected
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/darts", map[string]int{"score": 23}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_DART")

	// Completing an empty turn is rejected
	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/complete-turn", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NO_DARTS_THROWN")

	// Turn history is visible
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchResp.ID+"/darts", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var darts []response.DartThrow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &darts))
	require.Len(t, darts, 3)
	assert.Equal(t, "T20", darts[0].Display)
	assert.Equal(t, 441, darts[0].RunningScore)
}

func TestUndoRedoOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	matchResp := createMatch(t, ts, token)
	startMatch(t, ts, token, matchResp.ID)

	state := throwDart(t, ts, token, matchResp.ID, 60)
	assert.Equal(t, 441, state.HomeScore)

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/undo", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var undone response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &undone))
	assert.Equal(t, 501, undone.HomeScore)
	assert.True(t, undone.CanRedo)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/redo", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var redone response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &redone))
	assert.Equal(t, 441, redone.HomeScore)
}

func TestFullMatchOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	matchResp := createMatch(t, ts, token)
	startMatch(t, ts, token, matchResp.ID)

	turn := func(scores ...int) response.MatchState {
		var state response.MatchState
		for _, score := range scores {
			state = throwDart(t, ts, token, matchResp.ID, score)
			if state.Complete || state.DartsThrown == 0 {
				return state
			}
		}
		return completeTurn(t, ts, token, matchResp.ID)
	}

	turn(60, 60, 60) // home: 321
	turn(26, 20, 19) // away: 436
	turn(60, 60, 60) // home: 141
	turn(26, 20, 19) // away: 371
	final := turn(60, 57, 24)

	assert.True(t, final.Complete)
	assert.Equal(t, "finished", final.Status)
	require.NotNil(t, final.Winner)
	assert.Equal(t, "home", *final.Winner)

	// The match is listed among completed matches
	rr := ts.request(http.MethodGet, "/api/v1/matches", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var summaries []response.MatchSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, matchResp.ID, summaries[0].ID)

	// Leg detail includes the throws
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchResp.ID+"/legs/1", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var leg response.Leg
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &leg))
	assert.Equal(t, 9, leg.WinningDarts)
	assert.Len(t, leg.Throws, 15)

	// Match stats for the winning side
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+matchResp.ID+"/stats?side=home", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var matchStats response.MatchStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matchStats))
	assert.Equal(t, 1, matchStats.LegsWon)
	require.NotNil(t, matchStats.BestLeg)
	assert.Equal(t, 9, matchStats.BestLeg.Darts)
}

func TestCheckoutEndpoints(t *testing.T) {
	ts := newTestServer(t)

	// No auth needed for checkout advice
	rr := ts.request(http.MethodGet, "/api/v1/checkouts/170", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var co response.Checkout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &co))
	assert.True(t, co.Possible)
	require.NotEmpty(t, co.Recommended)
	assert.Equal(t, []int{60, 60, 50}, co.Recommended[0].Darts)

	// Bogey number
	rr = ts.request(http.MethodGet, "/api/v1/checkouts/169", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &co))
	assert.False(t, co.Possible)

	// Out of range
	rr = ts.request(http.MethodGet, "/api/v1/checkouts/171", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Routes limited by darts in hand: 100 has no single-dart finish
	rr = ts.request(http.MethodGet, "/api/v1/checkouts/100/routes?darts=1", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var routes []response.CheckoutRoute
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &routes))
	assert.Empty(t, routes)

	// Bogey list
	rr = ts.request(http.MethodGet, "/api/v1/checkouts/impossible", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var bogeys []int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bogeys))
	assert.Equal(t, []int{159, 162, 163, 165, 166, 168, 169}, bogeys)
}

func TestPlayerStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Register so the match attributes stats to the player
	registerBody := map[string]string{
		"username": "alice", "password": "secret123", "display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var authResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &authResp))
	token := authResp.SessionToken

	// No stats yet
	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/players/%s/stats", authResp.Player.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Play a match with the registered player at home
	body := map[string]any{
		"type": "league", "format": "single", "starting_score": 501,
		"home_name": "Alice", "away_name": "Bob",
		"home_player_id": authResp.Player.ID,
	}
	rr = ts.request(http.MethodPost, "/api/v1/matches", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var matchResp response.MatchState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matchResp))
	startMatch(t, ts, token, matchResp.ID)

	turn := func(scores ...int) response.MatchState {
		var state response.MatchState
		for _, score := range scores {
			state = throwDart(t, ts, token, matchResp.ID, score)
			if state.Complete || state.DartsThrown == 0 {
				return state
			}
		}
		return completeTurn(t, ts, token, matchResp.ID)
	}

	turn(60, 60, 60)
	turn(26, 20, 19)
	turn(60, 60, 60)
	turn(26, 20, 19)
	final := turn(60, 57, 24)
	require.True(t, final.Complete)

	// Stats are now served
	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/v1/players/%s/stats", authResp.Player.ID), nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var statsResp response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statsResp))
	assert.Equal(t, 1, statsResp.Season.GamesPlayed)
	assert.Equal(t, 1, statsResp.Season.GamesWon)
	assert.Equal(t, 2, statsResp.Season.Total180s)
	assert.Equal(t, 141, statsResp.Season.HighestCheckout)
	require.Len(t, statsResp.Games, 1)
	assert.Equal(t, 55.67, statsResp.Games[0].Average)
}

func TestPauseResumeOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	matchResp := createMatch(t, ts, token)
	startMatch(t, ts, token, matchResp.ID)

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/pause", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/darts", map[string]int{"score": 20}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "MATCH_PAUSED")

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchResp.ID+"/resume", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	state := throwDart(t, ts, token, matchResp.ID, 20)
	assert.Equal(t, 481, state.HomeScore)
}

func TestMatchNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/matches/DOESNOTEXIST", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "MATCH_NOT_FOUND")
}
