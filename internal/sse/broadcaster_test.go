package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/testutil"
)

func testState() *model.GameState {
	return &model.GameState{
		MatchID:        "MATCHTEST001",
		Status:         model.MatchStatusPlaying,
		Type:           model.MatchTypeLeague,
		Format:         model.FormatBestOf3,
		StartingScore:  501,
		HomeName:       "Alice",
		AwayName:       "Bob",
		CurrentLeg:     1,
		HomeScore:      321,
		AwayScore:      501,
		CurrentThrower: model.SideAway,
	}
}

// receiveEvent waits for one SSE frame on the client and returns the event
// name and the decoded data line
func receiveEvent(t *testing.T, client *Client) (string, string) {
	t.Helper()

	select {
	case msg := <-client.send:
		frame := string(msg)
		lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
		if len(lines) < 2 {
			t.Fatalf("malformed SSE frame: %q", frame)
		}
		event := strings.TrimPrefix(lines[0], "event: ")
		data := strings.TrimPrefix(lines[1], "data: ")
		return event, data
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive event")
		return "", ""
	}
}

func TestBroadcaster_BroadcastStateUpdate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	state := testState()

	hub := manager.GetOrCreateHub(state.MatchID)
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastStateUpdate(state)

	event, data := receiveEvent(t, client)
	if event != "state" {
		t.Errorf("event = %q, want %q", event, "state")
	}

	var payload StatePayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.MatchID != state.MatchID {
		t.Errorf("payload match id = %q, want %q", payload.MatchID, state.MatchID)
	}
	if payload.HomeScore != 321 || payload.AwayScore != 501 {
		t.Errorf("payload scores = %d/%d, want 321/501", payload.HomeScore, payload.AwayScore)
	}
	if payload.CurrentThrower != model.SideAway {
		t.Errorf("payload thrower = %q, want away", payload.CurrentThrower)
	}

	manager.RemoveHub(state.MatchID)
}

func TestBroadcaster_BroadcastDartThrown(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	matchID := model.MatchID("MATCHTEST001")
	hub := manager.GetOrCreateHub(matchID)
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastDartThrown(matchID, model.DartThrow{
		MatchID:      matchID,
		Side:         model.SideHome,
		LegNumber:    1,
		TurnNumber:   3,
		DartNumber:   2,
		Score:        60,
		RunningScore: 261,
	})

	event, data := receiveEvent(t, client)
	if event != "dart" {
		t.Errorf("event = %q, want %q", event, "dart")
	}

	var payload DartPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Score != 60 {
		t.Errorf("payload score = %d, want 60", payload.Score)
	}
	if payload.RunningScore != 261 {
		t.Errorf("payload running score = %d, want 261", payload.RunningScore)
	}
	if payload.LegNumber != 1 || payload.TurnNumber != 3 || payload.DartNumber != 2 {
		t.Errorf("payload position = leg %d turn %d dart %d, want 1/3/2",
			payload.LegNumber, payload.TurnNumber, payload.DartNumber)
	}

	manager.RemoveHub(matchID)
}

func TestBroadcaster_BroadcastLegWon(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	matchID := model.MatchID("MATCHTEST001")
	hub := manager.GetOrCreateHub(matchID)
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastLegWon(matchID, &model.LegData{
		MatchID:      matchID,
		LegNumber:    2,
		Winner:       model.SideHome,
		WinningDarts: 15,
	})

	event, data := receiveEvent(t, client)
	if event != "leg-won" {
		t.Errorf("event = %q, want %q", event, "leg-won")
	}

	var payload LegPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.LegNumber != 2 {
		t.Errorf("payload leg = %d, want 2", payload.LegNumber)
	}
	if payload.Winner != model.SideHome {
		t.Errorf("payload winner = %q, want home", payload.Winner)
	}
	if payload.WinningDarts != 15 {
		t.Errorf("payload winning darts = %d, want 15", payload.WinningDarts)
	}

	manager.RemoveHub(matchID)
}

func TestBroadcaster_BroadcastMatchFinished(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	state := testState()
	state.Status = model.MatchStatusFinished
	state.Complete = true
	state.Winner = model.SideHome
	state.HomeLegsWon = 2
	state.AwayLegsWon = 1

	hub := manager.GetOrCreateHub(state.MatchID)
	client := NewClient(hub, "viewer1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastMatchFinished(state)

	event, data := receiveEvent(t, client)
	if event != "match-finished" {
		t.Errorf("event = %q, want %q", event, "match-finished")
	}

	var payload StatePayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if !payload.Complete {
		t.Error("payload not marked complete")
	}
	if payload.Winner != model.SideHome {
		t.Errorf("payload winner = %q, want home", payload.Winner)
	}
	if payload.HomeLegsWon != 2 || payload.AwayLegsWon != 1 {
		t.Errorf("payload legs = %d-%d, want 2-1", payload.HomeLegsWon, payload.AwayLegsWon)
	}

	manager.RemoveHub(state.MatchID)
}

func TestBroadcaster_NoHubIsANoOp(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	// No hub exists for this match; broadcasting must not panic or create one
	broadcaster.BroadcastStateUpdate(testState())

	if manager.GetHub("MATCHTEST001") != nil {
		t.Error("broadcast created a hub for a match with no viewers")
	}
}
