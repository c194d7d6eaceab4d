package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/conf"
)

// fakeConn records every frame sent to it, for assertions in tests.
type fakeConn struct {
	mu     sync.Mutex
	frames []map[string]any
}

func (f *fakeConn) Send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	f.mu.Lock()
	f.frames = append(f.frames, m)
	f.mu.Unlock()
}

func (f *fakeConn) last(typ string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.frames) - 1; i >= 0; i-- {
		if f.frames[i]["type"] == typ {
			return f.frames[i]
		}
	}
	return nil
}

func newTestCoordinator() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &conf.Conf{
		Ctx:       ctx,
		Kill:      cancel,
		GamePause: time.Millisecond,
	}
	return New(c)
}

func TestJoinAssignsPlayerAndBroadcastsState(t *testing.T) {
	coord := newTestCoordinator()
	conn := &fakeConn{}

	id := coord.Join(conn, InMessage{Type: "join_tournament", GameID: crjm.GatosCaes, PlayerName: "Ana"})
	if id == "" {
		t.Fatal("expected a non-empty player id")
	}
	welcome := conn.last("welcome")
	if welcome == nil || welcome["playerId"] != id {
		t.Fatalf("expected a welcome frame naming %s, got %v", id, welcome)
	}
	if conn.last("tournament_state_update") == nil {
		t.Fatal("expected a tournament_state_update frame")
	}
}

func TestJoinReconnectReusesExistingID(t *testing.T) {
	coord := newTestCoordinator()
	conn1 := &fakeConn{}
	id := coord.Join(conn1, InMessage{Type: "join_tournament", GameID: crjm.Nex, PlayerName: "Bea"})

	conn2 := &fakeConn{}
	id2 := coord.Join(conn2, InMessage{Type: "join_tournament", GameID: crjm.Nex, PlayerID: id})
	if id2 != id {
		t.Fatalf("expected reconnect to reuse id %s, got %s", id, id2)
	}
}

// TestBotVsBotMatchPlaysToCompletion exercises the full readiness ->
// start -> bot-driven move loop -> match_end -> tournament_end pipeline
// with two bot occupants and no human driving any move.
func TestBotVsBotMatchPlaysToCompletion(t *testing.T) {
	old := botMoveDelay
	botMoveDelay = time.Millisecond
	defer func() { botMoveDelay = old }()

	coord := newTestCoordinator()

	tn := coord.CreateTournament(crjm.GatosCaes, "bots-only")
	if _, err := coord.AddBots(tn.ID, 2, crjm.Basic); err != nil {
		t.Fatalf("AddBots: %s", err)
	}
	if err := coord.StartTournament(tn.ID); err != nil {
		t.Fatalf("StartTournament: %s", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := coord.Snapshot(tn.ID)
		if err != nil {
			t.Fatalf("Snapshot: %s", err)
		}
		if snap.Phase == "finished" {
			if snap.ChampionID == "" {
				t.Fatal("tournament finished without a champion")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("tournament did not finish within the deadline")
}
