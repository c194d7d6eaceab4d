package match

import (
	"testing"

	crjm "github.com/atilasos/crjm-server"
)

func TestStartAlternatesStartingRole(t *testing.T) {
	m := New("m1", 1, crjm.Winners, crjm.GatosCaes)
	m.P1, m.P2 = "alice", "bob"
	m.Start("t1")
	if m.StartingRoleForCurrentGame != crjm.P1 {
		t.Fatalf("game 1 should start with p1")
	}
	m.RecordGameResult(1, "bob")
	if m.StartingRoleForCurrentGame != crjm.P2 {
		t.Fatalf("game 2 should start with p2, got %v", m.StartingRoleForCurrentGame)
	}
	m.RecordGameResult(2, "alice")
	if m.StartingRoleForCurrentGame != crjm.P1 {
		t.Fatalf("game 3 should start with p1, got %v", m.StartingRoleForCurrentGame)
	}
}

func TestBestOfThreeClosesOnSecondWin(t *testing.T) {
	m := New("m1", 1, crjm.Winners, crjm.GatosCaes)
	m.P1, m.P2 = "alice", "bob"
	m.Start("t1")

	if finished := m.RecordGameResult(1, "alice"); finished {
		t.Fatalf("match should not finish after one win")
	}
	if finished := m.RecordGameResult(2, "alice"); !finished {
		t.Fatalf("match should finish once someone reaches 2 wins")
	}
	if m.Winner != "alice" || m.Loser != "bob" {
		t.Fatalf("expected alice to win, got winner=%s loser=%s", m.Winner, m.Loser)
	}
	if m.Phase != Finished {
		t.Fatalf("expected phase=finished, got %s", m.Phase)
	}
}

func TestDrawDoesNotCountButConsumesGame(t *testing.T) {
	m := New("m1", 1, crjm.Winners, crjm.GatosCaes)
	m.P1, m.P2 = "alice", "bob"
	m.Start("t1")

	finished := m.RecordGameResult(1, "")
	if finished {
		t.Fatalf("a draw alone should never finish a match")
	}
	if m.Score.P1Wins != 0 || m.Score.P2Wins != 0 {
		t.Fatalf("draw should not increment either score")
	}
	if m.CurrentGame != 2 {
		t.Fatalf("draw should still consume a game number, got %d", m.CurrentGame)
	}
}

func TestFillSlotLeftToRight(t *testing.T) {
	m := New("m1", 1, crjm.Winners, crjm.GatosCaes)
	m.FillSlot("alice")
	m.FillSlot("bob")
	if m.P1 != "alice" || m.P2 != "bob" {
		t.Fatalf("expected alice in p1 and bob in p2, got %s/%s", m.P1, m.P2)
	}
}
