package engine

import (
	"testing"

	crjm "github.com/atilasos/crjm-server"
)

// playRandomGame drives a game to completion, deterministically
// playing enumerated move i mod len(moves) at move i, and checks move conservation: turn and
// terminal never disagree with the rules, and Apply never mutates
// the state it was given.
func playRandomGame(t *testing.T, id crjm.GameID, maxMoves int) State {
	t.Helper()
	e := MustGet(id)
	s := e.Initial(crjm.P1)
	for i := 0; i < maxMoves; i++ {
		if s.Terminal() {
			return s
		}
		role := s.Turn()
		moves := e.Enumerate(s, role)
		if len(moves) == 0 {
			t.Fatalf("%s: move %d: no moves enumerated but Terminal()=false", id, i)
		}
		move := moves[i%len(moves)]
		if !e.Validate(s, role, move) {
			t.Fatalf("%s: move %d: enumerated move rejected by Validate", id, i)
		}
		beforeTurn := s.Turn()
		next := e.Apply(s, role, move)
		if s.Turn() != beforeTurn {
			t.Fatalf("%s: move %d: Apply mutated the prior state in place", id, i)
		}
		s = next
	}
	return s
}

func TestEnginesRegistered(t *testing.T) {
	for _, g := range crjm.Games {
		if _, ok := Get(g); !ok {
			t.Errorf("game %s has no registered engine", g)
		}
	}
}

func TestGatosCaesPlayout(t *testing.T) {
	s := playRandomGame(t, crjm.GatosCaes, 200)
	if !s.Terminal() {
		t.Fatalf("did not reach a terminal state within move budget")
	}
}

func TestDominorioPlayout(t *testing.T) {
	s := playRandomGame(t, crjm.Dominorio, 200)
	if !s.Terminal() {
		t.Fatalf("did not reach a terminal state within move budget")
	}
}

func TestQuelhasMisereWinner(t *testing.T) {
	s := playRandomGame(t, crjm.Quelhas, 200)
	if !s.Terminal() {
		t.Fatalf("did not reach a terminal state within move budget")
	}
	qs := s.(*quelhasState)
	// The player to move has no moves; misère means they win.
	want := winnerOf(qs.turn)
	if s.Winner() != want {
		t.Fatalf("misère winner mismatch: got %v want %v", s.Winner(), want)
	}
}

func TestProdutoPlayout(t *testing.T) {
	s := playRandomGame(t, crjm.Produto, 80)
	if !s.Terminal() {
		t.Fatalf("did not reach a terminal (full) board within move budget")
	}
}

func TestAtariGoPassPassDraws(t *testing.T) {
	e := MustGet(crjm.AtariGo)
	s := e.Initial(crjm.P1)
	s = e.Apply(s, crjm.P1, AtariGoMove{Pass: true})
	s = e.Apply(s, crjm.P2, AtariGoMove{Pass: true})
	if !s.Terminal() {
		t.Fatalf("two consecutive passes should end the game")
	}
	if s.Winner() != crjm.Draw {
		t.Fatalf("double pass should draw, got %v", s.Winner())
	}
}

func TestAtariGoCapture(t *testing.T) {
	e := MustGet(crjm.AtariGo)
	s := e.Initial(crjm.P1)
	// Surround a single white stone at (4,4) with black on 3 sides,
	// then close the last liberty.
	moves := []struct {
		role crjm.Role
		mv   AtariGoMove
	}{
		{crjm.P1, AtariGoMove{Row: 3, Col: 4}},
		{crjm.P2, AtariGoMove{Row: 4, Col: 4}},
		{crjm.P1, AtariGoMove{Row: 5, Col: 4}},
		{crjm.P2, AtariGoMove{Pass: true}},
		{crjm.P1, AtariGoMove{Row: 4, Col: 3}},
		{crjm.P2, AtariGoMove{Pass: true}},
		{crjm.P1, AtariGoMove{Row: 4, Col: 5}},
	}
	for i, m := range moves {
		if !e.Validate(s, m.role, m.mv) {
			t.Fatalf("move %d rejected: %+v", i, m.mv)
		}
		s = e.Apply(s, m.role, m.mv)
	}
	if !s.Terminal() {
		t.Fatalf("expected capture to end the game")
	}
	if s.Winner() != crjm.WinP1 {
		t.Fatalf("expected p1 to win by capture, got %v", s.Winner())
	}
}

func TestNexPlayout(t *testing.T) {
	s := playRandomGame(t, crjm.Nex, 200)
	if !s.Terminal() {
		t.Fatalf("did not reach a terminal (connected) state within move budget")
	}
}

func TestNexSwapOnlyOnMoveTwo(t *testing.T) {
	e := MustGet(crjm.Nex)
	s := e.Initial(crjm.P1)
	if e.Validate(s, crjm.P1, NexMove{Type: "swap"}) {
		t.Fatalf("swap should not be legal as the first move")
	}
	a := NexCoord{Row: 5, Col: 5}
	b := NexCoord{Row: 5, Col: 6}
	s = e.Apply(s, crjm.P1, NexMove{Type: "place", OwnPiece: &a, NeutralPiece: &b})
	if !e.Validate(s, crjm.P2, NexMove{Type: "swap"}) {
		t.Fatalf("swap should be legal as move #2 for p2")
	}
}
