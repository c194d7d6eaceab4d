package session

import (
	"testing"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

func TestSubmitMoveRejectsWrongTurn(t *testing.T) {
	s := New("t1", "m1", 1, crjm.GatosCaes, crjm.P1)
	_, err := s.SubmitMove("p2", crjm.P2, engine.GatosCaesMove{Row: 3, Col: 3})
	if err == nil {
		t.Fatalf("expected an error when p2 moves out of turn")
	}
	ce, ok := crjm.AsCoded(err)
	if !ok || ce.Code != crjm.ErrInvalidMove {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
}

func TestSubmitMoveAppliesAndLogs(t *testing.T) {
	s := New("t1", "m1", 1, crjm.GatosCaes, crjm.P1)
	res, err := s.SubmitMove("p1", crjm.P1, engine.GatosCaesMove{Row: 3, Col: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.GameOver {
		t.Fatalf("one move should not finish the game")
	}
	if len(s.Moves) != 1 {
		t.Fatalf("expected 1 move in the log, got %d", len(s.Moves))
	}
	if s.Turn() != crjm.P2 {
		t.Fatalf("expected turn to pass to p2")
	}
}

func TestSubmitMoveRejectedAfterFinished(t *testing.T) {
	s := New("t1", "m1", 1, crjm.GatosCaes, crjm.P1)
	s.Finished = true
	_, err := s.SubmitMove("p1", crjm.P1, engine.GatosCaesMove{Row: 3, Col: 3})
	if err == nil {
		t.Fatalf("expected an error once the session is finished")
	}
}
