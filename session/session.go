// Game Session (C3)
//
// Package session wraps a single instance of one of the six
// engines, recording the move log and latching the terminal result.
package session

import (
	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

// MoveRecord is one accepted move, kept for replay and spectating.
type MoveRecord struct {
	Role crjm.Role
	Move any
}

// Session is one played game within a match.
type Session struct {
	TournamentID string
	MatchID      string
	GameNumber   int
	GameID       crjm.GameID

	engine engine.Engine
	state  engine.State

	Moves    []MoveRecord
	Finished bool
	Winner   crjm.Outcome
}

// New constructs a session starting from startingRole's initial
// board, per §4.3.
func New(tournamentID, matchID string, gameNumber int, gameID crjm.GameID, startingRole crjm.Role) *Session {
	e := engine.MustGet(gameID)
	return &Session{
		TournamentID: tournamentID,
		MatchID:      matchID,
		GameNumber:   gameNumber,
		GameID:       gameID,
		engine:       e,
		state:        e.Initial(startingRole),
	}
}

// Result is the outcome of SubmitMove: either Ok describes whether
// the game just ended and who (if anyone) won, or the move was
// rejected with one of the canonical error codes.
type Result struct {
	GameOver bool
	Winner   crjm.Outcome
}

// SubmitMove validates and applies role's move, per §4.3. The
// playerId is accepted for parity with the public surface but is
// not itself consulted here — the coordinator is responsible for
// mapping a player to its role before calling in.
func (s *Session) SubmitMove(playerID string, role crjm.Role, move any) (Result, error) {
	if s.Finished {
		return Result{}, crjm.NewError(crjm.ErrInvalidMove, "game already finished")
	}
	if role != s.state.Turn() {
		return Result{}, crjm.NewError(crjm.ErrInvalidMove, "not your turn")
	}
	if !s.engine.Validate(s.state, role, move) {
		return Result{}, crjm.NewError(crjm.ErrInvalidMove, "illegal move")
	}

	s.state = s.engine.Apply(s.state, role, move)
	s.Moves = append(s.Moves, MoveRecord{Role: role, Move: move})

	if s.state.Terminal() {
		s.Finished = true
		s.Winner = s.state.Winner()
		return Result{GameOver: true, Winner: s.Winner}, nil
	}
	return Result{}, nil
}

// Turn reports whose turn it currently is.
func (s *Session) Turn() crjm.Role { return s.state.Turn() }

// State exposes the current engine state so a bot can choose a move
// against it through the public Engine interface alone.
func (s *Session) State() engine.State { return s.state }

// Snapshot produces the engine's serialized view of the current state.
func (s *Session) Snapshot() any {
	return s.state.Serialize()
}

// DecodeMove parses a client-supplied move payload using this
// session's engine.
func (s *Session) DecodeMove(data []byte) (any, error) {
	return s.engine.DecodeMove(data)
}
