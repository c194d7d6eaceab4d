// Game Engine Contract
//
// Package engine implements the six deterministic game engines (C1):
// pure state-transition functions over a typed board state, with move
// validation, terminal detection and move enumeration used both for
// legality checks and the bot.
package engine

import (
	"fmt"

	crjm "github.com/atilasos/crjm-server"
)

// State is a game-specific board together with whose turn it is.
// Implementations are immutable: Apply never mutates the receiver,
// it returns a fresh State.
type State interface {
	Turn() crjm.Role
	Terminal() bool
	Winner() crjm.Outcome
	Serialize() any
}

// Engine is the uniform contract every one of the six games
// implements. Moves are opaque to callers outside the engine that
// produced them; DecodeMove is the only place raw client input is
// turned into one.
type Engine interface {
	ID() crjm.GameID

	// Initial returns a fresh board with starting as the side to move.
	Initial(starting crjm.Role) State

	// Validate reports whether move is legal for role to play on s.
	Validate(s State, role crjm.Role, move any) bool

	// Apply returns the state after role plays move on s. Its
	// precondition is Validate(s, role, move).
	Apply(s State, role crjm.Role, move any) State

	// Enumerate lists legal moves for role on s: every one of them,
	// except in Produto, whose enumeration is a sample of the legal
	// placements (see produtoEngine.Enumerate).
	Enumerate(s State, role crjm.Role) []any

	// DecodeMove parses a client-supplied move payload.
	DecodeMove(data []byte) (any, error)
}

var registry = make(map[crjm.GameID]Engine)

func register(e Engine) {
	if _, dup := registry[e.ID()]; dup {
		panic(fmt.Sprintf("engine: duplicate registration for %s", e.ID()))
	}
	registry[e.ID()] = e
}

// Get looks up the engine for id.
func Get(id crjm.GameID) (Engine, bool) {
	e, ok := registry[id]
	return e, ok
}

// MustGet is like Get but panics if id is unknown; used where the
// caller already validated id against crjm.Games.
func MustGet(id crjm.GameID) Engine {
	e, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("engine: unknown game %s", id))
	}
	return e
}

func winnerOf(r crjm.Role) crjm.Outcome {
	if r == crjm.P1 {
		return crjm.WinP1
	}
	return crjm.WinP2
}
