// Bot Policy (C2)
//
// Package bot implements the pure move-choosing function used to
// drive synthetic players: a basic level playing uniformly at
// random, and an advanced level applying a per-game heuristic.
package bot

import (
	"math/rand"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

// ChooseMove picks a move for role to play on state, or reports
// false if no legal move exists (the engine should already report
// Terminal() in that case, but callers need not assume so).
func ChooseMove(gameID crjm.GameID, state engine.State, role crjm.Role, level crjm.Level) (any, bool) {
	e := engine.MustGet(gameID)
	moves := e.Enumerate(state, role)
	if len(moves) == 0 {
		return nil, false
	}
	if level == crjm.Advanced {
		if move, ok := chooseAdvanced(e, gameID, state, role, moves); ok {
			return move, true
		}
	}
	return chooseBasic(moves), true
}

// chooseBasic plays uniformly at random over the legal moves.
func chooseBasic(moves []any) any {
	return moves[rand.Intn(len(moves))]
}
