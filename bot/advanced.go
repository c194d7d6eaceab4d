// Per-game advanced heuristics
//
package bot

import (
	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

// chooseAdvanced applies the per-game heuristic of the advanced
// level, falling back to false if the game has none (none do, but
// new engines added without a heuristic still play legally via the
// basic level).
func chooseAdvanced(e engine.Engine, gameID crjm.GameID, state engine.State, role crjm.Role, moves []any) (any, bool) {
	switch gameID {
	case crjm.GatosCaes:
		return bestByMobility(e, state, role, moves, 10, 8), true
	case crjm.Dominorio:
		return chooseDominorioAdvanced(e, state, role, moves), true
	case crjm.Quelhas:
		return bestByMobility(e, state, role, moves, 1, 3), true
	case crjm.Produto:
		return chooseProdutoAdvanced(e, state, role, moves), true
	case crjm.AtariGo:
		return chooseAtariGoAdvanced(e, state, role, moves), true
	case crjm.Nex:
		return chooseNexAdvanced(role, moves), true
	default:
		return nil, false
	}
}

// bestByMobility maximizes myWeight*|myMoves| - oppWeight*|oppMoves|
// after playing each candidate move; ties keep the first encountered.
func bestByMobility(e engine.Engine, state engine.State, role crjm.Role, moves []any, myWeight, oppWeight int) any {
	best := moves[0]
	bestScore := minInt
	for _, m := range moves {
		next := e.Apply(state, role, m)
		my := len(e.Enumerate(next, role))
		opp := len(e.Enumerate(next, role.Other()))
		score := myWeight*my - oppWeight*opp
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

const minInt = -int(^uint(0)>>1) - 1
const maxInt = int(^uint(0) >> 1)

// chooseDominorioAdvanced runs a depth-2 alpha-beta search whose
// leaf evaluation is |myMoves|*5 - |oppMoves|*4.
func chooseDominorioAdvanced(e engine.Engine, state engine.State, role crjm.Role, moves []any) any {
	best := moves[0]
	bestScore := minInt
	for _, m := range moves {
		next := e.Apply(state, role, m)
		score := -dominorioSearch(e, next, role.Other(), role, 1, minInt, maxInt)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

func dominorioLeaf(e engine.Engine, state engine.State, me crjm.Role) int {
	my := len(e.Enumerate(state, me))
	opp := len(e.Enumerate(state, me.Other()))
	return my*5 - opp*4
}

// dominorioSearch is a negamax-form alpha-beta search: it always
// returns the score from the perspective of toMove, so callers
// negate the child's score on the way back up.
func dominorioSearch(e engine.Engine, state engine.State, toMove, me crjm.Role, depth int, alpha, beta int) int {
	if state.Terminal() || depth == 0 {
		score := dominorioLeaf(e, state, me)
		if toMove != me {
			score = -score
		}
		return score
	}
	moves := e.Enumerate(state, toMove)
	if len(moves) == 0 {
		score := dominorioLeaf(e, state, me)
		if toMove != me {
			score = -score
		}
		return score
	}
	best := minInt
	for _, m := range moves {
		next := e.Apply(state, toMove, m)
		score := -dominorioSearch(e, next, toMove.Other(), me, depth-1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// chooseProdutoAdvanced samples up to 100 candidate moves and
// maximizes myScore - 0.9*oppScore using the engine's product
// scoring, read back from the serialized resulting state.
func chooseProdutoAdvanced(e engine.Engine, state engine.State, role crjm.Role, moves []any) any {
	sample := moves
	if len(sample) > 100 {
		sample = sample[:100]
	}
	best := sample[0]
	bestScore := -1e18
	for _, m := range sample {
		next := e.Apply(state, role, m)
		ser, ok := next.Serialize().(map[string]any)
		if !ok {
			continue
		}
		blackScore, _ := ser["blackScore"].(int)
		whiteScore, _ := ser["whiteScore"].(int)
		myScore, oppScore := blackScore, whiteScore
		if role == crjm.P2 {
			myScore, oppScore = whiteScore, blackScore
		}
		score := float64(myScore) - 0.9*float64(oppScore)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

// chooseAtariGoAdvanced prefers any move that captures immediately;
// otherwise it maximizes
// 100*oppAtariGroups - 80*myAtariGroups - 2*L1distance((r,c),(4,4)).
func chooseAtariGoAdvanced(e engine.Engine, state engine.State, role crjm.Role, moves []any) any {
	board := serializeBoard(state)
	before := countStones(board, opposingColorName(role))

	var best any
	bestScore := minInt
	for _, m := range moves {
		next := e.Apply(state, role, m)
		nextBoard := serializeBoard(next)
		after := countStones(nextBoard, opposingColorName(role))
		if after < before {
			return m // immediate capture, chosen outright
		}
		oppAtari := countAtariGroups(nextBoard, opposingColorName(role))
		myAtari := countAtariGroups(nextBoard, colorName(role))
		r, c, isPlacement := atariGoCoord(m)
		dist := 0
		if isPlacement {
			dist = l1(r, c, 4, 4)
		}
		score := 100*oppAtari - 80*myAtari - 2*dist
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	if best == nil {
		best = moves[0]
	}
	return best
}

// chooseNexAdvanced prefers "place" moves near the center, biased by
// color: black biases |c-5|, white biases |r-5|.
func chooseNexAdvanced(role crjm.Role, moves []any) any {
	var best any
	bestScore := minInt
	for _, m := range moves {
		nm, ok := m.(engine.NexMove)
		if !ok || nm.Type != "place" || nm.OwnPiece == nil {
			continue
		}
		var bias int
		if role == crjm.P1 {
			bias = absInt(nm.OwnPiece.Col - 5)
		} else {
			bias = absInt(nm.OwnPiece.Row - 5)
		}
		score := -bias
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	if best == nil {
		best = moves[0]
	}
	return best
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func l1(r1, c1, r2, c2 int) int {
	return absInt(r1-r2) + absInt(c1-c2)
}
