// Atari Go: first-capture-wins, 9x9, no ko
//
package engine

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

const agSize = 9

type agColor uint8

const (
	agEmpty agColor = iota
	agBlack         // p1
	agWhite         // p2
)

// AtariGoMove places a stone on (Row, Col), or passes.
type AtariGoMove struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Pass bool `json:"pass,omitempty"`
}

type agState struct {
	grid       [agSize][agSize]agColor
	turn       crjm.Role
	passes     int // consecutive passes
	captured   bool
	capturedBy crjm.Role
}

func (s *agState) clone() *agState {
	c := *s
	return &c
}

func agInBounds(r, c int) bool { return r >= 0 && r < agSize && c >= 0 && c < agSize }

func agColorFor(role crjm.Role) agColor {
	if role == crjm.P1 {
		return agBlack
	}
	return agWhite
}

// agGroup returns all stones of the same group as (r,c), plus whether
// that group has any liberty, scanning the grid g.
func agGroup(g *[agSize][agSize]agColor, r, c int) (stones []([2]int), liberty bool) {
	color := g[r][c]
	visited := make(map[[2]int]bool)
	stack := [][2]int{{r, c}}
	visited[[2]int{r, c}] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stones = append(stones, cur)
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nr, nc := cur[0]+d[0], cur[1]+d[1]
			if !agInBounds(nr, nc) {
				continue
			}
			switch g[nr][nc] {
			case agEmpty:
				liberty = true
			case color:
				key := [2]int{nr, nc}
				if !visited[key] {
					visited[key] = true
					stack = append(stack, key)
				}
			}
		}
	}
	return stones, liberty
}

func (s *agState) Turn() crjm.Role { return s.turn }

func (s *agState) Terminal() bool {
	return s.captured || s.passes >= 2
}

func (s *agState) Winner() crjm.Outcome {
	if s.captured {
		return winnerOf(s.capturedBy)
	}
	if s.passes >= 2 {
		return crjm.Draw
	}
	return crjm.NoOutcome
}

func (s *agState) Serialize() any {
	rows := make([][]string, agSize)
	for r := range rows {
		row := make([]string, agSize)
		for c := range row {
			switch s.grid[r][c] {
			case agBlack:
				row[c] = "black"
			case agWhite:
				row[c] = "white"
			default:
				row[c] = "empty"
			}
		}
		rows[r] = row
	}
	return map[string]any{"board": rows, "turn": s.turn.String(), "passes": s.passes}
}

// agLegalPlacement checks rule 2 of §4.1.5 without mutating g.
func agLegalPlacement(g *[agSize][agSize]agColor, r, c int, own agColor) bool {
	if !agInBounds(r, c) || g[r][c] != agEmpty {
		return false
	}
	trial := *g
	trial[r][c] = own
	opp := agWhite
	if own == agWhite {
		opp = agBlack
	}
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr, nc := r+d[0], c+d[1]
		if agInBounds(nr, nc) && trial[nr][nc] == opp {
			if _, lib := agGroup(&trial, nr, nc); !lib {
				return true // capture
			}
		}
	}
	_, lib := agGroup(&trial, r, c)
	return lib
}

func (s *agState) legalMoves(role crjm.Role) []AtariGoMove {
	moves := []AtariGoMove{{Pass: true}}
	own := agColorFor(role)
	for r := 0; r < agSize; r++ {
		for c := 0; c < agSize; c++ {
			if agLegalPlacement(&s.grid, r, c, own) {
				moves = append(moves, AtariGoMove{Row: r, Col: c})
			}
		}
	}
	return moves
}

type atariGoEngine struct{}

func (atariGoEngine) ID() crjm.GameID { return crjm.AtariGo }

func (atariGoEngine) Initial(starting crjm.Role) State {
	return &agState{turn: starting}
}

func (atariGoEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*agState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(AtariGoMove)
	if !ok {
		return false
	}
	if m.Pass {
		return true
	}
	return agLegalPlacement(&s.grid, m.Row, m.Col, agColorFor(role))
}

func (atariGoEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*agState).clone()
	m := move.(AtariGoMove)
	if m.Pass {
		s.passes++
		s.turn = role.Other()
		return s
	}
	s.passes = 0
	own := agColorFor(role)
	s.grid[m.Row][m.Col] = own
	opp := agWhite
	if own == agWhite {
		opp = agBlack
	}
	anyCapture := false
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr, nc := m.Row+d[0], m.Col+d[1]
		if !agInBounds(nr, nc) || s.grid[nr][nc] != opp {
			continue
		}
		stones, lib := agGroup(&s.grid, nr, nc)
		if !lib {
			anyCapture = true
			for _, st := range stones {
				s.grid[st[0]][st[1]] = agEmpty
			}
		}
	}
	if anyCapture {
		s.captured = true
		s.capturedBy = role
	}
	s.turn = role.Other()
	return s
}

func (atariGoEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*agState)
	moves := s.legalMoves(role)
	out := make([]any, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out
}

func (atariGoEngine) DecodeMove(data []byte) (any, error) {
	var m AtariGoMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(atariGoEngine{}) }
