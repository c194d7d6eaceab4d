// Dominório: misère domino placement on an 8x8 board
//
package engine

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

const doSize = 8

type doCell uint8

const (
	doEmpty doCell = iota
	doP1           // vertical domino
	doP2           // horizontal domino
)

// DominorioMove places a domino spanning (Row1,Col1)-(Row2,Col2).
type DominorioMove struct {
	Row1 int `json:"row1"`
	Col1 int `json:"col1"`
	Row2 int `json:"row2"`
	Col2 int `json:"col2"`
}

type dominorioState struct {
	grid [doSize][doSize]doCell
	turn crjm.Role
}

func (s *dominorioState) clone() *dominorioState {
	c := *s
	return &c
}

func doInBounds(r, c int) bool {
	return r >= 0 && r < doSize && c >= 0 && c < doSize
}

// doOriented normalizes a move so its first cell is above or left of
// its second, and checks it has the shape required by role: p1 plays
// vertical dominoes (same column, adjacent rows), p2 plays horizontal
// (same row, adjacent columns).
func doOriented(role crjm.Role, m DominorioMove) (r1, c1, r2, c2 int, ok bool) {
	r1, c1, r2, c2 = m.Row1, m.Col1, m.Row2, m.Col2
	if r1 > r2 || (r1 == r2 && c1 > c2) {
		r1, c1, r2, c2 = r2, c2, r1, c1
	}
	if role == crjm.P1 {
		if c1 != c2 || r2-r1 != 1 {
			return 0, 0, 0, 0, false
		}
	} else {
		if r1 != r2 || c2-c1 != 1 {
			return 0, 0, 0, 0, false
		}
	}
	return r1, c1, r2, c2, true
}

func (s *dominorioState) legalMoves(role crjm.Role) []DominorioMove {
	var moves []DominorioMove
	if role == crjm.P1 {
		for r := 0; r+1 < doSize; r++ {
			for c := 0; c < doSize; c++ {
				if s.grid[r][c] == doEmpty && s.grid[r+1][c] == doEmpty {
					moves = append(moves, DominorioMove{Row1: r, Col1: c, Row2: r + 1, Col2: c})
				}
			}
		}
	} else {
		for r := 0; r < doSize; r++ {
			for c := 0; c+1 < doSize; c++ {
				if s.grid[r][c] == doEmpty && s.grid[r][c+1] == doEmpty {
					moves = append(moves, DominorioMove{Row1: r, Col1: c, Row2: r, Col2: c + 1})
				}
			}
		}
	}
	return moves
}

func (s *dominorioState) Turn() crjm.Role { return s.turn }

func (s *dominorioState) Terminal() bool {
	return len(s.legalMoves(s.turn)) == 0
}

func (s *dominorioState) Winner() crjm.Outcome {
	if !s.Terminal() {
		return crjm.NoOutcome
	}
	return winnerOf(s.turn.Other())
}

func (s *dominorioState) Serialize() any {
	rows := make([][]int, doSize)
	for r := range rows {
		row := make([]int, doSize)
		for c := range row {
			row[c] = int(s.grid[r][c])
		}
		rows[r] = row
	}
	return map[string]any{"board": rows, "turn": s.turn.String()}
}

type dominorioEngine struct{}

func (dominorioEngine) ID() crjm.GameID { return crjm.Dominorio }

func (dominorioEngine) Initial(starting crjm.Role) State {
	return &dominorioState{turn: starting}
}

func (dominorioEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*dominorioState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(DominorioMove)
	if !ok {
		return false
	}
	r1, c1, r2, c2, ok := doOriented(role, m)
	if !ok || !doInBounds(r1, c1) || !doInBounds(r2, c2) {
		return false
	}
	return s.grid[r1][c1] == doEmpty && s.grid[r2][c2] == doEmpty
}

func (dominorioEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*dominorioState).clone()
	m := move.(DominorioMove)
	r1, c1, r2, c2, _ := doOriented(role, m)
	cell := doCell(doP1)
	if role == crjm.P2 {
		cell = doP2
	}
	s.grid[r1][c1] = cell
	s.grid[r2][c2] = cell
	s.turn = role.Other()
	return s
}

func (dominorioEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*dominorioState)
	moves := s.legalMoves(role)
	out := make([]any, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out
}

func (dominorioEngine) DecodeMove(data []byte) (any, error) {
	var m DominorioMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(dominorioEngine{}) }
