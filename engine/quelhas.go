// Quelhas: misère segment placement on a 10x10 board, with swap
//
package engine

import (
	"encoding/json"
	"sort"

	crjm "github.com/atilasos/crjm-server"
)

const qlSize = 10

// QuelhasCell is one coordinate of a segment move.
type QuelhasCell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// QuelhasMove either places a segment of Cells, or (only legal as
// the second move of the game, for p2) declares Swap.
type QuelhasMove struct {
	Cells []QuelhasCell `json:"cells"`
	Swap  bool          `json:"swap,omitempty"`
}

type quelhasState struct {
	grid    [qlSize][qlSize]bool // true = filled
	turn    crjm.Role
	moveNum int // 0-based count of moves already played
	swapped bool
}

func (s *quelhasState) clone() *quelhasState {
	c := *s
	return &c
}

// vertical reports whether role currently plays vertical (column)
// segments, accounting for a swap.
func (s *quelhasState) vertical(role crjm.Role) bool {
	p1Vertical := !s.swapped
	if role == crjm.P1 {
		return p1Vertical
	}
	return !p1Vertical
}

func qlInBounds(r, c int) bool { return r >= 0 && r < qlSize && c >= 0 && c < qlSize }

// canonicalKey produces a stable dedup key for a set of cells.
func canonicalKey(cells []QuelhasCell) string {
	sorted := append([]QuelhasCell(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})
	b := make([]byte, 0, len(sorted)*8)
	for _, c := range sorted {
		b = append(b, byte(c.Row), byte(c.Row>>8), byte(c.Col), byte(c.Col>>8))
	}
	return string(b)
}

// legalMoves enumerates every maximal empty run along the axis role
// plays, and every contiguous sub-segment of length >= 2 within it.
func (s *quelhasState) legalMoves(role crjm.Role) []QuelhasMove {
	seen := make(map[string]bool)
	var moves []QuelhasMove

	addRun := func(cells []QuelhasCell) {
		n := len(cells)
		for start := 0; start < n; start++ {
			for end := start + 1; end < n; end++ {
				seg := cells[start : end+1]
				key := canonicalKey(seg)
				if seen[key] {
					continue
				}
				seen[key] = true
				moves = append(moves, QuelhasMove{Cells: append([]QuelhasCell(nil), seg...)})
			}
		}
	}

	if s.vertical(role) {
		for c := 0; c < qlSize; c++ {
			var run []QuelhasCell
			flush := func() { if len(run) >= 2 { addRun(run) }; run = nil }
			for r := 0; r < qlSize; r++ {
				if !s.grid[r][c] {
					run = append(run, QuelhasCell{Row: r, Col: c})
				} else {
					flush()
				}
			}
			flush()
		}
	} else {
		for r := 0; r < qlSize; r++ {
			var run []QuelhasCell
			flush := func() { if len(run) >= 2 { addRun(run) }; run = nil }
			for c := 0; c < qlSize; c++ {
				if !s.grid[r][c] {
					run = append(run, QuelhasCell{Row: r, Col: c})
				} else {
					flush()
				}
			}
			flush()
		}
	}

	// The swap option exists only as move #2, for p2.
	if s.moveNum == 1 && role == crjm.P2 {
		moves = append(moves, QuelhasMove{Swap: true})
	}
	return moves
}

func (s *quelhasState) Turn() crjm.Role { return s.turn }

func (s *quelhasState) Terminal() bool {
	return len(s.legalMoves(s.turn)) == 0
}

func (s *quelhasState) Winner() crjm.Outcome {
	if !s.Terminal() {
		return crjm.NoOutcome
	}
	// Misère: the player who just moved (i.e. not to move now) loses.
	return winnerOf(s.turn)
}

func (s *quelhasState) Serialize() any {
	rows := make([][]bool, qlSize)
	for r := range rows {
		row := make([]bool, qlSize)
		copy(row, s.grid[r][:])
		rows[r] = row
	}
	return map[string]any{
		"board":   rows,
		"turn":    s.turn.String(),
		"swapped": s.swapped,
		"moveNum": s.moveNum,
	}
}

type quelhasEngine struct{}

func (quelhasEngine) ID() crjm.GameID { return crjm.Quelhas }

func (quelhasEngine) Initial(starting crjm.Role) State {
	return &quelhasState{turn: starting}
}

func isQuelhasSegment(s *quelhasState, role crjm.Role, m QuelhasMove) bool {
	if len(m.Cells) < 2 {
		return false
	}
	seen := make(map[QuelhasCell]bool, len(m.Cells))
	for _, c := range m.Cells {
		if !qlInBounds(c.Row, c.Col) || s.grid[c.Row][c.Col] || seen[c] {
			return false
		}
		seen[c] = true
	}
	sorted := append([]QuelhasCell(nil), m.Cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})
	if s.vertical(role) {
		col := sorted[0].Col
		for i, c := range sorted {
			if c.Col != col || c.Row != sorted[0].Row+i {
				return false
			}
		}
	} else {
		row := sorted[0].Row
		for i, c := range sorted {
			if c.Row != row || c.Col != sorted[0].Col+i {
				return false
			}
		}
	}
	return true
}

func (quelhasEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*quelhasState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(QuelhasMove)
	if !ok {
		return false
	}
	if m.Swap {
		return s.moveNum == 1 && role == crjm.P2
	}
	return isQuelhasSegment(s, role, m)
}

func (quelhasEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*quelhasState).clone()
	m := move.(QuelhasMove)
	if m.Swap {
		s.swapped = !s.swapped
		s.moveNum++
		s.turn = crjm.P1
		return s
	}
	for _, c := range m.Cells {
		s.grid[c.Row][c.Col] = true
	}
	s.moveNum++
	s.turn = role.Other()
	return s
}

func (quelhasEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*quelhasState)
	moves := s.legalMoves(role)
	out := make([]any, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out
}

func (quelhasEngine) DecodeMove(data []byte) (any, error) {
	var m QuelhasMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(quelhasEngine{}) }
