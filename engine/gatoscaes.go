// Gatos & Cães: last-move-wins placement on an 8x8 board
//
package engine

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

const gcSize = 8
const gcMaxPieces = 28

type gcCell uint8

const (
	gcEmpty gcCell = iota
	gcCat          // p1
	gcDog          // p2
)

// GatosCaesMove places one cat or dog on (Row, Col).
type GatosCaesMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type gatosCaesState struct {
	grid                 [gcSize][gcSize]gcCell
	turn                 crjm.Role
	catPlaced, dogPlaced bool
	catCount, dogCount   int
}

func gcCentral(r, c int) bool {
	return (r == 3 || r == 4) && (c == 3 || c == 4)
}

func gcInBounds(r, c int) bool {
	return r >= 0 && r < gcSize && c >= 0 && c < gcSize
}

func (s *gatosCaesState) clone() *gatosCaesState {
	c := *s
	return &c
}

func (s *gatosCaesState) speciesFor(role crjm.Role) gcCell {
	if role == crjm.P1 {
		return gcCat
	}
	return gcDog
}

func (s *gatosCaesState) hasOppositeNeighbor(r, c int, species gcCell) bool {
	var opposite gcCell
	if species == gcCat {
		opposite = gcDog
	} else {
		opposite = gcCat
	}
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr, nc := r+d[0], c+d[1]
		if gcInBounds(nr, nc) && s.grid[nr][nc] == opposite {
			return true
		}
	}
	return false
}

func (s *gatosCaesState) legalMoves(role crjm.Role) []GatosCaesMove {
	species := s.speciesFor(role)
	if role == crjm.P1 {
		if s.catCount >= gcMaxPieces {
			return nil
		}
	} else if s.dogCount >= gcMaxPieces {
		return nil
	}

	var moves []GatosCaesMove
	for r := 0; r < gcSize; r++ {
		for c := 0; c < gcSize; c++ {
			if s.grid[r][c] != gcEmpty {
				continue
			}
			if role == crjm.P1 && !s.catPlaced && !gcCentral(r, c) {
				continue
			}
			if role == crjm.P2 && !s.dogPlaced && gcCentral(r, c) {
				continue
			}
			if s.hasOppositeNeighbor(r, c, species) {
				continue
			}
			moves = append(moves, GatosCaesMove{Row: r, Col: c})
		}
	}
	return moves
}

func (s *gatosCaesState) Turn() crjm.Role { return s.turn }

func (s *gatosCaesState) Terminal() bool {
	return len(s.legalMoves(s.turn)) == 0
}

func (s *gatosCaesState) Winner() crjm.Outcome {
	if !s.Terminal() {
		return crjm.NoOutcome
	}
	return winnerOf(s.turn.Other())
}

func (s *gatosCaesState) Serialize() any {
	rows := make([][]string, gcSize)
	for r := range rows {
		row := make([]string, gcSize)
		for c := range row {
			switch s.grid[r][c] {
			case gcCat:
				row[c] = "cat"
			case gcDog:
				row[c] = "dog"
			default:
				row[c] = "empty"
			}
		}
		rows[r] = row
	}
	return map[string]any{
		"board":     rows,
		"turn":      s.turn.String(),
		"catPlaced": s.catPlaced,
		"dogPlaced": s.dogPlaced,
		"catCount":  s.catCount,
		"dogCount":  s.dogCount,
	}
}

type gatosCaesEngine struct{}

func (gatosCaesEngine) ID() crjm.GameID { return crjm.GatosCaes }

func (gatosCaesEngine) Initial(starting crjm.Role) State {
	return &gatosCaesState{turn: starting}
}

func (gatosCaesEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*gatosCaesState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(GatosCaesMove)
	if !ok || !gcInBounds(m.Row, m.Col) || s.grid[m.Row][m.Col] != gcEmpty {
		return false
	}
	if role == crjm.P1 {
		if s.catCount >= gcMaxPieces {
			return false
		}
		if !s.catPlaced && !gcCentral(m.Row, m.Col) {
			return false
		}
	} else {
		if s.dogCount >= gcMaxPieces {
			return false
		}
		if !s.dogPlaced && gcCentral(m.Row, m.Col) {
			return false
		}
	}
	return !s.hasOppositeNeighbor(m.Row, m.Col, s.speciesFor(role))
}

func (gatosCaesEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*gatosCaesState).clone()
	m := move.(GatosCaesMove)
	s.grid[m.Row][m.Col] = s.speciesFor(role)
	if role == crjm.P1 {
		s.catPlaced = true
		s.catCount++
	} else {
		s.dogPlaced = true
		s.dogCount++
	}
	s.turn = role.Other()
	return s
}

func (gatosCaesEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*gatosCaesState)
	moves := s.legalMoves(role)
	out := make([]any, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out
}

func (gatosCaesEngine) DecodeMove(data []byte) (any, error) {
	var m GatosCaesMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(gatosCaesEngine{}) }
