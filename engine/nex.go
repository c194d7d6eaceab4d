// Nex: hex-neighborhood connection game on an 11x11 square grid
//
package engine

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

const nxSize = 11

type nxColor uint8

const (
	nxEmpty nxColor = iota
	nxBlack         // connects top row to bottom row
	nxWhite         // connects left column to right column
	nxNeutral
)

// the six-direction hex neighborhood laid over a square grid
var nxNeighborDirs = [6][2]int{
	{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0},
}

// NexCoord is a board cell.
type NexCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NexMove is one of place, convert or swap, per §4.1.6.
type NexMove struct {
	Type              string     `json:"type"`
	OwnPiece          *NexCoord  `json:"ownPiece,omitempty"`
	NeutralPiece      *NexCoord  `json:"neutralPiece,omitempty"`
	NeutralsToConvert []NexCoord `json:"neutralsToConvert,omitempty"`
	OwnToNeutral      *NexCoord  `json:"ownToNeutral,omitempty"`
}

type nxState struct {
	grid    [nxSize][nxSize]nxColor
	turn    crjm.Role
	moveNum int
	swapped bool
}

func (s *nxState) clone() *nxState {
	c := *s
	return &c
}

func nxInBounds(r, c int) bool { return r >= 0 && r < nxSize && c >= 0 && c < nxSize }

// colorFor maps a role to its own color, accounting for a swap.
func (s *nxState) colorFor(role crjm.Role) nxColor {
	p1Black := !s.swapped
	if role == crjm.P1 {
		if p1Black {
			return nxBlack
		}
		return nxWhite
	}
	if p1Black {
		return nxWhite
	}
	return nxBlack
}

func (s *nxState) Turn() crjm.Role { return s.turn }

// connected reports whether color forms a path between its two
// target edges via the six-direction hex neighborhood.
func (s *nxState) connected(color nxColor) bool {
	visited := make(map[[2]int]bool)
	var stack [][2]int
	reachesFar := false

	if color == nxBlack {
		for c := 0; c < nxSize; c++ {
			if s.grid[0][c] == nxBlack {
				stack = append(stack, [2]int{0, c})
				visited[[2]int{0, c}] = true
			}
		}
	} else {
		for r := 0; r < nxSize; r++ {
			if s.grid[r][0] == nxWhite {
				stack = append(stack, [2]int{r, 0})
				visited[[2]int{r, 0}] = true
			}
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if color == nxBlack && cur[0] == nxSize-1 {
			reachesFar = true
		}
		if color == nxWhite && cur[1] == nxSize-1 {
			reachesFar = true
		}
		for _, d := range nxNeighborDirs {
			nr, nc := cur[0]+d[0], cur[1]+d[1]
			if !nxInBounds(nr, nc) || s.grid[nr][nc] != color {
				continue
			}
			key := [2]int{nr, nc}
			if !visited[key] {
				visited[key] = true
				stack = append(stack, key)
			}
		}
	}
	return reachesFar
}

func (s *nxState) Terminal() bool {
	return s.connected(nxBlack) || s.connected(nxWhite)
}

func (s *nxState) Winner() crjm.Outcome {
	blackWon := s.connected(nxBlack)
	whiteWon := s.connected(nxWhite)
	switch {
	case blackWon && !whiteWon:
		return winnerOf(s.roleFor(nxBlack))
	case whiteWon && !blackWon:
		return winnerOf(s.roleFor(nxWhite))
	default:
		return crjm.NoOutcome
	}
}

// roleFor is the inverse of colorFor: which role currently owns color.
func (s *nxState) roleFor(color nxColor) crjm.Role {
	if s.colorFor(crjm.P1) == color {
		return crjm.P1
	}
	return crjm.P2
}

func (s *nxState) Serialize() any {
	rows := make([][]string, nxSize)
	names := map[nxColor]string{nxEmpty: "empty", nxBlack: "black", nxWhite: "white", nxNeutral: "neutral"}
	for r := range rows {
		row := make([]string, nxSize)
		for c := range row {
			row[c] = names[s.grid[r][c]]
		}
		rows[r] = row
	}
	return map[string]any{
		"board":   rows,
		"turn":    s.turn.String(),
		"swapped": s.swapped,
		"moveNum": s.moveNum,
	}
}

type nexEngine struct{}

func (nexEngine) ID() crjm.GameID { return crjm.Nex }

func (nexEngine) Initial(starting crjm.Role) State {
	return &nxState{turn: starting}
}

func (nexEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*nxState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(NexMove)
	if !ok {
		return false
	}
	own := s.colorFor(role)
	switch m.Type {
	case "place":
		if m.OwnPiece == nil || m.NeutralPiece == nil {
			return false
		}
		if *m.OwnPiece == *m.NeutralPiece {
			return false
		}
		return nxInBounds(m.OwnPiece.Row, m.OwnPiece.Col) &&
			s.grid[m.OwnPiece.Row][m.OwnPiece.Col] == nxEmpty &&
			nxInBounds(m.NeutralPiece.Row, m.NeutralPiece.Col) &&
			s.grid[m.NeutralPiece.Row][m.NeutralPiece.Col] == nxEmpty
	case "convert":
		if len(m.NeutralsToConvert) != 2 || m.OwnToNeutral == nil {
			return false
		}
		if m.NeutralsToConvert[0] == m.NeutralsToConvert[1] {
			return false
		}
		for _, n := range m.NeutralsToConvert {
			if !nxInBounds(n.Row, n.Col) || s.grid[n.Row][n.Col] != nxNeutral {
				return false
			}
		}
		return nxInBounds(m.OwnToNeutral.Row, m.OwnToNeutral.Col) &&
			s.grid[m.OwnToNeutral.Row][m.OwnToNeutral.Col] == own
	case "swap":
		return s.moveNum == 1 && role == crjm.P2
	default:
		return false
	}
}

func (nexEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*nxState).clone()
	m := move.(NexMove)
	own := s.colorFor(role)
	switch m.Type {
	case "place":
		s.grid[m.OwnPiece.Row][m.OwnPiece.Col] = own
		s.grid[m.NeutralPiece.Row][m.NeutralPiece.Col] = nxNeutral
	case "convert":
		for _, n := range m.NeutralsToConvert {
			s.grid[n.Row][n.Col] = own
		}
		s.grid[m.OwnToNeutral.Row][m.OwnToNeutral.Col] = nxNeutral
	case "swap":
		s.swapped = !s.swapped
		s.moveNum++
		s.turn = crjm.P1
		return s
	}
	s.moveNum++
	s.turn = role.Other()
	return s
}

func (nexEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*nxState)
	own := s.colorFor(role)
	var empties []NexCoord
	var neutrals []NexCoord
	var ownCells []NexCoord
	for r := 0; r < nxSize; r++ {
		for c := 0; c < nxSize; c++ {
			switch s.grid[r][c] {
			case nxEmpty:
				empties = append(empties, NexCoord{Row: r, Col: c})
			case nxNeutral:
				neutrals = append(neutrals, NexCoord{Row: r, Col: c})
			case own:
				ownCells = append(ownCells, NexCoord{Row: r, Col: c})
			}
		}
	}

	var out []any
	for i, a := range empties {
		for j, b := range empties {
			if i == j {
				continue
			}
			ac, bc := a, b
			out = append(out, NexMove{Type: "place", OwnPiece: &ac, NeutralPiece: &bc})
		}
	}
	for i := 0; i < len(neutrals); i++ {
		for j := i + 1; j < len(neutrals); j++ {
			for _, ownCell := range ownCells {
				n1, n2, oc := neutrals[i], neutrals[j], ownCell
				out = append(out, NexMove{Type: "convert", NeutralsToConvert: []NexCoord{n1, n2}, OwnToNeutral: &oc})
			}
		}
	}
	if s.moveNum == 1 && role == crjm.P2 {
		out = append(out, NexMove{Type: "swap"})
	}
	return out
}

func (nexEngine) DecodeMove(data []byte) (any, error) {
	var m NexMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(nexEngine{}) }
