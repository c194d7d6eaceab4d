// Produto: hex-board scoring game, radius 4 axial coordinates
//
package engine

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

const ptRadius = 4

// ptAxial is a cube-reduced axial coordinate (q, r).
type ptAxial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

var ptNeighborDirs = [6]ptAxial{
	{1, 0}, {1, -1}, {0, -1},
	{-1, 0}, {-1, 1}, {0, 1},
}

func ptInBounds(a ptAxial) bool {
	s := -a.Q - a.R
	abs := func(x int) int {
		if x < 0 {
			return -x
		}
		return x
	}
	return abs(a.Q) <= ptRadius && abs(a.R) <= ptRadius && abs(s) <= ptRadius
}

// ptAllCells lists all 61 cells of a radius-4 hex board.
func ptAllCells() []ptAxial {
	var cells []ptAxial
	for q := -ptRadius; q <= ptRadius; q++ {
		for r := -ptRadius; r <= ptRadius; r++ {
			a := ptAxial{q, r}
			if ptInBounds(a) {
				cells = append(cells, a)
			}
		}
	}
	return cells
}

type ptColor uint8

const (
	ptEmpty ptColor = iota
	ptBlack         // p1
	ptWhite         // p2
)

// ProdutoPlacement is one piece to place in a move.
type ProdutoPlacement struct {
	Coord ptAxial `json:"coord"`
	Color string  `json:"color"` // "black" or "white"
}

// ProdutoMove places one piece on the first move of the game, two
// thereafter, of any color(s), on empty cells.
type ProdutoMove struct {
	Placements []ProdutoPlacement `json:"placements"`
}

type produtoState struct {
	grid   map[ptAxial]ptColor
	turn   crjm.Role
	placed int // total pieces placed so far
}

func newProdutoState(starting crjm.Role) *produtoState {
	return &produtoState{grid: make(map[ptAxial]ptColor), turn: starting}
}

func (s *produtoState) clone() *produtoState {
	g := make(map[ptAxial]ptColor, len(s.grid))
	for k, v := range s.grid {
		g[k] = v
	}
	return &produtoState{grid: g, turn: s.turn, placed: s.placed}
}

func ptColorOf(name string) (ptColor, bool) {
	switch name {
	case "black":
		return ptBlack, true
	case "white":
		return ptWhite, true
	default:
		return ptEmpty, false
	}
}

func (c ptColor) String() string {
	switch c {
	case ptBlack:
		return "black"
	case ptWhite:
		return "white"
	default:
		return "empty"
	}
}

func (s *produtoState) requiredCount() int {
	if s.placed == 0 {
		return 1
	}
	return 2
}

func (s *produtoState) full() bool {
	return len(s.grid) == len(ptAllCells())
}

func (s *produtoState) Turn() crjm.Role { return s.turn }

func (s *produtoState) Terminal() bool { return s.full() }

// groupSizes returns the sizes of every connected group of color via
// the six axial neighbor directions.
func (s *produtoState) groupSizes(color ptColor) []int {
	visited := make(map[ptAxial]bool)
	var sizes []int
	for _, cell := range ptAllCells() {
		if s.grid[cell] != color || visited[cell] {
			continue
		}
		size := 0
		stack := []ptAxial{cell}
		visited[cell] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, d := range ptNeighborDirs {
				n := ptAxial{cur.Q + d.Q, cur.R + d.R}
				if ptInBounds(n) && s.grid[n] == color && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return sizes
}

func topTwoProduct(sizes []int) int {
	best1, best2 := 0, 0
	for _, sz := range sizes {
		if sz > best1 {
			best2 = best1
			best1 = sz
		} else if sz > best2 {
			best2 = sz
		}
	}
	if best2 == 0 {
		return 0
	}
	return best1 * best2
}

// Score computes a color's product score: two largest connected
// group sizes multiplied together, 0 if fewer than two groups exist.
func (s *produtoState) Score(color ptColor) int {
	return topTwoProduct(s.groupSizes(color))
}

func (s *produtoState) countColor(color ptColor) int {
	n := 0
	for _, c := range s.grid {
		if c == color {
			n++
		}
	}
	return n
}

func (s *produtoState) Winner() crjm.Outcome {
	if !s.Terminal() {
		return crjm.NoOutcome
	}
	blackScore, whiteScore := s.Score(ptBlack), s.Score(ptWhite)
	if blackScore > whiteScore {
		return crjm.WinP1
	}
	if whiteScore > blackScore {
		return crjm.WinP2
	}
	blackCount, whiteCount := s.countColor(ptBlack), s.countColor(ptWhite)
	if blackCount < whiteCount {
		return crjm.WinP1
	}
	if whiteCount < blackCount {
		return crjm.WinP2
	}
	return crjm.Draw
}

func (s *produtoState) Serialize() any {
	cells := make([]map[string]any, 0, len(s.grid))
	for coord, color := range s.grid {
		cells = append(cells, map[string]any{
			"q": coord.Q, "r": coord.R, "color": color.String(),
		})
	}
	return map[string]any{
		"cells":      cells,
		"turn":       s.turn.String(),
		"blackScore": s.Score(ptBlack),
		"whiteScore": s.Score(ptWhite),
	}
}

type produtoEngine struct{}

func (produtoEngine) ID() crjm.GameID { return crjm.Produto }

func (produtoEngine) Initial(starting crjm.Role) State {
	return newProdutoState(starting)
}

func (produtoEngine) Validate(st State, role crjm.Role, move any) bool {
	s, ok := st.(*produtoState)
	if !ok || s.Terminal() || role != s.turn {
		return false
	}
	m, ok := move.(ProdutoMove)
	if !ok || len(m.Placements) != s.requiredCount() {
		return false
	}
	seen := make(map[ptAxial]bool, len(m.Placements))
	for _, p := range m.Placements {
		if _, ok := ptColorOf(p.Color); !ok {
			return false
		}
		if !ptInBounds(p.Coord) || s.grid[p.Coord] != ptEmpty || seen[p.Coord] {
			return false
		}
		seen[p.Coord] = true
	}
	return true
}

func (produtoEngine) Apply(st State, role crjm.Role, move any) State {
	s := st.(*produtoState).clone()
	m := move.(ProdutoMove)
	for _, p := range m.Placements {
		color, _ := ptColorOf(p.Color)
		s.grid[p.Coord] = color
		s.placed++
	}
	s.turn = role.Other()
	return s
}

// Enumerate samples combinations rather than exhausting the
// full placement space: with up to 61 empty cells and 2-color picks
// per cell, the exact space is combinatorially large, so callers
// needing a playable move set (the bots) use this
// representative sample; Validate remains the source of truth for
// legality of a specific move.
func (produtoEngine) Enumerate(st State, role crjm.Role) []any {
	s := st.(*produtoState)
	need := s.requiredCount()
	var empties []ptAxial
	for _, c := range ptAllCells() {
		if s.grid[c] == ptEmpty {
			empties = append(empties, c)
		}
	}
	if len(empties) < need {
		return nil
	}
	colors := []string{"black", "white"}
	var out []any
	for i := 0; i+need <= len(empties); i++ {
		var placements []ProdutoPlacement
		for j := 0; j < need; j++ {
			placements = append(placements, ProdutoPlacement{
				Coord: empties[i+j],
				Color: colors[j%2],
			})
		}
		out = append(out, ProdutoMove{Placements: placements})
	}
	return out
}

func (produtoEngine) DecodeMove(data []byte) (any, error) {
	var m ProdutoMove
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(produtoEngine{}) }
