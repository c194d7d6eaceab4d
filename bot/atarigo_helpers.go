// Atari Go board introspection for the advanced heuristic
//
package bot

import (
	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

// serializeBoard reads back the "board" field of an Atari Go state's
// serialized form, since the heuristic only has the Engine interface
// to work with, not the package-private state type.
func serializeBoard(state engine.State) [][]string {
	ser, ok := state.Serialize().(map[string]any)
	if !ok {
		return nil
	}
	rows, ok := ser["board"].([][]string)
	if !ok {
		return nil
	}
	return rows
}

func colorName(role crjm.Role) string {
	if role == crjm.P1 {
		return "black"
	}
	return "white"
}

func opposingColorName(role crjm.Role) string {
	return colorName(role.Other())
}

func countStones(board [][]string, color string) int {
	n := 0
	for _, row := range board {
		for _, cell := range row {
			if cell == color {
				n++
			}
		}
	}
	return n
}

var atariGoNeighborDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// countAtariGroups counts connected groups of color with exactly one
// liberty, re-deriving group/liberty structure from the board text
// the same way the engine does internally.
func countAtariGroups(board [][]string, color string) int {
	if board == nil {
		return 0
	}
	size := len(board)
	visited := make([][]bool, size)
	for i := range visited {
		visited[i] = make([]bool, size)
	}
	count := 0
	for r := 0; r < size; r++ {
		for c := 0; c < len(board[r]); c++ {
			if board[r][c] != color || visited[r][c] {
				continue
			}
			libs := make(map[[2]int]bool)
			stack := [][2]int{{r, c}}
			visited[r][c] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range atariGoNeighborDirs {
					nr, nc := cur[0]+d[0], cur[1]+d[1]
					if nr < 0 || nr >= size || nc < 0 || nc >= len(board[nr]) {
						continue
					}
					switch {
					case board[nr][nc] == "empty":
						libs[[2]int{nr, nc}] = true
					case board[nr][nc] == color && !visited[nr][nc]:
						visited[nr][nc] = true
						stack = append(stack, [2]int{nr, nc})
					}
				}
			}
			if len(libs) == 1 {
				count++
			}
		}
	}
	return count
}

// atariGoCoord extracts the placement coordinate of a move, if any
// (a pass has none).
func atariGoCoord(m any) (r, c int, ok bool) {
	mv, isPlacement := m.(engine.AtariGoMove)
	if !isPlacement || mv.Pass {
		return 0, 0, false
	}
	return mv.Row, mv.Col, true
}
