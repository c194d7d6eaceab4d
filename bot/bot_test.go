package bot

import (
	"testing"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/engine"
)

func TestChooseMoveIsAlwaysLegal(t *testing.T) {
	for i, test := range []struct {
		game  crjm.GameID
		level crjm.Level
	}{
		{crjm.GatosCaes, crjm.Basic},
		{crjm.GatosCaes, crjm.Advanced},
		{crjm.Dominorio, crjm.Basic},
		{crjm.Dominorio, crjm.Advanced},
		{crjm.Quelhas, crjm.Basic},
		{crjm.Quelhas, crjm.Advanced},
		{crjm.Produto, crjm.Basic},
		{crjm.Produto, crjm.Advanced},
		{crjm.AtariGo, crjm.Basic},
		{crjm.AtariGo, crjm.Advanced},
		{crjm.Nex, crjm.Basic},
		{crjm.Nex, crjm.Advanced},
	} {
		e := engine.MustGet(test.game)
		s := e.Initial(crjm.P1)
		for step := 0; step < 30 && !s.Terminal(); step++ {
			role := s.Turn()
			move, ok := ChooseMove(test.game, s, role, test.level)
			if !ok {
				t.Errorf("[%d] %s/%s: no move chosen at step %d", i, test.game, test.level, step)
				break
			}
			if !e.Validate(s, role, move) {
				t.Fatalf("[%d] %s/%s: chose illegal move %+v at step %d", i, test.game, test.level, move, step)
			}
			s = e.Apply(s, role, move)
		}
	}
}
