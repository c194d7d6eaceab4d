// Double-elimination bracket construction

package tournament

import (
	"math/rand"

	"github.com/google/uuid"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/match"
)

func nextPow2(n int) int {
	b := 1
	for b < n {
		b *= 2
	}
	return b
}

func log2(b int) int {
	r := 0
	for b > 1 {
		b /= 2
		r++
	}
	return r
}

func (t *Tournament) newMatch(round int, bracket crjm.Bracket) *match.Match {
	m := match.New(uuid.NewString(), round, bracket, t.GameID)
	t.matchByID[m.ID] = m
	return m
}

// Start builds the double-elimination bracket for the registered
// players, per §4.5.2. Requires at least two players.
func (t *Tournament) Start() error {
	if t.Phase != Registration {
		return crjm.NewError(crjm.ErrJoinFailed, "tournament already started")
	}
	ids := make([]string, 0, len(t.Players))
	for id := range t.Players {
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return crjm.NewError(crjm.ErrJoinFailed, "need at least two players")
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := len(ids)
	b := nextPow2(n)
	r := log2(b)

	slots := make([]string, b)
	copy(slots, ids)

	wr := t.buildWinnersBracket(slots, r)
	t.buildLosersBracket(wr, r)
	t.buildGrandFinal(wr)

	t.Phase = Running
	return nil
}

// buildWinnersBracket constructs rounds 1..r, returns the per-round
// match slices so the losers bracket and grand final can reference
// them by round.
func (t *Tournament) buildWinnersBracket(slots []string, r int) [][]*match.Match {
	rounds := make([][]*match.Match, r)

	matches := len(slots) / 2
	round1 := make([]*match.Match, matches)
	for i := range round1 {
		m := t.newMatch(1, crjm.Winners)
		// Pair slot i against slot matches+i rather than adjacent
		// slots: since real ids always fill the front of slots and
		// "" padding only the tail, this spreads any byes one per
		// match instead of clustering pairs of empty slots together.
		m.P1, m.P2 = slots[i], slots[matches+i]
		if (m.P1 == "") != (m.P2 == "") {
			winner := m.P1
			if winner == "" {
				winner = m.P2
			}
			m.SetBye(winner)
		}
		round1[i] = m
		t.WinnersMatches = append(t.WinnersMatches, m)
	}
	rounds[0] = round1

	prev := round1
	for round := 2; round <= r; round++ {
		cur := make([]*match.Match, len(prev)/2)
		for i := range cur {
			m := t.newMatch(round, crjm.Winners)
			a, bm := prev[2*i], prev[2*i+1]
			a.AdvanceWinnerTo = m.ID
			bm.AdvanceWinnerTo = m.ID
			if a.Phase == match.Finished {
				m.FillSlot(a.Winner)
			}
			if bm.Phase == match.Finished {
				m.FillSlot(bm.Winner)
			}
			cur[i] = m
			t.WinnersMatches = append(t.WinnersMatches, m)
		}
		rounds[round-1] = cur
		prev = cur
	}
	return rounds
}

// buildLosersBracket builds 2*(r-1) rounds alternating drop-in (odd
// "major" index) and elimination, per §4.5.2. See DESIGN.md for the
// round-numbering derivation: rounds come in pairs — a drop-in round
// that absorbs one winners-bracket round's losers paired against
// survivors, followed (from the second pair onward) by an
// elimination round that halves survivors down to the count the
// next winners round will produce.
func (t *Tournament) buildLosersBracket(wr [][]*match.Match, r int) {
	if r < 2 {
		return
	}

	// Round 1 drop-in: pair up WR round 1's losers.
	round1 := make([]*match.Match, 0, len(wr[0])/2)
	// round1Dead[i] marks a pairing of two winners-bracket byes: it
	// will never produce a winner at all (neither feeder ever plays a
	// real game), so the next round must treat it as absent rather
	// than as a delayed single entrant.
	round1Dead := make([]bool, 0, len(wr[0])/2)
	for i := 0; i+1 < len(wr[0]); i += 2 {
		a, bm := wr[0][i], wr[0][i+1]
		m := t.newMatch(1, crjm.Losers)
		a.AdvanceLoserTo = m.ID
		bm.AdvanceLoserTo = m.ID

		// A winners-bracket bye (Phase already Finished, no loser
		// because none was ever played) never feeds a loser into m;
		// an unplayed match merely hasn't produced one YET. Only the
		// former case means m can never receive a second entrant.
		aBye := a.Phase == match.Finished && a.Loser == ""
		bmBye := bm.Phase == match.Finished && bm.Loser == ""
		if aBye || bmBye {
			m.SoleEntrantBye = true
		}

		if a.Loser != "" {
			m.FillSlot(a.Loser)
		}
		if bm.Loser != "" {
			m.FillSlot(bm.Loser)
		}
		if m.SoleEntrantBye {
			// The real side may already have played (possible if a
			// WR round finishes out of order); resolve eagerly. If
			// not, OnMatchFinished resolves it the moment the real
			// match's loser arrives.
			winner := a.Loser
			if winner == "" {
				winner = bm.Loser
			}
			if winner != "" {
				m.SetBye(winner)
			}
		}
		round1 = append(round1, m)
		round1Dead = append(round1Dead, aBye && bmBye)
		t.LosersMatches = append(t.LosersMatches, m)
	}
	survivors := round1
	survivorDead := round1Dead
	losersRound := 2

	for wrRound := 2; wrRound <= r; wrRound++ {
		// Drop-in round: pair each survivor with a loser
		// dropping from winners round wrRound.
		dropIn := make([]*match.Match, 0, len(survivors))
		for i, s := range survivors {
			m := t.newMatch(losersRound, crjm.Losers)
			if survivorDead != nil && survivorDead[i] {
				// s is a double-bye round-1 pairing and will never
				// play; m depends solely on the winners-round dropper
				// wired in below.
				m.SoleEntrantBye = true
			} else {
				s.AdvanceWinnerTo = m.ID
				if s.Phase == match.Finished {
					m.FillSlot(s.Winner)
				}
			}
			if i < len(wr[wrRound-1]) {
				wr[wrRound-1][i].AdvanceLoserTo = m.ID
				if wr[wrRound-1][i].Loser != "" {
					m.FillSlot(wr[wrRound-1][i].Loser)
				}
			}
			dropIn = append(dropIn, m)
			t.LosersMatches = append(t.LosersMatches, m)
		}
		losersRound++
		survivors = dropIn
		survivorDead = nil // drop-in matches always eventually play for real

		if wrRound == r {
			break // the last drop-in round is the losers final
		}

		// Elimination round: pair survivors of the drop-in
		// round down to the size winners round wrRound+1 will
		// produce losers for.
		elim := make([]*match.Match, 0, len(survivors)/2)
		for i := 0; i+1 < len(survivors); i += 2 {
			a, bm := survivors[i], survivors[i+1]
			m := t.newMatch(losersRound, crjm.Losers)
			a.AdvanceWinnerTo = m.ID
			bm.AdvanceWinnerTo = m.ID
			if a.Phase == match.Finished {
				m.FillSlot(a.Winner)
			}
			if bm.Phase == match.Finished {
				m.FillSlot(bm.Winner)
			}
			elim = append(elim, m)
			t.LosersMatches = append(t.LosersMatches, m)
		}
		losersRound++
		if len(elim) > 0 {
			survivors = elim
		}
	}
}

// buildGrandFinal wires the winners-bracket champion (p1) against
// the losers-bracket champion (p2), and eagerly constructs the
// reset match, per §4.5.2.
func (t *Tournament) buildGrandFinal(wr [][]*match.Match) {
	wrFinal := wr[len(wr)-1][0]
	var lbFinal *match.Match
	if len(t.LosersMatches) > 0 {
		lbFinal = t.LosersMatches[len(t.LosersMatches)-1]
	}

	gf := t.newMatch(0, crjm.Winners)
	wrFinal.AdvanceWinnerTo = gf.ID
	if wrFinal.Phase == match.Finished {
		gf.P1 = wrFinal.Winner
	}
	if lbFinal != nil {
		lbFinal.AdvanceWinnerTo = gf.ID
		if lbFinal.Phase == match.Finished {
			gf.P2 = lbFinal.Winner
		}
	} else {
		// No losers bracket at all (exactly two registered players):
		// the sole winners-round-1 match's loser is the trivial
		// losers-bracket "champion" and advances straight to P2.
		wrFinal.AdvanceLoserTo = gf.ID
		if wrFinal.Phase == match.Finished {
			gf.P2 = wrFinal.Loser
		}
	}
	t.GrandFinal = gf

	reset := t.newMatch(0, crjm.Winners)
	t.GrandFinalReset = reset
}
