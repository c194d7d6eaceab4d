// Tournament Manager (C5): registration, lookup and disconnects
//
// Package tournament implements the double-elimination bracket
// manager (C5): player registry, bracket construction, match
// readiness and advancement, grand final and reset, champion
// detection.
package tournament

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/match"
	"github.com/atilasos/crjm-server/session"
)

// Phase is the lifecycle state of a Tournament.
type Phase string

const (
	Registration Phase = "registration"
	Running      Phase = "running"
	Finished     Phase = "finished"
)

// Tournament is the aggregate root of §3: one bracket for one game,
// owning its players and matches.
type Tournament struct {
	ID      string
	GameID  crjm.GameID
	Label   string
	Phase   Phase
	Players map[string]*Player

	WinnersMatches  []*match.Match
	LosersMatches   []*match.Match
	GrandFinal      *match.Match
	GrandFinalReset *match.Match
	ChampionID      string

	CreatedAt time.Time
	UpdatedAt time.Time

	matchByID map[string]*match.Match
}

// New creates a tournament in registration for gameId, per §4.5.1.
func New(id string, gameID crjm.GameID, label string, now time.Time) *Tournament {
	return &Tournament{
		ID:        id,
		GameID:    gameID,
		Label:     label,
		Phase:     Registration,
		Players:   make(map[string]*Player),
		matchByID: make(map[string]*match.Match),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddPlayer implements §4.5.1's addPlayer: reconnection by
// existingId, fresh registration in registration phase, or a
// JOIN_FAILED "registration is closed" error otherwise.
func (t *Tournament) AddPlayer(name, class, existingID string) (*Player, error) {
	if existingID != "" {
		if p, ok := t.Players[existingID]; ok {
			p.Online = true
			return p, nil
		}
	}
	if t.Phase != Registration {
		return nil, crjm.NewError(crjm.ErrJoinFailed, "registration is closed")
	}
	p := &Player{ID: uuid.NewString(), Name: name, Class: class, Online: true}
	t.Players[p.ID] = p
	return p, nil
}

// AddBots inserts n synthetic, permanently-online players; only
// legal during registration, per §4.5.1.
func (t *Tournament) AddBots(n int) ([]*Player, error) {
	if t.Phase != Registration {
		return nil, crjm.NewError(crjm.ErrJoinFailed, "registration is closed")
	}
	bots := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		p := &Player{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("bot-%d", len(t.Players)+1),
			Online: true,
			IsBot:  true,
		}
		t.Players[p.ID] = p
		bots = append(bots, p)
	}
	return bots, nil
}

// SetOnline is a pure flag toggle; it never forfeits a match, per §4.5.4.
func (t *Tournament) SetOnline(playerID string, online bool) {
	if p, ok := t.Players[playerID]; ok {
		p.Online = online
	}
}

// MatchesReadyToStart returns every waiting match with both slots
// filled, per §4.5.3.
func (t *Tournament) MatchesReadyToStart() []*match.Match {
	var ready []*match.Match
	all := append(append(append([]*match.Match{}, t.WinnersMatches...), t.LosersMatches...), t.grandFinalMatches()...)
	for _, m := range all {
		if m.ReadyToStart() {
			ready = append(ready, m)
		}
	}
	return ready
}

func (t *Tournament) grandFinalMatches() []*match.Match {
	var out []*match.Match
	if t.GrandFinal != nil {
		out = append(out, t.GrandFinal)
	}
	if t.GrandFinalReset != nil {
		out = append(out, t.GrandFinalReset)
	}
	return out
}

// Match looks up a match by id within this tournament.
func (t *Tournament) Match(id string) (*match.Match, bool) {
	m, ok := t.matchByID[id]
	return m, ok
}

// StartMatch transitions a ready match to playing and creates its
// first session.
func (t *Tournament) StartMatch(matchID string) (*match.Match, *session.Session, error) {
	m, ok := t.matchByID[matchID]
	if !ok {
		return nil, nil, crjm.NewError(crjm.ErrMatchNotFound, "no such match")
	}
	if !m.ReadyToStart() {
		return nil, nil, crjm.NewError(crjm.ErrMatchNotFound, "match is not ready to start")
	}
	sess := m.Start(t.ID)
	return m, sess, nil
}

// OnMatchFinished performs the advancement step of §4.5.3 once a
// match reaches phase=finished; the grand final and its reset are
// handed to onGrandFinalFinished.
func (t *Tournament) OnMatchFinished(m *match.Match) {
	if m == t.GrandFinal || m == t.GrandFinalReset {
		t.onGrandFinalFinished(m)
		return
	}
	if m.AdvanceWinnerTo != "" {
		if next, ok := t.matchByID[m.AdvanceWinnerTo]; ok {
			next.FillSlot(m.Winner)
		}
	}
	if m.AdvanceLoserTo != "" && m.Loser != "" {
		if next, ok := t.matchByID[m.AdvanceLoserTo]; ok {
			if next.SoleEntrantBye {
				// next can never receive a second entrant (its other
				// feeder was itself a winners-bracket bye): resolving
				// it here, at runtime rather than at bracket-
				// construction time, means its own advancement has
				// to be cascaded manually.
				next.SetBye(m.Loser)
				t.OnMatchFinished(next)
			} else {
				next.FillSlot(m.Loser)
			}
		}
	}
}

func (t *Tournament) onGrandFinalFinished(m *match.Match) {
	if m == t.GrandFinalReset {
		t.ChampionID = m.Winner
		t.Phase = Finished
		return
	}
	// m is the grand final: P1 is the winners-bracket champion.
	if m.Winner == m.P1 {
		t.ChampionID = m.Winner
		t.Phase = Finished
		return
	}
	// The losers-bracket champion won: play the reset.
	t.GrandFinalReset.P1 = m.P1
	t.GrandFinalReset.P2 = m.P2
}
