// Snapshot/restore for the admin surface
//
package tournament

import (
	"time"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/match"
)

// MatchSnapshot is the JSON-stable mirror of a match.Match.
type MatchSnapshot struct {
	ID              string       `json:"id"`
	Round           int          `json:"round"`
	Bracket         crjm.Bracket `json:"bracket"`
	P1              string       `json:"p1,omitempty"`
	P2              string       `json:"p2,omitempty"`
	P1Wins          int          `json:"p1Wins"`
	P2Wins          int          `json:"p2Wins"`
	BestOf          int          `json:"bestOf"`
	CurrentGame     int          `json:"currentGame"`
	Phase           string       `json:"phase"`
	Winner          string       `json:"winner,omitempty"`
	Loser           string       `json:"loser,omitempty"`
	AdvanceWinnerTo string       `json:"advanceWinnerTo,omitempty"`
	AdvanceLoserTo  string       `json:"advanceLoserTo,omitempty"`
}

func toSnapshot(m *match.Match) MatchSnapshot {
	return MatchSnapshot{
		ID: m.ID, Round: m.Round, Bracket: m.Bracket,
		P1: m.P1, P2: m.P2,
		P1Wins: m.Score.P1Wins, P2Wins: m.Score.P2Wins,
		BestOf: m.BestOf, CurrentGame: m.CurrentGame,
		Phase: string(m.Phase), Winner: m.Winner, Loser: m.Loser,
		AdvanceWinnerTo: m.AdvanceWinnerTo, AdvanceLoserTo: m.AdvanceLoserTo,
	}
}

func fromSnapshot(s MatchSnapshot, gameID crjm.GameID) *match.Match {
	m := match.New(s.ID, s.Round, s.Bracket, gameID)
	m.P1, m.P2 = s.P1, s.P2
	m.Score.P1Wins, m.Score.P2Wins = s.P1Wins, s.P2Wins
	m.BestOf = s.BestOf
	m.CurrentGame = s.CurrentGame
	m.Phase = match.Phase(s.Phase)
	m.Winner, m.Loser = s.Winner, s.Loser
	m.AdvanceWinnerTo, m.AdvanceLoserTo = s.AdvanceWinnerTo, s.AdvanceLoserTo
	return m
}

// Snapshot is the full JSON-roundtrippable tournament state of
// §4.6's admin surface. It mirrors bracket structure and scores but
// not an in-flight game's board — restoring a tournament mid-game
// resumes the match at its current game number with a fresh session
// for that game, rather than replaying prior moves (see DESIGN.md).
type Snapshot struct {
	ID              string             `json:"id"`
	GameID          crjm.GameID        `json:"gameId"`
	Label           string             `json:"label"`
	Phase           string             `json:"phase"`
	Players         map[string]*Player `json:"players"`
	WinnersMatches  []MatchSnapshot    `json:"winnersMatches"`
	LosersMatches   []MatchSnapshot    `json:"losersMatches"`
	GrandFinal      *MatchSnapshot     `json:"grandFinal,omitempty"`
	GrandFinalReset *MatchSnapshot     `json:"grandFinalReset,omitempty"`
	ChampionID      string             `json:"championId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Snapshot serializes the tournament's bracket and player map, per §6.3.
func (t *Tournament) Snapshot() Snapshot {
	s := Snapshot{
		ID: t.ID, GameID: t.GameID, Label: t.Label, Phase: string(t.Phase),
		Players:    t.Players,
		ChampionID: t.ChampionID,
		CreatedAt:  t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
	for _, m := range t.WinnersMatches {
		s.WinnersMatches = append(s.WinnersMatches, toSnapshot(m))
	}
	for _, m := range t.LosersMatches {
		s.LosersMatches = append(s.LosersMatches, toSnapshot(m))
	}
	if t.GrandFinal != nil {
		gf := toSnapshot(t.GrandFinal)
		s.GrandFinal = &gf
	}
	if t.GrandFinalReset != nil {
		gfr := toSnapshot(t.GrandFinalReset)
		s.GrandFinalReset = &gfr
	}
	return s
}

// Restore rebuilds a Tournament aggregate from a Snapshot, relinking
// every advanceWinnerTo/advanceLoserTo reference to the restored
// match objects.
func Restore(s Snapshot) *Tournament {
	t := &Tournament{
		ID: s.ID, GameID: s.GameID, Label: s.Label, Phase: Phase(s.Phase),
		Players:    s.Players,
		ChampionID: s.ChampionID,
		CreatedAt:  s.CreatedAt, UpdatedAt: s.UpdatedAt,
		matchByID: make(map[string]*match.Match),
	}
	if t.Players == nil {
		t.Players = make(map[string]*Player)
	}
	for _, ms := range s.WinnersMatches {
		m := fromSnapshot(ms, s.GameID)
		t.WinnersMatches = append(t.WinnersMatches, m)
		t.matchByID[m.ID] = m
	}
	for _, ms := range s.LosersMatches {
		m := fromSnapshot(ms, s.GameID)
		t.LosersMatches = append(t.LosersMatches, m)
		t.matchByID[m.ID] = m
	}
	if s.GrandFinal != nil {
		m := fromSnapshot(*s.GrandFinal, s.GameID)
		t.GrandFinal = m
		t.matchByID[m.ID] = m
	}
	if s.GrandFinalReset != nil {
		m := fromSnapshot(*s.GrandFinalReset, s.GameID)
		t.GrandFinalReset = m
		t.matchByID[m.ID] = m
	}
	// A match restored mid-game gets a fresh session for its current
	// game; game g starts with p1 when g is odd, p2 when even.
	for _, m := range t.matchByID {
		if m.Phase != match.Playing || m.CurrentGame < 1 {
			continue
		}
		m.StartingRoleForCurrentGame = crjm.P1
		if m.CurrentGame%2 == 0 {
			m.StartingRoleForCurrentGame = crjm.P2
		}
		m.HasStartingRole = true
		m.AdvanceSession(t.ID)
	}
	return t
}
