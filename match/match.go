// Package match implements the best-of-three orchestration around a
// single game session at a time: it creates successive sessions,
// flips the starting role per game, and latches the match winner.
package match

import (
	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/session"
)

// Phase is the lifecycle state of a Match.
type Phase string

const (
	Waiting  Phase = "waiting"
	Playing  Phase = "playing"
	Finished Phase = "finished"
)

// Score tracks game wins within a match.
type Score struct {
	P1Wins int
	P2Wins int
}

// Match is one best-of-bestOf contest between two players, per §3.
type Match struct {
	ID      string
	Round   int
	Bracket crjm.Bracket

	P1, P2 string // player ids; empty means unfilled
	Score  Score
	BestOf int

	CurrentGame                int
	StartingRoleForCurrentGame crjm.Role
	HasStartingRole            bool

	Phase Phase

	Winner, Loser string

	AdvanceWinnerTo string // match id, or "" if none
	AdvanceLoserTo  string

	// SoleEntrantBye marks a losers-bracket match whose other feeder
	// was itself a winners-bracket bye: it will only ever receive one
	// entrant, so OnMatchFinished must resolve it as a bye the moment
	// that entrant arrives rather than wait for a second slot.
	SoleEntrantBye bool

	GameID  crjm.GameID
	Session *session.Session
}

// New constructs a waiting match for round/bracket with a default
// best-of-three.
func New(id string, round int, bracket crjm.Bracket, gameID crjm.GameID) *Match {
	return &Match{
		ID:      id,
		Round:   round,
		Bracket: bracket,
		BestOf:  3,
		GameID:  gameID,
		Phase:   Waiting,
	}
}

// ReadyToStart reports whether both slots are filled and the match
// has not yet started, per §4.5.3.
func (m *Match) ReadyToStart() bool {
	return m.Phase == Waiting && m.P1 != "" && m.P2 != ""
}

// Start transitions a waiting match to playing and creates the
// first session, per §4.4.
func (m *Match) Start(tournamentID string) *session.Session {
	m.Phase = Playing
	m.CurrentGame = 1
	m.StartingRoleForCurrentGame = crjm.P1
	m.HasStartingRole = true
	m.Session = session.New(tournamentID, m.ID, m.CurrentGame, m.GameID, m.StartingRoleForCurrentGame)
	return m.Session
}

// winsNeeded is ceil(bestOf/2).
func (m *Match) winsNeeded() int {
	return (m.BestOf + 1) / 2
}

// RecordGameResult applies the outcome of game gameNumber, per §4.4.
// winnerID is "" for a draw or no-one. It reports whether the match
// just finished; when it has not, CurrentGame and the starting role
// have already moved on to the next game.
func (m *Match) RecordGameResult(gameNumber int, winnerID string) (finished bool) {
	if winnerID != "" {
		switch winnerID {
		case m.P1:
			m.Score.P1Wins++
		case m.P2:
			m.Score.P2Wins++
		}
	}

	needed := m.winsNeeded()
	if m.Score.P1Wins >= needed || m.Score.P2Wins >= needed {
		m.Phase = Finished
		if m.Score.P1Wins > m.Score.P2Wins {
			m.Winner, m.Loser = m.P1, m.P2
		} else {
			m.Winner, m.Loser = m.P2, m.P1
		}
		return true
	}

	m.CurrentGame++
	if m.StartingRoleForCurrentGame == crjm.P1 {
		m.StartingRoleForCurrentGame = crjm.P2
	} else {
		m.StartingRoleForCurrentGame = crjm.P1
	}
	return false
}

// AdvanceSession creates the next game's session once the coordinator
// is ready to start it (after the inter-game pause of §4.4).
func (m *Match) AdvanceSession(tournamentID string) *session.Session {
	m.Session = session.New(tournamentID, m.ID, m.CurrentGame, m.GameID, m.StartingRoleForCurrentGame)
	return m.Session
}

// SetBye marks a bye match: one slot filled, the other empty,
// finished immediately with only a winner recorded, per §4.5.2.
func (m *Match) SetBye(winnerID string) {
	m.Phase = Finished
	m.Winner = winnerID
	m.Loser = ""
}

// RoleOf reports which role a player occupies in this match.
func (m *Match) RoleOf(playerID string) (crjm.Role, bool) {
	switch playerID {
	case m.P1:
		return crjm.P1, true
	case m.P2:
		return crjm.P2, true
	default:
		return 0, false
	}
}

// FillSlot assigns playerID to p1 if empty, else p2, per §4.5.2's
// left-to-right slot assignment rule.
func (m *Match) FillSlot(playerID string) {
	if m.P1 == "" {
		m.P1 = playerID
	} else {
		m.P2 = playerID
	}
}
