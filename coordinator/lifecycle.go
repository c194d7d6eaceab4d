// Match lifecycle: readiness, start, inter-game advancement, the bot
// driver, and tournament completion.

package coordinator

import (
	"time"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/bot"
	"github.com/atilasos/crjm-server/match"
	"github.com/atilasos/crjm-server/tournament"
)

// botMoveDelay is the artificial think-time before a bot plays, so a
// spectator sees moves arrive rather than a match resolving instantly.
// A var, not a const, so tests can shrink it.
var botMoveDelay = 250 * time.Millisecond

// botMoveCap is the §4.6 safety cap: a bot driver that has played this
// many moves in one match gives up rather than looping forever on a
// bug in an engine's Terminal().
const botMoveCap = 1000

func playerAt(m *match.Match, role crjm.Role) string {
	if role == crjm.P1 {
		return m.P1
	}
	return m.P2
}

// markReady records a role as ready for m and starts the match once
// both sides are in. Callers must hold e.mu.
func (c *Coordinator) markReady(e *tnEntry, m *match.Match, role crjm.Role) {
	c.mu.Lock()
	if c.matchReady[m.ID] == nil {
		c.matchReady[m.ID] = make(map[crjm.Role]bool)
	}
	c.matchReady[m.ID][role] = true
	ready := len(c.matchReady[m.ID]) == 2
	c.mu.Unlock()

	if ready {
		c.startMatchNow(e, m)
	}
}

// announceNewlyReadyMatches sends match_assigned once for every match
// that just became ready to start, and auto-readies any bot occupants.
// Callers must hold e.mu.
func (c *Coordinator) announceNewlyReadyMatches(e *tnEntry) {
	for _, m := range e.t.MatchesReadyToStart() {
		c.mu.Lock()
		if c.announced[m.ID] {
			c.mu.Unlock()
			continue
		}
		c.announced[m.ID] = true
		c.mu.Unlock()

		fields := map[string]any{
			"matchId": m.ID,
			"round":   m.Round,
			"bracket": m.Bracket,
		}
		c.sendTo(m.P1, frame("match_assigned", fields))
		c.sendTo(m.P2, frame("match_assigned", fields))

		for _, pid := range [2]string{m.P1, m.P2} {
			if p, ok := e.t.Players[pid]; ok && p.IsBot {
				role, _ := m.RoleOf(pid)
				c.markReady(e, m, role)
			}
		}
	}
}

// startMatchNow transitions m to playing and announces the first
// game. Callers must hold e.mu.
func (c *Coordinator) startMatchNow(e *tnEntry, m *match.Match) {
	if c.conf.BestOf > 0 {
		m.BestOf = int(c.conf.BestOf)
	}
	if _, _, err := e.t.StartMatch(m.ID); err != nil {
		return
	}
	c.announceGameStart(m)
	c.maybeDriveBotTurn(e, m)
}

func (c *Coordinator) announceGameStart(m *match.Match) {
	fields := map[string]any{
		"matchId":      m.ID,
		"gameNumber":   m.Session.GameNumber,
		"startingRole": m.StartingRoleForCurrentGame.String(),
		"state":        m.Session.Snapshot(),
	}
	c.sendTo(m.P1, frame("game_start", fields))
	c.sendTo(m.P2, frame("game_start", fields))
}

// sendGameStateUpdate notifies both players of a just-applied move,
// each from their own perspective.
func (c *Coordinator) sendGameStateUpdate(m *match.Match, actedRole crjm.Role, move any) {
	turn := m.Session.Turn()
	finished := m.Session.Finished
	for _, pid := range [2]string{m.P1, m.P2} {
		role, ok := m.RoleOf(pid)
		if !ok {
			continue
		}
		c.sendTo(pid, frame("game_state_update", map[string]any{
			"matchId":    m.ID,
			"gameNumber": m.Session.GameNumber,
			"state":      m.Session.Snapshot(),
			"yourTurn":   !finished && turn == role,
			"lastMoveBy": actedRole.String(),
			"lastMove":   move,
		}))
	}
}

// finishGame records a just-ended game's result and either schedules
// the next game or hands the match off to the tournament for
// advancement. Callers must hold e.mu.
func (c *Coordinator) finishGame(e *tnEntry, m *match.Match, outcome crjm.Outcome) {
	winnerID := ""
	winnerRole := ""
	if role, ok := outcome.WinnerRole(); ok {
		winnerID = playerAt(m, role)
		winnerRole = role.String()
	}
	gameNumber := m.Session.GameNumber
	finalState := m.Session.Snapshot()

	for _, pid := range [2]string{m.P1, m.P2} {
		c.sendTo(pid, frame("game_end", map[string]any{
			"matchId":    m.ID,
			"gameNumber": gameNumber,
			"outcome":    outcome.String(),
			"winnerId":   winnerID,
			"winnerRole": winnerRole,
			"isDraw":     outcome == crjm.Draw,
			"finalState": finalState,
			"matchScore": map[string]int{"p1": m.Score.P1Wins, "p2": m.Score.P2Wins},
		}))
	}

	finished := m.RecordGameResult(gameNumber, winnerID)
	if finished {
		c.sendMatchEnd(e, m)
		c.onMatchFinished(e, m)
		return
	}

	tid := e.t.ID
	time.AfterFunc(c.conf.GamePause, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.t.Phase == tournament.Finished || m.Phase != match.Playing {
			return
		}
		m.AdvanceSession(tid)
		c.announceGameStart(m)
		c.maybeDriveBotTurn(e, m)
	})
}

// sendMatchEnd notifies both players that m has reached a result,
// each from their own perspective. Callers must hold e.mu.
func (c *Coordinator) sendMatchEnd(e *tnEntry, m *match.Match) {
	winnerName := ""
	if p, ok := e.t.Players[m.Winner]; ok {
		winnerName = p.Name
	}
	resetPending := m == e.t.GrandFinal && m.Winner == m.P2

	for _, pid := range [2]string{m.P1, m.P2} {
		nextMatchID := ""
		switch {
		case resetPending:
			nextMatchID = e.t.GrandFinalReset.ID
		case pid == m.Winner:
			nextMatchID = m.AdvanceWinnerTo
		default:
			nextMatchID = m.AdvanceLoserTo
		}
		c.sendTo(pid, frame("match_end", map[string]any{
			"matchId":                  m.ID,
			"winnerId":                 m.Winner,
			"winnerName":               winnerName,
			"finalScore":               m.Score,
			"youWon":                   pid == m.Winner,
			"eliminatedFromTournament": c.eliminated(e, m, pid),
			"nextMatchId":              nextMatchID,
		}))
	}
}

// eliminated reports whether playerID is out of the tournament once m
// has finished, per the double-elimination rule of §4.5.2: a winners-
// bracket loss drops into the losers bracket rather than eliminating,
// a losers-bracket loss eliminates outright, and the grand final only
// eliminates its loser when the winners-bracket side won outright
// (otherwise the reset decides). Callers must hold e.mu.
func (c *Coordinator) eliminated(e *tnEntry, m *match.Match, playerID string) bool {
	switch {
	case m == e.t.GrandFinalReset:
		return playerID != m.Winner
	case m == e.t.GrandFinal:
		if m.Winner == m.P1 {
			return playerID != m.Winner
		}
		return false
	case m.Bracket == crjm.Losers:
		return playerID != m.Winner
	default:
		return false
	}
}

// onMatchFinished runs bracket advancement once a match (ordinary or
// grand final) has finished, and announces anything that follows.
// Callers must hold e.mu.
func (c *Coordinator) onMatchFinished(e *tnEntry, m *match.Match) {
	e.t.OnMatchFinished(m)

	if e.t.Phase == tournament.Finished {
		c.announceTournamentEnd(e)
		return
	}
	c.announceNewlyReadyMatches(e)
}

// maybeDriveBotTurn schedules a bot's move on a short artificial delay
// if it is currently a bot's turn in m. Callers must hold e.mu.
func (c *Coordinator) maybeDriveBotTurn(e *tnEntry, m *match.Match) {
	if m.Session == nil || m.Session.Finished {
		return
	}
	role := m.Session.Turn()
	pid := playerAt(m, role)
	p, ok := e.t.Players[pid]
	if !ok || !p.IsBot {
		return
	}

	c.mu.Lock()
	count := c.botMoveCounter[m.ID]
	c.mu.Unlock()
	if count >= botMoveCap {
		return
	}

	level := crjm.Basic
	if p.Class == string(crjm.Advanced) {
		level = crjm.Advanced
	}
	gameID := m.GameID
	session := m.Session

	time.AfterFunc(botMoveDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if m.Session != session || session.Finished || e.t.Phase == tournament.Finished {
			return
		}
		if session.Turn() != role {
			return
		}
		move, ok := bot.ChooseMove(gameID, session.State(), role, level)
		if !ok {
			return
		}
		res, err := session.SubmitMove(pid, role, move)
		if err != nil {
			return
		}

		c.mu.Lock()
		c.botMoveCounter[m.ID]++
		c.mu.Unlock()

		c.sendGameStateUpdate(m, role, move)
		if res.GameOver {
			c.finishGame(e, m, res.Winner)
			return
		}
		c.maybeDriveBotTurn(e, m)
	})
}

// announceTournamentEnd is called once, when the tournament's phase
// latches to finished. The final standing only ranks the champion
// precisely; every other player is reported as eliminated, since the
// bracket does not otherwise track a full placement order (see
// DESIGN.md).
func (c *Coordinator) announceTournamentEnd(e *tnEntry) {
	championName := ""
	if p, ok := e.t.Players[e.t.ChampionID]; ok {
		championName = p.Name
	}
	standings := make([]map[string]any, 0, len(e.t.Players))
	standings = append(standings, map[string]any{
		"rank": 1, "playerId": e.t.ChampionID, "playerName": championName,
	})
	for id, p := range e.t.Players {
		if id == e.t.ChampionID {
			continue
		}
		standings = append(standings, map[string]any{
			"rank": 2, "playerId": id, "playerName": p.Name,
		})
	}
	c.broadcast(e.t, frame("tournament_end", map[string]any{
		"tournamentId":   e.t.ID,
		"championId":     e.t.ChampionID,
		"championName":   championName,
		"finalStandings": standings,
	}))
}
