// Inbound command handlers (§4.6)

package coordinator

import (
	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/match"
)

// Join handles the join command: it registers conn against a player
// (existing or fresh), attaches the connection, and announces the
// current tournament state to the joiner and everyone else. It
// returns the assigned/reconnected player id, or "" on failure, so
// the transport can remember it for the rest of the connection.
func (c *Coordinator) Join(conn Conn, in InMessage) string {
	e := c.entryForGame(in.GameID)

	e.mu.Lock()
	p, err := e.t.AddPlayer(in.PlayerName, in.ClassID, in.PlayerID)
	if err != nil {
		e.mu.Unlock()
		if ce, ok := crjm.AsCoded(err); ok {
			conn.Send(errorFrame(ce.Code, ce.Message))
		}
		return ""
	}
	snap := e.t.Snapshot()
	e.mu.Unlock()

	c.mu.Lock()
	c.players[p.ID] = &playerEntry{tournamentID: e.t.ID, conn: conn}
	c.mu.Unlock()

	conn.Send(frame("welcome", map[string]any{
		"playerId":     p.ID,
		"tournamentId": e.t.ID,
	}))
	conn.Send(frame("tournament_state_update", map[string]any{"tournament": snap}))

	e.mu.Lock()
	c.broadcast(e.t, frame("tournament_state_update", map[string]any{"tournament": e.t.Snapshot()}))
	e.mu.Unlock()

	return p.ID
}

// Ready handles the ready command: it records playerId as ready for
// matchId and starts the match once both sides have signalled.
func (c *Coordinator) Ready(playerID, matchID string) {
	e, ok := c.playerTournament(playerID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrNotInTournament, "not registered in any tournament"))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.t.Match(matchID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrMatchNotFound, "no such match"))
		return
	}
	role, ok := m.RoleOf(playerID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrNotInMatch, "not a participant in this match"))
		return
	}
	if m.Phase != match.Waiting {
		return // already started or finished; ready is idempotent
	}
	c.markReady(e, m, role)
}

// Leave marks a player offline without forfeiting their match, per §4.5.4.
func (c *Coordinator) Leave(playerID string) {
	e, ok := c.playerTournament(playerID)
	if !ok {
		return
	}

	e.mu.Lock()
	e.t.SetOnline(playerID, false)
	snap := e.t.Snapshot()
	e.mu.Unlock()

	c.mu.Lock()
	if p, ok := c.players[playerID]; ok {
		p.conn = nil
	}
	c.mu.Unlock()

	e.mu.Lock()
	c.broadcast(e.t, frame("tournament_state_update", map[string]any{"tournament": snap}))
	e.mu.Unlock()
}

// SubmitMove handles the submit_move command, applying a move to the
// active session of matchId if it is playerId's turn there.
func (c *Coordinator) SubmitMove(playerID string, in InMessage) {
	e, ok := c.playerTournament(playerID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrNotInTournament, "not registered in any tournament"))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.t.Match(in.MatchID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrMatchNotFound, "no such match"))
		return
	}
	role, ok := m.RoleOf(playerID)
	if !ok {
		c.sendTo(playerID, errorFrame(crjm.ErrNotInMatch, "not a participant in this match"))
		return
	}
	if m.Session == nil || m.Phase != match.Playing || m.Session.GameNumber != in.GameNumber {
		c.sendTo(playerID, errorFrame(crjm.ErrNoActiveGame, "no active game for this match"))
		return
	}

	move, err := m.Session.DecodeMove(in.Move)
	if err != nil {
		c.sendTo(playerID, errorFrame(crjm.ErrParseError, err.Error()))
		return
	}

	res, err := m.Session.SubmitMove(playerID, role, move)
	if err != nil {
		if ce, ok := crjm.AsCoded(err); ok {
			c.sendTo(playerID, errorFrame(ce.Code, ce.Message))
		}
		return
	}

	c.sendGameStateUpdate(m, role, move)
	if res.GameOver {
		c.finishGame(e, m, res.Winner)
		return
	}
	c.maybeDriveBotTurn(e, m)
}
