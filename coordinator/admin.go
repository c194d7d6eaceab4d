// Admin surface entry points (§4.6's out-of-band operator commands)
//
package coordinator

import (
	"github.com/google/uuid"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/tournament"
)

// ListTournaments returns a snapshot of every tournament the
// coordinator knows about, live or finished.
func (c *Coordinator) ListTournaments() []tournament.Snapshot {
	c.mu.Lock()
	entries := make([]*tnEntry, 0, len(c.tournaments))
	for _, e := range c.tournaments {
		entries = append(entries, e)
	}
	c.mu.Unlock()

	out := make([]tournament.Snapshot, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.t.Snapshot())
		e.mu.Unlock()
	}
	return out
}

// CreateTournament starts a fresh registration-phase tournament for
// gameId, replacing whatever was previously active for that game.
func (c *Coordinator) CreateTournament(gameID crjm.GameID, label string) tournament.Snapshot {
	id := uuid.NewString()
	e := &tnEntry{t: tournament.New(id, gameID, label, nowFunc())}

	c.mu.Lock()
	c.tournaments[id] = e
	c.activeByGame[gameID] = id
	c.mu.Unlock()

	return e.t.Snapshot()
}

// AddBots adds n synthetic players of the given level to a
// registration-phase tournament.
func (c *Coordinator) AddBots(tournamentID string, n int, level crjm.Level) ([]*tournament.Player, error) {
	e, ok := c.entryByID(tournamentID)
	if !ok {
		return nil, crjm.NewError(crjm.ErrMatchNotFound, "no such tournament")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	bots, err := e.t.AddBots(n)
	if err != nil {
		return nil, err
	}
	for _, b := range bots {
		b.Class = string(level)
	}
	return bots, nil
}

// StartTournament closes registration and builds the bracket.
func (c *Coordinator) StartTournament(tournamentID string) error {
	e, ok := c.entryByID(tournamentID)
	if !ok {
		return crjm.NewError(crjm.ErrMatchNotFound, "no such tournament")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.t.Start(); err != nil {
		return err
	}
	c.announceNewlyReadyMatches(e)
	return nil
}

// FinishTournament forces a tournament to phase=finished, per §4.6's
// administrative override (used to abandon a stalled bracket).
func (c *Coordinator) FinishTournament(tournamentID string) error {
	e, ok := c.entryByID(tournamentID)
	if !ok {
		return crjm.NewError(crjm.ErrMatchNotFound, "no such tournament")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.t.Phase = tournament.Finished
	c.announceTournamentEnd(e)
	return nil
}

// Snapshot returns the current state of one tournament.
func (c *Coordinator) Snapshot(tournamentID string) (tournament.Snapshot, error) {
	e, ok := c.entryByID(tournamentID)
	if !ok {
		return tournament.Snapshot{}, crjm.NewError(crjm.ErrMatchNotFound, "no such tournament")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t.Snapshot(), nil
}

// RestoreTournament re-registers a previously snapshotted tournament,
// e.g. after a process restart.
func (c *Coordinator) RestoreTournament(s tournament.Snapshot) string {
	t := tournament.Restore(s)
	e := &tnEntry{t: t}

	c.mu.Lock()
	c.tournaments[t.ID] = e
	if t.Phase != tournament.Finished {
		c.activeByGame[t.GameID] = t.ID
	}
	c.mu.Unlock()

	return t.ID
}
