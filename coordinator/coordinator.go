// Session Coordinator (C6): registration and connection registry

package coordinator

import (
	"sync"

	"github.com/google/uuid"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/conf"
	"github.com/atilasos/crjm-server/tournament"
)

// tnEntry bundles a tournament with the lock that serializes every
// mutation to it, per §5's single-writer-per-tournament model.
type tnEntry struct {
	mu sync.Mutex
	t  *tournament.Tournament
}

// playerEntry maps a registered player back to their tournament and
// current connection (nil if offline or a bot).
type playerEntry struct {
	tournamentID string
	conn         Conn
}

// Coordinator is the C6 component: the only thing transport and
// admin code talk to.
type Coordinator struct {
	conf *conf.Conf

	mu             sync.Mutex // guards the maps below, not tournament internals
	tournaments    map[string]*tnEntry
	activeByGame   map[crjm.GameID]string
	players        map[string]*playerEntry
	botMoveCounter map[string]int          // match id -> bot moves played, the §4.6 safety cap
	matchReady     map[string]map[crjm.Role]bool
	announced      map[string]bool // match ids already sent match_assigned
}

// New constructs an empty coordinator.
func New(c *conf.Conf) *Coordinator {
	return &Coordinator{
		conf:           c,
		tournaments:    make(map[string]*tnEntry),
		activeByGame:   make(map[crjm.GameID]string),
		players:        make(map[string]*playerEntry),
		botMoveCounter: make(map[string]int),
		matchReady:     make(map[string]map[crjm.Role]bool),
		announced:      make(map[string]bool),
	}
}

func (c *Coordinator) String() string { return "coordinator" }

// Start satisfies conf.Manager; the coordinator has no background
// loop of its own, only the ambient bot-move timers started as a
// side effect of moves.
func (c *Coordinator) Start() {
	<-c.conf.Ctx.Done()
}

func (c *Coordinator) Shutdown() {}

// entryForGame returns the active tournament for gameId, creating
// one in registration if none exists, per §4.5.1.
func (c *Coordinator) entryForGame(gameID crjm.GameID) *tnEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.activeByGame[gameID]; ok {
		if e, ok := c.tournaments[id]; ok {
			// Phase only ever advances forward to Finished, so this
			// unsynchronized read is at worst stale by one request;
			// a finished tournament never accepts new players
			// (AddPlayer rejects them with JOIN_FAILED), so once it's done
			// a fresh one must be auto-created per §4.5.1.
			if e.t.Phase != tournament.Finished {
				return e
			}
		}
	}
	id := uuid.NewString()
	e := &tnEntry{t: tournament.New(id, gameID, string(gameID), nowFunc())}
	c.tournaments[id] = e
	c.activeByGame[gameID] = id
	return e
}

func (c *Coordinator) entryByID(tournamentID string) (*tnEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.tournaments[tournamentID]
	return e, ok
}

// connOf returns the live connection for a player, or nil if
// offline or a bot.
func (c *Coordinator) connOf(playerID string) Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.players[playerID]; ok {
		return p.conn
	}
	return nil
}

func (c *Coordinator) sendTo(playerID string, f any) {
	if conn := c.connOf(playerID); conn != nil {
		conn.Send(f)
	}
}

func (c *Coordinator) playerTournament(playerID string) (*tnEntry, bool) {
	c.mu.Lock()
	p, ok := c.players[playerID]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return c.entryByID(p.tournamentID)
}

// broadcast sends f to every online, non-bot player registered in t.
// Callers must hold e.mu.
func (c *Coordinator) broadcast(t *tournament.Tournament, f any) {
	for id, p := range t.Players {
		if p.IsBot || !p.Online {
			continue
		}
		c.sendTo(id, f)
	}
}
