// Configuration Specification and Management
//
// Package conf loads and holds the server's runtime configuration,
// and drives the manager lifecycle (Register/Start/Shutdown) that
// the coordinator, transport and admin subsystems plug into.
package conf

import (
	"context"
	"flag"
	"io"
	"log"
	"time"
)

// Internal TOML representation of the configuration file.
type conf struct {
	Debug     bool `toml:"debug"`
	Transport struct {
		Port      uint `toml:"port"`
		Websocket bool `toml:"websocket"`
	} `toml:"transport"`
	Admin struct {
		Enabled bool `toml:"enabled"`
		Port    uint `toml:"port"`
	} `toml:"admin"`
	Match struct {
		BestOf       uint `toml:"best_of"`
		PauseSeconds uint `toml:"pause_seconds"`
		MoveTimeout  uint `toml:"move_timeout"`
	} `toml:"match"`
	Bots struct {
		Basic    uint `toml:"basic"`
		Advanced uint `toml:"advanced"`
	} `toml:"bots"`
}

// Conf is the public configuration object, shared by every manager.
type Conf struct {
	Log   *log.Logger
	Debug *log.Logger
	Ctx   context.Context
	Kill  context.CancelFunc

	// Transport configuration
	Port      uint // Port for accepting WebSocket connections
	WebSocket bool

	// Admin surface configuration
	AdminEnabled bool
	AdminPort    uint

	// Match configuration
	BestOf      uint
	GamePause   time.Duration // pause between games within a match
	MoveTimeout time.Duration

	// Bot population counts from the [bots] table; loaded and dumped
	// only, no subsystem adds these bots to a tournament
	DefaultBasicBots    uint
	DefaultAdvancedBots uint

	// Internal state
	man []Manager
	run bool
}

var defaultConfig = Conf{
	Log:   log.Default(),
	Debug: log.New(io.Discard, "[debug] ", log.Ltime|log.Lshortfile|log.Lmicroseconds),

	Port:      8080,
	WebSocket: true,

	AdminEnabled: true,
	AdminPort:    8081,

	BestOf:      3,
	GamePause:   time.Second,
	MoveTimeout: 0, // loaded and dumped only; no move clock is enforced

	DefaultBasicBots:    0,
	DefaultAdvancedBots: 0,
}

func init() {
	flag.UintVar(&defaultConfig.Port, "port", defaultConfig.Port,
		"Port to use for WebSocket connections")
	flag.UintVar(&defaultConfig.AdminPort, "adminport", defaultConfig.AdminPort,
		"Port to use for the admin HTTP surface")
	flag.BoolVar(&defaultConfig.AdminEnabled, "admin", defaultConfig.AdminEnabled,
		"Enable the admin HTTP surface")
	flag.BoolVar(&defaultConfig.WebSocket, "websocket", defaultConfig.WebSocket,
		"Enable WebSocket connections")
	flag.UintVar(&defaultConfig.BestOf, "bestof", defaultConfig.BestOf,
		"Default number of games per match (odd)")
	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}
