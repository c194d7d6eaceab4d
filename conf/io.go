// Configuration loading and dumping
//
package conf

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	crjm "github.com/atilasos/crjm-server"
)

const defconf = "crjm.toml"

var (
	debug bool   = false
	dump  bool   = false
	cfile string = defconf
)

// load parses a configuration from r into a fresh Conf derived from
// the defaults.
func load(r io.Reader) (*Conf, error) {
	var data conf
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}

	c := defaultConfig
	if data.Transport.Port != 0 {
		c.Port = data.Transport.Port
	}
	c.WebSocket = data.Transport.Websocket
	c.AdminEnabled = data.Admin.Enabled
	if data.Admin.Port != 0 {
		c.AdminPort = data.Admin.Port
	}
	if data.Match.BestOf != 0 {
		c.BestOf = data.Match.BestOf
	}
	if data.Match.PauseSeconds != 0 {
		c.GamePause = time.Duration(data.Match.PauseSeconds) * time.Second
	}
	c.MoveTimeout = time.Duration(data.Match.MoveTimeout) * time.Second
	c.DefaultBasicBots = data.Bots.Basic
	c.DefaultAdvancedBots = data.Bots.Advanced

	return &c, nil
}

// Load opens the configuration file named by -conf (if any) and
// falls back to the built-in defaults.
func Load() (c *Conf) {
	file, err := os.Open(cfile)
	if err != nil {
		if !os.IsNotExist(err) || cfile != defconf {
			log.Fatal(err)
		}
		c = &defaultConfig
	} else {
		defer file.Close()
		c, err = load(file)
		if err != nil {
			log.Print(err)
			c = &defaultConfig
		}
	}

	if debug {
		c.Log.SetOutput(os.Stderr)
		c.Debug.SetOutput(os.Stderr)
		crjm.Debug.SetOutput(os.Stderr)
	}
	c.Ctx, c.Kill = context.WithCancel(context.Background())

	if dump {
		if err := c.Dump(os.Stdout); err != nil {
			log.Fatalln("Failed to dump default configuration:", err)
		}
		os.Exit(0)
	}

	return c
}

// Dump serializes the configuration back into TOML.
func (c *Conf) Dump(wr io.Writer) error {
	var data conf
	data.Debug = debug
	data.Transport.Port = c.Port
	data.Transport.Websocket = c.WebSocket
	data.Admin.Enabled = c.AdminEnabled
	data.Admin.Port = c.AdminPort
	data.Match.BestOf = c.BestOf
	data.Match.PauseSeconds = uint(c.GamePause / time.Second)
	data.Match.MoveTimeout = uint(c.MoveTimeout / time.Second)
	data.Bots.Basic = c.DefaultBasicBots
	data.Bots.Advanced = c.DefaultAdvancedBots

	return toml.NewEncoder(wr).Encode(data)
}
