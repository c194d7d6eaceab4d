// Entry point
//
package main

import (
	"flag"

	"github.com/atilasos/crjm-server/admin"
	"github.com/atilasos/crjm-server/conf"
	"github.com/atilasos/crjm-server/coordinator"
	"github.com/atilasos/crjm-server/transport"
)

func main() {
	flag.Parse()

	config := conf.Load()
	config.Debug.Println("debug logging has been enabled")

	// Enable the session coordinator
	coord := coordinator.New(config)
	config.Register(coord)

	// Enable the WebSocket transport
	config.Register(transport.New(config, coord))

	// Enable the admin interface
	config.Register(admin.New(config, coord))

	// Launch the server
	config.Start()
}
