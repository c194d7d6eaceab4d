// Shared logging
//
package crjm

import (
	"io"
	"log"
)

// Debug is the package-wide debug logger, discarded by default. The
// conf package points it at stderr when debug logging is requested.
var Debug = log.New(io.Discard, "[debug] ", log.Ltime|log.Lshortfile|log.Lmicroseconds)
