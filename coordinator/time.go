package coordinator

import "time"

// nowFunc is indirected so tests can pin wall-clock time.
var nowFunc = time.Now
