// Inbound message dispatch

package coordinator

import crjm "github.com/atilasos/crjm-server"

// Handle routes one inbound frame from conn to the matching command.
// For every command but join_tournament, playerId must already have
// been established by an earlier join_tournament on this same
// connection. It returns the player id the caller should remember for
// subsequent calls on this connection: join_tournament's result, or
// playerId unchanged otherwise.
func (c *Coordinator) Handle(conn Conn, playerID string, in InMessage) string {
	switch in.Type {
	case "join_tournament":
		return c.Join(conn, in)
	case "ready_for_match":
		c.Ready(playerID, in.MatchID)
	case "submit_move":
		c.SubmitMove(playerID, in)
	case "leave_tournament":
		c.Leave(playerID)
	default:
		conn.Send(errorFrame(crjm.ErrUnknownMessage, "unrecognized message type: "+in.Type))
	}
	return playerID
}

// Disconnect marks playerId offline; called by the transport when a
// connection drops without an explicit leave.
func (c *Coordinator) Disconnect(playerID string) {
	if playerID != "" {
		c.Leave(playerID)
	}
}
