// Wire protocol types (§6)
//
// Package coordinator implements the Session Coordinator (C6): it
// dispatches inbound client commands to the match/tournament layer,
// drives the bot loop, and emits outbound notifications. It is
// transport-agnostic; see the transport package for the WebSocket
// binding.
package coordinator

import (
	"encoding/json"

	crjm "github.com/atilasos/crjm-server"
)

// InMessage is a client -> core frame, per §6. Fields not relevant
// to Type are simply left zero.
type InMessage struct {
	Type       string          `json:"type"`
	GameID     crjm.GameID     `json:"gameId,omitempty"`
	PlayerName string          `json:"playerName,omitempty"`
	ClassID    string          `json:"classId,omitempty"`
	PlayerID   string          `json:"playerId,omitempty"`
	MatchID    string          `json:"matchId,omitempty"`
	GameNumber int             `json:"gameNumber,omitempty"`
	Move       json.RawMessage `json:"move,omitempty"`
}

// Conn is the transport-agnostic handle the coordinator sends
// outbound frames through; the transport package supplies the
// WebSocket-backed implementation.
type Conn interface {
	Send(frame any)
}

func frame(typ string, fields map[string]any) map[string]any {
	out := map[string]any{"type": typ}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func errorFrame(code crjm.ErrCode, message string) map[string]any {
	return frame("error", map[string]any{"code": code, "message": message})
}

func infoFrame(message string) map[string]any {
	return frame("info", map[string]any{"message": message})
}
