// WebSocket transport binding for the session coordinator
//
// Package transport binds the coordinator's transport-agnostic
// Conn/Handle surface to a persistent WebSocket connection, per §6.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ws "nhooyr.io/websocket"

	"github.com/atilasos/crjm-server/conf"
	"github.com/atilasos/crjm-server/coordinator"
)

// wsConn adapts a *ws.Conn to coordinator.Conn, serializing every
// outbound frame as a single JSON text message.
type wsConn struct {
	conn *ws.Conn
}

func (c *wsConn) Send(f any) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	_ = c.conn.Write(context.Background(), ws.MessageText, data)
}

// Transport is the WebSocket manager (§4's outer surface): it accepts
// connections on /ws and feeds every frame to the coordinator.
type Transport struct {
	conf  *conf.Conf
	coord *coordinator.Coordinator
	srv   *http.Server
}

// New constructs the transport manager; call conf.Register on it
// before conf.Start.
func New(c *conf.Conf, coord *coordinator.Coordinator) *Transport {
	mux := http.NewServeMux()
	t := &Transport{conf: c, coord: coord}
	mux.HandleFunc("/ws", t.upgrade)
	t.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", c.Port),
		Handler: mux,
	}
	return t
}

func (t *Transport) String() string { return "websocket transport" }

func (t *Transport) Start() {
	if !t.conf.WebSocket {
		return
	}
	t.conf.Debug.Printf("listening for websocket connections on %s", t.srv.Addr)
	if err := t.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		t.conf.Log.Printf("websocket transport stopped: %s", err)
	}
}

func (t *Transport) Shutdown() {
	_ = t.srv.Shutdown(context.Background())
}

func (t *Transport) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		t.conf.Debug.Printf("unable to upgrade connection: %s", err)
		return
	}
	t.conf.Debug.Printf("new connection from %s", r.RemoteAddr)
	go t.serve(conn)
}

// serve runs the read loop for one connection until it closes,
// tracking the playerId established by this connection's join.
func (t *Transport) serve(conn *ws.Conn) {
	defer conn.Close(ws.StatusNormalClosure, "closing")

	c := &wsConn{conn: conn}
	var playerID string

	for {
		typ, data, err := conn.Read(context.Background())
		if err != nil {
			break
		}
		if typ != ws.MessageText {
			continue
		}

		var in coordinator.InMessage
		if err := json.Unmarshal(data, &in); err != nil {
			c.Send(map[string]any{"type": "error", "code": "PARSE_ERROR", "message": err.Error()})
			continue
		}

		playerID = t.coord.Handle(c, playerID, in)
	}

	t.coord.Disconnect(playerID)
}
