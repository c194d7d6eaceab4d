// Admin HTTP surface
//
// Package admin exposes the coordinator's out-of-band operator
// commands (§4.6) as a small JSON HTTP API, gated by conf.AdminEnabled.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	crjm "github.com/atilasos/crjm-server"
	"github.com/atilasos/crjm-server/conf"
	"github.com/atilasos/crjm-server/coordinator"
	"github.com/atilasos/crjm-server/tournament"
)

// Admin is the HTTP manager for the administrative surface.
type Admin struct {
	conf  *conf.Conf
	coord *coordinator.Coordinator
	srv   *http.Server
}

func New(c *conf.Conf, coord *coordinator.Coordinator) *Admin {
	a := &Admin{conf: c, coord: coord}
	mux := http.NewServeMux()
	mux.HandleFunc("/tournaments", a.handleTournaments)
	mux.HandleFunc("/tournaments/restore", a.RestoreHandler)
	mux.HandleFunc("/tournaments/", a.handleTournament)
	a.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", c.AdminPort),
		Handler: mux,
	}
	return a
}

func (a *Admin) String() string { return "admin interface" }

func (a *Admin) Start() {
	if !a.conf.AdminEnabled {
		return
	}
	a.conf.Debug.Printf("listening for admin requests on %s", a.srv.Addr)
	if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		a.conf.Log.Printf("admin interface stopped: %s", err)
	}
}

func (a *Admin) Shutdown() {
	if !a.conf.AdminEnabled {
		return
	}
	_ = a.srv.Shutdown(context.Background())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}

// handleTournaments implements GET /tournaments (list) and POST
// /tournaments (create).
func (a *Admin) handleTournaments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.coord.ListTournaments())
	case http.MethodPost:
		var body struct {
			GameID crjm.GameID `json:"gameId"`
			Label  string      `json:"label"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, a.coord.CreateTournament(body.GameID, body.Label))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTournament implements the /tournaments/{id}[/action] routes.
func (a *Admin) handleTournament(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tournaments/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		snap, err := a.coord.Snapshot(id)
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case action == "bots" && r.Method == http.MethodPost:
		var body struct {
			Count int        `json:"count"`
			Level crjm.Level `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		if body.Level == "" {
			body.Level = crjm.Basic
		}
		bots, err := a.coord.AddBots(id, body.Count, body.Level)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, bots)

	case action == "start" && r.Method == http.MethodPost:
		if err := a.coord.StartTournament(id); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		snap, _ := a.coord.Snapshot(id)
		writeJSON(w, http.StatusOK, snap)

	case action == "finish" && r.Method == http.MethodPost:
		if err := a.coord.FinishTournament(id); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		snap, _ := a.coord.Snapshot(id)
		writeJSON(w, http.StatusOK, snap)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// RestoreHandler, registered separately since it does not key off an
// existing tournament id, accepts a previously dumped snapshot body
// and re-registers it with the coordinator.
func (a *Admin) RestoreHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var snap tournament.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	id := a.coord.RestoreTournament(snap)
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
