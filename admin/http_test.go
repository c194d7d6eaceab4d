package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/atilasos/crjm-server/conf"
	"github.com/atilasos/crjm-server/coordinator"
	"github.com/atilasos/crjm-server/tournament"
)

func newTestAdmin() *Admin {
	ctx, cancel := context.WithCancel(context.Background())
	c := &conf.Conf{Ctx: ctx, Kill: cancel, AdminEnabled: true, AdminPort: 0}
	coord := coordinator.New(c)
	return New(c, coord)
}

func TestCreateAddBotsAndStartRoundTrip(t *testing.T) {
	a := newTestAdmin()

	body, _ := json.Marshal(map[string]any{"gameId": "dominorio", "label": "cup"})
	req := httptest.NewRequest("POST", "/tournaments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	a.handleTournaments(rec, req)
	if rec.Code != 201 {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var created tournament.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %s", err)
	}

	botsBody, _ := json.Marshal(map[string]any{"count": 4})
	req = httptest.NewRequest("POST", "/tournaments/"+created.ID+"/bots", bytes.NewReader(botsBody))
	rec = httptest.NewRecorder()
	a.handleTournament(rec, req)
	if rec.Code != 200 {
		t.Fatalf("bots: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	req = httptest.NewRequest("POST", "/tournaments/"+created.ID+"/start", nil)
	rec = httptest.NewRecorder()
	a.handleTournament(rec, req)
	if rec.Code != 200 {
		t.Fatalf("start: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var started tournament.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %s", err)
	}
	if started.Phase != "running" {
		t.Fatalf("expected phase running after start, got %q", started.Phase)
	}
	if len(started.WinnersMatches) == 0 {
		t.Fatal("expected at least one winners-bracket match after start")
	}
}

func TestListTournamentsReflectsCreated(t *testing.T) {
	a := newTestAdmin()

	body, _ := json.Marshal(map[string]any{"gameId": "nex", "label": "open"})
	req := httptest.NewRequest("POST", "/tournaments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	a.handleTournaments(rec, req)

	req = httptest.NewRequest("GET", "/tournaments", nil)
	rec = httptest.NewRecorder()
	a.handleTournaments(rec, req)
	var list []tournament.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %s", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one tournament, got %d", len(list))
	}
}
