package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/game"
	"github.com/Garsondee/Siege-Swarm/internal/spectate"
)

func newTestRunner(t *testing.T, loop bool) *runner {
	t.Helper()
	sc, err := game.LoadScenario("breach")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := spectate.NewHub()
	go hub.Run(ctx)
	r, err := newRunner(sc, hub, loop)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	return r
}

func TestRunner_StepAdvances(t *testing.T) {
	r := newTestRunner(t, false)
	for i := 0; i < 3; i++ {
		r.step()
	}
	if got := r.snapshot().Tick; got != 3 {
		t.Fatalf("tick = %d, want 3", got)
	}
	if r.logCursor == 0 {
		t.Fatal("no log entries were published")
	}
}

func TestRunner_StopsOrLoopsAtEnd(t *testing.T) {
	r := newTestRunner(t, false)
	r.sc.Ticks = 2
	for i := 0; i < 5; i++ {
		r.step()
	}
	if got := r.snapshot().Tick; got != 2 {
		t.Fatalf("non-looping runner at tick %d, want 2", got)
	}

	r.loop = true
	r.step()
	if got := r.snapshot().Tick; got != 1 {
		t.Fatalf("looping runner at tick %d after restart, want 1", got)
	}
}

func TestRunner_SnapshotEndpoint(t *testing.T) {
	r := newTestRunner(t, false)
	r.step()

	rec := httptest.NewRecorder()
	r.handleSnapshot(rec, httptest.NewRequest("GET", "/api/snapshot", nil))
	var snap game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if snap.Tick != 1 || len(snap.Swarms) != 1 || snap.Swarms[0].Ref != "alpha" {
		t.Fatalf("snapshot = tick %d swarms %+v", snap.Tick, snap.Swarms)
	}
	if len(snap.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(snap.Rooms))
	}
}
