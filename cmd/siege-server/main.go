package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Garsondee/Siege-Swarm/internal/game"
	"github.com/Garsondee/Siege-Swarm/internal/spectate"
)

// runner owns the simulation and publishes every tick to the hub.
type runner struct {
	mu        sync.Mutex
	sc        *game.Scenario
	sim       *game.SiegeSim
	hub       *spectate.Hub
	logCursor int
	loop      bool
}

func newRunner(sc *game.Scenario, hub *spectate.Hub, loop bool) (*runner, error) {
	r := &runner{sc: sc, hub: hub, loop: loop}
	if err := r.reset(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *runner) reset() error {
	sim := game.NewSiegeSim(r.sc.Options()...)
	if err := sim.Err(); err != nil {
		return err
	}
	r.sim = sim
	r.logCursor = 0
	return nil
}

// finished reports whether every swarm's siege has been decided.
func (r *runner) finished() bool {
	for _, ref := range r.sim.Refs() {
		if r.sim.DetermineSiegeOutcome(ref, r.sc.Ticks).Outcome == game.OutcomeInProgress {
			return false
		}
	}
	return true
}

// step advances one tick and broadcasts the new log lines and snapshot.
func (r *runner) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished() {
		if !r.loop {
			return
		}
		for _, ref := range r.sim.Refs() {
			log.Printf("result: %s", r.sim.DetermineSiegeOutcome(ref, r.sc.Ticks))
		}
		if err := r.reset(); err != nil {
			log.Printf("restart: %v", err)
			return
		}
		log.Printf("scenario %s restarted", r.sc.Name)
	}

	r.sim.RunTicks(1)
	entries := r.sim.SimLog.Entries()
	for _, e := range entries[r.logCursor:] {
		r.hub.Broadcast(spectate.Message{Type: spectate.MsgLog, Data: e.String()})
	}
	r.logCursor = len(entries)
	r.hub.Broadcast(spectate.Message{Type: spectate.MsgSnapshot, Data: r.sim.Snapshot()})
}

func (r *runner) snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Snapshot()
}

func (r *runner) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *runner) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.snapshot()); err != nil {
		log.Printf("snapshot encode: %v", err)
	}
}

func main() {
	port := flag.String("port", "8080", "server port")
	scenario := flag.String("scenario", "breach", "builtin scenario name or path to a .yaml file")
	interval := flag.Duration("interval", 200*time.Millisecond, "wall time per simulation tick")
	loop := flag.Bool("loop", true, "restart the scenario when it ends")
	flag.Parse()

	sc, err := game.LoadScenario(*scenario)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := spectate.NewHub()
	go hub.Run(ctx)

	r, err := newRunner(sc, hub, *loop)
	if err != nil {
		log.Fatal(err)
	}
	go r.run(ctx, *interval)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWebSocket)
	mux.HandleFunc("/api/snapshot", r.handleSnapshot)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("siege server for %s at http://localhost:%s (ws on /ws)", sc.Name, *port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
		os.Exit(1)
	}
}
