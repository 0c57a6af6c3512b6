package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/simlog"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// DefaultCreepTTL is the lifetime given to creeps that do not set one.
const DefaultCreepTTL = 1500

// SiegeSim is the headless siege harness shared by tests, the headless
// report and the viewer. It owns the world, the durable swarm memory and the
// per-tick controller loop, and records everything in SimLog.
type SiegeSim struct {
	World  *World
	Store  *swarm.MemoryStore
	SimLog *simlog.Log
	Config swarm.Config

	planner   *Planner
	targeting *Targeting
	rng       *rand.Rand
	squads    []*squadOrder
	last      map[string]swarm.Step
	errs      []error
}

// squadOrder is one swarm's standing orders.
type squadOrder struct {
	ref       string
	objective string
	rally     grid.Pos
	members   int
	expired   bool
	cleared   bool
	wiped     bool
}

// rallyPoint is the overseer of a sandbox swarm: it only marks where the
// swarm assembles.
type rallyPoint grid.Pos

func (r rallyPoint) Pos() grid.Pos { return grid.Pos(r) }

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // seed, verbose, config
	simOptRoom                         // rooms
	simOptTerrain                      // terrain, structures, hostiles
	simOptCreep                        // creeps
	simOptSwarm                        // swarms over existing creeps
)

// SimOption is a builder function applied to a SiegeSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*SiegeSim) error
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *SiegeSim) error {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation
		return nil
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *SiegeSim) error {
		ts.SimLog = simlog.New(v)
		return nil
	}}
}

// WithConfig overrides the controller tuning. Zero fields keep defaults.
func WithConfig(c swarm.Config) SimOption {
	return SimOption{simOptInfra, func(ts *SiegeSim) error {
		ts.Config = c.WithDefaults()
		return nil
	}}
}

// WithRoom adds a room to the row.
func WithRoom(name, owner string) SimOption {
	return SimOption{simOptRoom, func(ts *SiegeSim) error {
		_, err := ts.World.AddRoom(name, owner)
		return err
	}}
}

// WithWall paints a rectangle of terrain walls.
func WithWall(room string, x, y, w, h int) SimOption {
	return SimOption{simOptTerrain, func(ts *SiegeSim) error {
		return ts.World.SetTerrain(room, x, y, w, h, TerrainWall)
	}}
}

// WithSwamp paints a rectangle of swamp.
func WithSwamp(room string, x, y, w, h int) SimOption {
	return SimOption{simOptTerrain, func(ts *SiegeSim) error {
		return ts.World.SetTerrain(room, x, y, w, h, TerrainSwamp)
	}}
}

// WithStructure places a structure with the given hits.
func WithStructure(kind swarm.StructureKind, room string, x, y int, owner string, hits int) SimOption {
	return SimOption{simOptTerrain, func(ts *SiegeSim) error {
		_, err := ts.World.AddStructure(kind, grid.Pos{X: x, Y: y, Room: room}, owner, hits)
		return err
	}}
}

// WithTower places a tower dealing power damage at close range.
func WithTower(room string, x, y int, owner string, hits, power int) SimOption {
	return SimOption{simOptTerrain, func(ts *SiegeSim) error {
		_, err := ts.World.AddTower(grid.Pos{X: x, Y: y, Room: room}, owner, hits, power)
		return err
	}}
}

// WithHostile places an enemy creep.
func WithHostile(room string, x, y int, owner string, hits, attack int) SimOption {
	return SimOption{simOptTerrain, func(ts *SiegeSim) error {
		_, err := ts.World.AddHostile(grid.Pos{X: x, Y: y, Room: room}, owner, hits, attack)
		return err
	}}
}

// WithCreep adds a swarm creep. A ttl of zero uses DefaultCreepTTL.
func WithCreep(name, room string, x, y int, ttl int, body ...swarm.Part) SimOption {
	return SimOption{simOptCreep, func(ts *SiegeSim) error {
		if ttl == 0 {
			ttl = DefaultCreepTTL
		}
		_, err := ts.World.AddCreep(name, grid.Pos{X: x, Y: y, Room: room}, body, ttl)
		return err
	}}
}

// WithSwarm groups existing creeps (by name) into a swarm that assembles on
// rally and then besieges objective.
func WithSwarm(ref, objective string, rally grid.Pos, names ...string) SimOption {
	return SimOption{simOptSwarm, func(ts *SiegeSim) error {
		for _, n := range names {
			if _, ok := ts.World.Creep(n); !ok {
				return fmt.Errorf("game: swarm %s: unknown creep %q", ref, n)
			}
		}
		if _, ok := ts.World.RoomState(objective); !ok {
			return fmt.Errorf("game: swarm %s: unknown objective room %q", ref, objective)
		}
		mem := ts.Store.Load(ref)
		mem.Creeps = append(mem.Creeps, names...)
		ts.Store.Save(ref, mem)
		ts.squads = append(ts.squads, &squadOrder{ref: ref, objective: objective, rally: rally, members: len(names)})
		return nil
	}}
}

// NewSiegeSim constructs a SiegeSim from the given options in ordered
// passes: infrastructure, rooms, terrain and structures, creeps, swarms.
// Option errors are collected and reported by Err.
func NewSiegeSim(opts ...SimOption) *SiegeSim {
	ts := &SiegeSim{
		World:  NewWorld(),
		Store:  swarm.NewMemoryStore(),
		SimLog: simlog.New(false),
		Config: swarm.DefaultConfig(),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- simulation default
		last:   make(map[string]swarm.Step),
	}
	for _, kind := range []simOptionKind{simOptInfra, simOptRoom, simOptTerrain, simOptCreep, simOptSwarm} {
		for _, o := range opts {
			if o.kind != kind {
				continue
			}
			if err := o.fn(ts); err != nil {
				ts.errs = append(ts.errs, err)
			}
		}
	}
	ts.planner = NewPlanner(ts.World)
	ts.targeting = NewTargeting(ts.World, ts.rng)
	return ts
}

// Err reports every option that failed to apply.
func (ts *SiegeSim) Err() error {
	return errors.Join(ts.errs...)
}

// CurrentTick returns the current simulation tick.
func (ts *SiegeSim) CurrentTick() int {
	return ts.World.Time()
}

// RunTicks advances the simulation n ticks.
func (ts *SiegeSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *SiegeSim) RunUntil(predicate func(*SiegeSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.CurrentTick()
		}
	}
	return -1
}

// Memory returns the stored record of swarm ref.
func (ts *SiegeSim) Memory(ref string) swarm.Memory {
	return ts.Store.Load(ref)
}

// LastStep returns what swarm ref did on the most recent tick.
func (ts *SiegeSim) LastStep(ref string) (swarm.Step, bool) {
	s, ok := ts.last[ref]
	return s, ok
}

// Refs lists the swarms in the order they were added.
func (ts *SiegeSim) Refs() []string {
	out := make([]string, len(ts.squads))
	for i, sq := range ts.squads {
		out[i] = sq.ref
	}
	return out
}

// ObjectiveCleared reports whether swarm ref's objective room has no
// damageable hostile structure left.
func (ts *SiegeSim) ObjectiveCleared(ref string) bool {
	for _, sq := range ts.squads {
		if sq.ref == ref {
			return ts.cleared(sq.objective)
		}
	}
	return false
}

// Wiped reports whether every member of swarm ref has died.
func (ts *SiegeSim) Wiped(ref string) bool {
	for _, sq := range ts.squads {
		if sq.ref == ref {
			return sq.wiped
		}
	}
	return false
}

func (ts *SiegeSim) cleared(room string) bool {
	r, ok := ts.World.RoomState(room)
	if !ok {
		return false
	}
	for _, s := range r.HostileStructures() {
		if swarm.StructureTarget(s).IsDamageable() {
			return false
		}
	}
	return true
}

func (ts *SiegeSim) deps() swarm.Deps {
	return swarm.Deps{
		World:     ts.World,
		Planner:   ts.planner,
		Targeting: ts.targeting,
		Log:       ts.SimLog,
		Config:    ts.Config,
	}
}

// runOneTick: ready creeps, let every swarm decide, then resolve the world.
func (ts *SiegeSim) runOneTick() {
	ts.World.BeginTick()
	tick := ts.World.Time()

	for _, sq := range ts.squads {
		ts.driveSquad(tick, sq)
	}

	rep := ts.World.EndTick()

	for _, h := range rep.Hits {
		ts.SimLog.AddVerbose(tick, h.Target, "", "combat", "hit", h.String(), float64(h.Damage))
	}
	for name, room := range rep.RoomsEnter {
		ts.SimLog.AddVerbose(tick, name, room, "move", "room_enter", "entered "+room, 0)
	}
	for _, name := range rep.Died {
		ts.SimLog.Add(tick, name, "", "creep", "died", "creep lost", 0)
	}
	for _, s := range rep.Destroyed {
		ts.SimLog.Add(tick, "--", s.pos.Room, "structure", "destroyed",
			fmt.Sprintf("%s at %s", s.kind, s.pos), 0)
	}
	for _, h := range rep.Killed {
		ts.SimLog.Add(tick, "--", h.pos.Room, "hostile", "killed",
			fmt.Sprintf("%s creep at %s", h.owner, h.pos), 0)
	}
	ts.SimLog.AddVerbose(tick, "--", "", "move", "resolved",
		fmt.Sprintf("%d moved, %d blocked", rep.Moved, rep.Blocked), float64(rep.Moved))

	for _, sq := range ts.squads {
		if !sq.cleared && ts.cleared(sq.objective) {
			sq.cleared = true
			ts.SimLog.Add(tick, sq.ref, sq.objective, "siege", "objective_cleared", "no hostile structures left", 0)
		}
	}
}

// driveSquad rebuilds swarm ref from memory and live creeps, runs one tick
// of its controller and writes memory back.
func (ts *SiegeSim) driveSquad(tick int, sq *squadOrder) {
	if sq.wiped {
		return
	}
	mem := ts.Store.Load(sq.ref)
	var agents []swarm.Agent
	var alive []string
	for _, name := range mem.Creeps {
		if c, ok := ts.World.Creep(name); ok && !c.Dead() {
			agents = append(agents, c)
			alive = append(alive, name)
		}
	}
	if len(agents) == 0 {
		sq.wiped = true
		ts.Store.Delete(sq.ref)
		ts.SimLog.Add(tick, sq.ref, "", "swarm", "wiped", "no members left", 0)
		return
	}
	mem.Creeps = alive

	s := swarm.New(rallyPoint(sq.rally), sq.ref, mem, agents, ts.deps())
	var step swarm.Step
	if !mem.InitialAssembly {
		done := s.Assemble(sq.rally, true)
		step = swarm.Step{Phase: swarm.PhaseRegroup, Assembled: done, Result: swarm.ResultOK}
		if done {
			ts.SimLog.Add(tick, sq.ref, sq.rally.Room, "swarm", "assembled",
				fmt.Sprintf("formed at %s", sq.rally), float64(len(agents)))
		}
	} else {
		step = s.AutoSiege(sq.objective)
	}

	if prev, seen := ts.last[sq.ref]; !seen || prev.Phase != step.Phase {
		from := "--"
		if seen {
			from = prev.Phase.String()
		}
		ts.SimLog.Add(tick, sq.ref, s.Anchor().Room, "siege", "phase",
			fmt.Sprintf("%s → %s", from, step.Phase), float64(step.Phase))
	}
	if step.Err != nil {
		ts.SimLog.Add(tick, sq.ref, s.Anchor().Room, "siege", "error", step.Err.Error(), 0)
	}
	ts.last[sq.ref] = step

	if !sq.expired && s.IsExpired() {
		sq.expired = true
		ts.SimLog.Add(tick, sq.ref, s.Anchor().Room, "swarm", "expired",
			fmt.Sprintf("%d of %d members left", len(agents), s.Width()*s.Height()), float64(len(agents)))
	}
	ts.Store.Save(sq.ref, s.Memory())
}
