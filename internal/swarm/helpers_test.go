package swarm

import (
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/simlog"
)

const testRoom = "E1N1"

func at(x, y int) grid.Pos {
	return grid.Pos{X: x, Y: y, Room: testRoom}
}

// fakeAgent records every command issued to it.
type fakeAgent struct {
	name    string
	pos     grid.Pos
	hits    int
	hitsMax int
	fatigue int
	ttl     int
	parts   map[Part]int
	task    bool

	moveResult ResultCode
	moves      []grid.Direction
	cancelled  int
	gotos      []grid.Pos
	gotoOpts   []MoveOptions
	melee      int
	ranged     int
	heals      int
	skirmishes int
}

func newAgent(name string, p grid.Pos, parts map[Part]int) *fakeAgent {
	return &fakeAgent{name: name, pos: p, hits: 100, hitsMax: 100, ttl: 1400, parts: parts}
}

func (a *fakeAgent) Name() string               { return a.name }
func (a *fakeAgent) Pos() grid.Pos              { return a.pos }
func (a *fakeAgent) Hits() int                  { return a.hits }
func (a *fakeAgent) HitsMax() int               { return a.hitsMax }
func (a *fakeAgent) Fatigue() int               { return a.fatigue }
func (a *fakeAgent) TicksToLive() int           { return a.ttl }
func (a *fakeAgent) ActiveParts(p Part) int     { return a.parts[p] }
func (a *fakeAgent) HasValidTask() bool         { return a.task }
func (a *fakeAgent) AutoMelee()                 { a.melee++ }
func (a *fakeAgent) AutoRanged()                { a.ranged++ }
func (a *fakeAgent) AutoHeal(bool)              { a.heals++ }
func (a *fakeAgent) AutoSkirmish(string)        { a.skirmishes++ }
func (a *fakeAgent) CancelMove()                { a.cancelled++ }
func (a *fakeAgent) SafelyInRoom(r string) bool { return a.pos.Room == r && !a.pos.IsEdge() }

func (a *fakeAgent) Move(d grid.Direction) ResultCode {
	if a.fatigue > 0 {
		return ResultTired
	}
	a.moves = append(a.moves, d)
	return a.moveResult
}

func (a *fakeAgent) GoTo(dest grid.Pos, opts MoveOptions) ResultCode {
	a.gotos = append(a.gotos, dest)
	a.gotoOpts = append(a.gotoOpts, opts)
	return ResultOK
}

type fakeHostile struct {
	id    string
	pos   grid.Pos
	owner string
}

func (h *fakeHostile) ID() string    { return h.id }
func (h *fakeHostile) Pos() grid.Pos { return h.pos }
func (h *fakeHostile) Owner() string { return h.owner }
func (h *fakeHostile) Hits() int     { return 100 }
func (h *fakeHostile) HitsMax() int  { return 100 }

type fakeStructure struct {
	id    string
	pos   grid.Pos
	kind  StructureKind
	owner string
}

func (s *fakeStructure) ID() string          { return s.id }
func (s *fakeStructure) Pos() grid.Pos       { return s.pos }
func (s *fakeStructure) Kind() StructureKind { return s.kind }
func (s *fakeStructure) Owner() string       { return s.owner }
func (s *fakeStructure) Hits() int           { return 1000 }
func (s *fakeStructure) HitsMax() int        { return 1000 }

type fakeRoom struct {
	name       string
	owner      string
	my         bool
	hostiles   []Hostile
	dangerous  []Hostile
	structures []Structure
	towers     []Structure
	spawns     []Structure
	controller Structure
}

func (r *fakeRoom) Name() string                       { return r.name }
func (r *fakeRoom) Owner() string                      { return r.owner }
func (r *fakeRoom) My() bool                           { return r.my }
func (r *fakeRoom) Hostiles() []Hostile                { return r.hostiles }
func (r *fakeRoom) DangerousPlayerHostiles() []Hostile { return r.dangerous }
func (r *fakeRoom) HostileStructures() []Structure     { return r.structures }
func (r *fakeRoom) Towers() []Structure                { return r.towers }
func (r *fakeRoom) Spawns() []Structure                { return r.spawns }

func (r *fakeRoom) Controller() (Structure, bool) {
	return r.controller, r.controller != nil
}

type fakeWorld struct {
	time    int
	objects map[string]Target
	rooms   map[string]*fakeRoom
	walls   map[grid.Pos]bool
}

func newWorld() *fakeWorld {
	return &fakeWorld{
		time:    1000,
		objects: map[string]Target{},
		rooms:   map[string]*fakeRoom{testRoom: {name: testRoom}},
		walls:   map[grid.Pos]bool{},
	}
}

func (w *fakeWorld) Time() int { return w.time }

func (w *fakeWorld) Resolve(id string) (Target, bool) {
	t, ok := w.objects[id]
	return t, ok
}

func (w *fakeWorld) Room(name string) (Room, bool) {
	r, ok := w.rooms[name]
	if !ok {
		return nil, false
	}
	return r, true
}

func (w *fakeWorld) IsWalkable(p grid.Pos) bool {
	return p.InBounds() && !w.walls[p]
}

func (w *fakeWorld) addStructure(s *fakeStructure) Target {
	t := StructureTarget(s)
	w.objects[s.id] = t
	return t
}

type plannerCall struct {
	kind     string
	dest     grid.Pos
	room     string
	approach []grid.Goal
	avoid    []grid.Goal
}

// fakePlanner returns result for every request and records it.
type fakePlanner struct {
	result ResultCode
	calls  []plannerCall
}

func (p *fakePlanner) SwarmMove(_ *Swarm, dest grid.Pos, _ MoveOptions) ResultCode {
	p.calls = append(p.calls, plannerCall{kind: "move", dest: dest})
	return p.result
}

func (p *fakePlanner) SwarmMoveToRoom(_ *Swarm, room string, _ MoveOptions) ResultCode {
	p.calls = append(p.calls, plannerCall{kind: "room", room: room})
	return p.result
}

func (p *fakePlanner) SwarmCombatMove(_ *Swarm, approach, avoid []grid.Goal, _ CombatMoveOptions) ResultCode {
	p.calls = append(p.calls, plannerCall{kind: "combat", approach: approach, avoid: avoid})
	return p.result
}

func (p *fakePlanner) last() plannerCall {
	if len(p.calls) == 0 {
		return plannerCall{}
	}
	return p.calls[len(p.calls)-1]
}

type fakeTargeting struct {
	target  Target
	biases  []int
	retreat []grid.Goal
}

func (f *fakeTargeting) BestSwarmStructureTarget(_ *Swarm, _ string, bias int) (Target, bool) {
	f.biases = append(f.biases, bias)
	return f.target, !f.target.Empty()
}

func (f *fakeTargeting) RetreatGoals(Room) []grid.Goal {
	return f.retreat
}

type fakeOverseer struct{ pos grid.Pos }

func (o fakeOverseer) Pos() grid.Pos { return o.pos }

// fixture bundles a swarm's collaborators for tests.
type fixture struct {
	world     *fakeWorld
	planner   *fakePlanner
	targeting *fakeTargeting
	log       *simlog.Log
}

func newFixture() *fixture {
	return &fixture{
		world:     newWorld(),
		planner:   &fakePlanner{result: ResultNoAction},
		targeting: &fakeTargeting{},
		log:       simlog.New(true),
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		World:     f.world,
		Planner:   f.planner,
		Targeting: f.targeting,
		Log:       f.log,
		Config:    DefaultConfig(),
	}
}

func (f *fixture) build(mem Memory, agents []*fakeAgent, opts ...Option) *Swarm {
	as := make([]Agent, len(agents))
	for i, a := range agents {
		as[i] = a
	}
	return New(fakeOverseer{pos: at(25, 25)}, "alpha", mem, as, f.deps(), opts...)
}

// squad returns a full 2×2 swarm whose static formation is
// [[striker, breaker], [archer, medic]].
func squad() (striker, breaker, archer, medic *fakeAgent) {
	striker = newAgent("striker", at(10, 10), map[Part]int{PartAttack: 6, PartMove: 6})
	breaker = newAgent("breaker", at(11, 10), map[Part]int{PartWork: 5, PartMove: 5})
	archer = newAgent("archer", at(10, 11), map[Part]int{PartRangedAttack: 3, PartMove: 3})
	medic = newAgent("medic", at(11, 11), map[Part]int{PartHeal: 4, PartMove: 4})
	return
}

// placeFor positions the squad so it is in formation with anchor (10,10)
// under orientation o.
func placeFor(o grid.Orientation, agents ...*fakeAgent) {
	static := [][]*fakeAgent{{agents[0], agents[1]}, {agents[2], agents[3]}}
	rotated := grid.Rotated(static, grid.RotationsFromOrientation(o))
	for dy, row := range rotated {
		for dx, a := range row {
			a.pos = at(10+dx, 10+dy)
		}
	}
}

func mustNames(t *testing.T, f [][]Agent) [][]string {
	t.Helper()
	out := make([][]string, len(f))
	for i, row := range f {
		out[i] = make([]string, len(row))
		for j, a := range row {
			if a == nil {
				out[i][j] = "-"
			} else {
				out[i][j] = a.Name()
			}
		}
	}
	return out
}
