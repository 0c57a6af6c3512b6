package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// PlayerMe owns the sandbox swarms and any room they may fall back to.
const PlayerMe = "me"

// PlayerInvader owns NPC hostiles. They never count as dangerous players.
const PlayerInvader = "Invader"

// objectSpace namespaces sandbox object ids so the same world always hands
// out the same ids.
var objectSpace = uuid.MustParse("6f1c8a3e-5b7d-4e2a-9c41-0d2b7e93a815")

// Terrain is the static type of a tile.
type Terrain uint8

const (
	TerrainPlain Terrain = iota
	TerrainSwamp
	TerrainWall
)

// Structure is a sandbox structure. Every structure except a rampart owned by
// PlayerMe blocks movement.
type Structure struct {
	id      string
	kind    swarm.StructureKind
	pos     grid.Pos
	owner   string
	hits    int
	hitsMax int
	// power is the close-range damage of a tower.
	power int
}

func (s *Structure) ID() string                { return s.id }
func (s *Structure) Pos() grid.Pos             { return s.pos }
func (s *Structure) Kind() swarm.StructureKind { return s.kind }
func (s *Structure) Owner() string             { return s.owner }
func (s *Structure) Hits() int                 { return s.hits }
func (s *Structure) HitsMax() int              { return s.hitsMax }

// Destroyed reports whether the structure has been knocked down.
func (s *Structure) Destroyed() bool { return s.hitsMax > 0 && s.hits <= 0 }

func (s *Structure) blocks() bool {
	if s.Destroyed() {
		return false
	}
	return s.kind != swarm.StructureRampart || s.owner != PlayerMe
}

func (s *Structure) damage(n int) {
	if s.hitsMax == 0 {
		return
	}
	s.hits = max(0, s.hits-n)
}

// Hostile is an enemy creep. It strikes adjacent swarm creeps each tick.
type Hostile struct {
	id      string
	pos     grid.Pos
	owner   string
	hits    int
	hitsMax int
	attack  int
}

func (h *Hostile) ID() string    { return h.id }
func (h *Hostile) Pos() grid.Pos { return h.pos }
func (h *Hostile) Owner() string { return h.owner }
func (h *Hostile) Hits() int     { return h.hits }
func (h *Hostile) HitsMax() int  { return h.hitsMax }

// Dead reports whether the hostile has been killed.
func (h *Hostile) Dead() bool { return h.hits <= 0 }

func (h *Hostile) damage(n int) { h.hits = max(0, h.hits-n) }

// RoomState is one room of the sandbox.
type RoomState struct {
	name       string
	owner      string
	terrain    [grid.RoomSize][grid.RoomSize]Terrain
	structures []*Structure
	hostiles   []*Hostile
}

func (r *RoomState) Name() string  { return r.name }
func (r *RoomState) Owner() string { return r.owner }
func (r *RoomState) My() bool      { return r.owner == PlayerMe }

// Terrain returns the terrain at x,y; out-of-room tiles read as walls.
func (r *RoomState) Terrain(x, y int) Terrain {
	if x < 0 || y < 0 || x > grid.MaxCoord || y > grid.MaxCoord {
		return TerrainWall
	}
	return r.terrain[x][y]
}

func (r *RoomState) Hostiles() []swarm.Hostile {
	var out []swarm.Hostile
	for _, h := range r.hostiles {
		if !h.Dead() {
			out = append(out, h)
		}
	}
	return out
}

func (r *RoomState) DangerousPlayerHostiles() []swarm.Hostile {
	var out []swarm.Hostile
	for _, h := range r.hostiles {
		if !h.Dead() && h.attack > 0 && h.owner != PlayerInvader {
			out = append(out, h)
		}
	}
	return out
}

func (r *RoomState) HostileStructures() []swarm.Structure {
	var out []swarm.Structure
	for _, s := range r.structures {
		if s.Destroyed() || s.owner == "" || s.owner == PlayerMe || s.kind == swarm.StructureController {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *RoomState) Towers() []swarm.Structure {
	var out []swarm.Structure
	for _, s := range r.structures {
		if s.kind == swarm.StructureTower && !s.Destroyed() && s.owner == r.owner {
			out = append(out, s)
		}
	}
	return out
}

func (r *RoomState) Spawns() []swarm.Structure {
	var out []swarm.Structure
	for _, s := range r.structures {
		if s.kind == swarm.StructureSpawn && !s.Destroyed() && s.owner == r.owner {
			out = append(out, s)
		}
	}
	return out
}

func (r *RoomState) Controller() (swarm.Structure, bool) {
	for _, s := range r.structures {
		if s.kind == swarm.StructureController {
			return s, true
		}
	}
	return nil, false
}

// Structures returns every structure still standing.
func (r *RoomState) Structures() []*Structure {
	return slices.DeleteFunc(slices.Clone(r.structures), (*Structure).Destroyed)
}

// World is the sandbox: a row of rooms E0N0, E1N0, ... joined at their
// left and right exits.
type World struct {
	time    int
	rooms   map[string]*RoomState
	order   []string
	objects map[string]any
	creeps  []*Creep
	seq     int
}

// NewWorld returns an empty world at tick 0.
func NewWorld() *World {
	return &World{
		rooms:   make(map[string]*RoomState),
		objects: make(map[string]any),
	}
}

// RoomName is the name of the room at index i of the row.
func RoomName(i int) string {
	return fmt.Sprintf("E%dN0", i)
}

func roomIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "E")
	if !ok {
		return 0, false
	}
	num, ok := strings.CutSuffix(rest, "N0")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(num)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// AddRoom creates room name owned by owner. Names must follow RoomName.
func (w *World) AddRoom(name, owner string) (*RoomState, error) {
	if _, ok := roomIndex(name); !ok {
		return nil, fmt.Errorf("game: room %q is not in the E<n>N0 row", name)
	}
	if r, ok := w.rooms[name]; ok {
		r.owner = owner
		return r, nil
	}
	r := &RoomState{name: name, owner: owner}
	w.rooms[name] = r
	w.order = append(w.order, name)
	slices.SortFunc(w.order, func(a, b string) int {
		ia, _ := roomIndex(a)
		ib, _ := roomIndex(b)
		return ia - ib
	})
	return r, nil
}

// Rooms returns the rooms in row order.
func (w *World) Rooms() []*RoomState {
	out := make([]*RoomState, len(w.order))
	for i, name := range w.order {
		out[i] = w.rooms[name]
	}
	return out
}

// RoomState returns the sandbox room called name.
func (w *World) RoomState(name string) (*RoomState, bool) {
	r, ok := w.rooms[name]
	return r, ok
}

// SetTerrain paints a rectangle of terrain. Tiles outside the room are
// ignored.
func (w *World) SetTerrain(room string, x, y, width, height int, t Terrain) error {
	r, ok := w.rooms[room]
	if !ok {
		return fmt.Errorf("game: unknown room %q", room)
	}
	for dx := 0; dx < width; dx++ {
		for dy := 0; dy < height; dy++ {
			p := grid.Pos{X: x + dx, Y: y + dy, Room: room}
			if p.InBounds() {
				r.terrain[p.X][p.Y] = t
			}
		}
	}
	return nil
}

func (w *World) newID(kind string) string {
	w.seq++
	return uuid.NewSHA1(objectSpace, []byte(fmt.Sprintf("%s/%d", kind, w.seq))).String()
}

// AddStructure places a structure. hits of zero makes it indestructible.
func (w *World) AddStructure(kind swarm.StructureKind, p grid.Pos, owner string, hits int) (*Structure, error) {
	r, ok := w.rooms[p.Room]
	if !ok {
		return nil, fmt.Errorf("game: unknown room %q", p.Room)
	}
	if !p.InBounds() {
		return nil, fmt.Errorf("game: structure position %s out of bounds", p)
	}
	s := &Structure{id: w.newID(string(kind)), kind: kind, pos: p, owner: owner, hits: hits, hitsMax: hits}
	r.structures = append(r.structures, s)
	w.objects[s.id] = s
	return s, nil
}

// AddTower places a tower whose close-range damage is power.
func (w *World) AddTower(p grid.Pos, owner string, hits, power int) (*Structure, error) {
	s, err := w.AddStructure(swarm.StructureTower, p, owner, hits)
	if err != nil {
		return nil, err
	}
	s.power = power
	return s, nil
}

// AddHostile places an enemy creep that deals attack damage to an adjacent
// swarm creep each tick.
func (w *World) AddHostile(p grid.Pos, owner string, hits, attack int) (*Hostile, error) {
	r, ok := w.rooms[p.Room]
	if !ok {
		return nil, fmt.Errorf("game: unknown room %q", p.Room)
	}
	h := &Hostile{id: w.newID("hostile"), pos: p, owner: owner, hits: hits, hitsMax: hits, attack: attack}
	r.hostiles = append(r.hostiles, h)
	w.objects[h.id] = h
	return h, nil
}

// Time is the current tick.
func (w *World) Time() int { return w.time }

// Resolve looks up a live structure or hostile by id.
func (w *World) Resolve(id string) (swarm.Target, bool) {
	switch o := w.objects[id].(type) {
	case *Structure:
		if o.Destroyed() {
			return swarm.Target{}, false
		}
		return swarm.StructureTarget(o), true
	case *Hostile:
		if o.Dead() {
			return swarm.Target{}, false
		}
		return swarm.CreepTarget(o), true
	default:
		return swarm.Target{}, false
	}
}

// Room returns the swarm view of room name.
func (w *World) Room(name string) (swarm.Room, bool) {
	r, ok := w.rooms[name]
	if !ok {
		return nil, false
	}
	return r, true
}

// IsWalkable reports whether p is inside a known room, not a terrain wall and
// not blocked by a standing structure. Creeps are not considered.
func (w *World) IsWalkable(p grid.Pos) bool {
	r, ok := w.rooms[p.Room]
	if !ok || !p.InBounds() {
		return false
	}
	if r.terrain[p.X][p.Y] == TerrainWall {
		return false
	}
	for _, s := range r.structures {
		if s.pos == p && s.blocks() {
			return false
		}
	}
	return true
}

// Step returns the tile one step from p in direction d. Stepping past the
// left or right edge lands on the opposite edge of the neighbouring room.
func (w *World) Step(p grid.Pos, d grid.Direction) (grid.Pos, bool) {
	q := p.Step(d)
	if q.Y < 0 || q.Y > grid.MaxCoord {
		return p, false
	}
	if q.X >= 0 && q.X <= grid.MaxCoord {
		return q, true
	}
	i, ok := roomIndex(p.Room)
	if !ok {
		return p, false
	}
	if q.X > grid.MaxCoord {
		q.X, q.Room = 0, RoomName(i+1)
	} else {
		q.X, q.Room = grid.MaxCoord, RoomName(i-1)
	}
	if _, ok := w.rooms[q.Room]; !ok {
		return p, false
	}
	return q, true
}

// globalX places x on the continuous row of rooms.
func globalX(p grid.Pos) int {
	i, _ := roomIndex(p.Room)
	return i*grid.RoomSize + p.X
}

// Distance is the Chebyshev range between a and b along the row of rooms.
func Distance(a, b grid.Pos) int {
	return max(abs(globalX(a)-globalX(b)), abs(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AddCreep spawns a swarm creep with the given body and lifetime.
func (w *World) AddCreep(name string, p grid.Pos, body []swarm.Part, ttl int) (*Creep, error) {
	if _, ok := w.rooms[p.Room]; !ok {
		return nil, fmt.Errorf("game: unknown room %q", p.Room)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("game: creep %s has no body", name)
	}
	if _, dup := w.Creep(name); dup {
		return nil, fmt.Errorf("game: duplicate creep name %q", name)
	}
	c := &Creep{
		world:   w,
		name:    name,
		pos:     p,
		body:    slices.Clone(body),
		hits:    len(body) * partHits,
		hitsMax: len(body) * partHits,
		ttl:     ttl,
	}
	w.creeps = append(w.creeps, c)
	return c, nil
}

// Creep returns the live creep called name.
func (w *World) Creep(name string) (*Creep, bool) {
	for _, c := range w.creeps {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Creeps returns the live creeps in spawn order.
func (w *World) Creeps() []*Creep {
	return slices.Clone(w.creeps)
}

func (w *World) creepAt(p grid.Pos) *Creep {
	for _, c := range w.creeps {
		if c.pos == p {
			return c
		}
	}
	return nil
}

func (w *World) hostileAt(p grid.Pos) *Hostile {
	r, ok := w.rooms[p.Room]
	if !ok {
		return nil
	}
	for _, h := range r.hostiles {
		if !h.Dead() && h.pos == p {
			return h
		}
	}
	return nil
}

func (w *World) structureAt(p grid.Pos) *Structure {
	r, ok := w.rooms[p.Room]
	if !ok {
		return nil
	}
	for _, s := range r.structures {
		if !s.Destroyed() && s.pos == p {
			return s
		}
	}
	return nil
}
