// Package swarm coordinates a small group of agents that move, fight and
// retreat as one rigid formation.
//
// A Swarm is a per-tick view: the coordinator builds it fresh every tick from
// the live member agents and the durable Memory record, calls AutoSiege (or
// the lower-level maneuvers), then writes Memory back. Derived state (the
// rotated formation, anchor, rooms, fatigue) is never persisted.
package swarm

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/simlog"
)

// Deps bundles the collaborators a swarm consults during a tick.
type Deps struct {
	World     World
	Planner   Planner
	Targeting Targeting
	Log       *simlog.Log
	Config    Config
}

// Option customises a Swarm at construction.
type Option func(*Swarm)

// WithSize sets the formation grid. Only 2×2 formations can rotate.
func WithSize(width, height int) Option {
	return func(s *Swarm) {
		s.width = width
		s.height = height
	}
}

// Swarm is a group of agents moving as a single formation.
type Swarm struct {
	ref   string
	owner Overseer
	mem   Memory
	cfg   Config

	world     World
	planner   Planner
	targeting Targeting
	log       *simlog.Log

	agents []Agent
	// staticFormation is the slot layout assuming a Top orientation;
	// formation is the same layout rotated to the current orientation.
	// Nil cells are empty slots.
	staticFormation [][]Agent
	formation       [][]Agent
	width           int
	height          int
	// anchor is the top-left tile of the occupied area, whatever the facing.
	anchor      grid.Pos
	rooms       []Room
	roomsByName map[string]Room
	fatigue     int
}

// New builds the per-tick view of a swarm. mem is copied; read the updated
// record back with Memory once the tick's actions are issued.
func New(owner Overseer, ref string, mem Memory, agents []Agent, deps Deps, opts ...Option) *Swarm {
	s := &Swarm{
		ref:       ref,
		owner:     owner,
		mem:       mem.clone(),
		cfg:       deps.Config.WithDefaults(),
		world:     deps.World,
		planner:   deps.Planner,
		targeting: deps.Targeting,
		log:       deps.Log,
		agents:    slices.Clone(agents),
		width:     2,
		height:    2,
	}
	for _, o := range opts {
		o(s)
	}

	sorted := sortedSlots(s.agents, s.width*s.height)
	s.staticFormation = chunk(sorted, s.width)
	s.formation = grid.Rotated(s.staticFormation, grid.RotationsFromOrientation(s.mem.Orientation))
	s.anchor = s.computeAnchor(sorted)

	s.roomsByName = make(map[string]Room)
	for _, a := range s.agents {
		name := a.Pos().Room
		if _, seen := s.roomsByName[name]; seen {
			continue
		}
		if s.world == nil {
			continue
		}
		if r, ok := s.world.Room(name); ok {
			s.roomsByName[name] = r
			s.rooms = append(s.rooms, r)
		}
	}
	for _, a := range s.agents {
		s.fatigue = max(s.fatigue, a.Fatigue())
	}

	s.debugf("formation", "built", 0, "orientation %s anchor %s slots %s",
		s.mem.Orientation, s.anchor, formatFormation(s.formation))
	return s
}

// combatScore ranks agents for the front of the formation: offensive parts
// count for, healing parts against.
func combatScore(a Agent) int {
	return a.ActiveParts(PartAttack) + a.ActiveParts(PartRangedAttack) +
		a.ActiveParts(PartWork) - a.ActiveParts(PartHeal)
}

// slotSortKey orders slots ascending. Empty slots key 0; an agent with no
// score keys 1 so it trails the empty slots; everyone else keys -score.
func slotSortKey(a Agent) int {
	if a == nil {
		return 0
	}
	if score := combatScore(a); score != 0 {
		return -score
	}
	return 1
}

// sortedSlots pads agents to size with empty slots and stable-sorts them into
// slot order.
func sortedSlots(agents []Agent, size int) []Agent {
	padded := make([]Agent, 0, max(size, len(agents)))
	padded = append(padded, agents...)
	for len(padded) < size {
		padded = append(padded, nil)
	}
	sort.SliceStable(padded, func(i, j int) bool {
		return slotSortKey(padded[i]) < slotSortKey(padded[j])
	})
	return padded
}

func chunk(slots []Agent, width int) [][]Agent {
	var out [][]Agent
	for i := 0; i < len(slots); i += width {
		end := min(i+width, len(slots))
		out = append(out, slices.Clone(slots[i:end]))
	}
	return out
}

// computeAnchor places the anchor from the leading member's cell in the
// rotated formation, falling back to the overseer when the swarm has no agents.
func (s *Swarm) computeAnchor(sorted []Agent) grid.Pos {
	first := slices.IndexFunc(sorted, func(a Agent) bool { return a != nil })
	if first < 0 {
		if s.owner != nil {
			return s.owner.Pos()
		}
		return grid.Pos{}
	}
	lead := sorted[first]
	for dy, row := range s.formation {
		for dx, a := range row {
			if a != nil && a.Name() == lead.Name() {
				return a.Pos().Offset(-dx, -dy)
			}
		}
	}
	return lead.Pos()
}

// Ref returns the swarm's identifier.
func (s *Swarm) Ref() string { return s.ref }

// Memory returns the durable record with this tick's changes applied.
func (s *Swarm) Memory() Memory { return s.mem.clone() }

// Config returns the tuning in effect.
func (s *Swarm) Config() Config { return s.cfg }

// Agents returns the current members.
func (s *Swarm) Agents() []Agent { return slices.Clone(s.agents) }

// Width is the formation grid width under Top orientation.
func (s *Swarm) Width() int { return s.width }

// Height is the formation grid height under Top orientation.
func (s *Swarm) Height() int { return s.height }

// Anchor is the top-left tile of the formation.
func (s *Swarm) Anchor() grid.Pos { return s.anchor }

// Fatigue is the highest fatigue among members.
func (s *Swarm) Fatigue() int { return s.fatigue }

// Rooms lists the distinct visible rooms members occupy.
func (s *Swarm) Rooms() []Room { return slices.Clone(s.rooms) }

// Formation returns the slot grid rotated to the current orientation.
func (s *Swarm) Formation() [][]Agent { return grid.Rotated(s.formation, 0) }

// StaticFormation returns the slot grid under Top orientation.
func (s *Swarm) StaticFormation() [][]Agent { return grid.Rotated(s.staticFormation, 0) }

// Orientation is the current facing.
func (s *Swarm) Orientation() grid.Orientation { return s.mem.Orientation }

// SetOrientation records a new facing and re-derives the rotated formation.
// No agent moves; issue the maneuver separately.
func (s *Swarm) SetOrientation(o grid.Orientation) {
	s.mem.Orientation = o
	s.formation = grid.Rotated(s.staticFormation, grid.RotationsFromOrientation(o))
}

// Target returns the cached siege target while it is unexpired and still
// resolves. Anything else clears the cache.
func (s *Swarm) Target() (Target, bool) {
	if ref := s.mem.Target; ref != nil && ref.Exp > s.now() && s.world != nil {
		if t, ok := s.world.Resolve(ref.ID); ok {
			return t, true
		}
	}
	s.mem.Target = nil
	return Target{}, false
}

// SetTarget caches t for the configured TTL. An empty target clears the
// cache.
func (s *Swarm) SetTarget(t Target) {
	if t.Empty() {
		s.ClearTarget()
		return
	}
	s.mem.Target = &TargetRef{ID: t.ID(), Exp: s.now() + s.cfg.TargetTTL}
}

// ClearTarget drops the cached target.
func (s *Swarm) ClearTarget() {
	s.mem.Target = nil
}

func (s *Swarm) now() int {
	if s.world == nil {
		return 0
	}
	return s.world.Time()
}

func (s *Swarm) logf(category, key string, num float64, format string, args ...any) {
	s.log.Add(s.now(), s.ref, s.anchor.Room, category, key, fmt.Sprintf(format, args...), num)
}

func (s *Swarm) debugf(category, key string, num float64, format string, args ...any) {
	if !s.log.Verbose() {
		return
	}
	s.log.AddVerbose(s.now(), s.ref, s.anchor.Room, category, key, fmt.Sprintf(format, args...), num)
}

func formatFormation(f [][]Agent) string {
	rows := make([]string, len(f))
	for i, row := range f {
		names := make([]string, len(row))
		for j, a := range row {
			if a == nil {
				names[j] = "none"
			} else {
				names[j] = a.Name()
			}
		}
		rows[i] = strings.Join(names, ",")
	}
	return "[" + strings.Join(rows, " | ") + "]"
}
