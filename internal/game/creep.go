package game

import (
	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// Body part hit points and per-part action strengths.
const (
	partHits        = 100
	attackPower     = 30
	rangedPower     = 10
	dismantlePower  = 50
	healPower       = 12
	rangedHealPower = 4
	rangedRange     = 3
)

// Fatigue generated per non-move part on each terrain, and shed per move
// part every tick.
const (
	plainFatigue = 2
	swampFatigue = 10
	moveRecovery = 2
)

// Creep is a sandbox agent. Moves are queued by Move and resolved by the
// world at the end of the tick; combat actions land immediately.
type Creep struct {
	world   *World
	name    string
	pos     grid.Pos
	body    []swarm.Part
	hits    int
	hitsMax int
	fatigue int
	ttl     int
	task    bool

	pending *grid.Direction
	// acted is set once the creep has used its attack this tick.
	acted bool
	// healed is set once the creep has used its heal this tick.
	healed bool
}

func (c *Creep) Name() string     { return c.name }
func (c *Creep) Pos() grid.Pos    { return c.pos }
func (c *Creep) Hits() int        { return c.hits }
func (c *Creep) HitsMax() int     { return c.hitsMax }
func (c *Creep) Fatigue() int     { return c.fatigue }
func (c *Creep) TicksToLive() int { return c.ttl }

// Body returns the creep's parts, front first.
func (c *Creep) Body() []swarm.Part { return c.body }

// Dead reports whether the creep has no hits or no lifetime left.
func (c *Creep) Dead() bool { return c.hits <= 0 || c.ttl <= 0 }

// ActiveParts counts undamaged parts of type p. Damage strips parts from the
// front of the body.
func (c *Creep) ActiveParts(p swarm.Part) int {
	alive := (c.hits + partHits - 1) / partHits
	n := 0
	for _, part := range c.body[len(c.body)-min(alive, len(c.body)):] {
		if part == p {
			n++
		}
	}
	return n
}

// SetTask marks the creep busy with a non-combat task.
func (c *Creep) SetTask(busy bool) { c.task = busy }

func (c *Creep) HasValidTask() bool { return c.task }

func (c *Creep) Move(d grid.Direction) swarm.ResultCode {
	switch {
	case !d.Valid():
		return swarm.ResultInvalidArgs
	case c.ActiveParts(swarm.PartMove) == 0:
		return swarm.ResultNoBodypart
	case c.fatigue > 0:
		return swarm.ResultTired
	}
	c.pending = &d
	return swarm.ResultOK
}

func (c *Creep) CancelMove() { c.pending = nil }

// Pending returns the queued move, if any.
func (c *Creep) Pending() (grid.Direction, bool) {
	if c.pending == nil {
		return 0, false
	}
	return *c.pending, true
}

// GoTo takes one greedy step toward dest: the direct direction first, then
// its two neighbours.
func (c *Creep) GoTo(dest grid.Pos, opts swarm.MoveOptions) swarm.ResultCode {
	if Distance(c.pos, dest) <= opts.Range {
		return swarm.ResultOK
	}
	d, ok := headingTo(c.pos, dest)
	if !ok {
		return swarm.ResultOK
	}
	for _, cand := range []grid.Direction{d, rotate(d, 1), rotate(d, -1)} {
		next, ok := c.world.Step(c.pos, cand)
		if !ok || !c.world.IsWalkable(next) || c.world.hostileAt(next) != nil {
			continue
		}
		if Distance(next, dest) >= Distance(c.pos, dest) {
			continue
		}
		if occ := c.world.creepAt(next); occ != nil && !opts.IgnoreCreeps {
			onDest := next == dest && opts.IgnoreCreepsOnDestination
			if !onDest && (opts.NoPush || occ.pending == nil) {
				continue
			}
		}
		return c.Move(cand)
	}
	return swarm.ResultNoPath
}

// headingTo is the step direction from a toward b along the row of rooms.
func headingTo(a, b grid.Pos) (grid.Direction, bool) {
	return grid.DirectionFromDelta(globalX(b)-globalX(a), b.Y-a.Y)
}

// rotate turns d by n eighth turns clockwise.
func rotate(d grid.Direction, n int) grid.Direction {
	return grid.Direction(((int(d)-1+n)%8+8)%8 + 1)
}

func (c *Creep) SafelyInRoom(room string) bool {
	return c.pos.Room == room && !c.pos.IsEdge()
}

func (c *Creep) room() *RoomState {
	r, _ := c.world.RoomState(c.pos.Room)
	return r
}

// AutoMelee strikes the weakest adjacent hostile creep, else dismantles or
// attacks an adjacent hostile structure.
func (c *Creep) AutoMelee() {
	attack := c.ActiveParts(swarm.PartAttack)
	work := c.ActiveParts(swarm.PartWork)
	if c.acted || (attack == 0 && work == 0) {
		return
	}
	if attack > 0 {
		if h := c.weakestHostile(1); h != nil {
			h.damage(attack * attackPower)
			c.acted = true
			return
		}
	}
	if s := c.nearestStructure(1); s != nil {
		s.damage(attack*attackPower + work*dismantlePower)
		c.acted = true
	}
}

// AutoRanged shoots the weakest hostile creep within range, else a hostile
// structure.
func (c *Creep) AutoRanged() {
	ranged := c.ActiveParts(swarm.PartRangedAttack)
	if c.acted || ranged == 0 {
		return
	}
	if h := c.weakestHostile(rangedRange); h != nil {
		h.damage(ranged * rangedPower)
		c.acted = true
		return
	}
	if s := c.nearestStructure(rangedRange); s != nil {
		s.damage(ranged * rangedPower)
		c.acted = true
	}
}

// AutoHeal heals the most damaged friendly creep next to it, or within
// ranged-heal reach when allowRanged is set.
func (c *Creep) AutoHeal(allowRanged bool) {
	heal := c.ActiveParts(swarm.PartHeal)
	if c.healed || heal == 0 {
		return
	}
	reach := 1
	if allowRanged {
		reach = rangedRange
	}
	var best *Creep
	for _, o := range c.world.creeps {
		if o.hits >= o.hitsMax || Distance(c.pos, o.pos) > reach {
			continue
		}
		if best == nil || o.hitsMax-o.hits > best.hitsMax-best.hits {
			best = o
		}
	}
	if best == nil {
		return
	}
	amount := heal * healPower
	if Distance(c.pos, best.pos) > 1 {
		amount = heal * rangedHealPower
	}
	best.hits = min(best.hitsMax, best.hits+amount)
	c.healed = true
}

// AutoSkirmish fights the nearest hostile in room on its own.
func (c *Creep) AutoSkirmish(room string) {
	r, ok := c.world.RoomState(room)
	if !ok {
		return
	}
	var nearest *Hostile
	for _, h := range r.hostiles {
		if h.Dead() {
			continue
		}
		if nearest == nil || Distance(c.pos, h.pos) < Distance(c.pos, nearest.pos) {
			nearest = h
		}
	}
	c.AutoMelee()
	c.AutoRanged()
	c.AutoHeal(true)
	if nearest != nil && Distance(c.pos, nearest.pos) > 1 {
		c.GoTo(nearest.pos, swarm.MoveOptions{Range: 1})
	}
}

func (c *Creep) weakestHostile(reach int) *Hostile {
	r := c.room()
	if r == nil {
		return nil
	}
	var best *Hostile
	for _, h := range r.hostiles {
		if h.Dead() || Distance(c.pos, h.pos) > reach {
			continue
		}
		if best == nil || h.hits < best.hits {
			best = h
		}
	}
	return best
}

func (c *Creep) nearestStructure(reach int) *Structure {
	r := c.room()
	if r == nil {
		return nil
	}
	var best *Structure
	for _, s := range r.structures {
		if s.Destroyed() || s.hitsMax == 0 || s.owner == "" || s.owner == PlayerMe {
			continue
		}
		d := Distance(c.pos, s.pos)
		if d > reach {
			continue
		}
		if best == nil || d < Distance(c.pos, best.pos) || (d == Distance(c.pos, best.pos) && s.hits < best.hits) {
			best = s
		}
	}
	return best
}

// beginTick sheds fatigue, ages the creep and clears last tick's actions.
func (c *Creep) beginTick() {
	c.fatigue = max(0, c.fatigue-moveRecovery*c.ActiveParts(swarm.PartMove))
	c.ttl--
	c.acted = false
	c.healed = false
	c.pending = nil
}

// moveFatigue is the fatigue a step onto p generates.
func (c *Creep) moveFatigue(p grid.Pos) int {
	per := plainFatigue
	if r, ok := c.world.RoomState(p.Room); ok && r.Terrain(p.X, p.Y) == TerrainSwamp {
		per = swampFatigue
	}
	heavy := 0
	for _, part := range c.body {
		if part != swarm.PartMove {
			heavy++
		}
	}
	return per * heavy
}

func (c *Creep) takeDamage(n int) {
	c.hits = max(0, c.hits-n)
}
