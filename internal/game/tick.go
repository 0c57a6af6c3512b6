package game

import (
	"slices"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// TickReport lists what the world resolved at the end of a tick.
type TickReport struct {
	Moved      int
	Blocked    int
	Hits       []CombatEvent
	Died       []string
	Destroyed  []*Structure
	Killed     []*Hostile
	RoomsEnter map[string]string
}

// BeginTick advances the clock and readies every creep for new orders.
func (w *World) BeginTick() {
	w.time++
	for _, c := range w.creeps {
		c.beginTick()
	}
}

// EndTick resolves the tick: defenders fire, queued moves are applied, then
// dead creeps, killed hostiles and destroyed structures are removed.
func (w *World) EndTick() TickReport {
	rep := TickReport{RoomsEnter: map[string]string{}}
	rep.Hits = w.resolveDefenders()
	w.resolveMoves(&rep)

	w.creeps = slices.DeleteFunc(w.creeps, func(c *Creep) bool {
		if c.Dead() {
			rep.Died = append(rep.Died, c.name)
			return true
		}
		return false
	})
	for _, r := range w.Rooms() {
		for _, s := range r.structures {
			if s.Destroyed() {
				if _, tracked := w.objects[s.id]; tracked {
					rep.Destroyed = append(rep.Destroyed, s)
					delete(w.objects, s.id)
				}
			}
		}
		for _, h := range r.hostiles {
			if h.Dead() {
				if _, tracked := w.objects[h.id]; tracked {
					rep.Killed = append(rep.Killed, h)
					delete(w.objects, h.id)
				}
			}
		}
	}
	return rep
}

type queuedMove struct {
	c    *Creep
	dest grid.Pos
}

// resolveMoves applies queued moves. A move fails when the destination is
// blocked, claimed earlier in spawn order, or held by a creep that is not
// itself leaving. Creeps may swap places or follow one another in a chain.
func (w *World) resolveMoves(rep *TickReport) {
	var moves []queuedMove
	for _, c := range w.creeps {
		d, ok := c.Pending()
		if !ok || c.Dead() {
			continue
		}
		dest, ok := w.Step(c.pos, d)
		if !ok || !w.IsWalkable(dest) || w.hostileAt(dest) != nil {
			rep.Blocked++
			continue
		}
		moves = append(moves, queuedMove{c: c, dest: dest})
	}

	for changed := true; changed; {
		changed = false
		leaving := make(map[*Creep]bool, len(moves))
		for _, m := range moves {
			leaving[m.c] = true
		}
		claimed := make(map[grid.Pos]bool, len(moves))
		kept := make([]queuedMove, 0, len(moves))
		for _, m := range moves {
			if claimed[m.dest] {
				changed = true
				continue
			}
			if occ := w.creepAt(m.dest); occ != nil && !leaving[occ] {
				changed = true
				continue
			}
			claimed[m.dest] = true
			kept = append(kept, m)
		}
		rep.Blocked += len(moves) - len(kept)
		moves = kept
	}

	for _, m := range moves {
		if m.dest.Room != m.c.pos.Room {
			rep.RoomsEnter[m.c.name] = m.dest.Room
		}
		m.c.fatigue += m.c.moveFatigue(m.dest)
		m.c.pos = m.dest
		m.c.pending = nil
		rep.Moved++
	}
}
