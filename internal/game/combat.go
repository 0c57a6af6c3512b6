package game

import (
	"fmt"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// Tower falloff: full power within towerOptimalRange, a quarter of it from
// towerFalloffRange on, linear in between.
const (
	towerOptimalRange = 5
	towerFalloffRange = 20
)

// CombatEvent records one hit landed by the defenders.
type CombatEvent struct {
	Source string
	Target string
	Damage int
}

func (e CombatEvent) String() string {
	return fmt.Sprintf("%s hit %s for %d", e.Source, e.Target, e.Damage)
}

// TowerDamage is the damage a tower of the given power deals at rng.
func TowerDamage(power, rng int) int {
	switch {
	case rng <= towerOptimalRange:
		return power
	case rng >= towerFalloffRange:
		return power / 4
	default:
		span := towerFalloffRange - towerOptimalRange
		return power - (power-power/4)*(rng-towerOptimalRange)/span
	}
}

// resolveDefenders lets every enemy tower shoot the closest swarm creep in its
// room and every armed hostile strike its weakest adjacent swarm creep.
func (w *World) resolveDefenders() []CombatEvent {
	var events []CombatEvent
	for _, r := range w.Rooms() {
		for _, s := range r.structures {
			if s.kind != swarm.StructureTower || s.Destroyed() || s.owner == PlayerMe || s.power == 0 {
				continue
			}
			target := w.closestCreep(s.pos, -1)
			if target == nil {
				continue
			}
			dmg := TowerDamage(s.power, Distance(s.pos, target.pos))
			target.takeDamage(dmg)
			events = append(events, CombatEvent{Source: "tower@" + shortPos(s.pos), Target: target.name, Damage: dmg})
		}
		for _, h := range r.hostiles {
			if h.Dead() || h.attack == 0 {
				continue
			}
			target := w.weakestCreepNear(h.pos, 1)
			if target == nil {
				continue
			}
			target.takeDamage(h.attack)
			events = append(events, CombatEvent{Source: h.owner + "@" + shortPos(h.pos), Target: target.name, Damage: h.attack})
		}
	}
	return events
}

// closestCreep finds the nearest live creep in p's room; reach < 0 means any
// distance.
func (w *World) closestCreep(p grid.Pos, reach int) *Creep {
	var best *Creep
	for _, c := range w.creeps {
		if c.pos.Room != p.Room || c.hits <= 0 {
			continue
		}
		d := Distance(p, c.pos)
		if reach >= 0 && d > reach {
			continue
		}
		if best == nil || d < Distance(p, best.pos) {
			best = c
		}
	}
	return best
}

func (w *World) weakestCreepNear(p grid.Pos, reach int) *Creep {
	var best *Creep
	for _, c := range w.creeps {
		if c.pos.Room != p.Room || c.hits <= 0 || Distance(p, c.pos) > reach {
			continue
		}
		if best == nil || c.hits < best.hits {
			best = c
		}
	}
	return best
}

func shortPos(p grid.Pos) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}
