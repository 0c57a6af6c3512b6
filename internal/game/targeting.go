package game

import (
	"math/rand"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// Retreat goal radii around defenders.
const (
	hostileAvoidRange = 4
	towerAvoidRange   = 20
)

// kindPriority lowers the score of structures worth breaking first.
var kindPriority = map[swarm.StructureKind]int{
	swarm.StructureTower: 15,
	swarm.StructureSpawn: 10,
}

// Targeting scores siege targets by distance, remaining hits and a seeded
// random spread that grows with the caller's bias penalty.
type Targeting struct {
	world *World
	rng   *rand.Rand
}

// NewTargeting returns targeting over w drawing randomness from rng.
func NewTargeting(w *World, rng *rand.Rand) *Targeting {
	return &Targeting{world: w, rng: rng}
}

// BestSwarmStructureTarget picks the damageable hostile structure in room
// with the lowest score. Every structure is scored, in room order, so the
// random draws stay reproducible for a given seed.
func (t *Targeting) BestSwarmStructureTarget(s *swarm.Swarm, room string, biasPenalty int) (swarm.Target, bool) {
	r, ok := t.world.RoomState(room)
	if !ok {
		return swarm.Target{}, false
	}
	anchor := s.Anchor()
	var best *Structure
	bestScore := 0
	for _, hs := range r.HostileStructures() {
		st := hs.(*Structure)
		if !swarm.StructureTarget(st).IsDamageable() {
			continue
		}
		score := Distance(anchor, st.pos) + st.hits/10000 - kindPriority[st.kind]
		if biasPenalty > 0 {
			score += t.rng.Intn(biasPenalty + 1)
		}
		if best == nil || score < bestScore {
			best, bestScore = st, score
		}
	}
	if best == nil {
		return swarm.Target{}, false
	}
	return swarm.StructureTarget(best), true
}

// RetreatGoals keeps a retreating swarm out of reach of armed hostiles and
// of the room owner's towers.
func (t *Targeting) RetreatGoals(room swarm.Room) []grid.Goal {
	var goals []grid.Goal
	for _, h := range room.Hostiles() {
		if hh, ok := h.(*Hostile); ok && hh.attack == 0 {
			continue
		}
		goals = append(goals, grid.Goal{Pos: h.Pos(), Range: hostileAvoidRange})
	}
	if room.Owner() != "" && !room.My() {
		for _, tw := range room.Towers() {
			goals = append(goals, grid.Goal{Pos: tw.Pos(), Range: towerAvoidRange})
		}
	}
	return goals
}
