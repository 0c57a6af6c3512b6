package swarm

import (
	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// Phase names the step of the siege sequence that acted on a tick.
type Phase int

const (
	PhaseRegroup  Phase = iota // broke formation, reassembling
	PhaseRecover               // low on hits, falling back
	PhaseTravel                // not yet inside the objective room
	PhaseApproach              // closing on the siege target
	PhaseReorient              // turning to face enemy structures
	PhaseHold                  // nothing to do beyond the combat routines
)

func (p Phase) String() string {
	switch p {
	case PhaseRegroup:
		return "regroup"
	case PhaseRecover:
		return "recover"
	case PhaseTravel:
		return "travel"
	case PhaseApproach:
		return "approach"
	case PhaseReorient:
		return "reorient"
	case PhaseHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Step reports what AutoSiege did on one tick.
type Step struct {
	Phase  Phase
	Result ResultCode
	// Assembled is set for PhaseRegroup: true when the swarm was already
	// back in formation.
	Assembled bool
	Err       error
}

// AutoMelee runs the melee routine of every member with attack parts.
func (s *Swarm) AutoMelee() {
	for _, a := range s.agents {
		if a.ActiveParts(PartAttack) > 0 {
			a.AutoMelee()
		}
	}
}

// AutoRanged runs the ranged routine of every member with ranged parts.
func (s *Swarm) AutoRanged() {
	for _, a := range s.agents {
		if a.ActiveParts(PartRangedAttack) > 0 {
			a.AutoRanged()
		}
	}
}

// AutoHeal runs the heal routine of every member with heal parts.
func (s *Swarm) AutoHeal(allowRanged bool) {
	for _, a := range s.agents {
		if a.ActiveParts(PartHeal) > 0 {
			a.AutoHeal(allowRanged)
		}
	}
}

// AutoSiege runs one tick of the standard siege sequence against room. The
// swarm is assumed to have assembled once already. Combat routines always
// run; after that the first step that issues an action ends the tick.
func (s *Swarm) AutoSiege(room string) Step {
	s.AutoMelee()
	s.AutoRanged()
	s.AutoHeal(true)

	// Members on exits may be mid-crossing; formation checks are unreliable there.
	if !s.IsInFormation() && !s.anyOnEdge() {
		ok, err := s.Regroup()
		return Step{Phase: PhaseRegroup, Assembled: ok, Err: err}
	}

	if s.NeedsToRecover() {
		s.logf("recover", "recovering", float64(s.mem.NumRetreats), "retreats %d", s.mem.NumRetreats)
		s.ClearTarget()
		return Step{Phase: PhaseRecover, Result: s.Recover()}
	}

	if !s.SafelyInRoom(room) {
		r := s.GoToRoom(room, MoveOptions{})
		s.debugf("siege", "travel", float64(r), "to %s: %s", room, r)
		return Step{Phase: PhaseTravel, Result: r}
	}

	target, ok := s.Target()
	if !ok && s.targeting != nil {
		bias := s.cfg.RetreatBias * s.mem.NumRetreats
		if t, found := s.targeting.BestSwarmStructureTarget(s, room, bias); found {
			s.SetTarget(t)
			target, ok = t, true
			s.logf("target", "acquired", float64(bias), "%s (bias %d)", t, bias)
		}
	}

	if ok {
		r := s.CombatMove(s.approachGoals(target), nil, CombatMoveOptions{})
		if r != ResultNoAction {
			s.debugf("siege", "approach", float64(r), "toward %s: %s", target, r)
			return Step{Phase: PhaseApproach, Result: r}
		}
	} else {
		s.logf("target", "none", 0, "no target in %s", room)
	}

	if enemy, found := s.contestedRoom(); found {
		if o, has := s.BestOrientation(enemy); has && o != s.mem.Orientation && s.fatigue == 0 {
			s.logf("formation", "reorient", 0, "%s -> %s", s.mem.Orientation, o)
			return Step{Phase: PhaseReorient, Result: s.Rotate(o)}
		}
	}
	return Step{Phase: PhaseHold, Result: ResultNoAction}
}

// approachGoals is the band of anchor tiles from which the formation
// touches target: the formation-sized window ending on the target, widened
// by the approach range.
func (s *Swarm) approachGoals(target Target) []grid.Goal {
	window := grid.PosWindow(target.Pos(), -s.width, -s.height)
	goals := make([]grid.Goal, len(window))
	for i, p := range window {
		goals[i] = grid.Goal{Pos: p, Range: s.cfg.ApproachRange}
	}
	return goals
}

// contestedRoom returns the first occupied room owned by another player.
func (s *Swarm) contestedRoom() (Room, bool) {
	for _, r := range s.rooms {
		if r.Owner() != "" && !r.My() {
			return r, true
		}
	}
	return nil, false
}

// NeedsToRecover applies the configured recovery hysteresis.
func (s *Swarm) NeedsToRecover() bool {
	return s.NeedsToRecoverWith(s.cfg.RecoverThreshold, s.cfg.ReengageThreshold)
}

// NeedsToRecoverWith reports whether the swarm should fall back. A healthy
// swarm starts recovering once any member is below recoverThreshold of its
// max hits; a recovering swarm keeps recovering until every member is back
// at reengageThreshold. Each start of a recovery counts as a retreat.
func (s *Swarm) NeedsToRecoverWith(recoverThreshold, reengageThreshold float64) bool {
	threshold := recoverThreshold
	if s.mem.Recovering {
		threshold = reengageThreshold
	}
	recovering := false
	for _, a := range s.agents {
		if float64(a.Hits()) < float64(a.HitsMax())*threshold {
			recovering = true
			break
		}
	}
	if recovering && !s.mem.Recovering {
		s.mem.NumRetreats++
		s.logf("recover", "retreat_start", float64(s.mem.NumRetreats), "retreat #%d", s.mem.NumRetreats)
	} else if !recovering && s.mem.Recovering {
		s.logf("recover", "reengage", float64(s.mem.NumRetreats), "hits restored")
	}
	s.mem.Recovering = recovering
	return recovering
}

// Recover pulls the swarm away from danger. If the combat move has nothing
// left to avoid but danger was seen within the last few ticks, the swarm
// keeps going to the nearest safe room it occupies.
func (s *Swarm) Recover() ResultCode {
	danger := false
	var avoid []grid.Goal
	for _, r := range s.rooms {
		if len(r.Hostiles()) > 0 {
			danger = true
		}
		if r.Owner() != "" && !r.My() && len(r.Towers()) > 0 {
			danger = true
		}
		if s.targeting != nil {
			avoid = append(avoid, s.targeting.RetreatGoals(r)...)
		}
	}
	if danger {
		s.mem.LastInDanger = s.now()
	}
	result := s.CombatMove(nil, avoid, CombatMoveOptions{})

	var safe Room
	for _, r := range s.rooms {
		if r.Owner() == "" || r.My() {
			safe = r
			break
		}
	}
	if result == ResultNoAction && safe != nil && !s.SafelyInRoom(safe.Name()) &&
		s.now() < s.mem.LastInDanger+s.cfg.DangerWindow {
		s.logf("recover", "fall_back", 0, "to safe room %s", safe.Name())
		return s.GoToRoom(safe.Name(), MoveOptions{})
	}
	return result
}

// BestOrientation picks the facing toward the hostile structures within
// reach: the axis with the larger mean offset from members to those
// structures wins. It reports false when no structure is in reach.
func (s *Swarm) BestOrientation(room Room) (grid.Orientation, bool) {
	targets := InMinRange(s, room.HostileStructures(), s.cfg.OrientationRange)
	if len(targets) == 0 || len(s.agents) == 0 {
		return s.mem.Orientation, false
	}
	var sumX, sumY, n float64
	for _, a := range s.agents {
		ap := a.Pos()
		for _, t := range targets {
			tp := t.Pos()
			sumX += float64(tp.X - ap.X)
			sumY += float64(tp.Y - ap.Y)
			n++
		}
	}
	dx, dy := sumX/n, sumY/n
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return grid.OrientRight, true
		}
		return grid.OrientLeft, true
	}
	if dy > 0 {
		return grid.OrientBottom, true
	}
	return grid.OrientTop, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
