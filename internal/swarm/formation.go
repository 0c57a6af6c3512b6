package swarm

import (
	"math"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// FormationPositions maps each member's name to the tile its slot occupies
// when the formation's top-left corner sits on anchor.
func (s *Swarm) FormationPositions(anchor grid.Pos) map[string]grid.Pos {
	out := make(map[string]grid.Pos, len(s.agents))
	for dy, row := range s.formation {
		for dx, a := range row {
			if a != nil {
				out[a.Name()] = anchor.Offset(dx, dy)
			}
		}
	}
	return out
}

// IsInFormation reports whether every member stands on its slot around the
// current anchor.
func (s *Swarm) IsInFormation() bool {
	return s.IsInFormationAt(s.anchor)
}

// IsInFormationAt reports whether every member stands on its slot around
// anchor.
func (s *Swarm) IsInFormationAt(anchor grid.Pos) bool {
	positions := s.FormationPositions(anchor)
	for _, a := range s.agents {
		want, ok := positions[a.Name()]
		if !ok || a.Pos() != want {
			return false
		}
	}
	return true
}

// HasMaxAgents reports whether every slot is filled.
func (s *Swarm) HasMaxAgents() bool {
	return len(s.agents) == s.width*s.height
}

// IsExpired reports whether the swarm has lost a member and its oldest
// survivor is too old for a freshly spawned replacement to partner with.
func (s *Swarm) IsExpired() bool {
	if s.HasMaxAgents() || len(s.agents) == 0 {
		return false
	}
	minTTL := math.MaxInt
	for _, a := range s.agents {
		ttl := a.TicksToLive()
		if ttl == 0 {
			ttl = s.cfg.UnknownTTL
		}
		minTTL = min(minTTL, ttl)
	}
	replacementTTL := s.cfg.CreepLifeTime + s.cfg.SpawnBuffer
	return replacementTTL-minTTL >= s.cfg.SwarmTickDifference
}

// InMultipleRooms reports whether members are spread over more than one room.
func (s *Swarm) InMultipleRooms() bool {
	seen := make(map[string]bool, 2)
	for _, a := range s.agents {
		seen[a.Pos().Room] = true
	}
	return len(seen) > 1
}

// SafelyInRoom reports whether every member is inside room and off its exits.
func (s *Swarm) SafelyInRoom(room string) bool {
	for _, a := range s.agents {
		if !a.SafelyInRoom(room) {
			return false
		}
	}
	return true
}

// anyOnEdge reports whether a member stands on an exit tile.
func (s *Swarm) anyOnEdge() bool {
	for _, a := range s.agents {
		if a.Pos().IsEdge() {
			return true
		}
	}
	return false
}

// MinRangeTo is the range from the closest member to p; math.MaxInt when no
// member shares p's room.
func (s *Swarm) MinRangeTo(p grid.Pos) int {
	best := math.MaxInt
	for _, a := range s.agents {
		best = min(best, a.Pos().Range(p))
	}
	return best
}

// MaxRangeTo is the range from the farthest member to p.
func (s *Swarm) MaxRangeTo(p grid.Pos) int {
	if len(s.agents) == 0 {
		return math.MaxInt
	}
	worst := 0
	for _, a := range s.agents {
		worst = max(worst, a.Pos().Range(p))
	}
	return worst
}

// Positioned is anything with a tile position.
type Positioned interface {
	Pos() grid.Pos
}

// InMinRange filters objs down to those some member of s can reach within
// rng tiles. The anchor pre-filter keeps the per-member check cheap.
func InMinRange[T Positioned](s *Swarm, objs []T, rng int) []T {
	initial := rng + max(s.width, s.height) - 1
	var out []T
	for _, o := range objs {
		p := o.Pos()
		if !s.anchor.InRange(p, initial) {
			continue
		}
		if s.MinRangeTo(p) <= rng {
			out = append(out, o)
		}
	}
	return out
}

// DirectionTo is the step direction from the swarm toward p, taken from the
// mean offset of all members in p's room. It reports false when no member
// shares the room or the mean offset rounds to zero.
func (s *Swarm) DirectionTo(p grid.Pos) (grid.Direction, bool) {
	var sumX, sumY, n int
	for _, a := range s.agents {
		ap := a.Pos()
		if ap.Room != p.Room {
			continue
		}
		sumX += p.X - ap.X
		sumY += p.Y - ap.Y
		n++
	}
	if n == 0 {
		return 0, false
	}
	dx := int(math.Round(float64(sumX) / float64(n)))
	dy := int(math.Round(float64(sumY) / float64(n)))
	return grid.DirectionFromDelta(dx, dy)
}
