package game

import (
	"math"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// allDirections in clockwise order from Top.
var allDirections = []grid.Direction{
	grid.Top, grid.TopRight, grid.Right, grid.BottomRight,
	grid.Bottom, grid.BottomLeft, grid.Left, grid.TopLeft,
}

// Planner moves whole formations one greedy step at a time. A step is only
// taken when every member's next tile is walkable and free of outsiders.
type Planner struct {
	world *World
}

// NewPlanner returns a planner over w.
func NewPlanner(w *World) *Planner {
	return &Planner{world: w}
}

// SwarmMove steps the formation so its anchor closes on dest.
func (p *Planner) SwarmMove(s *swarm.Swarm, dest grid.Pos, opts swarm.MoveOptions) swarm.ResultCode {
	if Distance(s.Anchor(), dest) <= opts.Range {
		return swarm.ResultNoAction
	}
	return p.stepBest(s, opts.IgnoreCreeps, func(anchor grid.Pos) float64 {
		return rangeCost(anchor, dest)
	})
}

// SwarmMoveToRoom steps the formation into room until every member is off
// its exits.
func (p *Planner) SwarmMoveToRoom(s *swarm.Swarm, room string, opts swarm.MoveOptions) swarm.ResultCode {
	if s.SafelyInRoom(room) {
		return swarm.ResultNoAction
	}
	center := grid.Pos{X: grid.RoomSize / 2, Y: grid.RoomSize / 2, Room: room}
	return p.stepBest(s, opts.IgnoreCreeps, func(anchor grid.Pos) float64 {
		return rangeCost(anchor, center)
	})
}

// SwarmCombatMove flees while any member is inside an avoid goal, otherwise
// closes on the nearest approach goal without entering an avoid goal.
func (p *Planner) SwarmCombatMove(s *swarm.Swarm, approach, avoid []grid.Goal, _ swarm.CombatMoveOptions) swarm.ResultCode {
	members := s.Agents()
	if intrusion(positionsOf(members), avoid) > 0 {
		return p.flee(s, avoid)
	}
	if len(approach) == 0 || goalGap(s.Anchor(), approach) <= 0 {
		return swarm.ResultNoAction
	}
	return p.stepBest(s, false, func(anchor grid.Pos) float64 {
		return float64(goalGap(anchor, approach)) + tieBreak(anchor, nearestGoal(anchor, approach))
	}, func(next []grid.Pos) bool {
		return intrusion(next, avoid) == 0
	})
}

// flee takes the step that most reduces how deep the formation sits inside
// the avoid goals. It reports ResultNoAction when no step helps, so the
// caller may fall back to leaving the room.
func (p *Planner) flee(s *swarm.Swarm, avoid []grid.Goal) swarm.ResultCode {
	if s.Fatigue() > 0 {
		return swarm.ResultTired
	}
	current := intrusion(positionsOf(s.Agents()), avoid)
	best, bestScore := grid.Direction(0), current
	for _, d := range allDirections {
		next, ok := p.footprint(s, d, false)
		if !ok {
			continue
		}
		if score := intrusion(next, avoid); score < bestScore {
			best, bestScore = d, score
		}
	}
	if best == 0 {
		return swarm.ResultNoAction
	}
	return s.Move(best)
}

// stepBest moves the formation one tile in the direction that most lowers
// cost(anchor), subject to every accept filter. It reports ResultNoPath when
// no direction improves on standing still.
func (p *Planner) stepBest(s *swarm.Swarm, ignoreCreeps bool, cost func(grid.Pos) float64, accept ...func([]grid.Pos) bool) swarm.ResultCode {
	if s.Fatigue() > 0 {
		return swarm.ResultTired
	}
	anchor := s.Anchor()
	best, bestCost := grid.Direction(0), cost(anchor)
next:
	for _, d := range allDirections {
		members, ok := p.footprint(s, d, ignoreCreeps)
		if !ok {
			continue
		}
		for _, f := range accept {
			if !f(members) {
				continue next
			}
		}
		moved, ok := p.world.Step(anchor, d)
		if !ok {
			moved = anchor.Step(d)
		}
		if c := cost(moved); c < bestCost {
			best, bestCost = d, c
		}
	}
	if best == 0 {
		return swarm.ResultNoPath
	}
	return s.Move(best)
}

// footprint returns every member's tile after a step in d, or false when any
// member would be blocked by terrain, a structure, a hostile or a creep
// outside the swarm.
func (p *Planner) footprint(s *swarm.Swarm, d grid.Direction, ignoreCreeps bool) ([]grid.Pos, bool) {
	agents := s.Agents()
	inSwarm := make(map[string]bool, len(agents))
	for _, a := range agents {
		inSwarm[a.Name()] = true
	}
	out := make([]grid.Pos, 0, len(agents))
	for _, a := range agents {
		next, ok := p.world.Step(a.Pos(), d)
		if !ok || !p.world.IsWalkable(next) || p.world.hostileAt(next) != nil {
			return nil, false
		}
		if !ignoreCreeps {
			if occ := p.world.creepAt(next); occ != nil && !inSwarm[occ.name] {
				return nil, false
			}
		}
		out = append(out, next)
	}
	return out, true
}

func positionsOf(agents []swarm.Agent) []grid.Pos {
	out := make([]grid.Pos, len(agents))
	for i, a := range agents {
		out[i] = a.Pos()
	}
	return out
}

// intrusion sums how far each position sits inside each avoid goal.
func intrusion(positions []grid.Pos, avoid []grid.Goal) int {
	total := 0
	for _, p := range positions {
		for _, g := range avoid {
			if g.Pos.Room != p.Room {
				continue
			}
			if d := Distance(p, g.Pos); d <= g.Range {
				total += g.Range - d + 1
			}
		}
	}
	return total
}

// rangeCost is the range from a to b, with ties broken toward the straighter
// line.
func rangeCost(a, b grid.Pos) float64 {
	return float64(Distance(a, b)) + tieBreak(a, b)
}

// tieBreak is a fraction of a tile that grows with the Manhattan distance.
func tieBreak(a, b grid.Pos) float64 {
	return float64(abs(globalX(a)-globalX(b))+abs(a.Y-b.Y)) / 1000
}

func nearestGoal(p grid.Pos, goals []grid.Goal) grid.Pos {
	best := goals[0].Pos
	for _, g := range goals[1:] {
		if Distance(p, g.Pos) < Distance(p, best) {
			best = g.Pos
		}
	}
	return best
}

// goalGap is how many tiles p lies outside the nearest goal.
func goalGap(p grid.Pos, goals []grid.Goal) int {
	gap := math.MaxInt
	for _, g := range goals {
		gap = min(gap, max(0, Distance(p, g.Pos)-g.Range))
	}
	return gap
}
