package swarm

import (
	"errors"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// ErrNoRegroupPosition is returned by Regroup when no walkable placement for
// the formation exists within the search radius.
var ErrNoRegroupPosition = errors.New("swarm: no walkable regroup position")

type spin int

const (
	clockwise spin = iota
	counterclockwise
)

type mirror int

const (
	horizontal mirror = iota
	vertical
)

// Rotate turns the formation to face o. Only 2×2 formations can rotate.
// The orientation is recorded once the maneuver's moves are all accepted;
// agents that did move on a partial failure stay moved and the next tick's
// regroup puts them back.
func (s *Swarm) Rotate(o grid.Orientation) ResultCode {
	if s.width != 2 || s.height != 2 {
		s.logf("formation", "rotate_unsupported", 0, "rotation not implemented for %dx%d formations", s.width, s.height)
		return ResultNotImplemented
	}
	if s.fatigue > 0 {
		return ResultTired
	}
	prev := grid.RotationsFromOrientation(s.mem.Orientation)
	next := grid.RotationsFromOrientation(o)

	var result ResultCode
	switch next - prev {
	case 1, -3:
		result = s.pivot(clockwise)
	case -1, 3:
		result = s.pivot(counterclockwise)
	case 2, -2:
		if next%2 == 0 {
			result = s.swap(vertical)
		} else {
			result = s.swap(horizontal)
		}
	default:
		return ResultOK
	}
	s.logf("formation", "rotate", float64(result), "%s -> %s: %s", s.mem.Orientation, o, result)
	if result == ResultOK {
		s.SetOrientation(o)
	}
	return result
}

// quad returns the four cells of the current 2×2 view in scan order:
// front-left, front-right, back-left, back-right.
func (s *Swarm) quad() [4]Agent {
	f := s.formation
	return [4]Agent{f[0][0], f[0][1], f[1][0], f[1][1]}
}

// pivot turns the formation a quarter turn by moving every cell one step
// around the square.
func (s *Swarm) pivot(dir spin) ResultCode {
	if s.fatigue > 0 {
		return ResultTired
	}
	steps := [4]grid.Direction{grid.Right, grid.Bottom, grid.Top, grid.Left}
	if dir == counterclockwise {
		steps = [4]grid.Direction{grid.Bottom, grid.Left, grid.Right, grid.Top}
	}
	return s.exchange(steps)
}

// swap mirrors the formation: horizontal exchanges the columns, vertical the
// rows.
func (s *Swarm) swap(m mirror) ResultCode {
	if s.fatigue > 0 {
		return ResultTired
	}
	steps := [4]grid.Direction{grid.Right, grid.Left, grid.Right, grid.Left}
	if m == vertical {
		steps = [4]grid.Direction{grid.Bottom, grid.Bottom, grid.Top, grid.Top}
	}
	return s.exchange(steps)
}

// exchange issues one step per occupied cell and aggregates the results.
func (s *Swarm) exchange(steps [4]grid.Direction) ResultCode {
	cells := s.quad()
	var results [4]ResultCode
	var issued [4]bool
	for i, a := range cells {
		if a == nil {
			continue
		}
		results[i] = a.Move(steps[i])
		issued[i] = true
		s.debugf("move", "exchange", float64(results[i]), "%s %s: %s", a.Name(), steps[i], results[i])
	}
	return firstFailure(results[:], issued[:])
}

// Move steps every member one tile in direction d. If any member cannot
// move, every member's move this tick is cancelled and ResultNotAllOK is
// returned.
func (s *Swarm) Move(d grid.Direction) ResultCode {
	allMoved := true
	for _, a := range s.agents {
		r := a.Move(d)
		s.debugf("move", "step", float64(r), "%s %s: %s", a.Name(), d, r)
		if r != ResultOK {
			allMoved = false
		}
	}
	if !allMoved {
		for _, a := range s.agents {
			a.CancelMove()
		}
		s.logf("move", "cancelled", 0, "group move %s failed, orders cancelled", d)
		return ResultNotAllOK
	}
	return ResultOK
}

// GoTo moves the formation toward dest as one unit.
func (s *Swarm) GoTo(dest grid.Pos, opts MoveOptions) ResultCode {
	return s.planner.SwarmMove(s, dest, opts)
}

// GoToRoom moves the formation into room.
func (s *Swarm) GoToRoom(room string, opts MoveOptions) ResultCode {
	return s.planner.SwarmMoveToRoom(s, room, opts)
}

// CombatMove moves the formation toward approach goals while staying clear
// of avoid goals.
func (s *Swarm) CombatMove(approach, avoid []grid.Goal, opts CombatMoveOptions) ResultCode {
	return s.planner.SwarmCombatMove(s, approach, avoid, opts)
}

// Assemble gathers the swarm into formation with its anchor on point. It
// returns true once every slot is filled and every member is in place.
// With allowIdleCombat, members of an understrength swarm that see hostile
// players skirmish on their own instead of walking to their slot.
func (s *Swarm) Assemble(point grid.Pos, allowIdleCombat bool) bool {
	if s.IsInFormationAt(point) && s.HasMaxAgents() {
		s.mem.InitialAssembly = true
		return true
	}
	positions := s.FormationPositions(point)
	for _, a := range s.agents {
		if a.HasValidTask() {
			continue
		}
		if allowIdleCombat && !s.HasMaxAgents() && s.seesDangerousPlayers(a) {
			a.AutoSkirmish(a.Pos().Room)
			continue
		}
		dest := positions[a.Name()]
		r := a.GoTo(dest, MoveOptions{
			NoPush:                    a.Pos().InRange(dest, s.cfg.NoPushRange),
			IgnoreCreepsOnDestination: true,
		})
		s.debugf("move", "assemble", float64(r), "%s -> %s: %s", a.Name(), dest, r)
	}
	return false
}

func (s *Swarm) seesDangerousPlayers(a Agent) bool {
	r, ok := s.roomsByName[a.Pos().Room]
	return ok && len(r.DangerousPlayerHostiles()) > 0
}

// FindRegroupPosition searches rings of growing radius around the anchor for
// a tile where every slot of the formation is walkable. It returns
// grid.Unreachable and false when the search radius is exhausted.
func (s *Swarm) FindRegroupPosition() (grid.Pos, bool) {
	for radius := 0; radius < s.cfg.RegroupRadius; radius++ {
		for _, p := range grid.Ring(s.anchor, radius) {
			if s.footprintWalkable(p) {
				return p, true
			}
		}
	}
	return grid.Unreachable, false
}

func (s *Swarm) footprintWalkable(anchor grid.Pos) bool {
	for dy, row := range s.formation {
		for dx := range row {
			if !s.world.IsWalkable(anchor.Offset(dx, dy)) {
				return false
			}
		}
	}
	return true
}

// Regroup reassembles a swarm that broke formation at the nearest walkable
// placement. It returns true when the swarm is already in formation.
func (s *Swarm) Regroup() (bool, error) {
	if s.IsInFormation() {
		return true, nil
	}
	p, ok := s.FindRegroupPosition()
	if !ok {
		s.logf("formation", "regroup_unreachable", float64(s.cfg.RegroupRadius),
			"no walkable placement within %d of %s", s.cfg.RegroupRadius, s.anchor)
		return false, ErrNoRegroupPosition
	}
	s.logf("formation", "regroup", 0, "reassembling at %s", p)
	return s.Assemble(p, false), nil
}
