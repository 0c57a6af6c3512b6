package swarm

import (
	"fmt"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// Part is a body part type. Active part counts decide which combat routines
// a member runs and where it sits in the formation.
type Part int

const (
	PartMove Part = iota
	PartWork
	PartAttack
	PartRangedAttack
	PartHeal
	PartTough
	PartCarry
)

func (p Part) String() string {
	switch p {
	case PartMove:
		return "move"
	case PartWork:
		return "work"
	case PartAttack:
		return "attack"
	case PartRangedAttack:
		return "ranged_attack"
	case PartHeal:
		return "heal"
	case PartTough:
		return "tough"
	case PartCarry:
		return "carry"
	default:
		return "unknown"
	}
}

// ParsePart maps a body part name, as printed by Part.String, back to its
// Part.
func ParsePart(name string) (Part, error) {
	for p := PartMove; p <= PartCarry; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("swarm: unknown body part %q", name)
}

// Agent is a swarm member as seen by the controller. Agents are owned by the
// simulation; the swarm only holds references for the current tick.
type Agent interface {
	Name() string
	Pos() grid.Pos
	Hits() int
	HitsMax() int
	Fatigue() int
	// TicksToLive is the remaining lifespan, 0 when unknown (still spawning).
	TicksToLive() int
	ActiveParts(p Part) int
	// HasValidTask reports a non-combat task in progress (e.g. being boosted).
	HasValidTask() bool

	Move(d grid.Direction) ResultCode
	CancelMove()
	GoTo(dest grid.Pos, opts MoveOptions) ResultCode
	SafelyInRoom(room string) bool

	AutoMelee()
	AutoRanged()
	AutoHeal(allowRanged bool)
	AutoSkirmish(room string)
}

// Hostile is an enemy agent.
type Hostile interface {
	ID() string
	Pos() grid.Pos
	Owner() string
	Hits() int
	HitsMax() int
}

// StructureKind names a structure type.
type StructureKind string

const (
	StructureSpawn      StructureKind = "spawn"
	StructureTower      StructureKind = "tower"
	StructureWall       StructureKind = "wall"
	StructureRampart    StructureKind = "rampart"
	StructureExtension  StructureKind = "extension"
	StructureController StructureKind = "controller"
	StructureStorage    StructureKind = "storage"
)

// Structure is a building in the world.
type Structure interface {
	ID() string
	Pos() grid.Pos
	Kind() StructureKind
	Owner() string
	Hits() int
	HitsMax() int
}

// Room is a visible room.
type Room interface {
	Name() string
	// Owner is the controller owner, "" for unowned rooms.
	Owner() string
	My() bool
	Hostiles() []Hostile
	DangerousPlayerHostiles() []Hostile
	HostileStructures() []Structure
	// Towers lists towers belonging to the room owner.
	Towers() []Structure
	// Spawns lists spawns belonging to the room owner.
	Spawns() []Structure
	Controller() (Structure, bool)
}

// World answers object and terrain queries.
type World interface {
	Time() int
	// Resolve looks an object up by identifier; false once it no longer exists.
	Resolve(id string) (Target, bool)
	// Room returns a room only if it is currently visible.
	Room(name string) (Room, bool)
	IsWalkable(p grid.Pos) bool
}

// MoveOptions tunes a path request.
type MoveOptions struct {
	Range                     int  // stop this many tiles short of the destination
	IgnoreCreeps              bool // path through creeps
	IgnoreCreepsOnDestination bool // accept a destination currently occupied by a creep
	NoPush                    bool // never shove other agents out of the way
	ReusePath                 int  // ticks a cached path stays valid
	MaxOps                    int  // search budget
}

// CombatMoveOptions tunes a combat move.
type CombatMoveOptions struct {
	AllowExit          bool // may leave the room to satisfy avoid goals
	AvoidPenalty       int  // extra cost near avoid goals
	ApproachBonus      int  // cost reduction near approach goals
	BlockHostileCreeps bool
}

// Planner moves a whole formation as one unit. Every call returns
// ResultNoAction when the swarm already satisfies the goal.
type Planner interface {
	SwarmMove(s *Swarm, dest grid.Pos, opts MoveOptions) ResultCode
	SwarmMoveToRoom(s *Swarm, room string, opts MoveOptions) ResultCode
	SwarmCombatMove(s *Swarm, approach, avoid []grid.Goal, opts CombatMoveOptions) ResultCode
}

// Targeting picks siege targets and retreat goals.
type Targeting interface {
	// BestSwarmStructureTarget picks what the swarm should break next in
	// room. biasPenalty grows with every retreat and widens the search away
	// from targets that previously cost the swarm.
	BestSwarmStructureTarget(s *Swarm, room string, biasPenalty int) (Target, bool)
	// RetreatGoals returns the goals a retreating swarm must stay away from.
	RetreatGoals(room Room) []grid.Goal
}

// Overseer is the coordinator that owns a swarm.
type Overseer interface {
	Pos() grid.Pos
}
