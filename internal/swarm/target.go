package swarm

import "github.com/Garsondee/Siege-Swarm/internal/grid"

// TargetKind tags the variant held by a Target.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetCreep
	TargetStructure
)

func (k TargetKind) String() string {
	switch k {
	case TargetCreep:
		return "creep"
	case TargetStructure:
		return "structure"
	default:
		return "none"
	}
}

// Target is either a hostile creep or a structure. The zero value is empty.
type Target struct {
	kind      TargetKind
	creep     Hostile
	structure Structure
}

// CreepTarget wraps a hostile creep.
func CreepTarget(h Hostile) Target {
	return Target{kind: TargetCreep, creep: h}
}

// StructureTarget wraps a structure.
func StructureTarget(s Structure) Target {
	return Target{kind: TargetStructure, structure: s}
}

func (t Target) Kind() TargetKind { return t.kind }

// Empty reports whether t holds nothing.
func (t Target) Empty() bool { return t.kind == TargetNone }

// Creep returns the creep variant.
func (t Target) Creep() (Hostile, bool) {
	return t.creep, t.kind == TargetCreep
}

// Structure returns the structure variant.
func (t Target) Structure() (Structure, bool) {
	return t.structure, t.kind == TargetStructure
}

func (t Target) ID() string {
	switch t.kind {
	case TargetCreep:
		return t.creep.ID()
	case TargetStructure:
		return t.structure.ID()
	}
	return ""
}

func (t Target) Pos() grid.Pos {
	switch t.kind {
	case TargetCreep:
		return t.creep.Pos()
	case TargetStructure:
		return t.structure.Pos()
	}
	return grid.Unreachable
}

// Owner returns the owning player, "" for neutral objects.
func (t Target) Owner() string {
	switch t.kind {
	case TargetCreep:
		return t.creep.Owner()
	case TargetStructure:
		return t.structure.Owner()
	}
	return ""
}

// IsDamageable reports whether attacks can reduce t's hits. Controllers
// and structures without hit points are not.
func (t Target) IsDamageable() bool {
	switch t.kind {
	case TargetCreep:
		return true
	case TargetStructure:
		return t.structure.Kind() != StructureController && t.structure.HitsMax() > 0
	}
	return false
}

func (t Target) String() string {
	if t.Empty() {
		return "none"
	}
	return t.kind.String() + ":" + t.ID() + "@" + t.Pos().String()
}
