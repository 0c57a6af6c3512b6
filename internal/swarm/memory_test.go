package swarm

import (
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	fresh := ms.Load("alpha")
	if fresh.Creeps == nil || len(fresh.Creeps) != 0 || fresh.Orientation != grid.OrientTop {
		t.Fatalf("default memory = %+v", fresh)
	}

	m := Memory{Creeps: []string{"a", "b"}, Target: &TargetRef{ID: "w1", Exp: 10}, NumRetreats: 3}
	ms.Save("bravo", m)
	ms.Save("alpha", Memory{})
	m.Creeps[0] = "mutated"
	m.Target.ID = "mutated"

	got := ms.Load("bravo")
	if got.Creeps[0] != "a" || got.Target.ID != "w1" || got.NumRetreats != 3 {
		t.Fatalf("stored memory aliased the caller's: %+v", got)
	}
	if refs := ms.Refs(); len(refs) != 2 || refs[0] != "alpha" || refs[1] != "bravo" {
		t.Fatalf("Refs = %v", refs)
	}
	ms.Delete("bravo")
	if refs := ms.Refs(); len(refs) != 1 {
		t.Fatalf("Refs after delete = %v", refs)
	}
	if Key("alpha") != "swarm:alpha" {
		t.Fatalf("Key = %q", Key("alpha"))
	}
}
