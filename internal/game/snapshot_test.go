package game

import (
	"encoding/json"
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

func TestSnapshot(t *testing.T) {
	ts := newRaid(t,
		WithStructure(swarm.StructureSpawn, "E1N0", 30, 25, "enemy", 1000),
		WithHostile("E1N0", 10, 10, "enemy", 100, 10),
		WithHostile("E1N0", 12, 10, "enemy", 100, 10),
		WithHostile("E1N0", 40, 40, "enemy", 100, 10),
	)
	ts.RunTicks(2)

	snap := ts.Snapshot()
	if snap.Tick != 2 {
		t.Fatalf("tick = %d, want 2", snap.Tick)
	}
	if len(snap.Rooms) != 2 || snap.Rooms[1].Name != "E1N0" {
		t.Fatalf("rooms = %+v", snap.Rooms)
	}
	enemy := snap.Rooms[1]
	if len(enemy.Structures) != 1 || enemy.Structures[0].Kind != "spawn" {
		t.Fatalf("structures = %+v", enemy.Structures)
	}
	if len(enemy.Hostiles) != 3 {
		t.Fatalf("hostiles = %d, want 3", len(enemy.Hostiles))
	}
	sizes := map[int]int{}
	for _, c := range enemy.Clumps {
		sizes[c.Size]++
	}
	if len(enemy.Clumps) != 2 || sizes[2] != 1 || sizes[1] != 1 {
		t.Fatalf("clumps = %+v, want one pair and one loner", enemy.Clumps)
	}
	if len(snap.Creeps) != 4 {
		t.Fatalf("creeps = %d, want 4", len(snap.Creeps))
	}
	if len(snap.Swarms) != 1 || snap.Swarms[0].Phase != swarm.PhaseTravel.String() {
		t.Fatalf("swarms = %+v", snap.Swarms)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Swarms[0].Memory.Orientation != snap.Swarms[0].Memory.Orientation {
		t.Fatalf("orientation lost in JSON: %s", data)
	}
}
