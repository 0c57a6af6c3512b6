package game

import (
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// Snapshot is a JSON view of the siege at one tick, streamed to spectators.
type Snapshot struct {
	Tick   int             `json:"tick"`
	Rooms  []RoomSnapshot  `json:"rooms"`
	Creeps []CreepSnapshot `json:"creeps"`
	Swarms []SwarmSnapshot `json:"swarms"`
}

type RoomSnapshot struct {
	Name       string              `json:"name"`
	Owner      string              `json:"owner,omitempty"`
	Structures []StructureSnapshot `json:"structures,omitempty"`
	Hostiles   []HostileSnapshot   `json:"hostiles,omitempty"`
	Clumps     []ClumpSnapshot     `json:"clumps,omitempty"`
}

// ClumpSnapshot is a group of hostiles close enough to fight together.
type ClumpSnapshot struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Size int `json:"size"`
}

type StructureSnapshot struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Owner   string `json:"owner,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Hits    int    `json:"hits"`
	HitsMax int    `json:"hits_max"`
}

type HostileSnapshot struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Hits   int    `json:"hits"`
	Attack int    `json:"attack"`
}

type CreepSnapshot struct {
	Name    string `json:"name"`
	Room    string `json:"room"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Hits    int    `json:"hits"`
	HitsMax int    `json:"hits_max"`
	Fatigue int    `json:"fatigue"`
	TTL     int    `json:"ttl"`
}

type SwarmSnapshot struct {
	Ref         string       `json:"ref"`
	Phase       string       `json:"phase"`
	Result      string       `json:"result"`
	Wiped       bool         `json:"wiped"`
	Cleared     bool         `json:"cleared"`
	Memory      swarm.Memory `json:"memory"`
	Orientation string       `json:"orientation"`
}

// clumps groups the hostile creeps of room by the configured clump range.
func (ts *SiegeSim) clumps(room string) []swarm.Clump {
	r, ok := ts.World.Room(room)
	if !ok {
		return nil
	}
	return swarm.FindEnemyClumps(r, ts.Config.ClumpRange)
}

// Snapshot captures the current state of the world and every swarm.
func (ts *SiegeSim) Snapshot() Snapshot {
	snap := Snapshot{Tick: ts.CurrentTick()}
	for _, r := range ts.World.Rooms() {
		rs := RoomSnapshot{Name: r.name, Owner: r.owner}
		for _, s := range r.Structures() {
			rs.Structures = append(rs.Structures, StructureSnapshot{
				ID: s.id, Kind: string(s.kind), Owner: s.owner,
				X: s.pos.X, Y: s.pos.Y, Hits: s.hits, HitsMax: s.hitsMax,
			})
		}
		for _, h := range r.hostiles {
			if h.Dead() {
				continue
			}
			rs.Hostiles = append(rs.Hostiles, HostileSnapshot{
				ID: h.id, Owner: h.owner, X: h.pos.X, Y: h.pos.Y, Hits: h.hits, Attack: h.attack,
			})
		}
		for _, c := range ts.clumps(r.name) {
			centroid := c.Centroid()
			rs.Clumps = append(rs.Clumps, ClumpSnapshot{X: centroid.X, Y: centroid.Y, Size: c.Len()})
		}
		snap.Rooms = append(snap.Rooms, rs)
	}
	for _, c := range ts.World.Creeps() {
		snap.Creeps = append(snap.Creeps, CreepSnapshot{
			Name: c.name, Room: c.pos.Room, X: c.pos.X, Y: c.pos.Y,
			Hits: c.hits, HitsMax: c.hitsMax, Fatigue: c.fatigue, TTL: c.ttl,
		})
	}
	for _, sq := range ts.squads {
		mem := ts.Store.Load(sq.ref)
		ss := SwarmSnapshot{
			Ref:         sq.ref,
			Phase:       "--",
			Result:      "--",
			Wiped:       sq.wiped,
			Cleared:     sq.cleared,
			Memory:      mem,
			Orientation: mem.Orientation.String(),
		}
		if step, ok := ts.last[sq.ref]; ok {
			ss.Phase = step.Phase.String()
			ss.Result = step.Result.String()
		}
		snap.Swarms = append(snap.Swarms, ss)
	}
	return snap
}
