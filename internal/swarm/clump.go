package swarm

import (
	"slices"
	"sort"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// Clump is a group of hostiles close enough together to be treated as one
// enemy formation. Clumps carry no orientation and are never persisted.
type Clump struct {
	Members []Hostile
}

// Len is the number of hostiles in the clump.
func (c Clump) Len() int { return len(c.Members) }

// Centroid is the rounded mean position of the members.
func (c Clump) Centroid() grid.Pos {
	if len(c.Members) == 0 {
		return grid.Unreachable
	}
	var sx, sy int
	for _, h := range c.Members {
		p := h.Pos()
		sx += p.X
		sy += p.Y
	}
	n := len(c.Members)
	return grid.Pos{X: (sx + n/2) / n, Y: (sy + n/2) / n, Room: c.Members[0].Pos().Room}
}

// clumpOrigin is where clustering starts: the owner's first spawn, else the
// controller, else the room center.
func clumpOrigin(room Room) grid.Pos {
	if spawns := room.Spawns(); len(spawns) > 0 {
		return spawns[0].Pos()
	}
	if c, ok := room.Controller(); ok {
		return c.Pos()
	}
	return grid.Pos{X: 25, Y: 25, Room: room.Name()}
}

// FindEnemyClumps greedily partitions the hostiles in room: take the one
// nearest the origin, sweep every remaining hostile within clumpRange of it
// into its clump, and repeat until none remain.
func FindEnemyClumps(room Room, clumpRange int) []Clump {
	origin := clumpOrigin(room)
	remaining := slices.Clone(room.Hostiles())
	sort.SliceStable(remaining, func(i, j int) bool {
		return origin.Range(remaining[i].Pos()) < origin.Range(remaining[j].Pos())
	})

	var clumps []Clump
	for len(remaining) > 0 {
		seed := remaining[0].Pos()
		var members, rest []Hostile
		for _, h := range remaining {
			if seed.InRange(h.Pos(), clumpRange) {
				members = append(members, h)
			} else {
				rest = append(rest, h)
			}
		}
		clumps = append(clumps, Clump{Members: members})
		remaining = rest
	}
	return clumps
}
