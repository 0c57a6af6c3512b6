package swarm

import (
	"slices"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

// TargetRef is a cached target identifier with the tick it expires at.
type TargetRef struct {
	ID  string `yaml:"id" json:"id"`
	Exp int    `yaml:"exp" json:"exp"`
}

// Memory is the durable per-swarm record that survives between ticks. A
// Swarm works on its own copy; the coordinator writes it back with
// MemoryStore.Save once the tick's decisions are made.
type Memory struct {
	Creeps          []string         `yaml:"creeps" json:"creeps"`
	Orientation     grid.Orientation `yaml:"orientation" json:"orientation"`
	Target          *TargetRef       `yaml:"target,omitempty" json:"target,omitempty"`
	NumRetreats     int              `yaml:"num_retreats" json:"num_retreats"`
	InitialAssembly bool             `yaml:"initial_assembly" json:"initial_assembly"`
	Recovering      bool             `yaml:"recovering" json:"recovering"`
	LastInDanger    int              `yaml:"last_in_danger" json:"last_in_danger"`
}

// clone returns a deep copy so a swarm never aliases the stored record.
func (m Memory) clone() Memory {
	out := m
	out.Creeps = slices.Clone(m.Creeps)
	if m.Target != nil {
		t := *m.Target
		out.Target = &t
	}
	return out
}

// MemoryStore keeps swarm records keyed under their owner's storage.
type MemoryStore struct {
	records map[string]Memory
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Memory)}
}

// Key is the storage key a swarm ref is filed under.
func Key(ref string) string {
	return "swarm:" + ref
}

// Load returns the record for ref, or the defaults (Top orientation, no
// members, no retreats) when none has been saved.
func (ms *MemoryStore) Load(ref string) Memory {
	m, ok := ms.records[Key(ref)]
	if !ok {
		return Memory{Creeps: []string{}, Orientation: grid.OrientTop}
	}
	return m.clone()
}

// Save writes the record for ref.
func (ms *MemoryStore) Save(ref string, m Memory) {
	ms.records[Key(ref)] = m.clone()
}

// Delete drops the record for ref.
func (ms *MemoryStore) Delete(ref string) {
	delete(ms.records, Key(ref))
}

// Refs lists the stored swarm refs in sorted order.
func (ms *MemoryStore) Refs() []string {
	out := make([]string, 0, len(ms.records))
	for k := range ms.records {
		out = append(out, k[len("swarm:"):])
	}
	slices.Sort(out)
	return out
}
