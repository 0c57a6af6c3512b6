package game

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

//go:embed scenarios/*.yaml
var builtinScenarios embed.FS

// Scenario is a YAML siege setup: a row of rooms, their defences, the
// attacking creeps and the swarms they form.
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Seed        int64           `yaml:"seed"`
	Ticks       int             `yaml:"ticks"`
	Config      *swarm.Config   `yaml:"config"`
	Rooms       []ScenarioRoom  `yaml:"rooms"`
	Creeps      []ScenarioCreep `yaml:"creeps"`
	Swarms      []ScenarioSwarm `yaml:"swarms"`
}

// ScenarioRoom describes one room. Rects are [x, y, w, h].
type ScenarioRoom struct {
	Name       string              `yaml:"name"`
	Owner      string              `yaml:"owner"`
	Walls      [][4]int            `yaml:"walls"`
	Swamps     [][4]int            `yaml:"swamps"`
	Structures []ScenarioStructure `yaml:"structures"`
	Towers     []ScenarioTower     `yaml:"towers"`
	Hostiles   []ScenarioHostile   `yaml:"hostiles"`
}

// ScenarioStructure places a structure. Owner defaults to the room owner.
type ScenarioStructure struct {
	Kind  string `yaml:"kind"`
	Pos   [2]int `yaml:"pos"`
	Owner string `yaml:"owner"`
	Hits  int    `yaml:"hits"`
}

type ScenarioTower struct {
	Pos   [2]int `yaml:"pos"`
	Owner string `yaml:"owner"`
	Hits  int    `yaml:"hits"`
	Power int    `yaml:"power"`
}

type ScenarioHostile struct {
	Pos    [2]int `yaml:"pos"`
	Owner  string `yaml:"owner"`
	Hits   int    `yaml:"hits"`
	Attack int    `yaml:"attack"`
}

// ScenarioCreep is an attacking creep. Body tokens are part names with an
// optional repeat count, e.g. "attack*4".
type ScenarioCreep struct {
	Name string   `yaml:"name"`
	Room string   `yaml:"room"`
	Pos  [2]int   `yaml:"pos"`
	TTL  int      `yaml:"ttl"`
	Body []string `yaml:"body"`
}

type ScenarioSwarm struct {
	Ref       string `yaml:"ref"`
	Objective string `yaml:"objective"`
	Rally     struct {
		Room string `yaml:"room"`
		Pos  [2]int `yaml:"pos"`
	} `yaml:"rally"`
	Creeps []string `yaml:"creeps"`
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("game: parse scenario: %w", err)
	}
	if len(sc.Rooms) == 0 {
		return nil, fmt.Errorf("game: scenario %q has no rooms", sc.Name)
	}
	if len(sc.Swarms) == 0 {
		return nil, fmt.Errorf("game: scenario %q has no swarms", sc.Name)
	}
	for _, r := range sc.Rooms {
		for _, s := range r.Structures {
			if !knownKind(s.Kind) {
				return nil, fmt.Errorf("game: scenario %q: room %s: unknown structure kind %q", sc.Name, r.Name, s.Kind)
			}
		}
	}
	for _, c := range sc.Creeps {
		if _, err := ParseBody(c.Body); err != nil {
			return nil, fmt.Errorf("game: scenario %q: creep %s: %w", sc.Name, c.Name, err)
		}
	}
	return &sc, nil
}

// LoadScenario reads a scenario from a YAML file, or a built-in scenario when
// name has no .yaml/.yml suffix.
func LoadScenario(name string) (*Scenario, error) {
	if ext := path.Ext(name); ext != ".yaml" && ext != ".yml" {
		return BuiltinScenario(name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("game: load scenario: %w", err)
	}
	return ParseScenario(data)
}

// BuiltinScenario returns one of the scenarios shipped with the binary.
func BuiltinScenario(name string) (*Scenario, error) {
	data, err := builtinScenarios.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("game: unknown scenario %q (have %s)", name, strings.Join(BuiltinScenarioNames(), ", "))
	}
	return ParseScenario(data)
}

// BuiltinScenarioNames lists the shipped scenarios.
func BuiltinScenarioNames() []string {
	matches, _ := fs.Glob(builtinScenarios, "scenarios/*.yaml")
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(path.Base(m), ".yaml")
	}
	return names
}

// ParseBody expands body tokens such as "attack*4" into parts.
func ParseBody(tokens []string) ([]swarm.Part, error) {
	var body []swarm.Part
	for _, tok := range tokens {
		name, count := tok, 1
		if i := strings.IndexByte(tok, '*'); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(tok[i+1:]))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad part count in %q", tok)
			}
			name, count = tok[:i], n
		}
		p, err := swarm.ParsePart(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		for j := 0; j < count; j++ {
			body = append(body, p)
		}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return body, nil
}

func knownKind(kind string) bool {
	switch swarm.StructureKind(kind) {
	case swarm.StructureSpawn, swarm.StructureTower, swarm.StructureWall, swarm.StructureRampart,
		swarm.StructureExtension, swarm.StructureController, swarm.StructureStorage:
		return true
	}
	return false
}

// Options turns the scenario into SiegeSim options. Options appended after
// these override the scenario's seed and config.
func (sc *Scenario) Options() []SimOption {
	var opts []SimOption
	if sc.Seed != 0 {
		opts = append(opts, WithSeed(sc.Seed))
	}
	if sc.Config != nil {
		opts = append(opts, WithConfig(*sc.Config))
	}
	for _, r := range sc.Rooms {
		opts = append(opts, WithRoom(r.Name, r.Owner))
		for _, w := range r.Walls {
			opts = append(opts, WithWall(r.Name, w[0], w[1], w[2], w[3]))
		}
		for _, sw := range r.Swamps {
			opts = append(opts, WithSwamp(r.Name, sw[0], sw[1], sw[2], sw[3]))
		}
		for _, s := range r.Structures {
			opts = append(opts, WithStructure(swarm.StructureKind(s.Kind), r.Name, s.Pos[0], s.Pos[1], ownerOr(s.Owner, r.Owner), s.Hits))
		}
		for _, t := range r.Towers {
			opts = append(opts, WithTower(r.Name, t.Pos[0], t.Pos[1], ownerOr(t.Owner, r.Owner), t.Hits, t.Power))
		}
		for _, h := range r.Hostiles {
			opts = append(opts, WithHostile(r.Name, h.Pos[0], h.Pos[1], ownerOr(h.Owner, r.Owner), h.Hits, h.Attack))
		}
	}
	for _, c := range sc.Creeps {
		body, _ := ParseBody(c.Body) // validated by ParseScenario
		opts = append(opts, WithCreep(c.Name, c.Room, c.Pos[0], c.Pos[1], c.TTL, body...))
	}
	for _, s := range sc.Swarms {
		rally := grid.Pos{X: s.Rally.Pos[0], Y: s.Rally.Pos[1], Room: s.Rally.Room}
		opts = append(opts, WithSwarm(s.Ref, s.Objective, rally, s.Creeps...))
	}
	return opts
}

func ownerOr(owner, fallback string) string {
	if owner != "" {
		return owner
	}
	return fallback
}
