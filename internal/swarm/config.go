package swarm

// Config holds the tuning constants of the siege controller. Zero fields are
// replaced by their defaults, so partial YAML overrides are safe.
type Config struct {
	// Recovery hysteresis: retreat once any member drops below
	// RecoverThreshold of its max hits, re-engage once every member is back
	// at ReengageThreshold.
	RecoverThreshold  float64 `yaml:"recover_threshold" json:"recover_threshold"`
	ReengageThreshold float64 `yaml:"reengage_threshold" json:"reengage_threshold"`

	// Ticks a cached siege target stays valid.
	TargetTTL int `yaml:"target_ttl" json:"target_ttl"`

	// Rings searched around the anchor for a walkable regroup placement.
	RegroupRadius int `yaml:"regroup_radius" json:"regroup_radius"`
	// Assembling agents this close to their slot stop pushing others.
	NoPushRange int `yaml:"no_push_range" json:"no_push_range"`

	// Expiry: a swarm below strength is expired once a replacement spawned
	// now (CreepLifeTime + SpawnBuffer) would outlive the oldest member by
	// SwarmTickDifference or more. UnknownTTL stands in for agents that
	// are still spawning.
	CreepLifeTime       int `yaml:"creep_life_time" json:"creep_life_time"`
	SpawnBuffer         int `yaml:"spawn_buffer" json:"spawn_buffer"`
	SwarmTickDifference int `yaml:"swarm_tick_difference" json:"swarm_tick_difference"`
	UnknownTTL          int `yaml:"unknown_ttl" json:"unknown_ttl"`

	RetreatBias      int `yaml:"retreat_bias" json:"retreat_bias"`           // target bias added per retreat
	DangerWindow     int `yaml:"danger_window" json:"danger_window"`         // ticks a recent danger keeps the swarm leaving
	ClumpRange       int `yaml:"clump_range" json:"clump_range"`             // hostiles this close share a clump
	OrientationRange int `yaml:"orientation_range" json:"orientation_range"` // structures this close decide the facing
	ApproachRange    int `yaml:"approach_range" json:"approach_range"`       // range around each approach window tile
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		RecoverThreshold:    0.75,
		ReengageThreshold:   1.0,
		TargetTTL:           100,
		RegroupRadius:       10,
		NoPushRange:         5,
		CreepLifeTime:       1500,
		SpawnBuffer:         150 + 25,
		SwarmTickDifference: 500,
		UnknownTTL:          9999,
		RetreatBias:         10,
		DangerWindow:        3,
		ClumpRange:          4,
		OrientationRange:    1,
		ApproachRange:       1,
	}
}

// WithDefaults returns c with every zero field set to its default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.RecoverThreshold == 0 {
		c.RecoverThreshold = d.RecoverThreshold
	}
	if c.ReengageThreshold == 0 {
		c.ReengageThreshold = d.ReengageThreshold
	}
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.TargetTTL, d.TargetTTL)
	fill(&c.RegroupRadius, d.RegroupRadius)
	fill(&c.NoPushRange, d.NoPushRange)
	fill(&c.CreepLifeTime, d.CreepLifeTime)
	fill(&c.SpawnBuffer, d.SpawnBuffer)
	fill(&c.SwarmTickDifference, d.SwarmTickDifference)
	fill(&c.UnknownTTL, d.UnknownTTL)
	fill(&c.RetreatBias, d.RetreatBias)
	fill(&c.DangerWindow, d.DangerWindow)
	fill(&c.ClumpRange, d.ClumpRange)
	fill(&c.OrientationRange, d.OrientationRange)
	fill(&c.ApproachRange, d.ApproachRange)
	return c
}
