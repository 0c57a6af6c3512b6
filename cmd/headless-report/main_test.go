package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/game"
	"github.com/Garsondee/Siege-Swarm/internal/simlog"
)

func entry(tick int, label, category, key, value string) simlog.Entry {
	return simlog.Entry{Tick: tick, Label: label, Category: category, Key: key, Value: value}
}

func TestCollectStats(t *testing.T) {
	entries := []simlog.Entry{
		entry(1, "alpha", "swarm", "assembled", "at E0N0(40,24)"),
		entry(2, "alpha", "siege", "phase", "regroup → travel"),
		entry(40, "alpha", "target", "acquired", "structure:x@E1N0(30,25) (bias 0)"),
		entry(41, "alpha", "siege", "phase", "travel → approach"),
		entry(55, "alpha", "recover", "retreat_start", "retreat #1"),
		entry(60, "alpha", "recover", "retreat_start", "retreat #2"),
		entry(70, "--", "creep", "died", "medic"),
		entry(90, "--", "structure", "destroyed", "spawn at E1N0(30,25)"),
		entry(91, "alpha", "siege", "objective_cleared", "E1N0"),
		entry(92, "bravo", "swarm", "wiped", "all members dead"),
	}

	rs := collectStats(entries)
	if rs.firstAssembledTick != 1 || rs.firstTravelTick != 2 || rs.firstTargetTick != 40 {
		t.Fatalf("markers = assembled %d travel %d target %d", rs.firstAssembledTick, rs.firstTravelTick, rs.firstTargetTick)
	}
	if rs.firstRetreatTick != 55 || rs.retreats != 2 {
		t.Fatalf("retreat first=%d count=%d, want 55 and 2", rs.firstRetreatTick, rs.retreats)
	}
	if rs.phaseChanges != 2 || rs.creepDeaths != 1 || rs.structuresDestroyed != 1 {
		t.Fatalf("counts phase=%d deaths=%d destroyed=%d", rs.phaseChanges, rs.creepDeaths, rs.structuresDestroyed)
	}
	if rs.clearedTick != 91 {
		t.Fatalf("cleared = %d, want 91", rs.clearedTick)
	}
	if _, ok := rs.wiped["bravo"]; !ok || len(rs.wiped) != 1 {
		t.Fatalf("wiped = %v", rs.wiped)
	}
}

func TestPrintAggregate(t *testing.T) {
	all := []runStats{
		{
			clearedTick: 100, firstAssembledTick: 1, firstTargetTick: -1, firstRetreatTick: -1,
			outcomes: []game.SiegeOutcomeReason{{Ref: "alpha", Outcome: game.OutcomeCleared}},
		},
		{
			clearedTick: -1, firstAssembledTick: 3, firstTargetTick: -1, firstRetreatTick: 20, retreats: 2,
			outcomes: []game.SiegeOutcomeReason{{Ref: "alpha", Outcome: game.OutcomeTimeout}},
		},
	}
	var buf bytes.Buffer
	printAggregate(&buf, all)
	out := buf.String()
	for _, want := range []string{
		"runs=2",
		"retreat=1.0",
		"assembled=2.0",
		"first_target=n/a",
		"cleared=100.0",
		"outcomes: cleared=1 timeout=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("aggregate missing %q:\n%s", want, out)
		}
	}
}

func TestRunScenario_Builtin(t *testing.T) {
	sc, err := game.LoadScenario("breach")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rs, err := runScenario(sc, 1, 7, 20)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rs.firstAssembledTick != 1 {
		t.Fatalf("assembled at %d, want 1", rs.firstAssembledTick)
	}
	if rs.ticks != 20 {
		t.Fatalf("ran %d ticks, want 20", rs.ticks)
	}
	if len(rs.outcomes) != 1 || rs.outcomes[0].Outcome != game.OutcomeTimeout {
		t.Fatalf("outcomes = %v, want one timeout", rs.outcomes)
	}
}
