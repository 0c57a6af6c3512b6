package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Siege-Swarm/internal/game"
	"github.com/Garsondee/Siege-Swarm/internal/simlog"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstAssembledTick int
	firstTravelTick    int
	firstTargetTick    int
	firstRetreatTick   int
	firstDeathTick     int
	clearedTick        int

	phaseChanges        int
	targetsAcquired     int
	reorients           int
	regroups            int
	retreats            int
	creepDeaths         int
	structuresDestroyed int
	hostilesKilled      int
	siegeErrors         int

	wiped   map[string]struct{}
	expired map[string]struct{}

	outcomes []game.SiegeOutcomeReason
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var copyOut bool
	var list bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 0, "ticks per run (0 uses the scenario's own)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "breach", "builtin scenario name or path to a .yaml file")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&list, "list", false, "list builtin scenarios and exit")
	flag.Parse()

	if list {
		for _, name := range game.BuiltinScenarioNames() {
			fmt.Println(name)
		}
		return
	}
	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}

	sc, err := game.LoadScenario(scenario)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if ticks <= 0 {
		ticks = sc.Ticks
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}

	var out io.Writer = os.Stdout
	var buf strings.Builder
	if copyOut {
		out = io.MultiWriter(os.Stdout, &buf)
	}

	fmt.Fprintf(out, "=== Headless Siege Report ===\n")
	fmt.Fprintf(out, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", sc.Name, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(sc, i+1, seed, ticks)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		all = append(all, stats)
		printRun(out, stats)
	}
	printAggregate(out, all)

	if copyOut {
		if err := game.CopyToClipboard(buf.String()); err != nil {
			fmt.Printf("clipboard: %v\n", err)
		}
	}
}

func runScenario(sc *game.Scenario, runIndex int, seed int64, ticks int) (runStats, error) {
	opts := append(sc.Options(), game.WithSeed(seed))
	ts := game.NewSiegeSim(opts...)
	if err := ts.Err(); err != nil {
		return runStats{}, err
	}
	ts.RunUntil(func(s *game.SiegeSim) bool {
		for _, ref := range s.Refs() {
			if !s.ObjectiveCleared(ref) && !s.Wiped(ref) {
				return false
			}
		}
		return true
	}, ticks)

	rs := collectStats(ts.SimLog.Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.ticks = ts.CurrentTick()
	for _, ref := range ts.Refs() {
		rs.outcomes = append(rs.outcomes, ts.DetermineSiegeOutcome(ref, ticks))
	}
	return rs, nil
}

// collectStats reduces a run's log to the figures the report prints.
func collectStats(entries []simlog.Entry) runStats {
	rs := runStats{
		firstAssembledTick: firstTick(entries, "swarm", "assembled", ""),
		firstTravelTick:    firstTick(entries, "siege", "phase", "travel"),
		firstTargetTick:    firstTick(entries, "target", "acquired", ""),
		firstRetreatTick:   firstTick(entries, "recover", "retreat_start", ""),
		firstDeathTick:     firstTick(entries, "creep", "died", ""),
		clearedTick:        firstTick(entries, "siege", "objective_cleared", ""),
		wiped:              map[string]struct{}{},
		expired:            map[string]struct{}{},
	}
	for _, e := range entries {
		switch e.Category + "/" + e.Key {
		case "siege/phase":
			rs.phaseChanges++
		case "siege/error":
			rs.siegeErrors++
		case "target/acquired":
			rs.targetsAcquired++
		case "formation/reorient":
			rs.reorients++
		case "formation/regroup":
			rs.regroups++
		case "recover/retreat_start":
			rs.retreats++
		case "creep/died":
			rs.creepDeaths++
		case "structure/destroyed":
			rs.structuresDestroyed++
		case "hostile/killed":
			rs.hostilesKilled++
		case "swarm/wiped":
			rs.wiped[e.Label] = struct{}{}
		case "swarm/expired":
			rs.expired[e.Label] = struct{}{}
		}
	}
	return rs
}

func firstTick(entries []simlog.Entry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d, ticks=%d) ---\n", rs.runIndex, rs.seed, rs.ticks)
	fmt.Fprintf(w, "phase_markers: assembled=%d travel=%d first_target=%d first_retreat=%d first_death=%d cleared=%d\n",
		rs.firstAssembledTick, rs.firstTravelTick, rs.firstTargetTick, rs.firstRetreatTick, rs.firstDeathTick, rs.clearedTick)
	fmt.Fprintf(w, "swarm_events: phase_change=%d target_acquired=%d reorient=%d regroup=%d retreat=%d siege_error=%d\n",
		rs.phaseChanges, rs.targetsAcquired, rs.reorients, rs.regroups, rs.retreats, rs.siegeErrors)
	fmt.Fprintf(w, "world_events: creep_died=%d structure_destroyed=%d hostile_killed=%d\n",
		rs.creepDeaths, rs.structuresDestroyed, rs.hostilesKilled)
	fmt.Fprintf(w, "swarms: wiped=[%s] expired=[%s]\n", joinSet(rs.wiped), joinSet(rs.expired))
	for _, o := range rs.outcomes {
		fmt.Fprintf(w, "outcome: %s\n", o)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalPhase := 0
	totalTargets := 0
	totalReorient := 0
	totalRegroup := 0
	totalRetreat := 0
	totalDeaths := 0
	totalDestroyed := 0
	totalKilled := 0
	totalErrors := 0

	assembledTicks := make([]int, 0, len(all))
	targetTicks := make([]int, 0, len(all))
	retreatTicks := make([]int, 0, len(all))
	clearedTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	for _, rs := range all {
		totalPhase += rs.phaseChanges
		totalTargets += rs.targetsAcquired
		totalReorient += rs.reorients
		totalRegroup += rs.regroups
		totalRetreat += rs.retreats
		totalDeaths += rs.creepDeaths
		totalDestroyed += rs.structuresDestroyed
		totalKilled += rs.hostilesKilled
		totalErrors += rs.siegeErrors
		if rs.firstAssembledTick >= 0 {
			assembledTicks = append(assembledTicks, rs.firstAssembledTick)
		}
		if rs.firstTargetTick >= 0 {
			targetTicks = append(targetTicks, rs.firstTargetTick)
		}
		if rs.firstRetreatTick >= 0 {
			retreatTicks = append(retreatTicks, rs.firstRetreatTick)
		}
		if rs.clearedTick >= 0 {
			clearedTicks = append(clearedTicks, rs.clearedTick)
		}
		for _, o := range rs.outcomes {
			outcomes[o.Outcome.String()]++
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "avg_swarm_events_per_run: phase_change=%.1f target_acquired=%.1f reorient=%.1f regroup=%.1f retreat=%.1f siege_error=%.1f\n",
		avg(totalPhase, len(all)), avg(totalTargets, len(all)), avg(totalReorient, len(all)), avg(totalRegroup, len(all)), avg(totalRetreat, len(all)), avg(totalErrors, len(all)))
	fmt.Fprintf(w, "avg_world_events_per_run: creep_died=%.1f structure_destroyed=%.1f hostile_killed=%.1f\n",
		avg(totalDeaths, len(all)), avg(totalDestroyed, len(all)), avg(totalKilled, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: assembled=%s first_target=%s first_retreat=%s cleared=%s\n",
		avgTickString(assembledTicks), avgTickString(targetTicks), avgTickString(retreatTicks), avgTickString(clearedTicks))
	fmt.Fprintf(w, "outcomes: %s\n", formatCounts(outcomes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
