package game

import "fmt"

// SiegeOutcome is how a swarm's siege stands.
type SiegeOutcome int

const (
	OutcomeInProgress SiegeOutcome = iota
	OutcomeCleared
	OutcomeWiped
	OutcomeTimeout
)

func (o SiegeOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeCleared:
		return "cleared"
	case OutcomeWiped:
		return "wiped"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type SiegeOutcomeReason struct {
	Ref         string
	Outcome     SiegeOutcome
	Objective   string
	Tick        int
	Survivors   int
	Members     int
	Retreats    int
	Description string
}

func (r SiegeOutcomeReason) String() string {
	return fmt.Sprintf("%s %s on %s at tick %d: %d/%d alive, %d retreats (%s)",
		r.Ref, r.Outcome, r.Objective, r.Tick, r.Survivors, r.Members, r.Retreats, r.Description)
}

// DetermineSiegeOutcome judges swarm ref. A siege that is neither cleared
// nor wiped times out once maxTicks have run; maxTicks <= 0 never times out.
func (ts *SiegeSim) DetermineSiegeOutcome(ref string, maxTicks int) SiegeOutcomeReason {
	var sq *squadOrder
	for _, s := range ts.squads {
		if s.ref == ref {
			sq = s
			break
		}
	}
	if sq == nil {
		return SiegeOutcomeReason{Ref: ref, Outcome: OutcomeInProgress, Description: "unknown_swarm"}
	}

	survivors := 0
	mem := ts.Store.Load(ref)
	for _, name := range mem.Creeps {
		if c, ok := ts.World.Creep(name); ok && !c.Dead() {
			survivors++
		}
	}
	reason := SiegeOutcomeReason{
		Ref:       ref,
		Objective: sq.objective,
		Tick:      ts.CurrentTick(),
		Survivors: survivors,
		Members:   sq.members,
		Retreats:  mem.NumRetreats,
	}

	switch {
	case sq.cleared || ts.cleared(sq.objective):
		reason.Outcome = OutcomeCleared
		switch {
		case survivors == sq.members:
			reason.Description = "clean_breach_no_losses"
		case survivors*2 >= sq.members:
			reason.Description = "breach_with_losses"
		default:
			reason.Description = "pyrrhic_breach"
		}
	case sq.wiped || survivors == 0:
		reason.Outcome = OutcomeWiped
		reason.Description = "swarm_destroyed"
	case maxTicks > 0 && ts.CurrentTick() >= maxTicks:
		reason.Outcome = OutcomeTimeout
		if mem.Recovering {
			reason.Description = "stalled_in_recovery"
		} else {
			reason.Description = "objective_standing"
		}
	default:
		reason.Outcome = OutcomeInProgress
		reason.Description = "siege_ongoing"
	}
	return reason
}
