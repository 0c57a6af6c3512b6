package swarm

import (
	"reflect"
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

func TestNew_SortsStrongestToFront(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{medic, archer, striker, breaker})

	want := [][]string{{"striker", "breaker"}, {"archer", "medic"}}
	if got := mustNames(t, s.StaticFormation()); !reflect.DeepEqual(got, want) {
		t.Fatalf("static formation = %v, want %v", got, want)
	}
	if s.Anchor() != at(10, 10) {
		t.Fatalf("anchor = %s, want %s", s.Anchor(), at(10, 10))
	}
}

func TestNew_EmptySlotsSortBetweenFightersAndSupport(t *testing.T) {
	f := newFixture()
	striker, _, _, medic := squad()
	scout := newAgent("scout", at(10, 11), map[Part]int{PartMove: 2})
	s := f.build(Memory{}, []*fakeAgent{medic, scout, striker})

	want := [][]string{{"striker", "-"}, {"scout", "medic"}}
	if got := mustNames(t, s.StaticFormation()); !reflect.DeepEqual(got, want) {
		t.Fatalf("static formation = %v, want %v", got, want)
	}
}

func TestNew_AnchorFromFirstOccupiedSlot(t *testing.T) {
	f := newFixture()
	medic := newAgent("medic", at(21, 21), map[Part]int{PartHeal: 4})
	s := f.build(Memory{}, []*fakeAgent{medic})

	// Three empty slots sort ahead of a healer, so it sits back-right.
	if s.Anchor() != at(20, 20) {
		t.Fatalf("anchor = %s, want %s", s.Anchor(), at(20, 20))
	}
	if !s.IsInFormation() {
		t.Fatal("lone medic on its slot should be in formation")
	}
}

func TestNew_EmptySwarmAnchorsOnOverseer(t *testing.T) {
	f := newFixture()
	s := f.build(Memory{}, nil)
	if s.Anchor() != at(25, 25) {
		t.Fatalf("anchor = %s, want overseer position %s", s.Anchor(), at(25, 25))
	}
	if s.IsExpired() {
		t.Fatal("empty swarm should not report expired")
	}
}

func TestAnchor_EveryOrientation(t *testing.T) {
	for _, o := range grid.Orientations {
		t.Run(o.String(), func(t *testing.T) {
			f := newFixture()
			striker, breaker, archer, medic := squad()
			placeFor(o, striker, breaker, archer, medic)
			s := f.build(Memory{Orientation: o}, []*fakeAgent{striker, breaker, archer, medic})
			if s.Anchor() != at(10, 10) {
				t.Fatalf("anchor = %s, want %s", s.Anchor(), at(10, 10))
			}
			if !s.IsInFormation() {
				t.Fatalf("squad placed for %s should be in formation", o)
			}
		})
	}
}

func TestIsInFormation_SupportOnlySwarmEveryOrientation(t *testing.T) {
	for _, o := range []grid.Orientation{grid.OrientRight, grid.OrientBottom, grid.OrientLeft} {
		t.Run(o.String(), func(t *testing.T) {
			f := newFixture()
			left := newAgent("left", at(3, 3), map[Part]int{PartHeal: 4})
			right := newAgent("right", at(4, 3), map[Part]int{PartHeal: 4})
			agents := []*fakeAgent{left, right}

			want := f.build(Memory{Orientation: o}, agents).FormationPositions(at(10, 10))
			for _, a := range agents {
				a.pos = want[a.name]
			}
			for i := 0; i < 3; i++ {
				s := f.build(Memory{Orientation: o}, agents)
				if s.Anchor() != at(10, 10) {
					t.Fatalf("rebuild %d: anchor = %s, want %s", i, s.Anchor(), at(10, 10))
				}
				if !s.IsInFormation() {
					t.Fatalf("rebuild %d: healers placed for %s should be in formation", i, o)
				}
			}
		})
	}
}

func TestIsInFormation_FlipsWhenMemberStrays(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
	if !s.IsInFormation() {
		t.Fatal("expected squad in formation")
	}
	medic.pos = at(13, 11)
	if s.IsInFormation() {
		t.Fatal("expected squad out of formation after medic moved")
	}
}

func TestFormationPositions_RotateAndBack(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	before := s.FormationPositions(s.Anchor())
	s.SetOrientation(grid.OrientRight)
	turned := s.FormationPositions(s.Anchor())
	if turned["striker"] != at(11, 10) || turned["archer"] != at(10, 10) {
		t.Fatalf("right-facing positions wrong: %v", turned)
	}
	s.SetOrientation(grid.OrientTop)
	if after := s.FormationPositions(s.Anchor()); !reflect.DeepEqual(before, after) {
		t.Fatalf("positions after round trip = %v, want %v", after, before)
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name    string
		members int
		ttl     int
		want    bool
	}{
		{"full swarm never expires", 4, 1, false},
		{"understrength and old", 3, 1000, true},
		{"understrength and young", 3, 1400, false},
		{"unknown ttl", 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			striker, breaker, archer, medic := squad()
			all := []*fakeAgent{striker, breaker, archer, medic}[:tt.members]
			for _, a := range all {
				a.ttl = tt.ttl
			}
			if got := f.build(Memory{}, all).IsExpired(); got != tt.want {
				t.Fatalf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInMultipleRooms(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
	if s.InMultipleRooms() {
		t.Fatal("squad in one room reported as split")
	}
	medic.pos = grid.Pos{X: 0, Y: 11, Room: "E2N1"}
	if !s.InMultipleRooms() {
		t.Fatal("squad straddling an exit should be split")
	}
}

func TestRangeHelpers(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	p := at(15, 10)
	if got := s.MinRangeTo(p); got != 4 {
		t.Fatalf("MinRangeTo = %d, want 4", got)
	}
	if got := s.MaxRangeTo(p); got != 5 {
		t.Fatalf("MaxRangeTo = %d, want 5", got)
	}

	near := &fakeStructure{id: "near", pos: at(12, 11), kind: StructureWall}
	far := &fakeStructure{id: "far", pos: at(14, 14), kind: StructureWall}
	got := InMinRange(s, []Structure{near, far}, 1)
	if len(got) != 1 || got[0].ID() != "near" {
		t.Fatalf("InMinRange = %v, want only the adjacent wall", got)
	}
}

func TestDirectionTo(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	if d, ok := s.DirectionTo(at(30, 30)); !ok || d != grid.BottomRight {
		t.Fatalf("DirectionTo = %s,%v, want bottom_right", d, ok)
	}
	if _, ok := s.DirectionTo(grid.Pos{X: 5, Y: 5, Room: "W9S9"}); ok {
		t.Fatal("DirectionTo another room should report false")
	}
}
