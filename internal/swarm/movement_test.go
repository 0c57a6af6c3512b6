package swarm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
)

func movesOf(agents ...*fakeAgent) map[string][]grid.Direction {
	out := make(map[string][]grid.Direction, len(agents))
	for _, a := range agents {
		out[a.name] = a.moves
	}
	return out
}

func TestRotate_Maneuvers(t *testing.T) {
	tests := []struct {
		name  string
		from  grid.Orientation
		to    grid.Orientation
		moves map[string]grid.Direction
	}{
		{
			name: "quarter turn clockwise",
			from: grid.OrientTop, to: grid.OrientRight,
			moves: map[string]grid.Direction{
				"striker": grid.Right, "breaker": grid.Bottom, "archer": grid.Top, "medic": grid.Left,
			},
		},
		{
			name: "quarter turn counterclockwise",
			from: grid.OrientTop, to: grid.OrientLeft,
			moves: map[string]grid.Direction{
				"striker": grid.Bottom, "breaker": grid.Left, "archer": grid.Right, "medic": grid.Top,
			},
		},
		{
			name: "wrap from left to top is clockwise",
			from: grid.OrientLeft, to: grid.OrientTop,
			// Left view is [[breaker, medic], [striker, archer]].
			moves: map[string]grid.Direction{
				"breaker": grid.Right, "medic": grid.Bottom, "striker": grid.Top, "archer": grid.Left,
			},
		},
		{
			name: "half turn to bottom swaps rows",
			from: grid.OrientTop, to: grid.OrientBottom,
			moves: map[string]grid.Direction{
				"striker": grid.Bottom, "breaker": grid.Bottom, "archer": grid.Top, "medic": grid.Top,
			},
		},
		{
			name: "half turn to left swaps columns",
			from: grid.OrientRight, to: grid.OrientLeft,
			// Right view is [[archer, striker], [medic, breaker]].
			moves: map[string]grid.Direction{
				"archer": grid.Right, "striker": grid.Left, "medic": grid.Right, "breaker": grid.Left,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			striker, breaker, archer, medic := squad()
			placeFor(tt.from, striker, breaker, archer, medic)
			s := f.build(Memory{Orientation: tt.from}, []*fakeAgent{striker, breaker, archer, medic})

			if r := s.Rotate(tt.to); r != ResultOK {
				t.Fatalf("Rotate = %s, want ok", r)
			}
			for name, d := range tt.moves {
				got := movesOf(striker, breaker, archer, medic)[name]
				if len(got) != 1 || got[0] != d {
					t.Fatalf("%s moves = %v, want [%s]", name, got, d)
				}
			}
			if s.Orientation() != tt.to {
				t.Fatalf("orientation = %s, want %s", s.Orientation(), tt.to)
			}
			if s.Memory().Orientation != tt.to {
				t.Fatalf("memory orientation = %s, want %s", s.Memory().Orientation, tt.to)
			}
		})
	}
}

func TestRotate_QuarterTurnLandsInFormation(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
	if r := s.Rotate(grid.OrientRight); r != ResultOK {
		t.Fatalf("Rotate = %s, want ok", r)
	}
	for _, a := range []*fakeAgent{striker, breaker, archer, medic} {
		a.pos = a.pos.Step(a.moves[0])
	}
	next := f.build(s.Memory(), []*fakeAgent{striker, breaker, archer, medic})
	if !next.IsInFormation() {
		t.Fatalf("after pivot squad should be in formation, positions %v", next.FormationPositions(next.Anchor()))
	}
	if next.Anchor() != at(10, 10) {
		t.Fatalf("anchor moved to %s", next.Anchor())
	}
}

func TestRotate_SameOrientationIsNoop(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
	if r := s.Rotate(grid.OrientTop); r != ResultOK {
		t.Fatalf("Rotate = %s, want ok", r)
	}
	for name, m := range movesOf(striker, breaker, archer, medic) {
		if len(m) != 0 {
			t.Fatalf("%s should not move, got %v", name, m)
		}
	}
}

func TestRotate_TiredSwarmStaysPut(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	striker.fatigue = 2
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	if r := s.Rotate(grid.OrientRight); r != ResultTired {
		t.Fatalf("Rotate = %s, want tired", r)
	}
	if s.Orientation() != grid.OrientTop {
		t.Fatalf("orientation changed to %s", s.Orientation())
	}
	for name, m := range movesOf(striker, breaker, archer, medic) {
		if len(m) != 0 {
			t.Fatalf("%s should not move, got %v", name, m)
		}
	}
}

func TestRotate_NonSquareNotImplemented(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic}, WithSize(4, 1))
	if s.Width() != 4 || s.Height() != 1 {
		t.Fatalf("size = %dx%d, want 4x1", s.Width(), s.Height())
	}

	if r := s.Rotate(grid.OrientRight); r != ResultNotImplemented {
		t.Fatalf("Rotate = %s, want not_implemented", r)
	}
	if !f.log.Has("formation", "rotate_unsupported", "4x1") {
		t.Fatalf("expected unsupported rotation logged:\n%s", f.log.Format())
	}
}

func TestRotate_PartialFailureKeepsOrientation(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	breaker.moveResult = ResultNoPath
	medic.moveResult = ResultBusy
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	if r := s.Rotate(grid.OrientRight); r != ResultNoPath {
		t.Fatalf("Rotate = %s, want first failure no_path", r)
	}
	if s.Orientation() != grid.OrientTop {
		t.Fatalf("orientation changed to %s on failure", s.Orientation())
	}
	if len(striker.moves) != 1 {
		t.Fatal("members that could move should still have been ordered")
	}
}

func TestRotate_EmptySlotSkipped(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, _ := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer})
	if r := s.Rotate(grid.OrientRight); r != ResultOK {
		t.Fatalf("Rotate = %s, want ok", r)
	}
	if len(archer.moves) != 1 || archer.moves[0] != grid.Top {
		t.Fatalf("archer moves = %v, want [top]", archer.moves)
	}
}

func TestMove_AllOrNothing(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		f := newFixture()
		striker, breaker, archer, medic := squad()
		s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
		if r := s.Move(grid.Right); r != ResultOK {
			t.Fatalf("Move = %s, want ok", r)
		}
		for _, a := range []*fakeAgent{striker, breaker, archer, medic} {
			if a.cancelled != 0 {
				t.Fatalf("%s cancelled on success", a.name)
			}
			if !reflect.DeepEqual(a.moves, []grid.Direction{grid.Right}) {
				t.Fatalf("%s moves = %v", a.name, a.moves)
			}
		}
	})
	t.Run("one blocked", func(t *testing.T) {
		f := newFixture()
		striker, breaker, archer, medic := squad()
		archer.moveResult = ResultNoPath
		s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
		if r := s.Move(grid.Right); r != ResultNotAllOK {
			t.Fatalf("Move = %s, want not_all_ok", r)
		}
		for _, a := range []*fakeAgent{striker, breaker, archer, medic} {
			if a.cancelled != 1 {
				t.Fatalf("%s cancelled %d times, want 1", a.name, a.cancelled)
			}
		}
		if f.log.Count("move", "cancelled") != 1 {
			t.Fatal("expected cancelled move logged once")
		}
	})
}

func TestRegroup_InFormationDoesNothing(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	ok, err := s.Regroup()
	if err != nil || !ok {
		t.Fatalf("Regroup = %v,%v, want true,nil", ok, err)
	}
	for _, a := range []*fakeAgent{striker, breaker, archer, medic} {
		if len(a.gotos) != 0 || len(a.moves) != 0 {
			t.Fatalf("%s was ordered while in formation", a.name)
		}
	}
}

func TestRegroup_ReassemblesAtAnchor(t *testing.T) {
	f := newFixture()
	striker, breaker, archer, medic := squad()
	medic.pos = at(20, 20)
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	ok, err := s.Regroup()
	if err != nil || ok {
		t.Fatalf("Regroup = %v,%v, want false,nil", ok, err)
	}
	if len(medic.gotos) != 1 || medic.gotos[0] != at(11, 11) {
		t.Fatalf("medic gotos = %v, want [%s]", medic.gotos, at(11, 11))
	}
	if medic.gotoOpts[0].NoPush {
		t.Fatal("distant member should be allowed to push")
	}
	if !striker.gotoOpts[0].NoPush || !striker.gotoOpts[0].IgnoreCreepsOnDestination {
		t.Fatalf("nearby member options = %+v", striker.gotoOpts[0])
	}
}

func TestRegroup_SkipsBlockedFootprint(t *testing.T) {
	f := newFixture()
	f.world.walls[at(11, 11)] = true
	striker, breaker, archer, medic := squad()
	medic.pos = at(20, 20)
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	p, ok := s.FindRegroupPosition()
	if !ok || p != at(9, 9) {
		t.Fatalf("FindRegroupPosition = %s,%v, want %s", p, ok, at(9, 9))
	}
	if _, err := s.Regroup(); err != nil {
		t.Fatalf("Regroup: %v", err)
	}
	if striker.gotos[0] != at(9, 9) {
		t.Fatalf("striker sent to %s, want %s", striker.gotos[0], at(9, 9))
	}
}

func TestRegroup_NoWalkablePlacement(t *testing.T) {
	f := newFixture()
	for x := 0; x < grid.RoomSize; x++ {
		for y := 0; y < grid.RoomSize; y++ {
			f.world.walls[at(x, y)] = true
		}
	}
	striker, breaker, archer, medic := squad()
	medic.pos = at(20, 20)
	s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})

	if p, ok := s.FindRegroupPosition(); ok || p != grid.Unreachable {
		t.Fatalf("FindRegroupPosition = %s,%v, want unreachable", p, ok)
	}
	ok, err := s.Regroup()
	if ok || !errors.Is(err, ErrNoRegroupPosition) {
		t.Fatalf("Regroup = %v,%v, want false,ErrNoRegroupPosition", ok, err)
	}
	if f.log.Count("formation", "regroup_unreachable") != 1 {
		t.Fatal("expected unreachable regroup logged")
	}
}

func TestAssemble(t *testing.T) {
	t.Run("in place and full", func(t *testing.T) {
		f := newFixture()
		striker, breaker, archer, medic := squad()
		s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
		if !s.Assemble(at(10, 10), false) {
			t.Fatal("Assemble should report done")
		}
		if !s.Memory().InitialAssembly {
			t.Fatal("InitialAssembly should be recorded")
		}
	})
	t.Run("busy members keep their task", func(t *testing.T) {
		f := newFixture()
		striker, breaker, archer, medic := squad()
		breaker.task = true
		s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer, medic})
		if s.Assemble(at(30, 30), false) {
			t.Fatal("Assemble away from point should not report done")
		}
		if len(breaker.gotos) != 0 {
			t.Fatal("member with a task was ordered to assemble")
		}
		if len(striker.gotos) != 1 || striker.gotos[0] != at(30, 30) {
			t.Fatalf("striker gotos = %v", striker.gotos)
		}
	})
	t.Run("understrength swarm skirmishes", func(t *testing.T) {
		f := newFixture()
		f.world.rooms[testRoom].dangerous = []Hostile{&fakeHostile{id: "h1", pos: at(30, 30), owner: "rival"}}
		striker, breaker, archer, _ := squad()
		s := f.build(Memory{}, []*fakeAgent{striker, breaker, archer})
		s.Assemble(at(30, 30), true)
		for _, a := range []*fakeAgent{striker, breaker, archer} {
			if a.skirmishes != 1 || len(a.gotos) != 0 {
				t.Fatalf("%s skirmishes=%d gotos=%v", a.name, a.skirmishes, a.gotos)
			}
		}
	})
}
