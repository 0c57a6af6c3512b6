package simlog

import (
	"strings"
	"testing"
)

func TestLog_FilterAndCount(t *testing.T) {
	l := New(false)
	l.Add(1, "alpha", "E1N0", "siege", "regroup", "anchor [E1N0 10,10]", 0)
	l.Add(2, "alpha", "E1N0", "recover", "retreat_start", "hits 70%", 0.7)
	l.Add(3, "bravo", "", "siege", "regroup", "", 0)

	if got := l.Count("siege", "regroup"); got != 2 {
		t.Fatalf("expected 2 regroup entries, got %d", got)
	}
	if got := len(l.FilterLabel("alpha")); got != 2 {
		t.Fatalf("expected 2 alpha entries, got %d", got)
	}
	if got := len(l.FilterTickRange(2, 3)); got != 2 {
		t.Fatalf("expected 2 entries in [2,3], got %d", got)
	}
	last, ok := l.LastOf("siege", "regroup")
	if !ok || last.Label != "bravo" || last.Room != "--" {
		t.Fatalf("unexpected last regroup entry: %+v", last)
	}
	if !l.Has("recover", "", "70%") {
		t.Fatal("expected to find recover entry by value substring")
	}
}

func TestLog_VerboseGate(t *testing.T) {
	quiet := New(false)
	quiet.AddVerbose(1, "alpha", "E1N0", "move", "result", "ok", 0)
	if quiet.Len() != 0 {
		t.Fatal("verbose entry recorded on a quiet log")
	}
	loud := New(true)
	loud.AddVerbose(1, "alpha", "E1N0", "move", "result", "ok", 0)
	if loud.Len() != 1 {
		t.Fatal("verbose entry dropped on a verbose log")
	}
}

func TestLog_NilIsSafe(t *testing.T) {
	var l *Log
	l.Add(1, "alpha", "", "siege", "noop", "", 0)
	if l.Len() != 0 || l.Format() != "" {
		t.Fatal("nil log should stay empty")
	}
}

func TestEntry_String(t *testing.T) {
	l := New(false)
	l.Add(42, "alpha", "E1N0", "recover", "retreat_start", "hits 70%", 0)
	out := l.Format()
	if !strings.HasPrefix(out, "[T=042] alpha") || !strings.Contains(out, "retreat_start") {
		t.Fatalf("unexpected formatting: %q", out)
	}
}
