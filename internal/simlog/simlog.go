// Package simlog records structured, machine-readable events from the siege
// simulation. Every tick-level decision the swarm controller takes lands here
// so headless runs and tests can assert on behaviour instead of scraping text.
package simlog

import (
	"fmt"
	"strings"
)

// Entry is one recorded event.
type Entry struct {
	Tick     int
	Label    string  // swarm ref or agent name, "--" for global events
	Room     string  // room the event concerns, "--" when not room-bound
	Category string  // swarm, formation, move, target, recover, siege, world
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] alpha  E1N0   recover  retreat_start   hits 70%
func (e Entry) String() string {
	return fmt.Sprintf("[T=%03d] %-6s %-6s %-9s %-16s %s",
		e.Tick, e.Label, e.Room, e.Category, e.Key, e.Value)
}

// Log collects entries in the order they were added. A nil *Log discards
// everything, so collaborators can log unconditionally.
type Log struct {
	entries []Entry
	verbose bool
}

// New creates a Log. If verbose is true, AddVerbose entries (per-agent move
// results, formation dumps) are recorded as well.
func New(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Verbose reports whether verbose entries are being kept.
func (l *Log) Verbose() bool {
	return l != nil && l.verbose
}

// Add records a new entry.
func (l *Log) Add(tick int, label, room, category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	if label == "" {
		label = "--"
	}
	if room == "" {
		room = "--"
	}
	l.entries = append(l.entries, Entry{
		Tick:     tick,
		Label:    label,
		Room:     room,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *Log) AddVerbose(tick int, label, room, category, key, value string, numVal float64) {
	if !l.Verbose() {
		return
	}
	l.Add(tick, label, room, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	return len(l.Entries())
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterLabel returns entries for a specific swarm or agent label.
func (l *Log) FilterLabel(label string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (l *Log) FilterTickRange(fromTick, toTick int) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (l *Log) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// Has returns true if at least one entry matches category, key, and value substring.
func (l *Log) Has(category, key, valueSubstr string) bool {
	for _, e := range l.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	return format(l.Entries())
}

// FormatRange returns a log string filtered to a tick range.
func (l *Log) FormatRange(fromTick, toTick int) string {
	return format(l.FilterTickRange(fromTick, toTick))
}

func format(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
