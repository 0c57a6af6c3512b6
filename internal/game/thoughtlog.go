package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Siege-Swarm/internal/simlog"
)

const (
	logPanelWidth = 360
	logMaxEntries = 60
	logLineHeight = 14
)

// categoryColors tints the marker beside each log line.
var categoryColors = map[string]color.RGBA{
	"siege":     {R: 210, G: 190, B: 90, A: 255},
	"swarm":     {R: 90, G: 200, B: 120, A: 255},
	"formation": {R: 90, G: 160, B: 220, A: 255},
	"target":    {R: 220, G: 130, B: 60, A: 255},
	"recover":   {R: 220, G: 70, B: 70, A: 255},
	"structure": {R: 170, G: 170, B: 170, A: 255},
	"creep":     {R: 230, G: 50, B: 50, A: 255},
	"hostile":   {R: 200, G: 90, B: 200, A: 255},
}

// ThoughtLog is a ring buffer of recent sim log entries rendered on-screen.
type ThoughtLog struct {
	entries []simlog.Entry
	head    int
	count   int
}

// NewThoughtLog creates a thought log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{
		entries: make([]simlog.Entry, logMaxEntries),
	}
}

// Add appends an entry to the log, overwriting the oldest when full.
func (tl *ThoughtLog) Add(e simlog.Entry) {
	tl.entries[tl.head] = e
	tl.head = (tl.head + 1) % logMaxEntries
	if tl.count < logMaxEntries {
		tl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []simlog.Entry {
	result := make([]simlog.Entry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + logMaxEntries) % logMaxEntries
		result[i] = tl.entries[idx]
	}
	return result
}

// Draw renders the log panel at panelX, newest entries at the bottom.
func (tl *ThoughtLog) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, face, "SIEGE LOG", panelX+8, 3, color.White)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+logPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := tl.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 22
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, dot, false)

		fg := color.RGBA{R: 150, G: 160, B: 150, A: 255}
		if isRecent {
			fg = color.RGBA{R: 235, G: 240, B: 235, A: 255}
		}
		line := fmt.Sprintf("%4d %-7s %s", e.Tick, e.Label, e.Value)
		drawText(screen, face, line, panelX+12, y, fg)
		y += logLineHeight
	}
}

// drawText draws s with its top-left corner at x, y.
func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
