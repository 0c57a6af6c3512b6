package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Siege-Swarm/internal/grid"
	"github.com/Garsondee/Siege-Swarm/internal/swarm"
)

// borderWidth is the pixel gap between the window edge and the room.
const borderWidth = 24

// tileSize is the on-screen size of one room tile.
const tileSize = 14

// hudScale is the integer upscale factor applied to the HUD.
const hudScale = 2

// statusTicks is how many frames a status message stays on screen.
const statusTicks = 180

// speeds are the selectable sim speeds in ticks per frame.
var speeds = []float64{0, 0.5, 1, 2, 4}

var (
	colPlain     = color.RGBA{R: 38, G: 44, B: 36, A: 255}
	colSwamp     = color.RGBA{R: 40, G: 58, B: 30, A: 255}
	colWall      = color.RGBA{R: 16, G: 16, B: 16, A: 255}
	colExit      = color.RGBA{R: 52, G: 60, B: 70, A: 255}
	colMine      = color.RGBA{R: 70, G: 170, B: 90, A: 255}
	colEnemy     = color.RGBA{R: 200, G: 70, B: 60, A: 255}
	colNeutral   = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	colTower     = color.RGBA{R: 230, G: 120, B: 40, A: 255}
	colInvader   = color.RGBA{R: 190, G: 80, B: 200, A: 255}
	colCreep     = color.RGBA{R: 80, G: 160, B: 240, A: 255}
	colTired     = color.RGBA{R: 60, G: 90, B: 140, A: 255}
	colFormation = color.RGBA{R: 240, G: 230, B: 120, A: 200}
	colTarget    = color.RGBA{R: 255, G: 60, B: 60, A: 230}
	colHealthBg  = color.RGBA{R: 60, G: 10, B: 10, A: 255}
	colHealth    = color.RGBA{R: 90, G: 220, B: 90, A: 255}
)

// Game is the ebiten viewer over a SiegeSim. One room is shown at a time;
// the view follows the first swarm until the user picks a room.
type Game struct {
	scenario *Scenario
	opts     []SimOption
	sim      *SiegeSim

	width      int
	height     int
	room       int
	followRoom bool
	simSpeed   float64
	tickAccum  float64
	maxTicks   int
	showHUD    bool
	prevKeys   map[ebiten.Key]bool

	hudBuf     *ebiten.Image
	face       text.Face
	thoughtLog *ThoughtLog
	logCursor  int

	status      string
	statusTimer int
}

// New builds a viewer for sc. Extra options are applied after the
// scenario's own, so they can override its seed or config.
func New(sc *Scenario, extra ...SimOption) (*Game, error) {
	w, h := WindowSize()
	g := &Game{
		scenario:   sc,
		opts:       append(sc.Options(), extra...),
		width:      w,
		height:     h,
		followRoom: true,
		simSpeed:   1,
		maxTicks:   sc.Ticks,
		showHUD:    true,
		prevKeys:   map[ebiten.Key]bool{},
		face:       text.NewGoXFace(basicfont.Face7x13),
	}
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// WindowSize is the logical screen size: one room plus the log panel.
func WindowSize() (int, int) {
	return borderWidth*2 + grid.RoomSize*tileSize + logPanelWidth, borderWidth*2 + grid.RoomSize*tileSize
}

// reset rebuilds the simulation from the scenario.
func (g *Game) reset() error {
	sim := NewSiegeSim(g.opts...)
	if err := sim.Err(); err != nil {
		return fmt.Errorf("game: scenario %q: %w", g.scenario.Name, err)
	}
	g.sim = sim
	g.thoughtLog = NewThoughtLog()
	g.logCursor = 0
	g.tickAccum = 0
	return nil
}

func (g *Game) Update() error {
	g.handleInput()
	if g.statusTimer > 0 {
		g.statusTimer--
	}
	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if g.maxTicks > 0 && g.sim.CurrentTick() >= g.maxTicks {
			g.simSpeed = 0
			g.setStatus(fmt.Sprintf("scenario ended at tick %d", g.sim.CurrentTick()))
			break
		}
		g.simTick()
	}
	return nil
}

// simTick runs one simulation tick and feeds new log entries to the panel.
func (g *Game) simTick() {
	g.sim.RunTicks(1)
	entries := g.sim.SimLog.Entries()
	for _, e := range entries[g.logCursor:] {
		g.thoughtLog.Add(e)
	}
	g.logCursor = len(entries)

	if g.followRoom {
		if refs := g.sim.Refs(); len(refs) > 0 {
			g.focusOn(refs[0])
		}
	}
}

// focusOn shows the room holding the first live member of swarm ref.
func (g *Game) focusOn(ref string) {
	for _, name := range g.sim.Memory(ref).Creeps {
		c, ok := g.sim.World.Creep(name)
		if !ok {
			continue
		}
		for i, r := range g.sim.World.Rooms() {
			if r.name == c.pos.Room {
				g.room = i
				return
			}
		}
	}
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTimer = statusTicks
}

// pressed reports a key going down this frame.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput processes keypresses (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	if g.pressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.pressed(currentKeys, ebiten.KeyComma) {
		g.simSpeed = slowerSpeed(g.simSpeed)
	}
	if g.pressed(currentKeys, ebiten.KeyPeriod) {
		g.simSpeed = fasterSpeed(g.simSpeed)
	}

	rooms := len(g.sim.World.Rooms())
	if g.pressed(currentKeys, ebiten.KeyTab) || g.pressed(currentKeys, ebiten.KeyBracketRight) {
		g.room = (g.room + 1) % rooms
		g.followRoom = false
	}
	if g.pressed(currentKeys, ebiten.KeyBracketLeft) {
		g.room = (g.room - 1 + rooms) % rooms
		g.followRoom = false
	}
	if g.pressed(currentKeys, ebiten.KeyF) {
		g.followRoom = true
	}

	if g.pressed(currentKeys, ebiten.KeyC) {
		if err := CopyToClipboard(g.sim.SimLog.Format()); err != nil {
			g.setStatus("copy failed: " + err.Error())
		} else {
			g.setStatus(fmt.Sprintf("copied %d log lines", g.sim.SimLog.Len()))
		}
	}
	if g.pressed(currentKeys, ebiten.KeyR) {
		if err := g.reset(); err != nil {
			g.setStatus(err.Error())
		} else {
			g.setStatus("scenario restarted")
		}
	}

	g.prevKeys = currentKeys
}

// slowerSpeed steps down to the next lower entry of speeds.
func slowerSpeed(cur float64) float64 {
	for i := len(speeds) - 1; i >= 0; i-- {
		if speeds[i] < cur {
			return speeds[i]
		}
	}
	return cur
}

// fasterSpeed steps up to the next higher entry of speeds.
func fasterSpeed(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return cur
}

func speedLabel(speed float64) string {
	switch {
	case speed == 0:
		return "PAUSED"
	case speed == float64(int(speed)):
		return fmt.Sprintf("%dx", int(speed))
	default:
		return fmt.Sprintf("%.1fx", speed)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	rooms := g.sim.World.Rooms()
	if len(rooms) > 0 {
		g.drawRoom(screen, rooms[g.room%len(rooms)])
	}

	ox, oy := float32(borderWidth), float32(borderWidth)
	side := float32(grid.RoomSize * tileSize)
	vector.StrokeRect(screen, ox-1, oy-1, side+2, side+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	g.thoughtLog.Draw(screen, g.face, borderWidth*2+grid.RoomSize*tileSize, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.statusTimer > 0 {
		drawText(screen, g.face, g.status, borderWidth+6, borderWidth+6, colFormation)
	}
}

// tileRect returns the screen rectangle of tile x, y.
func tileRect(x, y int) (float32, float32, float32) {
	return float32(borderWidth + x*tileSize), float32(borderWidth + y*tileSize), float32(tileSize)
}

func (g *Game) drawRoom(screen *ebiten.Image, r *RoomState) {
	for x := 0; x < grid.RoomSize; x++ {
		for y := 0; y < grid.RoomSize; y++ {
			c := colPlain
			switch r.Terrain(x, y) {
			case TerrainWall:
				c = colWall
			case TerrainSwamp:
				c = colSwamp
			default:
				if (grid.Pos{X: x, Y: y}).IsEdge() {
					c = colExit
				}
			}
			px, py, s := tileRect(x, y)
			vector.FillRect(screen, px, py, s, s, c, false)
		}
	}

	for _, s := range r.Structures() {
		g.drawStructure(screen, s)
	}
	for _, h := range r.hostiles {
		if h.Dead() {
			continue
		}
		px, py, s := tileRect(h.pos.X, h.pos.Y)
		c := colEnemy
		if h.owner == PlayerInvader {
			c = colInvader
		}
		vector.FillCircle(screen, px+s/2, py+s/2, s/2-1, c, true)
		drawHealth(screen, px, py, s, h.hits, h.hitsMax)
	}
	for _, cl := range g.sim.clumps(r.name) {
		if cl.Len() < 2 {
			continue
		}
		centre := cl.Centroid()
		px, py, s := tileRect(centre.X, centre.Y)
		vector.StrokeCircle(screen, px+s/2, py+s/2, s*float32(1+cl.Len()/2), 1, colInvader, true)
	}
	for _, c := range g.sim.World.Creeps() {
		if c.pos.Room != r.name {
			continue
		}
		px, py, s := tileRect(c.pos.X, c.pos.Y)
		fill := colCreep
		if c.fatigue > 0 {
			fill = colTired
		}
		vector.FillCircle(screen, px+s/2, py+s/2, s/2-1, fill, true)
		drawHealth(screen, px, py, s, c.hits, c.hitsMax)
	}

	for _, ref := range g.sim.Refs() {
		g.drawSwarm(screen, ref, r.name)
	}

	title := fmt.Sprintf("%s  owner=%s  tick %d", r.name, ownerLabel(r.owner), g.sim.CurrentTick())
	drawText(screen, g.face, title, borderWidth, 4, color.White)
}

func (g *Game) drawStructure(screen *ebiten.Image, s *Structure) {
	px, py, size := tileRect(s.pos.X, s.pos.Y)
	c := colNeutral
	switch {
	case s.owner == PlayerMe:
		c = colMine
	case s.kind == swarm.StructureTower:
		c = colTower
	case s.owner != "":
		c = colEnemy
	}
	switch s.kind {
	case swarm.StructureRampart:
		vector.StrokeRect(screen, px+1, py+1, size-2, size-2, 2, c, false)
	case swarm.StructureTower, swarm.StructureSpawn:
		vector.FillRect(screen, px+1, py+1, size-2, size-2, c, false)
		vector.StrokeCircle(screen, px+size/2, py+size/2, size/4, 1.5, colWall, true)
	case swarm.StructureController:
		vector.StrokeCircle(screen, px+size/2, py+size/2, size/2-1, 2, c, true)
	default:
		vector.FillRect(screen, px+2, py+2, size-4, size-4, c, false)
	}
	if s.hitsMax > 0 && s.hits < s.hitsMax {
		drawHealth(screen, px, py, size, s.hits, s.hitsMax)
	}
}

// drawSwarm outlines the formation and marks the cached target.
func (g *Game) drawSwarm(screen *ebiten.Image, ref, room string) {
	mem := g.sim.Memory(ref)
	minX, minY, maxX, maxY := grid.RoomSize, grid.RoomSize, -1, -1
	for _, name := range mem.Creeps {
		c, ok := g.sim.World.Creep(name)
		if !ok || c.pos.Room != room {
			continue
		}
		minX, minY = min(minX, c.pos.X), min(minY, c.pos.Y)
		maxX, maxY = max(maxX, c.pos.X), max(maxY, c.pos.Y)
	}
	if maxX >= 0 {
		px, py, s := tileRect(minX, minY)
		w := float32(maxX-minX+1) * s
		h := float32(maxY-minY+1) * s
		vector.StrokeRect(screen, px-1, py-1, w+2, h+2, 1.5, colFormation, false)
		drawText(screen, g.face, ref, int(px), int(py)-14, colFormation)
	}
	if mem.Target != nil {
		if t, ok := g.sim.World.Resolve(mem.Target.ID); ok && t.Pos().Room == room {
			px, py, s := tileRect(t.Pos().X, t.Pos().Y)
			vector.StrokeLine(screen, px, py, px+s, py+s, 2, colTarget, true)
			vector.StrokeLine(screen, px+s, py, px, py+s, 2, colTarget, true)
		}
	}
}

func drawHealth(screen *ebiten.Image, px, py, size float32, hits, hitsMax int) {
	if hitsMax <= 0 {
		return
	}
	frac := float32(hits) / float32(hitsMax)
	vector.FillRect(screen, px, py+size-3, size, 2, colHealthBg, false)
	vector.FillRect(screen, px, py+size-3, size*frac, 2, colHealth, false)
}

func ownerLabel(owner string) string {
	if owner == "" {
		return "none"
	}
	return owner
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("%s  tick %d", g.scenario.Name, g.sim.CurrentTick()),
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedLabel(g.simSpeed)),
	}
	for _, ref := range g.sim.Refs() {
		mem := g.sim.Memory(ref)
		phase := "--"
		if step, ok := g.sim.LastStep(ref); ok {
			phase = step.Phase.String()
		}
		state := fmt.Sprintf("%s: %s facing %s, %d up, %d retreats", ref, phase, mem.Orientation, len(mem.Creeps), mem.NumRetreats)
		switch {
		case g.sim.Wiped(ref):
			state = ref + ": wiped"
		case g.sim.ObjectiveCleared(ref):
			state += ", objective cleared"
		}
		lines = append(lines, state)
	}
	follow := ""
	if g.followRoom {
		follow = " (following)"
	}
	lines = append(lines,
		"Tab/[ ]=room"+follow+"  F=follow",
		"C=copy log  R=restart  H=hide HUD",
	)

	const lineH = 14
	const charW = 7
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(borderWidth/hudScale + 2)
	by := float32(g.height/hudScale) - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)
	for i, line := range lines {
		drawText(g.hudBuf, g.face, line, int(bx)+padX, int(by)+padY+i*lineH, color.White)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
