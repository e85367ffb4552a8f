package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/particle-sandbox/audio"
	"github.com/lixenwraith/particle-sandbox/engine"
	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/service"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

const (
	createRadius = 5.0
	// Created particles keep this fraction of the free gap to their nearest neighbor
	createGapFraction = 0.9
	radiusFactor      = 1.25
	massFactor        = 2.0
	velocityNudge     = 1.0
	statusRows        = 2
)

var gravityCycle = []physics.GravityMode{
	physics.GravityNone,
	physics.GravityIntegrate,
	physics.GravityApproximate,
}

var (
	styleDefault  = tcell.StyleDefault
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleMessage  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// app is the interactive front-end state; single goroutine
type app struct {
	screen tcell.Screen
	sim    *service.Simulation
	player *audio.Player // nil without audio
	view   view

	selected    uuid.UUID
	autoplay    bool
	lastButtons tcell.ButtonMask
	message     string
}

func newApp(screen tcell.Screen, sim *service.Simulation, player *audio.Player, scale float64) *app {
	w, h := screen.Size()
	a := &app{
		screen: screen,
		sim:    sim,
		player: player,
		view:   newView(scale, w, max(h-statusRows, 1)),
	}
	a.view.center = centroid(sim.Particles())
	return a
}

// centroid returns the mean particle center, the origin when empty
func centroid(particles []engine.Snapshot) vmath.Vec {
	var sum vmath.Vec
	for _, p := range particles {
		sum = r2.Add(sum, p.Position())
	}
	if len(particles) == 0 {
		return sum
	}
	return r2.Scale(1/float64(len(particles)), sum)
}

// handleEvent applies one terminal event; false requests exit
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		a.view.resize(w, max(h-statusRows, 1))
		a.screen.Sync()
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	a.message = ""

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		a.view.pan(0, -4)
	case tcell.KeyDown:
		a.view.pan(0, 4)
	case tcell.KeyLeft:
		a.view.pan(-8, 0)
	case tcell.KeyRight:
		a.view.pan(8, 0)
	case tcell.KeyTab:
		a.cycleSelection(1)
	case tcell.KeyBacktab:
		a.cycleSelection(-1)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		a.sim.Step()
	case 'u':
		if !a.sim.Undo() {
			a.message = "nothing to undo"
		}
	case 'r':
		if !a.sim.Redo() {
			a.message = "nothing to redo"
		}
	case 'p':
		a.autoplay = !a.autoplay
	case 'g':
		a.sim.SetGravityMode(nextGravityMode(a.sim.GravityMode()))
	case 'c':
		if a.sim.CollisionMode() == physics.CollisionNone {
			a.sim.SetCollisionMode(physics.CollisionElastic)
		} else {
			a.sim.SetCollisionMode(physics.CollisionNone)
		}
	case '+', '=':
		a.sim.SetGravitationalConstant(a.sim.GravitationalConstant() * 2)
	case '-':
		a.sim.SetGravitationalConstant(a.sim.GravitationalConstant() / 2)
	case 'z':
		a.view.zoomIn()
	case 'Z':
		a.view.zoomOut()
	case 'a':
		if a.player == nil || a.player.IsDisabled() {
			a.message = "audio unavailable"
		} else if a.player.ToggleMute() {
			a.message = "muted"
		}
	default:
		a.editSelection(r)
	}
	return true
}

// editSelection handles the keys that act on the selected particle
func (a *app) editSelection(r rune) {
	p, ok := a.selection()
	if !ok {
		switch r {
		case 'h', 'j', 'k', 'l', 'H', 'J', 'K', 'L', '[', ']', 'm', 'M':
			a.message = "no selection, press Tab"
		}
		return
	}

	w, h := a.view.cellSize()
	accepted := true
	switch r {
	case 'h':
		accepted = a.sim.SetPositionX(p, p.PositionX()-w)
	case 'l':
		accepted = a.sim.SetPositionX(p, p.PositionX()+w)
	case 'k':
		accepted = a.sim.SetPositionY(p, p.PositionY()-h)
	case 'j':
		accepted = a.sim.SetPositionY(p, p.PositionY()+h)
	case 'H':
		a.sim.SetVelocityX(p, p.VelocityX()-velocityNudge)
	case 'L':
		a.sim.SetVelocityX(p, p.VelocityX()+velocityNudge)
	case 'K':
		a.sim.SetVelocityY(p, p.VelocityY()-velocityNudge)
	case 'J':
		a.sim.SetVelocityY(p, p.VelocityY()+velocityNudge)
	case '[':
		accepted = a.sim.SetRadius(p, p.Radius()/radiusFactor)
	case ']':
		accepted = a.sim.SetRadius(p, p.Radius()*radiusFactor)
	case 'm':
		a.sim.SetMass(p, p.Mass()/massFactor)
	case 'M':
		a.sim.SetMass(p, p.Mass()*massFactor)
	}
	if !accepted {
		a.message = "blocked by another particle"
	}
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0
	a.lastButtons = buttons
	if !pressed {
		return
	}

	x, y := ev.Position()
	if !a.view.contains(x, y) {
		return
	}
	a.createAt(a.view.toModel(x, y))
}

// createAt places a particle at point, shrunk to fit the gap to its nearest neighbor
func (a *app) createAt(point vmath.Vec) {
	a.message = ""
	gap := a.sim.DistanceToClosest(point)
	radius := math.Min(createRadius, gap*createGapFraction)
	if radius <= 0 {
		a.message = "inside a particle"
		return
	}
	p, ok := a.sim.CreateParticle(point.X, point.Y, radius)
	if !ok {
		a.message = "no room here"
		return
	}
	a.selected = p.ID()
}

// tick runs one autoplay step
func (a *app) tick() {
	if a.autoplay {
		a.sim.Step()
	}
}

func (a *app) selection() (engine.Snapshot, bool) {
	if a.selected == uuid.Nil {
		return engine.Snapshot{}, false
	}
	return a.sim.Lookup(a.selected)
}

// cycleSelection moves the selection through the live particles in insertion order
func (a *app) cycleSelection(dir int) {
	particles := a.sim.Particles()
	if len(particles) == 0 {
		a.selected = uuid.Nil
		return
	}

	next := 0
	if dir < 0 {
		next = len(particles) - 1
	}
	for i, p := range particles {
		if p.ID() == a.selected {
			next = (i + dir + len(particles)) % len(particles)
			break
		}
	}
	a.selected = particles[next].ID()
}

func nextGravityMode(m physics.GravityMode) physics.GravityMode {
	for i, mode := range gravityCycle {
		if mode == m {
			return gravityCycle[(i+1)%len(gravityCycle)]
		}
	}
	return gravityCycle[0]
}

func (a *app) draw() {
	a.screen.Clear()

	for _, p := range a.sim.Particles() {
		style := styleParticle
		if p.ID() == a.selected {
			style = styleSelected
		}
		a.drawParticle(p, style)
	}

	a.drawStatus()
	a.screen.Show()
}

// drawParticle fills every cell whose center lies inside the circle
// Particles smaller than a cell show as a single dot
func (a *app) drawParticle(p engine.Snapshot, style tcell.Style) {
	center, r := p.Position(), p.Radius()
	x0, y0 := a.view.toScreen(vmath.V(center.X-r, center.Y-r))
	x1, y1 := a.view.toScreen(vmath.V(center.X+r, center.Y+r))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, a.view.width-1), min(y1, a.view.height-1)

	filled := false
	for sy := y0; sy <= y1; sy++ {
		for sx := x0; sx <= x1; sx++ {
			if vmath.Distance(a.view.toModel(sx, sy), center) <= r {
				a.screen.SetContent(sx, sy, '█', nil, style)
				filled = true
			}
		}
	}

	if !filled {
		if sx, sy := a.view.toScreen(center); a.view.contains(sx, sy) {
			a.screen.SetContent(sx, sy, '•', nil, style)
		}
	}
}

func (a *app) drawStatus() {
	w := a.view.width
	row := a.view.height

	mode := "paused"
	if a.autoplay {
		mode = "playing"
	}
	line := fmt.Sprintf(" t=%d  n=%d  gravity=%s  G=%g  collisions=%s  %s  undo:%s redo:%s",
		a.sim.Time(), len(a.sim.Particles()),
		a.sim.GravityMode(), a.sim.GravitationalConstant(), a.sim.CollisionMode(),
		mode, yesNo(a.sim.CanUndo()), yesNo(a.sim.CanRedo()))
	drawText(a.screen, 0, row, w, line, styleStatus)

	detail := " click: create  Tab: select  space: step  p: play  u/r: undo/redo  g/c: modes  q: quit"
	style := styleDefault
	if p, ok := a.selection(); ok {
		detail = fmt.Sprintf(" selected (%.2f, %.2f)  v=(%.2f, %.2f)  r=%.2f  m=%.4g",
			p.PositionX(), p.PositionY(), p.VelocityX(), p.VelocityY(), p.Radius(), p.Mass())
	}
	if a.message != "" {
		detail = " " + a.message
		style = styleMessage
	}
	drawText(a.screen, 0, row+1, w, detail, style)
}

// drawText writes s from (x, y), padding with spaces to width
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		s.SetContent(x+col, y, ' ', nil, style)
	}
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
