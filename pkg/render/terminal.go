package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Terminal cells are treated as CellWidth x CellHeight pixels so the camera
// keeps its usual pixel viewport.
const (
	CellWidth  = 8
	CellHeight = 16
)

var (
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFleet    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	stylePlanet   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDock     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// headingGlyphs are indexed by heading in eighths of a turn, starting at +X
// and turning toward +Y (down the screen).
var headingGlyphs = [8]rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}

// TerminalRenderer draws the scene as characters on a tcell screen.
type TerminalRenderer struct {
	screen tcell.Screen
	camera *camera.Camera
	cols   int
	rows   int
}

// NewTerminalRenderer draws onto screen through cam.
func NewTerminalRenderer(screen tcell.Screen, cam *camera.Camera) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen, camera: cam}
	r.resize()
	return r
}

func (r *TerminalRenderer) resize() {
	r.cols, r.rows = r.screen.Size()
	r.camera.SetViewport(float64(r.cols*CellWidth), float64(r.rows*CellHeight))
}

// cell maps a world point to a terminal cell.
func (r *TerminalRenderer) cell(p physics.Vector2D) (int, int, bool) {
	s := r.camera.WorldToScreen(p)
	x := int(math.Floor(s.X / CellWidth))
	y := int(math.Floor(s.Y / CellHeight))
	return x, y, x >= 0 && x < r.cols && y >= 0 && y < r.rows
}

func (r *TerminalRenderer) put(p physics.Vector2D, ch rune, style tcell.Style) {
	if x, y, ok := r.cell(p); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// Clear picks up terminal resizes and blanks the screen.
func (r *TerminalRenderer) Clear() {
	r.resize()
	r.screen.Clear()
}

func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// HeadingGlyph returns the arrow character for a heading.
func HeadingGlyph(rotation float64) rune {
	eighth := int(math.Round(rotation/(math.Pi/4))) % 8
	if eighth < 0 {
		eighth += 8
	}
	return headingGlyphs[eighth]
}

func (r *TerminalRenderer) RenderShip(ship *entity.Ship) {
	style := styleFleet
	if ship.Controllable {
		style = styleActive
	}
	glyph := HeadingGlyph(ship.Rotation)
	if ship.Docked {
		glyph = '#'
	}
	r.put(ship.Position, glyph, style)
}

// RenderPlanet draws the planet's outline, sampled densely enough that a
// large planet stays a closed ring, and its initial at the centre.
func (r *TerminalRenderer) RenderPlanet(planet *entity.Planet) {
	pixels := planet.Radius * r.camera.Zoom()
	samples := int(math.Min(math.Max(2*math.Pi*pixels/CellWidth, 8), 720))
	for i := 0; i < samples; i++ {
		a := 2 * math.Pi * float64(i) / float64(samples)
		r.put(planet.Position.Add(physics.FromAngle(a, planet.Radius)), '.', stylePlanet)
	}
	initial := 'O'
	if planet.Name != "" {
		initial = []rune(planet.Name)[0]
	}
	r.put(planet.Position, initial, stylePlanet)
}

func (r *TerminalRenderer) RenderDock(dock *entity.Dock) {
	x, y, ok := r.cell(dock.Position)
	if !ok {
		return
	}
	for i, ch := range "[H]" {
		if cx := x - 1 + i; cx >= 0 && cx < r.cols {
			r.screen.SetContent(cx, y, ch, nil, styleDock)
		}
	}
}

func (r *TerminalRenderer) RenderParticle(p engine.Particle) {
	ch := '.'
	if p.Alpha() > 0.5 {
		ch = '*'
	}
	r.put(p.Position, ch, styleParticle)
}

// RenderHUD writes lines in the top-left corner.
func (r *TerminalRenderer) RenderHUD(lines []string) {
	for y, line := range lines {
		if y >= r.rows {
			return
		}
		x := 0
		for _, ch := range line {
			if x >= r.cols {
				break
			}
			r.screen.SetContent(x, y, ch, nil, styleHUD)
			x++
		}
	}
}

// ScreenToWorld maps a terminal cell to the world point under its centre.
func (r *TerminalRenderer) ScreenToWorld(x, y int) physics.Vector2D {
	return r.camera.ScreenToWorld(physics.Vector2D{
		X: (float64(x) + 0.5) * CellWidth,
		Y: (float64(y) + 0.5) * CellHeight,
	})
}
