// pkg/render/engo/hud.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
)

const (
	hudMargin     = 10
	hudLineHeight = 20
)

type hudLine struct {
	sprite
	text string
}

// HUDSystem shows the status lines in the top left corner of the window,
// one text entity per line. Entities are only rebuilt when a line changes.
type HUDSystem struct {
	sink  SpriteSystem
	font  *common.Font
	lines []*hudLine
}

// NewHUDSystem creates a HUD drawing into sink. A nil font leaves the text
// drawables empty, which is what the tests use.
func NewHUDSystem(sink SpriteSystem, font *common.Font) *HUDSystem {
	return &HUDSystem{sink: sink, font: font}
}

// NewHUDFont prepares the HUD font from a file already loaded into
// engo.Files.
func NewHUDFont(url string) (*common.Font, error) {
	font := &common.Font{
		URL:  url,
		FG:   color.White,
		Size: 16,
	}
	if err := font.CreatePreloaded(); err != nil {
		return nil, err
	}
	return font, nil
}

// SetLines replaces the displayed lines.
func (hud *HUDSystem) SetLines(lines []string) {
	for i, text := range lines {
		if i == len(hud.lines) {
			hud.lines = append(hud.lines, hud.newLine(i, text))
			continue
		}
		line := hud.lines[i]
		line.render.Hidden = false
		if line.text != text {
			hud.setText(line, text)
		}
	}
	for _, line := range hud.lines[len(lines):] {
		line.render.Hidden = true
	}
}

// Lines returns the visible lines.
func (hud *HUDSystem) Lines() []string {
	var out []string
	for _, line := range hud.lines {
		if !line.render.Hidden {
			out = append(out, line.text)
		}
	}
	return out
}

func (hud *HUDSystem) setText(line *hudLine, text string) {
	line.text = text
	if hud.font != nil {
		line.render.Drawable = common.Text{Font: hud.font, Text: text}
	}
	line.space.Width = float32(len(text) * 8)
}

// newLine builds a line entity. The text drawable must be set before the
// entity is added so the render system picks the text HUD shader.
func (hud *HUDSystem) newLine(i int, text string) *hudLine {
	line := &hudLine{sprite: sprite{basic: ecs.NewBasic()}}
	line.space = common.SpaceComponent{
		Position: engo.Point{X: hudMargin, Y: float32(hudMargin + i*hudLineHeight)},
		Height:   hudLineHeight,
	}
	hud.setText(line, text)
	line.render.SetShader(common.HUDShader)
	line.render.SetZIndex(layerHUD)
	hud.sink.Add(&line.basic, &line.render, &line.space)
	return line
}
