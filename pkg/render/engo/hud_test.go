package engo

import (
	"slices"
	"testing"
)

func TestHUDSystemSetLines(t *testing.T) {
	sink := &fakeSink{}
	hud := NewHUDSystem(sink, nil)

	hud.SetLines([]string{"Kestrel [courier]", "speed 1.00", "pos 0,0"})
	if got := hud.Lines(); !slices.Equal(got, []string{"Kestrel [courier]", "speed 1.00", "pos 0,0"}) {
		t.Fatalf("Lines() = %q", got)
	}
	if len(sink.added) != 3 {
		t.Errorf("entities added = %d, want 3", len(sink.added))
	}
	if y := hud.lines[2].space.Position.Y; y != hudMargin+2*hudLineHeight {
		t.Errorf("third line y = %v, want %v", y, hudMargin+2*hudLineHeight)
	}

	hud.SetLines([]string{"Mule [hauler]"})
	if got := hud.Lines(); !slices.Equal(got, []string{"Mule [hauler]"}) {
		t.Errorf("Lines() after shrink = %q", got)
	}
	if !hud.lines[1].render.Hidden || !hud.lines[2].render.Hidden {
		t.Error("surplus lines should be hidden")
	}

	hud.SetLines([]string{"Mule [hauler]", "speed 0.00", "pos 1,1", "nearest Gaia 40"})
	if len(sink.added) != 4 {
		t.Errorf("entities added = %d, want 4 (hidden lines reused)", len(sink.added))
	}
	if len(hud.Lines()) != 4 {
		t.Errorf("Lines() = %q, want 4 lines", hud.Lines())
	}
}
