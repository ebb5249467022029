package render

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-orbiter/pkg/entity"
)

// DefaultHoldWindow is how long a key counts as held after its last press
// or auto-repeat. Terminals report presses only, never releases.
const DefaultHoldWindow = 150 * time.Millisecond

// DefaultKeyBindings maps runes to actions for the terminal client.
var DefaultKeyBindings = map[rune]entity.Action{
	'w': entity.ActionThrust,
	's': entity.ActionReverse,
	'a': entity.ActionRotateLeft,
	'd': entity.ActionRotateRight,
	'q': entity.ActionStrafeLeft,
	'e': entity.ActionStrafeRight,
	'+': entity.ActionZoomIn,
	'=': entity.ActionZoomIn,
	'-': entity.ActionZoomOut,
	'b': entity.ActionBreakOrbit,
}

var arrowBindings = map[tcell.Key]entity.Action{
	tcell.KeyUp:    entity.ActionThrust,
	tcell.KeyDown:  entity.ActionReverse,
	tcell.KeyLeft:  entity.ActionRotateLeft,
	tcell.KeyRight: entity.ActionRotateRight,
}

// KeyHold turns terminal key presses into press and release pairs: a press
// holds its action until no repeat has arrived for the hold window.
type KeyHold struct {
	bindings map[rune]entity.Action
	window   time.Duration
	held     map[entity.Action]time.Time
}

// NewKeyHold creates a KeyHold. Nil bindings use DefaultKeyBindings and a
// non-positive window uses DefaultHoldWindow.
func NewKeyHold(bindings map[rune]entity.Action, window time.Duration) *KeyHold {
	if bindings == nil {
		bindings = DefaultKeyBindings
	}
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &KeyHold{
		bindings: bindings,
		window:   window,
		held:     make(map[entity.Action]time.Time),
	}
}

// Press records a key event at now. It reports the bound action and whether
// it was newly pressed; repeats of a held key only extend the hold.
func (k *KeyHold) Press(ev *tcell.EventKey, now time.Time) (action entity.Action, pressed, ok bool) {
	if ev.Key() == tcell.KeyRune {
		action, ok = k.bindings[ev.Rune()]
	} else {
		action, ok = arrowBindings[ev.Key()]
	}
	if !ok {
		return 0, false, false
	}
	_, already := k.held[action]
	k.held[action] = now
	return action, !already, true
}

// Expire releases every action whose hold window has passed, in no
// particular order.
func (k *KeyHold) Expire(now time.Time) []entity.Action {
	var released []entity.Action
	for action, last := range k.held {
		if now.Sub(last) >= k.window {
			delete(k.held, action)
			released = append(released, action)
		}
	}
	return released
}

// Held reports whether action is currently held.
func (k *KeyHold) Held(action entity.Action) bool {
	_, ok := k.held[action]
	return ok
}
