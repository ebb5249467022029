package entity

// Action is a logical input the core understands. Input devices map their
// keys onto actions and report press/release through Ship.SetControl.
type Action int

const (
	ActionThrust Action = iota
	ActionReverse
	ActionRotateLeft
	ActionRotateRight
	ActionStrafeLeft
	ActionStrafeRight
	ActionZoomIn
	ActionZoomOut
	ActionBreakOrbit
)

var actionNames = map[Action]string{
	ActionThrust:      "thrust",
	ActionReverse:     "reverse",
	ActionRotateLeft:  "rotateLeft",
	ActionRotateRight: "rotateRight",
	ActionStrafeLeft:  "strafeLeft",
	ActionStrafeRight: "strafeRight",
	ActionZoomIn:      "zoomIn",
	ActionZoomOut:     "zoomOut",
	ActionBreakOrbit:  "breakOrbit",
}

// String returns the binding name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionFromString converts a binding name to an Action.
func ActionFromString(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return 0, false
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{
		ActionThrust, ActionReverse,
		ActionRotateLeft, ActionRotateRight,
		ActionStrafeLeft, ActionStrafeRight,
		ActionZoomIn, ActionZoomOut,
		ActionBreakOrbit,
	}
}

// IsMovement reports whether the action moves the ship. Zoom does not.
func (a Action) IsMovement() bool {
	switch a {
	case ActionThrust, ActionReverse, ActionRotateLeft, ActionRotateRight,
		ActionStrafeLeft, ActionStrafeRight, ActionBreakOrbit:
		return true
	}
	return false
}

// Controls holds the per-ship control flags driven by input.
type Controls struct {
	Thrust      bool
	Reverse     bool
	RotateLeft  bool
	RotateRight bool
	StrafeLeft  bool
	StrafeRight bool
	BreakOrbit  bool
}

// Moving reports whether any movement flag is set.
func (c Controls) Moving() bool {
	return c.Thrust || c.Reverse || c.RotateLeft || c.RotateRight ||
		c.StrafeLeft || c.StrafeRight || c.BreakOrbit
}

func (c *Controls) set(a Action, active bool) {
	switch a {
	case ActionThrust:
		c.Thrust = active
	case ActionReverse:
		c.Reverse = active
	case ActionRotateLeft:
		c.RotateLeft = active
	case ActionRotateRight:
		c.RotateRight = active
	case ActionStrafeLeft:
		c.StrafeLeft = active
	case ActionStrafeRight:
		c.StrafeRight = active
	case ActionBreakOrbit:
		c.BreakOrbit = active
	}
}
