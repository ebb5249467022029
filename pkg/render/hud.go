package render

import (
	"fmt"

	"github.com/opd-ai/go-orbiter/pkg/engine"
)

// HUDLines formats the active ship's state for a text overlay.
func HUDLines(st engine.ShipState, zoom float64) []string {
	name := st.Name
	if name == "" {
		name = fmt.Sprintf("ship %d", st.ID)
	}

	status := st.Phase.String()
	switch {
	case st.Docked:
		status = "docked"
	case st.Planet != "":
		status = fmt.Sprintf("%s %s", st.Phase, st.Planet)
	}

	lines := []string{
		fmt.Sprintf("%s [%s]", name, st.TypeID),
		fmt.Sprintf("speed %6.2f  status %s", st.Speed, status),
		fmt.Sprintf("pos %8.0f,%8.0f  zoom %.2f", st.Position.X, st.Position.Y, zoom),
	}
	if st.NearestTarget != "" {
		lines = append(lines, fmt.Sprintf("nearest %s %.0f", st.NearestTarget, st.TargetDistance))
	}
	return lines
}
