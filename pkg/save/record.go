// Package save defines the persisted ship record and the key-value store it
// is written through.
package save

// ShipRecord is the persisted shape of one ship.
type ShipRecord struct {
	ID          uint64
	TypeID      string
	Name        string
	Health      float64
	Consumables map[string]float64
	Location    Location
}

// Location is where a persisted ship is. It is implemented only by Docked,
// InSpace and InOrbit; consumers switch over those three.
type Location interface {
	kind() string
}

// Docked is a ship berthed at a dock, referenced by dock name.
type Docked struct {
	Dock  string
	Angle float64
}

// InSpace is a ship in free flight.
type InSpace struct {
	X, Y   float64
	VX, VY float64
	Angle  float64
}

// InOrbit is a ship locked in orbit, referenced by planet name.
type InOrbit struct {
	Planet      string
	Radius      float64
	Angle       float64
	LockedSpeed float64
	Direction   int
}

const (
	kindDocked = "docked"
	kindSpace  = "space"
	kindOrbit  = "orbit"
)

func (Docked) kind() string  { return kindDocked }
func (InSpace) kind() string { return kindSpace }
func (InOrbit) kind() string { return kindOrbit }

// KindOf names the location variant, "" for nil.
func KindOf(loc Location) string {
	if loc == nil {
		return ""
	}
	return loc.kind()
}
