package save

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownLocation is returned when a record's location kind is not one
// of docked, space or orbit, or its payload is missing.
var ErrUnknownLocation = errors.New("unknown location kind")

// envelope is the wire form: a kind tag plus exactly one populated payload.
type envelope struct {
	ID          uint64             `msgpack:"id"`
	TypeID      string             `msgpack:"type"`
	Name        string             `msgpack:"name,omitempty"`
	Health      float64            `msgpack:"health"`
	Consumables map[string]float64 `msgpack:"consumables,omitempty"`
	Kind        string             `msgpack:"kind"`
	Docked      *dockedWire        `msgpack:"docked,omitempty"`
	Space       *spaceWire         `msgpack:"space,omitempty"`
	Orbit       *orbitWire         `msgpack:"orbit,omitempty"`
}

type dockedWire struct {
	Dock  string  `msgpack:"dock"`
	Angle float64 `msgpack:"angle"`
}

type spaceWire struct {
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	VX    float64 `msgpack:"vx"`
	VY    float64 `msgpack:"vy"`
	Angle float64 `msgpack:"angle"`
}

type orbitWire struct {
	Planet      string  `msgpack:"planet"`
	Radius      float64 `msgpack:"radius"`
	Angle       float64 `msgpack:"angle"`
	LockedSpeed float64 `msgpack:"lockedSpeed"`
	Direction   int     `msgpack:"direction"`
}

// EncodeRecord serializes a record with msgpack.
func EncodeRecord(r ShipRecord) ([]byte, error) {
	env := envelope{
		ID:          r.ID,
		TypeID:      r.TypeID,
		Name:        r.Name,
		Health:      r.Health,
		Consumables: r.Consumables,
	}
	switch loc := r.Location.(type) {
	case Docked:
		env.Kind = kindDocked
		env.Docked = &dockedWire{Dock: loc.Dock, Angle: loc.Angle}
	case InSpace:
		env.Kind = kindSpace
		env.Space = &spaceWire{X: loc.X, Y: loc.Y, VX: loc.VX, VY: loc.VY, Angle: loc.Angle}
	case InOrbit:
		env.Kind = kindOrbit
		env.Orbit = &orbitWire{
			Planet:      loc.Planet,
			Radius:      loc.Radius,
			Angle:       loc.Angle,
			LockedSpeed: loc.LockedSpeed,
			Direction:   loc.Direction,
		}
	default:
		return nil, fmt.Errorf("encode ship %d: %w %T", r.ID, ErrUnknownLocation, r.Location)
	}
	return msgpack.Marshal(&env)
}

// DecodeRecord parses a record written by EncodeRecord.
func DecodeRecord(data []byte) (ShipRecord, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return ShipRecord{}, fmt.Errorf("decode ship record: %w", err)
	}
	r := ShipRecord{
		ID:          env.ID,
		TypeID:      env.TypeID,
		Name:        env.Name,
		Health:      env.Health,
		Consumables: env.Consumables,
	}
	switch {
	case env.Kind == kindDocked && env.Docked != nil:
		r.Location = Docked{Dock: env.Docked.Dock, Angle: env.Docked.Angle}
	case env.Kind == kindSpace && env.Space != nil:
		s := env.Space
		r.Location = InSpace{X: s.X, Y: s.Y, VX: s.VX, VY: s.VY, Angle: s.Angle}
	case env.Kind == kindOrbit && env.Orbit != nil:
		o := env.Orbit
		r.Location = InOrbit{
			Planet:      o.Planet,
			Radius:      o.Radius,
			Angle:       o.Angle,
			LockedSpeed: o.LockedSpeed,
			Direction:   o.Direction,
		}
	default:
		return ShipRecord{}, fmt.Errorf("decode ship %d: %w %q", env.ID, ErrUnknownLocation, env.Kind)
	}
	return r, nil
}

// EncodeID and DecodeID store a bare ship id, used for the active-ship
// pointer.
func EncodeID(id uint64) ([]byte, error) {
	return msgpack.Marshal(id)
}

func DecodeID(data []byte) (uint64, error) {
	var id uint64
	if err := msgpack.Unmarshal(data, &id); err != nil {
		return 0, fmt.Errorf("decode ship id: %w", err)
	}
	return id, nil
}
