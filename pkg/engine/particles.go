// pkg/engine/particles.go
package engine

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Particle is one thruster exhaust puff. Purely cosmetic.
type Particle struct {
	Position physics.Vector2D
	Velocity physics.Vector2D
	Age      float64 // seconds
	Lifetime float64 // seconds
}

// Alpha fades linearly from 1 to 0 over the particle's lifetime.
func (p Particle) Alpha() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return math.Max(0, 1-p.Age/p.Lifetime)
}

// particlePool is a fixed-capacity ring: when full, the oldest particle is
// overwritten. next indexes the oldest particle once the ring has wrapped.
type particlePool struct {
	items    []Particle
	spare    []Particle
	next     int
	lifetime float64
	speed    float64
}

func newParticlePool(capacity int, lifetime, speed float64) *particlePool {
	if capacity < 0 {
		capacity = 0
	}
	return &particlePool{
		items:    make([]Particle, 0, capacity),
		spare:    make([]Particle, 0, capacity),
		lifetime: lifetime,
		speed:    speed,
	}
}

func (p *particlePool) emit(pos, vel physics.Vector2D) {
	if cap(p.items) == 0 || p.lifetime <= 0 {
		return
	}
	part := Particle{Position: pos, Velocity: vel, Lifetime: p.lifetime}
	if len(p.items) < cap(p.items) {
		p.items = append(p.items, part)
		return
	}
	p.items[p.next] = part
	p.next = (p.next + 1) % len(p.items)
}

// exhaust emits a puff behind a thrusting ship.
func (p *particlePool) exhaust(ship *entity.Ship) {
	back := physics.FromAngle(ship.Rotation+math.Pi, 1)
	pos := ship.Position.Add(back.Scale(ship.Collider.Radius))
	p.emit(pos, ship.Velocity.Add(back.Scale(p.speed)))
}

// update ages and moves particles, dropping expired ones. Survivors are
// kept oldest first.
func (p *particlePool) update(steps float64) {
	seconds := steps * BaseTick
	n := len(p.items)
	live := p.spare[:0]
	for i := 0; i < n; i++ {
		part := p.items[(p.next+i)%n]
		part.Age += seconds
		if part.Age >= part.Lifetime {
			continue
		}
		part.Position = part.Position.Add(part.Velocity.Scale(steps))
		live = append(live, part)
	}
	p.spare = p.items[:0]
	p.items = live
	p.next = 0
}

func (p *particlePool) count() int { return len(p.items) }

func (p *particlePool) snapshot() []Particle {
	out := make([]Particle, len(p.items))
	copy(out, p.items)
	return out
}
