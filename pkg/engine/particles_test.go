package engine

import (
	"math"
	"testing"

	"github.com/opd-ai/go-orbiter/pkg/physics"
)

func TestParticlePoolOverwritesOldest(t *testing.T) {
	pool := newParticlePool(3, 1, 0)
	for i := 0; i < 5; i++ {
		pool.emit(physics.Vector2D{X: float64(i)}, physics.Vector2D{})
	}
	if pool.count() != 3 {
		t.Fatalf("count = %d, want 3", pool.count())
	}

	pool.update(0)
	got := pool.snapshot()
	for i, want := range []float64{2, 3, 4} {
		if got[i].Position.X != want {
			t.Errorf("particle %d at x=%v, want %v", i, got[i].Position.X, want)
		}
	}
}

func TestParticlePoolAgesAndMoves(t *testing.T) {
	pool := newParticlePool(4, 0.5, 0)
	pool.emit(physics.Vector2D{}, physics.Vector2D{X: 2})

	pool.update(6)
	parts := pool.snapshot()
	if len(parts) != 1 {
		t.Fatalf("live particles = %d, want 1", len(parts))
	}
	if math.Abs(parts[0].Position.X-12) > 1e-9 {
		t.Errorf("position = %v, want 12", parts[0].Position.X)
	}
	if math.Abs(parts[0].Alpha()-0.8) > 1e-9 {
		t.Errorf("alpha = %v, want 0.8", parts[0].Alpha())
	}

	pool.update(30)
	if pool.count() != 0 {
		t.Errorf("expired particle still live")
	}
}

func TestParticlePoolDisabled(t *testing.T) {
	pool := newParticlePool(0, 1, 1)
	pool.emit(physics.Vector2D{}, physics.Vector2D{})
	if pool.count() != 0 {
		t.Error("zero-capacity pool accepted a particle")
	}
}
