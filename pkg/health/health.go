// Package health serves liveness and readiness probes for the headless
// simulator. Readiness aggregates named checks over the scene, the save
// store and process memory.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthCheck is one named readiness condition.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated readiness report.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the outcome of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthChecker holds the registered checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names lists the registered checks in sorted order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The report is healthy only when all pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: statusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = statusUnhealthy
			status.Checks[name] = ComponentHealth{Status: statusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: statusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve HTTP at all.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs the checks with a five second budget and answers
// 200 or 503 with the report as JSON.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if report.Status == statusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}

// ErrSceneStalled is reported when the scene tick counter stops advancing.
var ErrSceneStalled = errors.New("scene tick stalled")

// SceneHealthCheck fails while the scene is not entered or its tick counter
// has not moved for longer than the stall window.
type SceneHealthCheck struct {
	entered func() bool
	tick    func() uint64
	stall   time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastTick uint64
	lastMove time.Time
}

// NewSceneHealthCheck watches a scene through its Entered and Tick methods.
func NewSceneHealthCheck(entered func() bool, tick func() uint64, stall time.Duration) *SceneHealthCheck {
	return &SceneHealthCheck{
		entered:  entered,
		tick:     tick,
		stall:    stall,
		now:      time.Now,
		lastMove: time.Now(),
	}
}

func (s *SceneHealthCheck) Name() string {
	return "scene"
}

func (s *SceneHealthCheck) Check(ctx context.Context) error {
	if !s.entered() {
		return fmt.Errorf("space scene is not entered")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if t := s.tick(); t != s.lastTick {
		s.lastTick = t
		s.lastMove = now
		return nil
	}
	if s.stall > 0 && now.Sub(s.lastMove) > s.stall {
		return fmt.Errorf("%w at tick %d for %s", ErrSceneStalled, s.lastTick, now.Sub(s.lastMove).Round(time.Millisecond))
	}
	return nil
}

// KeyLister is the part of the save store the store check exercises.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// StoreHealthCheck verifies the save store answers a key listing.
type StoreHealthCheck struct {
	store KeyLister
}

func NewStoreHealthCheck(store KeyLister) *StoreHealthCheck {
	return &StoreHealthCheck{store: store}
}

func (s *StoreHealthCheck) Name() string {
	return "save_store"
}

func (s *StoreHealthCheck) Check(ctx context.Context) error {
	if _, err := s.store.Keys(ctx, "fleet/"); err != nil {
		return fmt.Errorf("save store unavailable: %w", err)
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory check. A nil usage function reads
// the Go runtime's heap statistics.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = HeapMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if currentMB := m.getMemoryUsage(); currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// HeapMB returns the current heap allocation in megabytes.
func HeapMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc / (1024 * 1024))
}
