// Package health exposes liveness and readiness probe endpoints. Checks are
// evaluated on demand when a probe is hit, each bounded by its own timeout;
// readiness additionally gates on an explicit ready flag flipped by the
// application during startup and shutdown.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Health aggregates probes for one service.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []check
	readiness []check
}

// New creates a Health in the not-ready state.
func New() *Health {
	return &Health{}
}

// SetReady flips the readiness gate. Flip it to false before draining so load
// balancers stop routing new traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// AddLivenessCheck registers a liveness probe component.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a readiness probe component.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, check{name: name, timeout: timeout, fn: fn})
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := h.liveness
	h.mu.RUnlock()
	h.respond(w, r, checks, true)
}

// ReadyEndpoint serves the readiness probe. It fails immediately when the
// ready flag is down, without running any checks.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "draining"})
		return
	}
	h.mu.RLock()
	checks := h.readiness
	h.mu.RUnlock()
	h.respond(w, r, checks, false)
}

func (h *Health) respond(w http.ResponseWriter, r *http.Request, checks []check, live bool) {
	details := make(map[string]string, len(checks))
	healthy := true
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		err := c.fn(ctx)
		cancel()
		if err != nil {
			healthy = false
			details[c.name] = err.Error()
		} else {
			details[c.name] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	body := map[string]any{"status": statusWord(healthy), "checks": details}
	if live {
		body["probe"] = "liveness"
	} else {
		body["probe"] = "readiness"
	}
	writeStatus(w, status, body)
}

func statusWord(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "unhealthy"
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
