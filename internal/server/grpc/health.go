package grpc

import (
	"sort"
	"sync"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Component names reported by the server.
const (
	ComponentStore  = "store"
	ComponentMirror = "mirror"
)

// Health tracks per-component status and publishes it through the standard
// gRPC health service. The empty service name reflects all components
// together.
type Health struct {
	mu         sync.RWMutex
	components map[string]bool
	srv        *health.Server
}

func NewHealth(components ...string) *Health {
	h := &Health{
		components: make(map[string]bool),
		srv:        health.NewServer(),
	}
	for _, c := range components {
		h.Report(c, true)
	}
	return h
}

// Report records whether component works.
func (h *Health) Report(component string, healthy bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.components[component] = healthy
	h.srv.SetServingStatus(component, servingStatus(healthy))

	overall := true
	for _, ok := range h.components {
		overall = overall && ok
	}
	h.srv.SetServingStatus("", servingStatus(overall))
}

// Statuses returns a copy of the latest report per component.
func (h *Health) Statuses() map[string]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]bool, len(h.components))
	for k, v := range h.components {
		out[k] = v
	}
	return out
}

// Components lists the known component names in order.
func (h *Health) Components() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.components))
	for k := range h.components {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func servingStatus(healthy bool) healthpb.HealthCheckResponse_ServingStatus {
	if healthy {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
