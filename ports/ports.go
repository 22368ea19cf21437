// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/modrig/modrig/domain/module"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// -----------------------------------------------------------------------------
// Engine Ports
// -----------------------------------------------------------------------------

// SceneGraph is the host's scene/object system. The orchestrator uses it only
// to host scene-backed modules: it creates their nodes inactive under a
// hidden parent, activates them once wiring completes, and destroys them
// during unload.
type SceneGraph interface {
	// CreateNode creates a node. An empty parent means a root node.
	CreateNode(ctx context.Context, name string, parent module.NodeID, active bool) (module.NodeID, error)

	// SetActive toggles a node's active state.
	SetActive(ctx context.Context, id module.NodeID, active bool) error

	// DestroyNode removes a node and its children.
	DestroyNode(ctx context.Context, id module.NodeID) error
}

// -----------------------------------------------------------------------------
// Observability Ports
// -----------------------------------------------------------------------------

// Event is one lifecycle journal record. The journal is an append-only audit
// trail; it is never read back to restore state.
type Event struct {
	Time     time.Time
	Cycle    string // load-cycle ID the event belongs to
	Kind     string // e.g. "load_started", "construct_failed", "hook_failed"
	Module   string // module name, empty for cycle-level events
	Category string // dispatch category for hook events
	Detail   string
}

// Journal persists lifecycle events.
type Journal interface {
	Record(ctx context.Context, e Event) error
	Close() error
}

// Metrics receives orchestration counters. The Prometheus implementation
// lives in adapters/metrics.
type Metrics interface {
	LoadStarted()
	LoadCompleted(modules int, duration time.Duration)
	UnloadCompleted()
	ConstructFailure()
	HookFailure(category string)
	WiringConnection(failed bool)
}
