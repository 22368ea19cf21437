// Package dispatch fans lifecycle events out to subscribed modules.
//
// The dispatcher keeps one precomputed, ordered subscriber list per callback
// category plus the unload list. A failing subscriber (error or panic) is
// logged and never blocks delivery to the rest of the list.
package dispatch

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/domain/order"
)

// Entry is one installed module as seen by the dispatcher.
type Entry struct {
	Name string
	Keys order.Keys
	Caps module.Capability
	Inst module.Module
}

// FailureFunc is notified for every isolated subscriber failure.
type FailureFunc func(category, event, moduleName string, err error)

// Dispatcher owns the per-category subscriber lists.
// All methods are intended for the single engine control thread.
type Dispatcher struct {
	logger    zerolog.Logger
	onFailure FailureFunc

	behavior []Entry
	scene    []Entry
	build    []Entry
	asset    []Entry
	unload   []Entry

	// depth counts nested dispatch passes, so a hook that re-enters the
	// dispatcher (e.g. an update hook saving assets) keeps the outer pass
	// marked in-flight.
	depth int
}

// New creates an empty dispatcher.
func New(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// OnFailure registers a callback invoked for every isolated hook failure, in
// addition to logging. Used to feed metrics and the lifecycle journal.
func (d *Dispatcher) OnFailure(fn FailureFunc) {
	d.onFailure = fn
}

// Rebuild recomputes all subscriber lists from the loaded set. Each category
// is filtered by the capability detected at install time, then sorted in its
// own order space. Called once per load; orders are never cached across
// loads.
func (d *Dispatcher) Rebuild(set []Entry) {
	d.behavior = filter(set, module.CapBehavior)
	d.scene = filter(set, module.CapScene)
	d.build = filter(set, module.CapBuild)
	d.asset = filter(set, module.CapAsset)
	d.unload = filter(set, module.CapUnload)

	order.Sort(d.behavior, order.Behavior, entryKeys, entryName)
	order.Sort(d.scene, order.Scene, entryKeys, entryName)
	order.Sort(d.build, order.Build, entryKeys, entryName)
	order.Sort(d.asset, order.Asset, entryKeys, entryName)
	order.Sort(d.unload, order.Unload, entryKeys, entryName)
}

// Clear drops every subscriber list. Called during unload.
func (d *Dispatcher) Clear() {
	d.behavior = nil
	d.scene = nil
	d.build = nil
	d.asset = nil
	d.unload = nil
}

// InFlight reports whether a dispatch pass is currently running. The loader
// consults this to reject re-entrant load/unload calls from inside hooks.
func (d *Dispatcher) InFlight() bool {
	return d.depth > 0
}

// Subscribers returns the ordered subscriber names for one category's order
// space. Load order is not a dispatcher concern and returns nil.
func (d *Dispatcher) Subscribers(space order.Space) []string {
	var list []Entry
	switch space {
	case order.Behavior:
		list = d.behavior
	case order.Scene:
		list = d.scene
	case order.Build:
		list = d.build
	case order.Asset:
		list = d.asset
	case order.Unload:
		list = d.unload
	default:
		return nil
	}

	names := make([]string, len(list))
	for i, e := range list {
		names[i] = e.Name
	}
	return names
}

func filter(set []Entry, cap module.Capability) []Entry {
	var out []Entry
	for _, e := range set {
		if e.Caps.Has(cap) {
			out = append(out, e)
		}
	}
	return out
}

func entryKeys(e Entry) order.Keys { return e.Keys }
func entryName(e Entry) string     { return e.Name }

// call invokes fn with panic recovery. Failures are logged with the category,
// event and module name, reported to the failure callback, and swallowed so
// the remaining subscribers still run.
func (d *Dispatcher) call(category, event, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(category, event, name, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := fn(); err != nil {
		d.fail(category, event, name, err)
	}
}

func (d *Dispatcher) fail(category, event, name string, err error) {
	d.logger.Error().
		Err(err).
		Str("category", category).
		Str("event", event).
		Str("module", name).
		Msg("module hook failed")

	if d.onFailure != nil {
		d.onFailure(category, event, name, err)
	}
}

func (d *Dispatcher) begin() func() {
	d.depth++
	return func() { d.depth-- }
}
