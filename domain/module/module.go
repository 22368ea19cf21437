// Package module defines the contracts between the orchestrator and the
// modules it manages.
//
// A module is an opaque unit identified by its descriptor name. Modules opt
// into lifecycle participation by implementing the hook interfaces in this
// package; membership in each dispatch category is detected once at install
// time and never changes afterwards.
package module

import "context"

// Module is the unit managed by the loader. Concrete modules implement zero
// or more of the hook interfaces below.
type Module interface{}

// Kind selects the construction strategy for a module type.
type Kind int

const (
	// KindDefault modules are constructed fresh on every load.
	KindDefault Kind = iota

	// KindSettings modules are process-wide singletons: the first load
	// constructs the instance, later loads reuse it.
	KindSettings

	// KindSceneObject modules are backed by a scene node. The node is
	// created inactive under the hidden module parent and only activated
	// once the full wiring pipeline has completed.
	KindSceneObject
)

// String returns the kind name used in logs and the debug endpoint.
func (k Kind) String() string {
	switch k {
	case KindSettings:
		return "settings"
	case KindSceneObject:
		return "scene_object"
	default:
		return "default"
	}
}

// Tag names a functionality a module can provide to others. Tags are explicit
// identifiers; dependency resolution is a linear scan over declared tags, not
// type introspection.
type Tag string

// NodeID identifies a node in the host scene graph.
type NodeID string

// SceneMode describes how a scene transition was performed by the engine.
type SceneMode int

const (
	// SceneSingle replaces the entire scene. Single transitions trigger a
	// full module reload.
	SceneSingle SceneMode = iota

	// SceneAdditive loads a scene on top of the existing ones.
	SceneAdditive
)

// SceneInfo describes the scene involved in a scene event.
type SceneInfo struct {
	Name string
	Path string
	Mode SceneMode
}

// BuildInfo describes a build run reported by the host.
type BuildInfo struct {
	Target     string
	OutputPath string
}

// DeleteOptions carries host options for an asset delete interception.
type DeleteOptions struct {
	// Force requests deletion even if the asset appears to be in use.
	Force bool
}

// DeleteResult is the outcome of an asset delete interception.
type DeleteResult int

const (
	// DidNotDelete means the module did not handle the deletion.
	DidNotDelete DeleteResult = iota

	// DidDelete means the module deleted the asset itself.
	DidDelete
)

// Combine folds another module's result into this one. Any DidDelete wins.
func (r DeleteResult) Combine(other DeleteResult) DeleteResult {
	if r == DidDelete || other == DidDelete {
		return DidDelete
	}
	return DidNotDelete
}

// Loadable modules are notified once per load cycle, after dependency wiring
// and functionality injection have completed.
type Loadable interface {
	LoadModule(ctx context.Context) error
}

// Unloadable modules are notified during teardown, in unload order. Every
// unloadable module is always on the unload list.
type Unloadable interface {
	UnloadModule(ctx context.Context) error
}

// BehaviorHooks receive the host behavior lifecycle.
type BehaviorHooks interface {
	Awake(ctx context.Context) error
	Enable(ctx context.Context) error
	Start(ctx context.Context) error
	Update(ctx context.Context) error
	Disable(ctx context.Context) error
	Destroy(ctx context.Context) error
}

// SceneHooks receive scene transitions from the host.
type SceneHooks interface {
	SceneOpening(ctx context.Context, scene SceneInfo) error
	SceneOpened(ctx context.Context, scene SceneInfo) error
	SceneLoaded(ctx context.Context, scene SceneInfo) error
	SceneUnloaded(ctx context.Context, scene SceneInfo) error
	ActiveSceneChanged(ctx context.Context, previous, current SceneInfo) error
	NewSceneCreated(ctx context.Context, scene SceneInfo) error
}

// BuildHooks receive build pre/post processing and per-scene build steps.
type BuildHooks interface {
	PreprocessBuild(ctx context.Context, build BuildInfo) error
	ProcessScene(ctx context.Context, scene SceneInfo) error
	PostprocessBuild(ctx context.Context, build BuildInfo) error
}

// AssetHooks intercept asset pipeline operations.
type AssetHooks interface {
	// WillCreateAsset is called before an asset is created at path.
	WillCreateAsset(ctx context.Context, path string) error

	// WillSaveAssets receives the paths about to be saved and returns the
	// (possibly filtered) list that should actually be saved.
	WillSaveAssets(ctx context.Context, paths []string) ([]string, error)

	// WillDeleteAsset may handle deletion of the asset itself. Results are
	// OR-folded across modules: any DidDelete makes the aggregate DidDelete.
	WillDeleteAsset(ctx context.Context, path string, opts DeleteOptions) (DeleteResult, error)
}

// Provider marks a module as a functionality provider. Providers are handed
// to the injection module's islands during load.
type Provider interface {
	// Functionalities returns the tags this module provides.
	Functionalities() []Tag
}

// Dependency declares one capability a module consumes. The loader invokes
// Connect once for every loaded module whose descriptor declares the tag;
// multiple providers mean multiple calls.
type Dependency struct {
	Capability Tag
	Connect    func(provider Module) error
}

// DependencyConsumer modules declare the capabilities they consume.
type DependencyConsumer interface {
	Dependencies() []Dependency
}

// Island is an isolated partition of the functionality provider/consumer
// graph, owned by the injection module.
type Island interface {
	// AddProvider registers a provider with the island. Adding the same
	// provider twice must be a no-op so injection can be re-run.
	AddProvider(p Provider) error

	// Inject supplies target with the functionality it consumes.
	Inject(ctx context.Context, target Module) error
}

// Injector is the functionality-injection module. At most one is expected in
// a loaded set; its absence is a normal configuration.
type Injector interface {
	// BeforeLoad runs before any providers are registered for this cycle.
	BeforeLoad(ctx context.Context) error

	// Islands returns every island the injector owns.
	Islands() []Island

	// ActiveIsland returns the island used to inject the loaded set.
	ActiveIsland() Island
}

// NodeBound modules backed by a scene node receive their node handle after
// construction, before activation.
type NodeBound interface {
	BindNode(id NodeID)
}
