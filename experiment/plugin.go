package experiment

import "sync"

// PluginKind identifies a component family in the registry.
type PluginKind string

const (
	KindModel       PluginKind = "model"
	KindDataset     PluginKind = "dataset"
	KindEnvironment PluginKind = "environment"
	KindLoss        PluginKind = "loss"
	KindStep        PluginKind = "step"
	KindCallback    PluginKind = "callback"
	KindSaver       PluginKind = "saver"
	KindOptimizer   PluginKind = "optimizer"
)

// DataSource tells a dataset factory where its samples come from: a named
// split, or a shared live environment.
type DataSource struct {
	Split string
	Env   Environment
}

// Factory signatures, one per plugin kind. Each mirrors the construction
// arguments its component family receives from the assembly layer.
type (
	ModelFactory       func(task TaskConfig, params Params) (Model, error)
	DatasetFactory     func(task TaskConfig, source DataSource, params Params, device Device) (Dataset, error)
	EnvironmentFactory func(task TaskConfig, params Params, split string, device Device) (Environment, error)
	LossFactory        func(kwargs Params) (LossFunc, error)
	StepFactory        func(kwargs Params) (StepFunc, error)
	CallbackFactory    func(kwargs Params) (Callback, error)
	SaverFactory       func(modelRef ComponentRef, task TaskConfig, kwargs Params) (Saver, error)
	OptimizerFactory   func(model Model, kwargs Params) (Optimizer, error)
)

// PluginRegistry maps component references to typed factory functions. Hosts
// register their models, datasets, callbacks and so on under the
// package/class identifiers their experiment configs use.
type PluginRegistry struct {
	models       map[string]ModelFactory
	datasets     map[string]DatasetFactory
	environments map[string]EnvironmentFactory
	losses       map[string]LossFactory
	steps        map[string]StepFactory
	callbacks    map[string]CallbackFactory
	savers       map[string]SaverFactory
	optimizers   map[string]OptimizerFactory
	mu           sync.RWMutex
}

// NewPluginRegistry creates an empty PluginRegistry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		models:       make(map[string]ModelFactory),
		datasets:     make(map[string]DatasetFactory),
		environments: make(map[string]EnvironmentFactory),
		losses:       make(map[string]LossFactory),
		steps:        make(map[string]StepFactory),
		callbacks:    make(map[string]CallbackFactory),
		savers:       make(map[string]SaverFactory),
		optimizers:   make(map[string]OptimizerFactory),
	}
}

func pluginID(pkg, class string) string { return pkg + "." + class }

// RegisterModel adds or replaces a model factory.
func (r *PluginRegistry) RegisterModel(pkg, class string, f ModelFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[pluginID(pkg, class)] = f
}

// RegisterDataset adds or replaces a dataset factory.
func (r *PluginRegistry) RegisterDataset(pkg, class string, f DatasetFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[pluginID(pkg, class)] = f
}

// RegisterEnvironment adds or replaces an environment factory.
func (r *PluginRegistry) RegisterEnvironment(pkg, class string, f EnvironmentFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.environments[pluginID(pkg, class)] = f
}

// RegisterLoss adds or replaces a loss-function factory.
func (r *PluginRegistry) RegisterLoss(pkg, class string, f LossFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.losses[pluginID(pkg, class)] = f
}

// RegisterStep adds or replaces a step-function factory.
func (r *PluginRegistry) RegisterStep(pkg, class string, f StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[pluginID(pkg, class)] = f
}

// RegisterCallback adds or replaces a callback factory.
func (r *PluginRegistry) RegisterCallback(pkg, class string, f CallbackFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[pluginID(pkg, class)] = f
}

// RegisterSaver adds or replaces a saver factory.
func (r *PluginRegistry) RegisterSaver(pkg, class string, f SaverFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savers[pluginID(pkg, class)] = f
}

// RegisterOptimizer adds or replaces an optimizer factory.
func (r *PluginRegistry) RegisterOptimizer(pkg, class string, f OptimizerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.optimizers[pluginID(pkg, class)] = f
}

func (r *PluginRegistry) resolveModel(ref ComponentRef) (ModelFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.models[ref.ID()]
	if !ok {
		return nil, resolutionError(KindModel, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveDataset(ref ComponentRef) (DatasetFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.datasets[ref.ID()]
	if !ok {
		return nil, resolutionError(KindDataset, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveEnvironment(ref ComponentRef) (EnvironmentFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.environments[ref.ID()]
	if !ok {
		return nil, resolutionError(KindEnvironment, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveLoss(ref ComponentRef) (LossFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.losses[ref.ID()]
	if !ok {
		return nil, resolutionError(KindLoss, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveStep(ref ComponentRef) (StepFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.steps[ref.ID()]
	if !ok {
		return nil, resolutionError(KindStep, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveCallback(ref ComponentRef) (CallbackFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.callbacks[ref.ID()]
	if !ok {
		return nil, resolutionError(KindCallback, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveSaver(ref ComponentRef) (SaverFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.savers[ref.ID()]
	if !ok {
		return nil, resolutionError(KindSaver, ref.Package, ref.Class)
	}
	return f, nil
}

func (r *PluginRegistry) resolveOptimizer(ref ComponentRef) (OptimizerFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.optimizers[ref.ID()]
	if !ok {
		return nil, resolutionError(KindOptimizer, ref.Package, ref.Class)
	}
	return f, nil
}

// DefaultRegistry is the process-wide registry. Plugins typically register
// into it from init functions; hosts that want isolation pass their own
// registry via WithRegistry.
var DefaultRegistry = NewPluginRegistry()

// RegisterModel registers a model factory in the default registry.
func RegisterModel(pkg, class string, f ModelFactory) {
	DefaultRegistry.RegisterModel(pkg, class, f)
}

// RegisterDataset registers a dataset factory in the default registry.
func RegisterDataset(pkg, class string, f DatasetFactory) {
	DefaultRegistry.RegisterDataset(pkg, class, f)
}

// RegisterEnvironment registers an environment factory in the default registry.
func RegisterEnvironment(pkg, class string, f EnvironmentFactory) {
	DefaultRegistry.RegisterEnvironment(pkg, class, f)
}

// RegisterLoss registers a loss-function factory in the default registry.
func RegisterLoss(pkg, class string, f LossFactory) {
	DefaultRegistry.RegisterLoss(pkg, class, f)
}

// RegisterStep registers a step-function factory in the default registry.
func RegisterStep(pkg, class string, f StepFactory) {
	DefaultRegistry.RegisterStep(pkg, class, f)
}

// RegisterCallback registers a callback factory in the default registry.
func RegisterCallback(pkg, class string, f CallbackFactory) {
	DefaultRegistry.RegisterCallback(pkg, class, f)
}

// RegisterSaver registers a saver factory in the default registry.
func RegisterSaver(pkg, class string, f SaverFactory) {
	DefaultRegistry.RegisterSaver(pkg, class, f)
}

// RegisterOptimizer registers an optimizer factory in the default registry.
func RegisterOptimizer(pkg, class string, f OptimizerFactory) {
	DefaultRegistry.RegisterOptimizer(pkg, class, f)
}
