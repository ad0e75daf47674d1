package experiment

import (
	"github.com/clp-research/expresso/tracking"
)

// Params keys naming pluggable training components.
const (
	paramLossFn    = "loss_fn"
	paramStepFn    = "step_fn"
	paramOptimizer = "optimizer"
)

// metricsKwarg is the callback kwarg holding by-name references to earlier
// callbacks.
const metricsKwarg = "metrics"

// Well-known component references used when the experiment config does not
// name a loss, step, or optimizer. Hosts register factories under these to
// provide defaults.
var (
	DefaultLossRef      = ComponentRef{Package: "losses", Class: "CrossEntropy"}
	DefaultStepRef      = ComponentRef{Package: "steps", Class: "TrainingStep"}
	DefaultOptimizerRef = ComponentRef{Package: "optimizers", Class: "Adam"}
)

// LogConfig records the experiment's parameter sections under prefixed names:
// exp- for run params, model- and ds- for component params, task- for the
// task section.
func LogConfig(t tracking.Tracker, cfg Config) error {
	if err := t.LogParameters(applyPrefix(cfg.Params, "exp")); err != nil {
		return err
	}
	if cfg.Model.Params != nil {
		if err := t.LogParameters(applyPrefix(cfg.Model.Params, "model")); err != nil {
			return err
		}
	}
	if cfg.Dataset.Params != nil {
		if err := t.LogParameters(applyPrefix(cfg.Dataset.Params, "ds")); err != nil {
			return err
		}
	}
	if cfg.Task != nil {
		if err := t.LogParameters(applyPrefix(cfg.Task, "task")); err != nil {
			return err
		}
	}
	return nil
}

func applyPrefix(params map[string]interface{}, prefix string) map[string]interface{} {
	prefixed := make(map[string]interface{}, len(params))
	for name, value := range params {
		prefixed[prefix+"-"+name] = value
	}
	return prefixed
}

// loadCallbacks constructs the configured callbacks in order. A callback
// whose kwargs carry a metrics name list gets the list replaced by the
// already-constructed instances; referencing a later entry fails. Callbacks
// implementing TrackerAware receive the tracker right after construction.
func loadCallbacks(cfg Config, plugins *PluginRegistry, tracker tracking.Tracker) (*CallbackRegistry, error) {
	registry := NewCallbackRegistry()
	for _, ref := range cfg.Callbacks {
		kwargs := ref.Kwargs
		if raw, ok := kwargs[metricsKwarg]; ok {
			resolved, err := resolveMetricRefs(raw, registry)
			if err != nil {
				return nil, err
			}
			kwargs = cloneParams(kwargs)
			kwargs[metricsKwarg] = resolved
		}

		factory, err := plugins.resolveCallback(ref)
		if err != nil {
			return nil, err
		}
		cb, err := factory(kwargs)
		if err != nil {
			return nil, constructionError(KindCallback, ref.ID(), err)
		}
		if aware, ok := cb.(TrackerAware); ok {
			aware.SetTracker(tracker)
		}
		registry.Add(cb)
	}
	return registry, nil
}

// resolveMetricRefs maps a list of callback names to their constructed
// instances. Decoded configs carry []interface{}; configs assembled in Go
// carry []string.
func resolveMetricRefs(raw interface{}, registry *CallbackRegistry) ([]Callback, error) {
	var names []string
	switch v := raw.(type) {
	case []string:
		names = v
	case []interface{}:
		names = make([]string, 0, len(v))
		for _, entry := range v {
			name, ok := entry.(string)
			if !ok {
				return nil, configErrorf("callbacks", "metrics entry must be a callback name, got %T", entry)
			}
			names = append(names, name)
		}
	default:
		return nil, configErrorf("callbacks", "metrics kwarg must be a list of callback names, got %T", raw)
	}
	resolved := make([]Callback, 0, len(names))
	for _, name := range names {
		cb, err := registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, cb)
	}
	return resolved, nil
}

func cloneParams(params Params) Params {
	clone := make(Params, len(params))
	for key, value := range params {
		clone[key] = value
	}
	return clone
}

// loadSavers constructs the configured savers in order. Each saver receives
// the experiment's model and task sections so checkpoints can record them.
func loadSavers(cfg Config, plugins *PluginRegistry) (*SaverRegistry, error) {
	registry := NewSaverRegistry()
	for _, ref := range cfg.Savers {
		factory, err := plugins.resolveSaver(ref)
		if err != nil {
			return nil, err
		}
		saver, err := factory(cfg.Model, cfg.Task, ref.Kwargs)
		if err != nil {
			return nil, constructionError(KindSaver, ref.ID(), err)
		}
		registry.Add(saver)
	}
	return registry, nil
}

func loadModel(plugins *PluginRegistry, ref ComponentRef, task TaskConfig) (Model, error) {
	factory, err := plugins.resolveModel(ref)
	if err != nil {
		return nil, err
	}
	model, err := factory(task, ref.Params)
	if err != nil {
		return nil, constructionError(KindModel, ref.ID(), err)
	}
	return model, nil
}

func loadLoss(cfg Config, plugins *PluginRegistry) (LossFunc, error) {
	ref, found, err := cfg.Params.Ref(paramLossFn)
	if err != nil {
		return nil, err
	}
	if !found {
		ref = DefaultLossRef
	}
	factory, err := plugins.resolveLoss(ref)
	if err != nil {
		return nil, err
	}
	loss, err := factory(ref.Kwargs)
	if err != nil {
		return nil, constructionError(KindLoss, ref.ID(), err)
	}
	return loss, nil
}

func loadStep(cfg Config, plugins *PluginRegistry) (StepFunc, error) {
	ref, found, err := cfg.Params.Ref(paramStepFn)
	if err != nil {
		return nil, err
	}
	if !found {
		ref = DefaultStepRef
	}
	factory, err := plugins.resolveStep(ref)
	if err != nil {
		return nil, err
	}
	step, err := factory(ref.Kwargs)
	if err != nil {
		return nil, constructionError(KindStep, ref.ID(), err)
	}
	return step, nil
}

// loadOptimizer runs after the model has been moved to its device, so
// optimizer state is created against the placed parameters.
func loadOptimizer(cfg Config, plugins *PluginRegistry, model Model) (Optimizer, error) {
	ref, found, err := cfg.Params.Ref(paramOptimizer)
	if err != nil {
		return nil, err
	}
	if !found {
		ref = DefaultOptimizerRef
	}
	factory, err := plugins.resolveOptimizer(ref)
	if err != nil {
		return nil, err
	}
	optimizer, err := factory(model, ref.Kwargs)
	if err != nil {
		return nil, constructionError(KindOptimizer, ref.ID(), err)
	}
	return optimizer, nil
}

// LoadProviders builds one batching provider per requested split.
//
// When an environment is configured, a single instance backs every split's
// dataset; instantiating one environment per split trips driver-level
// failures in windowed backends, so the instance is shared and the split name
// is pushed into the dataset params instead. Shuffling applies only to the
// train split and only without an environment.
func LoadProviders(cfg Config, splits []string, device Device, plugins *PluginRegistry) (map[string]*Provider, error) {
	batchSize, ok := cfg.Params.Int(ParamBatchSize)
	if !ok {
		return nil, configErrorf("params."+ParamBatchSize, "providers require params.batch_size")
	}
	if batchSize <= 0 {
		return nil, configErrorf("params."+ParamBatchSize, "batch_size must be positive, got %d", batchSize)
	}

	var env Environment
	if cfg.Env != nil {
		factory, err := plugins.resolveEnvironment(*cfg.Env)
		if err != nil {
			return nil, err
		}
		env, err = factory(cfg.Task, cfg.Env.Params, "env", device)
		if err != nil {
			return nil, constructionError(KindEnvironment, cfg.Env.ID(), err)
		}
	}

	factory, err := plugins.resolveDataset(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	providers := make(map[string]*Provider, len(splits))
	for _, split := range splits {
		source := DataSource{Split: split}
		params := cfg.Dataset.Params
		if env != nil {
			source.Env = env
			params = cloneParams(params)
			params["split_name"] = split
		}
		dataset, err := factory(cfg.Task, source, params, device)
		if err != nil {
			return nil, constructionError(KindDataset, cfg.Dataset.ID(), err)
		}
		shuffle := split == TrainSplit && env == nil
		providers[split] = NewProvider(split, dataset, batchSize, shuffle)
	}
	return providers, nil
}
