package experiment

import (
	"log"

	"github.com/clp-research/expresso/tracking"
)

// Option configures context assembly.
type Option func(*options)

type options struct {
	registry *PluginRegistry
	tracker  tracking.Tracker
}

// WithRegistry uses the given plugin registry instead of DefaultRegistry.
func WithRegistry(r *PluginRegistry) Option {
	return func(o *options) { o.registry = r }
}

// WithTracker uses a pre-built tracking client instead of constructing one
// from the config's tracking section.
func WithTracker(t tracking.Tracker) Option {
	return func(o *options) { o.tracker = t }
}

func applyOptions(opts []Option) options {
	o := options{registry: DefaultRegistry}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ExperimentContext bundles the run-wide collaborators every task shares:
// the experiment config, the tracking client, the compute device, one data
// provider per split, and the callback registry. It is built once per run
// and not mutated afterwards.
type ExperimentContext struct {
	Config    Config
	Tracker   tracking.Tracker
	Device    Device
	Providers map[string]*Provider
	Callbacks *CallbackRegistry
}

// NewExperimentContext assembles an experiment context from the config, in
// order: tracking client, tag and parameter logging, callbacks, device,
// providers.
func NewExperimentContext(cfg Config, splits []string, opts ...Option) (*ExperimentContext, error) {
	return newExperimentContext(cfg, splits, applyOptions(opts))
}

func newExperimentContext(cfg Config, splits []string, o options) (*ExperimentContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tracker := o.tracker
	if tracker == nil {
		var err error
		tracker, err = tracking.NewExperiment(cfg.Tracking, cfg.Name)
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.Tags) > 0 {
		if err := tracker.AddTags(cfg.Tags); err != nil {
			return nil, err
		}
	}
	if err := LogConfig(tracker, cfg); err != nil {
		return nil, err
	}

	callbacks, err := loadCallbacks(cfg, o.registry, tracker)
	if err != nil {
		return nil, err
	}

	device := DeviceFromParams(cfg.Params)

	providers, err := LoadProviders(cfg, splits, device, o.registry)
	if err != nil {
		return nil, err
	}

	return &ExperimentContext{
		Config:    cfg,
		Tracker:   tracker,
		Device:    device,
		Providers: providers,
		Callbacks: callbacks,
	}, nil
}

// IsDryRun reports whether the run is a reduced single-step pass.
func (c *ExperimentContext) IsDryRun() bool {
	return c.Config.IsDryRun()
}

// TrainingContext layers training state over an experiment context: the
// model, its optimizer, loss and step functions, the starting epoch, and the
// saver registry.
type TrainingContext struct {
	*ExperimentContext

	Model      Model
	Optimizer  Optimizer
	Loss       LossFunc
	Step       StepFunc
	EpochStart int
	Savers     *SaverRegistry
}

// NewTrainingContext assembles a training context. With the resume flag set,
// the checkpoint at resume_checkpoint_path is loaded, its weights restored
// non-strictly, the starting epoch advanced past the recorded one, and the
// optimizer state restored. The optimizer is always constructed after the
// model has been moved to its device.
func NewTrainingContext(cfg Config, splits []string, opts ...Option) (*TrainingContext, error) {
	o := applyOptions(opts)
	ec, err := newExperimentContext(cfg, splits, o)
	if err != nil {
		return nil, err
	}

	model, err := loadModel(o.registry, cfg.Model, cfg.Task)
	if err != nil {
		return nil, err
	}

	epochStart := 1
	var ckpt *Checkpoint
	if cfg.Params.Bool(ParamResume) {
		path, ok := cfg.Params.String(ParamResumeCheckpointPath)
		if !ok {
			return nil, configErrorf("params."+ParamResumeCheckpointPath,
				"resume requires params.resume_checkpoint_path")
		}
		ckpt, err = LoadCheckpoint(path)
		if err != nil {
			return nil, err
		}
		if err := LogCheckpoint(ec.Tracker, ckpt); err != nil {
			return nil, err
		}
		// Unlike prediction, resume keeps the experiment's own model and
		// task config.
		if err := model.LoadState(ckpt.ModelState, false); err != nil {
			return nil, &CheckpointError{AssemblyError: AssemblyError{Message: "restoring model state", Cause: err}, Path: path}
		}
		epochStart = ckpt.Epoch + 1
		log.Printf("experiment: resuming training from epoch %d", epochStart)
	}
	model.To(ec.Device)

	optimizer, err := loadOptimizer(cfg, o.registry, model)
	if err != nil {
		return nil, err
	}
	if ckpt != nil {
		if err := optimizer.LoadState(ckpt.OptimizerState); err != nil {
			return nil, &CheckpointError{AssemblyError: AssemblyError{Message: "restoring optimizer state", Cause: err}}
		}
	}

	savers, err := loadSavers(cfg, o.registry)
	if err != nil {
		return nil, err
	}
	loss, err := loadLoss(cfg, o.registry)
	if err != nil {
		return nil, err
	}
	step, err := loadStep(cfg, o.registry)
	if err != nil {
		return nil, err
	}

	return &TrainingContext{
		ExperimentContext: ec,
		Model:             model,
		Optimizer:         optimizer,
		Loss:              loss,
		Step:              step,
		EpochStart:        epochStart,
		Savers:            savers,
	}, nil
}

// PredictionContext layers a checkpoint-restored model over an experiment
// context. The live config's model section is ignored entirely; the model is
// rebuilt from the checkpoint's own recorded model and task config.
type PredictionContext struct {
	*ExperimentContext

	Model Model
}

// NewPredictionContext assembles a prediction context from the checkpoint at
// modelPath. An empty modelPath is a configuration error.
func NewPredictionContext(cfg Config, splits []string, modelPath string, opts ...Option) (*PredictionContext, error) {
	if modelPath == "" {
		return nil, configErrorf("model_path", "prediction requires a model path")
	}
	o := applyOptions(opts)
	ec, err := newExperimentContext(cfg, splits, o)
	if err != nil {
		return nil, err
	}

	ckpt, err := LoadCheckpoint(modelPath)
	if err != nil {
		return nil, err
	}
	if err := LogCheckpoint(ec.Tracker, ckpt); err != nil {
		return nil, err
	}

	model, err := loadModel(o.registry, ckpt.Model, ckpt.Task)
	if err != nil {
		return nil, err
	}
	if err := model.LoadState(ckpt.ModelState, false); err != nil {
		return nil, &CheckpointError{AssemblyError: AssemblyError{Message: "restoring model state", Cause: err}, Path: modelPath}
	}
	model.To(ec.Device)

	return &PredictionContext{ExperimentContext: ec, Model: model}, nil
}

// ProcessorContext is an experiment context used as-is for non-training data
// processing.
type ProcessorContext struct {
	*ExperimentContext
}

// NewProcessorContext assembles a processor context.
func NewProcessorContext(cfg Config, splits []string, opts ...Option) (*ProcessorContext, error) {
	ec, err := newExperimentContext(cfg, splits, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return &ProcessorContext{ExperimentContext: ec}, nil
}
