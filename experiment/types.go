package experiment

import "github.com/clp-research/expresso/tracking"

// State is a serialized parameter snapshot of a model or optimizer, keyed by
// parameter name. Weight layout is owned by the implementations; this layer
// only moves snapshots between checkpoints and components.
type State map[string]interface{}

// Sample is one dataset item: an input and its label. Both are opaque to the
// assembly layer.
type Sample struct {
	Input interface{}
	Label interface{}
}

// Model is the contract a trainable model exposes to the assembly layer.
type Model interface {
	// LoadState restores a parameter snapshot. When strict is false, unknown
	// and missing entries are tolerated.
	LoadState(state State, strict bool) error

	// State returns the current parameter snapshot.
	State() State

	// To moves the model's parameters to the given device.
	To(device Device)
}

// Dataset is an indexable collection of samples for one split.
type Dataset interface {
	Len() int
	Item(i int) (Sample, error)
}

// Environment is a live, driver-backed data source. A single instance is
// shared by every split's dataset; see LoadProviders.
type Environment interface {
	Close() error
}

// Callback observes training. Implementations live outside this layer; the
// registry only needs a stable name per instance.
type Callback interface {
	Name() string
}

// TrackerAware is the opt-in capability for callbacks that log through the
// experiment tracker. The loader injects the tracker right after
// construction.
type TrackerAware interface {
	SetTracker(t tracking.Tracker)
}

// Saver persists checkpoints during training.
type Saver interface {
	Name() string
}

// Optimizer updates model parameters. Constructed only after the model has
// been moved to its device.
type Optimizer interface {
	State() State
	LoadState(state State) error
}

// LossFunc scores a batch of outputs against labels.
type LossFunc interface {
	Compute(outputs, labels []interface{}) (float64, error)
}

// StepFunc runs one training or evaluation step.
type StepFunc interface {
	Step(model Model, batch Batch, loss LossFunc) (float64, error)
}
