package experiment_test

import (
	"fmt"

	"github.com/clp-research/expresso/experiment"
	"github.com/clp-research/expresso/tracking"
)

// fakeTracker records every call for assertions.
type fakeTracker struct {
	key    string
	name   string
	tags   []string
	params map[string]interface{}
	others map[string]interface{}
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		key:    "fake-key",
		params: make(map[string]interface{}),
		others: make(map[string]interface{}),
	}
}

func (t *fakeTracker) LogParameters(params map[string]interface{}) error {
	for name, value := range params {
		t.params[name] = value
	}
	return nil
}

func (t *fakeTracker) LogOther(key string, value interface{}) error {
	t.others[key] = value
	return nil
}

func (t *fakeTracker) AddTags(tags []string) error {
	t.tags = append(t.tags, tags...)
	return nil
}

func (t *fakeTracker) SetName(name string) error {
	t.name = name
	return nil
}

func (t *fakeTracker) ExperimentKey() string { return t.key }

// fakeModel records state restoration and device placement.
type fakeModel struct {
	task        experiment.TaskConfig
	params      experiment.Params
	state       experiment.State
	loadedState experiment.State
	strict      bool
	device      experiment.Device
	moved       bool
}

func (m *fakeModel) LoadState(state experiment.State, strict bool) error {
	m.loadedState = state
	m.strict = strict
	return nil
}

func (m *fakeModel) State() experiment.State { return m.state }

func (m *fakeModel) To(device experiment.Device) {
	m.device = device
	m.moved = true
}

// fakeDataset serves n distinct samples and remembers its construction
// arguments.
type fakeDataset struct {
	n      int
	source experiment.DataSource
	params experiment.Params
	device experiment.Device
}

func (d *fakeDataset) Len() int { return d.n }

func (d *fakeDataset) Item(i int) (experiment.Sample, error) {
	if i < 0 || i >= d.n {
		return experiment.Sample{}, fmt.Errorf("index %d out of range", i)
	}
	return experiment.Sample{Input: fmt.Sprintf("x%d", i), Label: i}, nil
}

type fakeEnv struct{ closed bool }

func (e *fakeEnv) Close() error {
	e.closed = true
	return nil
}

// fakeMetric is a plain named callback.
type fakeMetric struct{ name string }

func (m *fakeMetric) Name() string { return m.name }

// fakeMerger is a callback referencing earlier callbacks, and opts into
// tracker injection.
type fakeMerger struct {
	name    string
	metrics []experiment.Callback
	tracker tracking.Tracker
}

func (m *fakeMerger) Name() string                  { return m.name }
func (m *fakeMerger) SetTracker(t tracking.Tracker) { m.tracker = t }

type fakeSaver struct {
	name     string
	modelRef experiment.ComponentRef
	task     experiment.TaskConfig
	kwargs   experiment.Params
}

func (s *fakeSaver) Name() string { return s.name }

type fakeOptimizer struct {
	model       experiment.Model
	modelMoved  bool
	loadedState experiment.State
}

func (o *fakeOptimizer) State() experiment.State { return experiment.State{"lr": 0.001} }

func (o *fakeOptimizer) LoadState(state experiment.State) error {
	o.loadedState = state
	return nil
}

type fakeLoss struct{ kwargs experiment.Params }

func (l *fakeLoss) Compute(outputs, labels []interface{}) (float64, error) { return 0, nil }

type fakeStep struct{ kwargs experiment.Params }

func (s *fakeStep) Step(model experiment.Model, batch experiment.Batch, loss experiment.LossFunc) (float64, error) {
	return 0, nil
}

// testRegistry registers fakes for every plugin kind and exposes the
// constructed instances for assertions.
type testRegistry struct {
	*experiment.PluginRegistry

	models     []*fakeModel
	datasets   []*fakeDataset
	envs       []*fakeEnv
	optimizers []*fakeOptimizer
	savers     []*fakeSaver
}

func newTestRegistry() *testRegistry {
	r := &testRegistry{PluginRegistry: experiment.NewPluginRegistry()}

	r.RegisterModel("models", "Fake", func(task experiment.TaskConfig, params experiment.Params) (experiment.Model, error) {
		m := &fakeModel{task: task, params: params, state: experiment.State{}}
		r.models = append(r.models, m)
		return m, nil
	})
	r.RegisterDataset("datasets", "Fake", func(task experiment.TaskConfig, source experiment.DataSource, params experiment.Params, device experiment.Device) (experiment.Dataset, error) {
		d := &fakeDataset{n: 10, source: source, params: params, device: device}
		r.datasets = append(r.datasets, d)
		return d, nil
	})
	r.RegisterEnvironment("envs", "Fake", func(task experiment.TaskConfig, params experiment.Params, split string, device experiment.Device) (experiment.Environment, error) {
		e := &fakeEnv{}
		r.envs = append(r.envs, e)
		return e, nil
	})
	r.RegisterCallback("callbacks", "Metric", func(kwargs experiment.Params) (experiment.Callback, error) {
		name, _ := kwargs.String("name")
		return &fakeMetric{name: name}, nil
	})
	r.RegisterCallback("callbacks", "Merger", func(kwargs experiment.Params) (experiment.Callback, error) {
		name, _ := kwargs.String("name")
		merger := &fakeMerger{name: name}
		if metrics, ok := kwargs["metrics"].([]experiment.Callback); ok {
			merger.metrics = metrics
		}
		return merger, nil
	})
	r.RegisterSaver("savers", "Fake", func(modelRef experiment.ComponentRef, task experiment.TaskConfig, kwargs experiment.Params) (experiment.Saver, error) {
		name, ok := kwargs.String("name")
		if !ok {
			name = "best-saver"
		}
		s := &fakeSaver{name: name, modelRef: modelRef, task: task, kwargs: kwargs}
		r.savers = append(r.savers, s)
		return s, nil
	})
	r.RegisterOptimizer(experiment.DefaultOptimizerRef.Package, experiment.DefaultOptimizerRef.Class,
		func(model experiment.Model, kwargs experiment.Params) (experiment.Optimizer, error) {
			o := &fakeOptimizer{model: model}
			if m, ok := model.(*fakeModel); ok {
				o.modelMoved = m.moved
			}
			r.optimizers = append(r.optimizers, o)
			return o, nil
		})
	r.RegisterLoss(experiment.DefaultLossRef.Package, experiment.DefaultLossRef.Class,
		func(kwargs experiment.Params) (experiment.LossFunc, error) {
			return &fakeLoss{kwargs: kwargs}, nil
		})
	r.RegisterStep(experiment.DefaultStepRef.Package, experiment.DefaultStepRef.Class,
		func(kwargs experiment.Params) (experiment.StepFunc, error) {
			return &fakeStep{kwargs: kwargs}, nil
		})
	return r
}

// baseConfig is a minimal valid experiment configuration wired to the fakes.
func baseConfig() experiment.Config {
	return experiment.Config{
		Name:    "test-experiment",
		Task:    experiment.TaskConfig{"name": "squareroot"},
		Model:   experiment.ComponentRef{Package: "models", Class: "Fake"},
		Dataset: experiment.ComponentRef{Package: "datasets", Class: "Fake"},
		Params:  experiment.Params{"batch_size": 4, "cpu_only": true},
	}
}
