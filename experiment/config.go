package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clp-research/expresso/tracking"
)

// TaskConfig describes the learning task. Its entries are passed through to
// model and dataset factories and logged as run parameters.
type TaskConfig map[string]interface{}

// ComponentRef identifies a dynamically constructible component and its
// construction arguments. Package and Class select a registered factory;
// Kwargs and Params are handed to it.
type ComponentRef struct {
	Package string `json:"package" yaml:"package"`
	Class   string `json:"class" yaml:"class"`
	Kwargs  Params `json:"kwargs,omitempty" yaml:"kwargs,omitempty"`
	Params  Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// ID returns the registry identifier for this reference.
func (r ComponentRef) ID() string {
	return r.Package + "." + r.Class
}

// IsZero reports whether the reference is unset.
func (r ComponentRef) IsZero() bool {
	return r.Package == "" && r.Class == ""
}

// Config is a declarative experiment description. It is the sole input
// surface of the assembly layer.
type Config struct {
	Name      string          `json:"name" yaml:"name"`
	Tracking  tracking.Config `json:"cometml" yaml:"cometml"`
	Task      TaskConfig      `json:"task" yaml:"task"`
	Model     ComponentRef    `json:"model" yaml:"model"`
	Dataset   ComponentRef    `json:"dataset" yaml:"dataset"`
	Params    Params          `json:"params" yaml:"params"`
	Env       *ComponentRef   `json:"env,omitempty" yaml:"env,omitempty"`
	Callbacks []ComponentRef  `json:"callbacks,omitempty" yaml:"callbacks,omitempty"`
	Savers    []ComponentRef  `json:"savers,omitempty" yaml:"savers,omitempty"`
	Tags      []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadConfig reads and validates an experiment configuration file. YAML and
// JSON files are both accepted.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{AssemblyError: AssemblyError{Message: "reading experiment config", Cause: err}}
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, &ConfigError{AssemblyError: AssemblyError{Message: fmt.Sprintf("decoding %s", path), Cause: err}}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the required configuration entries.
func (c Config) Validate() error {
	if c.Name == "" {
		return configErrorf("name", "experiment config requires a name")
	}
	if c.Task == nil {
		return configErrorf("task", "experiment config requires a task section")
	}
	if c.Model.IsZero() {
		return configErrorf("model", "experiment config requires a model reference")
	}
	if c.Model.Package == "" || c.Model.Class == "" {
		return configErrorf("model", "model reference requires package and class")
	}
	if c.Dataset.IsZero() {
		return configErrorf("dataset", "experiment config requires a dataset reference")
	}
	if c.Params == nil {
		return configErrorf("params", "experiment config requires a params section")
	}
	if c.Env != nil && (c.Env.Package == "" || c.Env.Class == "") {
		return configErrorf("env", "env reference requires package and class")
	}
	for i, ref := range c.Callbacks {
		if ref.Package == "" || ref.Class == "" {
			return configErrorf("callbacks", "callback %d requires package and class", i)
		}
	}
	for i, ref := range c.Savers {
		if ref.Package == "" || ref.Class == "" {
			return configErrorf("savers", "saver %d requires package and class", i)
		}
	}
	return nil
}

// IsDryRun reports whether the config requests a reduced single-step pass.
func (c Config) IsDryRun() bool {
	return IsDryRun(c.Params)
}

// refFromValue rebuilds a ComponentRef from a decoded mapping, as found in
// free-form params (e.g. params.loss_fn).
func refFromValue(v interface{}) (ComponentRef, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ComponentRef{}, fmt.Errorf("expected a mapping, got %T", v)
	}
	var ref ComponentRef
	if pkg, ok := m["package"].(string); ok {
		ref.Package = pkg
	}
	if class, ok := m["class"].(string); ok {
		ref.Class = class
	}
	if kwargs, ok := m["kwargs"].(map[string]interface{}); ok {
		ref.Kwargs = Params(kwargs)
	}
	if params, ok := m["params"].(map[string]interface{}); ok {
		ref.Params = Params(params)
	}
	if ref.Package == "" || ref.Class == "" {
		return ComponentRef{}, fmt.Errorf("mapping is missing package or class")
	}
	return ref, nil
}
