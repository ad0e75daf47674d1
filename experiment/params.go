package experiment

// Optional experiment param flags.
const (
	// ParamDryRun runs only one step for a single episode.
	ParamDryRun = "dry_run"

	// ParamCPUOnly forces the CPU device even when an accelerator is present.
	ParamCPUOnly = "cpu_only"

	// ParamResume resumes training from a checkpoint.
	ParamResume = "resume"

	// ParamResumeCheckpointPath locates the checkpoint to resume from.
	ParamResumeCheckpointPath = "resume_checkpoint_path"

	// ParamBatchSize sizes provider batches. Required when providers are built.
	ParamBatchSize = "batch_size"
)

// Params is a free-form parameter mapping as decoded from an experiment
// configuration. Well-known flags are accessed through the typed helpers;
// everything else is passed through to component factories untouched.
type Params map[string]interface{}

// Bool returns the named flag, or false when absent or not a bool.
func (p Params) Bool(key string) bool {
	v, ok := p[key].(bool)
	return ok && v
}

// Int returns the named value converted to int. YAML and JSON decoders
// produce different numeric types, so both are accepted; a float with a
// fractional part is not an int.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// String returns the named value if it is a string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Ref decodes the named value as a component reference.
func (p Params) Ref(key string) (ComponentRef, bool, error) {
	v, ok := p[key]
	if !ok {
		return ComponentRef{}, false, nil
	}
	ref, err := refFromValue(v)
	if err != nil {
		return ComponentRef{}, true, configErrorf("params."+key, "decoding component reference: %v", err)
	}
	return ref, true, nil
}

// IsDryRun reports whether the dry-run flag is set in the given params.
func IsDryRun(params Params) bool {
	return params.Bool(ParamDryRun)
}
