package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/clp-research/expresso/tracking"
)

// Checkpoint keys. Metadata entries carry the "cp-" prefix so they can be
// forwarded to the tracker wholesale.
const (
	checkpointKeyState     = "state_dict"
	checkpointKeyOptimizer = "optimizer"
	checkpointKeyEpoch     = "cp-epoch"
	checkpointKeyModel     = "cp-model"
	checkpointKeyTask      = "cp-task"
	checkpointMetaPrefix   = "cp-"
)

// Checkpoint is a persisted snapshot of model and optimizer state plus the
// metadata needed to rebuild the model that produced it.
type Checkpoint struct {
	ModelState     State
	OptimizerState State
	Epoch          int
	Model          ComponentRef
	Task           TaskConfig

	// Extras holds any additional cp-* entries the saver recorded.
	Extras map[string]interface{}
}

// UnmarshalJSON decodes the checkpoint record, collecting unrecognized cp-*
// entries into Extras.
func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{
		checkpointKeyState, checkpointKeyOptimizer,
		checkpointKeyEpoch, checkpointKeyModel, checkpointKeyTask,
	} {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("checkpoint record is missing %q", key)
		}
	}
	if err := json.Unmarshal(raw[checkpointKeyState], &c.ModelState); err != nil {
		return fmt.Errorf("decoding %s: %w", checkpointKeyState, err)
	}
	if err := json.Unmarshal(raw[checkpointKeyOptimizer], &c.OptimizerState); err != nil {
		return fmt.Errorf("decoding %s: %w", checkpointKeyOptimizer, err)
	}
	if err := json.Unmarshal(raw[checkpointKeyEpoch], &c.Epoch); err != nil {
		return fmt.Errorf("decoding %s: %w", checkpointKeyEpoch, err)
	}
	if err := json.Unmarshal(raw[checkpointKeyModel], &c.Model); err != nil {
		return fmt.Errorf("decoding %s: %w", checkpointKeyModel, err)
	}
	if err := json.Unmarshal(raw[checkpointKeyTask], &c.Task); err != nil {
		return fmt.Errorf("decoding %s: %w", checkpointKeyTask, err)
	}
	c.Extras = make(map[string]interface{})
	for key, value := range raw {
		switch key {
		case checkpointKeyState, checkpointKeyOptimizer,
			checkpointKeyEpoch, checkpointKeyModel, checkpointKeyTask:
			continue
		}
		if !strings.HasPrefix(key, checkpointMetaPrefix) {
			continue
		}
		var decoded interface{}
		if err := json.Unmarshal(value, &decoded); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		c.Extras[key] = decoded
	}
	return nil
}

// MarshalJSON renders the checkpoint in its record form.
func (c Checkpoint) MarshalJSON() ([]byte, error) {
	record := map[string]interface{}{
		checkpointKeyState:     c.ModelState,
		checkpointKeyOptimizer: c.OptimizerState,
		checkpointKeyEpoch:     c.Epoch,
		checkpointKeyModel:     c.Model,
		checkpointKeyTask:      c.Task,
	}
	for key, value := range c.Extras {
		record[key] = value
	}
	return json.Marshal(record)
}

// Loggables returns every cp-* metadata entry of the checkpoint.
func (c *Checkpoint) Loggables() map[string]interface{} {
	entries := map[string]interface{}{
		checkpointKeyEpoch: c.Epoch,
		checkpointKeyModel: c.Model,
		checkpointKeyTask:  c.Task,
	}
	for key, value := range c.Extras {
		entries[key] = value
	}
	return entries
}

// LoadCheckpoint reads a checkpoint record from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &CheckpointError{AssemblyError: AssemblyError{Message: "reading checkpoint", Cause: err}, Path: path}
	}
	var ckpt Checkpoint
	if err := json.Unmarshal(raw, &ckpt); err != nil {
		return nil, &CheckpointError{AssemblyError: AssemblyError{Message: "decoding checkpoint", Cause: err}, Path: path}
	}
	return &ckpt, nil
}

// LogCheckpoint forwards the checkpoint's cp-* metadata to the tracker.
func LogCheckpoint(t tracking.Tracker, ckpt *Checkpoint) error {
	if t == nil {
		return nil
	}
	for key, value := range ckpt.Loggables() {
		if err := t.LogOther(key, value); err != nil {
			return err
		}
	}
	return nil
}
