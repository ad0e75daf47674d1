package experiment_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clp-research/expresso/experiment"
)

func writeCheckpoint(t *testing.T, record map[string]interface{}) string {
	t.Helper()
	raw, err := json.Marshal(record)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func checkpointRecord() map[string]interface{} {
	return map[string]interface{}{
		"state_dict": map[string]interface{}{"w1": []float64{0.1, 0.2}},
		"optimizer":  map[string]interface{}{"momentum": 0.9},
		"cp-epoch":   5,
		"cp-model":   map[string]interface{}{"package": "models", "class": "FromCkpt"},
		"cp-task":    map[string]interface{}{"name": "squareroot"},
		"cp-loss":    0.42,
		"not-meta":   "ignored",
	}
}

func TestLoadCheckpoint(t *testing.T) {
	path := writeCheckpoint(t, checkpointRecord())

	ckpt, err := experiment.LoadCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, 5, ckpt.Epoch)
	assert.Equal(t, "models.FromCkpt", ckpt.Model.ID())
	assert.Equal(t, "squareroot", ckpt.Task["name"])
	assert.Contains(t, ckpt.ModelState, "w1")
	assert.Contains(t, ckpt.OptimizerState, "momentum")

	// Extra cp-* entries are kept; anything unprefixed is not metadata.
	assert.Equal(t, 0.42, ckpt.Extras["cp-loss"])
	assert.NotContains(t, ckpt.Extras, "not-meta")
}

func TestLoadCheckpointMissingRequiredEntry(t *testing.T) {
	record := checkpointRecord()
	delete(record, "cp-epoch")
	path := writeCheckpoint(t, record)

	_, err := experiment.LoadCheckpoint(path)
	require.Error(t, err)

	var ckptErr *experiment.CheckpointError
	require.True(t, errors.As(err, &ckptErr))
	assert.Equal(t, path, ckptErr.Path)
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := experiment.LoadCheckpoint(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var ckptErr *experiment.CheckpointError
	require.True(t, errors.As(err, &ckptErr))
}

func TestCheckpointLoggables(t *testing.T) {
	ckpt, err := experiment.LoadCheckpoint(writeCheckpoint(t, checkpointRecord()))
	require.NoError(t, err)

	loggables := ckpt.Loggables()
	assert.Equal(t, 5, loggables["cp-epoch"])
	assert.Equal(t, 0.42, loggables["cp-loss"])
	assert.Contains(t, loggables, "cp-model")
	assert.Contains(t, loggables, "cp-task")
	assert.NotContains(t, loggables, "state_dict")
}

func TestLogCheckpoint(t *testing.T) {
	ckpt, err := experiment.LoadCheckpoint(writeCheckpoint(t, checkpointRecord()))
	require.NoError(t, err)

	tracker := newFakeTracker()
	require.NoError(t, experiment.LogCheckpoint(tracker, ckpt))

	assert.Equal(t, 5, tracker.others["cp-epoch"])
	assert.Equal(t, 0.42, tracker.others["cp-loss"])
	assert.Contains(t, tracker.others, "cp-model")
}

func TestCheckpointRoundTrip(t *testing.T) {
	original := experiment.Checkpoint{
		ModelState:     experiment.State{"w1": "blob"},
		OptimizerState: experiment.State{"momentum": 0.9},
		Epoch:          7,
		Model:          experiment.ComponentRef{Package: "models", Class: "Fake"},
		Task:           experiment.TaskConfig{"name": "speak"},
		Extras:         map[string]interface{}{"cp-dev-accuracy": 0.91},
	}
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var restored experiment.Checkpoint
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, 7, restored.Epoch)
	assert.Equal(t, "models.Fake", restored.Model.ID())
	assert.Equal(t, 0.91, restored.Extras["cp-dev-accuracy"])
}
