package experiment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clp-research/expresso/experiment"
)

func TestCallbackRegistryKeepsConstructionOrder(t *testing.T) {
	registry := experiment.NewCallbackRegistry()
	registry.Add(&fakeMetric{name: "train_loss"})
	registry.Add(&fakeMetric{name: "dev_loss"})
	registry.Add(&fakeMetric{name: "accuracy"})

	assert.Equal(t, []string{"train_loss", "dev_loss", "accuracy"}, registry.Names())
	assert.Equal(t, 3, registry.Len())
}

func TestCallbackRegistryResolve(t *testing.T) {
	registry := experiment.NewCallbackRegistry()
	metric := &fakeMetric{name: "train_loss"}
	registry.Add(metric)

	resolved, err := registry.Resolve("train_loss")
	require.NoError(t, err)
	assert.Same(t, metric, resolved)

	_, err = registry.Resolve("dev_loss")
	require.Error(t, err)
	var refErr *experiment.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "dev_loss", refErr.Name)
}

func TestCallbackRegistryReplaceKeepsPosition(t *testing.T) {
	registry := experiment.NewCallbackRegistry()
	registry.Add(&fakeMetric{name: "train_loss"})
	registry.Add(&fakeMetric{name: "accuracy"})

	replacement := &fakeMetric{name: "train_loss"}
	registry.Add(replacement)

	assert.Equal(t, []string{"train_loss", "accuracy"}, registry.Names())
	got, ok := registry.Get("train_loss")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestSaverRegistry(t *testing.T) {
	registry := experiment.NewSaverRegistry()
	registry.Add(&fakeSaver{name: "best"})
	registry.Add(&fakeSaver{name: "latest"})

	assert.Equal(t, []string{"best", "latest"}, registry.Names())

	saver, ok := registry.Get("best")
	require.True(t, ok)
	assert.Equal(t, "best", saver.Name())

	_, ok = registry.Get("periodic")
	assert.False(t, ok)
}
