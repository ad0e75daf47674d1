package experiment

import (
	"fmt"
	"math/rand"
)

// TrainSplit is the split name that gets shuffled providers.
const TrainSplit = "train"

// Batch is a collated slice of samples: inputs and labels zipped into two
// parallel sequences. Entries stay variable-length; nothing is stacked.
type Batch struct {
	Inputs []interface{}
	Labels []interface{}
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int { return len(b.Inputs) }

// Provider wraps a dataset into batches for one split, optionally shuffling
// the sample order on every pass.
type Provider struct {
	split     string
	dataset   Dataset
	batchSize int
	shuffle   bool
}

// NewProvider creates a batching provider over a dataset.
func NewProvider(split string, dataset Dataset, batchSize int, shuffle bool) *Provider {
	return &Provider{split: split, dataset: dataset, batchSize: batchSize, shuffle: shuffle}
}

// Split returns the split this provider serves.
func (p *Provider) Split() string { return p.split }

// Dataset returns the wrapped dataset.
func (p *Provider) Dataset() Dataset { return p.dataset }

// BatchSize returns the configured batch size.
func (p *Provider) BatchSize() int { return p.batchSize }

// Shuffles reports whether sample order is shuffled per pass.
func (p *Provider) Shuffles() bool { return p.shuffle }

// NumBatches returns the number of batches in one pass. The final batch may
// be short.
func (p *Provider) NumBatches() int {
	n := p.dataset.Len()
	if n == 0 || p.batchSize <= 0 {
		return 0
	}
	return (n + p.batchSize - 1) / p.batchSize
}

// Batches materializes one pass over the dataset.
func (p *Provider) Batches() ([]Batch, error) {
	if p.batchSize <= 0 {
		return nil, &AssemblyError{Message: fmt.Sprintf("provider batch size must be positive, got %d", p.batchSize)}
	}
	n := p.dataset.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if p.shuffle {
		rand.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	batches := make([]Batch, 0, p.NumBatches())
	for start := 0; start < n; start += p.batchSize {
		end := start + p.batchSize
		if end > n {
			end = n
		}
		batch := Batch{
			Inputs: make([]interface{}, 0, end-start),
			Labels: make([]interface{}, 0, end-start),
		}
		for _, idx := range indices[start:end] {
			sample, err := p.dataset.Item(idx)
			if err != nil {
				return nil, &AssemblyError{Message: "reading dataset item", Cause: err}
			}
			batch.Inputs = append(batch.Inputs, sample.Input)
			batch.Labels = append(batch.Labels, sample.Label)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
