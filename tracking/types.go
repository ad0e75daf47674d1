package tracking

import "time"

// Tracker is the logging surface consumed by the experiment assembly layer.
// Implementations must accept every call before training starts; failures are
// reported to the caller and abort the run setup.
type Tracker interface {
	// LogParameters records a batch of named run parameters.
	LogParameters(params map[string]interface{}) error

	// LogOther records a single arbitrary key/value entry.
	LogOther(key string, value interface{}) error

	// AddTags attaches tags to the run.
	AddTags(tags []string) error

	// SetName sets the run's display name.
	SetName(name string) error

	// ExperimentKey returns the unique key identifying this run.
	ExperimentKey() string
}

// RecordKind identifies the type of a tracking record.
type RecordKind string

const (
	KindParameter RecordKind = "parameter"
	KindOther     RecordKind = "other"
	KindTag       RecordKind = "tag"
	KindName      RecordKind = "name"
)

// Record is the wire/archive representation of a single logged entry.
type Record struct {
	Kind          RecordKind  `json:"kind"`
	Key           string      `json:"key,omitempty"`
	Value         interface{} `json:"value,omitempty"`
	ExperimentKey string      `json:"experiment_key"`
	Timestamp     time.Time   `json:"timestamp"`
}
