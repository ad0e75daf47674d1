package tracking

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// offlineStoreName is the directory created under the system temp dir when no
// offline directory is configured.
const offlineStoreName = "expresso-offline"

// OfflineExperiment records tracking entries into a local JSON-lines archive.
// The archive file is named after the experiment key, one record per line.
type OfflineExperiment struct {
	key       string
	directory string
	path      string
	mu        sync.Mutex
}

// NewOfflineExperiment creates an offline experiment, creating the store
// directory if it does not exist yet. Reusing an existing directory is fine;
// each run writes its own archive file.
func NewOfflineExperiment(cfg Config) (*OfflineExperiment, error) {
	directory := cfg.OfflineDirectory
	if directory == "" {
		directory = filepath.Join(os.TempDir(), offlineStoreName)
	}
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return nil, &TransportError{ClientError: ClientError{Message: "creating offline directory", Cause: err}}
		}
	}
	log.Printf("tracking: writing offline experiment records to %s", directory)

	key := uuid.New().String()
	return &OfflineExperiment{
		key:       key,
		directory: directory,
		path:      filepath.Join(directory, key+".jsonl"),
	}, nil
}

// Directory returns the offline store directory for this experiment.
func (e *OfflineExperiment) Directory() string { return e.directory }

// ArchivePath returns the path of this run's archive file.
func (e *OfflineExperiment) ArchivePath() string { return e.path }

func (e *OfflineExperiment) ExperimentKey() string { return e.key }

func (e *OfflineExperiment) LogParameters(params map[string]interface{}) error {
	for name, value := range params {
		if err := e.append(Record{Kind: KindParameter, Key: name, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

func (e *OfflineExperiment) LogOther(key string, value interface{}) error {
	return e.append(Record{Kind: KindOther, Key: key, Value: value})
}

func (e *OfflineExperiment) AddTags(tags []string) error {
	for _, tag := range tags {
		if err := e.append(Record{Kind: KindTag, Value: tag}); err != nil {
			return err
		}
	}
	return nil
}

func (e *OfflineExperiment) SetName(name string) error {
	return e.append(Record{Kind: KindName, Value: name})
}

func (e *OfflineExperiment) append(rec Record) error {
	rec.ExperimentKey = e.key
	rec.Timestamp = time.Now().UTC()

	e.mu.Lock()
	defer e.mu.Unlock()
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &TransportError{ClientError: ClientError{Message: "opening offline archive", Cause: err}}
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return &TransportError{ClientError: ClientError{Message: "encoding record", Cause: err}}
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return &TransportError{ClientError: ClientError{Message: "writing offline archive", Cause: err}}
	}
	return nil
}
