package tracking

import (
	"net/http"
	"time"
)

// DefaultEndpoint is the backend URL used by online experiments when the
// configuration does not override it.
const DefaultEndpoint = "https://www.comet.com/clientlib/rest/v2/write"

// Config holds the tracking section of an experiment configuration.
type Config struct {
	// Offline selects the local-archive client instead of the HTTP client.
	Offline bool `json:"offline" yaml:"offline"`

	// APIKey authenticates online experiments. Required when Offline is false.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Workspace and ProjectName scope the run on the backend. Both optional.
	Workspace   string `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	ProjectName string `json:"project_name,omitempty" yaml:"project_name,omitempty"`

	// OfflineDirectory is where offline archives are written. Defaults to a
	// directory under the system temp dir.
	OfflineDirectory string `json:"offline_directory,omitempty" yaml:"offline_directory,omitempty"`

	// Endpoint overrides the backend URL for online experiments.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// NewExperiment creates a tracking client for one run and sets its display
// name. Online mode fails without an API key.
func NewExperiment(cfg Config, name string) (Tracker, error) {
	var tracker Tracker
	var err error
	if cfg.Offline {
		tracker, err = NewOfflineExperiment(cfg)
	} else {
		tracker, err = NewOnlineExperiment(cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := tracker.SetName(name); err != nil {
		return nil, err
	}
	return tracker, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
