package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// OnlineExperiment delivers tracking records to a remote backend over HTTP.
// Every record is posted synchronously; a delivery failure aborts the caller.
type OnlineExperiment struct {
	key         string
	apiKey      string
	workspace   string
	projectName string
	endpoint    string
	httpClient  *http.Client
}

// NewOnlineExperiment creates an online experiment. The API key is required.
func NewOnlineExperiment(cfg Config) (*OnlineExperiment, error) {
	if cfg.APIKey == "" {
		return nil, configurationf("online tracking requires an api_key")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OnlineExperiment{
		key:         uuid.New().String(),
		apiKey:      cfg.APIKey,
		workspace:   cfg.Workspace,
		projectName: cfg.ProjectName,
		endpoint:    endpoint,
		httpClient:  newHTTPClient(),
	}, nil
}

func (e *OnlineExperiment) ExperimentKey() string { return e.key }

func (e *OnlineExperiment) LogParameters(params map[string]interface{}) error {
	for name, value := range params {
		if err := e.post(Record{Kind: KindParameter, Key: name, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

func (e *OnlineExperiment) LogOther(key string, value interface{}) error {
	return e.post(Record{Kind: KindOther, Key: key, Value: value})
}

func (e *OnlineExperiment) AddTags(tags []string) error {
	for _, tag := range tags {
		if err := e.post(Record{Kind: KindTag, Value: tag}); err != nil {
			return err
		}
	}
	return nil
}

func (e *OnlineExperiment) SetName(name string) error {
	return e.post(Record{Kind: KindName, Value: name})
}

// envelope wraps a record with the routing fields the backend expects.
type envelope struct {
	Workspace   string `json:"workspace,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	Record      Record `json:"record"`
}

func (e *OnlineExperiment) post(rec Record) error {
	rec.ExperimentKey = e.key
	rec.Timestamp = time.Now().UTC()

	body, err := json.Marshal(envelope{
		Workspace:   e.workspace,
		ProjectName: e.projectName,
		Record:      rec,
	})
	if err != nil {
		return &TransportError{ClientError: ClientError{Message: "encoding record", Cause: err}}
	}

	req, err := http.NewRequest(http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{ClientError: ClientError{Message: "building request", Cause: err}}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &TransportError{ClientError: ClientError{Message: "posting record", Cause: err}}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{
			ClientError: ClientError{Message: fmt.Sprintf("backend rejected record (status=%d)", resp.StatusCode)},
			StatusCode:  resp.StatusCode,
		}
	}
	return nil
}
