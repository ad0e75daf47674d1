// Package tracking is a minimal experiment-tracking client.
//
// It exposes the narrow surface the assembly layer needs from a tracking
// backend: logging run parameters, logging arbitrary key/value entries,
// tagging a run, and naming it. Everything else about the backend (metric
// transport, dashboards, aggregation) lives on the server side and is not
// modeled here.
//
// Two client implementations are provided:
//
//   - OnlineExperiment posts records to a remote backend over HTTP and
//     requires an API key.
//   - OfflineExperiment appends records to a local JSON-lines archive,
//     creating its store directory on demand. It is the default for runs
//     without network access.
//
// NewExperiment selects between them based on Config.Offline:
//
//	tracker, err := tracking.NewExperiment(tracking.Config{Offline: true}, "my-run")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tracker.LogParameters(map[string]interface{}{"exp-batch_size": 32})
package tracking
