package tracking

import "fmt"

// ClientError is the base error type for all tracking errors.
type ClientError struct {
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports an invalid or incomplete tracking configuration,
// e.g. online mode without an API key.
type ConfigurationError struct{ ClientError }

// TransportError reports a failure delivering a record to the backend or to
// the local archive.
type TransportError struct {
	ClientError
	StatusCode int
}

func configurationf(format string, args ...interface{}) error {
	return &ConfigurationError{ClientError{Message: fmt.Sprintf(format, args...)}}
}
