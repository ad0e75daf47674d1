package experiment

import "fmt"

// AssemblyError is the base error type for all assembly errors.
type AssemblyError struct {
	Message string
	Cause   error
}

func (e *AssemblyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AssemblyError) Unwrap() error {
	return e.Cause
}

// ConfigError reports a missing or invalid experiment configuration entry.
type ConfigError struct {
	AssemblyError
	Key string
}

// ResolutionError reports a component reference that no registered factory
// satisfies.
type ResolutionError struct {
	AssemblyError
	Kind    PluginKind
	Package string
	Class   string
}

// ConstructionError reports a factory that failed to build its component.
type ConstructionError struct {
	AssemblyError
	Kind PluginKind
	Name string
}

// ReferenceError reports a by-name reference to a registry entry that has not
// been constructed yet.
type ReferenceError struct {
	AssemblyError
	Name string
}

// CheckpointError reports a checkpoint that could not be loaded or decoded.
type CheckpointError struct {
	AssemblyError
	Path string
}

func configErrorf(key, format string, args ...interface{}) error {
	return &ConfigError{AssemblyError: AssemblyError{Message: fmt.Sprintf(format, args...)}, Key: key}
}

func resolutionError(kind PluginKind, pkg, class string) error {
	return &ResolutionError{
		AssemblyError: AssemblyError{Message: fmt.Sprintf("no %s factory registered for %s.%s", kind, pkg, class)},
		Kind:          kind,
		Package:       pkg,
		Class:         class,
	}
}

func constructionError(kind PluginKind, name string, cause error) error {
	return &ConstructionError{
		AssemblyError: AssemblyError{Message: fmt.Sprintf("constructing %s %s", kind, name), Cause: cause},
		Kind:          kind,
		Name:          name,
	}
}
