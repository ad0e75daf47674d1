package experiment

// namedRegistry is an ordered, name-keyed collection. Iteration order equals
// insertion order; later entries may reference earlier ones by name.
type namedRegistry[T any] struct {
	order   []string
	entries map[string]T
}

func newNamedRegistry[T any]() namedRegistry[T] {
	return namedRegistry[T]{entries: make(map[string]T)}
}

func (r *namedRegistry[T]) add(name string, entry T) {
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
}

func (r *namedRegistry[T]) get(name string) (T, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

func (r *namedRegistry[T]) names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// CallbackRegistry holds the constructed callbacks of a run in construction
// order.
type CallbackRegistry struct {
	reg namedRegistry[Callback]
}

// NewCallbackRegistry creates an empty CallbackRegistry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{reg: newNamedRegistry[Callback]()}
}

// Add registers a callback under its own name.
func (r *CallbackRegistry) Add(cb Callback) {
	r.reg.add(cb.Name(), cb)
}

// Get returns the callback registered under name. The second result reports
// whether it exists.
func (r *CallbackRegistry) Get(name string) (Callback, bool) {
	return r.reg.get(name)
}

// Resolve returns the callback registered under name, or a ReferenceError if
// it has not been constructed yet.
func (r *CallbackRegistry) Resolve(name string) (Callback, error) {
	cb, ok := r.reg.get(name)
	if !ok {
		return nil, &ReferenceError{
			AssemblyError: AssemblyError{Message: "callback reference " + name + " is not registered yet"},
			Name:          name,
		}
	}
	return cb, nil
}

// Names returns the registered callback names in construction order.
func (r *CallbackRegistry) Names() []string { return r.reg.names() }

// Len returns the number of registered callbacks.
func (r *CallbackRegistry) Len() int { return len(r.reg.order) }

// SaverRegistry holds the constructed savers of a run in construction order.
type SaverRegistry struct {
	reg namedRegistry[Saver]
}

// NewSaverRegistry creates an empty SaverRegistry.
func NewSaverRegistry() *SaverRegistry {
	return &SaverRegistry{reg: newNamedRegistry[Saver]()}
}

// Add registers a saver under its own name.
func (r *SaverRegistry) Add(s Saver) {
	r.reg.add(s.Name(), s)
}

// Get returns the saver registered under name. The second result reports
// whether it exists.
func (r *SaverRegistry) Get(name string) (Saver, bool) {
	return r.reg.get(name)
}

// Names returns the registered saver names in construction order.
func (r *SaverRegistry) Names() []string { return r.reg.names() }

// Len returns the number of registered savers.
func (r *SaverRegistry) Len() int { return len(r.reg.order) }
