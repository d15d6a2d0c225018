package traverse

import "github.com/bblfsh/codemod/estree"

// Listener handles a node event.
type Listener func(n *estree.Node) error

// SafeEmitter is an event emitter that only passes nodes to listeners, and stops on the first error.
// Listeners are called in the registration order.
type SafeEmitter struct {
	names     []string
	listeners map[string][]Listener
}

// NewSafeEmitter creates an empty emitter.
func NewSafeEmitter() *SafeEmitter {
	return &SafeEmitter{listeners: make(map[string][]Listener)}
}

// On registers a listener for the event.
func (e *SafeEmitter) On(name string, fnc Listener) {
	if _, ok := e.listeners[name]; !ok {
		e.names = append(e.names, name)
	}
	e.listeners[name] = append(e.listeners[name], fnc)
}

// Emit calls all listeners of the event.
func (e *SafeEmitter) Emit(name string, n *estree.Node) error {
	for _, fnc := range e.listeners[name] {
		if err := fnc(n); err != nil {
			return err
		}
	}
	return nil
}

// EventNames returns names of all events with listeners, in the order of the first registration.
func (e *SafeEmitter) EventNames() []string {
	return append([]string(nil), e.names...)
}
