// Package codemods contains built-in transforms that can be run from the command line.
package codemods

import (
	"sort"
	"sync"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/bblfsh/codemod/transform"
)

var (
	// ErrUnknown is returned when looking up a codemod that is not registered.
	ErrUnknown = errors.NewKind("unknown codemod: %s")
	// ErrArgument is returned when a required argument of a codemod is missing or invalid.
	ErrArgument = errors.NewKind("codemod %s: invalid argument %q")
)

// Args are parameters of a codemod, as passed from the command line or the config file.
type Args map[string]string

// Codemod is a named transform.
type Codemod struct {
	Name        string
	Description string
	// Args lists argument names accepted by the codemod.
	Args []string
	// New creates a visitor for given arguments.
	New func(args Args) (transform.Visitor, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Codemod)
)

// Register adds the codemod to the global list.
func Register(c Codemod) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[c.Name]; ok {
		panic("codemod already registered: " + c.Name)
	}
	registry[c.Name] = c
}

// Lookup finds a registered codemod by name.
func Lookup(name string) (Codemod, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return Codemod{}, ErrUnknown.New(name)
	}
	return c, nil
}

// List returns all registered codemods, sorted by name.
func List() []Codemod {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Codemod, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Visitor looks up the codemod and creates a visitor for it.
func Visitor(name string, args Args) (transform.Visitor, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.New(args)
}

func (a Args) required(codemod, name string) (string, error) {
	v := a[name]
	if v == "" {
		return "", ErrArgument.New(codemod, name)
	}
	return v, nil
}
