package cmd

import (
	"sort"
	"sync"
)

// DefaultRegistry is the global registry used by adapters.
var DefaultRegistry = NewRegistry()

// Registry stores commands by name. It does not dispatch; each adapter looks
// commands up and invokes them with its own context.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name()] = c
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[name]
}

// GetAll returns all registered commands sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
