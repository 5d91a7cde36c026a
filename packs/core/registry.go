// ABOUTME: Pack registry for registering and retrieving packs.
// ABOUTME: Packs register themselves in init() functions.

package core

import (
	"fmt"
	"sync"
)

var (
	registry = make(map[string]Pack)
	mu       sync.RWMutex
)

// Register adds a pack to the registry
func Register(p Pack) {
	mu.Lock()
	defer mu.Unlock()

	name := p.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("pack %q already registered", name))
	}
	registry[name] = p
}

// Get retrieves a pack by name
func Get(name string) (Pack, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// All returns all registered packs
func All() []Pack {
	mu.RLock()
	defer mu.RUnlock()

	packs := make([]Pack, 0, len(registry))
	for _, p := range registry {
		packs = append(packs, p)
	}
	return packs
}

// Names returns all registered pack names
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
