// Package scenario provides a registry of named starting setups and the
// spawner that builds balls for them.
// Scenarios register themselves in init() functions, allowing the hosts
// to discover and load them without hardcoded dependencies.
package scenario

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// Scenario populates a freshly reset world.
type Scenario interface {
	// ID returns a unique identifier (e.g., "drop", "rain").
	// Used for CLI flags.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description says what the scenario exercises.
	Description() string

	// Setup spawns the scenario's balls. rng is seeded by the host so a run
	// can be reproduced.
	Setup(sp *Spawner, rng *rand.Rand) error
}

// Info contains metadata about a registered scenario.
type Info struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("scenario: %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = Info{ID: id, Title: s.Title(), Description: s.Description()}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("scenario: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
