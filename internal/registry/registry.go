// Package registry provides a global registry for controller factories.
// Controllers register themselves in init() functions, allowing the session
// runner and the CLI to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/episode"
)

// Observation is what a controller sees before choosing an action.
type Observation struct {
	// Vector is the normalized state vector (see episode.Observation).
	Vector []float64
	// Snapshot carries the same state in level units.
	Snapshot episode.Snapshot
}

// Controller chooses one discrete action per simulation step.
// Controllers are opaque to the simulation: any policy that maps an
// observation to an action can drive an episode.
type Controller interface {
	// ID returns a unique identifier (e.g., "autopilot").
	// Used for CLI commands and result storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset prepares the controller for a new episode.
	// The seed drives any randomness the controller uses.
	Reset(seed int64)

	// Act returns the action for the next step.
	Act(obs Observation) core.Action
}

// ControllerInfo contains metadata about a registered controller.
type ControllerInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new controller instance.
type Factory func() Controller

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a controller factory to the registry.
// Panics if a controller with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: controller %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered controllers, sorted by ID.
func List() []ControllerInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ControllerInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ControllerInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new controller by its ID.
func Create(id string) (Controller, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown controller %q", id)
	}

	return f(), nil
}

// Exists checks if a controller with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
