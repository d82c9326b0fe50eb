package qmeasure

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

type InteractionCategory uint8

const (
	CategoryAdvance InteractionCategory = iota // trajectory moved without crossing anything
	CategoryReflect                            // mirror reflection
	CategorySplit                              // beam splitter branch creation
	CategoryDetect                             // detector absorption
	CategoryDrop                               // branch fell below the weight floor
)

type InteractionEvent struct {
	Name     string
	Category InteractionCategory
	Photon   uuid.UUID
	Label    string
	Point    r2.Vec
	Frame    int
	Weight   Real
}

type interactionCache struct {
	mu     sync.Mutex
	events map[string][]InteractionEvent
}

var cache = &interactionCache{
	events: make(map[string][]InteractionEvent),
}

func logInteraction(name string, category InteractionCategory, photon uuid.UUID, label string, point r2.Vec, frame int, weight Real) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.events[name] = append(cache.events[name], InteractionEvent{
		Name:     name,
		Category: category,
		Photon:   photon,
		Label:    label,
		Point:    point,
		Frame:    frame,
		Weight:   weight,
	})
}

// InteractionStats returns per-category event counts recorded while Debug
// was enabled.
func InteractionStats() map[string]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	out := make(map[string]int, len(cache.events))
	for k, v := range cache.events {
		out[k] = len(v)
	}
	return out
}

func ResetInteractionLog() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.events = make(map[string][]InteractionEvent)
}
