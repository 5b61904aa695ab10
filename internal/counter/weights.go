// Package counter aggregates word frequencies with user-defined weighting.
package counter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notewell/techou/internal/models"
)

// WeightTable maps words (case-insensitive) to numeric multipliers.
// Words absent from the table count with weight 1. The table is the only
// mutable state shared across counting calls, so reads and writes are
// guarded for concurrent callers.
type WeightTable struct {
	mu      sync.RWMutex
	weights map[string]float64
}

// NewWeightTable returns an empty weight table.
func NewWeightTable() *WeightTable {
	return &WeightTable{weights: make(map[string]float64)}
}

// Set assigns a weight to word, replacing any existing entry. Zero is a
// valid weight (the word still counts, scored as zero); negative weights
// fail with ErrInvalidWeight and leave the table unchanged.
func (t *WeightTable) Set(word string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("%w: %q: weight %v is negative", models.ErrInvalidWeight, word, weight)
	}
	t.mu.Lock()
	t.weights[strings.ToLower(word)] = weight
	t.mu.Unlock()
	return nil
}

// Delete removes word's entry, restoring its default weight of 1.
func (t *WeightTable) Delete(word string) {
	t.mu.Lock()
	delete(t.weights, strings.ToLower(word))
	t.mu.Unlock()
}

// Weight returns the weight for word, defaulting to 1 when unlisted.
func (t *WeightTable) Weight(word string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if w, ok := t.weights[strings.ToLower(word)]; ok {
		return w
	}
	return 1
}

// Snapshot returns a copy of the current word→weight entries.
func (t *WeightTable) Snapshot() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.weights))
	for word, w := range t.weights {
		out[word] = w
	}
	return out
}

// Len returns the number of explicit entries.
func (t *WeightTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.weights)
}
