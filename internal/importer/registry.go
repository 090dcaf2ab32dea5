package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// SubmitFunc resolves, builds and submits one validated row. It returns any
// row-scoped warnings (recorded alongside a success) and an error when the
// row must be counted as failed.
type SubmitFunc func(ctx context.Context, p *Pipeline, row Row) (warnings []string, err error)

// CategoryDefinition contains everything needed to import one category.
type CategoryDefinition struct {
	Key   Category
	Label string

	// Headers is the canonical template column set, in template order.
	Headers []string

	// Required headers must all be present in an upload or the run aborts.
	Required []string

	// Reference collections the resolver must snapshot for this category.
	// Countries are always fetched.
	NeedsPorts       bool
	NeedsAddressBook bool

	// Skip, when set, pre-filters rows before validation. A non-empty
	// reason marks the row as skipped (recorded, not counted as failed).
	Skip func(Row) (reason string, skip bool)

	// Describe, when set, returns the row's identifying value for error
	// messages, such as the container number.
	Describe func(Row) string

	// Validate applies the per-category field rules. Pure, never touches
	// the network; the first violated rule is the returned reason.
	Validate func(Row) error

	Submit SubmitFunc
}

var (
	registry   = make(map[Category]CategoryDefinition)
	registryMu sync.RWMutex
)

// Register adds a category definition to the registry.
// Panics if the key is already registered.
func Register(def CategoryDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("category already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Lookup returns a category definition by key.
func Lookup(key Category) (CategoryDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Categories returns all registered definitions sorted by key.
func Categories() []CategoryDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]CategoryDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}
