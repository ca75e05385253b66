package hostexports

import (
	"strings"
	"sync"

	"github.com/chainindex/corert/store"
)

// ContextStore holds the caller-supplied context map datasource.create's
// createWithContext variant stamps onto a dynamically-created datasource,
// keyed by the datasource's lowercased contract address (unique per
// instantiated template, unlike its name). Shared across every Host
// Instance a process builds so a later-constructed instance for a
// just-created datasource can recover the context its creator stored.
type ContextStore struct {
	mu     sync.RWMutex
	byAddr map[string]map[string]store.Value
}

// NewContextStore builds an empty ContextStore.
func NewContextStore() *ContextStore {
	return &ContextStore{byAddr: map[string]map[string]store.Value{}}
}

// Set records ctx for address, overwriting any previous context.
func (c *ContextStore) Set(address string, ctx map[string]store.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byAddr[strings.ToLower(address)] = ctx
}

// Get returns the context recorded for address, if any.
func (c *ContextStore) Get(address string) (map[string]store.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctx, ok := c.byAddr[strings.ToLower(address)]
	return ctx, ok
}
