package store

import (
	"sync"

	"github.com/chainindex/corert/errs"
)

// entitySnapshots is the append-only history of one entity's writes within
// the overlay's lifetime; the last element is the current value.
type entitySnapshots []RawEntity

// overlay is the per-process in-memory cache fronting an ExternStore,
// shaped EntityType -> EntityID -> Vec<RawEntity>, matching the original
// runtime's database::memory_db::MemoryDb exactly. It is not per-block: it
// survives across blocks and is only cleared by an explicit Flush or
// Revert, per spec section 4.4.
type overlay struct {
	mu   sync.Mutex
	data map[string]map[string]entitySnapshots
}

func newOverlay() *overlay {
	return &overlay{data: make(map[string]map[string]entitySnapshots)}
}

// loadLatest returns the current (last, non-tombstone) snapshot for an
// entity, or nil if absent or soft-deleted.
func (o *overlay) loadLatest(entityType, entityID string) (RawEntity, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	table, ok := o.data[entityType]
	if !ok {
		return nil, false, nil
	}
	snapshots, ok := table[entityID]
	if !ok || len(snapshots) == 0 {
		return nil, false, nil
	}
	last := snapshots[len(snapshots)-1]
	if last.IsDeleted() {
		return nil, false, nil
	}
	return last, true, nil
}

// create appends a new snapshot for data["id"], stamping __is_deleted__ =
// false. It mirrors MemoryDb::create_entity.
func (o *overlay) create(entityType string, data RawEntity) (string, error) {
	id, ok := data.ID()
	if !ok {
		return "", errs.NewStoreErr(errs.InvalidIDType, entityType, "", nil)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	table, ok := o.data[entityType]
	if !ok {
		table = make(map[string]entitySnapshots)
		o.data[entityType] = table
	}

	snapshot := data.Clone()
	snapshot["__is_deleted__"] = NewBool(false)
	table[id] = append(table[id], snapshot)
	return id, nil
}

// softDelete appends a tombstone snapshot copying the last snapshot's
// fields, matching MemoryDb::soft_delete.
func (o *overlay) softDelete(entityType, entityID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	table, ok := o.data[entityType]
	if !ok {
		return errs.NewStoreErr(errs.MissingEntityType, entityType, entityID, nil)
	}
	snapshots, ok := table[entityID]
	if !ok || len(snapshots) == 0 {
		return errs.NewStoreErr(errs.MissingEntityOnDelete, entityType, entityID, nil)
	}

	tombstone := snapshots[len(snapshots)-1].Clone()
	tombstone["__is_deleted__"] = NewBool(true)
	table[entityID] = append(snapshots, tombstone)
	return nil
}

// extractData returns the current snapshot of every entity in the overlay,
// matching MemoryDb::extract_data. Used by Store.Commit to build the
// ExternStore batch-insert payload.
func (o *overlay) extractData() []struct {
	EntityType string
	Data       RawEntity
} {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []struct {
		EntityType string
		Data       RawEntity
	}
	for entityType, table := range o.data {
		for _, snapshots := range table {
			if len(snapshots) == 0 {
				continue
			}
			out = append(out, struct {
				EntityType string
				Data       RawEntity
			}{EntityType: entityType, Data: snapshots[len(snapshots)-1]})
		}
	}
	return out
}

// latestEntityIDs returns every (entityType, entityID) pair currently
// tracked, matching MemoryDb::get_latest_entity_ids.
func (o *overlay) latestEntityIDs() []struct{ EntityType, EntityID string } {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []struct{ EntityType, EntityID string }
	for entityType, table := range o.data {
		for id := range table {
			out = append(out, struct{ EntityType, EntityID string }{entityType, id})
		}
	}
	return out
}

// clear empties the overlay, matching MemoryDb::clear. Used by both Flush
// (wide cadence, memory cap) and Revert (reorg).
func (o *overlay) clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data = make(map[string]map[string]entitySnapshots)
}

// insertFromExtern seeds the overlay with a snapshot loaded from the
// ExternStore, so later reads in the same block hit the cache.
func (o *overlay) insertFromExtern(entityType string, data RawEntity) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, ok := data.ID()
	if !ok {
		return
	}
	table, ok := o.data[entityType]
	if !ok {
		table = make(map[string]entitySnapshots)
		o.data[entityType] = table
	}
	table[id] = append(table[id], data)
}
