package store

import "context"

// ExternStore is the durable backend behind the overlay, the Go equivalent
// of the original runtime's ExternDBTrait. A production implementation
// would back this with an external database; MemoryExternStore (this
// package) is the reference implementation used by single-node deployments
// and by tests, grounded on the teacher's WAL-backed ledger persistence.
type ExternStore interface {
	// CreateEntityTables and CreateBlockPtrTable prepare backend storage
	// (no-ops for backends that don't need schema setup ahead of writes).
	CreateEntityTables(ctx context.Context) error
	CreateBlockPtrTable(ctx context.Context) error

	// LoadEntity returns the row for (entityType, id) as of block_ptr, or
	// nil if none exists or the latest row at that height is a tombstone.
	LoadEntity(ctx context.Context, blockPtr BlockPtr, entityType, id string) (RawEntity, error)
	// LoadEntityLatest returns the most recent row for (entityType, id)
	// regardless of block height.
	LoadEntityLatest(ctx context.Context, entityType, id string) (RawEntity, error)
	// LoadEntities batch-loads the current row for each id in ids.
	LoadEntities(ctx context.Context, entityType string, ids []string) ([]RawEntity, error)

	// BatchInsertEntities durably writes one snapshot per entity, all
	// stamped with blockPtr.Number, atomically (all-or-nothing per block).
	BatchInsertEntities(ctx context.Context, blockPtr BlockPtr, values []EntitySnapshot) error
	// SoftDeleteEntity writes a tombstone row for (entityType, id) at blockPtr.
	SoftDeleteEntity(ctx context.Context, blockPtr BlockPtr, entityType, id string) error

	// RevertFromBlock deletes every row (entity and block-ptr) at or after
	// fromBlock, used on reorg.
	RevertFromBlock(ctx context.Context, fromBlock uint64) error
	// SaveBlockPtr durably records the given BlockPtr as the latest processed.
	SaveBlockPtr(ctx context.Context, blockPtr BlockPtr) error
	// LoadRecentBlockPtrs returns up to n of the most recently saved
	// BlockPtrs, newest first.
	LoadRecentBlockPtrs(ctx context.Context, n uint16) ([]BlockPtr, error)
	// GetEarliestBlockPtr returns the oldest saved BlockPtr, or the zero
	// value and false if none has been saved.
	GetEarliestBlockPtr(ctx context.Context) (BlockPtr, bool, error)

	// CleanDataHistory deletes every entity snapshot older than toBlock,
	// returning the number of rows removed.
	CleanDataHistory(ctx context.Context, toBlock uint64) (uint64, error)
	// RemoveSnapshots prunes all but the latest snapshot for each given
	// entity at or before atBlock, returning the number removed.
	RemoveSnapshots(ctx context.Context, entities []EntityKey, atBlock uint64) (uint64, error)
}

// EntitySnapshot pairs an entity type with the row to persist, the Go
// equivalent of the original's (EntityType, RawEntity) tuple.
type EntitySnapshot struct {
	EntityType string
	Data       RawEntity
}

// EntityKey identifies one entity for pruning/snapshot-removal calls.
type EntityKey struct {
	EntityType string
	EntityID   string
}
