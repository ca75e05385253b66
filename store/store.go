package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chainindex/corert/errs"
)

// Store is the Store Layer (spec section 4.4): an in-memory overlay
// fronting a durable ExternStore, mirroring the split between
// database::memory_db::MemoryDb (cache) and database::Database (cache +
// backend orchestration) in the original runtime.
type Store struct {
	overlay *overlay
	extern  ExternStore
	schema  Schema

	earliestBlock uint64
	log           logrus.FieldLogger
}

// New builds a Store over the given ExternStore and entity schema (used to
// resolve relation fields for LoadRelated).
func New(extern ExternStore, schema Schema, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		overlay: newOverlay(),
		extern:  extern,
		schema:  schema,
		log:     log,
	}
}

// Init prepares backend storage and loads the earliest-block watermark
// used by CleanHistory, matching Database::new.
func (s *Store) Init(ctx context.Context) error {
	if err := s.extern.CreateEntityTables(ctx); err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", fmt.Errorf("create entity tables: %w", err))
	}
	if err := s.extern.CreateBlockPtrTable(ctx); err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", fmt.Errorf("create block ptr table: %w", err))
	}
	earliest, ok, err := s.extern.GetEarliestBlockPtr(ctx)
	if err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", err)
	}
	if ok {
		s.earliestBlock = earliest.Number
	}
	return nil
}

// Create appends data (stamped __is_deleted__ = false) to the overlay,
// requiring data["id"] to be a String value, and returns the entity id.
func (s *Store) Create(entityType string, data RawEntity) (string, error) {
	return s.overlay.create(entityType, data)
}

// Update is equivalent to Create under the append-new-snapshot overlay
// model: each write is a new snapshot, never an in-place mutation.
func (s *Store) Update(entityType, _ string, data RawEntity) error {
	_, err := s.overlay.create(entityType, data)
	return err
}

// Load returns the current value of (entityType, id): an overlay hit
// returns immediately, an overlay miss falls through to the ExternStore
// and caches the result for subsequent reads within this process.
func (s *Store) Load(ctx context.Context, entityType, id string) (RawEntity, error) {
	if data, ok, err := s.overlay.loadLatest(entityType, id); err != nil {
		return nil, err
	} else if ok {
		return data, nil
	}

	data, err := s.extern.LoadEntityLatest(ctx, entityType, id)
	if err != nil {
		return nil, errs.NewStoreErr(errs.ExternIOFailure, entityType, id, err)
	}
	if data == nil {
		return nil, nil
	}
	s.overlay.insertFromExtern(entityType, data)
	return data, nil
}

// LoadInBlock returns the overlay-only view of (entityType, id), without
// consulting the ExternStore: nil if the overlay holds no live snapshot for
// it. Commit does not empty the overlay, so entities written before the
// last commit, and entities Load cached from the ExternStore, are returned
// until the next Flush or RevertFrom.
func (s *Store) LoadInBlock(entityType, id string) (RawEntity, error) {
	data, _, err := s.overlay.loadLatest(entityType, id)
	return data, err
}

// Delete appends a tombstone snapshot over (entityType, id), copying the
// last snapshot's fields and setting __is_deleted__ = true.
func (s *Store) Delete(entityType, id string) error {
	return s.overlay.softDelete(entityType, id)
}

// LoadRelated resolves field against the schema for entityType: a
// single-id relation loads that one entity; a list relation batch-loads
// any ids missing from the overlay out of the ExternStore.
func (s *Store) LoadRelated(ctx context.Context, entityType, id, field string) ([]RawEntity, error) {
	entity, ok, err := s.overlay.loadLatest(entityType, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		entity, err = s.extern.LoadEntityLatest(ctx, entityType, id)
		if err != nil {
			return nil, errs.NewStoreErr(errs.ExternIOFailure, entityType, id, err)
		}
		if entity == nil {
			return nil, errs.NewStoreErr(errs.MissingID, entityType, id, nil)
		}
	}

	fieldValue, ok := entity[field]
	if !ok {
		return nil, nil
	}

	var ids []string
	switch fieldValue.Kind {
	case KindString:
		ids = []string{fieldValue.Str}
	case KindList:
		for _, v := range fieldValue.List {
			if str, ok := v.AsString(); ok {
				ids = append(ids, str)
			}
		}
	default:
		return nil, nil
	}

	relationTable, ok := s.schema.RelationField(entityType, field)
	if !ok {
		return nil, nil
	}

	var related []RawEntity
	var missing []string
	for _, relatedID := range ids {
		if data, ok, err := s.overlay.loadLatest(relationTable, relatedID); err != nil {
			return nil, err
		} else if ok {
			related = append(related, data)
		} else {
			missing = append(missing, relatedID)
		}
	}

	if len(missing) > 0 {
		fromExtern, err := s.extern.LoadEntities(ctx, relationTable, missing)
		if err != nil {
			return nil, errs.NewStoreErr(errs.ExternIOFailure, relationTable, "", err)
		}
		for _, data := range fromExtern {
			related = append(related, data)
			s.overlay.insertFromExtern(relationTable, data)
		}
	}

	return related, nil
}

// Commit extracts the current snapshot of every entity in the overlay and
// durably writes it, tagged with blockPtr, then records blockPtr itself.
// The overlay is NOT cleared: it survives across blocks per spec section
// 4.4 and is only emptied by Flush or Revert.
func (s *Store) Commit(ctx context.Context, blockPtr BlockPtr) error {
	start := time.Now()
	extracted := s.overlay.extractData()
	values := make([]EntitySnapshot, 0, len(extracted))
	for _, e := range extracted {
		values = append(values, EntitySnapshot{EntityType: e.EntityType, Data: e.Data})
	}

	if err := s.extern.BatchInsertEntities(ctx, blockPtr, values); err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", fmt.Errorf("batch insert at block %d: %w", blockPtr.Number, err))
	}
	if err := s.extern.SaveBlockPtr(ctx, blockPtr); err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", fmt.Errorf("save block ptr %d: %w", blockPtr.Number, err))
	}

	s.log.WithFields(logrus.Fields{
		"block_number": blockPtr.Number,
		"entities":     len(values),
		"exec_time":    time.Since(start),
	}).Info("committed store overlay to extern store")
	return nil
}

// Flush empties the overlay without touching the ExternStore, called at a
// wide cadence to cap process memory.
func (s *Store) Flush() {
	s.overlay.clear()
	s.log.Info("flushed store overlay")
}

// RevertFrom clears the overlay (its contents are not yet durable) and
// instructs the ExternStore to delete every row at or after blockNumber,
// used when the pipeline controller detects a reorg.
func (s *Store) RevertFrom(ctx context.Context, blockNumber uint64) error {
	s.log.WithField("from_block", blockNumber).Warn("reverting store (reorg)")
	s.overlay.clear()
	if err := s.extern.RevertFromBlock(ctx, blockNumber); err != nil {
		return errs.NewStoreErr(errs.ExternIOFailure, "", "", fmt.Errorf("revert from block %d: %w", blockNumber, err))
	}
	s.log.WithField("from_block", blockNumber).Warn("store reverted ok")
	return nil
}

// RemoveOutdatedSnapshots prunes all but the latest snapshot for each
// entity the overlay currently tracks, bounding the ExternStore's
// per-entity history growth.
func (s *Store) RemoveOutdatedSnapshots(ctx context.Context, atBlock uint64) (uint64, error) {
	ids := s.overlay.latestEntityIDs()
	keys := make([]EntityKey, 0, len(ids))
	for _, pair := range ids {
		keys = append(keys, EntityKey{EntityType: pair.EntityType, EntityID: pair.EntityID})
	}
	count, err := s.extern.RemoveSnapshots(ctx, keys, atBlock)
	if err != nil {
		return 0, errs.NewStoreErr(errs.ExternIOFailure, "", "", err)
	}
	s.log.WithField("removed", count).Info("entities' snapshot removed")
	return count, nil
}

// CleanHistory deletes every entity snapshot older than toBlock, tracking
// an earliest-block watermark so repeated calls with a non-advancing
// toBlock are no-ops (spec section 4.4's "tracked earliest-block watermark
// prevents redundant work").
func (s *Store) CleanHistory(ctx context.Context, toBlock uint64) (uint64, error) {
	if s.earliestBlock >= toBlock {
		return 0, nil
	}
	removed, err := s.extern.CleanDataHistory(ctx, toBlock)
	if err != nil {
		return 0, errs.NewStoreErr(errs.ExternIOFailure, "", "", err)
	}
	s.log.WithFields(logrus.Fields{"to_block": toBlock, "removed": removed}).Info("cleaned up data history")
	s.earliestBlock = toBlock
	return removed, nil
}

// RecentBlockPtrs returns up to n of the most recently committed BlockPtrs,
// used by the pipeline controller to seed its reorg-detection window after
// a restart.
func (s *Store) RecentBlockPtrs(ctx context.Context, n uint16) ([]BlockPtr, error) {
	ptrs, err := s.extern.LoadRecentBlockPtrs(ctx, n)
	if err != nil {
		return nil, errs.NewStoreErr(errs.ExternIOFailure, "", "", err)
	}
	return ptrs, nil
}
