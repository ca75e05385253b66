package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"github.com/chainindex/corert/bignumber"
)

func bigIntFromHex(s string) (bignumber.BigInt, error) {
	if s == "" {
		return bignumber.Zero(), nil
	}
	return bignumber.FromHex(s)
}

func bigDecimalFromString(s string) (bignumber.BigDecimal, error) {
	if s == "" {
		return bignumber.ZeroDecimal(), nil
	}
	return bignumber.FromDecimalString(s)
}

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary

// entityRow is the on-disk representation of one committed entity
// snapshot, carrying the injected __block_ptr__/__is_deleted__ columns
// spec section 6 requires every extern-store row to have.
type entityRow struct {
	EntityType string
	EntityID   string
	BlockNum   uint64
	Deleted    bool
	Fields     map[string]walValue
}

// walValue is a JSON-friendly encoding of Value: a kind tag plus one payload
// field per kind (BigInt as signed hex, BigDecimal as its decimal string),
// since RawEntity's Value union doesn't map directly onto the wire format.
type walValue struct {
	Kind    uint8
	Str     string
	Int     int32
	Int8    int64
	Bool    bool
	Bytes   []byte
	BigHex  string // BigInt, hex-encoded signed value
	DecStr  string // BigDecimal, decimal string form
	List    []walValue
}

func encodeValue(v Value) walValue {
	switch v.Kind {
	case KindString:
		return walValue{Kind: uint8(v.Kind), Str: v.Str}
	case KindInt:
		return walValue{Kind: uint8(v.Kind), Int: v.Int}
	case KindInt8:
		return walValue{Kind: uint8(v.Kind), Int8: v.Int8}
	case KindBool:
		return walValue{Kind: uint8(v.Kind), Bool: v.Bool}
	case KindBytes:
		return walValue{Kind: uint8(v.Kind), Bytes: []byte(v.Bytes)}
	case KindBigInt:
		return walValue{Kind: uint8(v.Kind), BigHex: v.BigInt.ToHex()}
	case KindBigDecimal:
		return walValue{Kind: uint8(v.Kind), DecStr: v.Decimal.String()}
	case KindList:
		list := make([]walValue, len(v.List))
		for i, e := range v.List {
			list[i] = encodeValue(e)
		}
		return walValue{Kind: uint8(v.Kind), List: list}
	default:
		return walValue{Kind: uint8(KindNull)}
	}
}

func decodeValue(w walValue) (Value, error) {
	switch ValueKind(w.Kind) {
	case KindString:
		return NewString(w.Str), nil
	case KindInt:
		return NewInt(w.Int), nil
	case KindInt8:
		return NewInt8(w.Int8), nil
	case KindBool:
		return NewBool(w.Bool), nil
	case KindBytes:
		return NewBytes(Bytes(w.Bytes)), nil
	case KindBigInt:
		b, err := bigIntFromHex(w.BigHex)
		if err != nil {
			return Value{}, err
		}
		return NewBigInt(b), nil
	case KindBigDecimal:
		d, err := bigDecimalFromString(w.DecStr)
		if err != nil {
			return Value{}, err
		}
		return NewBigDecimal(d), nil
	case KindList:
		list := make([]Value, len(w.List))
		for i, e := range w.List {
			v, err := decodeValue(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = v
		}
		return NewList(list), nil
	default:
		return NewNull(), nil
	}
}

func encodeEntity(entityType, id string, blockNum uint64, data RawEntity) entityRow {
	fields := make(map[string]walValue, len(data))
	for k, v := range data {
		if k == "__is_deleted__" || k == "__block_ptr__" {
			continue
		}
		fields[k] = encodeValue(v)
	}
	return entityRow{
		EntityType: entityType,
		EntityID:   id,
		BlockNum:   blockNum,
		Deleted:    data.IsDeleted(),
		Fields:     fields,
	}
}

func decodeEntity(row entityRow) (RawEntity, error) {
	out := make(RawEntity, len(row.Fields)+2)
	for k, w := range row.Fields {
		v, err := decodeValue(w)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	out["id"] = NewString(row.EntityID)
	out["__is_deleted__"] = NewBool(row.Deleted)
	out["__block_ptr__"] = NewInt8(int64(row.BlockNum))
	return out, nil
}

// MemoryExternStore is the reference ExternStore: an in-process table kept
// in memory, optionally durable via a WAL, with the rows CleanDataHistory
// prunes appended to a gzip archive when ArchivePath is set,
// grounded on the teacher's core/ledger.go (WAL replay on open, gzip
// archive on prune, JSON row encoding).
type MemoryExternStore struct {
	mu sync.Mutex

	// rows[entityType][entityID] is the append-only snapshot history, the
	// extern-store counterpart of the overlay's own history shape.
	rows map[string]map[string][]entityRow

	blockPtrs []BlockPtr // newest first

	walPath     string
	walFile     *os.File
	archivePath string

	log logrus.FieldLogger
}

// MemoryExternStoreConfig configures optional durability. WALPath and
// ArchivePath may both be empty, in which case the store is purely
// in-memory (suitable for tests).
type MemoryExternStoreConfig struct {
	WALPath     string
	ArchivePath string
	Log         logrus.FieldLogger
}

// NewMemoryExternStore constructs a store, replaying any existing WAL.
func NewMemoryExternStore(cfg MemoryExternStoreConfig) (*MemoryExternStore, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &MemoryExternStore{
		rows:        make(map[string]map[string][]entityRow),
		walPath:     cfg.WALPath,
		archivePath: cfg.ArchivePath,
		log:         log,
	}

	if cfg.WALPath == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.WALPath), 0o755); err != nil {
		return nil, fmt.Errorf("create wal dir: %w", err)
	}
	f, err := os.OpenFile(cfg.WALPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open wal: %w", err)
	}
	s.walFile = f

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var rec walRecord
		if err := jsonc.Unmarshal(scanner.Bytes(), &rec); err != nil {
			f.Close()
			return nil, fmt.Errorf("wal unmarshal: %w", err)
		}
		s.applyRecord(rec)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("wal scan: %w", err)
	}
	return s, nil
}

// walRecord is one WAL line: either an entity row or a block-ptr save.
type walRecord struct {
	Row      *entityRow
	BlockPtr *BlockPtr
}

func (s *MemoryExternStore) applyRecord(rec walRecord) {
	if rec.Row != nil {
		s.insertRowLocked(*rec.Row)
	}
	if rec.BlockPtr != nil {
		s.blockPtrs = append([]BlockPtr{*rec.BlockPtr}, s.blockPtrs...)
	}
}

func (s *MemoryExternStore) insertRowLocked(row entityRow) {
	table, ok := s.rows[row.EntityType]
	if !ok {
		table = make(map[string][]entityRow)
		s.rows[row.EntityType] = table
	}
	table[row.EntityID] = append(table[row.EntityID], row)
}

func (s *MemoryExternStore) appendWAL(rec walRecord) error {
	if s.walFile == nil {
		return nil
	}
	data, err := jsonc.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wal record: %w", err)
	}
	if _, err := s.walFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write wal: %w", err)
	}
	return s.walFile.Sync()
}

func (s *MemoryExternStore) CreateEntityTables(ctx context.Context) error   { return nil }
func (s *MemoryExternStore) CreateBlockPtrTable(ctx context.Context) error { return nil }

func (s *MemoryExternStore) LoadEntity(ctx context.Context, blockPtr BlockPtr, entityType, id string) (RawEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.rows[entityType]
	if !ok {
		return nil, nil
	}
	history, ok := table[id]
	if !ok {
		return nil, nil
	}
	var best *entityRow
	for i := range history {
		if history[i].BlockNum > blockPtr.Number {
			continue
		}
		if best == nil || history[i].BlockNum > best.BlockNum {
			best = &history[i]
		}
	}
	if best == nil || best.Deleted {
		return nil, nil
	}
	return decodeEntity(*best)
}

func (s *MemoryExternStore) LoadEntityLatest(ctx context.Context, entityType, id string) (RawEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.rows[entityType]
	if !ok {
		return nil, nil
	}
	history, ok := table[id]
	if !ok || len(history) == 0 {
		return nil, nil
	}
	last := history[len(history)-1]
	if last.Deleted {
		return nil, nil
	}
	return decodeEntity(last)
}

func (s *MemoryExternStore) LoadEntities(ctx context.Context, entityType string, ids []string) ([]RawEntity, error) {
	var out []RawEntity
	for _, id := range ids {
		e, err := s.LoadEntityLatest(ctx, entityType, id)
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryExternStore) BatchInsertEntities(ctx context.Context, blockPtr BlockPtr, values []EntitySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Buffer rows and WAL records first so the write is all-or-nothing:
	// a marshal failure partway through must not leave a partial commit.
	rows := make([]entityRow, 0, len(values))
	var wal []byte
	for _, v := range values {
		id, ok := v.Data.ID()
		if !ok {
			return fmt.Errorf("batch insert: entity of type %s missing id field", v.EntityType)
		}
		row := encodeEntity(v.EntityType, id, blockPtr.Number, v.Data)
		rows = append(rows, row)
		data, err := jsonc.Marshal(walRecord{Row: &row})
		if err != nil {
			return fmt.Errorf("marshal wal record: %w", err)
		}
		wal = append(append(wal, data...), '\n')
	}

	if s.walFile != nil && len(wal) > 0 {
		if _, err := s.walFile.Write(wal); err != nil {
			return fmt.Errorf("write wal: %w", err)
		}
		if err := s.walFile.Sync(); err != nil {
			return err
		}
	}
	for _, row := range rows {
		s.insertRowLocked(row)
	}
	return nil
}

func (s *MemoryExternStore) SoftDeleteEntity(ctx context.Context, blockPtr BlockPtr, entityType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := entityRow{EntityType: entityType, EntityID: id, BlockNum: blockPtr.Number, Deleted: true}
	if err := s.appendWAL(walRecord{Row: &row}); err != nil {
		return err
	}
	s.insertRowLocked(row)
	return nil
}

func (s *MemoryExternStore) RevertFromBlock(ctx context.Context, fromBlock uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for entityType, table := range s.rows {
		for id, history := range table {
			kept := history[:0]
			for _, row := range history {
				if row.BlockNum < fromBlock {
					kept = append(kept, row)
				}
			}
			if len(kept) == 0 {
				delete(table, id)
			} else {
				table[id] = kept
			}
		}
		if len(table) == 0 {
			delete(s.rows, entityType)
		}
	}

	kept := s.blockPtrs[:0]
	for _, bp := range s.blockPtrs {
		if bp.Number < fromBlock {
			kept = append(kept, bp)
		}
	}
	s.blockPtrs = kept

	return s.rewriteWAL()
}

func (s *MemoryExternStore) SaveBlockPtr(ctx context.Context, blockPtr BlockPtr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendWAL(walRecord{BlockPtr: &blockPtr}); err != nil {
		return err
	}
	s.blockPtrs = append([]BlockPtr{blockPtr}, s.blockPtrs...)
	return nil
}

func (s *MemoryExternStore) LoadRecentBlockPtrs(ctx context.Context, n uint16) ([]BlockPtr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(n) > len(s.blockPtrs) {
		n = uint16(len(s.blockPtrs))
	}
	out := make([]BlockPtr, n)
	copy(out, s.blockPtrs[:n])
	return out, nil
}

func (s *MemoryExternStore) GetEarliestBlockPtr(ctx context.Context) (BlockPtr, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.blockPtrs) == 0 {
		return BlockPtr{}, false, nil
	}
	earliest := s.blockPtrs[0]
	for _, bp := range s.blockPtrs[1:] {
		if bp.Number < earliest.Number {
			earliest = bp
		}
	}
	return earliest, true, nil
}

func (s *MemoryExternStore) CleanDataHistory(ctx context.Context, toBlock uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed uint64
	var pruned []entityRow
	for entityType, table := range s.rows {
		for id, history := range table {
			kept := history[:0]
			for _, row := range history {
				if row.BlockNum < toBlock {
					removed++
					pruned = append(pruned, row)
					continue
				}
				kept = append(kept, row)
			}
			if len(kept) == 0 {
				delete(table, id)
			} else {
				table[id] = kept
			}
		}
		if len(table) == 0 {
			delete(s.rows, entityType)
		}
	}
	if removed > 0 {
		if err := s.ArchivePruned(pruned); err != nil {
			return removed, err
		}
		if err := s.rewriteWAL(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (s *MemoryExternStore) RemoveSnapshots(ctx context.Context, entities []EntityKey, atBlock uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed uint64
	for _, key := range entities {
		table, ok := s.rows[key.EntityType]
		if !ok {
			continue
		}
		history, ok := table[key.EntityID]
		if !ok || len(history) <= 1 {
			continue
		}
		sort.Slice(history, func(i, j int) bool { return history[i].BlockNum < history[j].BlockNum })
		var kept []entityRow
		for i, row := range history {
			if row.BlockNum <= atBlock && i != len(history)-1 {
				removed++
				continue
			}
			kept = append(kept, row)
		}
		table[key.EntityID] = kept
	}
	if removed > 0 {
		if err := s.rewriteWAL(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// rewriteWAL truncates the WAL and re-serializes the current in-memory
// state, matching the teacher's Ledger.rewriteWAL used after a prune or
// revert shrinks the durable log.
func (s *MemoryExternStore) rewriteWAL() error {
	if s.walFile == nil {
		return nil
	}
	if err := s.walFile.Close(); err != nil {
		return err
	}
	f, err := os.Create(s.walPath)
	if err != nil {
		return err
	}
	s.walFile = f

	for _, table := range s.rows {
		for _, history := range table {
			for _, row := range history {
				row := row
				if err := s.appendWAL(walRecord{Row: &row}); err != nil {
					return err
				}
			}
		}
	}
	for i := len(s.blockPtrs) - 1; i >= 0; i-- {
		bp := s.blockPtrs[i]
		if err := s.appendWAL(walRecord{BlockPtr: &bp}); err != nil {
			return err
		}
	}
	return nil
}

// ArchivePruned gzip-compresses and appends the given rows to ArchivePath;
// CleanDataHistory calls it with the rows it prunes before rewriting the
// WAL without them. It replaces the teacher's
// stdlib compress/gzip call in core/ledger.go's prune() with
// klauspost/compress's faster implementation.
func (s *MemoryExternStore) ArchivePruned(rows []entityRow) error {
	if s.archivePath == "" || len(rows) == 0 {
		return nil
	}
	f, err := os.OpenFile(s.archivePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	for _, row := range rows {
		encoded, err := rlp.EncodeToBytes(struct {
			EntityType string
			EntityID   string
			BlockNum   uint64
			Deleted    bool
		}{row.EntityType, row.EntityID, row.BlockNum, row.Deleted})
		if err != nil {
			return fmt.Errorf("rlp encode archived row: %w", err)
		}
		if _, err := gz.Write(encoded); err != nil {
			return err
		}
		if _, err := gz.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return gz.Flush()
}

// Close releases the WAL file handle, if any.
func (s *MemoryExternStore) Close() error {
	if s.walFile == nil {
		return nil
	}
	return s.walFile.Close()
}
