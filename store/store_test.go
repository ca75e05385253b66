package store

import (
	"context"
	"errors"
	"testing"

	"github.com/chainindex/corert/errs"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	extern, err := NewMemoryExternStore(MemoryExternStoreConfig{})
	if err != nil {
		t.Fatal(err)
	}
	return New(extern, Schema{}, nil)
}

func TestOverlayCreateAndLoad(t *testing.T) {
	s := testStore(t)
	data := RawEntity{"id": NewString("1"), "name": NewString("test")}
	id, err := s.Create("test", data)
	if err != nil {
		t.Fatal(err)
	}
	if id != "1" {
		t.Fatalf("got id %q", id)
	}

	got, err := s.Load(context.Background(), "test", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected entity, got nil")
	}
	if name, _ := got["name"].AsString(); name != "test" {
		t.Fatalf("got name %q", name)
	}
	if deleted := got.IsDeleted(); deleted {
		t.Fatal("expected not deleted")
	}
}

func TestOverlayDeleteThenLoad(t *testing.T) {
	s := testStore(t)
	data := RawEntity{"id": NewString("1"), "name": NewString("test")}
	if _, err := s.Create("test", data); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("test", "1"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(context.Background(), "test", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}

	// Deleting again should succeed: the overlay has a prior snapshot to
	// copy a new tombstone from.
	if err := s.Delete("test", "1"); err != nil {
		t.Fatal(err)
	}
}

func TestOverlayDeleteMissingEntity(t *testing.T) {
	s := testStore(t)
	err := s.Delete("test", "does-not-exist")
	if err == nil {
		t.Fatal("expected error deleting unknown entity")
	}
	var storeErr *errs.StoreErr
	if !errors.As(err, &storeErr) || storeErr.Kind != errs.MissingEntityOnDelete {
		t.Fatalf("got %v, want MissingEntityOnDelete", err)
	}
}

func TestExtractDataKeepsOnlyLatestSnapshot(t *testing.T) {
	s := testStore(t)
	if _, err := s.Create("test", RawEntity{"id": NewString("1"), "name": NewString("v1")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("test", RawEntity{"id": NewString("1"), "name": NewString("v2")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("test2", RawEntity{"id": NewString("2"), "name": NewString("other")}); err != nil {
		t.Fatal(err)
	}

	extracted := s.overlay.extractData()
	if len(extracted) != 2 {
		t.Fatalf("got %d extracted entities, want 2", len(extracted))
	}
	for _, e := range extracted {
		if e.EntityType == "test" {
			if name, _ := e.Data["name"].AsString(); name != "v2" {
				t.Fatalf("expected latest snapshot v2, got %q", name)
			}
		}
	}
}

func TestCommitMigratesOverlayToExternStore(t *testing.T) {
	s := testStore(t)
	if _, err := s.Create("test", RawEntity{"id": NewString("1"), "name": NewString("test")}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	blockPtr := BlockPtr{Number: 10, Hash: "0xb", ParentHash: "0xa"}
	if err := s.Commit(ctx, blockPtr); err != nil {
		t.Fatal(err)
	}

	got, err := s.extern.LoadEntityLatest(ctx, "test", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected entity committed to extern store")
	}
	if bp, ok := got.BlockPtrField(); !ok || uint64(bp) != 10 {
		t.Fatalf("got block ptr field %v", bp)
	}

	ptrs, err := s.RecentBlockPtrs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ptrs) != 1 || ptrs[0].Number != 10 {
		t.Fatalf("got %+v", ptrs)
	}
}

func TestLoadFallsThroughToExternAndCaches(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.extern.BatchInsertEntities(ctx, BlockPtr{Number: 5}, []EntitySnapshot{
		{EntityType: "test", Data: RawEntity{"id": NewString("9"), "name": NewString("extern")}},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "test", "9")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected entity loaded from extern store")
	}

	// now present in overlay without touching extern again
	cached, err := s.LoadInBlock("test", "9")
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil {
		t.Fatal("expected entity cached in overlay after extern fallthrough")
	}
}

func TestFlushEmptiesOverlayOnly(t *testing.T) {
	s := testStore(t)
	if _, err := s.Create("test", RawEntity{"id": NewString("1"), "name": NewString("test")}); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	got, err := s.LoadInBlock("test", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected overlay empty after flush")
	}
}

func TestRevertFromClearsOverlayAndExtern(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.Create("test", RawEntity{"id": NewString("1"), "name": NewString("test")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx, BlockPtr{Number: 10}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx, BlockPtr{Number: 11}); err != nil {
		t.Fatal(err)
	}

	if err := s.RevertFrom(ctx, 11); err != nil {
		t.Fatal(err)
	}

	ptrs, err := s.RecentBlockPtrs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range ptrs {
		if p.Number >= 11 {
			t.Fatalf("expected block ptr %d to be reverted", p.Number)
		}
	}

	got, err := s.LoadInBlock("test", "1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected overlay cleared by revert")
	}
}

func TestCleanHistoryWatermark(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	removed, err := s.CleanHistory(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	_ = removed

	// second call with a non-advancing target should be a no-op
	removed2, err := s.CleanHistory(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if removed2 != 0 {
		t.Fatalf("expected no-op clean below watermark, removed %d", removed2)
	}
}

func TestBlockPtrIsParentOf(t *testing.T) {
	parent := BlockPtr{Number: 10, Hash: "0xa", ParentHash: "0x9"}
	child := BlockPtr{Number: 11, Hash: "0xb", ParentHash: "0xa"}
	if !parent.IsParentOf(child) {
		t.Fatal("expected parent relationship")
	}
	notChild := BlockPtr{Number: 12, Hash: "0xc", ParentHash: "0xa"}
	if parent.IsParentOf(notChild) {
		t.Fatal("expected no parent relationship (number mismatch)")
	}
}
