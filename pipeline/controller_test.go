package pipeline

import (
	"context"
	"testing"

	"github.com/chainindex/corert/chain"
	"github.com/chainindex/corert/store"
)

type fakeBlockAgent struct {
	seen []store.BlockPtr
}

func (f *fakeBlockAgent) SetBlockPtr(ptr store.BlockPtr) { f.seen = append(f.seen, ptr) }

func newTestController(t *testing.T, cfg Config) (*Controller, *store.Store) {
	t.Helper()
	extern, err := store.NewMemoryExternStore(store.MemoryExternStoreConfig{})
	if err != nil {
		t.Fatal(err)
	}
	schema := store.Schema{}
	s := store.New(extern, schema, nil)
	if err := s.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	cfg.Store = s
	return New(cfg), s
}

func blockMsg(n uint64) BlockMessage {
	return BlockMessage{Block: chain.BlockData{Number: n}}
}

func TestControllerSetsBlockContextOnAgents(t *testing.T) {
	rpc := &fakeBlockAgent{}
	manifest := &fakeBlockAgent{}
	c, _ := newTestController(t, Config{RPC: rpc, Manifest: manifest})

	if _, err := c.ProcessBlock(context.Background(), blockMsg(1)); err != nil {
		t.Fatal(err)
	}
	if len(rpc.seen) != 1 || rpc.seen[0].Number != 1 {
		t.Fatalf("rpc agent did not see block context: %+v", rpc.seen)
	}
	if len(manifest.seen) != 1 {
		t.Fatalf("manifest agent did not see block context: %+v", manifest.seen)
	}
}

func TestControllerInspectorGatesUnexpectedBlocks(t *testing.T) {
	in := NewInspector(nil, StartAt(0), 10, nil)
	c, _ := newTestController(t, Config{Inspector: in})

	if result, err := c.ProcessBlock(context.Background(), blockMsg(0)); err != nil || result != OkToProceed {
		t.Fatalf("got (%v, %v), want (OkToProceed, nil)", result, err)
	}
	if result, err := c.ProcessBlock(context.Background(), blockMsg(5)); err != nil || result != UnexpectedBlock {
		t.Fatalf("got (%v, %v), want (UnexpectedBlock, nil)", result, err)
	}
}

func TestControllerCommitAndFlushCadences(t *testing.T) {
	c, s := newTestController(t, Config{CommitEvery: 4, FlushEvery: 8, ProgressEvery: 2})

	if _, err := s.Create("Token", store.RawEntity{"id": store.NewString("1")}); err != nil {
		t.Fatal(err)
	}

	for n := uint64(1); n <= 8; n++ {
		if _, err := c.ProcessBlock(context.Background(), blockMsg(n)); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.RecentBlockPtrs(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d committed block ptrs, want 2 (blocks 4 and 8)", len(recent))
	}
}
