package pipeline

import (
	"fmt"
	"testing"

	"github.com/chainindex/corert/store"
)

func blockPtrN(n uint64) store.BlockPtr {
	parent := ""
	if n > 0 {
		parent = fmt.Sprintf("n=%d", n-1)
	}
	return store.BlockPtr{Number: n, Hash: fmt.Sprintf("n=%d", n), ParentHash: parent}
}

// TestInspectorLifecycle ports original_source/src/components/inspector.rs's
// test_block_inspector end to end: linear growth to the reorg threshold,
// unexpected/reorg/fork classification, and window truncation on fork.
func TestInspectorLifecycle(t *testing.T) {
	in := NewInspector(nil, StartAt(0), 10, nil)

	for n := uint64(0); n < 20; n++ {
		if result := in.Check(blockPtrN(n)); result != OkToProceed {
			t.Fatalf("block %d: got %v, want OkToProceed", n, result)
		}
	}

	recent := in.Recent()
	if len(recent) != 10 {
		t.Fatalf("got window size %d, want 10", len(recent))
	}
	if recent[0].Number != 19 {
		t.Fatalf("front = %d, want 19", recent[0].Number)
	}
	if recent[len(recent)-1].Number != 10 {
		t.Fatalf("back = %d, want 10", recent[len(recent)-1].Number)
	}

	if got := in.Check(store.BlockPtr{Number: 22}); got != UnexpectedBlock {
		t.Fatalf("got %v, want UnexpectedBlock", got)
	}
	if got := in.Check(store.BlockPtr{Number: 21}); got != UnexpectedBlock {
		t.Fatalf("got %v, want UnexpectedBlock", got)
	}
	if got := in.Check(store.BlockPtr{Number: 20}); got != MaybeReorg {
		t.Fatalf("got %v, want MaybeReorg", got)
	}
	if got := in.Check(store.BlockPtr{Number: 19}); got != MaybeReorg {
		t.Fatalf("got %v, want MaybeReorg", got)
	}
	if got := in.Check(store.BlockPtr{Number: 15, Hash: "n=15", ParentHash: "n=some-fork-block"}); got != MaybeReorg {
		t.Fatalf("got %v, want MaybeReorg", got)
	}
	if got := in.Check(store.BlockPtr{Number: 9}); got != UnrecognizedBlock {
		t.Fatalf("got %v, want UnrecognizedBlock", got)
	}
	if got := in.Check(blockPtrN(10)); got != BlockAlreadyProcessed {
		t.Fatalf("got %v, want BlockAlreadyProcessed", got)
	}
	if got := in.Check(blockPtrN(19)); got != BlockAlreadyProcessed {
		t.Fatalf("got %v, want BlockAlreadyProcessed", got)
	}
	if got := in.Check(blockPtrN(15)); got != BlockAlreadyProcessed {
		t.Fatalf("got %v, want BlockAlreadyProcessed", got)
	}
	if got := in.Check(blockPtrN(20)); got != OkToProceed {
		t.Fatalf("got %v, want OkToProceed", got)
	}

	recent = in.Recent()
	if recent[0] != blockPtrN(20) {
		t.Fatalf("front = %+v, want block 20", recent[0])
	}
	if recent[len(recent)-1].Number != 11 {
		t.Fatalf("back number = %d, want 11", recent[len(recent)-1].Number)
	}

	forkBlock := store.BlockPtr{Number: 19, Hash: "n=fork19", ParentHash: "n=18"}
	if got := in.Check(forkBlock); got != ForkBlock {
		t.Fatalf("got %v, want ForkBlock", got)
	}

	recent = in.Recent()
	if len(recent) != 9 {
		t.Fatalf("got window size %d after fork, want 9", len(recent))
	}
	if recent[0] != forkBlock {
		t.Fatalf("front = %+v, want fork block", recent[0])
	}
	if recent[len(recent)-1].Number != 11 {
		t.Fatalf("back number = %d, want 11", recent[len(recent)-1].Number)
	}
}

func TestInspectorStartAtLatest(t *testing.T) {
	in := NewInspector(nil, StartAtLatest(), 10, nil)
	if got := in.Check(blockPtrN(42)); got != OkToProceed {
		t.Fatalf("got %v, want OkToProceed", got)
	}
}
