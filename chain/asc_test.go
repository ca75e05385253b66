package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainindex/corert/asc"
)

// fakeHeap is a bump-allocated stand-in for a wasmer instance's linear
// memory, the same pattern asc's own tests use, to exercise marshalling
// without a real guest module.
type fakeHeap struct {
	mem []byte
}

func newFakeHeap() *fakeHeap { return &fakeHeap{mem: make([]byte, 8)} }

func (h *fakeHeap) RawNew(b []byte) (uint32, error) {
	addr := uint32(len(h.mem))
	h.mem = append(h.mem, b...)
	return addr, nil
}

func (h *fakeHeap) Read(offset, length uint32) ([]byte, error) {
	out := make([]byte, length)
	copy(out, h.mem[offset:offset+length])
	return out, nil
}

func (h *fakeHeap) ReadU32(offset uint32) (uint32, error) {
	b, err := h.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (h *fakeHeap) ABIVersion() asc.ABIVersion { return asc.V0_0_5 }

func (h *fakeHeap) TypeID(id asc.TypeID) (uint32, error) { return uint32(id), nil }

func TestValueToAscString(t *testing.T) {
	heap := newFakeHeap()
	ptr, err := NewStringValue("hello").ToAsc(heap)
	if err != nil {
		t.Fatal(err)
	}
	e, err := asc.ReadEnum(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if ValueKind(e.Kind) != KindString {
		t.Fatalf("got kind %d, want %d", e.Kind, KindString)
	}
	got, err := asc.ReadString(heap, asc.NewPtr[string](e.Payload.AsPtr()))
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestValueToAscBoolPacksPayloadDirectly(t *testing.T) {
	heap := newFakeHeap()
	ptr, err := NewBoolValue(true).ToAsc(heap)
	if err != nil {
		t.Fatal(err)
	}
	e, err := asc.ReadEnum(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Payload.AsBool() {
		t.Fatal("expected bool payload to decode true")
	}
}

func TestValueToAscArrayNesting(t *testing.T) {
	heap := newFakeHeap()
	arr := NewArray([]Value{NewUint(big.NewInt(1)), NewUint(big.NewInt(2))})
	ptr, err := arr.ToAsc(heap)
	if err != nil {
		t.Fatal(err)
	}
	e, err := asc.ReadEnum(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	elems, err := asc.ReadArrayU32(heap, e.Payload.AsPtr())
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
}

func TestBlockDataToAscDoesNotError(t *testing.T) {
	heap := newFakeHeap()
	b := BlockData{
		Hash:            common.HexToHash("0x1"),
		ParentHash:      common.HexToHash("0x2"),
		Number:          100,
		GasUsed:         big.NewInt(21000),
		GasLimit:        big.NewInt(30000000),
		Timestamp:       big.NewInt(1690000000),
		Difficulty:      big.NewInt(0),
		TotalDifficulty: big.NewInt(0),
	}
	if _, err := b.ToAsc(heap); err != nil {
		t.Fatal(err)
	}
}

func TestValueRoundTripsThroughAsc(t *testing.T) {
	cases := []Value{
		NewStringValue("graph-node"),
		NewBoolValue(true),
		NewUint(big.NewInt(123456789)),
		NewInt(big.NewInt(-42)),
		NewAddress(common.HexToAddress("0xdeadbeef")),
		NewBytesValue([]byte{1, 2, 3}),
		NewArray([]Value{NewUint(big.NewInt(1)), NewStringValue("x")}),
		NewTuple([]Value{NewBoolValue(false), NewUint(big.NewInt(7))}),
	}
	for _, v := range cases {
		heap := newFakeHeap()
		ptr, err := v.ToAsc(heap)
		if err != nil {
			t.Fatalf("ToAsc(%v): %v", v.Kind, err)
		}
		got, err := ValueFromAsc(heap, ptr)
		if err != nil {
			t.Fatalf("ValueFromAsc(%v): %v", v.Kind, err)
		}
		if got.Kind != v.Kind {
			t.Fatalf("got kind %v, want %v", got.Kind, v.Kind)
		}
	}
}

func TestEventDataToAscNestsBlockTransactionAndParams(t *testing.T) {
	heap := newFakeHeap()
	e := EventData{
		Address:             common.HexToAddress("0xabc"),
		LogIndex:             big.NewInt(3),
		TransactionLogIndex:  big.NewInt(0),
		Block: BlockData{
			Number:          10,
			GasUsed:         big.NewInt(1),
			GasLimit:        big.NewInt(1),
			Timestamp:       big.NewInt(1),
			Difficulty:      big.NewInt(1),
			TotalDifficulty: big.NewInt(1),
		},
		Transaction: TransactionData{
			Index:    0,
			Value:    big.NewInt(0),
			GasLimit: big.NewInt(1),
			GasPrice: big.NewInt(1),
			Nonce:    big.NewInt(1),
		},
		Params: []EventParam{
			{Name: "from", Value: NewAddress(common.HexToAddress("0x1"))},
			{Name: "amount", Value: NewUint(big.NewInt(42))},
		},
	}
	ptr, err := e.ToAsc(heap)
	if err != nil {
		t.Fatal(err)
	}
	if ptr == 0 {
		t.Fatal("expected non-zero pointer")
	}
}
