package store

import (
	"testing"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/bignumber"
)

// fakeHeap mirrors chain/asc_test.go's bump-allocated stand-in for a
// wasmer instance's linear memory.
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

func TestValueRoundTripsThroughAsc(t *testing.T) {
	bi := bignumber.FromInt64(42)
	bd, err := bignumber.NewBigDecimal(bi, 0)
	if err != nil {
		t.Fatal(err)
	}
	cases := []Value{
		NewString("hello"),
		NewInt(7),
		NewInt8(-9),
		NewBigDecimal(bd),
		NewBool(true),
		NewNull(),
		NewBytes(Bytes{1, 2, 3}),
		NewBigInt(bi),
		NewList([]Value{NewInt(1), NewString("x")}),
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
		if !got.Equals(v) {
			t.Fatalf("got %+v, want %+v", got, v)
		}
	}
}

func TestEntityRoundTripsThroughAsc(t *testing.T) {
	heap := newFakeHeap()
	entity := RawEntity{
		"id":   NewString("0xabc"),
		"name": NewString("token"),
		"age":  NewInt(3),
	}
	ptr, err := EntityToAsc(heap, entity)
	if err != nil {
		t.Fatal(err)
	}
	got, err := EntityFromAsc(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(entity) {
		t.Fatalf("got %d fields, want %d", len(got), len(entity))
	}
	for k, v := range entity {
		gv, ok := got[k]
		if !ok {
			t.Fatalf("missing field %q", k)
		}
		if !gv.Equals(v) {
			t.Fatalf("field %q: got %+v, want %+v", k, gv, v)
		}
	}
}
