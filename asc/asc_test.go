package asc

import (
	"bytes"
	"testing"

	"github.com/chainindex/corert/bignumber"
)

// fakeHeap is a bump-allocated in-memory stand-in for a wasmer instance's
// linear memory, used to exercise round-trip marshalling without a real
// guest module.
type fakeHeap struct {
	mem []byte
	abi ABIVersion
}

func newFakeHeap(abi ABIVersion) *fakeHeap {
	return &fakeHeap{mem: make([]byte, 8), abi: abi}
}

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
	return getU32LE(h.mem[offset : offset+4]), nil
}

func (h *fakeHeap) ABIVersion() ABIVersion { return h.abi }

func (h *fakeHeap) TypeID(id TypeID) (uint32, error) { return uint32(id), nil }

func TestStringRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	ptr, err := NewString(heap, "hello, wasm")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadString(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, wasm" {
		t.Fatalf("got %q", got)
	}
}

func TestStringRoundTripLegacyABI(t *testing.T) {
	heap := newFakeHeap(V0_0_4)
	ptr, err := NewString(heap, "legacy")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadString(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if got != "legacy" {
		t.Fatalf("got %q", got)
	}
}

func TestUint8ArrayRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	ptr, err := NewUint8Array(heap, data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadUint8Array(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %x, want %x", got, data)
	}
}

func TestArrayU32RoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	elems := []uint32{10, 20, 30, 40}
	ptr, err := NewArrayU32(heap, TypeArrayU32, elems)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadArrayU32(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(elems) {
		t.Fatalf("got %d elements, want %d", len(got), len(elems))
	}
	for i, e := range elems {
		if got[i] != e {
			t.Fatalf("element %d: got %d, want %d", i, got[i], e)
		}
	}
}

func TestEnumRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	ptr, err := NewEnum(heap, TypeEthereumValue, Enum{Kind: 3, Payload: PayloadFromI64(-42)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadEnum(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != 3 || got.Payload.AsI64() != -42 {
		t.Fatalf("got %+v", got)
	}
}

func TestTypedMapRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	k1, _ := NewString(heap, "name")
	v1, _ := NewString(heap, "alice")
	e1, err := NewTypedMapEntry(heap, TypeTypedMapEntryStringStoreValue, MapEntry{KeyPtr: k1.Addr(), ValuePtr: v1.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	mapPtr, err := NewTypedMap(heap, TypeTypedMapStringStoreValue, TypeArrayTypedMapEntryStringStoreValue, []uint32{e1})
	if err != nil {
		t.Fatal(err)
	}
	entryPtrs, err := ReadTypedMap(heap, mapPtr)
	if err != nil {
		t.Fatal(err)
	}
	if len(entryPtrs) != 1 {
		t.Fatalf("got %d entries", len(entryPtrs))
	}
	entry, err := ReadTypedMapEntry(heap, entryPtrs[0])
	if err != nil {
		t.Fatal(err)
	}
	key, err := ReadString(heap, NewPtr[string](entry.KeyPtr))
	if err != nil {
		t.Fatal(err)
	}
	if key != "name" {
		t.Fatalf("got key %q", key)
	}
}

func TestBigIntRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	v, err := bignumber.FromString("-123456789012345678901234567890")
	if err != nil {
		t.Fatal(err)
	}
	ptr, err := NewBigInt(heap, v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadBigInt(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != v.String() {
		t.Fatalf("got %s, want %s", got.String(), v.String())
	}
}

func TestBigDecimalRoundTrip(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	d, err := bignumber.FromDecimalString("12.375")
	if err != nil {
		t.Fatal(err)
	}
	ptr, err := NewBigDecimal(heap, d)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadBigDecimal(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equals(d) {
		t.Fatalf("got %s, want %s", got.String(), d.String())
	}
}

func TestHeaderPaddingTo16(t *testing.T) {
	cases := []struct {
		content int
		want    int
	}{
		{0, 12},
		{4, 8},
		{12, 0},
		{28, 0},
	}
	for _, c := range cases {
		if got := PaddingTo16(c.content); got != c.want {
			t.Fatalf("PaddingTo16(%d) = %d, want %d", c.content, got, c.want)
		}
	}
}

// TestStringHeaderExactnessAndAllocationSize covers spec property-2
// (header exactness) and property-4/S1 (capacity rounding): the string
// "Hello" followed by the astral code point U+1F600 encodes to the
// five-u16-plus-surrogate-pair sequence [0x0048, 0x0065, 0x006C, 0x006C,
// 0x006F, 0xD83D, 0xDE00] (14 content bytes), whose total allocation
// (20-byte header + capacity) must land exactly on next_pow2(20+14) = 64.
func TestStringHeaderExactnessAndAllocationSize(t *testing.T) {
	heap := newFakeHeap(V0_0_5)
	s := "Hello" + string(rune(0x1F600))

	before := len(heap.mem)
	ptr, err := NewString(heap, s)
	if err != nil {
		t.Fatal(err)
	}
	allocated := len(heap.mem) - before
	if allocated != 64 {
		t.Fatalf("allocation length = %d, want 64", allocated)
	}

	headerBytes, err := heap.Read(ptr.Addr()-HeaderSize, HeaderSize)
	if err != nil {
		t.Fatal(err)
	}
	header, err := DecodeHeader(headerBytes)
	if err != nil {
		t.Fatal(err)
	}

	contentLen := len(EncodeString(s))
	if contentLen != 14 {
		t.Fatalf("encoded content length = %d, want 14", contentLen)
	}
	if header.RtSize != uint32(contentLen) {
		t.Fatalf("rt_size = %d, want %d", header.RtSize, contentLen)
	}
	if header.RtID != uint32(TypeString) {
		t.Fatalf("rt_id = %d, want %d", header.RtID, uint32(TypeString))
	}
	if header.GCInfo != 0 || header.GCInfo2 != 0 {
		t.Fatalf("gc_info/gc_info2 = %d/%d, want 0/0", header.GCInfo, header.GCInfo2)
	}
	wantMMInfo := uint32(16 + (allocated - HeaderSize))
	if header.MMInfo != wantMMInfo {
		t.Fatalf("mm_info = %d, want %d", header.MMInfo, wantMMInfo)
	}

	got, err := ReadString(heap, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("got %q, want %q", got, s)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 1024: 1024, 1025: 2048}
	for in, want := range cases {
		if got := NextPowerOfTwo(in); got != want {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
