package asc

import (
	"math"

	"github.com/chainindex/corert/errs"
)

// enumSize is AscEnum<D>'s in-memory size: kind (u32) + explicit padding
// (u32) + payload (u64).
const enumSize = 16

// EnumPayload is the 8-byte tagged-union payload AssemblyScript's
// JSONValue/StoreValue/EthereumValue/Value classes carry alongside a kind
// discriminant.
type EnumPayload uint64

// PayloadFromI32 packs a 32-bit signed value (sign-extended into the 64-bit
// payload the way the original's `From<i32> for EnumPayload` does).
func PayloadFromI32(v int32) EnumPayload { return EnumPayload(uint64(int64(v))) }

// PayloadFromI64 packs a 64-bit signed value.
func PayloadFromI64(v int64) EnumPayload { return EnumPayload(uint64(v)) }

// PayloadFromF64 packs a float64 via its IEEE-754 bit pattern.
func PayloadFromF64(v float64) EnumPayload { return EnumPayload(math.Float64bits(v)) }

// PayloadFromBool packs a bool as 0 or 1.
func PayloadFromBool(v bool) EnumPayload {
	if v {
		return 1
	}
	return 0
}

// PayloadFromPtr packs a guest pointer.
func PayloadFromPtr(addr uint32) EnumPayload { return EnumPayload(uint64(addr)) }

// AsI32 unpacks the payload as a truncated 32-bit signed value.
func (p EnumPayload) AsI32() int32 { return int32(uint32(p)) }

// AsI64 unpacks the payload as a 64-bit signed value.
func (p EnumPayload) AsI64() int64 { return int64(p) }

// AsF64 unpacks the payload via its IEEE-754 bit pattern.
func (p EnumPayload) AsF64() float64 { return math.Float64frombits(uint64(p)) }

// AsBool unpacks the payload as a bool (nonzero is true).
func (p EnumPayload) AsBool() bool { return p != 0 }

// AsPtr unpacks the payload as a guest pointer.
func (p EnumPayload) AsPtr() uint32 { return uint32(p) }

// Enum is the decoded form of an AscEnum<D>: a u32 kind discriminant plus
// its tagged payload.
type Enum struct {
	Kind    uint32
	Payload EnumPayload
}

// NewEnum allocates a tagged enum object of the given outer typeID (e.g.
// TypeEthereumValue, TypeStoreValue, TypeJSONValue).
func NewEnum(heap Heap, typeID TypeID, e Enum) (uint32, error) {
	content := make([]byte, enumSize)
	putU32LE(content[0:4], e.Kind)
	putU32LE(content[4:8], 0)
	putU64LE(content[8:16], uint64(e.Payload))
	return AllocObj(heap, typeID, content)
}

// ReadEnum reads the tagged enum object at ptr.
func ReadEnum(heap Heap, ptr uint32) (Enum, error) {
	content, err := ReadObj(heap, ptr)
	if err != nil {
		return Enum{}, err
	}
	if len(content) < enumSize {
		return Enum{}, errs.NewHeapErr(errs.SizeNotFit, "enum requires %d bytes, got %d", enumSize, len(content))
	}
	return Enum{
		Kind:    getU32LE(content[0:4]),
		Payload: EnumPayload(getU64LE(content[8:16])),
	}, nil
}

func putU64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
