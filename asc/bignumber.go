package asc

import (
	"github.com/chainindex/corert/bignumber"
	"github.com/chainindex/corert/errs"
)

// bigDecimalStructSize is AssemblyScript's BigDecimal class layout: two
// pointer fields, `digits` (a BigInt) and `exp` (a BigInt).
const bigDecimalStructSize = 8

// NewBigInt allocates a BigInt value. AssemblyScript's BigInt class extends
// Uint8Array, so the wire layout is identical to a Uint8Array of the
// little-endian two's-complement bytes.
func NewBigInt(heap Heap, v bignumber.BigInt) (uint32, error) {
	data := v.ToSignedBytesLE()
	bufferPtr, err := NewArrayBuffer(heap, data)
	if err != nil {
		return 0, err
	}
	view := make([]byte, typedArrayViewSize)
	putU32LE(view[0:4], bufferPtr)
	putU32LE(view[4:8], bufferPtr)
	putU32LE(view[8:12], uint32(len(data)))
	return AllocObj(heap, TypeUint8Array, view)
}

// ReadBigInt reads the BigInt at ptr.
func ReadBigInt(heap Heap, ptr uint32) (bignumber.BigInt, error) {
	bytes, err := ReadUint8Array(heap, NewPtr[[]byte](ptr))
	if err != nil {
		return bignumber.BigInt{}, err
	}
	return bignumber.FromSignedBytesLE(bytes)
}

// NewBigDecimal allocates a BigDecimal value as a {digits, exp} struct of
// two BigInt pointers, matching graph-ts's BigDecimal class.
func NewBigDecimal(heap Heap, v bignumber.BigDecimal) (uint32, error) {
	digitsPtr, err := NewBigInt(heap, v.Digits())
	if err != nil {
		return 0, err
	}
	expPtr, err := NewBigInt(heap, bignumber.FromInt64(v.Exponent()))
	if err != nil {
		return 0, err
	}
	content := make([]byte, bigDecimalStructSize)
	putU32LE(content[0:4], digitsPtr)
	putU32LE(content[4:8], expPtr)
	return AllocObj(heap, TypeBigDecimal, content)
}

// ReadBigDecimal reads the BigDecimal at ptr.
func ReadBigDecimal(heap Heap, ptr uint32) (bignumber.BigDecimal, error) {
	content, err := ReadObj(heap, ptr)
	if err != nil {
		return bignumber.BigDecimal{}, err
	}
	if len(content) < bigDecimalStructSize {
		return bignumber.BigDecimal{}, errs.NewHeapErr(errs.SizeNotFit, "bigdecimal struct requires %d bytes, got %d", bigDecimalStructSize, len(content))
	}
	digitsPtr := getU32LE(content[0:4])
	expPtr := getU32LE(content[4:8])

	digits, err := ReadBigInt(heap, digitsPtr)
	if err != nil {
		return bignumber.BigDecimal{}, err
	}
	expBig, err := ReadBigInt(heap, expPtr)
	if err != nil {
		return bignumber.BigDecimal{}, err
	}
	if !expBig.Inner().IsInt64() {
		return bignumber.BigDecimal{}, errs.NewNumberErr(errs.NumberTooBig, "bigdecimal exponent does not fit in an int64")
	}
	return bignumber.NewBigDecimal(digits, expBig.Inner().Int64())
}
