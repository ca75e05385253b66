package asc

import "github.com/chainindex/corert/errs"

// arrayViewSize is the in-memory size of AssemblyScript's Array<T> struct:
// #data (buffer ptr, u32), #dataStart (u32), #dataLength (u32) and the
// mutable #length (i32).
const arrayViewSize = 16

// NewArrayU32 allocates a dynamic AssemblyScript Array<T> whose elements are
// u32-width (pointers into other objects, or raw u32/i32 values) and
// returns its address. typeID should be the Array<T> discriminant for the
// element type (e.g. TypeArrayString for Array<string>).
func NewArrayU32(heap Heap, typeID TypeID, elements []uint32) (uint32, error) {
	content := make([]byte, len(elements)*4)
	for i, e := range elements {
		putU32LE(content[i*4:i*4+4], e)
	}
	bufferPtr, err := NewArrayBuffer(heap, content)
	if err != nil {
		return 0, err
	}
	view := make([]byte, arrayViewSize)
	putU32LE(view[0:4], bufferPtr)
	putU32LE(view[4:8], bufferPtr)
	putU32LE(view[8:12], uint32(len(content)))
	putU32LE(view[12:16], uint32(len(elements)))
	return AllocObj(heap, typeID, view)
}

// ReadArrayU32 reads the u32 elements of the Array<T> at ptr. On the spec
// section 9 "Array<T> size-match predicate" question: the error condition
// here is a backing buffer that, from dataStart on, holds fewer than
// element-count * 4 bytes; a longer buffer (spare capacity) is accepted, and
// the view's own byte-length field is not consulted. The original source's
// apparently inverted predicate is not mirrored (Open Question decision in
// DESIGN.md).
func ReadArrayU32(heap Heap, ptr uint32) ([]uint32, error) {
	view, err := ReadObj(heap, ptr)
	if err != nil {
		return nil, err
	}
	if len(view) < arrayViewSize {
		return nil, errs.NewHeapErr(errs.SizeNotFit, "array view requires %d bytes, got %d", arrayViewSize, len(view))
	}
	bufferPtr := getU32LE(view[0:4])
	dataStart := getU32LE(view[4:8])
	length := int32(getU32LE(view[12:16]))
	if length < 0 {
		return nil, errs.NewHeapErr(errs.SizeMismatch, "array reports negative length %d", length)
	}

	buffer, err := ReadArrayBuffer(heap, bufferPtr)
	if err != nil {
		return nil, err
	}
	offset := dataStart - bufferPtr
	need := int(offset) + int(length)*4
	if need > len(buffer) {
		return nil, errs.NewHeapErr(errs.SizeMismatch, "array byte length %d does not match declared element count %d", len(buffer)-int(offset), length)
	}

	out := make([]uint32, length)
	for i := range out {
		start := int(offset) + i*4
		out[i] = getU32LE(buffer[start : start+4])
	}
	return out, nil
}
