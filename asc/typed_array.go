package asc

import "github.com/chainindex/corert/errs"

// typedArrayViewSize is the in-memory size of the ArrayBufferView struct
// AssemblyScript lays three fields out as: #data (buffer ptr, u32),
// #dataStart (u32) and #dataLength (u32). See
// https://www.assemblyscript.org/memory.html#arraybufferview-layout.
const typedArrayViewSize = 12

// NewUint8Array allocates data as a backing ArrayBuffer plus a Uint8Array
// view over it, and returns the view's address. Uint8Array backs the
// `Bytes` type used pervasively by the host exports (spec section 4.3).
func NewUint8Array(heap Heap, data []byte) (Ptr[[]byte], error) {
	bufferPtr, err := NewArrayBuffer(heap, data)
	if err != nil {
		return Ptr[[]byte]{}, err
	}
	view := make([]byte, typedArrayViewSize)
	putU32LE(view[0:4], bufferPtr)
	putU32LE(view[4:8], bufferPtr)
	putU32LE(view[8:12], uint32(len(data)))
	viewPtr, err := AllocObj(heap, TypeUint8Array, view)
	if err != nil {
		return Ptr[[]byte]{}, err
	}
	return NewPtr[[]byte](viewPtr), nil
}

// ReadUint8Array reads the bytes a Uint8Array view points at, honoring the
// dataStart/buffer offset AssemblyScript's ArrayBufferView layout requires.
func ReadUint8Array(heap Heap, ptr Ptr[[]byte]) ([]byte, error) {
	if err := ptr.CheckNotNull(); err != nil {
		return nil, err
	}
	view, err := ReadObj(heap, ptr.Addr())
	if err != nil {
		return nil, err
	}
	if len(view) < typedArrayViewSize {
		return nil, errs.NewHeapErr(errs.SizeNotFit, "typed array view requires %d bytes, got %d", typedArrayViewSize, len(view))
	}
	bufferPtr := getU32LE(view[0:4])
	dataStart := getU32LE(view[4:8])
	byteLength := getU32LE(view[8:12])

	offset := dataStart - bufferPtr
	buffer, err := ReadArrayBuffer(heap, bufferPtr)
	if err != nil {
		return nil, err
	}
	if uint64(offset)+uint64(byteLength) > uint64(len(buffer)) {
		return nil, errs.NewHeapErr(errs.HeapOOB, "typed array view [%d:%d] exceeds backing buffer of length %d", offset, offset+byteLength, len(buffer))
	}
	return buffer[offset : offset+byteLength], nil
}
