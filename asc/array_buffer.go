package asc

// NewArrayBuffer allocates a raw ArrayBuffer object holding content verbatim
// and returns its address.
func NewArrayBuffer(heap Heap, content []byte) (uint32, error) {
	return AllocGrowableObj(heap, TypeArrayBuffer, content)
}

// ReadArrayBuffer reads the raw bytes backing the ArrayBuffer at ptr.
func ReadArrayBuffer(heap Heap, ptr uint32) ([]byte, error) {
	return ReadObj(heap, ptr)
}
