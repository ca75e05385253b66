package asc

// Heap is the capability a guest WASM instance's linear memory exposes to
// the marshalling code in this package. It is implemented in wasmhost
// against a live wasmer instance so this package stays engine-agnostic,
// mirroring the original runtime's AscHeap trait.
type Heap interface {
	// RawNew allocates len(bytes) of guest memory and copies bytes into it,
	// returning the address of the first byte written.
	RawNew(bytes []byte) (uint32, error)

	// Read copies length bytes starting at offset out of guest memory.
	Read(offset uint32, length uint32) ([]byte, error)

	// ReadU32 reads a single little-endian u32 at offset.
	ReadU32(offset uint32) (uint32, error)

	// ABIVersion reports which AssemblyScript ABI dialect the guest module
	// was compiled against.
	ABIVersion() ABIVersion

	// TypeID resolves a TypeID constant to the guest module's own runtime
	// discriminant via its exported `id_of_type` function (api-version >=
	// 0.0.5 only; callers must not invoke this under V0_0_4).
	TypeID(id TypeID) (uint32, error)
}
