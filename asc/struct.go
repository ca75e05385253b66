package asc

// NewStruct allocates a plain-old-data AssemblyScript class whose every
// field is a single u32 (a pointer to another heap object, or a raw packed
// value), in declaration order. This mirrors the host's impl_asc_type_struct!
// macro: chain record types like AscEthereumBlock, AscEthereumEvent and
// AscEventParam are exactly this shape, a fixed list of AscPtr<T> fields.
func NewStruct(heap Heap, typeID TypeID, fields []uint32) (uint32, error) {
	content := make([]byte, len(fields)*4)
	for i, f := range fields {
		putU32LE(content[i*4:i*4+4], f)
	}
	return AllocObj(heap, typeID, content)
}

// NullPtr is the AssemblyScript representation of an absent AscPtr<T>
// (Option::None), the zero address.
const NullPtr uint32 = 0
