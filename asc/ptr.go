package asc

import "github.com/chainindex/corert/errs"

// Ptr is a typed address into a guest's linear memory, mirroring the
// original runtime's AscPtr<C>. The type parameter carries no runtime
// information; it exists purely so callers cannot pass a pointer to the
// wrong decoder.
type Ptr[T any] struct {
	addr uint32
}

// NewPtr wraps a raw guest address.
func NewPtr[T any](addr uint32) Ptr[T] { return Ptr[T]{addr: addr} }

// NullPtrOf returns the AssemblyScript null pointer (address zero) as a
// typed Ptr; the untyped NullPtr constant is its raw-address form.
func NullPtrOf[T any]() Ptr[T] { return Ptr[T]{addr: 0} }

// Addr returns the raw guest address.
func (p Ptr[T]) Addr() uint32 { return p.addr }

// IsNull reports whether p is AssemblyScript's null.
func (p Ptr[T]) IsNull() bool { return p.addr == 0 }

// CheckNotNull returns a HeapErr if p is null. Callers must check this
// before reading through a pointer.
func (p Ptr[T]) CheckNotNull() error {
	if p.IsNull() {
		return errs.NewHeapErr(errs.NullPtrRead, "tried to read a null AssemblyScript pointer")
	}
	return nil
}

// Erase discards the type parameter.
func (p Ptr[T]) Erase() Ptr[any] { return Ptr[any]{addr: p.addr} }

// AllocObj writes content as a new object of the given runtime type,
// prefixing the 20-byte header and 16-byte alignment padding when the
// guest's ABI carries one (api-version >= 0.0.5). The returned address
// points at the first content byte, not the header.
//
// Only the modern (>= 0.0.5) header dialect is implemented in full; the
// legacy (<= 0.0.4) dialect is supported with the simplified convention of
// a single leading byte_length-u32 field (matching ArrayBuffer's pre-0.0.5
// layout) rather than every type's bespoke legacy struct shape, since
// production datasources targeted by this runtime compile against modern
// AssemblyScript.
func AllocObj(heap Heap, typeID TypeID, content []byte) (uint32, error) {
	if heap.ABIVersion().HasHeader() {
		capacity := len(content) + PaddingTo16(len(content))
		return allocHeaderObj(heap, typeID, content, capacity)
	}
	return allocLegacyObj(heap, content)
}

// AllocGrowableObj allocates content as a new object whose backing capacity
// is rounded up to the next power of two of header-size-plus-content (api
// version >= 0.0.5), matching AssemblyScript's allocator for the two object
// kinds whose backing store is resizable in place: String
// (native_types/string.rs) and ArrayBuffer (array_buffer/v0_0_5.rs). Every
// other object uses AllocObj's fixed, 16-byte-aligned capacity instead.
func AllocGrowableObj(heap Heap, typeID TypeID, content []byte) (uint32, error) {
	if heap.ABIVersion().HasHeader() {
		capacity := NextPowerOfTwo(HeaderSize+len(content)) - HeaderSize
		return allocHeaderObj(heap, typeID, content, capacity)
	}
	return allocLegacyObj(heap, content)
}

func allocHeaderObj(heap Heap, typeID TypeID, content []byte, capacity int) (uint32, error) {
	padded := make([]byte, capacity)
	copy(padded, content)
	header := EncodeHeader(typeID, len(content), capacity)
	full := append(header, padded...)
	base, err := heap.RawNew(full)
	if err != nil {
		return 0, err
	}
	return base + HeaderSize, nil
}

func allocLegacyObj(heap Heap, content []byte) (uint32, error) {
	total := 4 + len(content)
	capacity := NextPowerOfTwo(total)
	legacy := make([]byte, capacity)
	putU32LE(legacy[0:4], uint32(len(content)))
	copy(legacy[4:], content)
	return heap.RawNew(legacy)
}

// ReadObj reads the raw content bytes of the object at ptr, without the
// header (the length comes from the header's rt_size under >= 0.0.5, or
// from the legacy byte_length prefix under <= 0.0.4).
func ReadObj(heap Heap, ptr uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, errs.NewHeapErr(errs.NullPtrRead, "tried to read a null AssemblyScript pointer")
	}
	if heap.ABIVersion().HasHeader() {
		length, err := ReadLen(heap, ptr)
		if err != nil {
			return nil, err
		}
		return heap.Read(ptr, length)
	}
	lengthField, err := heap.Read(ptr, 4)
	if err != nil {
		return nil, err
	}
	length := getU32LE(lengthField)
	return heap.Read(ptr+4, length)
}

// ReadLen reads the rt_size field of the header immediately preceding ptr
// (api-version >= 0.0.5 only).
func ReadLen(heap Heap, ptr uint32) (uint32, error) {
	if ptr < sizeOfRtSize {
		return 0, errs.NewHeapErr(errs.Overflow, "pointer %d underflows rt_size offset", ptr)
	}
	return heap.ReadU32(ptr - sizeOfRtSize)
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
