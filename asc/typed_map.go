package asc

import "github.com/chainindex/corert/errs"

// entrySize is TypedMapEntry<K,V>'s in-memory size: two u32 pointers
// (key, value).
const entrySize = 8

// mapSize is TypedMap<K,V>'s in-memory size: a single `entries` field
// pointing at the backing Array<Entry<K,V>>.
const mapSize = 4

// MapEntry is a decoded TypedMapEntry<K,V>: a pointer to the key object and
// a pointer to the value object.
type MapEntry struct {
	KeyPtr   uint32
	ValuePtr uint32
}

// NewTypedMapEntry allocates a TypedMapEntry<K,V> object.
func NewTypedMapEntry(heap Heap, typeID TypeID, e MapEntry) (uint32, error) {
	content := make([]byte, entrySize)
	putU32LE(content[0:4], e.KeyPtr)
	putU32LE(content[4:8], e.ValuePtr)
	return AllocObj(heap, typeID, content)
}

// ReadTypedMapEntry reads the TypedMapEntry<K,V> object at ptr.
func ReadTypedMapEntry(heap Heap, ptr uint32) (MapEntry, error) {
	content, err := ReadObj(heap, ptr)
	if err != nil {
		return MapEntry{}, err
	}
	if len(content) < entrySize {
		return MapEntry{}, errs.NewHeapErr(errs.SizeNotFit, "typed map entry requires %d bytes, got %d", entrySize, len(content))
	}
	return MapEntry{
		KeyPtr:   getU32LE(content[0:4]),
		ValuePtr: getU32LE(content[4:8]),
	}, nil
}

// NewTypedMap builds a TypedMap<K,V> (an Array<Entry<K,V>> wrapped in a
// single-field `entries` struct) from already-allocated entry pointers.
// entryArrayTypeID should be the Array<TypedMapEntry<K,V>> discriminant
// (e.g. TypeArrayTypedMapEntryStringStoreValue) and mapTypeID the wrapping
// map discriminant (e.g. TypeTypedMapStringStoreValue).
func NewTypedMap(heap Heap, mapTypeID, entryArrayTypeID TypeID, entryPtrs []uint32) (uint32, error) {
	arrayPtr, err := NewArrayU32(heap, entryArrayTypeID, entryPtrs)
	if err != nil {
		return 0, err
	}
	content := make([]byte, mapSize)
	putU32LE(content[0:4], arrayPtr)
	return AllocObj(heap, mapTypeID, content)
}

// ReadTypedMap reads the entry pointers out of a TypedMap<K,V>.
func ReadTypedMap(heap Heap, ptr uint32) ([]uint32, error) {
	content, err := ReadObj(heap, ptr)
	if err != nil {
		return nil, err
	}
	if len(content) < mapSize {
		return nil, errs.NewHeapErr(errs.SizeNotFit, "typed map requires %d bytes, got %d", mapSize, len(content))
	}
	arrayPtr := getU32LE(content[0:4])
	return ReadArrayU32(heap, arrayPtr)
}
