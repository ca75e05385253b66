// asc.go marshals store.Value/RawEntity to and from a guest's linear memory
// as AssemblyScript's StoreValue enum and TypedMap<string, StoreValue>,
// grounded on original_source/src/runtime/asc/native_types/store.rs's
// StoreValueKind numbering (which this package's ValueKind iota block
// already mirrors) and on chain/asc.go's enum marshalling pattern, the only
// existing precedent for AscEnum-shaped value types in this module.
package store

import (
	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/errs"
)

// ToAsc allocates v as an AssemblyScript StoreValue enum and returns its
// pointer, the wire shape store.get/load_related hand back to the guest.
func (v Value) ToAsc(heap asc.Heap) (uint32, error) {
	switch v.Kind {
	case KindString:
		ptr, err := asc.NewString(heap, v.Str)
		if err != nil {
			return 0, err
		}
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromPtr(ptr.Addr())})
	case KindInt:
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromI32(v.Int)})
	case KindInt8:
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromI64(v.Int8)})
	case KindBigDecimal:
		ptr, err := asc.NewBigDecimal(heap, v.Decimal)
		if err != nil {
			return 0, err
		}
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromPtr(ptr)})
	case KindBool:
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromBool(v.Bool)})
	case KindList:
		elemPtrs := make([]uint32, len(v.List))
		for i, e := range v.List {
			p, err := e.ToAsc(heap)
			if err != nil {
				return 0, err
			}
			elemPtrs[i] = p
		}
		arrPtr, err := asc.NewArrayU32(heap, asc.TypeArrayStoreValue, elemPtrs)
		if err != nil {
			return 0, err
		}
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromPtr(arrPtr)})
	case KindNull:
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: 0})
	case KindBytes:
		ptr, err := asc.NewUint8Array(heap, []byte(v.Bytes))
		if err != nil {
			return 0, err
		}
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromPtr(ptr.Addr())})
	case KindBigInt:
		ptr, err := asc.NewBigInt(heap, v.BigInt)
		if err != nil {
			return 0, err
		}
		return asc.NewEnum(heap, asc.TypeStoreValue, asc.Enum{Kind: uint32(v.Kind), Payload: asc.PayloadFromPtr(ptr)})
	default:
		return 0, errs.NewHeapErr(errs.UnknownVariant, "unknown store value kind %d", v.Kind)
	}
}

// ValueFromAsc decodes the StoreValue enum at ptr, the reverse of
// Value.ToAsc, used by store.set's guest-supplied entity fields.
func ValueFromAsc(heap asc.Heap, ptr uint32) (Value, error) {
	e, err := asc.ReadEnum(heap, ptr)
	if err != nil {
		return Value{}, err
	}
	switch ValueKind(e.Kind) {
	case KindString:
		s, err := asc.ReadString(heap, asc.NewPtr[string](e.Payload.AsPtr()))
		if err != nil {
			return Value{}, err
		}
		return NewString(s), nil
	case KindInt:
		return NewInt(e.Payload.AsI32()), nil
	case KindInt8:
		return NewInt8(e.Payload.AsI64()), nil
	case KindBigDecimal:
		d, err := asc.ReadBigDecimal(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		return NewBigDecimal(d), nil
	case KindBool:
		return NewBool(e.Payload.AsBool()), nil
	case KindList:
		elemPtrs, err := asc.ReadArrayU32(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, len(elemPtrs))
		for i, p := range elemPtrs {
			elems[i], err = ValueFromAsc(heap, p)
			if err != nil {
				return Value{}, err
			}
		}
		return NewList(elems), nil
	case KindNull:
		return NewNull(), nil
	case KindBytes:
		b, err := asc.ReadUint8Array(heap, asc.NewPtr[[]byte](e.Payload.AsPtr()))
		if err != nil {
			return Value{}, err
		}
		return NewBytes(Bytes(b)), nil
	case KindBigInt:
		n, err := asc.ReadBigInt(heap, e.Payload.AsPtr())
		if err != nil {
			return Value{}, err
		}
		return NewBigInt(n), nil
	default:
		return Value{}, errs.NewHeapErr(errs.UnknownVariant, "unknown store value kind %d", e.Kind)
	}
}

// EntityToAsc encodes e as a TypedMap<string, StoreValue>, the shape
// store.get/load_related return to the guest, with fields in sorted order
// for deterministic layout across runs.
func EntityToAsc(heap asc.Heap, e RawEntity) (uint32, error) {
	names := e.SortedFields()
	entryPtrs := make([]uint32, len(names))
	for i, name := range names {
		keyPtr, err := asc.NewString(heap, name)
		if err != nil {
			return 0, err
		}
		valPtr, err := e[name].ToAsc(heap)
		if err != nil {
			return 0, err
		}
		entryPtr, err := asc.NewTypedMapEntry(heap, asc.TypeTypedMapEntryStringStoreValue, asc.MapEntry{
			KeyPtr:   keyPtr.Addr(),
			ValuePtr: valPtr,
		})
		if err != nil {
			return 0, err
		}
		entryPtrs[i] = entryPtr
	}
	return asc.NewTypedMap(heap, asc.TypeTypedMapStringStoreValue, asc.TypeArrayTypedMapEntryStringStoreValue, entryPtrs)
}

// EntityFromAsc decodes a guest-supplied TypedMap<string, StoreValue> back
// into a RawEntity, used by store.set.
func EntityFromAsc(heap asc.Heap, ptr uint32) (RawEntity, error) {
	entryPtrs, err := asc.ReadTypedMap(heap, ptr)
	if err != nil {
		return nil, err
	}
	out := make(RawEntity, len(entryPtrs))
	for _, ep := range entryPtrs {
		entry, err := asc.ReadTypedMapEntry(heap, ep)
		if err != nil {
			return nil, err
		}
		key, err := asc.ReadString(heap, asc.NewPtr[string](entry.KeyPtr))
		if err != nil {
			return nil, err
		}
		val, err := ValueFromAsc(heap, entry.ValuePtr)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}
