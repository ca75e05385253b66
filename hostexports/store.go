package hostexports

import (
	"context"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/store"
)

// storeExports implements `store.*` (spec section 4.3, semantics detailed
// in section 4.4), delegating directly to the configured store.Store and
// marshalling RawEntity through store/asc.go's TypedMap<string,StoreValue>
// codec, the same shape the guest's Entity class expects.
func storeExports(wstore *wasmer.Store, inst asc.Heap, cfg BuildConfig) map[string]wasmer.IntoExtern {
	get := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			entityType, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			id, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			data, err := cfg.Store.Load(context.Background(), entityType, id)
			if err != nil {
				return nil, err
			}
			if data == nil {
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}
			ptr, err := store.EntityToAsc(inst, data)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	getInBlock := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			entityType, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			id, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			data, err := cfg.Store.LoadInBlock(entityType, id)
			if err != nil {
				return nil, err
			}
			if data == nil {
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}
			ptr, err := store.EntityToAsc(inst, data)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	set := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(3), noResults()),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			entityType, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			id, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			data, err := store.EntityFromAsc(inst, uint32(args[2].I32()))
			if err != nil {
				return nil, err
			}
			if err := cfg.Store.Update(entityType, id, data); err != nil {
				return nil, err
			}
			return nil, nil
		},
	)

	remove := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), noResults()),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			entityType, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			id, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			if err := cfg.Store.Delete(entityType, id); err != nil {
				return nil, err
			}
			return nil, nil
		},
	)

	loadRelated := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(3), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			entityType, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			id, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[1].I32())))
			if err != nil {
				return nil, err
			}
			field, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[2].I32())))
			if err != nil {
				return nil, err
			}
			related, err := cfg.Store.LoadRelated(context.Background(), entityType, id, field)
			if err != nil {
				return nil, err
			}
			elemPtrs := make([]uint32, len(related))
			for i, e := range related {
				p, err := store.EntityToAsc(inst, e)
				if err != nil {
					return nil, err
				}
				elemPtrs[i] = p
			}
			arrPtr, err := asc.NewArrayU32(inst, asc.TypeArrayTypedMapStringStore, elemPtrs)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(arrPtr))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"store.get":          get,
		"store.set":          set,
		"store.remove":       remove,
		"store.get_in_block": getInBlock,
		"store.load_related": loadRelated,
	}
}
