package hostexports

import (
	"strings"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/errs"
	"github.com/chainindex/corert/store"
)

// datasourceExports implements `datasource.*` (spec section 4.3's
// "Datasource templating"), delegating template instantiation to the
// configured manifest.Agent and answering the host instance's own
// identity for address/network/context, per
// original_source/src/components/manifest/mod.rs's create_datasource.
func datasourceExports(wstore *wasmer.Store, inst asc.Heap, cfg BuildConfig) map[string]wasmer.IntoExtern {
	create := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(2), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			name, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			paramPtrs, err := asc.ReadArrayU32(inst, uint32(args[1].I32()))
			if err != nil {
				return nil, err
			}
			if len(paramPtrs) == 0 {
				return nil, errs.NewHeapErr(errs.SizeMismatch, "dataSource.create: params must supply at least an address")
			}
			address, err := asc.ReadString(inst, asc.NewPtr[string](paramPtrs[0]))
			if err != nil {
				return nil, err
			}
			if cfg.Manifest == nil {
				return nil, errs.NewHeapErr(errs.UnknownVariant, "dataSource.create: no manifest agent configured")
			}
			if _, err := cfg.Manifest.CreateDatasource(name, strings.ToLower(address)); err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		},
	)

	createWithContext := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(3), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			name, err := asc.ReadString(inst, asc.NewPtr[string](uint32(args[0].I32())))
			if err != nil {
				return nil, err
			}
			paramPtrs, err := asc.ReadArrayU32(inst, uint32(args[1].I32()))
			if err != nil {
				return nil, err
			}
			if len(paramPtrs) == 0 {
				return nil, errs.NewHeapErr(errs.SizeMismatch, "dataSource.createWithContext: params must supply at least an address")
			}
			address, err := asc.ReadString(inst, asc.NewPtr[string](paramPtrs[0]))
			if err != nil {
				return nil, err
			}
			address = strings.ToLower(address)

			ctxEntries, err := asc.ReadTypedMap(inst, uint32(args[2].I32()))
			if err != nil {
				return nil, err
			}
			ctx := make(map[string]store.Value, len(ctxEntries))
			for _, ep := range ctxEntries {
				entry, err := asc.ReadTypedMapEntry(inst, ep)
				if err != nil {
					return nil, err
				}
				key, err := asc.ReadString(inst, asc.NewPtr[string](entry.KeyPtr))
				if err != nil {
					return nil, err
				}
				val, err := store.ValueFromAsc(inst, entry.ValuePtr)
				if err != nil {
					return nil, err
				}
				ctx[key] = val
			}

			if cfg.Manifest == nil {
				return nil, errs.NewHeapErr(errs.UnknownVariant, "dataSource.createWithContext: no manifest agent configured")
			}
			if _, err := cfg.Manifest.CreateDatasource(name, address); err != nil {
				return nil, err
			}
			if cfg.Contexts != nil {
				cfg.Contexts.Set(address, ctx)
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		},
	)

	address := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(0), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, err := asc.NewUint8Array(inst, []byte(cfg.Address))
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	network := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(0), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, err := asc.NewString(inst, cfg.Network)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr.Addr()))}, nil
		},
	)

	readContext := wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(0), i32Params(1)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			var ctx map[string]store.Value
			if cfg.Contexts != nil {
				ctx, _ = cfg.Contexts.Get(cfg.Address)
			}
			entity := make(store.RawEntity, len(ctx))
			for k, v := range ctx {
				entity[k] = v
			}
			ptr, err := store.EntityToAsc(inst, entity)
			if err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(ptr))}, nil
		},
	)

	return map[string]wasmer.IntoExtern{
		"create":            create,
		"createWithContext": createWithContext,
		"address":           address,
		"network":           network,
		"context":           readContext,
	}
}
