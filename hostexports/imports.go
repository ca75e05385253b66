// Package hostexports implements the Host Exports (spec section 4.3/6): the
// closed table of functions a guest datasource module imports, grouped by
// module name exactly as AssemblyScript's `@external` declarations expect.
// Grounded on the teacher's registerHost in core/virtual_machine.go (the
// wasmer-go NewFunction/NewFunctionType/ImportObject.Register idiom),
// generalized from a single "env" namespace of gas/storage primitives to
// the closed module/name table spec section 6 enumerates.
package hostexports

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/manifest"
	"github.com/chainindex/corert/rpc"
	"github.com/chainindex/corert/store"
	"github.com/chainindex/corert/wasmhost"
)

// BuildConfig carries the collaborators and datasource identity a single
// Host Instance's import table is bound to. One BuildConfig is constructed
// per datasource instantiation (spec section 4.6's Datasource Instance
// Factory owns the wiring).
type BuildConfig struct {
	Store    *store.Store
	RPC      rpc.Agent
	Manifest manifest.Agent
	Contexts *ContextStore

	DatasourceName string
	Network        string
	Address        string

	Log logrus.FieldLogger
}

// Build returns a wasmhost.Config.Imports factory bound to cfg, wiring
// every host-export namespace spec section 6 names: env, conversion,
// numbers, json, ethereum, datasource, store, log, and the legacy index
// umbrella.
func Build(cfg BuildConfig) func(*wasmer.Store, *wasmhost.Instance) *wasmer.ImportObject {
	return func(wstore *wasmer.Store, inst *wasmhost.Instance) *wasmer.ImportObject {
		log := cfg.Log
		if log == nil {
			log = logrus.StandardLogger()
		}

		imports := wasmer.NewImportObject()
		imports.Register("env", map[string]wasmer.IntoExtern{
			"abort": envAbort(wstore, inst, log),
		})
		imports.Register("conversion", conversionExports(wstore, inst))
		imports.Register("numbers", numbersExports(wstore, inst))
		imports.Register("json", jsonExports(wstore, inst))
		imports.Register("ethereum", ethereumExports(wstore, inst, cfg))
		imports.Register("datasource", datasourceExports(wstore, inst, cfg))
		imports.Register("store", storeExports(wstore, inst, cfg))
		imports.Register("log", logExports(wstore, inst, log))
		imports.Register("index", legacyExports(wstore, inst, cfg, log))
		return imports
	}
}

// i32Params builds a parameter list of n consecutive i32 values, the shape
// every host export in this package uses (guest pointers and small
// integers are both passed as i32 across the wasm boundary).
func i32Params(n int) *wasmer.ValueTypes {
	kinds := make([]wasmer.ValueKind, n)
	for i := range kinds {
		kinds[i] = wasmer.I32
	}
	return wasmer.NewValueTypes(kinds...)
}

func noResults() *wasmer.ValueTypes { return wasmer.NewValueTypes() }

// envAbort implements `env.abort(msg_ptr, file_ptr, line, column)`: it logs
// the guest's failure message and traps the instance by returning an error,
// matching spec section 6's "traps the instance".
func envAbort(wstore *wasmer.Store, inst *wasmhost.Instance, log logrus.FieldLogger) wasmer.IntoExtern {
	return wasmer.NewFunction(
		wstore,
		wasmer.NewFunctionType(i32Params(4), noResults()),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			msgPtr := uint32(args[0].I32())
			filePtr := uint32(args[1].I32())
			line := args[2].I32()
			column := args[3].I32()

			msg, _ := asc.ReadString(inst, asc.NewPtr[string](msgPtr))
			file, _ := asc.ReadString(inst, asc.NewPtr[string](filePtr))
			log.WithFields(logrus.Fields{"file": file, "line": line, "column": column}).Error("wasm module aborted: " + msg)
			return nil, fmt.Errorf("wasm abort: %s (%s:%d:%d)", msg, file, line, column)
		},
	)
}
