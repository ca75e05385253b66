// Package wasmhost implements the Host Instance (spec section 4.2): a
// compiled WASM module bound to its linear memory, import table and
// exported handler functions. Grounded on the teacher's HeavyVM in
// core/virtual_machine.go (wasmer engine/store/module/instance plumbing,
// generalized from a single "_start" entrypoint to a full datasource
// handler table).
package wasmhost

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/errs"
)

// Instance is a live WASM module instance bound to one datasource. It
// implements asc.Heap so the asc package's marshalling functions can read
// and write the guest's linear memory.
type Instance struct {
	instance *wasmer.Instance
	memory   *wasmer.Memory
	abi      asc.ABIVersion

	allocate      wasmer.NativeFunction
	idOfType      wasmer.NativeFunction
	blockHandlers map[string]wasmer.NativeFunction
	eventHandlers map[string]wasmer.NativeFunction
	txHandlers    map[string]wasmer.NativeFunction

	log logrus.FieldLogger
}

// Config describes how to instantiate a compiled module.
type Config struct {
	Code        []byte
	ABI         asc.ABIVersion
	DataSource  string
	Imports     func(store *wasmer.Store, inst *Instance) *wasmer.ImportObject
	Log         logrus.FieldLogger
}

// New compiles code and instantiates it against the given import table
// factory. The import table needs a forward reference to the *Instance
// being built (for memory access), so Imports is invoked after module
// compilation but the returned Instance's memory/handles are filled in
// immediately after instantiation succeeds.
func New(cfg Config) (*Instance, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	inst := &Instance{
		abi:           cfg.ABI,
		blockHandlers: map[string]wasmer.NativeFunction{},
		eventHandlers: map[string]wasmer.NativeFunction{},
		txHandlers:    map[string]wasmer.NativeFunction{},
		log:           log.WithField("datasource", cfg.DataSource),
	}

	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	module, err := wasmer.NewModule(store, cfg.Code)
	if err != nil {
		return nil, fmt.Errorf("compile wasm module %s: %w", cfg.DataSource, err)
	}

	imports := cfg.Imports(store, inst)
	wasmerInstance, err := wasmer.NewInstance(module, imports)
	if err != nil {
		return nil, fmt.Errorf("instantiate wasm module %s: %w", cfg.DataSource, err)
	}
	inst.instance = wasmerInstance

	mem, err := wasmerInstance.Exports.GetMemory("memory")
	if err != nil {
		return nil, fmt.Errorf("wasm module %s has no memory export: %w", cfg.DataSource, err)
	}
	inst.memory = mem

	if cfg.ABI.HasHeader() {
		allocateFn, err := wasmerInstance.Exports.GetFunction("allocate")
		if err != nil {
			return nil, fmt.Errorf("wasm module %s has no allocate export: %w", cfg.DataSource, err)
		}
		inst.allocate = allocateFn

		idOfTypeFn, err := wasmerInstance.Exports.GetFunction("id_of_type")
		if err == nil {
			inst.idOfType = idOfTypeFn
		}

		if start, err := wasmerInstance.Exports.GetFunction("_start"); err == nil {
			if _, err := start(); err != nil {
				return nil, fmt.Errorf("wasm module %s: _start failed: %w", cfg.DataSource, err)
			}
		}
	} else {
		allocateFn, err := wasmerInstance.Exports.GetFunction("memory.allocate")
		if err != nil {
			return nil, fmt.Errorf("wasm module %s has no memory.allocate export: %w", cfg.DataSource, err)
		}
		inst.allocate = allocateFn
	}

	return inst, nil
}

// BindHandler registers a named export as a block, event or transaction
// handler. kind is one of "block", "event", "transaction".
func (inst *Instance) BindHandler(kind, name string) error {
	fn, err := inst.instance.Exports.GetFunction(name)
	if err != nil {
		return fmt.Errorf("handler export %q not found: %w", name, err)
	}
	switch kind {
	case "block":
		inst.blockHandlers[name] = fn
	case "event":
		inst.eventHandlers[name] = fn
	case "transaction":
		inst.txHandlers[name] = fn
	default:
		return fmt.Errorf("unknown handler kind %q", kind)
	}
	return nil
}

// BlockHandler returns the named block handler, if bound.
func (inst *Instance) BlockHandler(name string) (wasmer.NativeFunction, bool) {
	fn, ok := inst.blockHandlers[name]
	return fn, ok
}

// EventHandler returns the named event handler, if bound.
func (inst *Instance) EventHandler(name string) (wasmer.NativeFunction, bool) {
	fn, ok := inst.eventHandlers[name]
	return fn, ok
}

// TransactionHandler returns the named transaction handler, if bound.
func (inst *Instance) TransactionHandler(name string) (wasmer.NativeFunction, bool) {
	fn, ok := inst.txHandlers[name]
	return fn, ok
}

// Invoke calls a bound handler function with a single guest pointer
// argument, the convention every graph-ts-style handler uses.
func (inst *Instance) Invoke(fn wasmer.NativeFunction, argPtr uint32) error {
	_, err := fn(int32(argPtr))
	return err
}

// --- asc.Heap implementation -------------------------------------------------

// RawNew reserves len(bytes) of guest memory via the module's allocate
// export and copies bytes into it, matching the original runtime's
// AscHeap::raw_new.
func (inst *Instance) RawNew(bytes []byte) (uint32, error) {
	result, err := inst.allocate(int32(len(bytes)))
	if err != nil {
		return 0, errs.NewHeapErr(errs.HeapOOB, "guest allocate(%d) failed: %v", len(bytes), err)
	}
	ptr, ok := result.(int32)
	if !ok {
		return 0, errs.NewHeapErr(errs.HeapOOB, "guest allocate returned unexpected type %T", result)
	}
	addr := uint32(ptr)
	data := inst.memory.Data()
	if uint64(addr)+uint64(len(bytes)) > uint64(len(data)) {
		return 0, errs.NewHeapErr(errs.HeapOOB, "allocation at %d of %d bytes exceeds memory size %d", addr, len(bytes), len(data))
	}
	copy(data[addr:], bytes)
	return addr, nil
}

// Read copies length bytes out of guest memory starting at offset.
func (inst *Instance) Read(offset uint32, length uint32) ([]byte, error) {
	data := inst.memory.Data()
	if uint64(offset)+uint64(length) > uint64(len(data)) {
		return nil, errs.NewHeapErr(errs.HeapOOB, "read [%d:%d] exceeds memory size %d", offset, offset+length, len(data))
	}
	out := make([]byte, length)
	copy(out, data[offset:offset+length])
	return out, nil
}

// ReadU32 reads a single little-endian u32 at offset.
func (inst *Instance) ReadU32(offset uint32) (uint32, error) {
	b, err := inst.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// ABIVersion reports the dialect this instance was compiled against.
func (inst *Instance) ABIVersion() asc.ABIVersion { return inst.abi }

// TypeID resolves a TypeID constant via the guest's id_of_type export
// (api-version >= 0.0.5 only).
func (inst *Instance) TypeID(id asc.TypeID) (uint32, error) {
	if inst.idOfType == nil {
		return 0, errs.NewHeapErr(errs.UnknownVariant, "module has no id_of_type export")
	}
	result, err := inst.idOfType(int32(id))
	if err != nil {
		return 0, errs.NewHeapErr(errs.UnknownVariant, "id_of_type(%d) failed: %v", id, err)
	}
	v, ok := result.(int32)
	if !ok {
		return 0, errs.NewHeapErr(errs.UnknownVariant, "id_of_type returned unexpected type %T", result)
	}
	return uint32(v), nil
}
