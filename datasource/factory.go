package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/chain"
	"github.com/chainindex/corert/wasmhost"
)

// Instance is a compiled, handler-bound datasource: a wasmhost.Instance
// plus the Descriptor it was built from, as
// components/subgraph/datasource_wasm_instance.rs's DatasourceWasmInstance
// pairs a Datasource with its AscHost.
type Instance struct {
	Descriptor Descriptor
	Host       *wasmhost.Instance
}

// New compiles code against the host import table factory and binds every
// handler export named in descriptor.Mapping, failing fast if any export is
// missing (mirroring Handler::new's InvalidHandlerName error).
func New(descriptor Descriptor, code []byte, abi asc.ABIVersion, imports wasmhost.Config, log logrus.FieldLogger) (*Instance, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	imports.Code = code
	imports.ABI = abi
	imports.DataSource = descriptor.Name
	imports.Log = log

	host, err := wasmhost.New(imports)
	if err != nil {
		return nil, fmt.Errorf("datasource %s: %w", descriptor.Name, err)
	}

	inst := &Instance{Descriptor: descriptor, Host: host}
	for _, h := range descriptor.Mapping.BlockHandlers {
		if err := host.BindHandler("block", h.Handler); err != nil {
			return nil, fmt.Errorf("datasource %s: %w", descriptor.Name, err)
		}
	}
	for _, h := range descriptor.Mapping.EventHandlers {
		if err := host.BindHandler("event", h.Handler); err != nil {
			return nil, fmt.Errorf("datasource %s: %w", descriptor.Name, err)
		}
	}
	for _, h := range descriptor.Mapping.TransactionHandlers {
		if err := host.BindHandler("transaction", h.Handler); err != nil {
			return nil, fmt.Errorf("datasource %s: %w", descriptor.Name, err)
		}
	}
	return inst, nil
}

// InvokeBlockHandler marshals block into the guest's memory as an
// AscEthereumBlock and calls the named block handler export.
func (inst *Instance) InvokeBlockHandler(name string, block chain.BlockData) error {
	fn, ok := inst.Host.BlockHandler(name)
	if !ok {
		return fmt.Errorf("datasource %s: no bound block handler %q", inst.Descriptor.Name, name)
	}
	ptr, err := block.ToAsc(inst.Host)
	if err != nil {
		return fmt.Errorf("datasource %s: marshal block for handler %q: %w", inst.Descriptor.Name, name, err)
	}
	return inst.Host.Invoke(fn, ptr)
}

// InvokeEventHandler marshals event into the guest's memory as an
// AscEthereumEvent and calls the named event handler export.
func (inst *Instance) InvokeEventHandler(name string, event chain.EventData) error {
	fn, ok := inst.Host.EventHandler(name)
	if !ok {
		return fmt.Errorf("datasource %s: no bound event handler %q", inst.Descriptor.Name, name)
	}
	ptr, err := event.ToAsc(inst.Host)
	if err != nil {
		return fmt.Errorf("datasource %s: marshal event for handler %q: %w", inst.Descriptor.Name, name, err)
	}
	return inst.Host.Invoke(fn, ptr)
}

// InvokeTransactionHandler marshals tx into the guest's memory as an
// AscEthereumTransaction and calls the named transaction handler export.
func (inst *Instance) InvokeTransactionHandler(name string, tx chain.TransactionData) error {
	fn, ok := inst.Host.TransactionHandler(name)
	if !ok {
		return fmt.Errorf("datasource %s: no bound transaction handler %q", inst.Descriptor.Name, name)
	}
	ptr, err := tx.ToAsc(inst.Host)
	if err != nil {
		return fmt.Errorf("datasource %s: marshal transaction for handler %q: %w", inst.Descriptor.Name, name, err)
	}
	return inst.Host.Invoke(fn, ptr)
}

// EventHandlerFor resolves which bound handler (if any) a datasource
// declares for the given event signature, matching EventHandler.event.
func (d Descriptor) EventHandlerFor(signature string) (string, bool) {
	for _, h := range d.Mapping.EventHandlers {
		if h.Event == signature {
			return h.Handler, true
		}
	}
	return "", false
}

// BlockHandlerNames returns every block-handler export name bound by this
// datasource, in manifest order.
func (d Descriptor) BlockHandlerNames() []string {
	names := make([]string, len(d.Mapping.BlockHandlers))
	for i, h := range d.Mapping.BlockHandlers {
		names[i] = h.Handler
	}
	return names
}

// TransactionHandlerNames returns every transaction-handler export name
// bound by this datasource, in manifest order.
func (d Descriptor) TransactionHandlerNames() []string {
	names := make([]string, len(d.Mapping.TransactionHandlers))
	for i, h := range d.Mapping.TransactionHandlers {
		names[i] = h.Handler
	}
	return names
}
