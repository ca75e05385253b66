// Package datasource implements the Datasource Instance Factory (spec
// section 4.6): parsing a subgraph manifest's datasource block and
// compiling it, together with its WASM bytes, into a live handler-bound
// wasmhost.Instance. Grounded on
// original_source/src/manifest_loader/loaders.rs's SubgraphYaml/Datasource
// and src/components/subgraph/datasource_wasm_instance.rs's
// DatasourceWasmInstance/Handler.
package datasource

// MappingABI names an ABI file a datasource's mapping references, matching
// common/base.rs's MappingABI.
type MappingABI struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// EventHandler binds a named Solidity event signature to a WASM export.
type EventHandler struct {
	Event   string `yaml:"event"`
	Handler string `yaml:"handler"`
}

// BlockHandler binds an optional block filter to a WASM export. The
// pipeline controller does not apply Filter: every block handler is invoked
// on every block.
type BlockHandler struct {
	Filter  string `yaml:"filter,omitempty"`
	Handler string `yaml:"handler"`
}

// TransactionHandler binds an optional transaction filter to a WASM export.
type TransactionHandler struct {
	Filter  string `yaml:"filter,omitempty"`
	Handler string `yaml:"handler"`
}

// Mapping is a datasource's handler table, matching common/base.rs's
// Mapping.
type Mapping struct {
	Kind                string               `yaml:"kind"`
	APIVersion          string               `yaml:"apiVersion"`
	Entities            []string             `yaml:"entities"`
	ABIs                []MappingABI         `yaml:"abis"`
	EventHandlers       []EventHandler       `yaml:"eventHandlers,omitempty"`
	BlockHandlers       []BlockHandler       `yaml:"blockHandlers,omitempty"`
	TransactionHandlers []TransactionHandler `yaml:"transactionHandlers,omitempty"`
	File                string               `yaml:"file"`
}

// Source identifies which contract (and from which block) a datasource
// observes. Address and StartBlock are both optional: templates (spec
// SPEC_FULL.md supplemented feature) are instantiated without either,
// taking both from the event that creates them.
type Source struct {
	Address    string  `yaml:"address,omitempty"`
	ABI        string  `yaml:"abi"`
	StartBlock *uint64 `yaml:"startBlock,omitempty"`
}

// Descriptor is one `dataSources[]` (or `templates[]`) entry of a subgraph
// manifest, matching common/base.rs's Datasource.
type Descriptor struct {
	Kind    string  `yaml:"kind"`
	Name    string  `yaml:"name"`
	Network string  `yaml:"network"`
	Source  Source  `yaml:"source"`
	Mapping Mapping `yaml:"mapping"`
}

// HandlerKind distinguishes the three handler tables a Descriptor's
// Mapping can populate, matching common/base.rs's HandlerTypes.
type HandlerKind int

const (
	HandlerBlock HandlerKind = iota
	HandlerEvent
	HandlerTransaction
)
