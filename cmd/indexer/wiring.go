// Package main is the `cmd/indexer` entrypoint (spec section 1's closing
// note, SPEC_FULL.md's DOMAIN STACK): a cobra CLI that wires a reference
// ManifestAgent/ExternStore/RPCAgent triple into the Block Pipeline
// Controller for local/dev use, exactly as spec section 1 scopes the real
// block source, manifest loader and persistent store out as external
// collaborators this binary only stands in for.
package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/chainindex/corert/asc"
	"github.com/chainindex/corert/datasource"
	"github.com/chainindex/corert/hostexports"
	"github.com/chainindex/corert/manifest"
	"github.com/chainindex/corert/pipeline"
	"github.com/chainindex/corert/pkg/config"
	"github.com/chainindex/corert/rpc"
	"github.com/chainindex/corert/store"
	"github.com/chainindex/corert/wasmhost"
)

// runtime bundles every long-lived collaborator the serve command and the
// debug HTTP surface both need a handle on.
type runtime struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *store.Store
	rpcAgent *rpc.MemoryAgent
	manifest *manifest.MemoryAgent
	contexts *hostexports.ContextStore
	pipeline *pipeline.Controller
}

// unconfiguredCaller is the reference RPC transport: spec section 1 scopes
// an actual JSON-RPC client out, so every call fails loudly rather than
// silently returning zero values a mapping could mistake for a real
// contract response.
func unconfiguredCaller(ctx context.Context, blockPtr store.BlockPtr, call rpc.CallRequest) (rpc.CallResponse, error) {
	return rpc.CallResponse{}, fmt.Errorf("no JSON-RPC transport configured: cannot call %s.%s at block %d", call.ContractName, call.FunctionName, blockPtr.Number)
}

// buildRuntime constructs the reference collaborators described in
// SPEC_FULL.md's "ships minimal in-memory/reference implementations only
// good enough to exercise and test the core": no real JSON-RPC transport,
// no real manifest loader, no real block source. ProcessBlock is exercised
// by whatever feeds BlockMessages into the returned controller.
func buildRuntime(cfg *config.Config, log *logrus.Logger) (*runtime, error) {
	extern, err := store.NewMemoryExternStore(store.MemoryExternStoreConfig{
		WALPath: cfg.Store.DBPath,
		Log:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("build extern store: %w", err)
	}

	schema := store.Schema{}
	st := store.New(extern, schema, log)
	if err := st.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	rpcAgent, err := rpc.NewMemoryAgent(rpc.MemoryAgentConfig{
		Caller:    unconfiguredCaller,
		CacheSize: cfg.RPC.CacheSize,
		RateLimit: rate.Limit(cfg.RPC.RateLimit),
		Burst:     cfg.RPC.Burst,
		Log:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("build rpc agent: %w", err)
	}

	manifestAgent := manifest.NewMemoryAgent(manifest.MemoryAgentConfig{
		Bundle: manifest.Bundle{
			Schema:      schema,
			ABIs:        map[string][]byte{},
			WASMs:       map[string][]byte{},
			Templates:   map[string]datasource.Descriptor{},
			Datasources: nil,
		},
		Log: log,
	})

	contexts := hostexports.NewContextStore()

	inspector := pipeline.NewInspector(nil, pipeline.StartAt(0), uint16(cfg.Pipeline.ReorgThreshold), log)

	controller := pipeline.New(pipeline.Config{
		Store:         st,
		RPC:           rpcAgent,
		Manifest:      manifestAgent,
		Inspector:     inspector,
		CommitEvery:   cfg.Pipeline.CommitEvery,
		FlushEvery:    cfg.Pipeline.FlushEvery,
		ProgressEvery: cfg.Pipeline.ProgressEvery,
		Log:           log,
	})

	return &runtime{
		cfg:      cfg,
		log:      log,
		store:    st,
		rpcAgent: rpcAgent,
		manifest: manifestAgent,
		contexts: contexts,
		pipeline: controller,
	}, nil
}

// importsFor returns the host-export import-table factory for a datasource
// with the given identity, bound to this runtime's shared collaborators.
func (r *runtime) importsFor(name, network, address string) hostexports.BuildConfig {
	return hostexports.BuildConfig{
		Store:          r.store,
		RPC:            r.rpcAgent,
		Manifest:       r.manifest,
		Contexts:       r.contexts,
		DatasourceName: name,
		Network:        network,
		Address:        address,
		Log:            r.log,
	}
}

// abiVersionOf maps a mapping's declared apiVersion string onto asc.ABIVersion,
// defaulting to the current dialect (V0_0_5) for anything not exactly "0.0.4".
func abiVersionOf(apiVersion string) asc.ABIVersion {
	if apiVersion == "0.0.4" {
		return asc.V0_0_4
	}
	return asc.V0_0_5
}

// instantiateBound compiles every WASM module the manifest agent already
// holds against this runtime's host-export table and binds it into the
// pipeline controller, the wiring step a real manifest loader's resolved
// Bundle would trigger at startup (spec section 4.6's Datasource Instance
// Factory, spec section 4.8's Manifest Agent). A reference manifest with
// no WASMs loaded (the out-of-the-box default) makes this a no-op.
func (r *runtime) instantiateBound() error {
	for _, provenanced := range r.manifest.Datasources() {
		descriptor := provenanced.Descriptor
		code, ok := r.manifest.GetWasm(descriptor.Name)
		if !ok {
			continue
		}
		buildCfg := r.importsFor(descriptor.Name, descriptor.Network, descriptor.Source.Address)
		inst, err := datasource.New(descriptor, code, abiVersionOf(descriptor.Mapping.APIVersion), wasmhost.Config{
			Imports: hostexports.Build(buildCfg),
		}, r.log)
		if err != nil {
			return fmt.Errorf("instantiate datasource %s: %w", descriptor.Name, err)
		}
		r.pipeline.CreateSource(inst)
	}
	return nil
}
