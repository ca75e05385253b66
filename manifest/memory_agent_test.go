package manifest

import (
	"testing"

	"github.com/chainindex/corert/datasource"
	"github.com/chainindex/corert/store"
)

func newTestAgent() *MemoryAgent {
	return NewMemoryAgent(MemoryAgentConfig{
		Bundle: Bundle{
			Schema: store.Schema{
				"Token": store.EntitySchema{"id": store.FieldKind{Kind: store.KindString}},
			},
			WASMs: map[string][]byte{"Factory": {0x00, 0x61, 0x73, 0x6d}},
			Templates: map[string]datasource.Descriptor{
				"Pool": {
					Kind: "ethereum",
					Name: "Pool",
					Source: datasource.Source{
						ABI: "Pool",
					},
				},
			},
			Datasources: []datasource.Descriptor{
				{Kind: "ethereum", Name: "Factory", Source: datasource.Source{Address: "0xfactory"}},
			},
		},
	})
}

func TestMemoryAgentInitialDatasourcesHaveNoProvenance(t *testing.T) {
	a := newTestAgent()
	ds := a.Datasources()
	if len(ds) != 1 {
		t.Fatalf("got %d datasources, want 1", len(ds))
	}
	if ds[0].FromTemplate != "" {
		t.Fatalf("initial datasource should have no FromTemplate, got %q", ds[0].FromTemplate)
	}
}

func TestMemoryAgentCreateDatasourceStampsAddressAndBlock(t *testing.T) {
	a := newTestAgent()
	a.SetBlockPtr(store.BlockPtr{Number: 42})

	created, err := a.CreateDatasource("Pool", "0xABCDEF")
	if err != nil {
		t.Fatal(err)
	}
	if created.Source.Address != "0xabcdef" {
		t.Fatalf("address not lowercased: %q", created.Source.Address)
	}
	if created.Source.StartBlock == nil || *created.Source.StartBlock != 42 {
		t.Fatalf("startBlock not stamped: %+v", created.Source.StartBlock)
	}

	ds := a.Datasources()
	if len(ds) != 2 {
		t.Fatalf("got %d datasources, want 2", len(ds))
	}
	last := ds[len(ds)-1]
	if last.FromTemplate != "Pool" || last.CreatedAtBlock != 42 {
		t.Fatalf("unexpected provenance: %+v", last)
	}
}

func TestMemoryAgentCreateDatasourceUnknownTemplate(t *testing.T) {
	a := newTestAgent()
	if _, err := a.CreateDatasource("Nonexistent", "0x1"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestMemoryAgentCreateDatasourceEmptyAddress(t *testing.T) {
	a := newTestAgent()
	if _, err := a.CreateDatasource("Pool", ""); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestMemoryAgentMinStartBlock(t *testing.T) {
	a := newTestAgent()
	if got := a.MinStartBlock(); got != 0 {
		t.Fatalf("got %d, want 0 (no datasource declares startBlock)", got)
	}

	a.SetBlockPtr(store.BlockPtr{Number: 100})
	if _, err := a.CreateDatasource("Pool", "0x1"); err != nil {
		t.Fatal(err)
	}
	if got := a.MinStartBlock(); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
}

func TestMemoryAgentGetWasm(t *testing.T) {
	a := newTestAgent()
	if _, ok := a.GetWasm("Factory"); !ok {
		t.Fatal("expected wasm bytes for Factory")
	}
	if _, ok := a.GetWasm("Missing"); ok {
		t.Fatal("expected no wasm bytes for Missing")
	}
}
