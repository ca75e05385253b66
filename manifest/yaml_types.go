package manifest

import "github.com/chainindex/corert/datasource"

// FieldYAML is one GraphQL-schema field declaration, matching the subset of
// schema.graphql the original's SchemaLookup::new_from_graphql_schema
// extracts (field name and its store.FieldKind, spelled the same as the
// names store.ValueKind's String method returns).
type FieldYAML struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// EntityYAML is one `type Foo @entity { ... }` block.
type EntityYAML struct {
	Name   string      `yaml:"name"`
	Fields []FieldYAML `yaml:"fields"`
}

// SchemaYAML is the parsed shape of a subgraph's schema.graphql, manifest
// loading's wire format for the entity schema (manifest loading itself is
// out of scope; this type exists so a real loader has a concrete target to
// unmarshal into, per SPEC_FULL.md's domain stack).
type SchemaYAML struct {
	Entities []EntityYAML `yaml:"entities"`
}

// DatasourceYAML is one `subgraph.yaml` document: the top-level dataSources
// and templates lists, matching manifest_loader/loaders.rs's SubgraphYaml.
type DatasourceYAML struct {
	SpecVersion string                  `yaml:"specVersion"`
	Schema      struct {
		File string `yaml:"file"`
	} `yaml:"schema"`
	DataSources []datasource.Descriptor `yaml:"dataSources"`
	Templates   []datasource.Descriptor `yaml:"templates"`
}
