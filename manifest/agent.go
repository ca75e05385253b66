// Package manifest implements the Manifest Agent (spec section 5's "manifest
// agent supports concurrent read of datasource/ABI tables and single-writer
// mutation during template creation"). Grounded on
// original_source/src/components/manifest/mod.rs's ManifestAgent/
// ManifestBundle: static datasources and templates loaded up front, plus
// runtime-created datasources instantiated from a template by an event
// handler (the `datasource.create`/`datasource.createWithContext` host
// exports).
package manifest

import (
	"github.com/chainindex/corert/datasource"
	"github.com/chainindex/corert/store"
)

// ProvenancedDatasource pairs a live Descriptor with where it came from,
// the supplemented feature (SPEC_FULL.md) of recording template name and
// creating block number alongside runtime-instantiated datasources.
type ProvenancedDatasource struct {
	Descriptor     datasource.Descriptor
	FromTemplate   string
	CreatedAtBlock uint64
}

// Agent is the Manifest Agent contract the Block Pipeline Controller and
// host exports depend on (pipeline.ManifestAgent is a subset of this).
type Agent interface {
	SetBlockPtr(ptr store.BlockPtr)
	Datasources() []ProvenancedDatasource
	CreateDatasource(templateName, address string) (datasource.Descriptor, error)
	Schema(entityType string) (store.EntitySchema, bool)
}
