package store

// ModeSchema selects whether a schema namespace accepts writes, matching
// common::base::ModeSchema.
type ModeSchema int

const (
	ModeReadWrite ModeSchema = iota
	ModeReadOnly
)

// SchemaConfig describes one subgraph schema's storage mode, matching
// common::base::SchemaConfig.
type SchemaConfig struct {
	Mode      ModeSchema
	Namespace string
	Interval  uint64
}

// FieldKind describes one entity field's relation to another entity type,
// matching common::base::FieldKind. Relation is empty when the field is a
// scalar, not a reference.
type FieldKind struct {
	Kind          ValueKind
	Relation      string // related EntityType, empty if not a relation
	ListInnerKind ValueKind
	IsList        bool
}

// EntitySchema maps FieldName -> FieldKind for one entity type.
type EntitySchema map[string]FieldKind

// Schema maps EntityType -> EntitySchema for an entire subgraph, matching
// common::base::Schema (a BTreeMap<FieldName, FieldKind> per entity type,
// here expanded one level to cover every entity type in the subgraph).
type Schema map[string]EntitySchema

// RelationField reports which entity type a given (entityType, fieldName)
// relation field points at, the Go equivalent of
// Schemas::get_relation_field used by Store.LoadRelated.
func (s Schema) RelationField(entityType, fieldName string) (relationTable string, ok bool) {
	et, ok := s[entityType]
	if !ok {
		return "", false
	}
	fk, ok := et[fieldName]
	if !ok || fk.Relation == "" {
		return "", false
	}
	return fk.Relation, true
}
