package selection

import (
	"strings"

	"github.com/gqlwire/gqlwire/pkg/schema"
)

// PreparedDirective is a directive validated against a schema.
type PreparedDirective struct {
	Name            string
	SchemaDirective *schema.Directive
}

// Render returns the GraphQL form of the directive, e.g. "@include".
func (d *PreparedDirective) Render() string {
	return "@" + d.Name
}

// PreparedField is a field validated against a schema. It carries
// resolved links to the schema entities it was checked with and must not
// be modified after preparation.
type PreparedField struct {
	ParentType *schema.Type
	FieldType  *schema.Field
	Name       string
	Alias      string
	Directive  *PreparedDirective
	SubFields  *PreparedSet
}

// Render returns the GraphQL form: [alias: ]name[ @directive][ { sub }].
func (f *PreparedField) Render() string {
	var b strings.Builder
	if f.Alias != "" {
		b.WriteString(f.Alias)
		b.WriteString(": ")
	}
	b.WriteString(f.Name)
	if f.Directive != nil {
		b.WriteByte(' ')
		b.WriteString(f.Directive.Render())
	}
	if f.SubFields != nil && len(f.SubFields.Fields) > 0 {
		b.WriteString(" { ")
		b.WriteString(f.SubFields.Render())
		b.WriteString(" }")
	}
	return b.String()
}

// PreparedSet is a selection set validated against a schema, ready for
// rendering. Prepared sets are created once per execution request and
// never cached across schemas.
type PreparedSet struct {
	Fields []*PreparedField
}

// Render returns the space-joined GraphQL selection set text. Rendering
// is deterministic and preserves the first-occurrence order of the
// unprepared set.
func (s *PreparedSet) Render() string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		parts = append(parts, f.Render())
	}
	return strings.Join(parts, " ")
}

// Prepare validates the set against the parent type and schema and
// returns the immutable prepared tree.
//
// Per field, in order: the name must be non-empty; the parent type must
// declare the field; an attached directive must exist in the schema's
// directive registry; a sub-selection is prepared against the field's
// resolved output leaf type.
func (s *Set) Prepare(parent *schema.Type, sch *schema.Schema) (*PreparedSet, error) {
	prepared := &PreparedSet{Fields: make([]*PreparedField, 0, s.Len())}
	for _, f := range s.Selected() {
		pf, err := f.Prepare(parent, sch)
		if err != nil {
			return nil, err
		}
		prepared.Fields = append(prepared.Fields, pf)
	}
	return prepared, nil
}

// Prepare validates a single field against the parent type and schema.
func (f *Field) Prepare(parent *schema.Type, sch *schema.Schema) (*PreparedField, error) {
	if f.Name == "" {
		return nil, &ValidationError{Reason: "field name must not be empty"}
	}

	schemaField := parent.Field(f.Name)
	if schemaField == nil {
		return nil, &ValidationError{Field: f.Name, Type: parent.Name}
	}

	pf := &PreparedField{
		ParentType: parent,
		FieldType:  schemaField,
		Name:       f.Name,
		Alias:      f.Alias,
	}

	if f.Directive != nil {
		pd, err := f.Directive.Prepare(sch)
		if err != nil {
			return nil, err
		}
		pf.Directive = pd
	}

	if f.SubFields != nil && f.SubFields.Len() > 0 {
		leaf := schemaField.Type.Leaf()
		if leaf == nil {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: "output type " + schemaField.Type.LeafName() + " is not in the schema",
			}
		}
		sub, err := f.SubFields.Prepare(leaf, sch)
		if err != nil {
			return nil, err
		}
		pf.SubFields = sub
	}
	return pf, nil
}

// Prepare validates the directive against the schema's directive
// registry.
func (d *Directive) Prepare(sch *schema.Schema) (*PreparedDirective, error) {
	if d.Name == "" {
		return nil, &ValidationError{Reason: "directive name must not be empty"}
	}
	schemaDirective := sch.Directive(d.Name)
	if schemaDirective == nil {
		return nil, &ValidationError{Directive: d.Name}
	}
	return &PreparedDirective{Name: d.Name, SchemaDirective: schemaDirective}, nil
}
