package schema

import "strings"

// Kind identifies the kind of a GraphQL type.
type Kind string

// Type kinds reported by introspection.
const (
	KindObject      Kind = "OBJECT"
	KindScalar      Kind = "SCALAR"
	KindNonNull     Kind = "NON_NULL"
	KindList        Kind = "LIST"
	KindInterface   Kind = "INTERFACE"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindUnion       Kind = "UNION"
)

// TypeRef is a reference to a type, possibly wrapped in NON_NULL or LIST
// modifiers. Exactly one of Name or OfType leads to a concrete named type.
//
// The resolved *Type is filled in by the parser's inference pass; a TypeRef
// is not usable for validation before that pass has run.
type TypeRef struct {
	Kind   Kind     `json:"kind"`
	Name   string   `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`

	resolved *Type
}

// Resolved returns the named type this reference points at directly,
// or nil if the reference is a wrapper or unresolved.
func (r *TypeRef) Resolved() *Type {
	if r == nil {
		return nil
	}
	return r.resolved
}

// LeafName returns the name of the innermost named type after stripping
// all NON_NULL and LIST wrappers.
func (r *TypeRef) LeafName() string {
	if r == nil {
		return ""
	}
	if r.OfType == nil {
		return r.Name
	}
	return r.OfType.LeafName()
}

// Leaf returns the resolved innermost named type, or nil if the leaf name
// is not present in the registry the reference was resolved against.
func (r *TypeRef) Leaf() *Type {
	if r == nil {
		return nil
	}
	if r.OfType == nil {
		return r.resolved
	}
	return r.OfType.Leaf()
}

// String renders the reference in GraphQL type notation, e.g. "[Character!]".
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	inner := r.Name
	if r.OfType != nil {
		inner = r.OfType.String()
	}
	switch r.Kind {
	case KindNonNull:
		return inner + "!"
	case KindList:
		return "[" + inner + "]"
	default:
		return inner
	}
}

// resolve walks the reference chain and fills in the resolved type for
// every level from the given registry.
func (r *TypeRef) resolve(registry map[string]*Type) {
	r.resolved = registry[r.Name]
	if r.OfType != nil {
		r.OfType.resolve(registry)
	}
}

// InputValue describes an argument or input-object field.
type InputValue struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         *TypeRef `json:"type"`
	DefaultValue any      `json:"defaultValue,omitempty"`
}

// EnumValue describes one member of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Field describes an output field of an object or interface type.
type Field struct {
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Args              []*InputValue `json:"args,omitempty"`
	Type              *TypeRef      `json:"type"`
	IsDeprecated      bool          `json:"isDeprecated,omitempty"`
	DeprecationReason string        `json:"deprecationReason,omitempty"`
}

// Arg returns the input value with the given name, or nil.
func (f *Field) Arg(name string) *InputValue {
	for _, a := range f.Args {
		if a != nil && a.Name == name {
			return a
		}
	}
	return nil
}

// OutputType returns the resolved leaf type of the field, stripping any
// list and non-null wrappers.
func (f *Field) OutputType() *Type {
	if f == nil || f.Type == nil {
		return nil
	}
	return f.Type.Leaf()
}

// Directive describes a directive declared by the schema.
type Directive struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Locations   []string      `json:"locations,omitempty"`
	Args        []*InputValue `json:"args,omitempty"`
}

// Arg returns the directive argument with the given name, or nil.
func (d *Directive) Arg(name string) *InputValue {
	for _, a := range d.Args {
		if a != nil && a.Name == name {
			return a
		}
	}
	return nil
}

// Type is a named GraphQL type: object, scalar, interface, enum, input
// object or union.
type Type struct {
	Kind          Kind          `json:"kind"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Fields        []*Field      `json:"fields,omitempty"`
	InputFields   []*InputValue `json:"inputFields,omitempty"`
	Interfaces    []*TypeRef    `json:"interfaces,omitempty"`
	EnumValues    []*EnumValue  `json:"enumValues,omitempty"`
	PossibleTypes []*TypeRef    `json:"possibleTypes,omitempty"`

	fieldIndex map[string]*Field
}

// Field returns the output field with the given name, or nil. Lookups go
// through an index built once after parsing; if the schema ever reported
// duplicate field names the last one wins.
func (t *Type) Field(name string) *Field {
	if t == nil {
		return nil
	}
	return t.fieldIndex[name]
}

// FieldNames returns the names of all output fields in declaration order.
func (t *Type) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f != nil {
			names = append(names, f.Name)
		}
	}
	return names
}

// String returns a short description like "OBJECT Character".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return strings.TrimSpace(string(t.Kind) + " " + t.Name)
}

// buildIndex constructs the name-to-field lookup.
func (t *Type) buildIndex() {
	t.fieldIndex = make(map[string]*Field, len(t.Fields))
	for _, f := range t.Fields {
		if f != nil {
			t.fieldIndex[f.Name] = f
		}
	}
}

// inferTypes resolves every TypeRef contained in this type against the
// registry: field types, input field types, interfaces and possible types.
func (t *Type) inferTypes(registry map[string]*Type) {
	for _, f := range t.Fields {
		if f != nil && f.Type != nil {
			f.Type.resolve(registry)
		}
		if f == nil {
			continue
		}
		for _, a := range f.Args {
			if a != nil && a.Type != nil {
				a.Type.resolve(registry)
			}
		}
	}
	for _, in := range t.InputFields {
		if in != nil && in.Type != nil {
			in.Type.resolve(registry)
		}
	}
	for _, i := range t.Interfaces {
		if i != nil {
			i.resolve(registry)
		}
	}
	for _, p := range t.PossibleTypes {
		if p != nil {
			p.resolve(registry)
		}
	}
}
